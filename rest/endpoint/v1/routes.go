package endpoint

import (
	"net/http"
	"path"

	"github.com/avido/experiments-data-api/config"
	"github.com/avido/experiments-data-api/log"
	"github.com/avido/experiments-data-api/service"
	"github.com/avido/experiments-data-api/types"
	"github.com/julienschmidt/httprouter"
)

type routeList struct {
	svc    *service.Service
	logger log.Logger
	params func(*http.Request, string) string
}

func newRouteList(svc *service.Service, logger log.Logger) *routeList {
	return &routeList{
		svc:    svc,
		logger: logger,
		params: func(r *http.Request, name string) string {
			return httprouter.ParamsFromContext(r.Context()).ByName(name)
		},
	}
}

// Routes returns the collection routes under prefix, limited to the enabled resources
func Routes(prefix string, resources config.Resources, svc *service.Service, logger log.Logger) []types.Route {
	rl := newRouteList(svc, logger)

	candidates := []struct {
		resource config.Resources
		route    types.Route
	}{
		{config.Tasks, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "tasks"),
			Handler: http.HandlerFunc(rl.GetTasks),
		}},
		{config.Tests, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "tests"),
			Handler: http.HandlerFunc(rl.GetTests),
		}},
		{config.Evals, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "evals"),
			Handler: http.HandlerFunc(rl.GetEvals),
		}},
		{config.Experiments, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "experiments"),
			Handler: http.HandlerFunc(rl.GetExperiments),
		}},
		{config.Variants, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "experiments", ":id", "variants"),
			Handler: http.HandlerFunc(rl.GetVariants),
		}},
		{config.Steps, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join(prefix, "steps"),
			Handler: http.HandlerFunc(rl.GetSteps),
		}},
	}

	routes := make([]types.Route, 0, len(candidates))
	for _, c := range candidates {
		if resources.IsEnabled(c.resource) {
			routes = append(routes, c.route)
		}
	}
	return routes
}

// RouteOpenAPI serves the OpenAPI document stored in file
func RouteOpenAPI(pattern string, file string, logger log.Logger) types.Route {
	return types.Route{
		Method:  http.MethodGet,
		Pattern: pattern,
		Handler: openAPIHandler(file, logger),
	}
}
