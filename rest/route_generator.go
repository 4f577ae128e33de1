package rest

import (
	"github.com/avido/experiments-data-api/config"
	restEndpointV1 "github.com/avido/experiments-data-api/rest/endpoint/v1"
	"github.com/avido/experiments-data-api/service"
	"github.com/avido/experiments-data-api/types"
)

type RouteGenerator struct {
	svc    *service.Service
	config config.Config
}

func NewRouteGenerator(svc *service.Service, cfg config.Config) *RouteGenerator {
	return &RouteGenerator{
		svc:    svc,
		config: cfg,
	}
}

// Routes returns the collection routes enabled in the config, rooted at prefix
func (g *RouteGenerator) Routes(prefix string) []types.Route {
	return restEndpointV1.Routes(prefix, g.config.Resources(), g.svc, g.config.Logger())
}

// RouteOpenAPI returns the route serving the OpenAPI document at pattern
func (g *RouteGenerator) RouteOpenAPI(pattern string, file string) types.Route {
	return restEndpointV1.RouteOpenAPI(pattern, file, g.config.Logger())
}
