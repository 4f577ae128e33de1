package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avido/experiments-data-api/auth"
	"github.com/avido/experiments-data-api/config"
	"github.com/avido/experiments-data-api/db"
	. "github.com/avido/experiments-data-api/internal/testutil"
	"github.com/avido/experiments-data-api/internal/testutil/rest"
	"github.com/avido/experiments-data-api/types"
	"github.com/gocql/gocql"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
)

func ids(records []map[string]interface{}) []string {
	result := make([]string, 0, len(records))
	for _, r := range records {
		result = append(result, r["id"].(string))
	}
	return result
}

func mustMarshal(value interface{}) string {
	b, err := json.Marshal(value)
	Expect(err).ToNot(HaveOccurred())
	return string(b)
}

func withOrgHandler(routes []types.Route) []types.Route {
	result := make([]types.Route, len(routes))
	for i, route := range routes {
		route.Handler = auth.NewOrgHandler(route.Handler)
		result[i] = route
	}
	return result
}

var _ = Describe("DataEndpoint", func() {
	var (
		cfg      *DataEndpointConfig
		endpoint *DataEndpoint
	)

	BeforeEach(func() {
		cfg = NewEndpointConfigWithLogger(TestLogger()).WithRefreshInterval(0)
	})

	JustBeforeEach(func() {
		var err error
		endpoint, err = cfg.NewEndpoint(context.Background())
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		endpoint.Stop()
	})

	Describe("RoutesREST()", func() {
		It("Should list failed tests of a task", func() {
			var records []map[string]interface{}
			w := rest.ExecuteGet(endpoint.RoutesREST("/api"), "/api/tests?taskId=task-1&status=failed", &records, nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(ids(records)).To(Equal([]string{"test-102"}))
			Expect(w.Header().Get("X-Total-Count")).To(Equal("1"))
		})

		It("Should page through tests", func() {
			routes := endpoint.RoutesREST("/api")

			var first []map[string]interface{}
			w := rest.ExecuteGet(routes, "/api/tests?taskId=task-1&sort=id&order=asc&pageSize=2", &first, nil)
			Expect(ids(first)).To(Equal([]string{"test-099", "test-100"}))
			pageState := w.Header().Get("X-Page-State")
			Expect(pageState).ToNot(BeEmpty())

			var second []map[string]interface{}
			w = rest.ExecuteGet(routes, "/api/tests?taskId=task-1&sort=id&order=asc&pageSize=2&pageState="+pageState, &second, nil)
			Expect(ids(second)).To(Equal([]string{"test-101", "test-102"}))
			Expect(w.Header().Get("X-Page-State")).To(BeEmpty())
		})

		It("Should report a missing org id", func() {
			w := rest.ExecuteGet(endpoint.RoutesREST("/api"), "/api/experiments", nil, nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			ExpectJSON(w.Body.String(), `{"description": "orgId query parameter is required"}`)
		})

		It("Should take the org id from the header", func() {
			routes := withOrgHandler(endpoint.RoutesREST("/api"))

			var records []map[string]interface{}
			w := rest.ExecuteGet(routes, "/api/experiments/exp-1/variants", &records,
				http.Header{auth.OrgIDHeader: []string{"org-1"}})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(ids(records)).To(Equal([]string{"var-1", "var-2", "var-3"}))

			metrics := records[0]["metrics"].(map[string]interface{})
			Expect(metrics["totalTests"]).To(BeEquivalentTo(2))
			Expect(metrics["passRate"]).To(BeEquivalentTo(50))
		})

		It("Should deny variants of another org", func() {
			w := rest.ExecuteGet(withOrgHandler(endpoint.RoutesREST("/api")), "/api/experiments/exp-3/variants", nil,
				http.Header{auth.OrgIDHeader: []string{"org-1"}})
			Expect(w.Code).To(Equal(http.StatusForbidden))
			ExpectJSON(w.Body.String(), `{"description": "Access denied"}`)
		})

		Context("With a subset of resources", func() {
			BeforeEach(func() {
				cfg.WithResources(config.Tasks)
			})

			It("Should only route enabled resources", func() {
				routes := endpoint.RoutesREST("/api")
				Expect(routes).To(HaveLen(1))
				Expect(routes[0].Pattern).To(Equal("/api/tasks"))
			})
		})
	})

	Describe("RoutesGraphQL()", func() {
		It("Should query steps", func() {
			routes, err := endpoint.RoutesGraphQL("/graphql")
			Expect(err).ToNot(HaveOccurred())
			Expect(routes).To(HaveLen(2))

			w := rest.ExecutePost(routes, "/graphql",
				`{"query": "{ steps(filter: {orgId: \"org-1\", q: \"moderator\"}) { values { id externalId type } total } }"}`,
				nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			ExpectJSON(w.Body.String(), `{
				"data": {
					"steps": {
						"values": [{"id": "step-1", "externalId": "input_moderator", "type": "PROCESSING"}],
						"total": 1
					}
				}
			}`)
		})

		It("Should report service errors", func() {
			routes, err := endpoint.RoutesGraphQL("/graphql")
			Expect(err).ToNot(HaveOccurred())

			w := rest.ExecutePost(routes, "/graphql",
				`{"query": "{ variants(filter: {orgId: \"org-1\", experimentId: \"exp-404\"}) { values { id } } }"}`,
				nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Experiment not found"))
		})
	})

	Describe("RouteOpenAPI()", func() {
		It("Should report a missing document", func() {
			w := rest.ExecuteGet([]types.Route{endpoint.RouteOpenAPI("/openapi.json")}, "/openapi.json", nil, nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("OpenAPI spec not found"))
		})
	})

	Describe("RoutePlayground()", func() {
		It("Should render the playground page", func() {
			w := rest.ExecuteGet([]types.Route{endpoint.RoutePlayground("/graphql-playground", "/graphql")},
				"/graphql-playground", nil, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("GraphQLPlayground"))
		})
	})

	Describe("Instrument()", func() {
		It("Should expose request metrics", func() {
			routes := endpoint.Instrument(endpoint.RoutesREST("/api"))
			routes = append(routes, endpoint.RouteMetrics("/metrics"))

			rest.ExecuteGet(routes, "/api/tasks", nil, nil)
			w := rest.ExecuteGet(routes, "/metrics", nil, nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(
				`data_api_http_requests_total{method="GET",route="/api/tasks",status="200"} 1`))
			Expect(w.Body.String()).To(ContainSubstring("data_api_snapshot_refreshes_total 1"))
		})
	})
})

var _ = Describe("DataEndpointConfig", func() {
	It("Should implement config.Config", func() {
		var cfg config.Config = NewEndpointConfigWithLogger(TestLogger())
		Expect(cfg.Resources()).To(Equal(config.AllResources))
		Expect(cfg.RefreshInterval()).To(Equal(DefaultRefreshInterval))
		Expect(cfg.Naming().ToTable("evalDefinitions")).To(Equal("eval_definitions"))
	})

	It("Should reject unsupported sources", func() {
		_, err := NewEndpointConfigWithLogger(TestLogger()).WithSource("parquet").NewEndpoint(context.Background())
		Expect(err).To(MatchError("unsupported source 'parquet'"))
	})

	It("Should require hosts and keyspace for cassandra", func() {
		_, err := NewEndpointConfigWithLogger(TestLogger()).WithSource(SourceCassandra).NewEndpoint(context.Background())
		Expect(err).To(MatchError("hosts are required for the cassandra source"))

		_, err = NewEndpointConfigWithLogger(TestLogger(), "127.0.0.1").
			WithSource(SourceCassandra).
			NewEndpoint(context.Background())
		Expect(err).To(MatchError("keyspace is required for the cassandra source"))
	})

	Context("With a cassandra session", func() {
		var sessionMock *db.SessionMock

		BeforeEach(func() {
			sessionMock = &db.SessionMock{}
			tables := make(map[string]*gocql.TableMetadata)
			for _, name := range []string{"tasks", "tests", "evals", "eval_definitions", "experiments", "variants", "steps"} {
				tables[name] = db.NewTableMetadata("avido", name,
					db.ColumnDef{Name: "id", Type: gocql.TypeText},
					db.ColumnDef{Name: "name", Type: gocql.TypeText})
			}
			sessionMock.On("KeyspaceMetadata", "avido").Return(&gocql.KeyspaceMetadata{Name: "avido", Tables: tables}, nil)
		})

		It("Should serve collections read from the keyspace", func() {
			id, name := "task-9", "Chargeback Triage"
			sessionMock.On("ExecuteIter", `SELECT * FROM "avido"."tasks"`, mock.Anything, mock.Anything).
				Return(db.NewResultMock(nil, map[string]interface{}{"id": &id, "name": &name}), nil)
			sessionMock.On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).
				Return(db.NewResultMock(nil), nil)

			endpoint, err := NewEndpointConfigWithLogger(TestLogger()).
				WithKeyspace("avido").
				WithRefreshInterval(0).
				newEndpointWithDb(context.Background(), db.NewDbWithSession(sessionMock))
			Expect(err).ToNot(HaveOccurred())
			defer endpoint.Stop()

			var records []map[string]interface{}
			rest.ExecuteGet(endpoint.RoutesREST("/api"), "/api/tasks", &records, nil)
			ExpectJSON(mustMarshal(records), `[{"id": "task-9", "name": "Chargeback Triage"}]`)
		})

		It("Should fail when a table cannot be read", func() {
			sessionMock.On("ExecuteIter", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, gocql.ErrNoConnections)

			_, err := NewEndpointConfigWithLogger(TestLogger()).
				WithKeyspace("avido").
				newEndpointWithDb(context.Background(), db.NewDbWithSession(sessionMock))
			Expect(err).To(HaveOccurred())
			Expect(strings.HasPrefix(err.Error(), "unable to load collections")).To(BeTrue())
		})
	})
})
