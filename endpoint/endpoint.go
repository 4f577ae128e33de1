package endpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avido/experiments-data-api/config"
	"github.com/avido/experiments-data-api/db"
	"github.com/avido/experiments-data-api/graphql"
	"github.com/avido/experiments-data-api/log"
	"github.com/avido/experiments-data-api/metrics"
	"github.com/avido/experiments-data-api/rest"
	"github.com/avido/experiments-data-api/service"
	"github.com/avido/experiments-data-api/store"
	"github.com/avido/experiments-data-api/types"
	"go.uber.org/zap"
)

const DefaultRefreshInterval = time.Minute

const (
	SourceMemory    = "memory"
	SourceCassandra = "cassandra"
)

type DataEndpointConfig struct {
	source          string
	dbHosts         []string
	dbUsername      string
	dbPassword      string
	keyspace        string
	refreshInterval time.Duration
	resources       config.Resources
	openAPIFile     string
	naming          config.NamingConventionFn
	logger          log.Logger
}

func (cfg DataEndpointConfig) Naming() config.NamingConvention {
	return cfg.naming()
}

func (cfg DataEndpointConfig) Resources() config.Resources {
	return cfg.resources
}

func (cfg DataEndpointConfig) RefreshInterval() time.Duration {
	return cfg.refreshInterval
}

func (cfg DataEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *DataEndpointConfig) WithSource(source string) *DataEndpointConfig {
	cfg.source = source
	return cfg
}

func (cfg *DataEndpointConfig) WithDbUsername(dbUsername string) *DataEndpointConfig {
	cfg.dbUsername = dbUsername
	return cfg
}

func (cfg *DataEndpointConfig) WithDbPassword(dbPassword string) *DataEndpointConfig {
	cfg.dbPassword = dbPassword
	return cfg
}

func (cfg *DataEndpointConfig) WithKeyspace(keyspace string) *DataEndpointConfig {
	cfg.keyspace = keyspace
	return cfg
}

func (cfg *DataEndpointConfig) WithRefreshInterval(refreshInterval time.Duration) *DataEndpointConfig {
	cfg.refreshInterval = refreshInterval
	return cfg
}

func (cfg *DataEndpointConfig) WithResources(resources config.Resources) *DataEndpointConfig {
	cfg.resources = resources
	return cfg
}

func (cfg *DataEndpointConfig) WithOpenAPIFile(file string) *DataEndpointConfig {
	cfg.openAPIFile = file
	return cfg
}

func (cfg *DataEndpointConfig) WithNaming(naming config.NamingConventionFn) *DataEndpointConfig {
	cfg.naming = naming
	return cfg
}

// NewEndpoint connects to the configured source and loads the first snapshot of the collections.
func (cfg DataEndpointConfig) NewEndpoint(ctx context.Context) (*DataEndpoint, error) {
	switch cfg.source {
	case "", SourceMemory:
		return cfg.newEndpointWithSource(ctx, store.NewMemorySource(), nil)
	case SourceCassandra:
		if len(cfg.dbHosts) == 0 {
			return nil, errors.New("hosts are required for the cassandra source")
		}
		if cfg.keyspace == "" {
			return nil, errors.New("keyspace is required for the cassandra source")
		}
		dbClient, err := db.NewDb(cfg.dbUsername, cfg.dbPassword, cfg.dbHosts...)
		if err != nil {
			return nil, err
		}
		return cfg.newEndpointWithDb(ctx, dbClient)
	default:
		return nil, fmt.Errorf("unsupported source '%s'", cfg.source)
	}
}

func (cfg DataEndpointConfig) newEndpointWithDb(ctx context.Context, dbClient *db.Db) (*DataEndpoint, error) {
	source := store.NewCassandraSource(dbClient, cfg.keyspace, cfg.Naming())
	endpoint, err := cfg.newEndpointWithSource(ctx, source, dbClient)
	if err != nil {
		dbClient.Close()
		return nil, err
	}
	return endpoint, nil
}

func (cfg DataEndpointConfig) newEndpointWithSource(
	ctx context.Context, source store.Source, dbClient *db.Db,
) (*DataEndpoint, error) {
	snapshotter, err := store.NewSnapshotter(ctx, source, cfg.refreshInterval, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("unable to load collections: %s", err)
	}

	svc := service.New(snapshotter, cfg.logger)
	collector := metrics.NewCollector()
	collector.RegisterRefreshes(snapshotter.Refreshes)

	return &DataEndpoint{
		dbClient:        dbClient,
		snapshotter:     snapshotter,
		metrics:         collector,
		openAPIFile:     cfg.openAPIFile,
		graphQLRouteGen: graphql.NewRouteGenerator(svc, cfg),
		restRouteGen:    rest.NewRouteGenerator(svc, cfg),
	}, nil
}

type DataEndpoint struct {
	dbClient        *db.Db
	snapshotter     *store.Snapshotter
	metrics         *metrics.Collector
	openAPIFile     string
	graphQLRouteGen *graphql.RouteGenerator
	restRouteGen    *rest.RouteGenerator
}

func NewEndpointConfig(hosts ...string) (*DataEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), hosts...), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, hosts ...string) *DataEndpointConfig {
	return &DataEndpointConfig{
		source:          SourceMemory,
		dbHosts:         hosts,
		refreshInterval: DefaultRefreshInterval,
		resources:       config.AllResources,
		naming:          config.NewDefaultNaming,
		logger:          logger,
	}
}

func (e *DataEndpoint) RoutesREST(prefix string) []types.Route {
	return e.restRouteGen.Routes(prefix)
}

func (e *DataEndpoint) RoutesGraphQL(pattern string) ([]types.Route, error) {
	return e.graphQLRouteGen.Routes(pattern)
}

func (e *DataEndpoint) RouteOpenAPI(pattern string) types.Route {
	return e.restRouteGen.RouteOpenAPI(pattern, e.openAPIFile)
}

func (e *DataEndpoint) RoutePlayground(pattern string, endpointURL string) types.Route {
	return graphql.PlaygroundRoute(pattern, endpointURL)
}

// RouteMetrics serves the request metrics collected by Instrument.
func (e *DataEndpoint) RouteMetrics(pattern string) types.Route {
	return e.metrics.Route(pattern)
}

func (e *DataEndpoint) Instrument(routes []types.Route) []types.Route {
	return e.metrics.Instrument(routes)
}

// Start refreshes the collections snapshot periodically until Stop is called.
func (e *DataEndpoint) Start() {
	go e.snapshotter.Start()
}

func (e *DataEndpoint) Stop() {
	e.snapshotter.Stop()
	if e.dbClient != nil {
		e.dbClient.Close()
	}
}
