package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/avido/experiments-data-api/auth"
	"github.com/avido/experiments-data-api/config"
	"github.com/avido/experiments-data-api/endpoint"
	"github.com/avido/experiments-data-api/log"
	"github.com/avido/experiments-data-api/types"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultGraphQLPath = "/graphql"
const defaultRESTPath = "/api"
const defaultGraphQLPlaygroundPath = "/graphql-playground"
const defaultOpenAPIPath = "/openapi.json"
const defaultMetricsPath = "/metrics"

// Environment variables prefixed with "DATA_API_" can override settings e.g. "DATA_API_HOSTS"
const envVarPrefix = "data_api"

var cfgFile string
var logger log.ZapLogger
var cfg *endpoint.DataEndpointConfig

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " [--source memory|cassandra] [--hosts HOSTS --keyspace KEYSPACE] [OPTIONS]",
	Short: "REST and GraphQL endpoints for LLM evaluation experiments",
	Args: func(cmd *cobra.Command, args []string) error {
		source := viper.GetString("source")
		if source != endpoint.SourceMemory && source != endpoint.SourceCassandra {
			return fmt.Errorf("unsupported source '%s', options: memory,cassandra", source)
		}

		if source == endpoint.SourceCassandra {
			if len(getStringSlice("hosts")) == 0 {
				return errors.New("hosts are required for the cassandra source")
			}
			if viper.GetString("keyspace") == "" {
				return errors.New("keyspace is required for the cassandra source")
			}
		}

		if viper.GetBool("start-graphql") && viper.GetString("graphql-path") == viper.GetString("rest-path") {
			return errors.New("graphql and rest paths can not be the same")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		endpoint := createEndpoint()
		endpoint.Start()
		defer endpoint.Stop()

		router := createRouter()
		endpointNames := "REST"
		addRESTRoutes(router, endpoint)
		if viper.GetBool("start-graphql") {
			addGraphQLRoutes(router, endpoint)
			endpointNames += "/GraphQL"
		}
		if viper.GetBool("metrics") {
			addRoutes(router, endpoint.RouteMetrics(defaultMetricsPath))
		}

		listenAndServe(router, viper.GetInt("port"), endpointNames)
	},
}

// Execute starts the REST and GraphQL endpoints
func Execute() {
	flags := serverCmd.PersistentFlags()

	// General endpoint flags
	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.String("source", endpoint.SourceMemory, "collections source. options: memory,cassandra")
	flags.StringSliceP("hosts", "t", nil, "hosts for connecting to the database")
	flags.StringP("username", "u", "", "connect with database username")
	flags.StringP("password", "p", "", "database user's password")
	flags.String("keyspace", "", "keyspace holding the collection tables")
	flags.Duration("refresh-interval", endpoint.DefaultRefreshInterval, "interval used to refresh the collections snapshot")
	flags.StringSlice("resources", []string{config.AllResources.String()},
		"list of exposed collections. options: Tasks,Tests,Evals,Experiments,Variants,Steps")
	flags.Int("port", 8080, "port to bind endpoints to")
	flags.Bool("request-logging", false, "enable request logging")
	flags.String("log-level", "info", "log level. options: debug,info,warn,error")
	flags.Bool("log-development", false, "log human readable entries instead of JSON")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")
	flags.Bool("metrics", false, "expose prometheus metrics at "+defaultMetricsPath)

	// REST specific flags
	flags.String("rest-path", defaultRESTPath, "REST endpoint path")
	flags.String("openapi-file", "openapi.json", "OpenAPI document served at "+defaultOpenAPIPath)

	// GraphQL specific flags
	flags.Bool("start-graphql", true, "start the GraphQL endpoint")
	flags.String("graphql-path", defaultGraphQLPath, "GraphQL endpoint path")
	flags.Bool("graphql-playground", true, "expose a GraphQL playground route")
	flags.String("graphql-playground-path", defaultGraphQLPlaygroundPath, "path for the GraphQL playground static file")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createEndpoint() *endpoint.DataEndpoint {
	cfg = endpoint.NewEndpointConfigWithLogger(logger, getStringSlice("hosts")...)

	resources, err := config.ResourcesOf(getStringSlice("resources")...)
	if err != nil {
		logger.Fatal("invalid resources", "resources", viper.GetStringSlice("resources"), "error", err)
	}

	cfg.
		WithSource(viper.GetString("source")).
		WithDbUsername(viper.GetString("username")).
		WithDbPassword(viper.GetString("password")).
		WithKeyspace(viper.GetString("keyspace")).
		WithRefreshInterval(viper.GetDuration("refresh-interval")).
		WithResources(resources).
		WithOpenAPIFile(viper.GetString("openapi-file"))

	endpoint, err := cfg.NewEndpoint(context.Background())
	if err != nil {
		logger.Fatal("unable create new endpoint",
			"error", err)
	}

	return endpoint
}

func addRESTRoutes(router *httprouter.Router, endpoint *endpoint.DataEndpoint) {
	addRoutes(router, endpoint.Instrument(endpoint.RoutesREST(viper.GetString("rest-path")))...)
	addRoutes(router, endpoint.RouteOpenAPI(defaultOpenAPIPath))
}

func addGraphQLRoutes(router *httprouter.Router, endpoint *endpoint.DataEndpoint) {
	rootPath := viper.GetString("graphql-path")
	routes, err := endpoint.RoutesGraphQL(rootPath)
	if err != nil {
		logger.Fatal("unable to generate graphql routes",
			"error", err)
	}
	addRoutes(router, endpoint.Instrument(routes)...)

	if viper.GetBool("graphql-playground") {
		playgroundPath := viper.GetString("graphql-playground-path")
		hostAndPort := fmt.Sprintf("http://localhost:%d", viper.GetInt("port"))
		logger.Info("get started by visiting the GraphQL playground",
			"url", fmt.Sprintf("%s%s", hostAndPort, playgroundPath))
		addRoutes(router, endpoint.RoutePlayground(playgroundPath, fmt.Sprintf("%s%s", hostAndPort, rootPath)))
	}
}

func addRoutes(router *httprouter.Router, routes ...types.Route) {
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	var err error
	logger, err = log.NewLogger(viper.GetString("log-level"), viper.GetBool("log-development"))
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func createRouter() *httprouter.Router {
	router := httprouter.New()
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Access-Control-Request-Method") != "" {
				header := w.Header()
				header.Set("Access-Control-Allow-Method", r.Header.Get("Access-Control-Request-Method"))
				header.Set("Access-Control-Allow-Headers", r.Header.Get("Access-Control-Request-Headers"))
				header.Set("Access-Control-Allow-Origin", value)
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
	return router
}

func listenAndServe(handler http.Handler, port int, endpointNames string) {
	logger.Info("server listening",
		"port", port,
		"type", endpointNames)
	handler = maybeAddCORS(maybeAddRequestLogging(auth.NewOrgHandler(handler)))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	_ = logger.Sync()
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}

func getStringSlice(key string) []string {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		logger.Fatal("invalid string slice value for setting",
			"error", err,
			"key", key,
			"value", value)
	}
	return slice
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
