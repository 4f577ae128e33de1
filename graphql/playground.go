package graphql

import (
	"html/template"
	"net/http"

	"github.com/avido/experiments-data-api/types"
)

var playgroundTemplate = template.Must(template.New("playground").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset=utf-8/>
  <meta name="viewport" content="user-scalable=no, initial-scale=1.0, minimum-scale=1.0, maximum-scale=1.0, minimal-ui">
  <title>Experiments Data API Playground</title>
  <link rel="stylesheet" href="//cdn.jsdelivr.net/npm/graphql-playground-react@1.7.20/build/static/css/index.css" />
  <link rel="shortcut icon" href="//cdn.jsdelivr.net/npm/graphql-playground-react@1.7.20/build/favicon.png" />
  <script src="//cdn.jsdelivr.net/npm/graphql-playground-react@1.7.20/build/static/js/middleware.js"></script>
</head>
<body>
  <div id="root"></div>
  <script>window.addEventListener('load', function () {
      GraphQLPlayground.init(document.getElementById('root'), {
        endpoint: {{.Endpoint}}
      })
    })</script>
</body>
</html>
`))

// PlaygroundRoute serves a GraphQL playground page querying endpointURL.
func PlaygroundRoute(pattern string, endpointURL string) types.Route {
	return types.Route{
		Method:  http.MethodGet,
		Pattern: pattern,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=UTF-8")
			_ = playgroundTemplate.Execute(w, struct{ Endpoint string }{endpointURL})
		}),
	}
}
