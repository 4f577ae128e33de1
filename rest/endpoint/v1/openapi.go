package endpoint

import (
	"io/ioutil"
	"net/http"

	"github.com/avido/experiments-data-api/log"
	e "github.com/avido/experiments-data-api/rest/errors"
)

func openAPIHandler(file string, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, err := ioutil.ReadFile(file)
		if err != nil {
			logger.Warn("unable to read openapi document", "file", file, "error", err)
			RespondWithErrorDetails(w, e.NewNotFoundError("OpenAPI spec not found"), err.Error(), http.StatusNotFound)
			return
		}

		setCommonHeaders(w)
		w.Header().Set("Cache-Control", "no-store")
		writeJSONBytes(w, content, http.StatusOK)
	})
}
