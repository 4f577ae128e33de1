package endpoint

import (
	"encoding/json"
	"net/http"

	m "github.com/avido/experiments-data-api/rest/models"
)

// PageStateHeader carries the state to request the following page. It is absent on the last page.
const PageStateHeader = "X-Page-State"

// TotalCountHeader carries the amount of records matching the request before paging.
const TotalCountHeader = "X-Total-Count"

// RespondJSONObjectWithCode writes the object and status header to the response. Important to note that if this is being
// used for an error case then an empty return will need to immediately follow the call to this function
func RespondJSONObjectWithCode(w http.ResponseWriter, code int, obj interface{}) {
	setCommonHeaders(w)
	var (
		jsonBytes []byte
		err       error
	)
	if obj != nil {
		jsonBytes, err = json.Marshal(obj)
	}
	if err != nil {
		writeJSONBytes(w, []byte(`{"description":"unable to marshal response"}`), http.StatusInternalServerError)
		return
	}
	writeJSONBytes(w, jsonBytes, code)
}

func writeJSONBytes(w http.ResponseWriter, jsonBytes []byte, code int) {
	w.WriteHeader(code)
	if jsonBytes != nil {
		_, _ = w.Write(jsonBytes)
	}
}

func RespondWithError(w http.ResponseWriter, err error, code int) {
	RespondJSONObjectWithCode(w, code, m.ModelError{Description: err.Error()})
}

func RespondWithErrorDetails(w http.ResponseWriter, err error, details string, code int) {
	RespondJSONObjectWithCode(w, code, m.ModelError{Description: err.Error(), Details: details})
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
}
