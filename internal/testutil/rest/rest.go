package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/avido/experiments-data-api/types"
	"github.com/julienschmidt/httprouter"
	. "github.com/onsi/gomega"
)

// ExecuteGet performs a GET request against the routes, decoding the JSON body into responsePtr.
func ExecuteGet(routes []types.Route, target string, responsePtr interface{}, header http.Header) *httptest.ResponseRecorder {
	return execute(http.MethodGet, routes, target, "", responsePtr, header)
}

func ExecutePost(
	routes []types.Route,
	target string,
	requestBody string,
	responsePtr interface{},
	header http.Header,
) *httptest.ResponseRecorder {
	return execute(http.MethodPost, routes, target, requestBody, responsePtr, header)
}

func execute(
	method string,
	routes []types.Route,
	target string,
	requestBody string,
	responsePtr interface{},
	header http.Header,
) *httptest.ResponseRecorder {
	var body io.Reader = nil
	if requestBody != "" {
		body = bytes.NewBuffer([]byte(requestBody))
	}

	r := httptest.NewRequest(method, target, body)
	for key, values := range header {
		r.Header[key] = values
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()

	// Use a router for params to be populated
	router := httprouter.New()
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
	router.ServeHTTP(w, r)

	if responsePtr != nil {
		bodyString := w.Body.String()
		err := json.NewDecoder(bytes.NewBufferString(bodyString)).Decode(responsePtr)
		Expect(err).ToNot(HaveOccurred(),
			fmt.Sprintf("Error decoding response with code %d and body: %s", w.Code, bodyString))
	}

	return w
}
