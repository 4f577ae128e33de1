package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextOrgID(t *testing.T) {
	assert.Equal(t, "", ContextOrgID(context.Background()))
	assert.Equal(t, "org-1",
		ContextOrgID(WithContextOrgID(context.Background(), "org-1")))
}

func TestOrgHandler(t *testing.T) {
	var seen string
	handler := NewOrgHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ContextOrgID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/steps", nil)
	r.Header.Set(OrgIDHeader, " org-2 ")
	handler.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "org-2", seen)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/steps", nil))
	assert.Equal(t, "", seen)
}
