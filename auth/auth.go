// Package auth carries the caller's organization through request contexts.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// OrgIDHeader identifies the caller's organization when the orgId query parameter is absent.
const OrgIDHeader = "X-Org-Id"

type contextKey struct {
	name string
}

var orgKey = &contextKey{"orgId"}

func WithContextOrgID(ctx context.Context, orgID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, orgKey, orgID)
}

func ContextOrgID(ctx context.Context) string {
	if ctx != nil {
		if val, ok := ctx.Value(orgKey).(string); ok {
			return val
		}
	}
	return ""
}

// NewOrgHandler stores the organization sent in OrgIDHeader in the request context.
func NewOrgHandler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if orgID := strings.TrimSpace(r.Header.Get(OrgIDHeader)); orgID != "" {
			r = r.WithContext(WithContextOrgID(r.Context(), orgID))
		}
		handler.ServeHTTP(w, r)
	})
}
