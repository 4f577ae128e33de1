// types package contains the public API types
// that are shared between both REST and GraphQL
package types

import (
	"encoding/hex"
	"net/http"
	"strconv"
)

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}

type QueryOptions struct {
	PageState string `json:"pageState" mapstructure:"pageState"`
	PageSize  int    `json:"pageSize" mapstructure:"pageSize"`
}

// Offset decodes the page state into a record offset. A missing or malformed state starts at the
// first record.
func (o QueryOptions) Offset() int {
	return DecodePageState(o.PageState)
}

// EncodePageState returns the opaque page state for the given offset. Offsets below 1 have no state.
func EncodePageState(offset int) string {
	if offset <= 0 {
		return ""
	}
	return hex.EncodeToString([]byte(strconv.Itoa(offset)))
}

func DecodePageState(state string) int {
	if state == "" {
		return 0
	}
	b, err := hex.DecodeString(state)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(b))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}
