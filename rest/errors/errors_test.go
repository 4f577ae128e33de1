package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(NewBadRequestError("pageSize must be 0 or greater")))
	assert.Equal(t, http.StatusBadRequest, StatusCode(fmt.Errorf("wrapped: %w", NewBadRequestError("invalid query parameters"))))
	assert.Equal(t, http.StatusNotFound, StatusCode(NewNotFoundError("file not found")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(NewInternalError("unable to list tasks")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("boom")))
}
