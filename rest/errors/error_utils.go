package errors

import (
	"errors"
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TranslateValidatorError takes an error from the go-playground validator (internally just a map of errors) and converts
// it into a BadRequestError with a user friendly message. Other errors are returned as is.
func TranslateValidatorError(err error, trans ut.Translator) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := validationErrors.Translate(trans)
	vals := make([]string, 0, len(errs))
	// Keep the order of the failing fields stable
	for _, fe := range validationErrors {
		if value, ok := errs[fe.Namespace()]; ok {
			vals = append(vals, value)
		}
	}

	return NewBadRequestError(strings.Join(vals, " "))
}

// StatusCode maps an error returned while serving a request to its HTTP status.
func StatusCode(err error) int {
	var (
		badRequest *BadRequestError
		notFound   *NotFoundError
	)

	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
