package endpoint

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/mitchellh/mapstructure"

	"github.com/avido/experiments-data-api/auth"
	e "github.com/avido/experiments-data-api/rest/errors"
	m "github.com/avido/experiments-data-api/rest/models"
	"github.com/avido/experiments-data-api/service"
)

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()
	inputValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} query parameter is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		translator, _ := ut.T("required", fe.Field())
		return translator
	})
}

func (s *routeList) GetTasks(w http.ResponseWriter, r *http.Request) {
	var q m.TasksQuery
	if !s.parseAndValidate(w, r, &q) {
		return
	}
	page, err := s.svc.Tasks(r.Context(), q.Params())
	s.respondPage(w, page, err, "unable to list tasks")
}

func (s *routeList) GetTests(w http.ResponseWriter, r *http.Request) {
	var q m.TestsQuery
	if !s.parseAndValidate(w, r, &q) {
		return
	}
	page, err := s.svc.Tests(r.Context(), q.Params())
	s.respondPage(w, page, err, "unable to list tests")
}

func (s *routeList) GetEvals(w http.ResponseWriter, r *http.Request) {
	var q m.EvalsQuery
	if !s.parseAndValidate(w, r, &q) {
		return
	}
	page, err := s.svc.Evals(r.Context(), q.Params())
	s.respondPage(w, page, err, "unable to list evals")
}

func (s *routeList) GetExperiments(w http.ResponseWriter, r *http.Request) {
	var q m.ExperimentsQuery
	if !s.parseAndValidate(w, r, &q) {
		return
	}
	page, err := s.svc.Experiments(r.Context(), q.Params())
	s.respondPage(w, page, err, "unable to list experiments")
}

func (s *routeList) GetVariants(w http.ResponseWriter, r *http.Request) {
	var q m.VariantsQuery
	if !s.parseAndValidate(w, r, &q) {
		return
	}
	page, err := s.svc.Variants(r.Context(), q.Params(s.params(r, "id")))
	s.respondPage(w, page, err, "unable to list variants")
}

func (s *routeList) GetSteps(w http.ResponseWriter, r *http.Request) {
	var q m.StepsQuery
	if !s.parseAndValidate(w, r, &q) {
		return
	}
	page, err := s.svc.Steps(r.Context(), q.Params())
	s.respondPage(w, page, err, "unable to list steps")
}

// parseAndValidate decodes the query string into model and validates it, writing a 400 response
// when either fails. Only the first value of a repeated parameter is used.
func (s *routeList) parseAndValidate(w http.ResponseWriter, r *http.Request, model interface{}) bool {
	values := r.URL.Query()
	input := make(map[string]interface{}, len(values))
	for key := range values {
		input[key] = values.Get(key)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           model,
	})
	if err == nil {
		err = decoder.Decode(input)
	}
	if err != nil {
		s.logger.Debug("unable to decode query parameters", "error", err)
		RespondWithError(w, e.NewBadRequestError("invalid query parameters"), http.StatusBadRequest)
		return false
	}

	if scoped, ok := model.(m.OrgScoped); ok {
		scoped.SetDefaultOrgID(auth.ContextOrgID(r.Context()))
	}

	if err := inputValidator.Struct(model); err != nil {
		RespondWithError(w, e.TranslateValidatorError(err, trans), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *routeList) respondPage(w http.ResponseWriter, page *service.Page, err error, msg string) {
	if err != nil {
		code := statusCode(err)
		if code == http.StatusInternalServerError {
			s.logger.Error(msg, "error", err)
			err = e.NewInternalError(msg)
		}
		RespondWithError(w, err, code)
		return
	}

	if page.PageState != "" {
		w.Header().Set(PageStateHeader, page.PageState)
	}
	w.Header().Set(TotalCountHeader, strconv.Itoa(page.Total))
	RespondJSONObjectWithCode(w, http.StatusOK, page.Records)
}

// statusCode maps service failures onto HTTP statuses, deferring to the REST error types otherwise.
func statusCode(err error) int {
	var (
		invalidParams *service.InvalidParamsError
		notFound      *service.NotFoundError
		forbidden     *service.ForbiddenError
	)

	switch {
	case errors.As(err, &invalidParams):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	}
	return e.StatusCode(err)
}
