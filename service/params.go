package service

import (
	"strings"

	"github.com/avido/experiments-data-api/query"
	"github.com/avido/experiments-data-api/types"
)

// Listing holds the ordering and paging parameters shared by every operation.
type Listing struct {
	Sort               string `mapstructure:"sort"`
	Order              string `mapstructure:"order"`
	types.QueryOptions `mapstructure:",squash"`
}

type TaskParams struct {
	Q       string `mapstructure:"q"`
	Listing `mapstructure:",squash"`
}

type TestParams struct {
	TaskID        string `mapstructure:"taskId"`
	Status        string `mapstructure:"status"`
	CreatedAtFrom string `mapstructure:"createdAtFrom"`
	CreatedAtTo   string `mapstructure:"createdAtTo"`
	Listing       `mapstructure:",squash"`
}

type EvalParams struct {
	TestID             string `mapstructure:"testId"`
	Status             string `mapstructure:"status"`
	Name               string `mapstructure:"name"`
	Definition         string `mapstructure:"definition"`
	TimestampFrom      string `mapstructure:"timestampFrom"`
	TimestampTo        string `mapstructure:"timestampTo"`
	ConfidenceScoreMin string `mapstructure:"confidenceScoreMin"`
	ConfidenceScoreMax string `mapstructure:"confidenceScoreMax"`
	Listing            `mapstructure:",squash"`
}

type ExperimentParams struct {
	OrgID   string `mapstructure:"orgId"`
	Q       string `mapstructure:"q"`
	Status  string `mapstructure:"status"`
	Listing `mapstructure:",squash"`
}

type VariantParams struct {
	OrgID        string `mapstructure:"orgId"`
	ExperimentID string `mapstructure:"experimentId"`
	Status       string `mapstructure:"status"`
	Listing      `mapstructure:",squash"`
}

type StepParams struct {
	OrgID   string `mapstructure:"orgId"`
	Q       string `mapstructure:"q"`
	Type    string `mapstructure:"type"`
	Listing `mapstructure:",squash"`
}

// endpoint describes the ordering an operation accepts.
type endpoint struct {
	sortKeys     []string
	defaultOrder query.Direction
}

var (
	taskEndpoint       = endpoint{[]string{"id", "name"}, query.Ascending}
	testEndpoint       = endpoint{[]string{"createdAt", "status", "id"}, query.Descending}
	evalEndpoint       = endpoint{[]string{"timestamp", "confidenceScore", "status", "id"}, query.Descending}
	experimentEndpoint = endpoint{[]string{"name", "createdAt", "status"}, query.Descending}
	variantEndpoint    = endpoint{[]string{"name", "createdAt", "status"}, query.Ascending}
	stepEndpoint       = endpoint{[]string{"name", "externalId", "type"}, query.Ascending}
)

// sortSpec returns nil for an empty or unsupported sort key, leaving records in source order.
func (e endpoint) sortSpec(l Listing) *query.SortSpec {
	key := strings.TrimSpace(l.Sort)
	for _, allowed := range e.sortKeys {
		if key == allowed {
			return &query.SortSpec{
				Path:      query.FieldPath(key),
				Direction: query.ParseDirection(l.Order, e.defaultOrder),
			}
		}
	}
	return nil
}

func (e endpoint) request(l Listing, filters ...query.Filter) query.Request {
	req := query.Request{Filters: filters, Sort: e.sortSpec(l)}
	if l.PageSize > 0 {
		req.Page = &query.Page{Offset: l.Offset(), Limit: l.PageSize}
	}
	return req
}

// Page is one page of an operation's result.
type Page struct {
	Records []query.Record `json:"records"`
	Total   int            `json:"total"`
	// PageState is empty on the last page.
	PageState string `json:"pageState,omitempty"`
}

func newPage(result query.Result) *Page {
	return &Page{
		Records:   result.Records,
		Total:     result.Total,
		PageState: types.EncodePageState(result.NextOffset),
	}
}
