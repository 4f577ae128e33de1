package models

import (
	"github.com/avido/experiments-data-api/service"
	"github.com/avido/experiments-data-api/types"
)

// Listing holds the ordering and paging query parameters accepted by every collection route.
type Listing struct {
	Sort      string `mapstructure:"sort"`
	Order     string `mapstructure:"order"`
	PageSize  int    `mapstructure:"pageSize" validate:"gte=0"`
	PageState string `mapstructure:"pageState"`
}

func (l Listing) toListing() service.Listing {
	return service.Listing{
		Sort:         l.Sort,
		Order:        l.Order,
		QueryOptions: types.QueryOptions{PageSize: l.PageSize, PageState: l.PageState},
	}
}

type TasksQuery struct {
	Q       string `mapstructure:"q"`
	Listing `mapstructure:",squash"`
}

func (q TasksQuery) Params() service.TaskParams {
	return service.TaskParams{Q: q.Q, Listing: q.toListing()}
}

type TestsQuery struct {
	TaskID        string `mapstructure:"taskId" validate:"required"`
	Status        string `mapstructure:"status"`
	CreatedAtFrom string `mapstructure:"createdAtFrom"`
	CreatedAtTo   string `mapstructure:"createdAtTo"`
	Listing       `mapstructure:",squash"`
}

func (q TestsQuery) Params() service.TestParams {
	return service.TestParams{
		TaskID:        q.TaskID,
		Status:        q.Status,
		CreatedAtFrom: q.CreatedAtFrom,
		CreatedAtTo:   q.CreatedAtTo,
		Listing:       q.toListing(),
	}
}

type EvalsQuery struct {
	TestID             string `mapstructure:"testId" validate:"required"`
	Status             string `mapstructure:"status"`
	Name               string `mapstructure:"name"`
	Definition         string `mapstructure:"definition"`
	TimestampFrom      string `mapstructure:"timestampFrom"`
	TimestampTo        string `mapstructure:"timestampTo"`
	ConfidenceScoreMin string `mapstructure:"confidenceScoreMin"`
	ConfidenceScoreMax string `mapstructure:"confidenceScoreMax"`
	Listing            `mapstructure:",squash"`
}

func (q EvalsQuery) Params() service.EvalParams {
	return service.EvalParams{
		TestID:             q.TestID,
		Status:             q.Status,
		Name:               q.Name,
		Definition:         q.Definition,
		TimestampFrom:      q.TimestampFrom,
		TimestampTo:        q.TimestampTo,
		ConfidenceScoreMin: q.ConfidenceScoreMin,
		ConfidenceScoreMax: q.ConfidenceScoreMax,
		Listing:            q.toListing(),
	}
}

// OrgScoped is implemented by queries restricted to a single organization.
type OrgScoped interface {
	SetDefaultOrgID(orgID string)
}

type ExperimentsQuery struct {
	OrgID   string `mapstructure:"orgId" validate:"required"`
	Q       string `mapstructure:"q"`
	Status  string `mapstructure:"status"`
	Listing `mapstructure:",squash"`
}

func (q *ExperimentsQuery) SetDefaultOrgID(orgID string) {
	if q.OrgID == "" {
		q.OrgID = orgID
	}
}

func (q ExperimentsQuery) Params() service.ExperimentParams {
	return service.ExperimentParams{OrgID: q.OrgID, Q: q.Q, Status: q.Status, Listing: q.toListing()}
}

type VariantsQuery struct {
	OrgID   string `mapstructure:"orgId" validate:"required"`
	Status  string `mapstructure:"status"`
	Listing `mapstructure:",squash"`
}

func (q *VariantsQuery) SetDefaultOrgID(orgID string) {
	if q.OrgID == "" {
		q.OrgID = orgID
	}
}

func (q VariantsQuery) Params(experimentID string) service.VariantParams {
	return service.VariantParams{
		OrgID:        q.OrgID,
		ExperimentID: experimentID,
		Status:       q.Status,
		Listing:      q.toListing(),
	}
}

type StepsQuery struct {
	OrgID   string `mapstructure:"orgId" validate:"required"`
	Q       string `mapstructure:"q"`
	Type    string `mapstructure:"type"`
	Listing `mapstructure:",squash"`
}

func (q *StepsQuery) SetDefaultOrgID(orgID string) {
	if q.OrgID == "" {
		q.OrgID = orgID
	}
}

func (q StepsQuery) Params() service.StepParams {
	return service.StepParams{OrgID: q.OrgID, Q: q.Q, Type: q.Type, Listing: q.toListing()}
}
