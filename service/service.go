// Package service implements the read operations exposed by the REST and GraphQL endpoints on top
// of a store.Source.
package service

import (
	"context"
	"strings"

	"github.com/avido/experiments-data-api/log"
	"github.com/avido/experiments-data-api/query"
	"github.com/avido/experiments-data-api/store"
	"github.com/pkg/errors"
)

type Service struct {
	source store.Source
	logger log.Logger
}

func New(source store.Source, logger log.Logger) *Service {
	return &Service{source: source, logger: logger}
}

func (s *Service) collection(ctx context.Context, name string) ([]query.Record, error) {
	records, err := s.source.Collection(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load %s", name)
	}
	return records, nil
}

func (s *Service) Tasks(ctx context.Context, params TaskParams) (*Page, error) {
	tasks, err := s.collection(ctx, store.Tasks)
	if err != nil {
		return nil, err
	}

	req := taskEndpoint.request(params.Listing,
		query.Like(params.Q, "name", "description"))
	return newPage(query.Execute(tasks, req)), nil
}

func (s *Service) Tests(ctx context.Context, params TestParams) (*Page, error) {
	if isBlank(params.TaskID) {
		return nil, requiredParamError("taskId")
	}

	tests, err := s.collection(ctx, store.Tests)
	if err != nil {
		return nil, err
	}

	req := testEndpoint.request(params.Listing,
		query.Eq("taskId", params.TaskID),
		query.Eq("status", params.Status),
		query.Gte("createdAt", params.CreatedAtFrom),
		query.Lte("createdAt", params.CreatedAtTo))
	return newPage(query.Execute(tests, req)), nil
}

func (s *Service) Evals(ctx context.Context, params EvalParams) (*Page, error) {
	if isBlank(params.TestID) {
		return nil, requiredParamError("testId")
	}

	evals, err := s.collection(ctx, store.Evals)
	if err != nil {
		return nil, err
	}

	definitions := query.In("definitionId", nil)
	if !isBlank(params.Definition) {
		all, err := s.collection(ctx, store.EvalDefinitions)
		if err != nil {
			return nil, err
		}
		matched := query.Apply(all, query.Like(params.Definition, "name"))
		definitions = query.InStrings("definitionId", query.Values(matched, "id"))
	}

	req := evalEndpoint.request(params.Listing,
		query.Eq("testId", params.TestID),
		query.Eq("status", params.Status),
		query.Like(params.Name, "name"),
		definitions,
		query.Gte("timestamp", params.TimestampFrom),
		query.Lte("timestamp", params.TimestampTo),
		query.Gte("confidenceScore", params.ConfidenceScoreMin),
		query.Lte("confidenceScore", params.ConfidenceScoreMax))
	return newPage(query.Execute(evals, req)), nil
}

func (s *Service) Experiments(ctx context.Context, params ExperimentParams) (*Page, error) {
	if isBlank(params.OrgID) {
		return nil, requiredParamError("orgId")
	}

	experiments, err := s.collection(ctx, store.Experiments)
	if err != nil {
		return nil, err
	}

	req := experimentEndpoint.request(params.Listing,
		query.Eq("orgId", params.OrgID),
		query.Like(params.Q, "name", "description"),
		query.Eq("status", params.Status))
	return newPage(query.Execute(experiments, req)), nil
}

func (s *Service) Steps(ctx context.Context, params StepParams) (*Page, error) {
	if isBlank(params.OrgID) {
		return nil, requiredParamError("orgId")
	}

	steps, err := s.collection(ctx, store.Steps)
	if err != nil {
		return nil, err
	}

	req := stepEndpoint.request(params.Listing,
		query.Eq("orgId", params.OrgID),
		query.Like(params.Q, "name", "externalId", "description"),
		query.Eq("type", params.Type))
	return newPage(query.Execute(steps, req)), nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
