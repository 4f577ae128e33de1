package service

import (
	"context"

	"github.com/avido/experiments-data-api/query"
	"github.com/avido/experiments-data-api/store"
)

const (
	testStatusCompleted = "completed"
	testStatusFailed    = "failed"
	unknownDefinition   = "Unknown"
)

// VariantMetrics summarizes the tests run for a variant and the evals scored on them. Scores
// are averaged over evals, pass rates are percentages of passed evals.
type VariantMetrics struct {
	TotalTests     int             `json:"totalTests"`
	CompletedTests int             `json:"completedTests"`
	FailedTests    int             `json:"failedTests"`
	AvgScore       float64         `json:"avgScore"`
	PassRate       float64         `json:"passRate"`
	EvalBreakdown  []EvalBreakdown `json:"evalBreakdown"`
}

type EvalBreakdown struct {
	DefinitionID string  `json:"definitionId"`
	Name         string  `json:"name"`
	AvgScore     float64 `json:"avgScore"`
	PassRate     float64 `json:"passRate"`
}

var (
	testMetrics = []query.MetricSpec{
		query.CountOf("totalTests"),
		query.CountOf("completedTests", query.Eq("status", testStatusCompleted)),
		query.CountOf("failedTests", query.Eq("status", testStatusFailed)),
	}

	evalMetrics = []query.MetricSpec{
		query.MeanOf("avgScore", "score"),
		query.RatioOf("passRate", query.Eq("passed", true)),
	}
)

// Variants lists the variants of an experiment of the caller's organization, each annotated with
// its metrics under "metrics".
func (s *Service) Variants(ctx context.Context, params VariantParams) (*Page, error) {
	if isBlank(params.OrgID) {
		return nil, requiredParamError("orgId")
	}

	experiments, err := s.collection(ctx, store.Experiments)
	if err != nil {
		return nil, err
	}
	matches := query.Apply(experiments, query.Eq("id", params.ExperimentID))
	if isBlank(params.ExperimentID) || len(matches) == 0 {
		return nil, NewNotFoundError("Experiment not found")
	}
	if !query.Matches(matches[0], query.Eq("orgId", params.OrgID)) {
		return nil, NewForbiddenError("Access denied")
	}

	variants, err := s.collection(ctx, store.Variants)
	if err != nil {
		return nil, err
	}

	req := variantEndpoint.request(params.Listing,
		query.Eq("experimentId", params.ExperimentID),
		query.Eq("status", params.Status))
	page := newPage(query.Execute(variants, req))

	metrics, err := s.variantMetrics(ctx, page.Records)
	if err != nil {
		return nil, err
	}

	annotated := make([]query.Record, len(page.Records))
	for i, v := range page.Records {
		r := v.Clone()
		key, _ := query.KeyOf(v.Get("id"))
		r["metrics"] = metrics[key]
		annotated[i] = r
	}
	page.Records = annotated
	return page, nil
}

func (s *Service) variantMetrics(ctx context.Context, variants []query.Record) (map[string]VariantMetrics, error) {
	tests, err := s.collection(ctx, store.Tests)
	if err != nil {
		return nil, err
	}
	evals, err := s.collection(ctx, store.Evals)
	if err != nil {
		return nil, err
	}
	definitions, err := s.collection(ctx, store.EvalDefinitions)
	if err != nil {
		return nil, err
	}

	variantIDs := query.Values(variants, "id")
	variantTests := query.Apply(tests, query.InStrings("variantId", variantIDs))
	testsByVariant := query.Index(variantTests, "variantId")

	joined, err := query.Join(evals, "testId", variantTests, "id", "test")
	if err != nil {
		return nil, err
	}
	variantEvals := query.Apply(joined, query.InStrings("test.variantId", variantIDs))

	summaries, err := query.Aggregate(variants, variantEvals, query.AggregationSpec{
		JoinKey: "test.variantId",
		GroupBy: "definitionId",
		Metrics: evalMetrics,
	})
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(definitions))
	for _, d := range definitions {
		if id, ok := query.KeyOf(d.Get("id")); ok {
			if name, ok := d.Get("name").(string); ok && name != "" {
				names[id] = name
			}
		}
	}

	result := make(map[string]VariantMetrics, len(variantIDs))
	for _, id := range variantIDs {
		counts := query.Summarize(testsByVariant[id], testMetrics)
		summary := summaries[id]

		breakdown := make([]EvalBreakdown, 0, len(summary.Groups))
		for _, definitionID := range summary.Groups.Keys() {
			group := summary.Groups[definitionID]
			name, ok := names[definitionID]
			if !ok {
				name = unknownDefinition
			}
			breakdown = append(breakdown, EvalBreakdown{
				DefinitionID: definitionID,
				Name:         name,
				AvgScore:     group["avgScore"],
				PassRate:     group["passRate"],
			})
		}

		result[id] = VariantMetrics{
			TotalTests:     int(counts["totalTests"]),
			CompletedTests: int(counts["completedTests"]),
			FailedTests:    int(counts["failedTests"]),
			AvgScore:       summary.Totals["avgScore"],
			PassRate:       summary.Totals["passRate"],
			EvalBreakdown:  breakdown,
		}
	}
	return result, nil
}
