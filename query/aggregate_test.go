package query

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalMetrics = []MetricSpec{
	CountOf("total"),
	MeanOf("avgScore", "score"),
	RatioOf("passRate", Eq("passed", true)),
}

func variantEvals() []Record {
	return []Record{
		{"id": "e1", "variantId": "v1", "definitionId": "def-fact", "score": 0.8, "passed": true},
		{"id": "e2", "variantId": "v1", "definitionId": "def-fact", "score": 0.4, "passed": false},
		{"id": "e3", "variantId": "v1", "definitionId": "def-style", "score": 4, "passed": true},
		{"id": "e4", "variantId": "v2", "definitionId": "def-style", "score": 2, "passed": false},
	}
}

func TestSummarize_EmptyGroup(t *testing.T) {
	result := Summarize(nil, evalMetrics)
	assert.Equal(t, MetricResult{"total": 0, "avgScore": 0, "passRate": 0}, result)
}

func TestSummarize(t *testing.T) {
	result := Summarize(variantEvals()[:3], evalMetrics)
	assert.Equal(t, 3.0, result["total"])
	assert.InDelta(t, (0.8+0.4+4)/3, result["avgScore"], 1e-9)
	assert.InDelta(t, 200.0/3, result["passRate"], 1e-9)
}

func TestSummarize_MeanSkipsNonNumeric(t *testing.T) {
	records := []Record{{"score": 1}, {"score": "n/a"}, {}, {"score": 3}}
	assert.Equal(t, 2.0, Summarize(records, []MetricSpec{MeanOf("avg", "score")})["avg"])
}

func TestGroupBy(t *testing.T) {
	groups, err := GroupBy(variantEvals(), "definitionId", evalMetrics)
	require.NoError(t, err)
	assert.Equal(t, []string{"def-fact", "def-style"}, groups.Keys())
	assert.InDelta(t, 0.6, groups["def-fact"]["avgScore"], 1e-9)
	assert.Equal(t, 50.0, groups["def-fact"]["passRate"])
	assert.Equal(t, 3.0, groups["def-style"]["avgScore"])
	assert.Equal(t, 50.0, groups["def-style"]["passRate"])

	_, err = GroupBy(variantEvals(), "definitionId.", evalMetrics)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestAggregate(t *testing.T) {
	variants := []Record{{"id": "v1"}, {"id": "v2"}, {"id": "v3"}}
	summaries, err := Aggregate(variants, variantEvals(), AggregationSpec{
		JoinKey: "variantId",
		GroupBy: "definitionId",
		Metrics: evalMetrics,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, 3.0, summaries["v1"].Totals["total"])
	assert.Equal(t, []string{"def-fact", "def-style"}, summaries["v1"].Groups.Keys())
	assert.Equal(t, []string{"def-style"}, summaries["v2"].Groups.Keys())

	// no related records
	assert.Equal(t, MetricResult{"total": 0, "avgScore": 0, "passRate": 0}, summaries["v3"].Totals)
	assert.Empty(t, summaries["v3"].Groups)
}

func TestAggregate_UsesOnlyPrimaryRowsGiven(t *testing.T) {
	summaries, err := Aggregate([]Record{{"id": "v2"}}, variantEvals(), AggregationSpec{
		JoinKey: "variantId",
		Metrics: evalMetrics,
	})
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, 1.0, summaries["v2"].Totals["total"])
	assert.Nil(t, summaries["v2"].Groups)
}

func TestAggregate_NestedJoinKey(t *testing.T) {
	tests := []Record{
		{"id": "t1", "variantId": "v1"},
		{"id": "t2", "variantId": "v2"},
	}
	evals := []Record{
		{"id": "e1", "testId": "t1", "score": 1},
		{"id": "e2", "testId": "t2", "score": 3},
		{"id": "e3", "testId": "t2", "score": 5},
	}
	joined, err := Join(evals, "testId", tests, "id", "test")
	require.NoError(t, err)

	summaries, err := Aggregate([]Record{{"id": "v1"}, {"id": "v2"}}, joined, AggregationSpec{
		JoinKey: "test.variantId",
		Metrics: []MetricSpec{MeanOf("avg", "score")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, summaries["v1"].Totals["avg"])
	assert.Equal(t, 4.0, summaries["v2"].Totals["avg"])
}

func TestAggregate_UnresolvableJoinKey(t *testing.T) {
	_, err := Aggregate([]Record{{"id": "v1"}}, variantEvals(), AggregationSpec{
		JoinKey: "experimentId",
		Metrics: evalMetrics,
	})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, FieldPath("experimentId"), cfgErr.Path)

	// an empty related collection cannot prove the key wrong
	_, err = Aggregate([]Record{{"id": "v1"}}, nil, AggregationSpec{JoinKey: "experimentId"})
	assert.NoError(t, err)
}

func TestAggregationSpec_ValidateReportsAllProblems(t *testing.T) {
	err := AggregationSpec{
		JoinKey: "",
		GroupBy: "a..b",
		Metrics: []MetricSpec{
			MeanOf("avg", ""),
			CountOf("avg"),
			{Kind: Count},
		},
	}.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 5)
}

func TestJoin(t *testing.T) {
	left := []Record{{"id": "e1", "testId": "t1"}, {"id": "e2", "testId": "t9"}}
	right := []Record{{"id": "t1", "status": "failed"}}

	joined, err := Join(left, "testId", right, "id", "test")
	require.NoError(t, err)
	assert.Equal(t, "failed", joined[0].Get("test.status"))
	assert.Nil(t, joined[1]["test"])
	_, present := left[0]["test"]
	assert.False(t, present, "input must not be modified")

	_, err = Join(left, "testId", right, "id", "")
	assert.Error(t, err)
}

func TestKeyOf(t *testing.T) {
	key, ok := KeyOf(3)
	assert.True(t, ok)
	assert.Equal(t, "3", key)

	key, ok = KeyOf(date("2025-11-16T13:05:00Z"))
	assert.True(t, ok)
	assert.Equal(t, "2025-11-16T13:05:00Z", key)

	key, ok = KeyOf(date("2300-01-02T03:04:05Z"))
	assert.True(t, ok)
	assert.Equal(t, "2300-01-02T03:04:05Z", key)

	key, ok = KeyOf(date("1600-06-01T00:00:00.5Z"))
	assert.True(t, ok)
	assert.Equal(t, "1600-06-01T00:00:00.5Z", key)

	_, ok = KeyOf(nil)
	assert.False(t, ok)
	_, ok = KeyOf(Record{})
	assert.False(t, ok)
}

func TestValues(t *testing.T) {
	records := []Record{{"id": "def-1"}, {"name": "x"}, {"id": "def-2"}}
	assert.Equal(t, []string{"def-1", "def-2"}, Values(records, "id"))
}
