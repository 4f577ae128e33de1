package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort_NilSpecKeepsOrder(t *testing.T) {
	records := taskOneTests()
	assert.Equal(t, ids(records), ids(Sort(records, nil)))
}

func TestSort_ByConfidenceAscending(t *testing.T) {
	evals := []Record{
		{"id": "eval-102-1", "confidenceScore": 55},
		{"id": "eval-102-2", "confidenceScore": 72},
	}
	sorted := Sort(evals, &SortSpec{Path: "confidenceScore"})
	assert.Equal(t, 55, sorted[0]["confidenceScore"])

	sorted = Sort(evals, &SortSpec{Path: "confidenceScore", Direction: Descending})
	assert.Equal(t, []string{"eval-102-2", "eval-102-1"}, ids(sorted))
}

func TestSort_Dates(t *testing.T) {
	sorted := Sort(taskOneTests(), &SortSpec{Path: "createdAt", Direction: Descending})
	assert.Equal(t, []string{"test-102", "test-101", "test-100", "test-099"}, ids(sorted))
}

func TestSort_StableInBothDirections(t *testing.T) {
	records := []Record{
		{"id": "a", "status": "completed"},
		{"id": "b", "status": "failed"},
		{"id": "c", "status": "completed"},
		{"id": "d", "status": "failed"},
	}
	asc := Sort(records, &SortSpec{Path: "status"})
	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(asc))

	desc := Sort(records, &SortSpec{Path: "status", Direction: Descending})
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(desc))
}

func TestSort_Idempotent(t *testing.T) {
	spec := &SortSpec{Path: "status", Direction: Descending}
	once := Sort(taskOneTests(), spec)
	assert.Equal(t, ids(once), ids(Sort(once, spec)))
}

func TestSort_NullsFirstAscendingLastDescending(t *testing.T) {
	records := []Record{
		{"id": "a", "name": "beta"},
		{"id": "b"},
		{"id": "c", "name": "alpha"},
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids(Sort(records, &SortSpec{Path: "name"})))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Sort(records, &SortSpec{Path: "name", Direction: Descending})))
}

func TestSort_CodePointOrder(t *testing.T) {
	records := []Record{
		{"id": "lower", "name": "apple"},
		{"id": "upper", "name": "Zebra"},
		{"id": "accent", "name": "Épée"},
	}
	assert.Equal(t, []string{"upper", "lower", "accent"}, ids(Sort(records, &SortSpec{Path: "name"})))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(nil, nil))
	assert.Equal(t, -1, Compare(nil, 0))
	assert.Equal(t, 1, Compare("a", nil))
	assert.Equal(t, -1, Compare(int64(2), 2.5))
	assert.Equal(t, 0, Compare(uint8(7), float32(7)))
	assert.Equal(t, -1, Compare(false, true))
	assert.Equal(t, 1, Compare(date("2025-11-16T00:00:00Z"), date("2025-11-15T00:00:00Z")))
	assert.Equal(t, -1, Compare("test-099", "test-100"))
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Ascending, ParseDirection("asc", Descending))
	assert.Equal(t, Descending, ParseDirection("DESC", Ascending))
	assert.Equal(t, Descending, ParseDirection("sideways", Descending))
	assert.Equal(t, Ascending, ParseDirection("", Ascending))
}
