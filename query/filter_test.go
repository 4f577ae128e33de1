package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/inf.v0"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func taskOneTests() []Record {
	return []Record{
		{"id": "test-099", "taskId": "task-1", "createdAt": date("2025-11-10T08:15:00Z"), "status": "completed"},
		{"id": "test-100", "taskId": "task-1", "createdAt": date("2025-11-14T17:40:00Z"), "status": "completed"},
		{"id": "test-101", "taskId": "task-1", "createdAt": date("2025-11-15T09:30:00Z"), "status": "completed"},
		{"id": "test-102", "taskId": "task-1", "createdAt": date("2025-11-16T13:05:00Z"), "status": "failed"},
	}
}

func ids(records []Record) []string {
	result := make([]string, len(records))
	for i, r := range records {
		result[i], _ = r["id"].(string)
	}
	return result
}

func TestApply_Identity(t *testing.T) {
	records := taskOneTests()
	assert.Equal(t, records, Apply(records))
	assert.Equal(t, ids(records), ids(Apply(records, Eq("status", nil), Like("  ", "id"), Gte("createdAt", "soon"))))
}

func TestApply_EqualsStatus(t *testing.T) {
	result := Apply(taskOneTests(), Eq("status", "failed"))
	assert.Equal(t, []string{"test-102"}, ids(result))
}

func TestApply_EqualsNormalizesNumbersAndDates(t *testing.T) {
	records := []Record{
		{"id": "a", "n": int32(3), "at": date("2025-11-10T08:15:00Z")},
		{"id": "b", "n": 3.5, "at": date("2025-11-10T08:15:00.001Z")},
	}
	assert.Equal(t, []string{"a"}, ids(Apply(records, Eq("n", 3))))
	assert.Equal(t, []string{"a"}, ids(Apply(records, Eq("n", inf.NewDec(3, 0)))))
	assert.Equal(t, []string{"a"}, ids(Apply(records, Eq("at", date("2025-11-10T08:15:00Z")))))
	// a date never equals the number of milliseconds it represents
	ms := date("2025-11-10T08:15:00Z").UnixMilli()
	assert.Empty(t, Apply(records, Eq("at", ms)))
}

func TestApply_EqualsReadsDateStrings(t *testing.T) {
	records := taskOneTests()
	assert.Equal(t, []string{"test-099"}, ids(Apply(records, Eq("createdAt", "2025-11-10T08:15:00Z"))))
	assert.Equal(t, []string{"test-099"}, ids(Apply(records, Eq("createdAt", "2025-11-10T08:15:00.000Z"))))
	assert.Empty(t, Apply(records, Eq("createdAt", "2025-11-10")))
	assert.Empty(t, Apply(records, Eq("createdAt", "last tuesday")))

	// strings stored as strings still compare as strings
	labelled := []Record{{"id": "a", "label": "2025-11-10"}}
	assert.Equal(t, []string{"a"}, ids(Apply(labelled, Eq("label", "2025-11-10"))))
}

func TestApply_ContainsIsCaseInsensitive(t *testing.T) {
	records := []Record{
		{"id": "task-1", "name": "KYC Document Parsing", "description": "Extract fields from customer documents"},
		{"id": "task-2", "name": "Payment Dispute Handling", "description": "Resolve disputes within SLA"},
		{"id": "task-3", "name": "Fraud Transaction Triage", "description": nil},
	}
	assert.Equal(t, []string{"task-2"}, ids(Apply(records, Like("PAYMENT", "name", "description"))))
	assert.Equal(t, []string{"task-2"}, ids(Apply(records, Like("sla", "name", "description"))))
	assert.Equal(t, []string{"task-1", "task-2"}, ids(Apply(records, Like("d", "description"))))
}

func TestApply_ContainsIgnoresNonStrings(t *testing.T) {
	records := []Record{{"id": "a", "score": 42}}
	assert.Empty(t, Apply(records, Like("42", "score")))
}

func TestApply_RangeOnDates(t *testing.T) {
	result := Apply(taskOneTests(), Gte("createdAt", "2025-11-15T00:00:00Z"))
	assert.Equal(t, []string{"test-101", "test-102"}, ids(result))

	result = Apply(taskOneTests(), Lte("createdAt", "2025-11-14"))
	assert.Equal(t, []string{"test-099"}, ids(result))

	result = Apply(taskOneTests(),
		Gte("createdAt", date("2025-11-14T17:40:00Z")),
		Lte("createdAt", "2025-11-15T09:30:00Z"))
	assert.Equal(t, []string{"test-100", "test-101"}, ids(result))
}

func TestApply_RangeOnDateStrings(t *testing.T) {
	records := []Record{
		{"id": "a", "timestamp": "2025-11-10T08:16:00Z"},
		{"id": "b", "timestamp": "2025-11-16T13:10:00Z"},
		{"id": "c", "timestamp": "not a date"},
	}
	assert.Equal(t, []string{"b"}, ids(Apply(records, Gte("timestamp", "2025-11-15"))))
}

func TestApply_RangeOnNumbers(t *testing.T) {
	evals := []Record{
		{"id": "eval-099-1", "testId": "test-099", "confidenceScore": 95},
		{"id": "eval-099-2", "testId": "test-099", "confidenceScore": 93},
		{"id": "eval-102-1", "testId": "test-102", "confidenceScore": 55},
	}
	result := Apply(evals, Eq("testId", "test-099"), Gte("confidenceScore", "90"))
	assert.Len(t, result, 2)

	result = Apply(evals, Lte("confidenceScore", 60))
	assert.Equal(t, []string{"eval-102-1"}, ids(result))
}

func TestApply_RangeRejectsMissingValues(t *testing.T) {
	records := []Record{{"id": "a", "score": 1}, {"id": "b"}}
	assert.Equal(t, []string{"a"}, ids(Apply(records, Gte("score", 0))))
}

func TestApply_UnparseableBoundIsInert(t *testing.T) {
	records := taskOneTests()
	for _, bound := range []interface{}{"abc", "", "   ", "NaN", true, []string{"x"}} {
		assert.Equal(t, ids(records), ids(Apply(records, Gte("createdAt", bound))), "bound %v", bound)
		assert.Equal(t, ids(records), ids(Apply(records, Lte("createdAt", bound))), "bound %v", bound)
	}
}

func TestApply_InSet(t *testing.T) {
	records := taskOneTests()
	assert.Equal(t, []string{"test-099", "test-102"}, ids(Apply(records, InStrings("id", []string{"test-102", "test-099"}))))
	assert.Equal(t, ids(records), ids(Apply(records, InStrings("id", nil))))
	assert.Empty(t, Apply(records, InStrings("id", []string{})))
	assert.Empty(t, Apply(records, In("missing", []interface{}{"x"})))
}

func TestApply_Commutative(t *testing.T) {
	a := Eq("status", "completed")
	b := Gte("createdAt", "2025-11-14T00:00:00Z")
	assert.Equal(t, ids(Apply(taskOneTests(), a, b)), ids(Apply(taskOneTests(), b, a)))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	records := taskOneTests()
	before := ids(records)
	_ = Apply(records, Eq("status", "failed"))
	_ = Sort(records, &SortSpec{Path: "createdAt", Direction: Descending})
	assert.Equal(t, before, ids(records))
}

func TestApply_NestedPaths(t *testing.T) {
	records := []Record{
		{"id": "e1", "test": Record{"variantId": "v1"}},
		{"id": "e2", "test": map[string]interface{}{"variantId": "v2"}},
		{"id": "e3", "test": nil},
		{"id": "e4", "test": "not a record"},
	}
	assert.Equal(t, []string{"e2"}, ids(Apply(records, Eq("test.variantId", "v2"))))
	assert.Empty(t, Apply(records, Eq("test.variantId.deeper", "v1")))
}

func TestApply_PointerValues(t *testing.T) {
	status := "failed"
	var missing *string
	records := []Record{
		{"id": "a", "status": &status},
		{"id": "b", "status": missing},
	}
	assert.Equal(t, []string{"a"}, ids(Apply(records, Eq("status", "failed"))))
}

func TestMatches(t *testing.T) {
	r := Record{"id": "a", "status": "failed"}
	assert.True(t, Matches(r))
	assert.True(t, Matches(r, Eq("status", "failed")))
	assert.False(t, Matches(r, Eq("status", "completed")))
}

func TestFieldPathValid(t *testing.T) {
	assert.True(t, FieldPath("id").Valid())
	assert.True(t, FieldPath("test.variantId").Valid())
	assert.False(t, FieldPath("").Valid())
	assert.False(t, FieldPath("test.").Valid())
	assert.False(t, FieldPath(".id").Valid())
	assert.False(t, FieldPath("a..b").Valid())
}
