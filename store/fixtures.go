package store

import (
	"time"

	"github.com/avido/experiments-data-api/query"
)

const (
	fixtureOrg      = "org-1"
	fixtureOtherOrg = "org-2"
	fixtureApp      = "app-1"
)

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtures() map[string][]query.Record {
	return map[string][]query.Record{
		Tasks:           fixtureTasks(),
		Tests:           append(fixtureTests(), fixtureExperimentTests()...),
		Evals:           append(fixtureEvals(), fixtureExperimentEvals()...),
		EvalDefinitions: fixtureEvalDefinitions(),
		Experiments:     fixtureExperiments(),
		Variants:        fixtureVariants(),
		Steps:           fixtureSteps(),
	}
}

func task(id, name, description string) query.Record {
	return query.Record{"id": id, "orgId": fixtureOrg, "name": name, "description": description}
}

func fixtureTasks() []query.Record {
	return []query.Record{
		task("task-1", "KYC Document Parsing", "Extract fields from customer documents"),
		task("task-2", "Payment Dispute Handling", "Resolve disputes within SLA"),
		task("task-3", "Fraud Transaction Triage", "Flag and prioritize potentially fraudulent transactions"),
		task("task-4", "Onboarding Risk Review", "Score onboarding applications for manual review"),
	}
}

func test(id, taskID, createdAt, status string) query.Record {
	return query.Record{
		"id":            id,
		"orgId":         fixtureOrg,
		"applicationId": fixtureApp,
		"taskId":        taskID,
		"createdAt":     at(createdAt),
		"status":        status,
	}
}

// Task 1 degrades from 2025-11-15 on.
func fixtureTests() []query.Record {
	return []query.Record{
		test("test-099", "task-1", "2025-11-10T08:15:00Z", "completed"),
		test("test-100", "task-1", "2025-11-14T17:40:00Z", "completed"),
		test("test-101", "task-1", "2025-11-15T09:30:00Z", "completed"),
		test("test-102", "task-1", "2025-11-16T13:05:00Z", "failed"),
		test("test-201", "task-2", "2025-11-14T10:00:00Z", "completed"),
		test("test-202", "task-2", "2025-11-16T10:30:00Z", "pending"),
		test("test-301", "task-3", "2025-11-13T12:00:00Z", "completed"),
		test("test-302", "task-3", "2025-11-16T12:30:00Z", "completed"),
	}
}

func experimentTest(id, experimentID, variantID, createdAt, status string) query.Record {
	r := test(id, "task-4", createdAt, status)
	r["experimentId"] = experimentID
	r["variantId"] = variantID
	if experimentID == "exp-3" {
		r["orgId"] = fixtureOtherOrg
	}
	return r
}

func fixtureExperimentTests() []query.Record {
	return []query.Record{
		experimentTest("test-e1-1", "exp-1", "var-1", "2025-11-17T09:00:00Z", "completed"),
		experimentTest("test-e1-2", "exp-1", "var-1", "2025-11-17T09:05:00Z", "completed"),
		experimentTest("test-e2-1", "exp-1", "var-2", "2025-11-18T09:00:00Z", "completed"),
		experimentTest("test-e2-2", "exp-1", "var-2", "2025-11-18T09:05:00Z", "failed"),
		experimentTest("test-e2-3", "exp-1", "var-2", "2025-11-18T09:10:00Z", "pending"),
		experimentTest("test-e4-1", "exp-3", "var-4", "2025-11-12T15:00:00Z", "completed"),
	}
}

func eval(id, testID, definitionID, name, timestamp, status string, confidenceScore float64) query.Record {
	return query.Record{
		"id":              id,
		"orgId":           fixtureOrg,
		"applicationId":   fixtureApp,
		"testId":          testID,
		"definitionId":    definitionID,
		"name":            name,
		"timestamp":       at(timestamp),
		"status":          status,
		"confidenceScore": confidenceScore,
		"score":           confidenceScore / 100,
		"passed":          status == "passed",
	}
}

func fixtureEvals() []query.Record {
	return []query.Record{
		eval("eval-099-1", "test-099", "def-safety", "Safety Policy Compliance", "2025-11-10T08:16:00Z", "passed", 95),
		eval("eval-099-2", "test-099", "def-leakage", "Sensitive Data Leakage", "2025-11-10T08:17:00Z", "passed", 93),
		eval("eval-100-1", "test-100", "def-safety", "Safety Policy Compliance", "2025-11-14T17:41:00Z", "passed", 92),
		eval("eval-100-2", "test-100", "def-leakage", "Sensitive Data Leakage", "2025-11-14T17:42:00Z", "passed", 90),
		eval("eval-101-1", "test-101", "def-safety", "Safety Policy Compliance", "2025-11-15T09:31:00Z", "passed", 91),
		eval("eval-101-2", "test-101", "def-leakage", "Sensitive Data Leakage", "2025-11-15T09:32:00Z", "warning", 78),
		eval("eval-102-1", "test-102", "def-safety", "Safety Policy Compliance", "2025-11-16T13:10:00Z", "failed", 55),
		eval("eval-102-2", "test-102", "def-leakage", "Sensitive Data Leakage", "2025-11-16T13:11:00Z", "warning", 72),
		eval("eval-201-1", "test-201", "def-pii", "Customer PII Masking", "2025-11-14T10:01:00Z", "passed", 90),
		eval("eval-202-1", "test-202", "def-sla", "SLA Breach Risk", "2025-11-16T10:31:00Z", "warning", 65),
		eval("eval-301-1", "test-301", "def-fpr", "False Positive Rate", "2025-11-13T12:01:00Z", "passed", 94),
		eval("eval-302-1", "test-302", "def-fpr", "False Positive Rate", "2025-11-16T12:31:00Z", "passed", 93),
	}
}

func fixtureExperimentEvals() []query.Record {
	evals := []query.Record{
		eval("eval-e1-1a", "test-e1-1", "def-safety", "Safety Policy Compliance", "2025-11-17T09:01:00Z", "passed", 90),
		eval("eval-e1-1b", "test-e1-1", "def-tone", "Response Tone", "2025-11-17T09:02:00Z", "passed", 80),
		eval("eval-e1-2a", "test-e1-2", "def-safety", "Safety Policy Compliance", "2025-11-17T09:06:00Z", "failed", 70),
		eval("eval-e1-2b", "test-e1-2", "def-tone", "Response Tone", "2025-11-17T09:07:00Z", "failed", 60),
		eval("eval-e2-1a", "test-e2-1", "def-safety", "Safety Policy Compliance", "2025-11-18T09:01:00Z", "passed", 95),
		eval("eval-e2-1b", "test-e2-1", "def-tone", "Response Tone", "2025-11-18T09:02:00Z", "passed", 85),
		eval("eval-e2-2a", "test-e2-2", "def-safety", "Safety Policy Compliance", "2025-11-18T09:06:00Z", "failed", 40),
		eval("eval-e2-2b", "test-e2-2", "def-retired", "Hallucination Check", "2025-11-18T09:07:00Z", "failed", 50),
		eval("eval-e4-1a", "test-e4-1", "def-fpr", "False Positive Rate", "2025-11-12T15:01:00Z", "passed", 88),
	}
	evals[len(evals)-1]["orgId"] = fixtureOtherOrg
	return evals
}

func definition(id, evalType, name string) query.Record {
	return query.Record{
		"id":            id,
		"orgId":         fixtureOrg,
		"applicationId": fixtureApp,
		"type":          evalType,
		"name":          name,
		"createdAt":     at("2025-11-01T00:00:00Z"),
	}
}

// def-retired is referenced by an eval but intentionally has no definition.
func fixtureEvalDefinitions() []query.Record {
	return []query.Record{
		definition("def-safety", "CUSTOM", "Safety Policy Compliance"),
		definition("def-leakage", "CUSTOM", "Sensitive Data Leakage"),
		definition("def-pii", "FACT", "Customer PII Masking"),
		definition("def-sla", "CUSTOM", "SLA Breach Risk"),
		definition("def-fpr", "OUTPUT_MATCH", "False Positive Rate"),
		definition("def-tone", "STYLE", "Response Tone"),
	}
}

func fixtureExperiments() []query.Record {
	return []query.Record{
		{
			"id":          "exp-1",
			"orgId":       fixtureOrg,
			"name":        "KYC prompt tightening",
			"description": "Reduce leakage in the onboarding review flow",
			"status":      "RUNNING",
			"stepIds":     []string{"step-1", "step-2"},
			"taskIds":     []string{"task-4"},
			"createdBy":   "user-1",
			"createdAt":   at("2025-11-16T18:00:00Z"),
			"modifiedAt":  at("2025-11-18T08:00:00Z"),
		},
		{
			"id":          "exp-2",
			"orgId":       fixtureOrg,
			"name":        "Dispute tone calibration",
			"description": "Try a friendlier tone for dispute replies",
			"status":      "DRAFT",
			"stepIds":     []string{"step-2"},
			"taskIds":     []string{"task-2"},
			"createdBy":   "user-2",
			"createdAt":   at("2025-11-19T10:00:00Z"),
			"modifiedAt":  at("2025-11-19T10:00:00Z"),
		},
		{
			"id":          "exp-3",
			"orgId":       fixtureOtherOrg,
			"name":        "Fraud retrieval tuning",
			"description": "Widen the retrieval window for fraud triage",
			"status":      "COMPLETED",
			"stepIds":     []string{"step-4"},
			"taskIds":     []string{"task-4"},
			"createdBy":   "user-9",
			"createdAt":   at("2025-11-11T12:00:00Z"),
			"modifiedAt":  at("2025-11-12T16:00:00Z"),
		},
	}
}

func variant(id, orgID, experimentID, name, status, createdAt string) query.Record {
	return query.Record{
		"id":           id,
		"orgId":        orgID,
		"experimentId": experimentID,
		"name":         name,
		"status":       status,
		"configPatch":  map[string]interface{}{},
		"createdBy":    "user-1",
		"createdAt":    at(createdAt),
		"modifiedAt":   at(createdAt),
	}
}

func fixtureVariants() []query.Record {
	baseline := variant("var-1", fixtureOrg, "exp-1", "Baseline", "COMPLETED", "2025-11-16T18:05:00Z")
	baseline["description"] = "Production configuration"

	stricter := variant("var-2", fixtureOrg, "exp-1", "Stricter system prompt", "RUNNING", "2025-11-17T12:00:00Z")
	stricter["previousVariantId"] = "var-1"
	stricter["targetStepId"] = "step-2"
	stricter["configPatch"] = map[string]interface{}{
		"system_prompt": "Never repeat document numbers back to the customer.",
		"temperature":   0.2,
	}

	cooler := variant("var-3", fixtureOrg, "exp-1", "Lower temperature", "DRAFT", "2025-11-18T07:30:00Z")
	cooler["previousVariantId"] = "var-1"
	cooler["targetStepId"] = "step-2"
	cooler["configPatch"] = map[string]interface{}{"temperature": 0.0}

	return []query.Record{
		baseline,
		stricter,
		cooler,
		variant("var-4", fixtureOtherOrg, "exp-3", "Baseline", "COMPLETED", "2025-11-11T12:05:00Z"),
	}
}

func step(id, orgID, externalID, name, description, stepType string) query.Record {
	r := query.Record{
		"id":         id,
		"orgId":      orgID,
		"externalId": externalID,
		"name":       name,
		"type":       stepType,
		"createdAt":  at("2025-11-01T00:00:00Z"),
		"modifiedAt": at("2025-11-01T00:00:00Z"),
	}
	if description != "" {
		r["description"] = description
	}
	return r
}

func fixtureSteps() []query.Record {
	return []query.Record{
		step("step-1", fixtureOrg, "input_moderator", "Input Moderator", "Blocks unsafe customer input", "PROCESSING"),
		step("step-2", fixtureOrg, "response_generator", "Response Generator", "Drafts the reply shown to the customer", "LLM"),
		step("step-3", fixtureOrg, "policy_retriever", "Policy Retriever", "", "RETRIEVAL"),
		step("step-4", fixtureOtherOrg, "fraud_scorer", "Fraud Scorer", "Scores transactions with the risk service", "TOOL"),
	}
}
