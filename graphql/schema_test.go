package graphql

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/avido/experiments-data-api/auth"
	"github.com/avido/experiments-data-api/config"
	"github.com/avido/experiments-data-api/log"
	"github.com/avido/experiments-data-api/service"
	"github.com/avido/experiments-data-api/store"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSchema(t *testing.T, resources config.Resources) graphql.Schema {
	cfg := config.NewConfigMock()
	cfg.On("Naming").Return(config.NewDefaultNaming())
	cfg.On("Resources").Return(resources)
	cfg.On("Logger").Return(log.NewZapLogger(zap.NewNop()))

	svc := service.New(store.NewMemorySource(), log.NewZapLogger(zap.NewNop()))
	schema, err := NewSchemaGenerator(svc, cfg).BuildSchema()
	require.NoError(t, err)
	return schema
}

func execute(t *testing.T, schema graphql.Schema, ctx context.Context, query string) map[string]interface{} {
	result := graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: ctx})
	require.Empty(t, result.Errors)

	// Round trip through JSON so scalars are compared as clients see them
	b, err := json.Marshal(result.Data)
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &data))
	return data
}

func valueIDs(data map[string]interface{}, field string) []string {
	var ids []string
	for _, v := range data[field].(map[string]interface{})["values"].([]interface{}) {
		ids = append(ids, v.(map[string]interface{})["id"].(string))
	}
	return ids
}

func TestSchemaFollowsResources(t *testing.T) {
	schema := newSchema(t, config.Tasks|config.Evals)
	fields := schema.QueryType().Fields()
	assert.Contains(t, fields, "tasks")
	assert.Contains(t, fields, "evals")
	assert.NotContains(t, fields, "variants")
	assert.NotContains(t, fields, "steps")
}

func TestSchemaWithoutResources(t *testing.T) {
	cfg := config.NewConfigMock()
	cfg.On("Naming").Return(config.NewDefaultNaming())
	cfg.On("Resources").Return(config.Resources(0))
	cfg.On("Logger").Return(log.NewZapLogger(zap.NewNop()))

	_, err := NewSchemaGenerator(service.New(store.NewMemorySource(), log.NewZapLogger(zap.NewNop())), cfg).BuildSchema()
	assert.Error(t, err)
}

func TestQueryTests(t *testing.T) {
	schema := newSchema(t, config.AllResources)
	data := execute(t, schema, context.Background(),
		`{ tests(filter: {taskId: "task-1", status: "failed"}) { values { id status createdAt } total } }`)

	assert.Equal(t, []string{"test-102"}, valueIDs(data, "tests"))
	tests := data["tests"].(map[string]interface{})
	assert.EqualValues(t, 1, tests["total"])
	value := tests["values"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "failed", value["status"])
	assert.NotEmpty(t, value["createdAt"])
}

func TestQueryTestsRequiresFilter(t *testing.T) {
	schema := newSchema(t, config.AllResources)
	result := graphql.Do(graphql.Params{Schema: schema, RequestString: `{ tests { values { id } } }`})
	assert.NotEmpty(t, result.Errors)
}

func TestQueryPaging(t *testing.T) {
	schema := newSchema(t, config.AllResources)
	ctx := context.Background()

	data := execute(t, schema, ctx,
		`{ tests(filter: {taskId: "task-1"}, sort: "id", order: "asc", options: {pageSize: 3}) { values { id } total pageState } }`)
	assert.Equal(t, []string{"test-099", "test-100", "test-101"}, valueIDs(data, "tests"))
	pageState := data["tests"].(map[string]interface{})["pageState"].(string)
	require.NotEmpty(t, pageState)

	data = execute(t, schema, ctx,
		`{ tests(filter: {taskId: "task-1"}, sort: "id", order: "asc", options: {pageSize: 3, pageState: "`+pageState+`"}) { values { id } pageState } }`)
	assert.Equal(t, []string{"test-102"}, valueIDs(data, "tests"))
	assert.Nil(t, data["tests"].(map[string]interface{})["pageState"])
}

func TestQueryEvalsByScore(t *testing.T) {
	schema := newSchema(t, config.AllResources)
	data := execute(t, schema, context.Background(),
		`{ evals(filter: {testId: "test-101", confidenceScoreMin: 0}, sort: "id", order: "asc") { values { id confidenceScore passed } } }`)
	assert.Contains(t, valueIDs(data, "evals"), "eval-101-1")
}

func TestQueryVariantsUsesContextOrg(t *testing.T) {
	schema := newSchema(t, config.AllResources)
	ctx := auth.WithContextOrgID(context.Background(), "org-1")

	data := execute(t, schema, ctx, `{
		variants(filter: {experimentId: "exp-1"}) {
			values { id configPatch metrics { totalTests passRate evalBreakdown { definitionId name } } }
		}
	}`)
	assert.Equal(t, []string{"var-1", "var-2", "var-3"}, valueIDs(data, "variants"))

	baseline := data["variants"].(map[string]interface{})["values"].([]interface{})[0].(map[string]interface{})
	metrics := baseline["metrics"].(map[string]interface{})
	assert.EqualValues(t, 2, metrics["totalTests"])
	assert.EqualValues(t, 50, metrics["passRate"])
	assert.Len(t, metrics["evalBreakdown"], 2)
}

func TestQueryVariantsAccessDenied(t *testing.T) {
	schema := newSchema(t, config.AllResources)
	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ variants(filter: {orgId: "org-1", experimentId: "exp-3"}) { values { id } } }`,
		Context:       context.Background(),
	})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Access denied", result.Errors[0].Message)
}

func TestQueryStepsAndTasks(t *testing.T) {
	schema := newSchema(t, config.AllResources)
	data := execute(t, schema, context.Background(), `{
		steps(filter: {orgId: "org-1", type: "LLM"}) { values { id type } }
		tasks(filter: {q: "payment"}) { values { id name } }
	}`)
	assert.Equal(t, []string{"step-2"}, valueIDs(data, "steps"))
	assert.Equal(t, []string{"task-2"}, valueIDs(data, "tasks"))
}

func TestFlattenArgs(t *testing.T) {
	flat := flattenArgs(map[string]interface{}{
		"filter":  map[string]interface{}{"taskId": "task-1"},
		"options": map[string]interface{}{"pageSize": 5},
		"sort":    "id",
	})
	assert.Equal(t, map[string]interface{}{"taskId": "task-1", "pageSize": 5, "sort": "id"}, flat)
}
