package graphql

import (
	"context"
	"errors"

	"github.com/avido/experiments-data-api/auth"
	"github.com/avido/experiments-data-api/config"
	"github.com/avido/experiments-data-api/log"
	"github.com/avido/experiments-data-api/service"
	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"
)

type resolveFn func(ctx context.Context, args map[string]interface{}) (*service.Page, error)

// collection describes a query field listing one collection.
type collection struct {
	resource config.Resources
	field    string
	typeName string
	fields   graphql.Fields
	filter   graphql.InputObjectConfigFieldMap
	// filterRequired marks collections that cannot be listed without a scope
	filterRequired bool
	resolve        resolveFn
}

type SchemaGenerator struct {
	svc       *service.Service
	naming    config.NamingConvention
	resources config.Resources
	logger    log.Logger
}

func NewSchemaGenerator(svc *service.Service, cfg config.Config) *SchemaGenerator {
	return &SchemaGenerator{
		svc:       svc,
		naming:    cfg.Naming(),
		resources: cfg.Resources(),
		logger:    cfg.Logger(),
	}
}

var queryOptionsType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "QueryOptions",
	Fields: graphql.InputObjectConfigFieldMap{
		"pageSize":  &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"pageState": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

// BuildSchema builds the query schema for the enabled resources
func (sg *SchemaGenerator) BuildSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}
	for _, c := range sg.collections() {
		if !sg.resources.IsEnabled(c.resource) {
			continue
		}
		fields[c.field] = sg.buildQueryField(c)
	}

	if len(fields) == 0 {
		return graphql.Schema{}, errors.New("no resources enabled")
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: fields,
		}),
	})
}

func (sg *SchemaGenerator) buildQueryField(c collection) *graphql.Field {
	itemType := graphql.NewObject(graphql.ObjectConfig{
		Name:   sg.naming.ToGraphQLType(c.typeName),
		Fields: c.fields,
	})

	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: sg.naming.ToGraphQLTypeSuffix(c.field, "result"),
		Fields: graphql.Fields{
			"values":    &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(itemType))},
			"total":     &graphql.Field{Type: graphql.Int},
			"pageState": &graphql.Field{Type: graphql.String},
		},
	})

	var filterType graphql.Input = graphql.NewInputObject(graphql.InputObjectConfig{
		Name:   sg.naming.ToGraphQLTypeSuffix(c.typeName, "filter"),
		Fields: c.filter,
	})
	if c.filterRequired {
		filterType = graphql.NewNonNull(filterType)
	}

	return &graphql.Field{
		Type: resultType,
		Args: graphql.FieldConfigArgument{
			"filter":  &graphql.ArgumentConfig{Type: filterType},
			"sort":    &graphql.ArgumentConfig{Type: graphql.String},
			"order":   &graphql.ArgumentConfig{Type: graphql.String},
			"options": &graphql.ArgumentConfig{Type: queryOptionsType},
		},
		Resolve: func(params graphql.ResolveParams) (interface{}, error) {
			page, err := c.resolve(params.Context, flattenArgs(params.Args))
			if err != nil {
				return nil, err
			}
			return toResult(page), nil
		},
	}
}

// flattenArgs merges the filter, ordering and options arguments into the flat shape the service
// params decode from.
func flattenArgs(args map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{})
	if filter, ok := args["filter"].(map[string]interface{}); ok {
		for k, v := range filter {
			flat[k] = v
		}
	}
	if options, ok := args["options"].(map[string]interface{}); ok {
		for k, v := range options {
			flat[k] = v
		}
	}
	for _, key := range []string{"sort", "order"} {
		if v, ok := args[key]; ok {
			flat[key] = v
		}
	}
	return flat
}

func decodeArgs(args map[string]interface{}, params interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           params,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}

func orgOf(ctx context.Context, orgID string) string {
	if orgID == "" {
		return auth.ContextOrgID(ctx)
	}
	return orgID
}

func toResult(page *service.Page) map[string]interface{} {
	values := make([]interface{}, len(page.Records))
	for i, r := range page.Records {
		values[i] = map[string]interface{}(r)
	}
	var pageState interface{}
	if page.PageState != "" {
		pageState = page.PageState
	}
	return map[string]interface{}{
		"values":    values,
		"total":     page.Total,
		"pageState": pageState,
	}
}

func (sg *SchemaGenerator) collections() []collection {
	return []collection{
		{
			resource: config.Tasks,
			field:    "tasks",
			typeName: "task",
			fields:   withFields(stringFields("orgId", "name", "description")),
			filter:   stringInputs("q"),
			resolve: func(ctx context.Context, args map[string]interface{}) (*service.Page, error) {
				var params service.TaskParams
				if err := decodeArgs(args, &params); err != nil {
					return nil, err
				}
				return sg.svc.Tasks(ctx, params)
			},
		},
		{
			resource: config.Tests,
			field:    "tests",
			typeName: "test",
			fields: withFields(
				stringFields("orgId", "applicationId", "taskId", "experimentId", "variantId", "status"),
				timestampFields("createdAt", "modifiedAt")),
			filter:         withInputs(requiredInputs("taskId"), stringInputs("status", "createdAtFrom", "createdAtTo")),
			filterRequired: true,
			resolve: func(ctx context.Context, args map[string]interface{}) (*service.Page, error) {
				var params service.TestParams
				if err := decodeArgs(args, &params); err != nil {
					return nil, err
				}
				return sg.svc.Tests(ctx, params)
			},
		},
		{
			resource: config.Evals,
			field:    "evals",
			typeName: "eval",
			fields: withFields(
				stringFields("orgId", "applicationId", "testId", "definitionId", "name", "status"),
				timestampFields("timestamp"),
				graphql.Fields{
					"confidenceScore": &graphql.Field{Type: graphql.Float},
					"score":           &graphql.Field{Type: graphql.Float},
					"passed":          &graphql.Field{Type: graphql.Boolean},
				}),
			filter: withInputs(
				requiredInputs("testId"),
				stringInputs("status", "name", "definition", "timestampFrom", "timestampTo"),
				graphql.InputObjectConfigFieldMap{
					"confidenceScoreMin": &graphql.InputObjectFieldConfig{Type: graphql.Float},
					"confidenceScoreMax": &graphql.InputObjectFieldConfig{Type: graphql.Float},
				}),
			filterRequired: true,
			resolve: func(ctx context.Context, args map[string]interface{}) (*service.Page, error) {
				var params service.EvalParams
				if err := decodeArgs(args, &params); err != nil {
					return nil, err
				}
				return sg.svc.Evals(ctx, params)
			},
		},
		{
			resource: config.Experiments,
			field:    "experiments",
			typeName: "experiment",
			fields: withFields(
				stringFields("orgId", "name", "description", "status", "createdBy"),
				stringListFields("stepIds", "taskIds"),
				timestampFields("createdAt", "modifiedAt")),
			filter: stringInputs("orgId", "q", "status"),
			resolve: func(ctx context.Context, args map[string]interface{}) (*service.Page, error) {
				var params service.ExperimentParams
				if err := decodeArgs(args, &params); err != nil {
					return nil, err
				}
				params.OrgID = orgOf(ctx, params.OrgID)
				return sg.svc.Experiments(ctx, params)
			},
		},
		{
			resource: config.Variants,
			field:    "variants",
			typeName: "variant",
			fields: withFields(
				stringFields("orgId", "experimentId", "previousVariantId", "name", "status", "targetStepId",
					"description", "createdBy"),
				timestampFields("createdAt", "modifiedAt"),
				graphql.Fields{
					"configPatch": &graphql.Field{Type: jsonValue},
					"metrics":     &graphql.Field{Type: variantMetricsType},
				}),
			filter:         withInputs(requiredInputs("experimentId"), stringInputs("orgId", "status")),
			filterRequired: true,
			resolve: func(ctx context.Context, args map[string]interface{}) (*service.Page, error) {
				var params service.VariantParams
				if err := decodeArgs(args, &params); err != nil {
					return nil, err
				}
				params.OrgID = orgOf(ctx, params.OrgID)
				return sg.svc.Variants(ctx, params)
			},
		},
		{
			resource: config.Steps,
			field:    "steps",
			typeName: "step",
			fields: withFields(
				stringFields("orgId", "externalId", "name", "description", "type"),
				timestampFields("createdAt", "modifiedAt")),
			filter: stringInputs("orgId", "q", "type"),
			resolve: func(ctx context.Context, args map[string]interface{}) (*service.Page, error) {
				var params service.StepParams
				if err := decodeArgs(args, &params); err != nil {
					return nil, err
				}
				params.OrgID = orgOf(ctx, params.OrgID)
				return sg.svc.Steps(ctx, params)
			},
		},
	}
}

var evalBreakdownType = graphql.NewObject(graphql.ObjectConfig{
	Name: "EvalBreakdown",
	Fields: graphql.Fields{
		"definitionId": &graphql.Field{Type: graphql.String},
		"name":         &graphql.Field{Type: graphql.String},
		"avgScore":     &graphql.Field{Type: graphql.Float},
		"passRate":     &graphql.Field{Type: graphql.Float},
	},
})

var variantMetricsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VariantMetrics",
	Fields: graphql.Fields{
		"totalTests":     &graphql.Field{Type: graphql.Int},
		"completedTests": &graphql.Field{Type: graphql.Int},
		"failedTests":    &graphql.Field{Type: graphql.Int},
		"avgScore":       &graphql.Field{Type: graphql.Float},
		"passRate":       &graphql.Field{Type: graphql.Float},
		"evalBreakdown":  &graphql.Field{Type: graphql.NewList(evalBreakdownType)},
	},
})

// withFields merges field sets, every item type gets a non null id.
func withFields(sets ...graphql.Fields) graphql.Fields {
	fields := graphql.Fields{
		"id": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	}
	for _, set := range sets {
		for name, f := range set {
			fields[name] = f
		}
	}
	return fields
}

func stringFields(names ...string) graphql.Fields {
	return fieldsOf(graphql.String, names)
}

func stringListFields(names ...string) graphql.Fields {
	return fieldsOf(graphql.NewList(graphql.String), names)
}

func timestampFields(names ...string) graphql.Fields {
	return fieldsOf(timestamp, names)
}

func fieldsOf(t graphql.Output, names []string) graphql.Fields {
	fields := make(graphql.Fields, len(names))
	for _, name := range names {
		fields[name] = &graphql.Field{Type: t}
	}
	return fields
}

func withInputs(sets ...graphql.InputObjectConfigFieldMap) graphql.InputObjectConfigFieldMap {
	inputs := graphql.InputObjectConfigFieldMap{}
	for _, set := range sets {
		for name, f := range set {
			inputs[name] = f
		}
	}
	return inputs
}

func stringInputs(names ...string) graphql.InputObjectConfigFieldMap {
	return inputsOf(graphql.String, names)
}

func requiredInputs(names ...string) graphql.InputObjectConfigFieldMap {
	return inputsOf(graphql.NewNonNull(graphql.String), names)
}

func inputsOf(t graphql.Input, names []string) graphql.InputObjectConfigFieldMap {
	inputs := make(graphql.InputObjectConfigFieldMap, len(names))
	for _, name := range names {
		inputs[name] = &graphql.InputObjectFieldConfig{Type: t}
	}
	return inputs
}
