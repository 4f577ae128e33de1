package graphql

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

var timestamp = graphql.NewScalar(graphql.ScalarConfig{
	Name: "Timestamp",
	Description: "The `Timestamp` scalar type represents a DateTime." +
		" The Timestamp is serialized as an RFC 3339 quoted string",
	Serialize:    serializeTimestamp,
	ParseValue:   deserializeTimestamp,
	ParseLiteral: parseLiteralFromStringHandler(deserializeTimestamp),
})

// jsonValue passes structured values such as variant config patches through unchanged.
var jsonValue = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "The `JSON` scalar type represents an arbitrary JSON value.",
	Serialize:   identityFn,
	ParseValue:  identityFn,
	ParseLiteral: func(valueAST ast.Value) interface{} {
		return nil
	},
})

func identityFn(value interface{}) interface{} {
	return value
}

func parseLiteralFromStringHandler(parser graphql.ParseValueFn) graphql.ParseLiteralFn {
	return func(valueAST ast.Value) interface{} {
		switch valueAST := valueAST.(type) {
		case *ast.StringValue:
			return parser(valueAST.Value)
		}
		return nil
	}
}

func deserializeTimestamp(value interface{}) interface{} {
	switch value := value.(type) {
	case string:
		t, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return nil
		}
		return t
	case *string:
		if value == nil {
			return nil
		}
		return deserializeTimestamp(*value)
	default:
		return value
	}
}

func serializeTimestamp(value interface{}) interface{} {
	switch value := value.(type) {
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if value == nil {
			return nil
		}
		return serializeTimestamp(*value)
	default:
		return value
	}
}
