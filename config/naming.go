package config

import "github.com/iancoleman/strcase"

// NamingConvention maps between Cassandra identifiers, record field names and GraphQL names.
type NamingConvention interface {
	// ToField converts a column name into a record field name.
	ToField(column string) string
	// ToColumn converts a record field name into a column name.
	ToColumn(field string) string
	// ToTable converts a collection name into a table name.
	ToTable(collection string) string

	ToGraphQLType(name string) string
	ToGraphQLTypeSuffix(name string, suffix string) string
}

type NamingConventionFn func() NamingConvention

type defaultNaming struct {
}

func NewDefaultNaming() NamingConvention {
	return &defaultNaming{}
}

func (n *defaultNaming) ToField(column string) string {
	return strcase.ToLowerCamel(column)
}

func (n *defaultNaming) ToColumn(field string) string {
	return strcase.ToSnake(field)
}

func (n *defaultNaming) ToTable(collection string) string {
	return strcase.ToSnake(collection)
}

func (n *defaultNaming) ToGraphQLType(name string) string {
	return strcase.ToCamel(name)
}

func (n *defaultNaming) ToGraphQLTypeSuffix(name string, suffix string) string {
	return strcase.ToCamel(name) + strcase.ToCamel(suffix)
}
