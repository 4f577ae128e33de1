package db

import (
	"context"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/mock"
)

type SessionMock struct {
	mock.Mock
}

func (o *SessionMock) ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	args := o.Called(query, options, values)
	rs, _ := args.Get(0).(ResultSet)
	return rs, args.Error(1)
}

func (o *SessionMock) KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error) {
	args := o.Called(keyspaceName)
	ks, _ := args.Get(0).(*gocql.KeyspaceMetadata)
	return ks, args.Error(1)
}

type ResultMock struct {
	mock.Mock
}

func (o *ResultMock) PageState() []byte {
	args := o.Called()
	state, _ := args.Get(0).([]byte)
	return state
}

func (o *ResultMock) Values() []map[string]interface{} {
	args := o.Called()
	return args.Get(0).([]map[string]interface{})
}

// NewResultMock returns a result set holding the given rows and page state
func NewResultMock(pageState []byte, rows ...map[string]interface{}) *ResultMock {
	rs := &ResultMock{}
	rs.On("PageState").Return(pageState)
	rs.On("Values").Return(rows)
	return rs
}

// NewTableMetadata builds table metadata from column names and their native types, the first
// column being the partition key.
func NewTableMetadata(keyspace string, table string, columns ...ColumnDef) *gocql.TableMetadata {
	metadata := &gocql.TableMetadata{
		Keyspace: keyspace,
		Name:     table,
		Columns:  make(map[string]*gocql.ColumnMetadata, len(columns)),
	}
	for i, def := range columns {
		kind := gocql.ColumnRegular
		if i == 0 {
			kind = gocql.ColumnPartitionKey
		}
		column := &gocql.ColumnMetadata{
			Keyspace:       keyspace,
			Table:          table,
			Name:           def.Name,
			ComponentIndex: i,
			Kind:           kind,
			Type:           gocql.NewNativeType(4, def.Type, ""),
		}
		metadata.Columns[def.Name] = column
		if kind == gocql.ColumnPartitionKey {
			metadata.PartitionKey = append(metadata.PartitionKey, column)
		}
		metadata.OrderedColumns = append(metadata.OrderedColumns, def.Name)
	}
	return metadata
}

type ColumnDef struct {
	Name string
	Type gocql.Type
}
