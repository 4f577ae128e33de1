package db

import (
	"context"
	"errors"

	"github.com/gocql/gocql"
)

// DefaultPageSize is the amount of rows fetched per round trip when reading whole tables
const DefaultPageSize = 500

type QueryOptions struct {
	Consistency       gocql.Consistency
	SerialConsistency gocql.SerialConsistency
	PageSize          int
	PageState         []byte
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{
		Consistency:       gocql.LocalQuorum,
		SerialConsistency: gocql.LocalSerial,
		PageSize:          DefaultPageSize,
	}
}

func (q *QueryOptions) WithConsistency(consistency gocql.Consistency) *QueryOptions {
	q.Consistency = consistency
	return q
}

func (q *QueryOptions) WithSerialConsistency(serialConsistency gocql.SerialConsistency) *QueryOptions {
	q.SerialConsistency = serialConsistency
	return q
}

func (q *QueryOptions) WithPageSize(pageSize int) *QueryOptions {
	q.PageSize = pageSize
	return q
}

type Session interface {
	// ExecuteIter executes a statement and returns a single page of the result set
	ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error)

	KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error)
}

type ResultSet interface {
	// PageState is empty on the last page
	PageState() []byte
	Values() []map[string]interface{}
}

type goCqlResultIterator struct {
	pageState []byte
	values    []map[string]interface{}
}

func (r *goCqlResultIterator) PageState() []byte {
	return r.pageState
}

func (r *goCqlResultIterator) Values() []map[string]interface{} {
	return r.values
}

func newResultIterator(iter *gocql.Iter) (*goCqlResultIterator, error) {
	columns := iter.Columns()
	scanner := iter.Scanner()

	items := make([]map[string]interface{}, 0)

	for scanner.Next() {
		row, err := mapScan(scanner, columns)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &goCqlResultIterator{
		pageState: iter.PageState(),
		values:    items,
	}, nil
}

type GoCqlSession struct {
	ref *gocql.Session
}

func (session *GoCqlSession) ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	q := session.ref.Query(query, values...).WithContext(ctx)

	// Avoid reusing metadata from the prepared statement, SELECT * must see new columns
	q.NoSkipMetadata()

	if options != nil {
		q.Consistency(options.Consistency)

		if options.SerialConsistency != gocql.Serial && options.SerialConsistency != gocql.LocalSerial {
			return nil, errors.New("invalid serial consistency")
		}
		q.SerialConsistency(options.SerialConsistency)

		if options.PageSize > 0 {
			q.PageSize(options.PageSize)
		}
		q.PageState(options.PageState)
	}
	return newResultIterator(q.Iter())
}

func (session *GoCqlSession) KeyspaceMetadata(keyspaceName string) (*gocql.KeyspaceMetadata, error) {
	return session.ref.KeyspaceMetadata(keyspaceName)
}

func (session *GoCqlSession) Close() {
	session.ref.Close()
}
