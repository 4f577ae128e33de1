package store

import (
	"context"

	"github.com/avido/experiments-data-api/config"
	"github.com/avido/experiments-data-api/db"
	"github.com/avido/experiments-data-api/query"
	"github.com/avido/experiments-data-api/types"
	"github.com/pkg/errors"
)

// CassandraSource reads each collection from the table of the same name, converted to snake case,
// in a single keyspace.
type CassandraSource struct {
	db       *db.Db
	keyspace string
	naming   config.NamingConvention
	options  *db.QueryOptions
}

func NewCassandraSource(dbClient *db.Db, keyspace string, naming config.NamingConvention) *CassandraSource {
	return &CassandraSource{
		db:       dbClient,
		keyspace: keyspace,
		naming:   naming,
		options:  db.NewQueryOptions(),
	}
}

func (s *CassandraSource) Collection(ctx context.Context, name string) ([]query.Record, error) {
	if !isKnown(name) {
		return nil, &UnknownCollectionError{Name: name}
	}

	tableName := s.naming.ToTable(name)
	table, err := s.db.Table(s.keyspace, tableName)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read metadata of collection %s", name)
	}

	rows, err := s.db.ReadTable(ctx, s.keyspace, tableName, s.options)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read collection %s", name)
	}

	return types.ToRecords(rows, table, s.naming.ToField), nil
}
