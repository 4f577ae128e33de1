package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// Db represents a connection to a db
type Db struct {
	session Session
}

// NewDb Gets a pointer to a db
func NewDb(username string, password string, hosts ...string) (*Db, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.PoolConfig.HostSelectionPolicy = NewDefaultHostSelectionPolicy()
	cluster.Timeout = 10 * time.Second

	if username != "" && password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: username,
			Password: password,
		}
	}

	var (
		session *gocql.Session
		err     error
	)

	if session, err = cluster.CreateSession(); err != nil {
		return nil, err
	}

	if session == nil {
		return nil, errors.New("failed to create session")
	}

	return NewDbWithSession(&GoCqlSession{ref: session}), nil
}

// NewDbWithSession creates a Db on top of an existing session
func NewDbWithSession(session Session) *Db {
	return &Db{session: session}
}

// Keyspace Retrieves a keyspace
func (db *Db) Keyspace(keyspace string) (*gocql.KeyspaceMetadata, error) {
	// We expose gocql types for now, we should wrap them in the future instead
	return db.session.KeyspaceMetadata(keyspace)
}

// Table retrieves the metadata of a table, failing when either the keyspace or the table does not exist
func (db *Db) Table(keyspace string, table string) (*gocql.TableMetadata, error) {
	ksMetadata, err := db.Keyspace(keyspace)
	if err != nil {
		return nil, err
	}

	tableMetadata, ok := ksMetadata.Tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s not found in keyspace %s", table, keyspace)
	}
	return tableMetadata, nil
}

// Execute executes query and returns the result set of a single page
func (db *Db) Execute(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	return db.session.ExecuteIter(ctx, query, options, values...)
}

// ReadTable reads every row of a table following the page state until the last page.
func (db *Db) ReadTable(ctx context.Context, keyspace string, table string, options *QueryOptions) ([]map[string]interface{}, error) {
	if options == nil {
		options = NewQueryOptions()
	}

	query := fmt.Sprintf(`SELECT * FROM "%s"."%s"`, keyspace, table)
	pageOptions := *options
	rows := make([]map[string]interface{}, 0)

	for {
		rs, err := db.session.ExecuteIter(ctx, query, &pageOptions)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rs.Values()...)

		pageState := rs.PageState()
		if len(pageState) == 0 {
			return rows, nil
		}
		pageOptions.PageState = pageState
	}
}

// Close releases the underlying session when it holds connections
func (db *Db) Close() {
	if closer, ok := db.session.(interface{ Close() }); ok {
		closer.Close()
	}
}
