package store

import (
	"context"

	"github.com/avido/experiments-data-api/query"
)

type MemorySource struct {
	collections map[string][]query.Record
}

// NewMemorySource returns a source serving the built-in fixtures.
func NewMemorySource() *MemorySource {
	return NewMemorySourceWith(fixtures())
}

// NewMemorySourceWith returns a source serving the given collections. Collections missing from
// the map are served empty.
func NewMemorySourceWith(collections map[string][]query.Record) *MemorySource {
	c := make(map[string][]query.Record, len(Collections))
	for _, name := range Collections {
		c[name] = collections[name]
	}
	return &MemorySource{collections: c}
}

func (m *MemorySource) Collection(_ context.Context, name string) ([]query.Record, error) {
	records, ok := m.collections[name]
	if !ok {
		return nil, &UnknownCollectionError{Name: name}
	}
	result := make([]query.Record, len(records))
	copy(result, records)
	return result, nil
}
