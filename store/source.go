// Package store provides the collections the query endpoints read from.
package store

import (
	"context"
	"fmt"

	"github.com/avido/experiments-data-api/query"
)

// Collection names
const (
	Tasks           = "tasks"
	Tests           = "tests"
	Evals           = "evals"
	EvalDefinitions = "evalDefinitions"
	Experiments     = "experiments"
	Variants        = "variants"
	Steps           = "steps"
)

var Collections = []string{Tasks, Tests, Evals, EvalDefinitions, Experiments, Variants, Steps}

// Source returns every record of a collection. Callers must treat the returned records as
// read-only, sources are free to share them between calls.
type Source interface {
	Collection(ctx context.Context, name string) ([]query.Record, error)
}

type UnknownCollectionError struct {
	Name string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("unknown collection: %s", e.Name)
}

func isKnown(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
