// Package query implements filtering, ordering, paging and grouped aggregation over in-memory
// collections of records.
//
// Every function in this package is a pure function of its inputs: collections are never
// mutated and results are freshly allocated slices, so the same snapshot can be queried from
// many goroutines at once.
package query

import (
	"strings"
)

// Record is an opaque mapping of field names to values. Values can be scalars, pointers to
// scalars or nested records.
type Record map[string]interface{}

// FieldPath selects a (possibly nested) field using dots as separators, e.g. "test.variantId".
type FieldPath string

// Segments splits the path into its components.
func (p FieldPath) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

// Valid reports whether every segment of the path is non-empty.
func (p FieldPath) Valid() bool {
	if p == "" {
		return false
	}
	for _, segment := range p.Segments() {
		if segment == "" {
			return false
		}
	}
	return true
}

// Get resolves path within the record. Missing fields and traversal through non-record values
// resolve to nil.
func (r Record) Get(path FieldPath) interface{} {
	return resolve(r, path.Segments())
}

// Has reports whether the path resolves to a present, non-nil value.
func (r Record) Has(path FieldPath) bool {
	return normalize(r.Get(path)) != nil
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	clone := make(Record, len(r)+1)
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

func resolve(value interface{}, segments []string) interface{} {
	if len(segments) == 0 {
		return nil
	}
	current := value
	for _, segment := range segments {
		switch node := current.(type) {
		case Record:
			current = node[segment]
		case map[string]interface{}:
			current = node[segment]
		case *Record:
			if node == nil {
				return nil
			}
			current = (*node)[segment]
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return current
}
