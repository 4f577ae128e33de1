package query

import (
	"fmt"
	"strings"
)

// FilterKind identifies the predicate a Filter applies.
type FilterKind int

const (
	// Equals keeps records whose field equals the value after normalization.
	Equals FilterKind = iota
	// Contains keeps records where one of the fields is a string containing the value, ignoring case.
	Contains
	// RangeGte keeps records whose number or date field is greater than or equal to the bound.
	RangeGte
	// RangeLte keeps records whose number or date field is less than or equal to the bound.
	RangeLte
	// InSet keeps records whose field value is a member of the set.
	InSet
)

var filterKindNames = map[FilterKind]string{
	Equals:   "eq",
	Contains: "contains",
	RangeGte: "gte",
	RangeLte: "lte",
	InSet:    "in",
}

func (k FilterKind) String() string {
	if name, ok := filterKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FilterKind(%d)", int(k))
}

// Filter is a single predicate over one or more field paths. Only Contains looks at more than
// the first path.
type Filter struct {
	Kind  FilterKind
	Paths []FieldPath
	Value interface{}
}

// Eq builds an Equals filter.
func Eq(path FieldPath, value interface{}) Filter {
	return Filter{Kind: Equals, Paths: []FieldPath{path}, Value: value}
}

// Like builds a Contains filter that matches when any of the paths contains substring.
func Like(substring string, paths ...FieldPath) Filter {
	return Filter{Kind: Contains, Paths: paths, Value: substring}
}

// Gte builds a RangeGte filter. The bound may be a number, a time.Time or a raw string.
func Gte(path FieldPath, bound interface{}) Filter {
	return Filter{Kind: RangeGte, Paths: []FieldPath{path}, Value: bound}
}

// Lte builds a RangeLte filter. The bound may be a number, a time.Time or a raw string.
func Lte(path FieldPath, bound interface{}) Filter {
	return Filter{Kind: RangeLte, Paths: []FieldPath{path}, Value: bound}
}

// In builds an InSet filter. A nil set disables the filter while an empty set matches nothing.
func In(path FieldPath, set []interface{}) Filter {
	var value interface{}
	if set != nil {
		value = set
	}
	return Filter{Kind: InSet, Paths: []FieldPath{path}, Value: value}
}

// InStrings is In for a set of strings.
func InStrings(path FieldPath, set []string) Filter {
	if set == nil {
		return In(path, nil)
	}
	values := make([]interface{}, len(set))
	for i, s := range set {
		values[i] = s
	}
	return In(path, values)
}

// predicate is a compiled filter. A nil predicate means the filter is absent.
type predicate func(Record) bool

func (f Filter) compile() predicate {
	if f.Value == nil || len(f.Paths) == 0 {
		return nil
	}
	path := f.Paths[0]

	switch f.Kind {
	case Equals:
		want := normalize(f.Value)
		if s, ok := want.(string); ok && s == "" {
			return nil
		}
		return func(r Record) bool {
			v := normalize(r.Get(path))
			if _, ok := v.(timestamp); ok {
				if s, ok := want.(string); ok {
					d, ok := parseDate(s)
					return ok && equal(v, d)
				}
			}
			return equal(v, want)
		}
	case Contains:
		s, ok := normalize(f.Value).(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil
		}
		needle := strings.ToLower(s)
		paths := f.Paths
		return func(r Record) bool {
			for _, p := range paths {
				if hay, ok := normalize(r.Get(p)).(string); ok && strings.Contains(strings.ToLower(hay), needle) {
					return true
				}
			}
			return false
		}
	case RangeGte, RangeLte:
		bound, ok := parseBound(f.Value)
		if !ok {
			return nil
		}
		kind := f.Kind
		return func(r Record) bool {
			v, ok := coerceTo(r.Get(path), bound)
			if !ok {
				return false
			}
			c := compareNormalized(v, bound)
			if kind == RangeGte {
				return c >= 0
			}
			return c <= 0
		}
	case InSet:
		set := setOf(f.Value)
		return func(r Record) bool {
			v := normalize(r.Get(path))
			if v == nil {
				return false
			}
			for _, member := range set {
				if equal(v, member) {
					return true
				}
			}
			return false
		}
	}
	return nil
}

func setOf(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		set := make([]interface{}, len(v))
		for i := range v {
			set[i] = normalize(v[i])
		}
		return set
	case []string:
		set := make([]interface{}, len(v))
		for i := range v {
			set[i] = v[i]
		}
		return set
	default:
		return []interface{}{normalize(v)}
	}
}

func equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case timestamp:
		bv, ok := b.(timestamp)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

// Apply returns the records satisfying every filter, in their original order. Filters that are
// absent (nil value, blank substring, unparseable bound) do not take part. With no active
// filters the returned slice holds the same records in the same order.
func Apply(records []Record, filters ...Filter) []Record {
	predicates := make([]predicate, 0, len(filters))
	for _, f := range filters {
		if p := f.compile(); p != nil {
			predicates = append(predicates, p)
		}
	}

	result := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, predicates) {
			result = append(result, r)
		}
	}
	return result
}

// Matches reports whether a single record satisfies every filter.
func Matches(r Record, filters ...Filter) bool {
	for _, f := range filters {
		if p := f.compile(); p != nil && !p(r) {
			return false
		}
	}
	return true
}

func matches(r Record, predicates []predicate) bool {
	for _, p := range predicates {
		if !p(r) {
			return false
		}
	}
	return true
}
