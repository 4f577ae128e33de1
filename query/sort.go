package query

import (
	"fmt"
	"sort"
	"strings"
)

// Direction is the ordering direction of a SortSpec.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection reads "asc" or "desc" (any case). Anything else yields def.
func ParseDirection(s string, def Direction) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	}
	return def
}

// SortSpec orders records by a single field.
type SortSpec struct {
	Path      FieldPath
	Direction Direction
}

func (s SortSpec) String() string {
	return fmt.Sprintf("%s %s", s.Path, s.Direction)
}

// Sort returns a stably ordered copy of records. Records that compare equal keep their relative
// order whatever the direction. A nil spec returns a copy in the original order.
func Sort(records []Record, spec *SortSpec) []Record {
	result := make([]Record, len(records))
	copy(result, records)
	if spec == nil {
		return result
	}

	path := spec.Path
	desc := spec.Direction == Descending
	sort.SliceStable(result, func(i, j int) bool {
		c := Compare(result[i].Get(path), result[j].Get(path))
		if desc {
			c = -c
		}
		return c < 0
	})
	return result
}

// kind ranks used when two values of different kinds are compared.
const (
	rankNil = iota
	rankBool
	rankNumber
	rankTimestamp
	rankString
	rankOther
)

func rank(v interface{}) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case float64:
		return rankNumber
	case timestamp:
		return rankTimestamp
	case string:
		return rankString
	}
	return rankOther
}

// Compare is a three-way comparison of two raw record values: nil is less than any value,
// numbers and dates use their natural order and strings compare by code point.
func Compare(a, b interface{}) int {
	return compareNormalized(normalize(a), normalize(b))
}

func compareNormalized(a, b interface{}) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return compareInts(int64(ra), int64(rb))
	}

	switch av := a.(type) {
	case nil:
		return 0
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case timestamp:
		return compareInts(int64(av), int64(b.(timestamp)))
	case string:
		return strings.Compare(av, b.(string))
	}
	return 0
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
