package query

import (
	"sort"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
)

// MetricKind is the kind of value a MetricSpec computes.
type MetricKind int

const (
	// Count is the number of records, restricted to the ones matching Where when set.
	Count MetricKind = iota
	// Mean is the arithmetic mean of the numeric values of Field.
	Mean
	// Ratio is the percentage (0-100) of records matching Where.
	Ratio
)

// MetricSpec describes a single metric computed for a group of records.
type MetricSpec struct {
	Name  string
	Kind  MetricKind
	Field FieldPath
	Where []Filter
}

// CountOf counts the records matching every filter in where.
func CountOf(name string, where ...Filter) MetricSpec {
	return MetricSpec{Name: name, Kind: Count, Where: where}
}

// MeanOf averages the numeric values of field.
func MeanOf(name string, field FieldPath) MetricSpec {
	return MetricSpec{Name: name, Kind: Mean, Field: field}
}

// RatioOf computes the percentage of records matching every filter in where.
func RatioOf(name string, where ...Filter) MetricSpec {
	return MetricSpec{Name: name, Kind: Ratio, Where: where}
}

// MetricResult maps metric names to their values.
type MetricResult map[string]float64

// Groups maps group keys to the metrics computed for the group.
type Groups map[string]MetricResult

// Keys returns the group keys in ascending order.
func (g Groups) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summarize computes metrics over records as a single group. An empty collection yields 0 for
// every metric.
func Summarize(records []Record, metrics []MetricSpec) MetricResult {
	result := make(MetricResult, len(metrics))
	for _, m := range metrics {
		result[m.Name] = m.compute(records)
	}
	return result
}

func (m MetricSpec) compute(records []Record) float64 {
	switch m.Kind {
	case Count:
		return float64(len(Apply(records, m.Where...)))
	case Mean:
		var sum float64
		n := 0
		for _, r := range records {
			if v, ok := normalize(r.Get(m.Field)).(float64); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	case Ratio:
		if len(records) == 0 {
			return 0
		}
		return float64(len(Apply(records, m.Where...))) / float64(len(records)) * 100
	}
	return 0
}

// GroupBy partitions records by the value at path and computes metrics per group. Records
// without a value at path are left out.
func GroupBy(records []Record, path FieldPath, metrics []MetricSpec) (Groups, error) {
	if !path.Valid() {
		return nil, newConfigurationError("group key", path, "malformed field path")
	}
	index := Index(records, path)
	groups := make(Groups, len(index))
	for key, members := range index {
		groups[key] = Summarize(members, metrics)
	}
	return groups, nil
}

// Index partitions records by the value at path. Records keep their relative order within each
// partition; records without a value are left out.
func Index(records []Record, path FieldPath) map[string][]Record {
	index := make(map[string][]Record)
	for _, r := range records {
		key, ok := KeyOf(r.Get(path))
		if !ok {
			continue
		}
		index[key] = append(index[key], r)
	}
	return index
}

// KeyOf renders a scalar value as a map key. Nil and non-scalar values have no key.
func KeyOf(value interface{}) (string, bool) {
	switch v := normalize(value).(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case timestamp:
		return time.UnixMilli(int64(v)).UTC().Format(time.RFC3339Nano), true
	}
	return "", false
}

// AggregationSpec derives per-record statistics for a primary collection from a related
// secondary collection.
type AggregationSpec struct {
	// PrimaryKey identifies primary records, "id" when empty.
	PrimaryKey FieldPath
	// JoinKey is the field of secondary records referencing PrimaryKey.
	JoinKey FieldPath
	// GroupBy optionally splits each primary record's secondary records into groups.
	GroupBy FieldPath
	Metrics []MetricSpec
}

// Summary holds the metrics computed for one primary record.
type Summary struct {
	Totals MetricResult
	Groups Groups
}

func (s AggregationSpec) primaryKey() FieldPath {
	if s.PrimaryKey == "" {
		return "id"
	}
	return s.PrimaryKey
}

// Validate reports every structural problem of the spec at once.
func (s AggregationSpec) Validate() error {
	var result *multierror.Error
	if !s.primaryKey().Valid() {
		result = multierror.Append(result, newConfigurationError("primary key", s.PrimaryKey, "malformed field path"))
	}
	if !s.JoinKey.Valid() {
		result = multierror.Append(result, newConfigurationError("join key", s.JoinKey, "malformed field path"))
	}
	if s.GroupBy != "" && !s.GroupBy.Valid() {
		result = multierror.Append(result, newConfigurationError("group key", s.GroupBy, "malformed field path"))
	}

	seen := make(map[string]bool, len(s.Metrics))
	for _, m := range s.Metrics {
		if m.Name == "" {
			result = multierror.Append(result, newConfigurationError("metric", "", "name is required"))
			continue
		}
		if seen[m.Name] {
			result = multierror.Append(result, newConfigurationError("metric", FieldPath(m.Name), "duplicate name"))
		}
		seen[m.Name] = true
		if m.Kind == Mean && !m.Field.Valid() {
			result = multierror.Append(result, newConfigurationError("metric field", m.Field, "malformed field path"))
		}
	}
	return result.ErrorOrNil()
}

// Aggregate computes a Summary for every primary record, keyed by its primary key. Secondary
// records are matched through the join key only: filters applied to the primary collection do
// not restrict them. It fails when the spec is malformed or when no secondary record resolves
// the join key.
func Aggregate(primary, secondary []Record, spec AggregationSpec) (map[string]Summary, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(secondary) > 0 && !anyHas(secondary, spec.JoinKey) {
		return nil, newConfigurationError("join key", spec.JoinKey, "not resolvable on any related record")
	}

	related := Index(secondary, spec.JoinKey)
	result := make(map[string]Summary, len(primary))
	for _, p := range primary {
		key, ok := KeyOf(p.Get(spec.primaryKey()))
		if !ok {
			continue
		}
		members := related[key]
		summary := Summary{Totals: Summarize(members, spec.Metrics)}
		if spec.GroupBy != "" {
			groups, err := GroupBy(members, spec.GroupBy, spec.Metrics)
			if err != nil {
				return nil, err
			}
			summary.Groups = groups
		}
		result[key] = summary
	}
	return result, nil
}

func anyHas(records []Record, path FieldPath) bool {
	for _, r := range records {
		if r.Has(path) {
			return true
		}
	}
	return false
}
