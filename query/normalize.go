package query

import (
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/inf.v0"
)

// timestamp is the normalized form of dates: milliseconds since the Unix epoch. It is a distinct
// type so that dates never compare equal to plain numbers.
type timestamp int64

// dateLayouts are tried in order when a string has to be read as a date.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// normalize maps a raw record value onto one of nil, float64, timestamp, string or bool.
// Nested records and other values are returned untouched.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return v
	case bool:
		return v
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case time.Time:
		return timestamp(v.UnixMilli())
	case timestamp:
		return v
	case *inf.Dec:
		if v == nil {
			return nil
		}
		return decimalToFloat(v)
	case *big.Int:
		if v == nil {
			return nil
		}
		f, _ := new(big.Float).SetInt(v).Float64()
		return f
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return value
}

func decimalToFloat(d *inf.Dec) interface{} {
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return nil
	}
	return f
}

// rangeValue returns the normalized value when it can take part in a range comparison, i.e.
// when it is a number or a date.
func rangeValue(value interface{}) (interface{}, bool) {
	switch v := normalize(value).(type) {
	case float64, timestamp:
		return v, true
	}
	return nil, false
}

// parseBound reads a range bound. Strings are parsed first as numbers and then as dates; any
// value that yields neither is reported as not ok, which callers treat as an absent filter.
func parseBound(value interface{}) (interface{}, bool) {
	if s, ok := normalize(value).(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if math.IsNaN(f) {
				return nil, false
			}
			return f, true
		}
		if ts, ok := parseDate(s); ok {
			return ts, true
		}
		return nil, false
	}
	return rangeValue(value)
}

func parseDate(s string) (timestamp, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return 0, false
	}
	return timestamp(t.UnixMilli()), true
}

// ParseDate parses s with the layouts accepted for date bounds. It returns false for blank or
// malformed input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceTo converts a field value so that it can be compared against bound. Strings holding a
// date are read as dates when the bound is a date.
func coerceTo(value interface{}, bound interface{}) (interface{}, bool) {
	v := normalize(value)
	switch bound.(type) {
	case float64:
		f, ok := v.(float64)
		return f, ok
	case timestamp:
		switch fv := v.(type) {
		case timestamp:
			return fv, true
		case string:
			return parseDate(fv)
		}
	}
	return nil, false
}
