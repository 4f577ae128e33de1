package types

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/avido/experiments-data-api/query"
	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"
)

type toRecordFn func(value interface{}) interface{}

// FieldNameFn converts a column name into a record field name.
type FieldNameFn func(column string) string

// ToRecords converts rows read from a table into records. Column names are renamed with
// fieldName and values are turned into plain Go values the query package can compare. The
// table metadata is optional; without it values are only dereferenced.
func ToRecords(rows []map[string]interface{}, table *gocql.TableMetadata, fieldName FieldNameFn) []query.Record {
	result := make([]query.Record, len(rows))
	converters := make(map[string]toRecordFn)

	for i, row := range rows {
		record := make(query.Record, len(row))
		for columnName, value := range row {
			converter, ok := converters[columnName]
			if !ok {
				converter = recordConverterForColumn(table, columnName)
				converters[columnName] = converter
			}
			record[fieldName(columnName)] = converter(value)
		}
		result[i] = record
	}
	return result
}

func recordConverterForColumn(table *gocql.TableMetadata, columnName string) toRecordFn {
	if table == nil {
		return Dereference
	}
	column, ok := table.Columns[columnName]
	if !ok || column.Type == nil {
		return Dereference
	}
	return recordConverterPerType(column.Type)
}

func recordConverterPerType(typeInfo gocql.TypeInfo) toRecordFn {
	switch typeInfo.Type() {
	case gocql.TypeDecimal:
		return DecimalToFloat
	case gocql.TypeVarint:
		return BigIntToFloat
	case gocql.TypeBlob:
		return ByteArrayToBase64String
	case gocql.TypeUUID, gocql.TypeTimeUUID:
		return UUIDToString
	case gocql.TypeTime:
		return DurationToCqlFormattedString
	}
	return Dereference
}

// Dereference returns the value a non-nil pointer points to and nil for nil pointers.
func Dereference(value interface{}) interface{} {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr {
		return value
	}
	if rv.IsNil() {
		return nil
	}
	return rv.Elem().Interface()
}

func DecimalToFloat(value interface{}) interface{} {
	var d *inf.Dec
	switch v := value.(type) {
	case *inf.Dec:
		d = v
	case inf.Dec:
		d = &v
	default:
		return Dereference(value)
	}
	if d == nil {
		return nil
	}
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return nil
	}
	return f
}

func BigIntToFloat(value interface{}) interface{} {
	var i *big.Int
	switch v := value.(type) {
	case *big.Int:
		i = v
	case big.Int:
		i = &v
	default:
		return Dereference(value)
	}
	if i == nil {
		return nil
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	return f
}

func ByteArrayToBase64String(value interface{}) interface{} {
	switch v := Dereference(value).(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	default:
		return v
	}
}

func UUIDToString(value interface{}) interface{} {
	switch v := Dereference(value).(type) {
	case gocql.UUID:
		return v.String()
	case [16]byte:
		return gocql.UUID(v).String()
	default:
		return v
	}
}

func DurationToCqlFormattedString(value interface{}) interface{} {
	d, ok := Dereference(value).(time.Duration)
	if !ok {
		return Dereference(value)
	}
	totalSeconds := d.Truncate(time.Second)
	remainingNanos := d - totalSeconds

	var (
		hours   = 0
		minutes = 0
	)
	secs := int(totalSeconds.Seconds())

	if secs >= 60 {
		minutes = secs / 60
		secs = secs % 60
	}
	if minutes >= 60 {
		hours = minutes / 60
		minutes = minutes % 60
	}

	nanosStr := ""
	if remainingNanos > 0 {
		nanosStr = fmt.Sprintf(".%09d", remainingNanos.Nanoseconds())
	}
	return fmt.Sprintf("%02d:%02d:%02d%s", hours, minutes, secs, nanosStr)
}
