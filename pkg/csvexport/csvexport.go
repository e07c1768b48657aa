// Package csvexport writes any list of rows as CSV using a declared column
// list. The same columns drive the on-screen listing, so the export always
// matches what the admin sees.
package csvexport

import (
	"bytes"
	"database/sql/driver"
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"time"
)

// TimeLayout is how timestamps are written to cells.
const TimeLayout = time.RFC3339

// Column is one exported field: Name is the header, Value reads the cell.
type Column[T any] struct {
	Name  string
	Label string
	Value func(T) any
}

// Names returns the column names in declared order.
func Names[T any](columns []Column[T]) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// Write emits a header row followed by one row per element of rows.
func Write[T any](w io.Writer, rows []T, columns []Column[T]) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Names(columns)); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = Cell(c.Value(row))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Render is Write into a buffer.
func Render[T any](rows []T, columns []Column[T]) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows, columns); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Cell converts a field value to its text form; nil and nil pointers become "".
func Cell(v any) string {
	if v == nil {
		return ""
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	v = rv.Interface()

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(TimeLayout)
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil || inner == nil {
			return ""
		}
		if _, again := inner.(driver.Valuer); again {
			return fmt.Sprint(inner)
		}
		return Cell(inner)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
