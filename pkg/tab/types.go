// Package tab defines the shared data model for the tabular ingestion core:
// raw and typed tables, reject records, parse results, and the typed fatal
// errors a parse invocation can end with.
//
// Everything in this package is plain data. Tables are built once per parse
// invocation and never shared between invocations, so none of these types
// carry locks.
package tab

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// FieldType represents the declared data type of a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldInt
	FieldBool
)

// String returns a human-readable name for the field type.
func (ft FieldType) String() string {
	switch ft {
	case FieldText:
		return "text"
	case FieldEnum:
		return "enum"
	case FieldDate:
		return "date"
	case FieldNumeric:
		return "numeric"
	case FieldInt:
		return "int"
	case FieldBool:
		return "bool"
	default:
		return "value"
	}
}

// RawRow is a single all-string row along with the line number it came from
// in the source file (1-indexed, counting every physical line including
// headers, so reject records point at something a human can find).
type RawRow struct {
	Line  int
	Cells []string
}

// RawTable is the shared output contract of all four decoders: all-string
// columnar data plus the originally observed header. No typing, trimming, or
// validation has happened yet.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// nullCanonical is the canonical encoding of a null cell. It is outside the
// value alphabet of every supported type, so a null can never collide with an
// empty string in hash input.
const nullCanonical = "\x00"

// Value is a typed cell. Valid=false means null. The Kind discriminates
// which payload field is populated, mirroring the {payload, Valid} shape of
// pgtype values.
type Value struct {
	Kind  FieldType
	Valid bool

	Text string
	Int  int64
	Dec  decimal.Decimal
	// Prec is the schema-declared precision the decimal was rounded to.
	// Only meaningful when Kind is FieldNumeric.
	Prec int32
	Date time.Time
	Bool bool
}

// Canonical returns the deterministic, locale-independent string encoding of
// the value used for sorting and hashing. Two logically identical values must
// always produce identical canonical strings, regardless of which source
// format they were decoded from.
func (v Value) Canonical() string {
	if !v.Valid {
		return nullCanonical
	}
	switch v.Kind {
	case FieldNumeric:
		return v.Dec.StringFixed(v.Prec)
	case FieldInt:
		return strconv.FormatInt(v.Int, 10)
	case FieldDate:
		return v.Date.Format("2006-01-02")
	case FieldBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return v.Text
	}
}

// TypedRow is a fully cast row. ContentHash and KeyHash are populated by the
// canonicalizer as the final pipeline stage.
type TypedRow struct {
	Line        int
	Values      []Value
	ContentHash string
	KeyHash     string
}

// TypedTable holds validated, typed rows. Columns follow the schema
// contract's declared order, not the order observed in the source file.
type TypedTable struct {
	Columns []string
	Rows    []TypedRow
}

// ColumnIndex returns the position of a column, or -1 if absent.
func (t *TypedTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
