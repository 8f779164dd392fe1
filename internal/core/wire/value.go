// Package wire models the closed set of values the fact store hands back for a
// result cell. Drivers disagree on how they represent counters and numerics, so
// storage adapters classify every cell into one of these variants before it
// reaches the query layer.
package wire

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInteger64
	KindDecimal
	KindFloat64
	KindText
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger64:
		return "integer64"
	case KindDecimal:
		return "decimal"
	case KindFloat64:
		return "float64"
	case KindText:
		return "text"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Value is a single result cell. Only the field matching Kind is meaningful.
type Value struct {
	Kind    Kind
	Int     int64
	Decimal decimal.Decimal
	Float   float64
	Text    string
	Time    time.Time
}

func Null() Value { return Value{Kind: KindNull} }
func Integer64(v int64) Value { return Value{Kind: KindInteger64, Int: v} }
func Decimal(d decimal.Decimal) Value { return Value{Kind: KindDecimal, Decimal: d} }
func Float64(f float64) Value { return Value{Kind: KindFloat64, Float: f} }
func Text(s string) Value { return Value{Kind: KindText, Text: s} }
func Timestamp(t time.Time) Value { return Value{Kind: KindTimestamp, Time: t} }
func (v Value) IsNull() bool { return v.Kind == KindNull }
func (v Value) Is(kind Kind) bool { return v.Kind == kind }
