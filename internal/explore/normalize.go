package explore

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/salesdash/explore/internal/core/storage"
	"github.com/salesdash/explore/internal/core/wire"
	"github.com/shopspring/decimal"
)

// maxSafeInteger is the largest integer a JSON (IEEE-754 double) consumer reads exactly.
const maxSafeInteger = 1<<53 - 1

// decimalLike matches arbitrary-precision numerics from other libraries. Only
// types whose name contains "decimal" qualify.
type decimalLike interface {
	InexactFloat64() float64
	String() string
}

// NormalizeValue makes a result value JSON-safe without losing precision.
// Integers outside the safe range and non-finite decimals become strings,
// non-finite floats become null, and slices and maps are normalized element
// by element. Applying it twice yields the same value.
func NormalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case wire.Value:
		return normalizeWire(t)
	case storage.Row:
		out := make(map[string]interface{}, len(t))
		for k, cell := range t {
			out[k] = normalizeWire(cell)
		}
		return out
	case int64:
		return normalizeInt64(t)
	case int:
		return normalizeInt64(int64(t))
	case int32:
		return int64(t)
	case uint64:
		if t > maxSafeInteger {
			return strconv.FormatUint(t, 10)
		}
		return int64(t)
	case float64:
		return normalizeFloat(t)
	case float32:
		return normalizeFloat(float64(t))
	case decimal.Decimal:
		return normalizeDecimal(t.InexactFloat64(), t.String)
	case *decimal.Decimal:
		if t == nil {
			return nil
		}
		return normalizeDecimal(t.InexactFloat64(), t.String)
	case time.Time:
		return t
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = NormalizeValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = NormalizeValue(item)
		}
		return out
	case decimalLike:
		if isDecimalTypeName(t) {
			return normalizeDecimal(t.InexactFloat64(), t.String)
		}
		return t
	default:
		return v
	}
}

func normalizeWire(v wire.Value) interface{} {
	switch v.Kind {
	case wire.KindInteger64:
		return normalizeInt64(v.Int)
	case wire.KindDecimal:
		return normalizeDecimal(v.Decimal.InexactFloat64(), v.Decimal.String)
	case wire.KindFloat64:
		return normalizeFloat(v.Float)
	case wire.KindText:
		return v.Text
	case wire.KindTimestamp:
		return v.Time
	default:
		return nil
	}
}

func normalizeInt64(n int64) interface{} {
	if n > maxSafeInteger || n < -maxSafeInteger {
		return strconv.FormatInt(n, 10)
	}
	return n
}

func normalizeFloat(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func normalizeDecimal(f float64, exact func() string) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return exact()
	}
	return f
}

func isDecimalTypeName(v interface{}) bool {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.Contains(strings.ToLower(t.Name()), "decimal")
}

// totalFromCount turns the count cell into the envelope total. Like any JSON
// number it goes through a double, so counts past 2^53 round to the nearest one.
func totalFromCount(v wire.Value) (int64, error) {
	var f float64
	switch n := normalizeWire(v).(type) {
	case nil:
		return 0, nil
	case int64:
		f = float64(n)
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("unexpected count value %q: %w", n, err)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unexpected count value of kind %s", v.Kind)
	}

	if math.IsNaN(f) || f < 0 {
		return 0, fmt.Errorf("unexpected count value %v", f)
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64, nil
	}
	return int64(f), nil
}
