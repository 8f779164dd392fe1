package wire

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FromDriver classifies a raw database/sql cell into a Value.
// dbType is the driver's column type name (sql.ColumnType.DatabaseTypeName) and
// may be empty when the driver does not report one; the Go type decides then.
// NUMERIC/DECIMAL columns arrive from lib/pq as text and are parsed exactly.
func FromDriver(dbType string, raw interface{}) (Value, error) {
	if raw == nil {
		return Null(), nil
	}

	switch strings.ToUpper(dbType) {
	case "NUMERIC", "DECIMAL":
		return decimalFromDriver(raw)
	case "INT2", "INT4", "INT8", "SMALLINT", "INTEGER", "BIGINT":
		if b, ok := raw.([]byte); ok {
			n, err := strconv.ParseInt(string(b), 10, 64)
			if err != nil {
				return Value{}, fmt.Errorf("parse %s column: %w", dbType, err)
			}
			return Integer64(n), nil
		}
	}

	switch val := raw.(type) {
	case int64:
		return Integer64(val), nil
	case int32:
		return Integer64(int64(val)), nil
	case int:
		return Integer64(int64(val)), nil
	case float64:
		return Float64(val), nil
	case float32:
		return Float64(float64(val)), nil
	case decimal.Decimal:
		return Decimal(val), nil
	case *decimal.Decimal:
		if val == nil {
			return Null(), nil
		}
		return Decimal(*val), nil
	case time.Time:
		return Timestamp(val), nil
	case string:
		return Text(val), nil
	case []byte:
		return Text(string(val)), nil
	case bool:
		return Text(strconv.FormatBool(val)), nil
	}

	return Value{}, fmt.Errorf("unsupported column value of type %T", raw)
}

func decimalFromDriver(raw interface{}) (Value, error) {
	switch val := raw.(type) {
	case []byte:
		d, err := decimal.NewFromString(string(val))
		if err != nil {
			return Value{}, fmt.Errorf("parse numeric column: %w", err)
		}
		return Decimal(d), nil
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return Value{}, fmt.Errorf("parse numeric column: %w", err)
		}
		return Decimal(d), nil
	case float64:
		return Decimal(decimal.NewFromFloat(val)), nil
	case int64:
		return Decimal(decimal.NewFromInt(val)), nil
	case decimal.Decimal:
		return Decimal(val), nil
	}
	return Value{}, fmt.Errorf("unsupported numeric column value of type %T", raw)
}
