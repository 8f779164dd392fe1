package postgres

import (
	"database/sql"
	"fmt"

	"github.com/salesdash/explore/internal/core/storage"
	"github.com/salesdash/explore/internal/core/wire"
)

// columnSet describes the result columns once per statement so every row is
// classified with the same driver type names.
type columnSet struct {
	names   []string
	dbTypes []string
}

func describeColumns(rows *sql.Rows) (columnSet, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return columnSet{}, fmt.Errorf("failed to read column types: %w", err)
	}

	cs := columnSet{
		names:   make([]string, len(types)),
		dbTypes: make([]string, len(types)),
	}
	for i, ct := range types {
		cs.names[i] = ct.Name()
		cs.dbTypes[i] = ct.DatabaseTypeName()
	}
	return cs, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRow scans one result row into a storage.Row.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanRow(row scanner, cols columnSet) (storage.Row, error) {
	raw := make([]interface{}, len(cols.names))
	dest := make([]interface{}, len(cols.names))
	for i := range raw {
		dest[i] = &raw[i]
	}

	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to scan result row: %w", err)
	}

	out := make(storage.Row, len(cols.names))
	for i, name := range cols.names {
		v, err := wire.FromDriver(cols.dbTypes[i], raw[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
