package storage

import (
	"context"
	"errors"

	"github.com/salesdash/explore/internal/core/sqlbuild"
	"github.com/salesdash/explore/internal/core/wire"
)

// ErrNoRows is returned by CountGroups when the count statement yields no row.
var ErrNoRows = errors.New("count query returned no rows")

// Row maps a result column alias to its classified value.
type Row map[string]wire.Value

// FactStore runs assembled statements against the sales star schema.
// Implementations must honour ctx cancellation so an abandoned request
// does not keep a query running.
type FactStore interface {
	// CountGroups executes a single-row, single-column statement and returns that cell.
	CountGroups(ctx context.Context, stmt sqlbuild.Statement) (wire.Value, error)

	// QueryRows executes stmt and returns every row in result order.
	QueryRows(ctx context.Context, stmt sqlbuild.Statement) ([]Row, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
