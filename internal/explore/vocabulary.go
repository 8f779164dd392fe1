package explore

import "github.com/salesdash/explore/internal/core/sqlbuild"

// Every SQL fragment that varies with the request comes from the tables below.
// Request text is only ever used as a lookup key into them.

// Measure is an aggregate over the sales fact row.
type Measure struct {
	Key  string
	Expr sqlbuild.Fragment
	// NeedsProduct marks expressions that read product_sales/products columns.
	NeedsProduct bool
	// KeepsCancelled disables the implicit completed-only predicate.
	KeepsCancelled bool
}

// TimeGrain truncates the sale timestamp.
type TimeGrain struct {
	Key  string
	Expr sqlbuild.Fragment
}

// Dimension is a categorical display column.
type Dimension struct {
	Key          string
	Expr         sqlbuild.Fragment
	NeedsProduct bool
}

var measures = map[string]Measure{
	"revenue": {
		Key:  "revenue",
		Expr: "COALESCE(SUM(s.total_amount),0)::double precision",
	},
	"orders": {
		Key:  "orders",
		Expr: "COUNT(s.id)::bigint",
	},
	"avg_ticket": {
		Key:  "avg_ticket",
		Expr: "COALESCE(AVG(s.total_amount),0)::double precision",
	},
	"cancels": {
		Key:            "cancels",
		Expr:           "SUM(CASE WHEN s.sale_status_desc = 'CANCELLED' THEN 1 ELSE 0 END)::bigint",
		KeepsCancelled: true,
	},
	"avg_delivery_minutes": {
		Key:  "avg_delivery_minutes",
		Expr: "COALESCE(AVG(s.delivery_seconds) / 60.0,0)::double precision",
	},
	// gross - channel commission - product cost
	"net_revenue": {
		Key:          "net_revenue",
		Expr:         "(SUM(s.total_amount) - COALESCE(SUM(s.total_amount * COALESCE(c.commission_pct,0) / 100.0),0) - COALESCE(SUM(ps.quantity * COALESCE(p.cost_price,0)),0))::double precision",
		NeedsProduct: true,
	},
}

var timeGrains = map[string]TimeGrain{
	"hour":  {Key: "hour", Expr: "DATE_TRUNC('hour', s.created_at)"},
	"day":   {Key: "day", Expr: "DATE_TRUNC('day', s.created_at)"},
	"week":  {Key: "week", Expr: "DATE_TRUNC('week', s.created_at)"},
	"month": {Key: "month", Expr: "DATE_TRUNC('month', s.created_at)"},
}

var dimensions = map[string]Dimension{
	"channel":  {Key: "channel", Expr: "c.name"},
	"store":    {Key: "store", Expr: "st.name"},
	"product":  {Key: "product", Expr: "p.name", NeedsProduct: true},
	"category": {Key: "category", Expr: "cat.name", NeedsProduct: true},
}

// LookupMeasure returns the measure registered under key.
func LookupMeasure(key string) (Measure, bool) {
	m, ok := measures[key]
	return m, ok
}

// LookupTimeGrain returns the time grain registered under key.
func LookupTimeGrain(key string) (TimeGrain, bool) {
	g, ok := timeGrains[key]
	return g, ok
}

// LookupDimension returns the dimension registered under key.
func LookupDimension(key string) (Dimension, bool) {
	d, ok := dimensions[key]
	return d, ok
}
