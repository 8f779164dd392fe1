package explore

import (
	"github.com/lib/pq"
	"github.com/salesdash/explore/internal/core/sqlbuild"
)

const completedStatus = "COMPLETED"

const categorySemijoin sqlbuild.Fragment = "SELECT 1 FROM product_sales ps2 JOIN products p2 ON p2.id = ps2.product_id WHERE ps2.sale_id = s.id"

const (
	baseJoins    sqlbuild.Fragment = "sales s JOIN channels c ON c.id = s.channel_id JOIN stores st ON st.id = s.store_id"
	productJoins sqlbuild.Fragment = "LEFT JOIN product_sales ps ON ps.sale_id = s.id LEFT JOIN products p ON p.id = ps.product_id LEFT JOIN categories cat ON cat.id = p.category_id"
)

// joinSet lists the optional join chains a query needs.
type joinSet struct {
	product bool
}

// planJoins is a pure function of the dimension and the measures. The product
// chain fans out one row per product line, so filters never pull it in.
func planJoins(dim *Dimension, measures []Measure) joinSet {
	var js joinSet
	if dim != nil && dim.NeedsProduct {
		js.product = true
	}
	for _, m := range measures {
		if m.NeedsProduct {
			js.product = true
		}
	}
	return js
}

func (js joinSet) fragments() []sqlbuild.Fragment {
	out := []sqlbuild.Fragment{baseJoins}
	if js.product {
		out = append(out, productJoins)
	}
	return out
}

// Strategy is the data-query shape chosen once per request.
type Strategy int

const (
	// StrategyFlat groups, orders by time and pages.
	StrategyFlat Strategy = iota
	// StrategyTopN keeps the top groups by the first measure, then pages over them.
	StrategyTopN
)

func (s Strategy) String() string {
	if s == StrategyTopN {
		return "top_n"
	}
	return "flat"
}

// Plan is the assembled pair of statements for one request.
type Plan struct {
	Strategy Strategy
	Count    sqlbuild.Statement
	Data     sqlbuild.Statement
}

// Assemble renders the count and data statements for spec.
func Assemble(spec QuerySpec) Plan {
	a := newAssembly(spec)
	strategy := StrategyFlat
	if spec.HasDimension() && spec.Top > 0 {
		strategy = StrategyTopN
	}

	plan := Plan{Strategy: strategy, Count: a.count()}
	switch strategy {
	case StrategyTopN:
		plan.Data = a.topN()
	default:
		plan.Data = a.flat()
	}
	return plan
}

// assembly holds the fragments shared by the count and data statements.
type assembly struct {
	spec    QuerySpec
	joins   joinSet
	groupBy []sqlbuild.Fragment
	selects []sqlbuild.Fragment
	orderBy []sqlbuild.Fragment
}

func newAssembly(spec QuerySpec) assembly {
	a := assembly{
		spec:  spec,
		joins: planJoins(spec.Dimension, spec.Measures),
	}

	a.groupBy = append(a.groupBy, spec.TimeGrain.Expr)
	a.selects = append(a.selects, spec.TimeGrain.Expr+" AS ts")
	a.orderBy = append(a.orderBy, "ts ASC")
	if spec.Dimension != nil {
		a.groupBy = append(a.groupBy, spec.Dimension.Expr)
		a.selects = append(a.selects, spec.Dimension.Expr+" AS dim")
		a.orderBy = append(a.orderBy, "dim ASC")
	}
	for _, m := range spec.Measures {
		a.selects = append(a.selects, m.Expr+" AS "+sqlbuild.Fragment(m.Key))
	}
	return a
}

func (a assembly) predicates() []sqlbuild.Clause {
	var clauses []sqlbuild.Clause

	keepCancelled := false
	for _, m := range a.spec.Measures {
		if m.KeepsCancelled {
			keepCancelled = true
		}
	}
	if !keepCancelled {
		clauses = append(clauses, func(b *sqlbuild.Builder) {
			b.Write("s.sale_status_desc =").Bind(completedStatus)
		})
	}

	if start := a.spec.Start; start != nil {
		clauses = append(clauses, func(b *sqlbuild.Builder) {
			b.Write("s.created_at >=").Bind(start.Time)
		})
	}
	if end := a.spec.End; end != nil {
		if end.DateOnly {
			next := end.Time.AddDate(0, 0, 1)
			clauses = append(clauses, func(b *sqlbuild.Builder) {
				b.Write("s.created_at <").Bind(next)
			})
		} else {
			clauses = append(clauses, func(b *sqlbuild.Builder) {
				b.Write("s.created_at <=").Bind(end.Time)
			})
		}
	}

	clauses = appendIDFilter(clauses, "s.store_id", a.spec.StoreIDs)
	clauses = appendIDFilter(clauses, "s.channel_id", a.spec.ChannelIDs)
	clauses = a.appendCategoryFilter(clauses)
	return clauses
}

// appendCategoryFilter filters on the joined product row when the chain is
// present. Otherwise it uses a semijoin so each sale still counts once.
func (a assembly) appendCategoryFilter(clauses []sqlbuild.Clause) []sqlbuild.Clause {
	ids := a.spec.CategoryIDs
	if len(ids) == 0 {
		return clauses
	}
	if a.joins.product {
		return appendIDFilter(clauses, "p.category_id", ids)
	}
	return append(clauses, func(b *sqlbuild.Builder) {
		b.Write("EXISTS").Nested(func(b *sqlbuild.Builder) {
			b.Write(categorySemijoin, "AND p2.category_id = ANY").Nested(func(b *sqlbuild.Builder) {
				b.Bind(pq.Array(ids))
			})
		})
	})
}

func appendIDFilter(clauses []sqlbuild.Clause, column sqlbuild.Fragment, ids []int64) []sqlbuild.Clause {
	if len(ids) == 0 {
		return clauses
	}
	return append(clauses, func(b *sqlbuild.Builder) {
		b.Write(column, "= ANY").Nested(func(b *sqlbuild.Builder) {
			b.Bind(pq.Array(ids))
		})
	})
}

// grouped writes FROM ... WHERE ... GROUP BY ... for the shared grouped relation.
func (a assembly) grouped(b *sqlbuild.Builder) {
	b.Write("FROM").Write(a.joins.fragments()...)
	if where := a.predicates(); len(where) > 0 {
		b.Write("WHERE").Clauses("AND", where)
	}
	b.Write("GROUP BY").List(", ", a.groupBy)
}

func (a assembly) count() sqlbuild.Statement {
	var b sqlbuild.Builder
	b.Write("SELECT COUNT(*)::bigint AS total FROM").
		Nested(func(b *sqlbuild.Builder) {
			b.Write("SELECT 1")
			a.grouped(b)
		}).
		Write("grouped")
	return b.Render()
}

func (a assembly) flat() sqlbuild.Statement {
	var b sqlbuild.Builder
	b.Write("SELECT").List(", ", a.selects)
	a.grouped(&b)
	b.Write("ORDER BY").List(", ", a.orderBy)
	a.pageWindow(&b)
	return b.Render()
}

func (a assembly) topN() sqlbuild.Statement {
	ranking := append([]sqlbuild.Fragment{
		sqlbuild.Fragment(a.spec.Measures[0].Key) + " DESC NULLS LAST",
	}, a.orderBy...)

	var b sqlbuild.Builder
	b.Write("WITH ranked AS").
		Nested(func(b *sqlbuild.Builder) {
			b.Write("SELECT").List(", ", a.selects)
			a.grouped(b)
			b.Write("ORDER BY").List(", ", ranking).
				Write("LIMIT").Bind(a.spec.Top)
		}).
		Write("SELECT * FROM ranked ORDER BY").List(", ", a.orderBy)
	a.pageWindow(&b)
	return b.Render()
}

// pageWindow adds LIMIT/OFFSET for JSON pages. CSV exports are unpaged.
func (a assembly) pageWindow(b *sqlbuild.Builder) {
	if a.spec.Format == FormatCSV {
		return
	}
	b.Write("LIMIT").Bind(a.spec.PageSize).
		Write("OFFSET").Bind(a.spec.Offset())
}
