package explore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/salesdash/explore/internal/core/storage"
	"github.com/salesdash/explore/internal/core/wire"
	"golang.org/x/sync/errgroup"
)

// Service runs explore queries against the sales fact store.
// It holds no per-request state.
type Service struct {
	store    storage.FactStore
	parallel bool
	nowFn    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithParallelQueries runs the count and data statements concurrently on
// separate connections instead of one after the other.
func WithParallelQueries(enabled bool) Option {
	return func(s *Service) {
		s.parallel = enabled
	}
}

// NewService creates a new explore service.
func NewService(store storage.FactStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is a normalized explore answer, ready for JSON or CSV rendering.
type Result struct {
	Spec     QuerySpec
	Strategy Strategy
	Rows     []map[string]interface{}
	// Total counts groups, capped at Spec.Top under the top-N strategy.
	Total int64
}

// Query validates params and runs the resulting spec.
func (s *Service) Query(ctx context.Context, params Params, format Format) (*Result, error) {
	spec, err := NormalizeRequest(params, format)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, spec)
}

// Run executes the count statement and the data statement for spec.
// Either failing fails the whole request; no partial result is returned.
func (s *Service) Run(ctx context.Context, spec QuerySpec) (*Result, error) {
	plan := Assemble(spec)
	start := s.nowFn()

	var (
		count wire.Value
		rows  []storage.Row
	)
	if s.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			count, err = s.store.CountGroups(gctx, plan.Count)
			if err != nil {
				return fmt.Errorf("count explore groups: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			rows, err = s.store.QueryRows(gctx, plan.Data)
			if err != nil {
				return fmt.Errorf("query explore rows: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if count, err = s.store.CountGroups(ctx, plan.Count); err != nil {
			return nil, fmt.Errorf("count explore groups: %w", err)
		}
		if rows, err = s.store.QueryRows(ctx, plan.Data); err != nil {
			return nil, fmt.Errorf("query explore rows: %w", err)
		}
	}

	total, err := totalFromCount(count)
	if err != nil {
		return nil, err
	}
	if plan.Strategy == StrategyTopN && total > int64(spec.Top) {
		total = int64(spec.Top)
	}

	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		out[i] = NormalizeValue(row).(map[string]interface{})
	}

	slog.Debug("[Explore] Query completed",
		"strategy", plan.Strategy.String(),
		"time_grain", spec.TimeGrain.Key,
		"measures", spec.Aliases(),
		"total", total,
		"rows", len(out),
		"duration", s.nowFn().Sub(start))

	return &Result{
		Spec:     spec,
		Strategy: plan.Strategy,
		Rows:     out,
		Total:    total,
	}, nil
}
