package series

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/rickb777/date/v2"
	"go.uber.org/zap"

	"github.com/finseq/finseq/lazy"
	"github.com/finseq/finseq/period"
)

var (
	// ErrPeriodNotInSeries reports a request for a period the series is not
	// indexed by.
	ErrPeriodNotInSeries = errors.New("series: period not in series")
	// ErrNoPriorPeriod reports prior-navigation from the first period.
	ErrNoPriorPeriod = errors.New("series: no prior period")
	// ErrNoNextPeriod reports next-navigation from the last period.
	ErrNoNextPeriod = errors.New("series: no next period")
	// ErrUnbounded reports an operation that needs a finite period sequence.
	ErrUnbounded = errors.New("series: series is open-ended")
)

// DefiningFunc computes the value of one period. It may recurse through s
// (Prior, Next, ValueAt) or through any other series captured in its
// closure, always passing ctx through so cycles stay detectable.
type DefiningFunc[V any] func(ctx context.Context, p period.Period, s *Series[V]) (V, error)

// Entry pairs a period with its evaluated value.
type Entry[V any] struct {
	Period period.Period
	Value  V
}

// Series is an ordered, period-indexed container of lazily evaluated values.
type Series[V any] struct {
	name   string
	source periodSource
	graph  *lazy.Graph[period.Period, V]
}

type options struct {
	name     string
	lazyOpts []lazy.Option
}

// Option configures a Series.
type Option func(*options)

// WithName sets the display name used in errors, logs, and cycle chains.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger attaches a structured logger to the underlying graph.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.lazyOpts = append(o.lazyOpts, lazy.WithLogger(l)) }
}

// WithStripes sets the lock-stripe count of the underlying graph.
func WithStripes(n int) Option {
	return func(o *options) { o.lazyOpts = append(o.lazyOpts, lazy.WithStripes(n)) }
}

func build[V any](src periodSource, fn DefiningFunc[V], opts []Option) *Series[V] {
	cfg := options{name: "series"}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Series[V]{name: cfg.name, source: src}
	s.graph = lazy.New(cfg.name, func(ctx context.Context, p period.Period) (V, error) {
		return fn(ctx, p, s)
	}, cfg.lazyOpts...)
	return s
}

// New binds fn to the periods of an immutable schedule.
func New[V any](sched period.Schedule, fn DefiningFunc[V], opts ...Option) *Series[V] {
	return build(boundedSource{sched: sched}, fn, opts)
}

// NewOpenEnded binds fn to an open-ended forward sequence of periods
// stepping from start by freq. The period set grows monotonically as later
// periods are requested; cached entries are never invalidated by growth.
func NewOpenEnded[V any](start date.Date, freq period.Frequency, fn DefiningFunc[V], opts ...Option) (*Series[V], error) {
	if freq.IsZero() || freq.Step(start, 1) <= start {
		return nil, fmt.Errorf("%w: step %s does not advance", period.ErrInvalidFrequency, freq)
	}
	return build(newOpenSource(start, freq), fn, opts), nil
}

// Name returns the series' display name.
func (s *Series[V]) Name() string { return s.name }

// Graph exposes the underlying lazy graph, e.g. for lazy.Prefetch.
func (s *Series[V]) Graph() *lazy.Graph[period.Period, V] { return s.graph }

// Len returns the period count and whether the series is bounded.
func (s *Series[V]) Len() (int, bool) { return s.source.length() }

// PeriodAt returns the i-th period of the sequence.
func (s *Series[V]) PeriodAt(i int) (period.Period, bool) { return s.source.at(i) }

// ValueAt returns the memoized value for p, evaluating it on first request.
// It fails with ErrPeriodNotInSeries when p is not one of the series'
// periods.
func (s *Series[V]) ValueAt(ctx context.Context, p period.Period) (V, error) {
	var zero V
	if _, ok := s.source.index(p); !ok {
		return zero, fmt.Errorf("%w: %s not in %s", ErrPeriodNotInSeries, p, s.name)
	}
	return s.graph.Get(ctx, p)
}

// PriorPeriod returns the period immediately before p in the sequence.
func (s *Series[V]) PriorPeriod(p period.Period) (period.Period, error) {
	i, ok := s.source.index(p)
	if !ok {
		return period.Period{}, fmt.Errorf("%w: %s not in %s", ErrPeriodNotInSeries, p, s.name)
	}
	if i == 0 {
		return period.Period{}, fmt.Errorf("%w: %s is the first period of %s", ErrNoPriorPeriod, p, s.name)
	}
	prior, _ := s.source.at(i - 1)
	return prior, nil
}

// NextPeriod returns the period immediately after p in the sequence.
func (s *Series[V]) NextPeriod(p period.Period) (period.Period, error) {
	i, ok := s.source.index(p)
	if !ok {
		return period.Period{}, fmt.Errorf("%w: %s not in %s", ErrPeriodNotInSeries, p, s.name)
	}
	next, ok := s.source.at(i + 1)
	if !ok {
		return period.Period{}, fmt.Errorf("%w: %s is the last period of %s", ErrNoNextPeriod, p, s.name)
	}
	return next, nil
}

// Prior returns the lazily evaluated value of the period before p. At the
// first period it fails with ErrNoPriorPeriod, the base case a defining
// function handles itself.
func (s *Series[V]) Prior(ctx context.Context, p period.Period) (V, error) {
	prior, err := s.PriorPeriod(p)
	if err != nil {
		var zero V
		return zero, err
	}
	return s.graph.Get(ctx, prior)
}

// Next returns the lazily evaluated value of the period after p, for models
// that recurse backward from a terminal value. At the last period it fails
// with ErrNoNextPeriod.
func (s *Series[V]) Next(ctx context.Context, p period.Period) (V, error) {
	next, err := s.NextPeriod(p)
	if err != nil {
		var zero V
		return zero, err
	}
	return s.graph.Get(ctx, next)
}

// Values yields (period, value) entries in sequence order. The sequence is
// lazy and restartable: memoization guarantees at most one evaluation per
// period however many times it is iterated. On the first evaluation failure
// it yields the error and stops. Open-ended series yield forever; the
// consumer breaks out.
func (s *Series[V]) Values(ctx context.Context) iter.Seq2[Entry[V], error] {
	return func(yield func(Entry[V], error) bool) {
		for i := 0; ; i++ {
			p, ok := s.source.at(i)
			if !ok {
				return
			}
			v, err := s.graph.Get(ctx, p)
			if err != nil {
				yield(Entry[V]{Period: p}, err)
				return
			}
			if !yield(Entry[V]{Period: p, Value: v}, nil) {
				return
			}
		}
	}
}

// Materialize evaluates every period front-to-back and returns the first
// failure, if any. Evaluating in sequence order keeps strictly prior-only
// models at O(1) extra call-stack depth per period, so arbitrarily long
// schedules cannot exhaust the stack. Fails with ErrUnbounded on open-ended
// series.
func (s *Series[V]) Materialize(ctx context.Context) error {
	n, bounded := s.source.length()
	if !bounded {
		return fmt.Errorf("%w: cannot materialize %s", ErrUnbounded, s.name)
	}
	for i := 0; i < n; i++ {
		p, _ := s.source.at(i)
		if _, err := s.graph.Get(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Schedule returns the bound schedule for bounded series.
func (s *Series[V]) Schedule() (period.Schedule, bool) {
	if b, ok := s.source.(boundedSource); ok {
		return b.sched, true
	}
	return period.Schedule{}, false
}
