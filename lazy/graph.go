package lazy

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finseq/finseq/lazy/internal/table"
)

// Func is a pure defining function: the value for a key, derived only from
// the key and from other memoized values reached through nested Get calls
// issued with the same ctx.
type Func[K comparable, V any] func(ctx context.Context, key K) (V, error)

type nodeState int32

const (
	stateUnevaluated nodeState = iota
	stateEvaluating
	stateCached
	stateFailed
)

type node[V any] struct {
	mu    sync.Mutex
	state nodeState
	val   V
	err   error
	done  chan struct{} // non-nil while evaluating; closed on the terminal transition
}

// Graph memoizes a defining function per key with cycle detection and
// single-flight semantics. See the package documentation for the lifecycle.
type Graph[K comparable, V any] struct {
	id     string
	name   string
	fn     Func[K, V]
	logger *zap.Logger
	nodes  *table.Table[K, *node[V]]
}

type config struct {
	logger  *zap.Logger
	stripes int
}

// Option configures a Graph.
type Option func(*config)

// WithLogger attaches a structured logger; node lifecycle transitions are
// logged at debug level. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStripes sets the number of lock stripes in the node table.
func WithStripes(n int) Option {
	return func(c *config) { c.stripes = n }
}

const defaultStripes = 8

// New builds a graph around fn. The name identifies the graph in errors and
// cycle chains; it need not be unique (each graph also carries a uuid).
func New[K comparable, V any](name string, fn Func[K, V], opts ...Option) *Graph[K, V] {
	cfg := config{logger: zap.NewNop(), stripes: defaultStripes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Graph[K, V]{
		id:     uuid.New().String(),
		name:   name,
		fn:     fn,
		logger: cfg.logger,
		nodes:  table.New(cfg.stripes, keyLabel[K], func() *node[V] { return &node[V]{} }),
	}
}

// Name returns the graph's display name.
func (g *Graph[K, V]) Name() string { return g.name }

// Get returns the memoized value for key, evaluating it on first request.
//
// A re-entrant request for a key already on the current logical evaluation
// stack fails with *CycleError. Any failure of the defining function is
// captured as *EvaluationError, memoized, and returned identically on every
// later Get for the same key; fn is never invoked again.
func (g *Graph[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V
	label := keyLabel(key)
	entry := scopeEntry{graph: g.id, name: g.name, key: label}
	n := g.nodes.Get(key)

	for {
		n.mu.Lock()
		switch n.state {
		case stateCached:
			v := n.val
			n.mu.Unlock()
			return v, nil

		case stateFailed:
			err := n.err
			n.mu.Unlock()
			return zero, err

		case stateEvaluating:
			if sc := scopeFrom(ctx); sc != nil && sc.contains(entry) {
				chain := sc.cycleChain(entry)
				n.mu.Unlock()
				g.logger.Debug("cycle detected",
					zap.String("graph", g.name),
					zap.String("graph_id", g.id),
					zap.String("key", label),
					zap.Strings("chain", chain),
				)
				return zero, &CycleError{Graph: g.name, Key: label, Chain: chain}
			}
			// Another logical stack owns this node; wait for its terminal
			// transition and re-read.
			done := n.done
			n.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return zero, ctx.Err()
			}

		case stateUnevaluated:
			n.state = stateEvaluating
			n.done = make(chan struct{})
			n.mu.Unlock()

			ctx, sc := ensureScope(ctx)
			sc.push(entry)
			v, err := g.invoke(ctx, key, label)
			sc.pop()

			n.mu.Lock()
			if err != nil {
				n.state = stateFailed
				n.err = &EvaluationError{Graph: g.name, Key: label, Err: err}
				err = n.err
			} else {
				n.state = stateCached
				n.val = v
			}
			close(n.done)
			n.done = nil
			n.mu.Unlock()

			if err != nil {
				return zero, err
			}
			return v, nil
		}
	}
}

func (g *Graph[K, V]) invoke(ctx context.Context, key K, label string) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("defining function panicked: %w", e)
			} else {
				err = fmt.Errorf("defining function panicked: %v", r)
			}
		}
	}()
	g.logger.Debug("evaluating",
		zap.String("graph", g.name),
		zap.String("graph_id", g.id),
		zap.String("key", label),
	)
	return g.fn(ctx, key)
}

// Cached returns the value for key only if it is already cached; it never
// triggers evaluation.
func (g *Graph[K, V]) Cached(key K) (V, bool) {
	var zero V
	n, ok := g.nodes.Lookup(key)
	if !ok {
		return zero, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != stateCached {
		return zero, false
	}
	return n.val, true
}

// Invalidate resets a terminal node to unevaluated so the next Get
// re-evaluates it. It reports whether a terminal result was discarded; a
// node that is unknown, unevaluated, or mid-evaluation is left alone.
//
// Invalidation is the caller's responsibility: never invalidate a key whose
// value other cached nodes already depend on. The graph does not track
// dependents and performs no cascade.
func (g *Graph[K, V]) Invalidate(key K) bool {
	n, ok := g.nodes.Lookup(key)
	if !ok {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != stateCached && n.state != stateFailed {
		return false
	}
	var zero V
	n.state = stateUnevaluated
	n.val = zero
	n.err = nil
	g.logger.Debug("invalidated",
		zap.String("graph", g.name),
		zap.String("key", keyLabel(key)),
	)
	return true
}

// Len returns the number of keys holding a terminal (cached or failed)
// result.
func (g *Graph[K, V]) Len() int {
	count := 0
	g.nodes.Range(func(_ K, n *node[V]) bool {
		n.mu.Lock()
		if n.state == stateCached || n.state == stateFailed {
			count++
		}
		n.mu.Unlock()
		return true
	})
	return count
}

// keyLabel renders a key for hashing, logging, and error chains. Keys that
// implement fmt.Stringer use their own rendering.
func keyLabel[K comparable](key K) string {
	if s, ok := any(key).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", key)
}
