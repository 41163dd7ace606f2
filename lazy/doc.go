// Package lazy provides a memoized evaluation graph for pure functions of a
// key: each key is evaluated exactly once, results and failures are both
// cached, and re-entrant self-reference is detected and rejected instead of
// recursing forever.
//
// # What is a graph?
//
// A Graph binds a defining function func(ctx, key) (V, error) to a cache of
// tri-state nodes (unevaluated, evaluating, terminal). Get drives a node
// through that lifecycle at most once:
//   - A cached node returns its value immediately.
//   - A failed node returns its captured error immediately; the defining
//     function is never retried. A computation whose inputs are fixed must
//     fail the same way every time it is requested.
//   - An unevaluated node runs the defining function, which may itself call
//     Get on this or any other graph, recursively.
//
// # Cycle detection
//
// The set of keys currently being evaluated on one logical call stack is
// carried in the context, not in any single graph, so a cycle that spans
// several graphs is still caught. Defining functions must therefore pass the
// ctx they receive into every nested Get; dropping it turns a detectable
// cycle into a deadlock.
//
// # Concurrency
//
// Evaluation is synchronous call/return. Graphs may nevertheless be shared
// across goroutines: the unevaluated-to-evaluating transition is serialized
// per node, and a second goroutine requesting a key mid-evaluation blocks
// until the first caches a result, then returns it. The evaluation scope
// itself belongs to a single goroutine and is never shared.
package lazy
