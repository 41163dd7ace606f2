// Package series binds a defining function to a sequence of calendar periods
// through a lazy graph, turning recursive financial definitions such as
// "this period's balance is the prior balance plus this period's flows" into
// memoized, cycle-checked evaluation.
//
// A Series is an ordered, period-indexed container. Its defining function
// receives the period being evaluated and the series itself, and may call
// Prior, Next, or ValueAt on this series, or on any other series captured in
// its closure, to express recursive dependencies. Each period is evaluated
// at most once regardless of the order values are requested in; failures are
// memoized the same way (see package lazy).
//
// Navigation past the sequence bounds fails with ErrNoPriorPeriod or
// ErrNoNextPeriod. That failure is the well-defined base case a recursive
// definition handles itself, typically by returning the model's initial
// value for the first period.
//
// A Series is bound either to an immutable Schedule (New) or to an
// open-ended forward sequence of periods generated on demand from a start
// date and a frequency (NewOpenEnded). Open-ended growth is monotonic and
// never touches already-cached entries.
package series
