// Package financial provides date-indexed monetary series built on the lazy
// sequence machinery: point-in-time balances with step interpolation, and
// dated payments whose amounts are computed lazily and memoized.
//
// Amounts are github.com/govalues/decimal values. Series are ascending by
// date and lazily produced: an underlying sequence is pulled at most once
// and replayed to every consumer. Balance addition treats each side as a
// step function: between its observation dates a balance holds its last
// value, and zero before its first date.
//
// Series combinators (Add, Neg, After, Rebase) build derived sequences
// lazily. Inside those sequences decimal overflow has no error channel and
// panics; at 19 significant digits this is out of range for ordinary
// financial models.
package financial
