// Package period provides the calendar primitives of finseq: immutable
// half-open Periods, whole-unit calendar Frequencies, and gap-free Schedules
// generated from a date range and a stepping rule.
//
// # Conventions
//
// A Period is the half-open interval [Start, End): the start date belongs to
// the period, the end date belongs to the next one. Two periods are adjacent
// exactly when one's End equals the other's Start. This convention is held
// invariant across the whole module.
//
// Monthly, quarterly and annual stepping clamps the day-of-month to the last
// valid day of the target month (2024-01-31 plus one month is 2024-02-29).
// Every boundary derives from the anchor date in a single jump, so clamping
// never accumulates across boundaries: 2024-01-31 plus two months is
// 2024-03-31, not 2024-03-29.
//
// Dates are civil dates from github.com/rickb777/date/v2; frequencies accept
// and render ISO-8601 period strings via github.com/rickb777/period.
package period
