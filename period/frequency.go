package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickb777/date/v2"
	isoperiod "github.com/rickb777/period"
)

// ErrInvalidFrequency reports an unusable stepping rule: zero, negative,
// sub-day, or unparsable.
var ErrInvalidFrequency = errors.New("period: invalid frequency")

// Frequency is a whole-unit calendar step used to generate schedule
// boundaries. Components are non-negative and at least one must be positive.
// Month-based components (years, months) step by calendar months with
// day-of-month clamping; weeks and days step by exact day counts. When both
// kinds are present the month step is applied first.
type Frequency struct {
	years  int
	months int
	weeks  int
	days   int
}

// NewFrequency builds a frequency from whole calendar components.
func NewFrequency(years, months, weeks, days int) (Frequency, error) {
	if years < 0 || months < 0 || weeks < 0 || days < 0 {
		return Frequency{}, fmt.Errorf("%w: negative component", ErrInvalidFrequency)
	}
	if years == 0 && months == 0 && weeks == 0 && days == 0 {
		return Frequency{}, fmt.Errorf("%w: zero step", ErrInvalidFrequency)
	}
	return Frequency{years: years, months: months, weeks: weeks, days: days}, nil
}

// Daily steps one day at a time.
func Daily() Frequency { return Frequency{days: 1} }

// Weekly steps seven days at a time.
func Weekly() Frequency { return Frequency{weeks: 1} }

// Monthly steps one calendar month at a time.
func Monthly() Frequency { return Frequency{months: 1} }

// Quarterly steps three calendar months at a time.
func Quarterly() Frequency { return Frequency{months: 3} }

// SemiAnnual steps six calendar months at a time.
func SemiAnnual() Frequency { return Frequency{months: 6} }

// Annual steps one calendar year at a time.
func Annual() Frequency { return Frequency{years: 1} }

// EveryDays steps n days at a time.
func EveryDays(n int) (Frequency, error) { return NewFrequency(0, 0, 0, n) }

// EveryMonths steps n calendar months at a time.
func EveryMonths(n int) (Frequency, error) { return NewFrequency(0, n, 0, 0) }

// EveryYears steps n calendar years at a time.
func EveryYears(n int) (Frequency, error) { return NewFrequency(n, 0, 0, 0) }

// ParseFrequency parses an ISO-8601 period string such as "P1M", "P3M",
// "P1Y" or "P2W3D" into a Frequency. Time-of-day components are rejected:
// schedule boundaries are civil dates.
func ParseFrequency(s string) (Frequency, error) {
	p, err := isoperiod.Parse(s)
	if err != nil {
		return Frequency{}, fmt.Errorf("%w: %v", ErrInvalidFrequency, err)
	}
	if p.IsNegative() {
		return Frequency{}, fmt.Errorf("%w: negative period %s", ErrInvalidFrequency, p)
	}
	if p.Hours() != 0 || p.Minutes() != 0 || p.Seconds() != 0 {
		return Frequency{}, fmt.Errorf("%w: sub-day components in %s", ErrInvalidFrequency, p)
	}
	return NewFrequency(p.Years(), p.Months(), p.Weeks(), p.Days())
}

// IsZero reports whether f has no components at all (the zero value, which is
// not a valid frequency).
func (f Frequency) IsZero() bool { return f == Frequency{} }

// MonthBased reports whether the step includes calendar-month components and
// is therefore subject to day-of-month clamping.
func (f Frequency) MonthBased() bool { return f.years != 0 || f.months != 0 }

// ISO returns the frequency as an ISO-8601 period value.
func (f Frequency) ISO() isoperiod.Period {
	p, err := isoperiod.Parse(f.String())
	if err != nil {
		// String always emits canonical ISO-8601; a parse failure is a bug.
		panic(err)
	}
	return p
}

// String renders the canonical ISO-8601 form, e.g. "P3M" or "P1Y2M".
func (f Frequency) String() string {
	if f.IsZero() {
		return "P0D"
	}
	var b strings.Builder
	b.WriteByte('P')
	if f.years != 0 {
		fmt.Fprintf(&b, "%dY", f.years)
	}
	if f.months != 0 {
		fmt.Fprintf(&b, "%dM", f.months)
	}
	if f.weeks != 0 {
		fmt.Fprintf(&b, "%dW", f.weeks)
	}
	if f.days != 0 {
		fmt.Fprintf(&b, "%dD", f.days)
	}
	return b.String()
}

// Step returns the anchor advanced by n whole steps of f. Negative n steps
// backward. Month components are applied in one jump from the anchor with the
// day-of-month clamped to the target month, then day components are added.
func (f Frequency) Step(anchor date.Date, n int) date.Date {
	d := anchor
	if f.MonthBased() {
		totalMonths := n * (12*f.years + f.months)
		idx := anchor.Year()*12 + int(anchor.Month()) - 1 + totalMonths
		ty := floorDiv(idx, 12)
		tm := time.Month(floorMod(idx, 12) + 1)
		day := anchor.Day()
		if last := daysIn(ty, tm); day > last {
			day = last
		}
		d = date.New(ty, tm, day)
	}
	if dd := f.weeks*7 + f.days; dd != 0 {
		d = d.AddDate(0, 0, n*dd)
	}
	return d
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	// Day zero of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
