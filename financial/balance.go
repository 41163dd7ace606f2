package financial

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/govalues/decimal"
	"github.com/rickb777/date/v2"

	"github.com/finseq/finseq/shared/lazyseq"
)

// Balance is a point-in-time account balance.
type Balance struct {
	Date   date.Date
	Amount decimal.Decimal
}

// AddAmount returns the balance increased by x.
func (b Balance) AddAmount(x decimal.Decimal) (Balance, error) {
	amt, err := b.Amount.Add(x)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Date: b.Date, Amount: amt}, nil
}

// SubAmount returns the balance decreased by x.
func (b Balance) SubAmount(x decimal.Decimal) (Balance, error) {
	amt, err := b.Amount.Sub(x)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Date: b.Date, Amount: amt}, nil
}

// MulInt64 returns the balance scaled by a whole factor.
func (b Balance) MulInt64(n int64) (Balance, error) {
	factor, err := decimal.New(n, 0)
	if err != nil {
		return Balance{}, err
	}
	amt, err := b.Amount.Mul(factor)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Date: b.Date, Amount: amt}, nil
}

// Neg returns the balance with its amount negated.
func (b Balance) Neg() Balance {
	return Balance{Date: b.Date, Amount: b.Amount.Neg()}
}

func (b Balance) String() string {
	return fmt.Sprintf("%s=%s", b.Date, b.Amount)
}

func cmpBalanceDate(a, b Balance) int { return cmp.Compare(a.Date, b.Date) }

// BalanceSeries is a lazily produced sequence of balances ascending by
// date, replayable any number of times with at most one upstream pass.
type BalanceSeries struct {
	r *lazyseq.Replayable[Balance]
}

// NewBalanceSeries wraps a sequence of balances. The sequence must be
// ascending by date; combinators preserve that ordering.
func NewBalanceSeries(seq iter.Seq[Balance]) BalanceSeries {
	return BalanceSeries{r: lazyseq.Cached(seq)}
}

// BalancesOf builds a series from explicit balances, sorting them by date.
func BalancesOf(balances ...Balance) BalanceSeries {
	sorted := slices.Clone(balances)
	slices.SortFunc(sorted, cmpBalanceDate)
	return NewBalanceSeries(slices.Values(sorted))
}

// All yields the balances in ascending date order.
func (s BalanceSeries) All() iter.Seq[Balance] { return s.r.All() }

// At returns the balance on the given date, interpolating as a step
// function: the last balance on or before d, and zero outside the series'
// range.
func (s BalanceSeries) At(d date.Date) decimal.Decimal {
	var last decimal.Decimal
	for b := range s.r.All() {
		if b.Date > d {
			break
		}
		if b.Date == d {
			return b.Amount
		}
		last = b.Amount
	}
	return last
}

// After returns the balances strictly after d.
func (s BalanceSeries) After(d date.Date) BalanceSeries {
	return NewBalanceSeries(func(yield func(Balance) bool) {
		for b := range s.r.All() {
			if b.Date <= d {
				continue
			}
			if !yield(b) {
				return
			}
		}
	})
}

// Neg returns the series with every amount negated.
func (s BalanceSeries) Neg() BalanceSeries {
	return NewBalanceSeries(func(yield func(Balance) bool) {
		for b := range s.r.All() {
			if !yield(b.Neg()) {
				return
			}
		}
	})
}

// Add returns the date-wise sum of two balance series. Dates present on only
// one side carry the other side's last-seen amount (zero before its first
// observation), matching the step semantics of At.
func (s BalanceSeries) Add(other BalanceSeries) BalanceSeries {
	return NewBalanceSeries(func(yield func(Balance) bool) {
		nextA, stopA := iter.Pull(s.r.All())
		defer stopA()
		nextB, stopB := iter.Pull(other.r.All())
		defer stopB()

		va, okA := nextA()
		vb, okB := nextB()
		var lastA, lastB decimal.Decimal
		for okA || okB {
			switch {
			case !okB || (okA && va.Date < vb.Date):
				lastA = va.Amount
				if !yield(Balance{Date: va.Date, Amount: sum(va.Amount, lastB)}) {
					return
				}
				va, okA = nextA()
			case !okA || vb.Date < va.Date:
				lastB = vb.Amount
				if !yield(Balance{Date: vb.Date, Amount: sum(vb.Amount, lastA)}) {
					return
				}
				vb, okB = nextB()
			default:
				lastA, lastB = va.Amount, vb.Amount
				if !yield(Balance{Date: va.Date, Amount: sum(va.Amount, vb.Amount)}) {
					return
				}
				va, okA = nextA()
				vb, okB = nextB()
			}
		}
	})
}

// Rebase returns a series observing a balance on every date of the original
// series plus every given date, padding via At. dates must be ascending.
func (s BalanceSeries) Rebase(dates iter.Seq[date.Date]) BalanceSeries {
	own := func(yield func(date.Date) bool) {
		for b := range s.r.All() {
			if !yield(b.Date) {
				return
			}
		}
	}
	merged := lazyseq.MergeDistinct(cmp.Compare[date.Date], own, dates)
	return NewBalanceSeries(func(yield func(Balance) bool) {
		for d := range merged {
			if !yield(Balance{Date: d, Amount: s.At(d)}) {
				return
			}
		}
	})
}

// sum adds two amounts inside a lazy sequence, where there is no error
// channel. Overflow past decimal's 19 significant digits panics.
func sum(a, b decimal.Decimal) decimal.Decimal {
	c, err := a.Add(b)
	if err != nil {
		panic(err)
	}
	return c
}
