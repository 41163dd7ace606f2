package financial

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/govalues/decimal"
	"github.com/rickb777/date/v2"

	"github.com/finseq/finseq/shared/lazyseq"
)

// Payment is a dated cash flow whose amount may be computed lazily. The
// amount function runs at most once; its result, or its failure, is
// memoized for every later access.
type Payment struct {
	Date   date.Date
	amount func() (decimal.Decimal, error)
}

// Resolved builds a payment with a known amount.
func Resolved(d date.Date, amt decimal.Decimal) Payment {
	return Payment{Date: d, amount: func() (decimal.Decimal, error) { return amt, nil }}
}

// Deferred builds a payment whose amount is computed on first access and
// memoized.
func Deferred(d date.Date, fn func() (decimal.Decimal, error)) Payment {
	return Payment{Date: d, amount: sync.OnceValues(fn)}
}

// Amount returns the payment's amount, computing it on first access.
func (p Payment) Amount() (decimal.Decimal, error) { return p.amount() }

// AddAmount returns a payment increased by x, computed lazily.
func (p Payment) AddAmount(x decimal.Decimal) Payment {
	return Deferred(p.Date, func() (decimal.Decimal, error) {
		v, err := p.Amount()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return v.Add(x)
	})
}

// Neg returns the payment with its amount negated, computed lazily.
func (p Payment) Neg() Payment {
	return Deferred(p.Date, func() (decimal.Decimal, error) {
		v, err := p.Amount()
		if err != nil {
			return decimal.Decimal{}, err
		}
		return v.Neg(), nil
	})
}

func (p Payment) String() string {
	if v, err := p.Amount(); err == nil {
		return fmt.Sprintf("%s:%s", p.Date, v)
	}
	return fmt.Sprintf("%s:<error>", p.Date)
}

func cmpPaymentDate(a, b Payment) int { return cmp.Compare(a.Date, b.Date) }

// PaymentSeries is a lazily produced sequence of payments ascending by
// date, replayable with at most one upstream pass.
type PaymentSeries struct {
	r *lazyseq.Replayable[Payment]
}

// NewPaymentSeries wraps a sequence of payments. The sequence must be
// ascending by date.
func NewPaymentSeries(seq iter.Seq[Payment]) PaymentSeries {
	return PaymentSeries{r: lazyseq.Cached(seq)}
}

// PaymentsOf builds a series from explicit payments, sorting them by date.
func PaymentsOf(pmts ...Payment) PaymentSeries {
	sorted := slices.Clone(pmts)
	slices.SortFunc(sorted, cmpPaymentDate)
	return NewPaymentSeries(slices.Values(sorted))
}

// All yields the payments in ascending date order.
func (s PaymentSeries) All() iter.Seq[Payment] { return s.r.All() }

// On returns the amount paid on exactly d, zero when no payment falls on d.
func (s PaymentSeries) On(d date.Date) (decimal.Decimal, error) {
	for p := range s.r.All() {
		if p.Date > d {
			break
		}
		if p.Date == d {
			return p.Amount()
		}
	}
	return decimal.Decimal{}, nil
}

// Over sums the payments dated after from and up to and including to.
func (s PaymentSeries) Over(from, to date.Date) (decimal.Decimal, error) {
	var total decimal.Decimal
	for p := range s.r.All() {
		if p.Date > to {
			break
		}
		if p.Date <= from {
			continue
		}
		v, err := p.Amount()
		if err != nil {
			return decimal.Decimal{}, err
		}
		total, err = total.Add(v)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}
	return total, nil
}

// After returns the payments strictly after d.
func (s PaymentSeries) After(d date.Date) PaymentSeries {
	return NewPaymentSeries(func(yield func(Payment) bool) {
		for p := range s.r.All() {
			if p.Date <= d {
				continue
			}
			if !yield(p) {
				return
			}
		}
	})
}

// Add returns the date-wise merge of two payment series. Payments on equal
// dates fuse into one payment whose amount is their lazily computed sum.
func (s PaymentSeries) Add(other PaymentSeries) PaymentSeries {
	merged := lazyseq.Merge(cmpPaymentDate, s.r.All(), other.r.All(), func(x, y Payment) Payment {
		return Deferred(x.Date, func() (decimal.Decimal, error) {
			vx, err := x.Amount()
			if err != nil {
				return decimal.Decimal{}, err
			}
			vy, err := y.Amount()
			if err != nil {
				return decimal.Decimal{}, err
			}
			return vx.Add(vy)
		})
	})
	return NewPaymentSeries(merged)
}

// Neg returns the series with every payment negated.
func (s PaymentSeries) Neg() PaymentSeries {
	return NewPaymentSeries(func(yield func(Payment) bool) {
		for p := range s.r.All() {
			if !yield(p.Neg()) {
				return
			}
		}
	})
}
