package financial

import (
	"context"
	"fmt"

	"github.com/govalues/decimal"

	"github.com/finseq/finseq/series"
)

// PaymentsFromSeries views a period-indexed decimal series as one payment
// per period, dated at the period's end boundary. Amounts stay lazy: a
// payment triggers its period's evaluation only when the amount is first
// requested, and evaluation failures surface through Amount.
func PaymentsFromSeries(ctx context.Context, s *series.Series[decimal.Decimal]) PaymentSeries {
	return NewPaymentSeries(func(yield func(Payment) bool) {
		for i := 0; ; i++ {
			p, ok := s.PeriodAt(i)
			if !ok {
				return
			}
			pmt := Deferred(p.End(), func() (decimal.Decimal, error) {
				return s.ValueAt(ctx, p)
			})
			if !yield(pmt) {
				return
			}
		}
	})
}

// BalancesFromSeries materializes a bounded period-indexed decimal series
// into a balance series, one observation per period at the period's end
// boundary. The first evaluation failure aborts the conversion.
func BalancesFromSeries(ctx context.Context, s *series.Series[decimal.Decimal]) (BalanceSeries, error) {
	if _, bounded := s.Len(); !bounded {
		return BalanceSeries{}, fmt.Errorf("%w: cannot materialize balances of %s", series.ErrUnbounded, s.Name())
	}
	var out []Balance
	for e, err := range s.Values(ctx) {
		if err != nil {
			return BalanceSeries{}, err
		}
		out = append(out, Balance{Date: e.Period.End(), Amount: e.Value})
	}
	return BalancesOf(out...), nil
}
