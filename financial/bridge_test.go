package financial_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/rickb777/date/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finseq/finseq/financial"
	"github.com/finseq/finseq/period"
	"github.com/finseq/finseq/series"
)

func decimalSeries(t *testing.T, calls *atomic.Int64) (*series.Series[decimal.Decimal], period.Schedule) {
	t.Helper()
	sched, err := period.Generate(
		date.New(2024, time.January, 1), date.New(2024, time.April, 1),
		period.Monthly(), period.AnchorStart)
	require.NoError(t, err)

	s := series.New(sched, func(_ context.Context, p period.Period, _ *series.Series[decimal.Decimal]) (decimal.Decimal, error) {
		if calls != nil {
			calls.Add(1)
		}
		return decimal.New(int64(p.Days()), 0)
	}, series.WithName("daycount"))
	return s, sched
}

func TestPaymentsFromSeries_LazyPerPayment(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int64
	s, sched := decimalSeries(t, &calls)

	pmts := financial.PaymentsFromSeries(ctx, s)
	assert.Zero(t, calls.Load(), "building the view evaluates nothing")

	// Payments are dated at period ends.
	v, err := pmts.On(sched.At(1).End())
	require.NoError(t, err)
	requireAmount(t, "29", v)
	assert.Equal(t, int64(1), calls.Load(), "only the requested period evaluated")

	total, err := pmts.Over(sched.Start(), sched.End())
	require.NoError(t, err)
	requireAmount(t, "91", total)
	assert.Equal(t, int64(3), calls.Load())
}

func TestBalancesFromSeries(t *testing.T) {
	ctx := context.Background()
	s, sched := decimalSeries(t, nil)

	bals, err := financial.BalancesFromSeries(ctx, s)
	require.NoError(t, err)

	requireAmount(t, "31", bals.At(sched.First().End()))
	requireAmount(t, "31", bals.At(sched.First().End().AddDate(0, 0, 10)))
	requireAmount(t, "0", bals.At(sched.Start()))
}

func TestBalancesFromSeries_Errors(t *testing.T) {
	ctx := context.Background()

	open, err := series.NewOpenEnded(date.New(2024, time.January, 1), period.Monthly(),
		func(_ context.Context, _ period.Period, _ *series.Series[decimal.Decimal]) (decimal.Decimal, error) {
			return decimal.Decimal{}, nil
		})
	require.NoError(t, err)
	_, err = financial.BalancesFromSeries(ctx, open)
	require.ErrorIs(t, err, series.ErrUnbounded)

	boom := errors.New("no fixing")
	sched, err := period.Generate(
		date.New(2024, time.January, 1), date.New(2024, time.March, 1),
		period.Monthly(), period.AnchorStart)
	require.NoError(t, err)
	failing := series.New(sched, func(_ context.Context, _ period.Period, _ *series.Series[decimal.Decimal]) (decimal.Decimal, error) {
		return decimal.Decimal{}, boom
	})
	_, err = financial.BalancesFromSeries(ctx, failing)
	require.ErrorIs(t, err, boom)
}
