package period_test

import (
	"testing"
	"time"

	"github.com/rickb777/date/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finseq/finseq/period"
	"github.com/finseq/finseq/shared/helper"
)

// requireContiguous asserts the schedule invariant: pairwise-adjacent,
// non-overlapping periods exactly covering [start, end).
func requireContiguous(t *testing.T, s period.Schedule, start, end date.Date) {
	t.Helper()
	require.Positive(t, s.Len())
	require.Equal(t, start, s.Start())
	require.Equal(t, end, s.End())
	prev := s.First()
	for i := 1; i < s.Len(); i++ {
		cur := s.At(i)
		require.True(t, prev.AdjacentBefore(cur), "gap or overlap between %s and %s", prev, cur)
		prev = cur
	}
}

func TestGenerate_MonthlyCoverage(t *testing.T) {
	start := date.New(2024, time.January, 1)
	end := date.New(2024, time.April, 1)

	s, err := period.Generate(start, end, period.Monthly(), period.AnchorStart)
	require.NoError(t, err)

	requireContiguous(t, s, start, end)
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.HasInitialStub())
	assert.False(t, s.HasFinalStub())
	assert.Equal(t, period.MustNew(date.New(2024, time.February, 1), date.New(2024, time.March, 1)), s.At(1))
}

func TestGenerate_FinalStubClippedToEnd(t *testing.T) {
	start := date.New(2024, time.January, 1)
	end := date.New(2024, time.March, 15)

	s, err := period.Generate(start, end, period.Monthly(), period.AnchorStart)
	require.NoError(t, err)

	requireContiguous(t, s, start, end)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.HasFinalStub())
	assert.Equal(t, end, s.Last().End(), "final period ends exactly at the range end")
	assert.Equal(t, 14, s.Last().Days())
}

func TestGenerate_MonthEndAnchorClamps(t *testing.T) {
	start := date.New(2024, time.January, 31)
	end := date.New(2024, time.April, 30)

	s, err := period.Generate(start, end, period.Monthly(), period.AnchorStart)
	require.NoError(t, err)

	requireContiguous(t, s, start, end)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, date.New(2024, time.February, 29), s.At(0).End())
	assert.Equal(t, date.New(2024, time.March, 31), s.At(1).End())
	assert.False(t, s.HasFinalStub())
}

func TestGenerate_AnchorEndRollsBackward(t *testing.T) {
	start := date.New(2024, time.January, 15)
	end := date.New(2024, time.April, 1)

	s, err := period.Generate(start, end, period.Monthly(), period.AnchorEnd)
	require.NoError(t, err)

	requireContiguous(t, s, start, end)
	require.Equal(t, 3, s.Len())
	assert.True(t, s.HasInitialStub())
	assert.False(t, s.HasFinalStub())
	assert.Equal(t, period.MustNew(start, date.New(2024, time.February, 1)), s.First())
	assert.Equal(t, date.New(2024, time.March, 1), s.At(1).End())
}

func TestGenerate_AnchorCalendarSnapsToMonthStarts(t *testing.T) {
	start := date.New(2024, time.January, 15)
	end := date.New(2024, time.March, 20)

	s, err := period.Generate(start, end, period.Monthly(), period.AnchorCalendar)
	require.NoError(t, err)

	requireContiguous(t, s, start, end)
	require.Equal(t, 3, s.Len())
	assert.True(t, s.HasInitialStub())
	assert.True(t, s.HasFinalStub())
	assert.Equal(t, date.New(2024, time.February, 1), s.First().End())
}

func TestGenerate_AnchorCalendarAlignedStartIsNotAStub(t *testing.T) {
	start := date.New(2024, time.January, 1)
	end := date.New(2024, time.March, 1)

	s, err := period.Generate(start, end, period.Monthly(), period.AnchorCalendar)
	require.NoError(t, err)
	assert.False(t, s.HasInitialStub())
	assert.False(t, s.HasFinalStub())
	assert.Equal(t, 2, s.Len())
}

func TestGenerate_QuarterlyCalendarAnchor(t *testing.T) {
	start := date.New(2024, time.February, 10)
	end := date.New(2024, time.August, 1)

	s, err := period.Generate(start, end, period.Quarterly(), period.AnchorCalendar)
	require.NoError(t, err)

	requireContiguous(t, s, start, end)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, date.New(2024, time.April, 1), s.First().End(), "quarter boundaries fall on Jan/Apr/Jul/Oct")
	assert.Equal(t, date.New(2024, time.July, 1), s.At(1).End())
}

func TestGenerate_CustomStep(t *testing.T) {
	start := date.New(2024, time.January, 1)
	end := date.New(2024, time.February, 26)

	s, err := period.Generate(start, end, helper.Must(period.EveryDays(14)), period.AnchorStart)
	require.NoError(t, err)

	requireContiguous(t, s, start, end)
	assert.Equal(t, 4, s.Len())
	assert.False(t, s.HasFinalStub(), "range divides evenly into 14-day steps")
}

func TestGenerate_Errors(t *testing.T) {
	d := date.New(2024, time.January, 1)

	_, err := period.Generate(d, d, period.Monthly(), period.AnchorStart)
	require.ErrorIs(t, err, period.ErrEmptySchedule)

	_, err = period.Generate(d.AddDate(0, 1, 0), d, period.Monthly(), period.AnchorStart)
	require.ErrorIs(t, err, period.ErrEmptySchedule)

	_, err = period.Generate(d, d.AddDate(0, 1, 0), period.Frequency{}, period.AnchorStart)
	require.ErrorIs(t, err, period.ErrInvalidFrequency)
}

func TestSchedule_Navigation(t *testing.T) {
	start := date.New(2024, time.January, 1)
	end := date.New(2025, time.January, 1)
	s, err := period.Generate(start, end, period.Monthly(), period.AnchorStart)
	require.NoError(t, err)
	require.Equal(t, 12, s.Len())

	mar := s.At(2)
	i, ok := s.Index(mar)
	require.True(t, ok)
	assert.Equal(t, 2, i)

	prior, ok := s.Before(mar)
	require.True(t, ok)
	assert.Equal(t, s.At(1), prior)

	next, ok := s.After(mar)
	require.True(t, ok)
	assert.Equal(t, s.At(3), next)

	_, ok = s.Before(s.First())
	assert.False(t, ok)
	_, ok = s.After(s.Last())
	assert.False(t, ok)

	p, ok := s.Containing(date.New(2024, time.June, 15))
	require.True(t, ok)
	assert.Equal(t, date.New(2024, time.June, 1), p.Start())

	_, ok = s.Containing(end)
	assert.False(t, ok, "the end boundary belongs to no period")

	outsider := period.MustNew(start, end)
	_, ok = s.Index(outsider)
	assert.False(t, ok)

	var collected []period.Period
	for p := range s.Periods() {
		collected = append(collected, p)
	}
	require.Len(t, collected, 12)
	assert.Equal(t, s.First(), collected[0])
	assert.Equal(t, s.Last(), collected[11])
}
