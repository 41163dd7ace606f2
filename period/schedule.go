package period

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
	"time"

	"github.com/rickb777/date/v2"
)

// ErrEmptySchedule reports a schedule request over an empty date range.
var ErrEmptySchedule = errors.New("period: schedule range is empty")

// Anchor controls where schedule boundaries are aligned.
type Anchor int

const (
	// AnchorStart rolls boundaries forward from the start date; the final
	// period is clipped to the end date and may be a stub.
	AnchorStart Anchor = iota
	// AnchorEnd rolls boundaries backward from the end date; the initial
	// period is clipped to the start date and may be a stub.
	AnchorEnd
	// AnchorCalendar snaps boundaries to calendar-fixed points (month,
	// quarter or year starts, Mondays for weekly steps); stubs may appear at
	// either edge.
	AnchorCalendar
)

func (a Anchor) String() string {
	switch a {
	case AnchorStart:
		return "start"
	case AnchorEnd:
		return "end"
	case AnchorCalendar:
		return "calendar"
	default:
		return fmt.Sprintf("anchor(%d)", int(a))
	}
}

// Schedule is an ordered sequence of pairwise-adjacent, non-overlapping
// Periods exactly covering [Start, End). Schedules are immutable once built
// by Generate.
type Schedule struct {
	periods     []Period
	freq        Frequency
	anchor      Anchor
	initialStub bool
	finalStub   bool
}

// Generate builds a Schedule covering [start, end) from a stepping rule.
// It fails with ErrEmptySchedule when start is on or after end, and with
// ErrInvalidFrequency for a zero or otherwise unusable step.
func Generate(start, end date.Date, freq Frequency, anchor Anchor) (Schedule, error) {
	if freq.IsZero() {
		return Schedule{}, fmt.Errorf("%w: zero step", ErrInvalidFrequency)
	}
	if start >= end {
		return Schedule{}, fmt.Errorf("%w: start %s, end %s", ErrEmptySchedule, start, end)
	}
	if freq.Step(start, 1) <= start {
		return Schedule{}, fmt.Errorf("%w: step %s does not advance", ErrInvalidFrequency, freq)
	}

	var (
		bounds      []date.Date
		initialStub bool
		finalStub   bool
	)

	switch anchor {
	case AnchorStart, AnchorCalendar:
		base := start
		if anchor == AnchorCalendar {
			base = freq.calendarFloor(start)
		}
		bounds = append(bounds, start)
		// Skip grid cuts at or before the start date.
		i := 0
		prev := base
		for freq.Step(base, i+1) <= start {
			i++
			prev = freq.Step(base, i)
		}
		initialStub = prev != start
		for {
			i++
			b := freq.Step(base, i)
			if b >= end {
				finalStub = b > end
				bounds = append(bounds, end)
				break
			}
			bounds = append(bounds, b)
		}

	case AnchorEnd:
		rev := []date.Date{end}
		for i := 1; ; i++ {
			b := freq.Step(end, -i)
			if b <= start {
				initialStub = b < start
				rev = append(rev, start)
				break
			}
			rev = append(rev, b)
		}
		slices.Reverse(rev)
		bounds = rev

	default:
		return Schedule{}, fmt.Errorf("%w: unknown anchor %s", ErrInvalidFrequency, anchor)
	}

	periods := make([]Period, len(bounds)-1)
	for i := range periods {
		p, err := New(bounds[i], bounds[i+1])
		if err != nil {
			return Schedule{}, err
		}
		periods[i] = p
	}
	return Schedule{
		periods:     periods,
		freq:        freq,
		anchor:      anchor,
		initialStub: initialStub,
		finalStub:   finalStub,
	}, nil
}

// calendarFloor returns the calendar-grid point at or before d for the step f:
// year starts for annual steps, multiples of the month step for month-based
// steps, the previous Monday for weekly steps, and d itself for daily steps.
func (f Frequency) calendarFloor(d date.Date) date.Date {
	switch {
	case f.years != 0 && f.months == 0:
		return date.New(d.Year(), time.January, 1)
	case f.MonthBased():
		stepMonths := 12*f.years + f.months
		idx := d.Year()*12 + int(d.Month()) - 1
		idx = floorDiv(idx, stepMonths) * stepMonths
		return date.New(floorDiv(idx, 12), time.Month(floorMod(idx, 12)+1), 1)
	case f.weeks != 0 && f.days == 0:
		offset := (int(d.Weekday()) + 6) % 7 // Monday-based week
		return d.AddDate(0, 0, -offset)
	default:
		return d
	}
}

// Len returns the number of periods.
func (s Schedule) Len() int { return len(s.periods) }

// At returns the i-th period in order. It panics when i is out of range.
func (s Schedule) At(i int) Period { return s.periods[i] }

// First returns the earliest period.
func (s Schedule) First() Period { return s.periods[0] }

// Last returns the latest period.
func (s Schedule) Last() Period { return s.periods[len(s.periods)-1] }

// Start returns the inclusive start of the covered range.
func (s Schedule) Start() date.Date { return s.periods[0].start }

// End returns the exclusive end of the covered range.
func (s Schedule) End() date.Date { return s.periods[len(s.periods)-1].end }

// Frequency returns the stepping rule the schedule was generated from.
func (s Schedule) Frequency() Frequency { return s.freq }

// Anchor returns the anchor policy the schedule was generated with.
func (s Schedule) Anchor() Anchor { return s.anchor }

// HasInitialStub reports whether the first period is shorter than a full step.
func (s Schedule) HasInitialStub() bool { return s.initialStub }

// HasFinalStub reports whether the last period is shorter than a full step.
func (s Schedule) HasFinalStub() bool { return s.finalStub }

// Index returns the position of p in the schedule.
func (s Schedule) Index(p Period) (int, bool) {
	return slices.BinarySearchFunc(s.periods, p, Period.Compare)
}

// Containing returns the period that contains the given date, if any.
func (s Schedule) Containing(d date.Date) (Period, bool) {
	i := sort.Search(len(s.periods), func(i int) bool { return s.periods[i].end > d })
	if i < len(s.periods) && s.periods[i].Contains(d) {
		return s.periods[i], true
	}
	return Period{}, false
}

// Before returns the period immediately preceding p in the schedule.
func (s Schedule) Before(p Period) (Period, bool) {
	if i, ok := s.Index(p); ok && i > 0 {
		return s.periods[i-1], true
	}
	return Period{}, false
}

// After returns the period immediately following p in the schedule.
func (s Schedule) After(p Period) (Period, bool) {
	if i, ok := s.Index(p); ok && i < len(s.periods)-1 {
		return s.periods[i+1], true
	}
	return Period{}, false
}

// Periods yields the periods in ascending order.
func (s Schedule) Periods() iter.Seq[Period] {
	return func(yield func(Period) bool) {
		for _, p := range s.periods {
			if !yield(p) {
				return
			}
		}
	}
}

func (s Schedule) String() string {
	return fmt.Sprintf("schedule[%s..%s %s/%s n=%d]", s.Start(), s.End(), s.freq, s.anchor, len(s.periods))
}
