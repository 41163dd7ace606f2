package period

import (
	"errors"
	"fmt"

	"github.com/rickb777/date/v2"
)

// ErrInvalidPeriod reports a malformed interval (start on or after end).
var ErrInvalidPeriod = errors.New("period: start must precede end")

// Period is an immutable half-open calendar interval [Start, End).
//
// Periods are plain value objects: comparable, freely copied and shared, and
// usable as map keys. Equality and ordering are by (start, end).
type Period struct {
	start date.Date
	end   date.Date
}

// New returns the period [start, end). It fails with ErrInvalidPeriod when
// start is on or after end.
func New(start, end date.Date) (Period, error) {
	if start >= end {
		return Period{}, fmt.Errorf("%w: start %s, end %s", ErrInvalidPeriod, start, end)
	}
	return Period{start: start, end: end}, nil
}

// MustNew is the panic-on-failure variant of New.
func MustNew(start, end date.Date) Period {
	p, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return p
}

// Start returns the inclusive start date.
func (p Period) Start() date.Date { return p.start }

// End returns the exclusive end date.
func (p Period) End() date.Date { return p.end }

// Days returns the duration of the period in days.
func (p Period) Days() int { return int(p.end - p.start) }

// IsZero reports whether p is the zero Period (not a valid interval).
func (p Period) IsZero() bool { return p == Period{} }

// Contains reports whether d falls within [Start, End).
func (p Period) Contains(d date.Date) bool {
	return p.start <= d && d < p.end
}

// Overlaps reports whether p and other share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.start < other.end && other.start < p.end
}

// Precedes reports whether p ends on or before other starts.
func (p Period) Precedes(other Period) bool {
	return p.end <= other.start
}

// AdjacentBefore reports whether p ends exactly where other starts.
func (p Period) AdjacentBefore(other Period) bool {
	return p.end == other.start
}

// AdjacentAfter reports whether p starts exactly where other ends.
func (p Period) AdjacentAfter(other Period) bool {
	return other.end == p.start
}

// Compare orders periods by (start, end). It returns a negative number when
// p sorts before other, zero when equal, and a positive number otherwise.
func (p Period) Compare(other Period) int {
	switch {
	case p.start < other.start:
		return -1
	case p.start > other.start:
		return 1
	case p.end < other.end:
		return -1
	case p.end > other.end:
		return 1
	default:
		return 0
	}
}

func (p Period) String() string {
	return fmt.Sprintf("[%s,%s)", p.start, p.end)
}
