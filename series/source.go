package series

import (
	"slices"
	"sync"

	"github.com/rickb777/date/v2"

	"github.com/finseq/finseq/period"
)

// periodSource is the sequence of periods a series is indexed by.
type periodSource interface {
	// index returns the position of p, when p is one of the source's periods.
	index(p period.Period) (int, bool)
	// at returns the i-th period. Bounded sources report false past the end;
	// open-ended sources always succeed.
	at(i int) (period.Period, bool)
	// length returns the period count and whether the source is bounded.
	length() (int, bool)
}

// boundedSource indexes by an immutable Schedule.
type boundedSource struct {
	sched period.Schedule
}

func (b boundedSource) index(p period.Period) (int, bool) { return b.sched.Index(p) }

func (b boundedSource) at(i int) (period.Period, bool) {
	if i < 0 || i >= b.sched.Len() {
		return period.Period{}, false
	}
	return b.sched.At(i), true
}

func (b boundedSource) length() (int, bool) { return b.sched.Len(), true }

// openSource generates contiguous periods forward from a start date on
// demand. Growth is monotonic: periods already handed out never change.
type openSource struct {
	mu        sync.Mutex
	start     date.Date
	freq      period.Frequency
	generated []period.Period
}

func newOpenSource(start date.Date, freq period.Frequency) *openSource {
	return &openSource{start: start, freq: freq}
}

// grow appends periods until at least n exist, or until the last generated
// period starts after d when n < 0. Caller holds mu.
func (o *openSource) growTo(n int, d date.Date) {
	for {
		k := len(o.generated)
		if n >= 0 && k > n {
			return
		}
		if n < 0 && k > 0 && o.generated[k-1].Start() > d {
			return
		}
		o.generated = append(o.generated, period.MustNew(o.freq.Step(o.start, k), o.freq.Step(o.start, k+1)))
	}
}

func (o *openSource) index(p period.Period) (int, bool) {
	if p.Start() < o.start {
		return 0, false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.growTo(-1, p.Start())
	return slices.BinarySearchFunc(o.generated, p, period.Period.Compare)
}

func (o *openSource) at(i int) (period.Period, bool) {
	if i < 0 {
		return period.Period{}, false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.growTo(i, o.start)
	return o.generated[i], true
}

func (o *openSource) length() (int, bool) { return 0, false }
