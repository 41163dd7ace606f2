// Package lazyseq provides restartable, memoized views over single-pass
// sequences, plus ordered merge helpers for ascending sequences. It backs
// the date-indexed series in package financial: an underlying sequence is
// pulled at most once, and every consumer replays the same cached elements.
package lazyseq

import (
	"iter"
	"sync"
)

// CompareFunc orders two elements: negative when a sorts before b, zero when
// equal, positive otherwise.
type CompareFunc[T any] func(a, b T) int

// Replayable memoizes a single pass over an underlying sequence. All() may
// be iterated any number of times, concurrently; each element is pulled from
// the source at most once.
type Replayable[T any] struct {
	mu    sync.Mutex
	next  func() (T, bool)
	stop  func()
	cache []T
	done  bool
}

// Cached wraps seq in a replayable view. The source is pulled lazily, on
// first demand for each position.
func Cached[T any](seq iter.Seq[T]) *Replayable[T] {
	next, stop := iter.Pull(seq)
	return &Replayable[T]{next: next, stop: stop}
}

// From builds an already-materialized replayable view over the given
// elements.
func From[T any](elems ...T) *Replayable[T] {
	cache := make([]T, len(elems))
	copy(cache, elems)
	return &Replayable[T]{cache: cache, done: true}
}

// All yields the cached elements followed by any not yet pulled from the
// source, in order.
func (r *Replayable[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; ; i++ {
			v, ok := r.fetch(i)
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

func (r *Replayable[T]) fetch(i int) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.cache) <= i && !r.done {
		v, ok := r.next()
		if !ok {
			r.done = true
			r.stop()
			break
		}
		r.cache = append(r.cache, v)
	}
	if i < len(r.cache) {
		return r.cache[i], true
	}
	var zero T
	return zero, false
}

// Merge combines two ascending sequences into one ascending sequence.
// Elements comparing equal are fused by combine; all others pass through.
// The inputs are consumed lazily, in lockstep with the output.
func Merge[T any](cmp CompareFunc[T], a, b iter.Seq[T], combine func(x, y T) T) iter.Seq[T] {
	return func(yield func(T) bool) {
		nextA, stopA := iter.Pull(a)
		defer stopA()
		nextB, stopB := iter.Pull(b)
		defer stopB()

		va, okA := nextA()
		vb, okB := nextB()
		for {
			switch {
			case okA && okB:
				c := cmp(va, vb)
				switch {
				case c < 0:
					if !yield(va) {
						return
					}
					va, okA = nextA()
				case c > 0:
					if !yield(vb) {
						return
					}
					vb, okB = nextB()
				default:
					if !yield(combine(va, vb)) {
						return
					}
					va, okA = nextA()
					vb, okB = nextB()
				}
			case okA:
				if !yield(va) {
					return
				}
				va, okA = nextA()
			case okB:
				if !yield(vb) {
					return
				}
				vb, okB = nextB()
			default:
				return
			}
		}
	}
}

// MergeDistinct yields the ordered union of two ascending sequences,
// keeping a single element where the two compare equal.
func MergeDistinct[T any](cmp CompareFunc[T], a, b iter.Seq[T]) iter.Seq[T] {
	return Merge(cmp, a, b, func(x, _ T) T { return x })
}
