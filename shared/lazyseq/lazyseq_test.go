package lazyseq_test

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finseq/finseq/shared/lazyseq"
)

func counted(n int, pulls *atomic.Int64) func(yield func(int) bool) {
	return func(yield func(int) bool) {
		for i := 0; i < n; i++ {
			pulls.Add(1)
			if !yield(i) {
				return
			}
		}
	}
}

func TestCached_SinglePassUnderlying(t *testing.T) {
	var pulls atomic.Int64
	r := lazyseq.Cached(counted(5, &pulls))

	assert.Zero(t, pulls.Load(), "wrapping does not pull")

	first := slices.Collect(r.All())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, first)

	second := slices.Collect(r.All())
	assert.Equal(t, first, second)
	assert.Equal(t, int64(5), pulls.Load(), "replay comes from the cache")
}

func TestCached_PartialConsumptionResumes(t *testing.T) {
	var pulls atomic.Int64
	r := lazyseq.Cached(counted(10, &pulls))

	var head []int
	for v := range r.All() {
		head = append(head, v)
		if len(head) == 3 {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2}, head)
	assert.Equal(t, int64(3), pulls.Load(), "only the demanded prefix is pulled")

	full := slices.Collect(r.All())
	assert.Len(t, full, 10)
	assert.Equal(t, int64(10), pulls.Load())
}

func TestCached_ConcurrentReaders(t *testing.T) {
	var pulls atomic.Int64
	r := lazyseq.Cached(counted(100, &pulls))

	const readers = 8
	var wg sync.WaitGroup
	results := make([][]int, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = slices.Collect(r.All())
		}(i)
	}
	wg.Wait()

	for i := 0; i < readers; i++ {
		require.Len(t, results[i], 100)
		assert.Equal(t, results[0], results[i])
	}
	assert.Equal(t, int64(100), pulls.Load(), "every reader shares one upstream pass")
}

func TestFrom(t *testing.T) {
	r := lazyseq.From(3, 1, 4)
	assert.Equal(t, []int{3, 1, 4}, slices.Collect(r.All()))
	assert.Equal(t, []int{3, 1, 4}, slices.Collect(r.All()))
}

func TestMerge_FusesEqualElements(t *testing.T) {
	a := slices.Values([]int{1, 3, 5})
	b := slices.Values([]int{2, 3, 6})

	got := slices.Collect(lazyseq.Merge(cmp.Compare[int], a, b, func(x, y int) int {
		return x + y
	}))
	assert.Equal(t, []int{1, 2, 6, 5, 6}, got, "the equal pair 3/3 fuses to 6")
}

func TestMerge_UnevenLengths(t *testing.T) {
	a := slices.Values([]int{1})
	b := slices.Values([]int{2, 4, 8})

	got := slices.Collect(lazyseq.Merge(cmp.Compare[int], a, b, func(x, _ int) int { return x }))
	assert.Equal(t, []int{1, 2, 4, 8}, got)

	got = slices.Collect(lazyseq.Merge(cmp.Compare[int], slices.Values([]int(nil)), b, func(x, _ int) int { return x }))
	assert.Equal(t, []int{2, 4, 8}, got)
}

func TestMergeDistinct(t *testing.T) {
	a := slices.Values([]int{1, 2, 3})
	b := slices.Values([]int{2, 3, 4})

	got := slices.Collect(lazyseq.MergeDistinct(cmp.Compare[int], a, b))
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestMerge_LazyConsumption(t *testing.T) {
	var pullsA, pullsB atomic.Int64
	merged := lazyseq.Merge(cmp.Compare[int], counted(100, &pullsA), counted(100, &pullsB),
		func(x, y int) int { return x })

	var head []int
	for v := range merged {
		head = append(head, v)
		if len(head) == 3 {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2}, head)
	assert.LessOrEqual(t, pullsA.Load(), int64(4), "inputs advance in lockstep with demand")
	assert.LessOrEqual(t, pullsB.Load(), int64(4))
}
