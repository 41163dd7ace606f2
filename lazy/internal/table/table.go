// Package table provides the sharded key-to-node storage backing a lazy
// graph. Shards are selected by xxhash of a key label so unrelated keys do
// not contend on one lock.
package table

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Table is a get-or-create map from K to a node value N, split across
// hash-selected shards. N is expected to be a pointer type whose internal
// synchronization is the caller's concern; the table only guards the maps.
type Table[K comparable, N any] struct {
	shards  []shard[K, N]
	label   func(K) string
	newNode func() N
}

type shard[K comparable, N any] struct {
	mu sync.Mutex
	m  map[K]N
}

// New builds a table with the given number of shards. label must be a pure
// function mapping each key to a stable string.
func New[K comparable, N any](shards int, label func(K) string, newNode func() N) *Table[K, N] {
	if shards < 1 {
		shards = 1
	}
	t := &Table[K, N]{
		shards:  make([]shard[K, N], shards),
		label:   label,
		newNode: newNode,
	}
	for i := range t.shards {
		t.shards[i].m = make(map[K]N)
	}
	return t
}

func (t *Table[K, N]) shardOf(key K) *shard[K, N] {
	if len(t.shards) == 1 {
		return &t.shards[0]
	}
	idx := xxhash.Sum64String(t.label(key)) % uint64(len(t.shards))
	return &t.shards[idx]
}

// Get returns the node for key, creating it on first use.
func (t *Table[K, N]) Get(key K) N {
	s := t.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.m[key]
	if !ok {
		n = t.newNode()
		s.m[key] = n
	}
	return n
}

// Lookup returns the node for key without creating it.
func (t *Table[K, N]) Lookup(key K) (N, bool) {
	s := t.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.m[key]
	return n, ok
}

// Range calls f for every stored (key, node) pair until f returns false.
// Concurrent inserts during iteration may or may not be visited.
func (t *Table[K, N]) Range(f func(K, N) bool) {
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		for k, n := range s.m {
			if !f(k, n) {
				s.mu.Unlock()
				return
			}
		}
		s.mu.Unlock()
	}
}
