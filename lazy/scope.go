package lazy

import "context"

type scopeCtxKey struct{}

// scopeEntry identifies one in-flight evaluation: a graph (by uuid) and a
// key label within it. name is carried for error messages only.
type scopeEntry struct {
	graph string
	name  string
	key   string
}

func (e scopeEntry) label() string { return e.name + "[" + e.key + "]" }

// evalScope tracks the chain of nodes on one logical evaluation stack,
// spanning every graph touched by a single top-level Get.
//
// IMPORTANT: a scope is **intentionally NOT thread-safe**. It belongs to
// exactly one goroutine's call stack; sharing a scoped context across
// goroutines is undefined behavior. Each top-level Get on an unscoped
// context installs a fresh scope, so concurrent callers never collide.
type evalScope struct {
	chain []scopeEntry
	seen  map[scopeEntry]int
}

func scopeFrom(ctx context.Context) *evalScope {
	sc, _ := ctx.Value(scopeCtxKey{}).(*evalScope)
	return sc
}

// ensureScope returns a context carrying an evaluation scope, installing one
// when absent.
func ensureScope(ctx context.Context) (context.Context, *evalScope) {
	if sc := scopeFrom(ctx); sc != nil {
		return ctx, sc
	}
	sc := &evalScope{seen: make(map[scopeEntry]int)}
	return context.WithValue(ctx, scopeCtxKey{}, sc), sc
}

func (s *evalScope) contains(e scopeEntry) bool {
	_, ok := s.seen[e]
	return ok
}

func (s *evalScope) push(e scopeEntry) {
	s.seen[e] = len(s.chain)
	s.chain = append(s.chain, e)
}

func (s *evalScope) pop() {
	last := s.chain[len(s.chain)-1]
	s.chain = s.chain[:len(s.chain)-1]
	delete(s.seen, last)
}

// cycleChain renders the stack from the first occurrence of e through the
// re-entrant request of e itself.
func (s *evalScope) cycleChain(e scopeEntry) []string {
	start := s.seen[e]
	chain := make([]string, 0, len(s.chain)-start+1)
	for _, ent := range s.chain[start:] {
		chain = append(chain, ent.label())
	}
	return append(chain, e.label())
}
