package conversation

import "sync"

// Guard implements latest-request-wins for overlapping fetches of the same
// view. Each fetch calls Begin before issuing its reads and Commit when its
// result is ready; only the most recently issued fetch is allowed to commit.
// Without this, a later-issued fetch that resolves first can be overwritten
// by stale data from an earlier one.
type Guard struct {
	mu     sync.Mutex
	issued uint64
}

// Begin registers a new fetch and returns its sequence token.
func (g *Guard) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

// Commit reports whether the fetch identified by seq may publish its result.
// It returns false once any later fetch has begun.
func (g *Guard) Commit(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return seq == g.issued
}
