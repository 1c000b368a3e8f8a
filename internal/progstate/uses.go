package progstate

import "lime/internal/network"

// Uses counts how many times each node id's signal has been consumed so
// far. Ids in the never-evict set (State passes the network's leaves,
// which must stay materialized) always report zero uses regardless of their
// actual increment count, so the placer never treats them as evictable.
type Uses struct {
	counts map[network.NodeID]int
	never  map[network.NodeID]struct{}
}

// NewUses builds a counter with the given ids permanently reporting zero
// uses.
func NewUses(never []network.NodeID) *Uses {
	neverSet := make(map[network.NodeID]struct{}, len(never))
	for _, id := range never {
		neverSet[id] = struct{}{}
	}
	return &Uses{counts: make(map[network.NodeID]int), never: neverSet}
}

// Get returns id's current use count, or zero if id is in the
// never-evict set.
func (u *Uses) Get(id network.NodeID) int {
	if _, ok := u.never[id]; ok {
		return 0
	}
	return u.counts[id]
}

// Savepoint opens an undo-tracked view over the counter.
func (u *Uses) Savepoint() *UsesSavepoint {
	return &UsesSavepoint{uses: u, increments: make([]network.NodeID, 0, 8)}
}

// UsesSavepoint layers undo-tracked increments over a Uses counter: every
// increment this savepoint performs is recorded so Rollback can undo
// exactly that many increments per id, regardless of concurrent
// increments made by a sibling savepoint in between.
type UsesSavepoint struct {
	uses       *Uses
	increments []network.NodeID
}

func (sp *UsesSavepoint) Uses() *Uses { return sp.uses }

// Increment bumps id's raw count and returns its reported use count
// afterward (zero if id is never-evict).
func (sp *UsesSavepoint) Increment(id network.NodeID) int {
	sp.uses.counts[id]++
	sp.increments = append(sp.increments, id)
	return sp.uses.Get(id)
}

// Savepoint opens a nested savepoint sharing this one's underlying
// counter.
func (sp *UsesSavepoint) Savepoint() *UsesSavepoint {
	return &UsesSavepoint{uses: sp.uses, increments: make([]network.NodeID, 0, 8)}
}

// Retain commits this savepoint's increments: Rollback becomes a no-op.
func (sp *UsesSavepoint) Retain() {
	sp.increments = nil
}

// Rollback undoes every increment this savepoint performed. Call it on
// every path that does not Retain; a no-op once Retain has run.
func (sp *UsesSavepoint) Rollback() {
	for _, id := range sp.increments {
		sp.uses.counts[id]--
	}
	sp.increments = nil
}

// UsesDelta is a serialized sequence of increments, replayable onto a
// sibling savepoint.
type UsesDelta struct {
	increments []network.NodeID
}

// NewUsesDelta returns an empty delta.
func NewUsesDelta() *UsesDelta {
	return &UsesDelta{}
}

// AppendToDelta appends this savepoint's increments to delta.
func (sp *UsesSavepoint) AppendToDelta(delta *UsesDelta) {
	delta.increments = append(delta.increments, sp.increments...)
}

// Replay re-applies delta's increments directly (bypassing Increment's
// never-evict masking, matching the raw counts it recorded) and extends
// this savepoint's own undo log with them.
func (sp *UsesSavepoint) Replay(delta *UsesDelta) {
	for _, id := range delta.increments {
		sp.uses.counts[id]++
	}
	if len(sp.increments) == 0 {
		sp.increments = delta.increments
		return
	}
	sp.increments = append(sp.increments, delta.increments...)
}
