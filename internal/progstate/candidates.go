package progstate

import "lime/internal/network"

// Candidates is the frontier of node ids whose fanins are all currently
// materialized in some cell, and which are therefore eligible to be
// placed next.
type Candidates struct {
	set map[network.NodeID]struct{}
}

// NewCandidates returns an empty candidate set.
func NewCandidates() *Candidates {
	return &Candidates{set: make(map[network.NodeID]struct{})}
}

func (c *Candidates) Contains(id network.NodeID) bool {
	_, ok := c.set[id]
	return ok
}

func (c *Candidates) Len() int { return len(c.set) }

// Ids returns the candidate set's members in unspecified order.
func (c *Candidates) Ids() []network.NodeID {
	out := make([]network.NodeID, 0, len(c.set))
	for id := range c.set {
		out = append(out, id)
	}
	return out
}

func (c *Candidates) add(id network.NodeID) bool {
	if _, ok := c.set[id]; ok {
		return false
	}
	c.set[id] = struct{}{}
	return true
}

func (c *Candidates) remove(id network.NodeID) bool {
	if _, ok := c.set[id]; !ok {
		return false
	}
	delete(c.set, id)
	return true
}

// Add marks candidate as placeable.
func (c *Candidates) Add(candidate network.NodeID) bool { return c.add(candidate) }

// Remove marks candidate as no longer placeable.
func (c *Candidates) Remove(candidate network.NodeID) bool { return c.remove(candidate) }

// Savepoint opens an undo-tracked view over the candidate set.
func (c *Candidates) Savepoint() *CandidatesSavepoint {
	return &CandidatesSavepoint{candidates: c, changes: make(map[network.NodeID]candidateChange)}
}

type candidateChange int

const (
	candidateAdded candidateChange = iota
	candidateRemoved
)

// CandidatesSavepoint layers undo-tracked add/remove over a Candidates
// set, recording net changes so Rollback can precisely invert them.
type CandidatesSavepoint struct {
	candidates *Candidates
	changes    map[network.NodeID]candidateChange
}

func (sp *CandidatesSavepoint) Candidates() *Candidates { return sp.candidates }

func (sp *CandidatesSavepoint) recordAdd(id network.NodeID) {
	if ch, ok := sp.changes[id]; ok && ch == candidateRemoved {
		delete(sp.changes, id)
		return
	}
	sp.changes[id] = candidateAdded
}

func (sp *CandidatesSavepoint) recordRemove(id network.NodeID) {
	if ch, ok := sp.changes[id]; ok && ch == candidateAdded {
		delete(sp.changes, id)
		return
	}
	sp.changes[id] = candidateRemoved
}

func (sp *CandidatesSavepoint) Add(candidate network.NodeID) bool {
	if sp.candidates.add(candidate) {
		sp.recordAdd(candidate)
		return true
	}
	return false
}

func (sp *CandidatesSavepoint) Remove(candidate network.NodeID) bool {
	if sp.candidates.remove(candidate) {
		sp.recordRemove(candidate)
		return true
	}
	return false
}

// Savepoint opens a nested savepoint sharing this one's underlying set.
func (sp *CandidatesSavepoint) Savepoint() *CandidatesSavepoint {
	return &CandidatesSavepoint{candidates: sp.candidates, changes: make(map[network.NodeID]candidateChange)}
}

// Retain commits this savepoint's changes: Rollback (and the eventual
// drop of this value) becomes a no-op.
func (sp *CandidatesSavepoint) Retain() {
	sp.changes = nil
}

// Rollback undoes every add/remove this savepoint performed. Call it on
// every path that does not Retain; a no-op once Retain has run.
func (sp *CandidatesSavepoint) Rollback() {
	for candidate, change := range sp.changes {
		switch change {
		case candidateAdded:
			sp.candidates.remove(candidate)
		case candidateRemoved:
			sp.candidates.add(candidate)
		}
	}
	sp.changes = nil
}

// CandidatesDelta is a serialized set of candidate changes, replayable
// onto a sibling savepoint.
type CandidatesDelta struct {
	changes map[network.NodeID]candidateChange
}

// NewCandidatesDelta returns an empty delta.
func NewCandidatesDelta() *CandidatesDelta {
	return &CandidatesDelta{changes: make(map[network.NodeID]candidateChange)}
}

// AppendToDelta merges this savepoint's net changes into delta.
func (sp *CandidatesSavepoint) AppendToDelta(delta *CandidatesDelta) {
	for candidate, change := range sp.changes {
		switch change {
		case candidateAdded:
			delta.changes[candidate] = candidateAdded
		case candidateRemoved:
			delta.changes[candidate] = candidateRemoved
		}
	}
}

// Replay re-applies delta's changes to this savepoint.
func (sp *CandidatesSavepoint) Replay(delta *CandidatesDelta) {
	for candidate, change := range delta.changes {
		switch change {
		case candidateAdded:
			sp.Add(candidate)
		case candidateRemoved:
			sp.Remove(candidate)
		}
	}
}
