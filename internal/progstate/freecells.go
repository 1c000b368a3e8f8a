// Package progstate is the per-search-branch bookkeeping of component C:
// cell⇄signal state, the candidate frontier, use counts, and the ordered
// program being built, composed under a single stack-scoped savepoint.
package progstate

// freeCells tracks which cell indices of one cell type are currently
// free. Bounded types use an explicit membership set; unbounded types use
// a right-open range — every index at or above first is implicitly free,
// and before lists the free exceptions below first — so an unboundedly
// growing cell type never allocates memory proportional to its size.
type freeCells struct {
	rightOpen bool
	before    map[uint32]struct{}
	first     uint32
	set       map[uint32]struct{}
}

// newFreeCells builds a tracker for a bounded type of numCells cells (all
// initially free), or an unbounded type when numCells is nil.
func newFreeCells(numCells *uint32) *freeCells {
	if numCells == nil {
		return &freeCells{rightOpen: true, before: make(map[uint32]struct{})}
	}
	set := make(map[uint32]struct{}, *numCells)
	for i := uint32(0); i < *numCells; i++ {
		set[i] = struct{}{}
	}
	return &freeCells{set: set}
}

// add marks idx free, returning whether it was not already free.
func (f *freeCells) add(idx uint32) bool {
	if !f.rightOpen {
		if _, ok := f.set[idx]; ok {
			return false
		}
		f.set[idx] = struct{}{}
		return true
	}
	switch {
	case idx >= f.first:
		return false
	case idx == f.first-1:
		if _, ok := f.before[idx]; ok {
			panic("progstate: free-cells invariant violated: boundary cell already free")
		}
		cur := idx
		for cur != 0 {
			cur--
			if _, ok := f.before[cur]; ok {
				delete(f.before, cur)
				continue
			}
			cur++
			break
		}
		f.first = cur
		return true
	default:
		if _, ok := f.before[idx]; ok {
			return false
		}
		f.before[idx] = struct{}{}
		return true
	}
}

// remove marks idx occupied, returning whether it was previously free.
func (f *freeCells) remove(idx uint32) bool {
	if !f.rightOpen {
		if _, ok := f.set[idx]; !ok {
			return false
		}
		delete(f.set, idx)
		return true
	}
	switch {
	case idx >= f.first:
		for i := f.first; i < idx; i++ {
			f.before[i] = struct{}{}
		}
		f.first = idx + 1
		return true
	case idx == f.first-1:
		if _, ok := f.before[idx]; ok {
			panic("progstate: free-cells invariant violated: boundary cell already free")
		}
		return false
	default:
		if _, ok := f.before[idx]; ok {
			delete(f.before, idx)
			return true
		}
		return false
	}
}

// contains reports whether idx is currently free.
func (f *freeCells) contains(idx uint32) bool {
	if !f.rightOpen {
		_, ok := f.set[idx]
		return ok
	}
	if idx >= f.first {
		return true
	}
	_, ok := f.before[idx]
	return ok
}

// iterUpTo returns every free index strictly below bound — callers that
// need an index from the unbounded tail pass a bound past any index they
// care about (e.g. one past the highest index ever touched).
func (f *freeCells) iterUpTo(bound uint32) []uint32 {
	var out []uint32
	if !f.rightOpen {
		for idx := range f.set {
			if idx < bound {
				out = append(out, idx)
			}
		}
		return out
	}
	for idx := range f.before {
		if idx < bound {
			out = append(out, idx)
		}
	}
	for idx := f.first; idx < bound; idx++ {
		out = append(out, idx)
	}
	return out
}

// any reports whether at least one free index exists below bound; for an
// unbounded type the free tail counts only when first is below bound.
func (f *freeCells) any(bound uint32) bool {
	if f.rightOpen && f.first < bound {
		return true
	}
	for _, s := range []map[uint32]struct{}{f.before, f.set} {
		for idx := range s {
			if idx < bound {
				return true
			}
		}
	}
	return false
}
