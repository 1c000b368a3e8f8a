package progstate

import (
	"lime/internal/arch"
	"lime/internal/network"
)

// CellStates is the cell⇄signal bookkeeping surface shared by the root
// store and every savepoint layered on top of it, so a savepoint can
// itself be the store a nested savepoint wraps.
type CellStates interface {
	// Cell returns the signal stored in cell, if any.
	Cell(cell arch.Cell) (network.Signal, bool)
	// CellsWith returns every cell currently holding sig.
	CellsWith(sig network.Signal) []arch.Cell
	// Set stores sig in cell (nil clears it) and returns the signal the
	// cell held before this call.
	Set(cell arch.Cell, sig *network.Signal) *network.Signal
	// ClearAllByID clears every cell holding either polarity of id's
	// signal, invoking callback once per cleared cell with its prior
	// signal.
	ClearAllByID(id network.NodeID, callback func(arch.Cell, network.Signal))
	// FreeIndices returns every free index of typ strictly below bound.
	FreeIndices(typ arch.CellType, bound uint32) []uint32
	// AnyFree reports whether typ has a free index strictly below bound.
	AnyFree(typ arch.CellType, bound uint32) bool
}

// CellStatesStore is the root cell⇄signal store: a forward map (cell to
// signal), a non-deduplicated reverse map (signal to cells), and one
// freeCells tracker per cell type.
type CellStatesStore struct {
	signalToCells map[network.Signal][]arch.Cell
	cellToSignal  map[arch.Cell]network.Signal
	freeCells     map[arch.CellType]*freeCells
}

// NewCellStatesStore builds the store for an architecture: every
// referenced cell type gets a freeCells tracker sized to its count, with
// the CONSTANT type always initialized to zero free cells (constants are
// permanently occupied).
func NewCellStatesStore(a arch.Architecture) *CellStatesStore {
	fc := make(map[arch.CellType]*freeCells)
	for _, t := range a.Types() {
		if t.IsConstant() {
			zero := uint32(0)
			fc[t] = newFreeCells(&zero)
			continue
		}
		if count, bounded := t.Count(); bounded {
			n := count
			fc[t] = newFreeCells(&n)
		} else {
			fc[t] = newFreeCells(nil)
		}
	}
	return &CellStatesStore{
		signalToCells: make(map[network.Signal][]arch.Cell),
		cellToSignal:  make(map[arch.Cell]network.Signal),
		freeCells:     fc,
	}
}

func (s *CellStatesStore) Cell(cell arch.Cell) (network.Signal, bool) {
	sig, ok := s.cellToSignal[cell]
	return sig, ok
}

func (s *CellStatesStore) CellsWith(sig network.Signal) []arch.Cell {
	return s.signalToCells[sig]
}

func (s *CellStatesStore) freeCellsFor(t arch.CellType) *freeCells {
	fc, ok := s.freeCells[t]
	if !ok {
		panic("progstate: unknown cell type")
	}
	return fc
}

func (s *CellStatesStore) Set(cell arch.Cell, sig *network.Signal) *network.Signal {
	existing, had := s.cellToSignal[cell]
	if had && sig != nil && existing == *sig {
		return sig
	}

	var previous *network.Signal
	switch {
	case had && sig != nil:
		old := existing
		previous = &old
		s.cellToSignal[cell] = *sig
	case had && sig == nil:
		old := existing
		previous = &old
		delete(s.cellToSignal, cell)
	case !had && sig == nil:
		return nil
	default:
		s.cellToSignal[cell] = *sig
	}

	if previous != nil {
		cells := s.signalToCells[*previous]
		for i, c := range cells {
			if c == cell {
				cells[i] = cells[len(cells)-1]
				cells = cells[:len(cells)-1]
				break
			}
		}
		if len(cells) == 0 {
			delete(s.signalToCells, *previous)
		} else {
			s.signalToCells[*previous] = cells
		}
	}

	if sig != nil {
		s.signalToCells[*sig] = append(s.signalToCells[*sig], cell)
	}

	fc := s.freeCellsFor(cell.Type)
	if sig == nil {
		fc.add(cell.Index)
	} else {
		fc.remove(cell.Index)
	}
	return previous
}

func (s *CellStatesStore) ClearAllByID(id network.NodeID, callback func(arch.Cell, network.Signal)) {
	for _, inv := range [2]bool{true, false} {
		sig := network.Signal{Node: id, Inverted: inv}
		cells := s.signalToCells[sig]
		delete(s.signalToCells, sig)
		for _, cell := range cells {
			s.freeCellsFor(cell.Type).add(cell.Index)
			prevSig, ok := s.cellToSignal[cell]
			if !ok {
				panic("progstate: cell in reverse index missing forward mapping")
			}
			delete(s.cellToSignal, cell)
			callback(cell, prevSig)
		}
	}
}

func (s *CellStatesStore) FreeIndices(typ arch.CellType, bound uint32) []uint32 {
	return s.freeCellsFor(typ).iterUpTo(bound)
}

func (s *CellStatesStore) AnyFree(typ arch.CellType, bound uint32) bool {
	return s.freeCellsFor(typ).any(bound)
}

// Savepoint opens a new top-level savepoint over this store.
func (s *CellStatesStore) Savepoint() *CellStatesSavepoint {
	return newCellStatesSavepoint(s)
}

// CellStatesSavepoint layers undo-tracked mutation over a CellStates (the
// root store or another savepoint): it records, per cell, only the first
// previous value observed during its lifetime, so Rollback restores the
// state exactly as of its creation regardless of how many times a cell
// changed in between.
type CellStatesSavepoint struct {
	store    CellStates
	previous map[arch.Cell]*network.Signal
}

func newCellStatesSavepoint(store CellStates) *CellStatesSavepoint {
	return &CellStatesSavepoint{store: store, previous: make(map[arch.Cell]*network.Signal)}
}

// Savepoint opens a nested savepoint over this one.
func (sp *CellStatesSavepoint) Savepoint() *CellStatesSavepoint {
	return newCellStatesSavepoint(sp)
}

func (sp *CellStatesSavepoint) Cell(cell arch.Cell) (network.Signal, bool) {
	return sp.store.Cell(cell)
}

func (sp *CellStatesSavepoint) CellsWith(sig network.Signal) []arch.Cell {
	return sp.store.CellsWith(sig)
}

func (sp *CellStatesSavepoint) FreeIndices(typ arch.CellType, bound uint32) []uint32 {
	return sp.store.FreeIndices(typ, bound)
}

func (sp *CellStatesSavepoint) AnyFree(typ arch.CellType, bound uint32) bool {
	return sp.store.AnyFree(typ, bound)
}

func (sp *CellStatesSavepoint) Set(cell arch.Cell, sig *network.Signal) *network.Signal {
	previous := sp.store.Set(cell, sig)
	if _, seen := sp.previous[cell]; !seen {
		sp.previous[cell] = previous
	}
	return previous
}

func (sp *CellStatesSavepoint) ClearAllByID(id network.NodeID, callback func(arch.Cell, network.Signal)) {
	sp.store.ClearAllByID(id, func(cell arch.Cell, sig network.Signal) {
		if _, seen := sp.previous[cell]; !seen {
			s := sig
			sp.previous[cell] = &s
		}
		if callback != nil {
			callback(cell, sig)
		}
	})
}

// Retain commits this savepoint's changes permanently: Rollback becomes a
// no-op. Mirrors the original's retain()-before-Drop idiom, since Go has
// no destructors to run the undo automatically.
func (sp *CellStatesSavepoint) Retain() {
	sp.previous = nil
}

// Rollback restores every cell this savepoint touched to its value at
// creation time. Call it (e.g. via defer) on every path that does not
// Retain; a no-op once Retain has run.
func (sp *CellStatesSavepoint) Rollback() {
	if sp.previous == nil {
		return
	}
	previous := sp.previous
	sp.previous = nil
	for cell, sig := range previous {
		sp.store.Set(cell, sig)
	}
}

// CellStatesDelta is a serialized set of cell changes, replayable onto a
// sibling savepoint.
type CellStatesDelta struct {
	changes map[arch.Cell]*network.Signal
}

// NewCellStatesDelta returns an empty delta.
func NewCellStatesDelta() *CellStatesDelta {
	return &CellStatesDelta{changes: make(map[arch.Cell]*network.Signal)}
}

// AppendToDelta serializes this savepoint's net forward changes (the
// current value of every cell it touched) into delta.
func (sp *CellStatesSavepoint) AppendToDelta(delta *CellStatesDelta) {
	for cell := range sp.previous {
		if sig, ok := sp.store.Cell(cell); ok {
			s := sig
			delta.changes[cell] = &s
		} else {
			delta.changes[cell] = nil
		}
	}
}

// Replay applies delta's changes to this savepoint.
func (sp *CellStatesSavepoint) Replay(delta *CellStatesDelta) {
	for cell, sig := range delta.changes {
		sp.Set(cell, sig)
	}
}
