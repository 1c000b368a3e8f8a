package progstate

import (
	"lime/internal/arch"
	"lime/internal/network"
)

// State is the complete per-search-branch bookkeeping of component C:
// the cell⇄signal store, the candidate frontier, use counts, and the
// program emitted so far, all consistent with one fixed network.
type State struct {
	program    Program
	cells      *CellStatesStore
	candidates *Candidates
	uses       *Uses
	net        network.Network
	outputIDs  map[network.NodeID]struct{}
}

// Initialize builds the starting state for a network over an
// architecture: every leaf (constant or primary input) is placed into
// its designated cell, and every node whose fanins are all leaves
// becomes an initial candidate.
func Initialize(a arch.Architecture, net network.Network, inputCells []arch.Cell) *State {
	cells := NewCellStatesStore(a)
	candidates := NewCandidates()
	outputIDs := make(map[network.NodeID]struct{})
	for _, sig := range net.Outputs() {
		outputIDs[sig.Node] = struct{}{}
	}

	leaves := make(map[network.NodeID]struct{})
	for _, l := range net.Leaves() {
		leaves[l] = struct{}{}
	}

	constType, hasConst := a.ConstantType()
	inputOrdinal := 0
	for _, leafID := range net.Leaves() {
		leaf := net.Node(leafID)
		switch leaf.Kind {
		case network.KindConstant:
			if hasConst {
				for _, v := range [2]bool{true, false} {
					sig := network.Signal{Node: leafID, Inverted: v}
					cells.Set(arch.ConstantCell(constType, v), &sig)
				}
			}
		case network.KindInput:
			if inputOrdinal < len(inputCells) {
				sig := network.Signal{Node: leafID, Inverted: false}
				cells.Set(inputCells[inputOrdinal], &sig)
			}
			inputOrdinal++
		}
		for _, fanoutID := range net.Fanout(leafID) {
			if allInputsIn(net, fanoutID, leaves) {
				candidates.Add(fanoutID)
			}
		}
	}

	return &State{
		program:    Program{},
		cells:      cells,
		candidates: candidates,
		uses:       NewUses(net.Leaves()),
		net:        net,
		outputIDs:  outputIDs,
	}
}

func allInputsIn(net network.Network, id network.NodeID, set map[network.NodeID]struct{}) bool {
	for _, in := range net.Node(id).Inputs {
		if _, ok := set[in.Node]; !ok {
			return false
		}
	}
	return true
}

func (s *State) Candidates() *Candidates { return s.candidates }
func (s *State) Program() *Program       { return &s.program }

// Savepoint opens an undo-tracked, network-aware view over the full
// state.
func (s *State) Savepoint() *StateSavepoint {
	return &StateSavepoint{
		program:    s.program.savepoint(),
		cells:      newCellStatesSavepoint(s.cells),
		candidates: s.candidates.Savepoint(),
		uses:       s.uses.Savepoint(),
		net:        s.net,
		outputIDs:  s.outputIDs,
	}
}

// StateSavepoint composes the four sub-savepoints (program, cells,
// candidates, uses) under one undo scope, and additionally propagates
// the network-level consequences of Set: newly-satisfied candidates, use
// counting, and clearing fully-consumed signals.
type StateSavepoint struct {
	program    *ProgramSavepoint
	cells      *CellStatesSavepoint
	candidates *CandidatesSavepoint
	uses       *UsesSavepoint
	net        network.Network
	outputIDs  map[network.NodeID]struct{}
}

// Savepoint opens a nested savepoint sharing this one's underlying state.
func (sp *StateSavepoint) Savepoint() *StateSavepoint {
	return &StateSavepoint{
		program:    sp.program.Savepoint(),
		cells:      sp.cells.Savepoint(),
		candidates: sp.candidates.Savepoint(),
		uses:       sp.uses.Savepoint(),
		net:        sp.net,
		outputIDs:  sp.outputIDs,
	}
}

func (sp *StateSavepoint) OutputIDs() map[network.NodeID]struct{} { return sp.outputIDs }
func (sp *StateSavepoint) Candidates() *Candidates                { return sp.candidates.Candidates() }
func (sp *StateSavepoint) Uses() *Uses                            { return sp.uses.Uses() }
func (sp *StateSavepoint) Program() *Program                      { return sp.program.Program() }

// AppendInstruction records op in the program.
func (sp *StateSavepoint) AppendInstruction(op Operation) {
	sp.program.Append(op)
}

// Cell, CellsWith, FreeIndices, AnyFree satisfy CellStates by delegating
// to the cell-state savepoint.
func (sp *StateSavepoint) Cell(cell arch.Cell) (network.Signal, bool) { return sp.cells.Cell(cell) }
func (sp *StateSavepoint) CellsWith(sig network.Signal) []arch.Cell   { return sp.cells.CellsWith(sig) }
func (sp *StateSavepoint) FreeIndices(typ arch.CellType, bound uint32) []uint32 {
	return sp.cells.FreeIndices(typ, bound)
}
func (sp *StateSavepoint) AnyFree(typ arch.CellType, bound uint32) bool {
	return sp.cells.AnyFree(typ, bound)
}

// ClearAllByID clears every cell holding id's signal, in either polarity.
func (sp *StateSavepoint) ClearAllByID(id network.NodeID) {
	sp.cells.ClearAllByID(id, nil)
}

// Set stores sig in cell and propagates the consequences: if this newly
// materializes a node's signal for the first time, its fanouts become
// candidates wherever every one of their own fanins is now materialized,
// and every fanin of the newly materialized node has its use count
// incremented; once a fanin's uses reach its total fanout count and it is
// not a network output, its cells are cleared to free them for reuse.
func (sp *StateSavepoint) Set(cell arch.Cell, sig *network.Signal) *network.Signal {
	previous := sp.cells.Set(cell, sig)
	if sig == nil {
		return previous
	}
	if !sp.candidates.Remove(sig.Node) {
		return previous
	}

	for _, fanoutID := range sp.net.Fanout(sig.Node) {
		if allInputsMaterialized(sp, fanoutID) {
			sp.candidates.Add(fanoutID)
		}
	}

	seen := make(map[network.NodeID]struct{})
	for _, in := range sp.net.Node(sig.Node).Inputs {
		if _, dup := seen[in.Node]; dup {
			continue
		}
		seen[in.Node] = struct{}{}
		uses := sp.uses.Increment(in.Node)
		_, isOutput := sp.outputIDs[in.Node]
		total := sp.net.FanoutCount(in.Node)
		if isOutput {
			total++
		}
		if uses >= total && !isOutput {
			sp.cells.ClearAllByID(in.Node, nil)
		}
	}
	return previous
}

func allInputsMaterialized(sp *StateSavepoint, id network.NodeID) bool {
	for _, in := range sp.net.Node(id).Inputs {
		if !sp.nodeMaterialized(in.Node) {
			return false
		}
	}
	return true
}

func (sp *StateSavepoint) nodeMaterialized(id network.NodeID) bool {
	for _, inv := range [2]bool{true, false} {
		if len(sp.cells.CellsWith(network.Signal{Node: id, Inverted: inv})) > 0 {
			return true
		}
	}
	return false
}

// Retain commits every change made through this savepoint.
func (sp *StateSavepoint) Retain() {
	sp.program.Retain()
	sp.cells.Retain()
	sp.candidates.Retain()
	sp.uses.Retain()
}

// Rollback undoes every change made through this savepoint.
func (sp *StateSavepoint) Rollback() {
	sp.program.Rollback()
	sp.cells.Rollback()
	sp.candidates.Rollback()
	sp.uses.Rollback()
}

// StateDelta is a serialized set of changes across all four sub-states,
// replayable onto a sibling savepoint.
type StateDelta struct {
	program    *ProgramDelta
	cells      *CellStatesDelta
	candidates *CandidatesDelta
	uses       *UsesDelta
}

// NewStateDelta returns an empty delta.
func NewStateDelta() *StateDelta {
	return &StateDelta{
		program:    NewProgramDelta(),
		cells:      NewCellStatesDelta(),
		candidates: NewCandidatesDelta(),
		uses:       NewUsesDelta(),
	}
}

// ProgramDelta returns the program operations captured in this delta.
func (d *StateDelta) ProgramDelta() *ProgramDelta { return d.program }

// AppendToDelta merges this savepoint's net changes into delta.
func (sp *StateSavepoint) AppendToDelta(delta *StateDelta) {
	sp.program.AppendToDelta(delta.program)
	sp.cells.AppendToDelta(delta.cells)
	sp.candidates.AppendToDelta(delta.candidates)
	sp.uses.AppendToDelta(delta.uses)
}

// Replay re-applies delta's changes to this savepoint.
func (sp *StateSavepoint) Replay(delta *StateDelta) {
	sp.program.Replay(delta.program)
	sp.cells.Replay(delta.cells)
	sp.candidates.Replay(delta.candidates)
	sp.uses.Replay(delta.uses)
}
