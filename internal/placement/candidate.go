package placement

import (
	"lime/internal/arch"
	"lime/internal/network"
	"lime/internal/progstate"
)

// TryCandidate attempts to place candidateID using one input-tuple
// disjunct of instr: it positions gateInputs onto tuple's read operands,
// then places and records the full instruction on a nested savepoint. On
// success it returns the resulting delta (the savepoint's changes are
// rolled back either way; callers replay the delta onto whichever branch
// they end up keeping). Ground truth: compilation::step's
// DefaultStepFn::step inner loop (position_signals + perform_operation +
// branch/consider).
func TryCandidate(p *Params, sp *progstate.StateSavepoint, candidateID network.NodeID, gateInputs []network.Signal, instr arch.InstructionType, tuple arch.TuplePat[arch.CellPat]) (*progstate.StateDelta, bool) {
	branch := sp.Savepoint()
	signals, ok := positionSignals(p, branch, instr, tuple, gateInputs)
	if !ok {
		branch.Rollback()
		return nil, false
	}
	if !performOperation(p, branch, candidateID, instr, tuple, signals) {
		branch.Rollback()
		return nil, false
	}
	delta := progstate.NewStateDelta()
	branch.AppendToDelta(delta)
	branch.Rollback()
	return delta, true
}

// PlaceOutputs places the network's final output signals into cells of
// any unbounded cell type, returning the cells in output order. Ground
// truth: compilation::mod::finalize's call to place_signals with a
// synthetic Nary(unbounded types) input.
func PlaceOutputs(p *Params, sp *progstate.StateSavepoint, outputs []network.Signal) ([]arch.Cell, bool) {
	var unbounded arch.Pats[arch.CellPat]
	for _, t := range p.Arch.Types() {
		if _, bounded := t.Count(); !bounded {
			unbounded = append(unbounded, arch.TypePat(t))
		}
	}
	tuple := make(arch.TuplePat[arch.CellPat], len(outputs))
	for i := range tuple {
		tuple[i] = unbounded
	}
	return placeSignals(p, sp, tuple, arch.NoIndices(), outputs, make(map[arch.Cell]struct{}))
}
