package placement

import (
	"math"

	"lime/internal/arch"
	"lime/internal/copygraph"
	"lime/internal/cost"
	"lime/internal/network"
	"lime/internal/progstate"
)

// freeCellBound returns a bound past every index positioning logic needs
// to consider when scanning a cell type's free indices: the type's fixed
// capacity when bounded, or, when unbounded, one more than the number of
// distinct cells the program's instructions reference so far. That count
// is not a largest index and leaves out cells filled at initialization
// that no instruction has referenced yet, so the bound can lie below
// indices already in use. Go has no equivalent of Rust's lazy infinite
// free-cell iterator, so callers that would have iterated it indefinitely
// instead search up to this bound and grow the type on demand.
func freeCellBound(sp *progstate.StateSavepoint, typ arch.CellType) uint32 {
	if count, bounded := typ.Count(); bounded {
		return count
	}
	return uint32(sp.Program().NumCells()) + 1
}

func hasFreeCellForCellPat(sp *progstate.StateSavepoint, pat arch.CellPat) bool {
	if !pat.Any {
		return cellIsFree(sp, pat.Cell())
	}
	return sp.AnyFree(pat.Type, freeCellBound(sp, pat.Type))
}

func cellIsFree(sp *progstate.StateSavepoint, c arch.Cell) bool {
	for _, idx := range sp.FreeIndices(c.Type, c.Index+1) {
		if idx == c.Index {
			return true
		}
	}
	return false
}

func hasFreeCellForCellPats(sp *progstate.StateSavepoint, pats arch.Pats[arch.CellPat]) bool {
	for _, pat := range pats {
		if hasFreeCellForCellPat(sp, pat) {
			return true
		}
	}
	return false
}

// findPreferredFreeCellForType picks a free cell of typ not in not,
// falling back to any occupied cell of typ not in not if none is free
// (it will be spilled to make room).
func findPreferredFreeCellForType(sp *progstate.StateSavepoint, typ arch.CellType, not map[arch.Cell]struct{}) (arch.Cell, bool) {
	bound := freeCellBound(sp, typ)
	for _, idx := range sp.FreeIndices(typ, bound) {
		c := arch.Cell{Type: typ, Index: idx}
		if _, excluded := not[c]; !excluded {
			return c, true
		}
	}
	if count, bounded := typ.Count(); bounded {
		for i := uint32(0); i < count; i++ {
			c := arch.Cell{Type: typ, Index: i}
			if _, excluded := not[c]; !excluded {
				return c, true
			}
		}
		return arch.Cell{}, false
	}
	for i := uint32(0); i <= uint32(len(not)); i++ {
		c := arch.Cell{Type: typ, Index: i}
		if _, excluded := not[c]; !excluded {
			return c, true
		}
	}
	return arch.Cell{}, false
}

func findPreferredFreeCellForPat(sp *progstate.StateSavepoint, pat arch.CellPat, not map[arch.Cell]struct{}) (arch.Cell, bool) {
	if !pat.Any {
		c := pat.Cell()
		if _, excluded := not[c]; excluded {
			return arch.Cell{}, false
		}
		return c, true
	}
	return findPreferredFreeCellForType(sp, pat.Type, not)
}

// makeOverridableCellForPat finds a destination cell for pat, spilling it
// first if it is already occupied.
func makeOverridableCellForPat(p *Params, sp *progstate.StateSavepoint, pat arch.CellPat, not map[arch.Cell]struct{}) (arch.Cell, bool) {
	c, ok := findPreferredFreeCellForPat(sp, pat, not)
	if !ok {
		return arch.Cell{}, false
	}
	spillIfNecessary(p, sp, c)
	return c, true
}

// performCopy replays a copygraph path memo against sp, instantiating
// each edge's template instructions in turn and recording a Copy
// operation per hop. Ported from lime-rs's copy::perform_copy, adapted to
// operate on *progstate.StateSavepoint directly rather than a generic
// ProgramVersion trait.
func performCopy(p *Params, sp *progstate.StateSavepoint, memo copygraph.PathMemo, from arch.Cell, to arch.CellPat, forbidden map[arch.Cell]struct{}) (arch.Cell, bool) {
	startPat, steps := memo.Steps()
	_ = startPat
	if len(steps) == 0 {
		if to.Matches(from) {
			if _, blocked := forbidden[from]; !blocked {
				return from, true
			}
		}
		return arch.Cell{}, false
	}
	steps[len(steps)-1].To = to

	sig, ok := sp.Cell(from)
	if !ok {
		return arch.Cell{}, false
	}

	forbiddenPlusFrom := make(map[arch.Cell]struct{}, len(forbidden)+1)
	for c := range forbidden {
		forbiddenPlusFrom[c] = struct{}{}
	}
	forbiddenPlusFrom[from] = struct{}{}

	cur := from
	for _, step := range steps {
		target, ok := makeOverridableCellForPat(p, sp, step.To, forbiddenPlusFrom)
		if !ok {
			return arch.Cell{}, false
		}
		instrs := step.Edge.Instantiate(cur, target)
		sig = network.Signal{Node: sig.Node, Inverted: sig.Inverted != step.Edge.Inverted}
		op := progstate.NewCopyOperation(cur, target, step.Edge.Inverted, instrs, false, step.Edge.ComputesFromInverted)
		cur = target
		sig2 := sig
		sp.Set(target, &sig2)
		sp.AppendInstruction(op)
	}
	return cur, true
}

// placeSignals assigns each of signals to a cell matching the
// corresponding slot of input, copying or reusing existing cells to
// minimize total cost, and returns the resulting cells in signal order.
func placeSignals(p *Params, sp *progstate.StateSavepoint, input arch.TuplePat[arch.CellPat], inputInverted arch.InputIndices, signals []network.Signal, usedCells map[arch.Cell]struct{}) ([]arch.Cell, bool) {
	placed := make([]bool, len(signals))
	cells := make(map[int]arch.Cell, len(signals))

	for range signals {
		bestCost := cost.Cost(math.Inf(1))
		bestOK := false
		bestIdx := -1
		var bestPat arch.CellPat
		var bestFrom arch.Cell
		var bestMemo copygraph.PathMemo
		var bestHasMemo bool

		for idx, sig := range signals {
			if placed[idx] {
				continue
			}
			targetInverted := inputInverted.Contains(idx)
			for _, targetPat := range input[idx] {
				for _, sc := range allCellsWith(sp, sig) {
					requiresInversion := sc.inverted != targetInverted
					if _, used := usedCells[sc.cell]; used {
						if !requiresInversion && targetPat.Matches(sc.cell) {
							continue
						}
					}
					if !requiresInversion && targetPat.Matches(sc.cell) {
						if !bestOK || cost.Cost(0).Less(bestCost) {
							bestCost, bestOK = 0, true
							bestIdx, bestPat, bestFrom, bestHasMemo = idx, targetPat, sc.cell, false
						}
						continue
					}
					c, memo, ok := copygraph.CopyCostWithPath(p.Graph, arch.ExactPat(sc.cell), targetPat, requiresInversion, usedCells)
					if ok && (!bestOK || c.Less(bestCost)) {
						bestCost, bestOK = c, true
						bestIdx, bestPat, bestFrom = idx, targetPat, sc.cell
						bestMemo, bestHasMemo = memo, true
					}
				}
			}
		}
		if !bestOK {
			return nil, false
		}
		placed[bestIdx] = true

		var target arch.Cell
		if bestHasMemo {
			var ok bool
			target, ok = performCopy(p, sp, bestMemo, bestFrom, bestPat, usedCells)
			if !ok {
				return nil, false
			}
		} else {
			target = bestFrom
		}
		usedCells[target] = struct{}{}
		cells[bestIdx] = target
	}

	out := make([]arch.Cell, len(signals))
	for i := range signals {
		out[i] = cells[i]
	}
	return out, true
}

// spillNecessary evicts any write-destination cell that still holds a
// signal this instruction will overwrite, unless that signal is about to
// be consumed for the last time or is also available elsewhere.
func spillNecessary(p *Params, sp *progstate.StateSavepoint, in arch.Instruction) {
	cells := in.WriteCells()
	cellSet := make(map[arch.Cell]struct{}, len(cells))
	for _, c := range cells {
		cellSet[c] = struct{}{}
	}
	for _, cell := range cells {
		sig, ok := sp.Cell(cell)
		if !ok {
			continue
		}
		if isLastUse(p, sp, sig.Node) {
			continue
		}
		availableElsewhere := false
		for _, inv := range [2]bool{true, false} {
			for _, other := range sp.CellsWith(network.Signal{Node: sig.Node, Inverted: inv}) {
				if _, inSet := cellSet[other]; !inSet {
					availableElsewhere = true
				}
			}
		}
		if !availableElsewhere {
			forceSpill(p, sp, cell, cellSet)
		}
	}
}

func applyState(p *Params, sp *progstate.StateSavepoint, computed network.NodeID, in arch.Instruction) {
	inverted := in.Type.Function.Inverted
	for _, op := range in.OverriddenInputOperands() {
		sig := network.Signal{Node: computed, Inverted: op.Inverted != inverted}
		sp.Set(op.Cell, &sig)
	}
	for _, out := range in.Outputs {
		sig := network.Signal{Node: computed, Inverted: out.Inverted != inverted}
		sp.Set(out.Cell, &sig)
	}
}

// performOperation places inputs and outputs for one candidate/instruction
// pairing against sp, appending the resulting Candidate operation. It
// reports whether placement succeeded; callers are responsible for
// rolling sp back when it did not.
func performOperation(p *Params, sp *progstate.StateSavepoint, candidateID network.NodeID, instr arch.InstructionType, tuple arch.TuplePat[arch.CellPat], signals []network.Signal) bool {
	usedCells := make(map[arch.Cell]struct{})
	input := readOperands(instr, tuple)

	inputCells, ok := placeSignals(p, sp, input, instr.InputInverted, signals, usedCells)
	if !ok {
		return false
	}

	result := arch.Instruction{Type: instr, Inputs: inputCells}

	if !p.DisjunctInputOutput {
		usedCells = make(map[arch.Cell]struct{})
	}

	minOutputs := 1
	if !instr.InputOverride.IsNone() {
		minOutputs = 0
	}

	var chosen *arch.TuplesDef[arch.OperandPat]
	bestArity := math.MaxInt32
	for i := range instr.Outputs.Defs {
		def := instr.Outputs.Defs[i]
		arity, fixed := def.Arity()
		if !fixed {
			arity = minOutputs
		}
		if arity < minOutputs {
			continue
		}
		if arity < bestArity {
			bestArity = arity
			chosen = &instr.Outputs.Defs[i]
		}
	}
	if chosen == nil {
		return false
	}

	var outputs []arch.Operand
	switch chosen.Kind {
	case arch.KindNary:
		for i := 0; i < minOutputs; i++ {
			var placedOp arch.Operand
			found := false
			for _, pat := range chosen.Nary {
				c, ok := findPreferredFreeCellForPat(sp, pat.Cell, usedCells)
				if !ok {
					continue
				}
				placedOp = arch.Operand{Cell: c, Inverted: pat.Inverted}
				found = true
				break
			}
			if !found {
				return false
			}
			usedCells[placedOp.Cell] = struct{}{}
			outputs = append(outputs, placedOp)
		}
	default:
		var selected arch.TuplePat[arch.OperandPat]
		best := -1
		for _, t := range chosen.Tuples {
			count := 0
			for _, pats := range t {
				if hasFreeCellForOperandPats(sp, pats) {
					count++
				}
			}
			if count > best {
				best = count
				selected = t
			}
		}
		if selected == nil {
			return false
		}
		for _, pats := range selected {
			var placedOp arch.Operand
			found := false
			for _, pat := range pats {
				c, ok := findPreferredFreeCellForPat(sp, pat.Cell, usedCells)
				if !ok {
					continue
				}
				placedOp = arch.Operand{Cell: c, Inverted: pat.Inverted}
				found = true
				break
			}
			if !found {
				return false
			}
			usedCells[placedOp.Cell] = struct{}{}
			outputs = append(outputs, placedOp)
		}
	}
	result.Outputs = outputs

	spillNecessary(p, sp, result)
	applyState(p, sp, candidateID, result)
	sp.AppendInstruction(progstate.NewCandidateOperation(result, candidateID))
	return true
}

func hasFreeCellForOperandPats(sp *progstate.StateSavepoint, pats arch.Pats[arch.OperandPat]) bool {
	for _, pat := range pats {
		if hasFreeCellForCellPat(sp, pat.Cell) {
			return true
		}
	}
	return false
}
