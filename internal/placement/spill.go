package placement

import (
	"math"

	"lime/internal/arch"
	"lime/internal/copygraph"
	"lime/internal/cost"
	"lime/internal/network"
	"lime/internal/progstate"
)

// spillIfNecessary frees fromCell for reuse: if its signal is also held
// in another cell already, fromCell is simply cleared; otherwise
// forceSpill relocates the signal to a free cell first so nothing is
// lost. Ground truth: copy::spilling::spill_if_necessary.
func spillIfNecessary(p *Params, sp *progstate.StateSavepoint, fromCell arch.Cell) {
	sig, ok := sp.Cell(fromCell)
	if !ok {
		return
	}
	holders := 0
	for _, inv := range [2]bool{true, false} {
		holders += len(sp.CellsWith(network.Signal{Node: sig.Node, Inverted: inv}))
	}
	if holders > 1 {
		sp.Set(fromCell, nil)
		return
	}
	forceSpill(p, sp, fromCell, nil)
}

// forceSpill relocates the signal held in fromCell to the cheapest
// directly reachable free cell not in not, records the relocation as a
// spill Copy operation, then clears fromCell. Ground truth:
// copy::spilling::force_spill.
func forceSpill(p *Params, sp *progstate.StateSavepoint, fromCell arch.Cell, not map[arch.Cell]struct{}) {
	sig, ok := sp.Cell(fromCell)
	if !ok {
		return
	}

	var bestEdge *copygraph.Edge
	var bestTo arch.Cell
	bestCost := cost.Cost(math.Inf(1))
	found := false

	for _, m := range copygraph.DirectEdgesFromPat(p.Graph, arch.ExactPat(fromCell)) {
		var to arch.Cell
		if m.To.Any {
			idx, ok := firstFreeIndexNotIn(sp, m.To.Type, not)
			if !ok {
				continue
			}
			to = arch.Cell{Type: m.To.Type, Index: idx}
		} else {
			c := m.To.Cell()
			if _, excluded := not[c]; excluded {
				continue
			}
			if !cellIsFree(sp, c) {
				continue
			}
			to = c
		}
		if !found || m.Edge.Cost.Less(bestCost) {
			bestEdge, bestTo, bestCost, found = m.Edge, to, m.Edge.Cost, true
		}
	}
	if !found {
		panic("placement: force spill found no relocation target")
	}

	instrs := bestEdge.Instantiate(fromCell, bestTo)
	newSig := network.Signal{Node: sig.Node, Inverted: sig.Inverted != bestEdge.Inverted}
	sp.Set(bestTo, &newSig)
	op := progstate.NewCopyOperation(fromCell, bestTo, bestEdge.Inverted, instrs, true, bestEdge.ComputesFromInverted)
	sp.Set(fromCell, nil)
	sp.AppendInstruction(op)
}

func firstFreeIndexNotIn(sp *progstate.StateSavepoint, typ arch.CellType, not map[arch.Cell]struct{}) (uint32, bool) {
	for _, idx := range sp.FreeIndices(typ, freeCellBound(sp, typ)) {
		c := arch.Cell{Type: typ, Index: idx}
		if _, excluded := not[c]; !excluded {
			return idx, true
		}
	}
	return 0, false
}

// estimateSpillCostCellPat estimates the cheapest one-hop relocation cost
// out of a cell matching pat. Constant cells are never spilled (nothing
// ever writes over them), so they report no estimate at all. Ground
// truth: copy::spilling::estimate_spill_cost_cell_pat.
func estimateSpillCostCellPat(p *Params, pat arch.CellPat) (cost.Cost, bool) {
	if pat.Type.IsConstant() {
		return 0, false
	}
	best := cost.Cost(math.Inf(1))
	found := false
	for _, m := range copygraph.DirectEdgesFromPat(p.Graph, pat) {
		if !found || m.Edge.Cost.Less(best) {
			best, found = m.Edge.Cost, true
		}
	}
	return best, found
}

// estimateSpillCostOperandPats averages the per-pattern spill-cost
// estimate across a disjunction of candidate operand patterns: the cost
// positionSignals charges an assignment that would force a spill to make
// room for a destination cell. Ground truth:
// copy::spilling::estimate_spill_cost_operand_pats.
func estimateSpillCostOperandPats(p *Params, sp *progstate.StateSavepoint, pats arch.Pats[arch.CellPat]) cost.Cost {
	_ = sp
	var sum cost.Cost
	var n int
	for _, pat := range pats {
		if c, ok := estimateSpillCostCellPat(p, pat); ok {
			sum = sum.Add(c)
			n++
		}
	}
	if n == 0 {
		return cost.Cost(math.Inf(1))
	}
	return cost.Cost(float64(sum) / float64(n))
}
