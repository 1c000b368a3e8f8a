// Package placement turns a chosen candidate node and architecture
// instruction type into a concrete Instruction: assigning gate inputs to
// cells (spilling or copying as needed), picking an output tuple, and
// recording the resulting Copy/Candidate operations against a program
// state savepoint (spec.md §4.D's "Placement/step" component).
package placement

import (
	"math"

	"lime/internal/arch"
	"lime/internal/copygraph"
	"lime/internal/cost"
	"lime/internal/network"
	"lime/internal/progstate"
)

// Params bundles the fixed inputs a placement decision is made against:
// the architecture, its copy graph, the network being compiled, the
// cells holding primary inputs, and the cost model.
type Params struct {
	Arch                arch.Architecture
	Graph               *copygraph.CopyGraph
	Net                 network.Network
	InputCells          []arch.Cell
	Cost                cost.OperationCost
	DisjunctInputOutput bool
}

// hungarianMin solves a square minimum-weight assignment problem (the
// Kuhn-Munkres algorithm) and returns, for each row, the column assigned
// to it. Rows/columns are gate-arity sized (2-4 in every architecture the
// corpus models), so the textbook O(n^3) potential method is plenty fast;
// no assignment-problem solver appears anywhere in the example pack.
func hungarianMin(matrix [][]float64) []int {
	n := len(matrix)
	const inf = math.MaxFloat64 / 4

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], inf, -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := matrix[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}
	return rowToCol
}

func costOr(c cost.Cost, ok bool) float64 {
	if !ok || c.IsInfinite() {
		return math.Inf(1)
	}
	return float64(c)
}

type sourceCell struct {
	cell     arch.Cell
	inverted bool
}

// allCellsWith returns every cell currently holding either polarity of
// sig.Node, paired with whether using it as-is yields sig's complement
// (i.e. whether an inverting copy would be required to honor sig as
// written).
func allCellsWith(r progstate.CellStates, sig network.Signal) []sourceCell {
	var out []sourceCell
	for _, inv := range [2]bool{false, true} {
		for _, c := range r.CellsWith(network.Signal{Node: sig.Node, Inverted: inv}) {
			out = append(out, sourceCell{cell: c, inverted: inv != sig.Inverted})
		}
	}
	return out
}

// readOperands returns the slots of tuple that are actually read
// operands, dropping the instruction type's leading passthrough prefix.
func readOperands(instr arch.InstructionType, tuple arch.TuplePat[arch.CellPat]) arch.TuplePat[arch.CellPat] {
	return arch.IndexView(instr.InputRange, tuple)
}

// positionSignals decides which gate input signal feeds which read-operand
// slot, minimizing the combined copy and estimated-spill cost: an
// assignment problem solved with the Hungarian algorithm exactly as
// lime-rs's position_signals does via kuhn_munkres_min.
func positionSignals(p *Params, sp *progstate.StateSavepoint, instr arch.InstructionType, tuple arch.TuplePat[arch.CellPat], gateInputs []network.Signal) ([]network.Signal, bool) {
	input := readOperands(instr, tuple)
	offset := instr.InputRange.StartOffset()
	arity := len(gateInputs)
	if len(input) < arity {
		return nil, false
	}

	spillCost := make([]cost.Cost, arity)
	for i := 0; i < arity; i++ {
		spillCost[i] = estimateSpillCostOperandPats(p, sp, input[i])
	}

	matrix := make([][]float64, arity)
	for i := range matrix {
		matrix[i] = make([]float64, arity)
	}

	for operandIdx := 0; operandIdx < arity; operandIdx++ {
		targetInverted := instr.InputInverted.Contains(offset + operandIdx)
		for signalIdx := 0; signalIdx < arity; signalIdx++ {
			sig := gateInputs[signalIdx]
			hasMatch := false
			best := cost.Cost(math.Inf(1))
			bestOK := false
			for _, targetPat := range input[operandIdx] {
				for _, sc := range allCellsWith(sp, sig) {
					requiresInversion := sc.inverted != targetInverted
					if !requiresInversion && targetPat.Matches(sc.cell) {
						hasMatch = true
						best, bestOK = 0, true
						continue
					}
					if c, ok := copygraph.CopyCost(p.Graph, arch.ExactPat(sc.cell), targetPat, requiresInversion, nil); ok {
						if !bestOK || c.Less(best) {
							best, bestOK = c, true
						}
					}
				}
			}
			val := costOr(best, bestOK)
			if !hasMatch && !hasFreeCellForCellPats(sp, input[operandIdx]) {
				val += float64(spillCost[operandIdx])
			}
			matrix[operandIdx][signalIdx] = val
		}
	}

	for operandIdx := 0; operandIdx < arity; operandIdx++ {
		if !instr.InputOverride.Contains(operandIdx) {
			continue
		}
		for signalIdx := 0; signalIdx < arity; signalIdx++ {
			sig := gateInputs[signalIdx]
			if matrix[operandIdx][signalIdx] != 0 {
				continue
			}
			holders := len(sp.CellsWith(network.Signal{Node: sig.Node, Inverted: false})) +
				len(sp.CellsWith(network.Signal{Node: sig.Node, Inverted: true}))
			if holders <= 1 && !isLastUse(p, sp, sig.Node) {
				matrix[operandIdx][signalIdx] += float64(spillCost[operandIdx])
			}
		}
	}

	for i := 0; i < arity; i++ {
		rowFeasible, colFeasible := false, false
		for j := 0; j < arity; j++ {
			if !math.IsInf(matrix[i][j], 1) {
				rowFeasible = true
			}
			if !math.IsInf(matrix[j][i], 1) {
				colFeasible = true
			}
		}
		if !rowFeasible || !colFeasible {
			return nil, false
		}
	}

	operandToSignal := hungarianMin(matrix)
	signals := make([]network.Signal, arity)
	for operandIdx, signalIdx := range operandToSignal {
		signals[operandIdx] = gateInputs[signalIdx]
	}
	return signals, true
}

// isLastUse reports whether consuming id's signal one more time would
// exhaust every remaining consumer (spec.md §4.C).
func isLastUse(p *Params, sp *progstate.StateSavepoint, id network.NodeID) bool {
	uses := sp.Uses().Get(id)
	total := p.Net.FanoutCount(id)
	if _, isOutput := sp.OutputIDs()[id]; isOutput {
		total++
	}
	return uses+1 >= total
}
