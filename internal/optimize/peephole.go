// Package optimize folds redundant trailing Copy operations into the
// output tuple of the instruction that produced their source signal,
// eliding the Copy entirely where the architecture's output patterns
// allow it (spec.md §4.F).
package optimize

import (
	"fmt"

	"golang.org/x/exp/slices"

	"lime/internal/arch"
	"lime/internal/progstate"
)

// normalizeConstant rewrites a constant(true) cell/inversion pair to the
// equivalent constant(false) pair, so the two constant cells of a type
// are treated as a single write target throughout the fold.
func normalizeConstant(c arch.Cell, inverted bool) (arch.Cell, bool) {
	if v, ok := c.ConstantValue(); ok && v {
		return arch.ConstantCell(c.Type, false), !inverted
	}
	return c, inverted
}

// OptimizeOutputs folds trailing Copy operations into an earlier
// instruction's own output tuple wherever the architecture's output-tuple
// definitions admit a wider combination, removing the folded Copy
// operations from the program. Ground truth:
// compilation::optimization::optimize_outputs.
func OptimizeOutputs(program *progstate.Program) {
	ops := append([]progstate.Operation(nil), program.Ops()...)

	sourceOpI := 0
	for sourceOpI < len(ops) {
		sourceOp := ops[sourceOpI]
		sourceInstrs := sourceOp.Instructions
		for sourceInstrI := 0; sourceInstrI < len(sourceInstrs); sourceInstrI++ {
			instr := sourceInstrs[sourceInstrI]
			outputCells := instr.WriteCellInvertedMap()

			if sourceInstrI == len(sourceInstrs)-1 && sourceOp.Kind == progstate.OpCopy {
				from, inverted := normalizeConstant(sourceOp.From, sourceOp.ComputesFromInverted)
				if _, exists := outputCells[from]; !exists {
					outputCells[from] = inverted
				}
			}

			rwBetween := make(map[arch.Cell]struct{})
			for k := sourceInstrI + 1; k < len(sourceInstrs); k++ {
				rest := sourceInstrs[k]
				for _, c := range rest.ReadCells() {
					rwBetween[c] = struct{}{}
				}
				for _, c := range rest.WriteCells() {
					delete(outputCells, c)
				}
			}

			var elided []elision

			for elidedOpI := sourceOpI + 1; elidedOpI < len(ops); elidedOpI++ {
				if len(outputCells) == 0 {
					break
				}
				op := ops[elidedOpI]
				switch op.Kind {
				case progstate.OpCopy:
					from, inverted := normalizeConstant(op.From, op.Inverted)
					if invertedOut, ok := outputCells[from]; ok {
						if _, between := rwBetween[op.To]; !between {
							elided = append(elided, elision{
								opIdx:   elidedOpI,
								operand: arch.Operand{Cell: op.To, Inverted: inverted != invertedOut},
							})
						}
						rwBetween[from] = struct{}{}
						rwBetween[op.To] = struct{}{}
						outputCells[op.To] = inverted != invertedOut
					} else {
						rwBetween[from] = struct{}{}
						rwBetween[op.To] = struct{}{}
						delete(outputCells, op.To)
					}
				default:
					for _, in := range op.Instructions {
						for _, c := range in.ReadCells() {
							rwBetween[c] = struct{}{}
						}
						for _, c := range in.WriteCells() {
							rwBetween[c] = struct{}{}
							delete(outputCells, c)
						}
					}
				}
			}

			if len(elided) == 0 {
				continue
			}

			output, usedOpIdxs, ok := chooseOutputTuple(instr, elided)
			if !ok {
				continue
			}

			sourceInstrs[sourceInstrI].Outputs = output
			slices.SortFunc(usedOpIdxs, func(a, b int) int { return b - a })
			for _, idx := range usedOpIdxs {
				ops = append(ops[:idx], ops[idx+1:]...)
			}

			if sourceOp.Kind == progstate.OpCopy {
				comment := fmt.Sprintf("optimized copy from %v to %v (inverted: %v)", sourceOp.From, sourceOp.To, sourceOp.Inverted)
				ops[sourceOpI] = progstate.NewOtherOperation(sourceInstrs, comment)
				sourceOp = ops[sourceOpI]
				sourceInstrs = sourceOp.Instructions
			}
		}
		sourceOpI++
	}

	program.ReplaceOps(ops)
}

type elision = struct {
	opIdx   int
	operand arch.Operand
}

// chooseOutputTuple finds, across every disjunct output-tuple definition
// legal for instr, the widest concrete tuple that can simultaneously host
// instr's existing outputs and as many pending elisions as possible.
// Exact-cell slots are assigned before type-wildcard slots, matching
// Rust's "assign cells first, then types" ordering. Nary output
// definitions are not supported, mirroring the ground truth's
// unimplemented!() there.
func chooseOutputTuple(instr arch.Instruction, elisions []elision) ([]arch.Operand, []int, bool) {
	var bestOutput []arch.Operand
	var bestUsed []int
	bestLen := -1

	for _, def := range instr.Type.Outputs.Defs {
		if def.Kind != arch.KindTuples {
			continue
		}
		for _, tuplePat := range def.Tuples {
			for _, combo := range arch.ExpandTuple(tuplePat) {
				output, used, ok := fitCombo(combo, instr.Outputs, elisions)
				if !ok {
					continue
				}
				if len(output) > bestLen {
					bestLen = len(output)
					bestOutput = output
					bestUsed = used
				}
			}
		}
	}
	if bestOutput == nil {
		return nil, nil, false
	}
	return bestOutput, bestUsed, true
}

// fitCombo attempts to fill every slot of combo with either one of instr's
// existing outputs or one of the pending elisions, failing if any existing
// output has no home or any slot is left unfilled.
func fitCombo(combo []arch.OperandPat, existing []arch.Operand, elisions []elision) ([]arch.Operand, []int, bool) {
	order := make([]int, len(combo))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		aExact := !combo[a].Cell.Any
		bExact := !combo[b].Cell.Any
		if aExact == bExact {
			return 0
		}
		if aExact {
			return -1
		}
		return 1
	})
	remaining := append([]int(nil), order...)

	assigned := make(map[int]arch.Operand, len(combo))
	removeAt := func(slot int) {
		for i, s := range remaining {
			if s == slot {
				remaining = append(remaining[:i], remaining[i+1:]...)
				return
			}
		}
	}

	for _, prev := range existing {
		found := -1
		for _, slot := range remaining {
			if combo[slot].Matches(prev) {
				found = slot
				break
			}
		}
		if found < 0 {
			return nil, nil, false
		}
		assigned[found] = prev
		removeAt(found)
	}

	var used []int
	for _, e := range elisions {
		found := -1
		for _, slot := range remaining {
			if combo[slot].Matches(e.operand) {
				found = slot
				break
			}
		}
		if found < 0 {
			continue
		}
		assigned[found] = e.operand
		used = append(used, e.opIdx)
		removeAt(found)
	}

	output := make([]arch.Operand, len(combo))
	for i := range combo {
		op, ok := assigned[i]
		if !ok {
			return nil, nil, false
		}
		output[i] = op
	}
	return output, used, true
}
