package copygraph

import (
	"lime/internal/arch"
	"lime/internal/cost"
)

func expandCombination(tuple arch.TuplePat[arch.CellPat]) [][]arch.CellPat {
	return arch.ExpandTuple(tuple)
}

func cellsToTemplate(cells []arch.Cell) []TemplateCell {
	out := make([]TemplateCell, len(cells))
	for i, c := range cells {
		out[i] = ConcreteCell(c)
	}
	return out
}

// reconstruct rebuilds the full n-slot template input list from the
// compacted cell assignment mapConstants produced (which omits the
// ignored slots) by re-inserting each ignored slot's placeholder at its
// original position.
func reconstruct(cells []arch.Cell, n int, placeholders map[int]TemplateCell) []TemplateCell {
	out := make([]TemplateCell, n)
	ci := 0
	for i := 0; i < n; i++ {
		if tc, ok := placeholders[i]; ok {
			out[i] = tc
			continue
		}
		out[i] = ConcreteCell(cells[ci])
		ci++
	}
	return out
}

// FindSetConstant discovers every side-effect-free instruction that can
// write a literal true or false into a cell, using only constant-cell
// operands, and records it in the graph as an edge from the CONSTANT
// cell of that value.
func FindSetConstant(a arch.Architecture, c cost.OperationCost, g *CopyGraph) {
	for _, typ := range a.Instructions() {
		for _, value := range []bool{true, false} {
			findForOutput(a, c, g, typ, value)
			findForInputResult(a, c, g, typ, value)
		}
	}
}

func findForOutput(a arch.Architecture, c cost.OperationCost, g *CopyGraph, typ arch.InstructionType, value bool) {
	if !typ.InputOverride.IsNone() {
		return
	}
	for _, tuple := range typ.Input.Combinations() {
		for _, combination := range expandCombination(tuple) {
			for _, m := range mapConstants(typ.Function, valueHint(value), typ.InputInverted, combination, typ.InputRange, nil, nil) {
				resultValue, ok := m.eval.Evaluate()
				if !ok || resultValue != value {
					continue
				}
				for _, to := range typ.Outputs.LengthOnePatterns() {
					instr := TemplateInstruction{
						Type:    typ,
						Inputs:  cellsToTemplate(m.cells),
						Outputs: []TemplateOperand{{Cell: ToVarCell(), Inverted: to.Inverted}},
					}
					addEdges(a, c, g, instr, value != to.Inverted, to.Cell, value)
				}
			}
		}
	}
}

func findForInputResult(a arch.Architecture, c cost.OperationCost, g *CopyGraph, typ arch.InstructionType, value bool) {
	if !typ.Outputs.ContainsNone() {
		return
	}
	if typ.InputOverride.Kind != arch.IndexOne {
		return
	}
	targetIdx := typ.InputOverride.At
	for _, tuple := range typ.Input.Combinations() {
		for _, combination := range expandCombination(tuple) {
			for _, m := range mapConstants(typ.Function, valueHint(value), typ.InputInverted, combination, typ.InputRange, &targetIdx, nil) {
				h, ok := m.eval.Hint(value)
				if !ok || h.Kind != arch.HintAny {
					continue
				}
				eval := m.eval.Clone()
				eval.AddUnknown()
				resultValue, ok := eval.Evaluate()
				if !ok || resultValue != value {
					continue
				}
				to := combination[targetIdx]
				inputs := reconstruct(m.cells, len(combination), map[int]TemplateCell{targetIdx: ToVarCell()})
				instr := TemplateInstruction{Type: typ, Inputs: inputs}
				addEdges(a, c, g, instr, value != typ.InputInverted.Contains(targetIdx), to, value)
			}
		}
	}
}

// addEdges records, for an instruction known to produce value given the
// evaluator-local polarity evalValue, the two copy edges that follow
// from it: one per destination inversion, each sourced from the constant
// cell whose value, after that inversion, equals value.
func addEdges(a arch.Architecture, c cost.OperationCost, g *CopyGraph, instr TemplateInstruction, evalValue bool, to arch.CellPat, value bool) {
	constType, ok := a.ConstantType()
	if !ok {
		return
	}
	instructionCost := c.InstructionCost(instr.Type.ID)
	for _, inverted := range []bool{true, false} {
		fromNode := arch.ExactPat(arch.ConstantCell(constType, value != inverted))
		edge := Edge{
			ComputesFromInverted: value != evalValue != inverted,
			Inverted:             inverted,
			Template:             []TemplateInstruction{instr},
			Cost:                 instructionCost,
		}
		g.ConsiderEdge(fromNode, to, edge)
	}
}
