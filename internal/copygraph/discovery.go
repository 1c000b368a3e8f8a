package copygraph

import (
	"lime/internal/arch"
	"lime/internal/cost"
)

// FindCopyInstructions discovers every edge an instruction type can
// realize by driving one operand to the identity of another — either by
// overriding that operand in place, or by routing the result to an
// output — and records each as an edge in g.
func FindCopyInstructions(a arch.Architecture, c cost.OperationCost, g *CopyGraph) {
	for _, typ := range a.Instructions() {
		for _, inverted := range []bool{true, false} {
			findUsingInputOverride(c, g, typ, inverted)
			findUsingOutput(c, g, typ, inverted)
		}
	}
}

// findUsingInputOverride looks for ways to make an input-overriding
// instruction type realize the (possibly inverted) identity of one of
// its other operands, writing the result back into the overridden slot.
func findUsingInputOverride(c cost.OperationCost, g *CopyGraph, typ arch.InstructionType, inverted bool) {
	if typ.InputOverride.Kind != arch.IndexOne {
		return
	}
	toIdx := typ.InputOverride.At
	instructionCost := c.InstructionCost(typ.ID)

	for _, tuple := range typ.Input.Combinations() {
		for _, combination := range expandCombination(tuple) {
			to := combination[toIdx]
			for fromIdx, from := range combination {
				if fromIdx == toIdx {
					continue
				}
				for _, m := range mapConstants(typ.Function, identityHint(inverted), typ.InputInverted, combination, typ.InputRange, &fromIdx, &toIdx) {
					toHint, ok := m.eval.HintID(inverted)
					if !ok {
						continue
					}

					eval := m.eval.Clone()
					var templates [][]TemplateInstruction
					if toHint.Kind == arch.HintRequire {
						toValue := toHint.Value
						eval.Add(toValue)
						constType, okType := typeOf(from)
						if !okType {
							continue
						}
						constCell := arch.ExactPat(arch.ConstantCell(constType, toValue))
						toInverted := typ.InputInverted.Contains(toIdx)
						for _, match := range g.AllOptimalEdgesMatching(constCell, to, toInverted) {
							templates = append(templates, match.Edge.InstantiatePartial(arch.ConstantCell(constType, toValue)))
						}
						if len(templates) == 0 {
							continue
						}
					} else {
						eval.AddUnknown()
						templates = [][]TemplateInstruction{nil}
					}

					gotInverted, idOK := eval.IDInverted()
					if !idOK || gotInverted != inverted {
						continue
					}

					inputs := reconstruct(m.cells, len(combination), map[int]TemplateCell{
						fromIdx: FromVarCell(),
						toIdx:   ToVarCell(),
					})
					instr := TemplateInstruction{Type: typ, Inputs: inputs}

					edgeInverted := typ.InputInverted.Contains(toIdx) != typ.InputInverted.Contains(fromIdx) != inverted
					computesFromInverted := inverted != typ.InputInverted.Contains(fromIdx)

					for _, prefix := range templates {
						total := instructionCost
						for _, pi := range prefix {
							total = total.Add(c.InstructionCost(pi.Type.ID))
						}
						fullTemplate := append(append([]TemplateInstruction{}, prefix...), instr)
						edge := Edge{
							Inverted:             edgeInverted,
							ComputesFromInverted: computesFromInverted,
							Template:             fullTemplate,
							Cost:                 total,
						}
						g.ConsiderEdge(from, to, edge)
					}
				}
			}
		}
	}
}

// findUsingOutput looks for ways to make an instruction type realize the
// (possibly inverted) identity of one of its operands, routed to an
// independent output slot rather than an overridden input.
func findUsingOutput(c cost.OperationCost, g *CopyGraph, typ arch.InstructionType, inverted bool) {
	if !typ.InputOverride.IsNone() {
		return
	}
	instructionCost := c.InstructionCost(typ.ID)

	for _, tuple := range typ.Input.Combinations() {
		for _, combination := range expandCombination(tuple) {
			for fromIdx, from := range combination {
				for _, m := range mapConstants(typ.Function, identityHint(inverted), typ.InputInverted, combination, typ.InputRange, &fromIdx, nil) {
					gotInverted, ok := m.eval.IDInverted()
					if !ok || gotInverted != inverted {
						continue
					}
					inputs := reconstruct(m.cells, len(combination), map[int]TemplateCell{fromIdx: FromVarCell()})
					for _, out := range typ.Outputs.LengthOnePatterns() {
						instr := TemplateInstruction{
							Type:    typ,
							Inputs:  inputs,
							Outputs: []TemplateOperand{{Cell: ToVarCell(), Inverted: out.Inverted}},
						}
						edgeInverted := inverted != out.Inverted != typ.InputInverted.Contains(fromIdx)
						computesFromInverted := inverted != typ.InputInverted.Contains(fromIdx)
						edge := Edge{
							Inverted:             edgeInverted,
							ComputesFromInverted: computesFromInverted,
							Template:             []TemplateInstruction{instr},
							Cost:                 instructionCost,
						}
						g.ConsiderEdge(from, out.Cell, edge)
					}
				}
			}
		}
	}
}

func typeOf(p arch.CellPat) (arch.CellType, bool) {
	if p.Type == nil {
		return nil, false
	}
	return p.Type, true
}
