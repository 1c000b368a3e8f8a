package search

import (
	"lime/internal/cost"
	"lime/internal/progstate"
)

// opsCost sums the instruction cost of every instruction across ops, plus
// a SpillCost charge for every operation recorded as a spill. Ground
// truth: cost::OperationCost::program_cost, extended with the spill
// surcharge OperationCost layers on top of InstructionCost.
func opsCost(oc cost.OperationCost, ops []progstate.Operation) cost.Cost {
	var total cost.Cost
	for _, op := range ops {
		for _, instr := range op.Instructions {
			total = total.Add(oc.InstructionCost(instr.Type.ID))
		}
		if op.Kind == progstate.OpCopy && op.Spill {
			total = total.Add(oc.SpillCost())
		}
	}
	return total
}

// deltaCost sums the cost of every operation a state delta would add.
func deltaCost(oc cost.OperationCost, delta *progstate.StateDelta) cost.Cost {
	return opsCost(oc, delta.ProgramDelta().Ops())
}

// ProgramCost sums the cost of every operation already committed to
// program. Lives in this package (rather than cost, which program_cost's
// Rust counterpart is a method of) to avoid a cost<->progstate import
// cycle: cost defines the OperationCost interface progstate operations
// are costed against, so the summation itself has to live on one side or
// the other.
func ProgramCost(oc cost.OperationCost, program *progstate.Program) cost.Cost {
	return opsCost(oc, program.Ops())
}
