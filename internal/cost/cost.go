// Package cost defines the numeric cost type and the cost-computation
// interfaces shared across the copy-graph builder, the placement engine,
// and the e-graph extractors.
package cost

import "math"

// Cost is the additive cost unit used throughout the compiler: instruction
// counts, cell counts, or a weighted combination, depending on the
// OperationCost implementation in use.
type Cost float64

// Infinite marks an unreachable target (no path, no feasible assignment).
var Infinite = Cost(math.Inf(1))

// IsInfinite reports whether c represents an unreachable cost.
func (c Cost) IsInfinite() bool {
	return math.IsInf(float64(c), 1)
}

// Add returns the sum of two costs, propagating infinities.
func (c Cost) Add(other Cost) Cost {
	return c + other
}

// Less reports whether c is strictly cheaper than other.
func (c Cost) Less(other Cost) bool {
	return c < other
}

// InstructionCost assigns a cost to executing a single architecture
// instruction once.
type InstructionCost interface {
	// InstructionCost returns the cost of emitting one instance of the
	// instruction type with the given id.
	InstructionCost(instructionTypeID int) Cost
}

// OperationCost extends InstructionCost with the cost of an emitted
// Operation, which may batch several concrete instructions together (a
// Copy operation's template, for instance).
type OperationCost interface {
	InstructionCost
	// SpillCost is charged in addition to InstructionCost whenever an
	// operation forces a spill.
	SpillCost() Cost
}

// Uniform is the simplest OperationCost: every instruction costs 1, and
// spills are free (the bookkeeping cost is already captured by the extra
// copy instructions they introduce).
type Uniform struct{}

// InstructionCost implements InstructionCost.
func (Uniform) InstructionCost(int) Cost { return 1 }

// SpillCost implements OperationCost.
func (Uniform) SpillCost() Cost { return 0 }

// CellCount is an OperationCost that ignores instruction identity and is
// used by the "memusage" rewriting strategy (spec.md §6): callers instead
// read the resulting cell count directly off Stats, so this cost model is
// a stand-in that always reports zero, letting the cost-driven extractor's
// machinery run unmodified while num_cells is what actually gets compared.
type CellCount struct{}

// InstructionCost implements InstructionCost.
func (CellCount) InstructionCost(int) Cost { return 0 }

// SpillCost implements OperationCost.
func (CellCount) SpillCost() Cost { return 0 }
