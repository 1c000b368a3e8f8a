package archdefs

import "lime/internal/arch"

// ambitRow is Ambit's DRAM row cell type: unbounded, since a fixture
// benchmark never exhausts a real subarray's row count.
var ambitRow = cellType{name: "T", rank: 1}

// AmbitRow returns the i-th DRAM row cell.
func AmbitRow(i uint32) arch.Cell { return arch.NewCell(ambitRow, i) }

// Ambit returns a single-instruction architecture modeling triple-row
// activation (TRA): activating three DRAM rows and sensing their bitwise
// majority, the mechanism real Ambit hardware uses for both majority/AND/OR
// computation and, with two rows pre-seeded to true/false, as an identity
// copy (maj(x,1,0)=x). TRA reads three operands — each either a row or the
// shared CONSTANT cell, so the copy-graph builder can discover identity
// edges, including copies out of the CONSTANT cells, that seed fresh rows
// (no separate set-constant edges are found for TRA: with all three
// operand slots free, the constant-assignment search returns no
// combinations) — and writes its
// result to a separate, dedicated output row: input_override is
// deliberately None rather than All, since this port's copy-graph
// discovery (ground truth lime-rs:crates/generic/src/copy_graph/discovery)
// only implements edge synthesis for None/Index(i) overrides, and a
// majority gate whose destination slot also participates as a live
// read operand cannot realize an unconditional identity copy (its result
// always depends on the destination's prior value) — so real Ambit's
// "the result lands in all three rows" behavior is narrowed here to "the
// result lands in one dedicated row", which is all the compiled program's
// observable semantics need.
func Ambit() arch.Architecture {
	operand := arch.Pats[arch.CellPat]{arch.TypePat(ambitRow), arch.TypePat(constantType)}
	out := arch.Pats[arch.OperandPat]{
		{Cell: arch.TypePat(ambitRow), Inverted: false},
		{Cell: arch.TypePat(ambitRow), Inverted: true},
	}
	tra := arch.InstructionType{
		ID:   0,
		Name: "TRA",
		Input: arch.Tuples(arch.TuplePats[arch.CellPat]{
			arch.TuplePat[arch.CellPat]{operand, operand, operand},
		}),
		InputOverride: arch.NoIndices(),
		InputInverted: arch.NoIndices(),
		Function:      arch.Function{Gate: arch.Maj()},
		Outputs: arch.Outputs{Defs: []arch.TuplesDef[arch.OperandPat]{
			arch.Tuples(arch.TuplePats[arch.OperandPat]{
				arch.TuplePat[arch.OperandPat]{out},
			}),
		}},
	}
	return arch.NewArchitecture([]arch.InstructionType{tra})
}
