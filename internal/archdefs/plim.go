package archdefs

import "lime/internal/arch"

// plimRow is PLiM's resistive-memory row cell type.
var plimRow = cellType{name: "M", rank: 1}

// PLiMRow returns the i-th resistive row cell.
func PLiMRow(i uint32) arch.Cell { return arch.NewCell(plimRow, i) }

// PLiM returns an architecture built around RM3 ("row majority of 3"), a
// single three-operand instruction whose first operand is always read
// inverted — modeling a resistive-row sense amplifier wired to read one
// port's complement natively, the way published PLiM designs dedicate an
// inverted read line to one operand rather than spending an extra cycle
// inverting it. RM3 mirrors Ambit's TRA in every other respect: non-
// destructive (input_override none), output to a dedicated row, so a
// network node `maj(!a, b, c)` compiles to exactly one RM3 with a routed
// to the inverted slot.
func PLiM() arch.Architecture {
	operand := arch.Pats[arch.CellPat]{arch.TypePat(plimRow), arch.TypePat(constantType)}
	out := arch.Pats[arch.OperandPat]{
		{Cell: arch.TypePat(plimRow), Inverted: false},
		{Cell: arch.TypePat(plimRow), Inverted: true},
	}
	rm3 := arch.InstructionType{
		ID:   0,
		Name: "RM3",
		Input: arch.Tuples(arch.TuplePats[arch.CellPat]{
			arch.TuplePat[arch.CellPat]{operand, operand, operand},
		}),
		InputOverride: arch.NoIndices(),
		InputInverted: arch.OneIndex(0),
		Function:      arch.Function{Gate: arch.Maj()},
		Outputs: arch.Outputs{Defs: []arch.TuplesDef[arch.OperandPat]{
			arch.Tuples(arch.TuplePats[arch.OperandPat]{
				arch.TuplePat[arch.OperandPat]{out},
			}),
		}},
	}
	return arch.NewArchitecture([]arch.InstructionType{rm3})
}
