package archdefs

import "lime/internal/arch"

// felixRow is FELIX's memristor row cell type.
var felixRow = cellType{name: "F", rank: 1}

// FelixRow returns the i-th memristor row cell.
func FelixRow(i uint32) arch.Cell { return arch.NewCell(felixRow, i) }

// FELIX returns an architecture built around XOR2, a non-destructive
// binary xor with its own dedicated output row — the primitive published
// FELIX designs add on top of an IMPLY-style NAND base specifically to
// give parity a one-step realization instead of a multi-step NAND
// expansion. A three-input xor(a,b,c) network node then compiles as two
// XOR2 instructions in either associativity order (xor(xor(a,b),c) or
// xor(a,xor(b,c))).
func FELIX() arch.Architecture {
	operand := arch.Pats[arch.CellPat]{arch.TypePat(felixRow), arch.TypePat(constantType)}
	out := arch.Pats[arch.OperandPat]{
		{Cell: arch.TypePat(felixRow), Inverted: false},
		{Cell: arch.TypePat(felixRow), Inverted: true},
	}
	xor2 := arch.InstructionType{
		ID:   0,
		Name: "XOR2",
		Input: arch.Tuples(arch.TuplePats[arch.CellPat]{
			arch.TuplePat[arch.CellPat]{operand, operand},
		}),
		InputOverride: arch.NoIndices(),
		InputInverted: arch.NoIndices(),
		Function:      arch.Function{Gate: arch.Xor()},
		Outputs: arch.Outputs{Defs: []arch.TuplesDef[arch.OperandPat]{
			arch.Tuples(arch.TuplePats[arch.OperandPat]{
				arch.TuplePat[arch.OperandPat]{out},
			}),
		}},
	}
	return arch.NewArchitecture([]arch.InstructionType{xor2})
}
