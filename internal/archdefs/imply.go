package archdefs

import "lime/internal/arch"

// implyRow is the IMPLY family's memristor row cell type.
var implyRow = cellType{name: "M", rank: 1}

// ImplyRow returns the i-th memristor row cell.
func ImplyRow(i uint32) arch.Cell { return arch.NewCell(implyRow, i) }

// IMPLY returns the classic material-implication architecture: FALSE
// resets a row to 0 in place, and IMP computes material implication
// p -> q = !p OR q, writing the result back into q. IMP is modeled as an
// AND gate over (p, !q) with an inverted overall output — De Morgan's
// !p OR q = !(p AND !q) — matching how IMPLY-family devices are actually
// realized (a single drive/sense step over a memristor pair) and letting
// this port's generic AND-shaped discovery and placement machinery handle
// it without a dedicated Or gate kind. With q initialized to 0 by FALSE,
// IMP(p, q) leaves q holding !p; a second IMP(s, q) leaves q holding
// !s OR !p = NAND(p, s); AND(a, b) is then the program's output read
// at q's complement — so and(a, b) compiles using only FALSE and IMP.
func IMPLY() arch.Architecture {
	falseOp := arch.Pats[arch.CellPat]{arch.TypePat(implyRow)}
	falseType := arch.InstructionType{
		ID:   0,
		Name: "FALSE",
		Input: arch.Tuples(arch.TuplePats[arch.CellPat]{
			arch.TuplePat[arch.CellPat]{falseOp},
		}),
		InputOverride: arch.OneIndex(0),
		InputInverted: arch.NoIndices(),
		Function:      arch.Function{Gate: arch.Const(false)},
	}

	p := arch.Pats[arch.CellPat]{arch.TypePat(implyRow), arch.TypePat(constantType)}
	q := arch.Pats[arch.CellPat]{arch.TypePat(implyRow)}
	imp := arch.InstructionType{
		ID:   1,
		Name: "IMP",
		Input: arch.Tuples(arch.TuplePats[arch.CellPat]{
			arch.TuplePat[arch.CellPat]{p, q},
		}),
		InputOverride: arch.OneIndex(1),
		InputInverted: arch.OneIndex(1),
		Function:      arch.Function{Gate: arch.And(), Inverted: true},
	}
	return arch.NewArchitecture([]arch.InstructionType{falseType, imp})
}
