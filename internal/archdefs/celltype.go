// Package archdefs supplies concrete arch.Architecture fixtures for four
// published Logic-in-Memory families (Ambit, PLiM, IMPLY, FELIX), standing
// in for the macro-generated architecture tables spec.md's §1 leaves to an
// external front-end. None of these is ported from
// _examples/original_source/rs/src/ambit, whose Architecture/eggmock
// abstraction models a narrower, Ambit-specific compiler that does not fit
// the generic arch.InstructionType system the rest of this module targets
// (see DESIGN.md); each fixture is instead built directly against that
// system from the architecture's published operating principle and the
// literal instruction names spec.md §8's end-to-end scenarios name.
package archdefs

import "lime/internal/arch"

// cellType is a small, comparable arch.CellType shared by every fixture:
// a display name, a total-order rank (used for Less), and an optional
// bound.
type cellType struct {
	name     string
	rank     int
	constant bool
	count    uint32
	bounded  bool
}

func (t cellType) IsConstant() bool { return t.constant }

func (t cellType) Count() (uint32, bool) { return t.count, t.bounded }

func (t cellType) Name() string { return t.name }

func (t cellType) Less(other arch.CellType) bool {
	if o, ok := other.(cellType); ok {
		return t.rank < o.rank
	}
	return t.name < other.Name()
}

// constantType is the CONSTANT cell type every fixture reuses: two cells,
// index 0 holding false and index 1 holding true.
var constantType = cellType{name: "C", rank: 0, constant: true, count: 2, bounded: true}
