package arch

import "golang.org/x/exp/slices"

// Architecture is an ordered, contiguously id-numbered set of instruction
// types plus the sorted-unique set of cell types any of them reference.
type Architecture struct {
	instructions []InstructionType
	types        []CellType
}

// NewArchitecture asserts that the instruction types are numbered 0..n and
// derives the sorted-unique cell-type vector.
func NewArchitecture(instructions []InstructionType) Architecture {
	for i, t := range instructions {
		if t.ID != i {
			panic("arch: instruction types must be contiguously numbered starting at 0")
		}
	}
	seen := make(map[CellType]struct{})
	var types []CellType
	add := func(t CellType) {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			types = append(types, t)
		}
	}
	for _, instr := range instructions {
		for _, tuple := range instr.Input.Combinations() {
			for _, slot := range tuple {
				for _, p := range slot {
					add(p.Type)
				}
			}
		}
		for _, def := range instr.Outputs.Defs {
			for _, tuple := range def.Combinations() {
				for _, slot := range tuple {
					for _, p := range slot {
						add(p.Cell.Type)
					}
				}
			}
		}
	}
	slices.SortFunc(types, func(a, b CellType) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return Architecture{instructions: instructions, types: types}
}

// Instructions returns the ordered instruction-type vector.
func (a Architecture) Instructions() []InstructionType { return a.instructions }

// Types returns the sorted-unique set of cell types referenced anywhere in
// the architecture.
func (a Architecture) Types() []CellType { return a.types }

// Instruction returns the instruction type with the given id.
func (a Architecture) Instruction(id int) InstructionType { return a.instructions[id] }

// ConstantType returns the architecture's designated CONSTANT cell type,
// whose two cells hold the literals false (index 0) and true (index 1).
func (a Architecture) ConstantType() (CellType, bool) {
	for _, t := range a.types {
		if t.IsConstant() {
			return t, true
		}
	}
	return nil, false
}

// Gates iterates all instruction types that compute a genuine gate
// function, ignoring unary/identity instruction types of arity 1 (spec.md
// §4.A).
func (a Architecture) Gates() []InstructionType {
	var out []InstructionType
	for _, t := range a.instructions {
		if arity, fixed := t.Arity(); fixed && arity == 1 {
			continue
		}
		out = append(out, t)
	}
	return out
}
