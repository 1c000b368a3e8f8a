package arch

// GateKind enumerates the Boolean functions an instruction type can
// compute.
type GateKind int

const (
	GateAnd GateKind = iota
	GateMaj
	GateXor
	GateConstant
)

// Gate is a tagged gate function: And/Maj/Xor take no extra data;
// Constant carries the literal value it always produces.
type Gate struct {
	Kind          GateKind
	ConstantValue bool
}

func And() Gate  { return Gate{Kind: GateAnd} }
func Maj() Gate  { return Gate{Kind: GateMaj} }
func Xor() Gate  { return Gate{Kind: GateXor} }
func Const(v bool) Gate { return Gate{Kind: GateConstant, ConstantValue: v} }

// Function pairs a gate with a single output-inversion flag: the
// instruction's natural result is inverted before being written whenever
// Inverted is true.
type Function struct {
	Gate     Gate
	Inverted bool
}

// IndexKind distinguishes the three InputIndices shapes: none of the
// inputs, all of them, or exactly one numbered input.
type IndexKind int

const (
	IndexNone IndexKind = iota
	IndexAll
	IndexOne
)

// InputIndices selects a subset of an instruction's input slots — used for
// both input_override (which inputs are also written) and input_inverted
// (which input operands are read as negated).
type InputIndices struct {
	Kind IndexKind
	At   int
}

func NoIndices() InputIndices        { return InputIndices{Kind: IndexNone} }
func AllIndices() InputIndices       { return InputIndices{Kind: IndexAll} }
func OneIndex(i int) InputIndices    { return InputIndices{Kind: IndexOne, At: i} }

// Contains reports whether index i is selected.
func (n InputIndices) Contains(i int) bool {
	switch n.Kind {
	case IndexAll:
		return true
	case IndexOne:
		return n.At == i
	default:
		return false
	}
}

// IsNone reports whether no indices are selected.
func (n InputIndices) IsNone() bool { return n.Kind == IndexNone }

// InputRange marks the leading inputs of an instruction type that are
// passthrough context rather than read operands: Start is the index of the
// first input that is actually read.
type InputRange struct {
	Start int
}

// StartOffset returns the number of leading passthrough inputs.
func (r InputRange) StartOffset() int { return r.Start }

// IndexView returns the sub-slice of a tuple pattern beginning at the
// range's Start, i.e. the slots that are actually read operands.
func IndexView[P any](r InputRange, tuple TuplePat[P]) TuplePat[P] {
	if r.Start >= len(tuple) {
		return nil
	}
	return tuple[r.Start:]
}

// Outputs is a disjunction of output-tuple definitions of OperandPat.
type Outputs struct {
	Defs []TuplesDef[OperandPat]
}

// ContainsNone is true when zero outputs are legal: either the
// disjunction is empty, or it contains a definition whose ContainsNone is
// true.
func (o Outputs) ContainsNone() bool {
	if len(o.Defs) == 0 {
		return true
	}
	for _, d := range o.Defs {
		if d.ContainsNone() {
			return true
		}
	}
	return false
}

// LengthOnePatterns returns every output pattern usable on its own as a
// single-operand output tuple, across every disjunct.
func (o Outputs) LengthOnePatterns() []OperandPat {
	var out []OperandPat
	for _, d := range o.Defs {
		out = append(out, d.LengthOnePatterns()...)
	}
	return out
}

// InstructionType is the architecture-level description of one kind of
// instruction: its input pattern, which inputs are overridden/inverted,
// its passthrough-input range, its gate function, and its legal output
// tuples.
type InstructionType struct {
	ID   int
	Name string

	Input         TuplesDef[CellPat]
	InputOverride InputIndices
	InputInverted InputIndices
	InputRange    InputRange

	Function Function
	Outputs  Outputs
}

// Arity returns the number of read-operand input slots (fixed arity
// input.Arity() minus the passthrough prefix), or (-1, false) for a
// variadic (Nary) instruction type.
func (t InstructionType) Arity() (int, bool) {
	arity, fixed := t.Input.Arity()
	if !fixed {
		return -1, false
	}
	return arity - t.InputRange.Start, true
}

// GateFunction returns the gate kind this instruction computes, used to
// match it against network gate nodes during placement.
func (t InstructionType) GateFunction() GateKind {
	return t.Function.Gate.Kind
}

// Instruction is a concrete, fully-positioned instance of an
// InstructionType: input cells and output operands.
type Instruction struct {
	Type    InstructionType
	Inputs  []Cell
	Outputs []Operand
}

// Validate checks the structural invariants spec.md §3 requires: no
// duplicate input cells, no duplicate output cells, inputs matching the
// type's input pattern, outputs matching at least one output-tuple
// pattern.
func (in Instruction) Validate() bool {
	seen := make(map[Cell]struct{}, len(in.Inputs))
	for _, c := range in.Inputs {
		if _, dup := seen[c]; dup {
			return false
		}
		seen[c] = struct{}{}
	}
	seenOut := make(map[Cell]struct{}, len(in.Outputs))
	for _, o := range in.Outputs {
		if _, dup := seenOut[o.Cell]; dup {
			return false
		}
		seenOut[o.Cell] = struct{}{}
	}
	if !in.matchesInputPattern() {
		return false
	}
	return in.matchesSomeOutputTuple()
}

func (in Instruction) matchesInputPattern() bool {
	for _, tuple := range in.Type.Input.Combinations() {
		if len(tuple) != len(in.Inputs) {
			continue
		}
		ok := true
		for i, slot := range tuple {
			matched := false
			for _, pat := range slot {
				if pat.Matches(in.Inputs[i]) {
					matched = true
					break
				}
			}
			if !matched {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (in Instruction) matchesSomeOutputTuple() bool {
	if len(in.Outputs) == 0 {
		return in.Type.Outputs.ContainsNone()
	}
	for _, def := range in.Type.Outputs.Defs {
		for _, tuple := range def.Combinations() {
			if len(tuple) != len(in.Outputs) {
				continue
			}
			ok := true
			for i, slot := range tuple {
				matched := false
				for _, pat := range slot {
					if pat.Matches(in.Outputs[i]) {
						matched = true
						break
					}
				}
				if !matched {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
	}
	return false
}

// WriteCellInvertedMap returns every cell this instruction writes, mapped
// to whether the value written there is inverted relative to the
// instruction's raw signal, with constant(true) writes normalized to
// constant(false) at inverted polarity (spec.md §4.F step 1).
func (in Instruction) WriteCellInvertedMap() map[Cell]bool {
	out := make(map[Cell]bool)
	for _, op := range in.OverriddenInputOperands() {
		out[op.Cell] = op.Inverted
	}
	for _, o := range in.Outputs {
		if v, isConst := o.Cell.ConstantValue(); isConst && v {
			out[ConstantCell(o.Cell.Type, false)] = !o.Inverted
			continue
		}
		out[o.Cell] = o.Inverted
	}
	return out
}

// OverriddenInputOperands returns the Operand view of every input slot
// that this instruction type overrides (writes back into). Indices are
// global — over the full Inputs slice, not the read-operand sub-range —
// matching how InputOverride/InputInverted are encoded.
func (in Instruction) OverriddenInputOperands() []Operand {
	var out []Operand
	for i, c := range in.Inputs {
		if !in.Type.InputOverride.Contains(i) {
			continue
		}
		inverted := in.Type.InputInverted.Contains(i)
		out = append(out, Operand{Cell: c, Inverted: inverted})
	}
	return out
}

// WriteCells returns every cell this instruction writes (overridden
// inputs plus outputs), without polarity information.
func (in Instruction) WriteCells() []Cell {
	var out []Cell
	for _, o := range in.OverriddenInputOperands() {
		out = append(out, o.Cell)
	}
	for _, o := range in.Outputs {
		out = append(out, o.Cell)
	}
	return out
}

// ReadCells returns the cells this instruction actually reads from: its
// inputs minus the leading passthrough prefix marked by InputRange.
func (in Instruction) ReadCells() []Cell {
	if in.Type.InputRange.Start >= len(in.Inputs) {
		return nil
	}
	return in.Inputs[in.Type.InputRange.Start:]
}
