package arch

// BoolHint is the answer a gate evaluator gives when asked what value an
// as-yet-unconnected input should take in order to reach some target: Any
// value works, a specific value is Required, or the question doesn't apply
// because the evaluator hasn't decided anything yet.
type BoolHintKind int

const (
	HintAny BoolHintKind = iota
	HintRequire
)

type BoolHint struct {
	Kind  BoolHintKind
	Value bool
}

func AnyHint() BoolHint            { return BoolHint{Kind: HintAny} }
func RequireHint(v bool) BoolHint  { return BoolHint{Kind: HintRequire, Value: v} }

// Evaluator is the incremental state of one gate's inputs as they are
// connected one at a time, answering what remains feasible before all
// inputs are known. Implementations: AndEval, MajEval, XorEval, ConstEval.
type Evaluator interface {
	// Add records a known input value.
	Add(value bool)
	// AddUnknown records an input whose value is not yet known.
	AddUnknown()
	// Count returns the number of inputs recorded so far (known or not).
	Count() int
	// Evaluate returns the gate's output if already decided by the inputs
	// seen so far, with ok false when not yet decided.
	Evaluate() (value bool, ok bool)
	// Hint reports what the next connected input must be, may be, for the
	// gate to reach target — ok is false when target is unreachable.
	Hint(arity int, target bool) (hint BoolHint, ok bool)
	// IDInverted reports whether, with the inputs seen so far fixed, this
	// gate already acts as the identity (false) or inversion (true) of
	// whatever input connects next — ok is false when undecided.
	IDInverted() (inverted bool, ok bool)
	// HintID is Hint's counterpart for the identity/inversion question:
	// what must the next input be for the gate to end up computing the
	// identity (inverted=false) or inversion (inverted=true) of the very
	// last input connected.
	HintID(arity int, inverted bool) (hint BoolHint, ok bool)
	// Clone returns an independent copy, used to explore several candidate
	// inputs from the same starting state.
	Clone() Evaluator
}

// NewEvaluator returns a fresh Evaluator for g.
func NewEvaluator(g Gate) Evaluator {
	switch g.Kind {
	case GateAnd:
		return &AndEval{}
	case GateMaj:
		return &MajEval{}
	case GateXor:
		return &XorEval{decided: true}
	default:
		return &ConstEval{value: g.ConstantValue}
	}
}

// FunctionEval wraps a gate Evaluator with the function's output inversion
// and the instruction's fixed input arity, matching the two layers
// spec.md §4.B describes: a gate's natural evaluator plus the
// instruction-level inversion applied on top.
type FunctionEval struct {
	gate     Evaluator
	inverted bool
	arity    int
}

// NewFunctionEval constructs the evaluator for one instance of fn with the
// given number of read-operand inputs.
func NewFunctionEval(fn Function, arity int) *FunctionEval {
	return &FunctionEval{gate: NewEvaluator(fn.Gate), inverted: fn.Inverted, arity: arity}
}

func (f *FunctionEval) Add(value bool) { f.gate.Add(value) }
func (f *FunctionEval) AddUnknown()    { f.gate.AddUnknown() }
func (f *FunctionEval) Count() int     { return f.gate.Count() }

func (f *FunctionEval) Evaluate() (bool, bool) {
	v, ok := f.gate.Evaluate()
	if !ok {
		return false, false
	}
	return v != f.inverted, true
}

func (f *FunctionEval) Hint(target bool) (BoolHint, bool) {
	if f.Count() == f.arity {
		v, ok := f.Evaluate()
		if ok && v == target {
			return AnyHint(), true
		}
		return BoolHint{}, false
	}
	return f.gate.Hint(f.arity, target != f.inverted)
}

func (f *FunctionEval) HintID(inverted bool) (BoolHint, bool) {
	if f.Count() == f.arity {
		id, ok := f.IDInverted()
		if ok && id == inverted {
			return AnyHint(), true
		}
		return BoolHint{}, false
	}
	return f.gate.HintID(f.arity, inverted != f.inverted)
}

func (f *FunctionEval) IDInverted() (bool, bool) {
	id, ok := f.gate.IDInverted()
	if !ok {
		return false, false
	}
	return id != f.inverted, true
}

// Clone returns an independent copy so a search can branch over several
// candidate next inputs from the same starting state.
func (f *FunctionEval) Clone() *FunctionEval {
	return &FunctionEval{gate: f.gate.Clone(), inverted: f.inverted, arity: f.arity}
}

// AndEval evaluates a conjunction. It short-circuits to false the moment
// any input is known false, regardless of how many inputs remain.
type AndEval struct {
	num      int
	sawFalse bool
	unknown  bool
}

func (e *AndEval) Add(value bool) {
	if !value {
		e.sawFalse = true
	}
	e.num++
}

func (e *AndEval) AddUnknown() {
	e.unknown = true
	e.num++
}

func (e *AndEval) Count() int { return e.num }

// fixedValue reports the conjunction of every known input so far: false if
// any was false, true if all seen so far were true, undecided once an
// unknown input has been recorded.
func (e *AndEval) fixedValue() (bool, bool) {
	if e.sawFalse {
		return false, true
	}
	if e.unknown {
		return false, false
	}
	return true, true
}

func (e *AndEval) Evaluate() (bool, bool) { return e.fixedValue() }

func (e *AndEval) Hint(arity int, target bool) (BoolHint, bool) {
	fv, ok := e.fixedValue()
	if !ok {
		return BoolHint{}, false
	}
	if !fv {
		if !target {
			return AnyHint(), true
		}
		return BoolHint{}, false
	}
	if e.num+1 == arity {
		return RequireHint(target), true
	}
	if target {
		return RequireHint(true), true
	}
	return AnyHint(), true
}

func (e *AndEval) IDInverted() (bool, bool) {
	fv, ok := e.fixedValue()
	if !ok || !fv {
		return false, false
	}
	return false, true
}

func (e *AndEval) HintID(arity int, inverted bool) (BoolHint, bool) {
	if inverted {
		return BoolHint{}, false
	}
	fv, ok := e.fixedValue()
	if !ok || !fv {
		return BoolHint{}, false
	}
	if e.num+1 == arity {
		return AnyHint(), true
	}
	return RequireHint(true), true
}

func (e *AndEval) Clone() Evaluator { c := *e; return &c }

// MajEval evaluates a majority vote. Unlike And/Xor it tolerates unknown
// inputs without giving up forever: a vote is decisive as soon as one side
// has strictly more known votes than the other side could ever reach.
type MajEval struct {
	num                    int
	trueCount, falseCount int
}

func (e *MajEval) Add(value bool) {
	if value {
		e.trueCount++
	} else {
		e.falseCount++
	}
	e.num++
}

func (e *MajEval) AddUnknown() { e.num++ }

func (e *MajEval) Count() int { return e.num }

func (e *MajEval) Evaluate() (bool, bool) {
	unknown := e.num - e.trueCount - e.falseCount
	if e.trueCount > e.falseCount+unknown {
		return true, true
	}
	if e.falseCount > e.trueCount+unknown {
		return false, true
	}
	return false, false
}

func (e *MajEval) Hint(arity int, target bool) (BoolHint, bool) {
	half := arity / 2
	rem := arity - e.num
	decisiveTrue := e.trueCount > half
	decisiveFalse := e.falseCount > half
	reachableTrue := e.trueCount+rem > half
	reachableFalse := e.falseCount+rem > half
	if target {
		if decisiveTrue {
			return AnyHint(), true
		}
		if decisiveFalse || !reachableTrue {
			return BoolHint{}, false
		}
		if e.trueCount+rem-1 > half {
			return AnyHint(), true
		}
		return RequireHint(true), true
	}
	if decisiveFalse {
		return AnyHint(), true
	}
	if decisiveTrue || !reachableFalse {
		return BoolHint{}, false
	}
	if e.falseCount+rem-1 > half {
		return AnyHint(), true
	}
	return RequireHint(false), true
}

// IDInverted reports whether the votes seen so far are exactly tied, which
// is the only state from which one more fixed vote (or the free input
// itself, if none remain) can make the gate track the next input directly.
// A majority gate can never realize the inverted identity: tying the other
// votes and then inverting the deciding one flips the tie-break, it does
// not flip the whole function.
func (e *MajEval) IDInverted() (bool, bool) {
	if e.trueCount == e.falseCount {
		return false, true
	}
	return false, false
}

func (e *MajEval) HintID(arity int, inverted bool) (BoolHint, bool) {
	if inverted {
		return BoolHint{}, false
	}
	fixedRemaining := arity - e.num - 1
	if fixedRemaining < 0 {
		return BoolHint{}, false
	}
	diff := e.trueCount - e.falseCount
	if fixedRemaining == 0 {
		if diff == 0 {
			return AnyHint(), true
		}
		return BoolHint{}, false
	}
	sum := fixedRemaining + diff
	if sum < 0 || sum%2 != 0 {
		return BoolHint{}, false
	}
	futureFalse := sum / 2
	if futureFalse < 0 || futureFalse > fixedRemaining {
		return BoolHint{}, false
	}
	if fixedRemaining == 1 {
		if futureFalse == 1 {
			return RequireHint(false), true
		}
		return RequireHint(true), true
	}
	return AnyHint(), true
}

func (e *MajEval) Clone() Evaluator { c := *e; return &c }

// XorEval evaluates parity. It keeps a running XOR of every known input;
// one unknown input makes the running value permanently undecided, since
// no later input can cancel out a value nobody ever learned.
type XorEval struct {
	num     int
	val     bool
	decided bool
}

func (e *XorEval) Add(value bool) {
	if e.decided {
		e.val = e.val != value
	}
	e.num++
}

func (e *XorEval) AddUnknown() {
	e.decided = false
	e.num++
}

func (e *XorEval) Count() int { return e.num }

func (e *XorEval) Evaluate() (bool, bool) {
	if !e.decided {
		return false, false
	}
	return e.val, true
}

func (e *XorEval) Hint(arity int, target bool) (BoolHint, bool) {
	if !e.decided {
		return BoolHint{}, false
	}
	if e.num+1 == arity {
		return RequireHint(e.val != target), true
	}
	return AnyHint(), true
}

func (e *XorEval) IDInverted() (bool, bool) {
	if !e.decided {
		return false, false
	}
	return e.val, true
}

func (e *XorEval) HintID(arity int, inverted bool) (BoolHint, bool) {
	if !e.decided {
		return BoolHint{}, false
	}
	if arity == e.num+1 {
		if e.val == inverted {
			return AnyHint(), true
		}
		return BoolHint{}, false
	}
	if arity == e.num+2 {
		return RequireHint(e.val != inverted), true
	}
	return AnyHint(), true
}

func (e *XorEval) Clone() Evaluator { c := *e; return &c }

// ConstEval always evaluates to a fixed literal, irrespective of inputs —
// used for instruction types whose gate function is set-constant.
type ConstEval struct {
	value bool
}

func (e *ConstEval) Add(bool)     {}
func (e *ConstEval) AddUnknown()  {}
func (e *ConstEval) Count() int   { return 0 }

func (e *ConstEval) Evaluate() (bool, bool) { return e.value, true }

func (e *ConstEval) Hint(_ int, target bool) (BoolHint, bool) {
	if e.value == target {
		return AnyHint(), true
	}
	return BoolHint{}, false
}

func (e *ConstEval) IDInverted() (bool, bool) { return false, false }

func (e *ConstEval) HintID(int, bool) (BoolHint, bool) { return BoolHint{}, false }

func (e *ConstEval) Clone() Evaluator { c := *e; return &c }
