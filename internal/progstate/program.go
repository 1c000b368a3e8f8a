package progstate

import (
	"fmt"
	"strings"

	"lime/internal/arch"
	"lime/internal/network"
)

// Operation is one entry of the program being built. Candidate is a
// single instruction computing a network node id for the first time.
// Copy moves an already-materialized signal to another cell, possibly
// inverting it or evicting the destination (spill). Other covers
// anything else worth recording (e.g. architecture setup, debug markers).
type Operation struct {
	Kind OperationKind

	// Candidate, Copy, Other
	Instructions []arch.Instruction

	// Candidate only.
	CandidateID network.NodeID

	// Copy only.
	From                 arch.Cell
	To                   arch.Cell
	Inverted             bool
	Spill                bool
	ComputesFromInverted bool

	// Other only.
	Comment string
}

type OperationKind int

const (
	OpCandidate OperationKind = iota
	OpCopy
	OpOther
)

// NewCandidateOperation records a single instruction that computes id for
// the first time.
func NewCandidateOperation(instr arch.Instruction, id network.NodeID) Operation {
	return Operation{Kind: OpCandidate, Instructions: []arch.Instruction{instr}, CandidateID: id}
}

// NewCopyOperation records a signal move from one cell to another.
func NewCopyOperation(from, to arch.Cell, inverted bool, instructions []arch.Instruction, spill, computesFromInverted bool) Operation {
	return Operation{
		Kind:                 OpCopy,
		Instructions:         instructions,
		From:                 from,
		To:                   to,
		Inverted:             inverted,
		Spill:                spill,
		ComputesFromInverted: computesFromInverted,
	}
}

// NewOtherOperation records a miscellaneous instruction group.
func NewOtherOperation(instructions []arch.Instruction, comment string) Operation {
	return Operation{Kind: OpOther, Instructions: instructions, Comment: comment}
}

func (o Operation) commentText() (string, bool) {
	switch o.Kind {
	case OpCandidate:
		return fmt.Sprintf("compute candidate %d", o.CandidateID), true
	case OpCopy:
		inv := ""
		if o.Inverted {
			inv = "!"
		}
		verb := "copy"
		if o.Spill {
			verb = "spill"
		}
		return fmt.Sprintf("%s %s %s-> %s", verb, o.From, inv, o.To), true
	default:
		if o.Comment == "" {
			return "", false
		}
		return o.Comment, true
	}
}

func (o Operation) String() string {
	var b strings.Builder
	if c, ok := o.commentText(); ok {
		fmt.Fprintf(&b, "// %s\n", c)
	}
	for _, instr := range o.Instructions {
		fmt.Fprintf(&b, "%s %v -> %v\n", instr.Type.Name, instr.Inputs, instr.Outputs)
	}
	return b.String()
}

// Program is the ordered sequence of operations built so far.
type Program struct {
	ops []Operation
}

// Ops returns the program's operations in emission order. The returned
// slice aliases the program's storage, so mutating an element's fields
// in place (but not its length) is visible to the program.
func (p *Program) Ops() []Operation { return p.ops }

// ReplaceOps overwrites the program's operations wholesale. Used by the
// output peephole optimizer, which removes operations entirely after
// folding them into an earlier instruction's own outputs.
func (p *Program) ReplaceOps(ops []Operation) { p.ops = ops }

// Clone returns a program with its own independent copy of the operation
// list. A savepoint's Program is shared by every sibling branch taken off
// the same ancestor state, so optimizing a finalized result in place
// would corrupt every other branch's rollback bookkeeping; callers that
// finalize one candidate result out of several (e.g. exhaustive search)
// must Clone before handing the program to the output optimizer.
func (p *Program) Clone() *Program {
	return &Program{ops: append([]Operation(nil), p.ops...)}
}

// Instructions flattens every operation's instructions in program order.
func (p *Program) Instructions() []arch.Instruction {
	var out []arch.Instruction
	for _, op := range p.ops {
		out = append(out, op.Instructions...)
	}
	return out
}

// NumCells returns the number of distinct cells referenced across every
// instruction in the program, as either an input or an output.
func (p *Program) NumCells() int {
	seen := make(map[arch.Cell]struct{})
	for _, instr := range p.Instructions() {
		for _, c := range instr.Inputs {
			seen[c] = struct{}{}
		}
		for _, o := range instr.Outputs {
			seen[o.Cell] = struct{}{}
		}
	}
	return len(seen)
}

func (p *Program) String() string {
	var b strings.Builder
	for _, op := range p.ops {
		b.WriteString(op.String())
	}
	return b.String()
}

func (p *Program) savepoint() *ProgramSavepoint {
	return &ProgramSavepoint{program: p, previousLen: len(p.ops)}
}

// ProgramSavepoint layers an undo-tracked append view over a Program: it
// remembers only the length at creation time, so Rollback can truncate
// back to exactly that point.
type ProgramSavepoint struct {
	program     *Program
	previousLen int
}

// Program returns the underlying program, including entries appended
// through this savepoint.
func (sp *ProgramSavepoint) Program() *Program { return sp.program }

// Append records a new operation.
func (sp *ProgramSavepoint) Append(op Operation) {
	sp.program.ops = append(sp.program.ops, op)
}

// Savepoint opens a nested savepoint over the same program.
func (sp *ProgramSavepoint) Savepoint() *ProgramSavepoint {
	return &ProgramSavepoint{program: sp.program, previousLen: len(sp.program.ops)}
}

// Retain commits every operation appended through this savepoint:
// Rollback becomes a no-op.
func (sp *ProgramSavepoint) Retain() {
	sp.previousLen = len(sp.program.ops)
}

// Rollback truncates the program back to its length at this savepoint's
// creation, discarding every operation appended since. Call it on every
// path that does not Retain; a no-op once Retain has run (or once called
// once).
func (sp *ProgramSavepoint) Rollback() {
	sp.program.ops = sp.program.ops[:sp.previousLen]
}

// AppendToDelta appends every operation this savepoint recorded to delta.
func (sp *ProgramSavepoint) AppendToDelta(delta *ProgramDelta) {
	delta.ops = append(delta.ops, sp.program.ops[sp.previousLen:]...)
}

// Replay appends delta's operations to the program.
func (sp *ProgramSavepoint) Replay(delta *ProgramDelta) {
	sp.program.ops = append(sp.program.ops, delta.ops...)
}

// ProgramDelta is a serialized tail of a program, replayable onto a
// sibling savepoint.
type ProgramDelta struct {
	ops []Operation
}

// NewProgramDelta returns an empty delta.
func NewProgramDelta() *ProgramDelta { return &ProgramDelta{} }

// Ops returns the operations captured in this delta.
func (d *ProgramDelta) Ops() []Operation { return d.ops }
