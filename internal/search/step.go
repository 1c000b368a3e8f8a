package search

import (
	"lime/internal/arch"
	"lime/internal/network"
	"lime/internal/placement"
	"lime/internal/progstate"
)

// gateKindOf maps a network gate node's kind to the arch.GateKind an
// instruction type must compute to realize it. Input and constant nodes
// are never gate candidates.
func gateKindOf(k network.Kind) (arch.GateKind, bool) {
	switch k {
	case network.KindAnd:
		return arch.GateAnd, true
	case network.KindXor:
		return arch.GateXor, true
	case network.KindMaj:
		return arch.GateMaj, true
	default:
		return 0, false
	}
}

// inputTuples enumerates the input-tuple disjuncts to try placing a
// candidate's gate inputs into: every concrete tuple of a Tuples
// definition, or — for a Nary definition — a single synthetic tuple of
// the gate's own arity where every slot repeats the same disjunction
// (matching how lime-rs indexes a Nary input pattern at any position).
func inputTuples(instr arch.InstructionType, arity int) []arch.TuplePat[arch.CellPat] {
	if instr.Input.Kind == arch.KindNary {
		tuple := make(arch.TuplePat[arch.CellPat], arity)
		for i := range tuple {
			tuple[i] = arch.Pats[arch.CellPat](instr.Input.Nary)
		}
		return []arch.TuplePat[arch.CellPat]{tuple}
	}
	return instr.Input.Tuples
}

// step tries every selected candidate against every matching architecture
// instruction and input-tuple disjunct, returning one state delta per
// successful placement. Ground truth: compilation::step::DefaultStepFn.
func step(p *placement.Params, sp *progstate.StateSavepoint, sel CandidateSelector) []*progstate.StateDelta {
	var deltas []*progstate.StateDelta
	for _, candidateID := range sel.SelectCandidates(p.Net, sp) {
		node := p.Net.Node(candidateID)
		gateKind, ok := gateKindOf(node.Kind)
		if !ok {
			continue
		}
		arity := len(node.Inputs)

		for _, instr := range p.Arch.Instructions() {
			if instr.GateFunction() != gateKind {
				continue
			}
			if fixedArity, fixed := instr.Arity(); fixed && fixedArity != arity {
				continue
			}
			for _, tuple := range inputTuples(instr, arity) {
				delta, ok := placement.TryCandidate(p, sp, candidateID, node.Inputs, instr, tuple)
				if ok {
					deltas = append(deltas, delta)
				}
			}
		}
	}
	return deltas
}
