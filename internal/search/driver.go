// Package search drives the step-by-step compilation loop: picking
// candidates, trying every matching instruction and input-tuple
// disjunct against them, and choosing which resulting placement to keep
// — either greedily (component E's default) or exhaustively (spec.md
// §4.E's "Exhaustive search" mode). Ground truth:
// lime-rs:crates/generic/src/compilation/mod.rs.
package search

import (
	"lime/internal/arch"
	"lime/internal/placement"
	"lime/internal/progstate"
)

// Mode selects how a step's candidate deltas are narrowed down to one
// committed result.
type Mode int

const (
	Greedy Mode = iota
	Exhaustive
)

// Selection picks which CandidateSelector a compilation run uses.
type Selection int

const (
	AllCandidatesSelection Selection = iota
	MIGBasedSelection
)

func (s Selection) selector() CandidateSelector {
	if s == MIGBasedSelection {
		return MIGBasedCandidateSelection{}
	}
	return AllCandidates{}
}

// Params bundles everything a compilation run needs: the placement
// parameters (architecture, copy graph, network, input cells, cost
// model) plus the search strategy to use.
type Params struct {
	*placement.Params
	Mode      Mode
	Selection Selection
}

// Result is a finished compilation: the emitted program and the cells
// holding the network's outputs, in output order.
type Result struct {
	Program *progstate.Program
	Outputs []arch.Cell
}

// Compile runs the configured search strategy to completion and
// validates that it placed exactly one cell per network output. Ground
// truth: compilation::mod::compile.
func Compile(p *Params) (*Result, bool) {
	st := progstate.Initialize(p.Arch, p.Net, p.InputCells)
	sel := p.Selection.selector()

	var program *progstate.Program
	var outputs []arch.Cell
	var ok bool
	switch p.Mode {
	case Exhaustive:
		program, outputs, ok = exhaustiveSearch(p.Params, sel, st)
	default:
		program, outputs, ok = greedySearch(p.Params, sel, st)
	}
	if !ok {
		return nil, false
	}
	if len(outputs) != len(p.Net.Outputs()) {
		return nil, false
	}
	return &Result{Program: program, Outputs: outputs}, true
}
