package search

import (
	"lime/internal/arch"
	"lime/internal/optimize"
	"lime/internal/placement"
	"lime/internal/progstate"
)

// finalize places the network's outputs into cells of an unbounded cell
// type and runs the output peephole optimizer over a private copy of the
// program built so far. Ground truth: compilation::mod::finalize.
func finalize(p *placement.Params, sp *progstate.StateSavepoint) (*progstate.Program, []arch.Cell, bool) {
	outputs, ok := placement.PlaceOutputs(p, sp, p.Net.Outputs())
	if !ok {
		return nil, nil, false
	}
	program := sp.Program().Clone()
	optimize.OptimizeOutputs(program)
	return program, outputs, true
}
