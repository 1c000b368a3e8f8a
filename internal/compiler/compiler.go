// Package compiler is spec.md §6's top-level compiler entry point: it
// wires the copy-graph builder, search driver, peephole optimizer,
// e-graph extractors and validator (components B–I) together behind one
// synchronous Compile call, the way
// lime-rs:crates/generic/src/compilation/mod.rs's compile() and
// egraph/mod.rs's rewriting_receiver do.
package compiler

import (
	"time"

	"github.com/pkg/errors"

	"lime/internal/arch"
	"lime/internal/copygraph"
	"lime/internal/cost"
	"lime/internal/egraph"
	"lime/internal/network"
	"lime/internal/optimize"
	"lime/internal/placement"
	"lime/internal/progstate"
	"lime/internal/search"
	"lime/internal/validator"
)

// RewritingStrategy selects how (or whether) the input network is passed
// through the bounded e-graph before search, per spec.md §6's settings
// field.
type RewritingStrategy int

const (
	RewriteNone RewritingStrategy = iota
	RewriteLP
	RewriteCompiling
	RewriteCompilingMemusage
	RewriteGreedyEstimate
)

// Settings bundles spec.md §6's compiler entry-point settings record.
type Settings struct {
	RewritingStrategy   RewritingStrategy
	SizeFactor          int
	Mode                search.Mode
	CandidateSelection  search.Selection
	DisjunctInputOutput bool
}

// RewriteStats is the rewrite-stage half of spec.md §6's statistics
// record.
type RewriteStats struct {
	RunnerMS       int64
	NodesPre       int
	NodesPost      int
	TrimMS         int64
	ExtractorMS    int64
	RebuiltNtkCost cost.Cost
}

// Stats is spec.md §6's full statistics record.
type Stats struct {
	Rewrite           RewriteStats
	NetworkSize       int
	CompileMS         int64
	Cost              cost.Cost
	NumCells          int
	NumInstructions   int
	ValidationSuccess bool
}

// Validator mirrors spec.md §6's validator callback: given the original
// network and a finished program, report whether the program is
// semantically faithful to it.
type Validator func(original network.Network, program *progstate.Program, a arch.Architecture, inputCells, outputCells []arch.Cell) (bool, error)

// DefaultValidator wraps component I's rebuild-and-compare validator as
// a Validator.
func DefaultValidator(original network.Network, program *progstate.Program, a arch.Architecture, inputCells, outputCells []arch.Cell) (bool, error) {
	return validator.Validate(original, program, a, inputCells, outputCells)
}

// Result is one finished compilation.
type Result struct {
	Stats   Stats
	Program *progstate.Program
	Outputs []arch.Cell
}

// Compile runs one compilation: optionally rewrite net through the
// bounded e-graph (components G/H), search for a program over the
// result (component E, built on placement/D and progstate/C), peephole-
// optimize it (component F), and validate it against the original
// network (component I). validate may be nil, in which case
// DefaultValidator is used.
func Compile(a arch.Architecture, oc cost.OperationCost, graph *copygraph.CopyGraph, settings Settings, inputCells []arch.Cell, net network.Network, validate Validator) (*Result, error) {
	if validate == nil {
		validate = DefaultValidator
	}

	stats := Stats{NetworkSize: net.Size()}
	compileNet := net
	compileInputs := inputCells

	if settings.RewritingStrategy != RewriteNone {
		rewritten, rewrittenInputs, rstats, err := rewrite(a, oc, graph, settings, inputCells, net)
		stats.Rewrite = rstats
		if err != nil {
			return nil, errors.Wrap(err, "compiler: rewrite")
		}
		compileNet = rewritten
		compileInputs = rewrittenInputs
	}

	start := time.Now()
	result, ok := search.Compile(&search.Params{
		Params: &placement.Params{
			Arch:                a,
			Graph:               graph,
			Net:                 compileNet,
			InputCells:          compileInputs,
			Cost:                oc,
			DisjunctInputOutput: settings.DisjunctInputOutput,
		},
		Mode:      settings.Mode,
		Selection: settings.CandidateSelection,
	})
	stats.CompileMS = time.Since(start).Milliseconds()
	if !ok {
		return nil, errors.New("compiler: no feasible program (infeasible)")
	}

	optimize.OptimizeOutputs(result.Program)

	stats.Cost = search.ProgramCost(oc, result.Program)
	stats.NumCells = result.Program.NumCells()
	stats.NumInstructions = len(result.Program.Instructions())

	valid, verr := validate(net, result.Program, a, inputCells, result.Outputs)
	if verr != nil {
		return nil, errors.Wrap(verr, "compiler: validation")
	}
	stats.ValidationSuccess = valid

	return &Result{Stats: stats, Program: result.Program, Outputs: result.Outputs}, nil
}

// rewrite runs the e-graph stage: build, bounded-rewrite, extract (one of
// four ways depending on strategy), and rebuild a concrete network ready
// for the search driver. The bound spec.md §6 describes as
// node_limit = size_factor × initial_size is approximated here as a
// round count (size_factor rounds of the local rewriter), since this
// port's Rewrite has no standalone node-count budget to enforce (its
// rule set is already small and terminating; see egraph/rewrite.go).
func rewrite(a arch.Architecture, oc cost.OperationCost, graph *copygraph.CopyGraph, settings Settings, inputCells []arch.Cell, net network.Network) (network.Network, []arch.Cell, RewriteStats, error) {
	stats := RewriteStats{NodesPre: net.Size()}

	start := time.Now()
	g, byNode, outputs := egraph.FromNetwork(net)
	falseClass, hasConst := egraph.ConstantClass(net, byNode)
	if !hasConst {
		falseClass = g.AddNode(egraph.ENode{Kind: network.KindConstant})
	}

	rounds := settings.SizeFactor
	if rounds <= 0 {
		rounds = 1
	}
	egraph.Rewrite(g, falseClass, rounds)
	stats.RunnerMS = time.Since(start).Milliseconds()
	stats.NodesPost = len(g.Classes())

	extractStart := time.Now()
	var built network.Network
	var rebuiltInputs []arch.Cell
	var err error

	switch settings.RewritingStrategy {
	case RewriteLP:
		built, rebuiltInputs, err = rewriteLP(g, a, outputs, oc, inputCells, &stats)
	case RewriteCompiling, RewriteCompilingMemusage:
		built, rebuiltInputs, err = rewriteCompiling(g, a, graph, oc, settings, outputs, inputCells)
	case RewriteGreedyEstimate:
		built, rebuiltInputs, err = rewriteGreedy(g, outputs, inputCells)
	default:
		err = errors.New("compiler: unknown rewriting strategy")
	}
	stats.ExtractorMS = time.Since(extractStart).Milliseconds()
	if err != nil {
		return nil, nil, stats, err
	}
	return built, rebuiltInputs, stats, nil
}

func rewriteLP(g *egraph.EGraph, a arch.Architecture, outputs []egraph.ID, oc cost.OperationCost, inputCells []arch.Cell, stats *RewriteStats) (network.Network, []arch.Cell, error) {
	ig, outs := egraph.Transform(g, a, outputs)
	lc := egraph.NewLpCost(a, oc)
	best := egraph.ExtractLP(ig, a, lc)
	built, usedOrdinals, total, ok := egraph.RebuildNetwork(ig, a, outs, best)
	if !ok {
		return nil, nil, errors.New("lp extraction could not resolve every output")
	}
	stats.RebuiltNtkCost = cost.Cost(total)
	rebuiltInputs, err := sliceInputs(inputCells, usedOrdinals)
	if err != nil {
		return nil, nil, err
	}
	return built, rebuiltInputs, nil
}

func rewriteCompiling(g *egraph.EGraph, a arch.Architecture, graph *copygraph.CopyGraph, oc cost.OperationCost, settings Settings, outputs []egraph.ID, inputCells []arch.Cell) (network.Network, []arch.Cell, error) {
	oracle := &egraph.CompileOracle{
		Arch:       a,
		Graph:      graph,
		Cost:       oc,
		InputCells: inputCells,
		Mode:       settings.Mode,
		Selection:  settings.CandidateSelection,
		DisjunctIO: settings.DisjunctInputOutput,
		MemUsage:   settings.RewritingStrategy == RewriteCompilingMemusage,
	}
	best, ok := egraph.ExtractCompiling(g, outputs, oracle)
	if !ok {
		return nil, nil, errors.New("compiling extraction could not resolve every output")
	}
	built, usedInputs, ok := egraph.RebuildFromChoices(g, outputs, best, inputCells)
	if !ok {
		return nil, nil, errors.New("compiling extraction produced an unresolvable network")
	}
	return built, usedInputs, nil
}

func rewriteGreedy(g *egraph.EGraph, outputs []egraph.ID, inputCells []arch.Cell) (network.Network, []arch.Cell, error) {
	best, ok := egraph.ExtractGreedy(g, outputs)
	if !ok {
		return nil, nil, errors.New("greedy-estimate extraction could not resolve every output")
	}
	built, usedInputs, ok := egraph.RebuildFromChoices(g, outputs, best, inputCells)
	if !ok {
		return nil, nil, errors.New("greedy-estimate extraction produced an unresolvable network")
	}
	return built, usedInputs, nil
}

func sliceInputs(all []arch.Cell, ordinals []int) ([]arch.Cell, error) {
	out := make([]arch.Cell, len(ordinals))
	for i, ord := range ordinals {
		if ord < 0 || ord >= len(all) {
			return nil, errors.Errorf("compiler: rewritten network references input ordinal %d out of range", ord)
		}
		out[i] = all[ord]
	}
	return out, nil
}
