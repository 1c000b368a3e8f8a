package compiler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"lime/internal/arch"
	"lime/internal/copygraph"
	"lime/internal/cost"
	"lime/internal/network"
)

// Benchmark is one named compilation job: an architecture, its cost
// model and copy graph, the settings to compile under, and the network
// to compile.
type Benchmark struct {
	Name       string
	Arch       arch.Architecture
	Cost       cost.OperationCost
	Graph      *copygraph.CopyGraph
	Settings   Settings
	InputCells []arch.Cell
	Net        network.Network
	Validate   Validator
}

// BatchResult pairs a benchmark with its outcome: exactly one of Result
// or Err is set.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// CompileAll runs every benchmark concurrently, one goroutine per job,
// the "separate worker tasks" placement spec.md §5 assigns to the outer
// driver layer — each individual Compile call remains single-threaded.
// Unlike errgroup's usual fail-fast Wait, a benchmark's own compile
// failure does not cancel its siblings: every benchmark gets a
// BatchResult, in input order, the way a batch report needs one row per
// requested benchmark regardless of how many failed.
func CompileAll(ctx context.Context, benchmarks []Benchmark) []BatchResult {
	results := make([]BatchResult, len(benchmarks))
	g, _ := errgroup.WithContext(ctx)
	for i, bench := range benchmarks {
		i, bench := i, bench
		g.Go(func() error {
			result, err := Compile(bench.Arch, bench.Cost, bench.Graph, bench.Settings, bench.InputCells, bench.Net, bench.Validate)
			results[i] = BatchResult{Name: bench.Name, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
