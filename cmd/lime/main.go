// cmd/lime/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"lime/internal/arch"
	"lime/internal/compiler"
	"lime/internal/copygraph"
	"lime/internal/cost"
	"lime/internal/network"
	"lime/internal/report"
	"lime/internal/store"
)

// command aliases, mirroring the teacher CLI's short-flag conveniences.
var commandAliases = map[string]string{
	"c": "compile",
	"b": "batch",
	"h": "history",
}

const runsDir = "lime-runs"
const indexPath = "lime-runs/index.db"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Println("lime 0.1.0")
	case "compile":
		runCompile(args[1:])
	case "batch":
		runBatch(args[1:])
	case "history":
		runHistory(args[1:])
	case "list":
		runList()
	default:
		log.Fatalf("lime: unknown command %q (try \"lime help\")", args[0])
	}
}

func showUsage() {
	fmt.Println(`lime: a Logic-in-Memory compiler backend driver

Usage:
  lime compile <benchmark> <architecture> <mode> <candidate-selection> <rewriting-mode> <rewriting-size-factor>
  lime batch <architecture> <mode> <candidate-selection> <rewriting-mode> <rewriting-size-factor>
  lime history <benchmark> [limit]
  lime list

Positional compile arguments:
  benchmark            one of the names "lime list" prints for the architecture
  architecture         ambit | plim | imply | felix
  mode                 greedy | exhaustive
  candidate-selection  all | mig-based
  rewriting-mode       none | lp | compiling | compiling-memusage | greedy-estimate
  rewriting-size-factor  non-negative integer

Stdout carries exactly one "RESULTS\t<tab-separated record>" line per run.
Diagnostics, summaries, and failure reasons go to stderr.`)
}

func runList() {
	names := make([]string, 0, len(architectures))
	for a := range architectures {
		names = append(names, a)
	}
	sort.Strings(names)
	for _, a := range names {
		benchNames := make([]string, 0, len(benchmarks[a]))
		for b := range benchmarks[a] {
			benchNames = append(benchNames, b)
		}
		sort.Strings(benchNames)
		for _, b := range benchNames {
			fmt.Printf("%s\t%s\n", a, b)
		}
	}
}

func runCompile(args []string) {
	if len(args) != 6 {
		log.Fatalf("lime: compile wants 6 positional arguments, got %d (try \"lime help\")", len(args))
	}
	benchName, archName, mode, selection, rewriting, sizeFactor := args[0], args[1], args[2], args[3], args[4], args[5]

	desc := store.BenchmarkDescriptor{
		Name:               benchName,
		Architecture:       archName,
		Mode:               mode,
		CandidateSelection: selection,
		RewritingStrategy:  rewriting,
	}
	if n, err := strconv.Atoi(sizeFactor); err == nil {
		desc.SizeFactor = n
	}

	settings, err := parseSettings(mode, selection, rewriting, sizeFactor)
	if err != nil {
		emitFailure(desc, err)
		os.Exit(1)
	}

	a, net, inputCells, err := lookupBenchmark(archName, benchName)
	if err != nil {
		emitFailure(desc, err)
		os.Exit(1)
	}

	rec := compileOne(a, settings, inputCells, net, desc)
	persist(rec)
	fmt.Println(report.ResultsLine(rec))
	fmt.Fprintln(os.Stderr, report.Summary(rec))
	if rec.Err != nil {
		os.Exit(1)
	}
}

func runBatch(args []string) {
	if len(args) != 5 {
		log.Fatalf("lime: batch wants 5 positional arguments, got %d (try \"lime help\")", len(args))
	}
	archName, mode, selection, rewriting, sizeFactor := args[0], args[1], args[2], args[3], args[4]

	settings, err := parseSettings(mode, selection, rewriting, sizeFactor)
	if err != nil {
		log.Fatalf("lime: %v", err)
	}

	a, ok := architectures[archName]
	if !ok {
		log.Fatalf("lime: unknown architecture %q", archName)
	}
	arc := a()
	oc := cost.Uniform{}
	graph := copygraph.Build(arc, oc)

	names := make([]string, 0, len(benchmarks[archName]))
	for name := range benchmarks[archName] {
		names = append(names, name)
	}
	sort.Strings(names)

	benches := make([]compiler.Benchmark, 0, len(names))
	for _, name := range names {
		net, inputCells := benchmarks[archName][name]()
		benches = append(benches, compiler.Benchmark{
			Name:       name,
			Arch:       arc,
			Cost:       oc,
			Graph:      graph,
			Settings:   settings,
			InputCells: inputCells,
			Net:        net,
		})
	}

	results := compiler.CompileAll(context.Background(), benches)

	recs := make([]store.Record, 0, len(results))
	for _, br := range results {
		desc := store.BenchmarkDescriptor{
			Name:               br.Name,
			Architecture:       archName,
			Mode:               mode,
			CandidateSelection: selection,
			RewritingStrategy:  rewriting,
		}
		if n, err := strconv.Atoi(sizeFactor); err == nil {
			desc.SizeFactor = n
		}
		var rec store.Record
		if br.Err != nil {
			rec = store.NewErrRecord(desc, br.Err)
		} else {
			rec = store.NewOkRecord(desc, br.Result)
		}
		persist(rec)
		recs = append(recs, rec)
		fmt.Println(report.ResultsLine(rec))
	}

	for _, line := range report.BatchSummary(recs) {
		fmt.Fprintln(os.Stderr, line)
	}
}

func runHistory(args []string) {
	if len(args) < 1 {
		log.Fatalf("lime: history wants a benchmark name")
	}
	benchName := args[0]
	limit := 20
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			limit = n
		}
	}

	idx, err := store.OpenIndex(indexPath)
	if err != nil {
		log.Fatalf("lime: %v", err)
	}
	defer idx.Close()

	rows, err := idx.History(benchName, limit)
	if err != nil {
		log.Fatalf("lime: %v", err)
	}
	for _, row := range rows {
		status := "ok"
		if row.Reason != "" {
			status = row.Reason
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%.2f\t%d\t%d\t%s\n",
			row.Timestamp, row.RunID, row.Architecture, row.Mode, row.Cost, row.NumCells, row.NumInstructions, status)
	}
}

// lookupBenchmark resolves an architecture/benchmark name pair to a fresh
// architecture instance, network, and matching input-cell vector from the
// built-in registries in benchmarks.go — standing in for the macro
// front-end and architecture-description DSL that spec.md §1 excludes.
func lookupBenchmark(archName, benchName string) (arch.Architecture, network.Network, []arch.Cell, error) {
	archFn, ok := architectures[archName]
	if !ok {
		return arch.Architecture{}, nil, nil, errors.Errorf("unknown architecture %q", archName)
	}
	perArch, ok := benchmarks[archName]
	if !ok {
		return arch.Architecture{}, nil, nil, errors.Errorf("architecture %q has no benchmarks registered", archName)
	}
	benchFn, ok := perArch[benchName]
	if !ok {
		return arch.Architecture{}, nil, nil, errors.Errorf("unknown benchmark %q for architecture %q", benchName, archName)
	}
	net, inputCells := benchFn()
	return archFn(), net, inputCells, nil
}

// compileOne runs one benchmark to completion and wraps the outcome (or
// failure) in a store.Record.
func compileOne(a arch.Architecture, settings compiler.Settings, inputCells []arch.Cell, net network.Network, desc store.BenchmarkDescriptor) store.Record {
	oc := cost.Uniform{}
	graph := copygraph.Build(a, oc)

	result, err := compiler.Compile(a, oc, graph, settings, inputCells, net, nil)
	if err != nil {
		return store.NewErrRecord(desc, err)
	}
	return store.NewOkRecord(desc, result)
}

// emitFailure prints a record for a compile that never reached
// compiler.Compile (unknown benchmark, bad settings) so the RESULTS
// contract holds even for argument errors.
func emitFailure(desc store.BenchmarkDescriptor, err error) {
	rec := store.NewErrRecord(desc, err)
	fmt.Println(report.ResultsLine(rec))
	fmt.Fprintln(os.Stderr, report.Summary(rec))
}

func persist(rec store.Record) {
	path, err := store.WriteRun(runsDir, rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lime: warning: failed to persist run: %v\n", err)
		return
	}
	idx, err := store.OpenIndex(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lime: warning: failed to open run index: %v\n", err)
		return
	}
	defer idx.Close()
	if err := idx.Insert(rec); err != nil {
		fmt.Fprintf(os.Stderr, "lime: warning: failed to index run %s: %v\n", path, err)
	}
}
