package report

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"lime/internal/compiler"
	"lime/internal/progstate"
	"lime/internal/store"
)

func TestResultsLineOk(t *testing.T) {
	rec := store.NewOkRecord(store.BenchmarkDescriptor{
		Name:               "ambit.and",
		Architecture:       "ambit",
		Mode:               "greedy",
		CandidateSelection: "all",
		RewritingStrategy:  "none",
		SizeFactor:         1,
	}, &compiler.Result{
		Stats:   compiler.Stats{Cost: 7, NumCells: 2, NumInstructions: 3, ValidationSuccess: true, CompileMS: 5},
		Program: &progstate.Program{},
	})

	line := ResultsLine(rec)
	if !strings.HasPrefix(line, "RESULTS\t") {
		t.Fatalf("ResultsLine() = %q, want RESULTS\\t prefix", line)
	}
	fields := strings.Split(strings.TrimPrefix(line, "RESULTS\t"), "\t")
	want := []string{"ambit.and", "ambit", "greedy", "all", "none", "1", "ok", "7", "2", "3", "true", "5"}
	if len(fields) != len(want) {
		t.Fatalf("ResultsLine() fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestResultsLineErr(t *testing.T) {
	rec := store.NewErrRecord(store.BenchmarkDescriptor{Name: "x", Architecture: "ambit"}, errors.New("compiler: no feasible program (infeasible)"))
	line := ResultsLine(rec)
	if !strings.Contains(line, "\terr\tInfeasible\t") {
		t.Errorf("ResultsLine() = %q, want it to contain err/Infeasible fields", line)
	}
}

func TestSummaryReportsFailedValidation(t *testing.T) {
	rec := store.NewOkRecord(store.BenchmarkDescriptor{Name: "x", Architecture: "ambit"}, &compiler.Result{
		Stats:   compiler.Stats{ValidationSuccess: false},
		Program: &progstate.Program{},
	})
	if s := Summary(rec); !strings.Contains(s, "FAILED VALIDATION") {
		t.Errorf("Summary() = %q, want it to flag failed validation", s)
	}
}

func TestBatchSummaryDeterministicOrder(t *testing.T) {
	recs := []store.Record{
		store.NewOkRecord(store.BenchmarkDescriptor{Name: "a", Architecture: "zeta"}, &compiler.Result{Program: &progstate.Program{}}),
		store.NewOkRecord(store.BenchmarkDescriptor{Name: "b", Architecture: "alpha"}, &compiler.Result{Program: &progstate.Program{}}),
		store.NewErrRecord(store.BenchmarkDescriptor{Name: "c", Architecture: "alpha"}, errors.New("boom")),
	}
	lines := BatchSummary(recs)
	if len(lines) != 2 {
		t.Fatalf("BatchSummary returned %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "alpha:") {
		t.Errorf("BatchSummary()[0] = %q, want alpha first (sorted)", lines[0])
	}
	if !strings.Contains(lines[0], "2 run(s), 1 failed") {
		t.Errorf("BatchSummary()[0] = %q, want 2 runs/1 failed for alpha", lines[0])
	}
	if !strings.HasPrefix(lines[1], "zeta:") {
		t.Errorf("BatchSummary()[1] = %q, want zeta second", lines[1])
	}
}
