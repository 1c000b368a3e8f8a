package store

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"lime/internal/compiler"
	"lime/internal/progstate"
)

func TestIndexInsertAndHistory(t *testing.T) {
	dir := t.TempDir()
	idx, err := OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer idx.Close()

	bench := BenchmarkDescriptor{
		Name:         "ambit.and",
		Architecture: "ambit",
		Mode:         "greedy",
	}
	ok := NewOkRecord(bench, &compiler.Result{
		Stats:   compiler.Stats{NumCells: 3, NumInstructions: 5, ValidationSuccess: true},
		Program: &progstate.Program{},
	})
	failed := NewErrRecord(bench, errors.New("compiler: no feasible program (infeasible)"))

	if err := idx.Insert(ok); err != nil {
		t.Fatalf("Insert(ok): %v", err)
	}
	if err := idx.Insert(failed); err != nil {
		t.Fatalf("Insert(failed): %v", err)
	}

	rows, err := idx.History("ambit.and", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("History returned %d rows, want 2", len(rows))
	}

	var sawOk, sawFailed bool
	for _, r := range rows {
		if r.Reason == "" {
			sawOk = true
			if r.NumCells != 3 {
				t.Errorf("ok row NumCells = %d, want 3", r.NumCells)
			}
		} else {
			sawFailed = true
			if r.Reason != string(ReasonInfeasible) {
				t.Errorf("failed row Reason = %q, want %q", r.Reason, ReasonInfeasible)
			}
		}
	}
	if !sawOk || !sawFailed {
		t.Errorf("History missing expected rows: sawOk=%v sawFailed=%v", sawOk, sawFailed)
	}
}

func TestIndexHistoryFiltersByBenchmark(t *testing.T) {
	dir := t.TempDir()
	idx, err := OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer idx.Close()

	if err := idx.Insert(NewErrRecord(BenchmarkDescriptor{Name: "a"}, errors.New("x"))); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := idx.Insert(NewErrRecord(BenchmarkDescriptor{Name: "b"}, errors.New("x"))); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rows, err := idx.History("a", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("History(\"a\") returned %d rows, want 1", len(rows))
	}
}
