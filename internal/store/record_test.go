package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"lime/internal/compiler"
	"lime/internal/search"
)

func TestClassifyReasons(t *testing.T) {
	cases := []struct {
		err  error
		want ReasonKind
	}{
		{errors.New("compiler: no feasible program (infeasible)"), ReasonInfeasible},
		{errors.New("context deadline exceeded"), ReasonTimeout},
		{errors.New("search: timeout waiting for candidates"), ReasonTimeout},
		{errors.New("compiler: rewrite: boom"), ReasonError},
		{nil, ReasonOther},
	}
	for _, c := range cases {
		got := classify(c.err)
		if got.Kind != c.want {
			t.Errorf("classify(%v).Kind = %v, want %v", c.err, got.Kind, c.want)
		}
	}
}

func TestClassifyErrorKeepsMessage(t *testing.T) {
	err := errors.New("compiler: rewrite: boom")
	r := classify(err)
	if r.Message != err.Error() {
		t.Errorf("classify(err).Message = %q, want %q", r.Message, err.Error())
	}
}

func TestWriteAndReadRun(t *testing.T) {
	dir := t.TempDir()
	bench := BenchmarkDescriptor{
		Name:               "ambit.and",
		Architecture:       "ambit",
		Mode:               "greedy",
		CandidateSelection: "all",
		RewritingStrategy:  "none",
		SizeFactor:         2,
	}
	rec := NewErrRecord(bench, errors.New("search: timeout"))

	path, err := WriteRun(dir, rec)
	if err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("WriteRun wrote to %q, want under %q", path, dir)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("written run file missing: %v", err)
	}

	got, err := ReadRun(path)
	if err != nil {
		t.Fatalf("ReadRun: %v", err)
	}
	if got.RunID != rec.RunID || got.Benchmark != rec.Benchmark {
		t.Errorf("ReadRun roundtrip mismatch: got %+v, want %+v", got, rec)
	}
	if got.Err == nil || got.Err.Kind != ReasonTimeout {
		t.Errorf("ReadRun roundtrip lost reason: got %+v", got.Err)
	}
}

func TestSettingsNameHelpers(t *testing.T) {
	s := compiler.Settings{
		Mode:               search.Exhaustive,
		CandidateSelection: search.MIGBasedSelection,
		RewritingStrategy:  compiler.RewriteCompilingMemusage,
	}
	if got := ModeName(s); got != "exhaustive" {
		t.Errorf("ModeName = %q, want exhaustive", got)
	}
	if got := SelectionName(s); got != "mig-based" {
		t.Errorf("SelectionName = %q, want mig-based", got)
	}
	if got := RewritingStrategyName(s); got != "compiling-memusage" {
		t.Errorf("RewritingStrategyName = %q, want compiling-memusage", got)
	}

	var zero compiler.Settings
	if got := ModeName(zero); got != "greedy" {
		t.Errorf("ModeName(zero) = %q, want greedy", got)
	}
	if got := SelectionName(zero); got != "all" {
		t.Errorf("SelectionName(zero) = %q, want all", got)
	}
	if got := RewritingStrategyName(zero); got != "none" {
		t.Errorf("RewritingStrategyName(zero) = %q, want none", got)
	}
}
