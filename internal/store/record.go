// Package store persists one JSON record per benchmark run (spec.md §6's
// "Persisted state") plus a queryable SQLite index over those records,
// grounded on the teacher's internal/reporting's exportJSON pattern and
// internal/database/db_manager.go's modernc.org/sqlite usage.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"lime/internal/compiler"
	"lime/internal/search"
)

// ReasonKind enumerates spec.md §6's persisted-state failure reasons.
type ReasonKind string

const (
	ReasonInfeasible ReasonKind = "Infeasible"
	ReasonTimeout    ReasonKind = "Timeout"
	ReasonError      ReasonKind = "Error"
	ReasonOther      ReasonKind = "Other"
)

// Reason is a failed run's Err(reason) payload; Message is only set for
// ReasonError.
type Reason struct {
	Kind    ReasonKind `json:"kind"`
	Message string     `json:"message,omitempty"`
}

// BenchmarkDescriptor names a run's inputs the way spec.md §6's CLI
// positional contract does: benchmark name, architecture, mode,
// candidate-selection, rewriting-mode, rewriting-size-factor.
type BenchmarkDescriptor struct {
	Name               string `json:"name"`
	Architecture       string `json:"architecture"`
	Mode               string `json:"mode"`
	CandidateSelection string `json:"candidate_selection"`
	RewritingStrategy  string `json:"rewriting_strategy"`
	SizeFactor         int    `json:"size_factor"`
}

// Outcome is a successfully compiled run's Ok(record) payload.
type Outcome struct {
	Stats   compiler.Stats `json:"stats"`
	Program string         `json:"program"`
}

// Record is spec.md §6's persisted-state entry: a benchmark descriptor
// plus exactly one of Ok or Err. RunID distinguishes repeated runs of the
// same benchmark descriptor without relying on timestamps.
type Record struct {
	RunID     string              `json:"run_id"`
	Timestamp time.Time           `json:"timestamp"`
	Benchmark BenchmarkDescriptor `json:"benchmark"`
	Ok        *Outcome            `json:"ok,omitempty"`
	Err       *Reason             `json:"err,omitempty"`
}

// NewOkRecord builds a successful Record for the given benchmark and
// compile result, stamping a fresh run id.
func NewOkRecord(bench BenchmarkDescriptor, result *compiler.Result) Record {
	return Record{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Benchmark: bench,
		Ok:        &Outcome{Stats: result.Stats, Program: result.Program.String()},
	}
}

// NewErrRecord builds a failed Record, classifying err into one of spec.md
// §6's reason kinds. Infeasible and Timeout are recognized by the sentinel
// messages compiler.Compile and search.Compile produce; anything else
// becomes ReasonError with the error's message.
func NewErrRecord(bench BenchmarkDescriptor, err error) Record {
	return Record{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Benchmark: bench,
		Err:       classify(err),
	}
}

func classify(err error) *Reason {
	if err == nil {
		return &Reason{Kind: ReasonOther}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "infeasible"):
		return &Reason{Kind: ReasonInfeasible}
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return &Reason{Kind: ReasonTimeout}
	default:
		return &Reason{Kind: ReasonError, Message: err.Error()}
	}
}

// WriteRun writes rec as one indented JSON file under dir, named by its
// run id, and returns the file's path. dir is created if it does not
// already exist.
func WriteRun(dir string, rec Record) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "store: create run directory")
	}
	path := filepath.Join(dir, rec.RunID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "store: create run file")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", errors.Wrap(err, "store: encode run record")
	}
	return path, nil
}

// ReadRun loads a previously written run record.
func ReadRun(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, errors.Wrap(err, "store: read run file")
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrap(err, "store: decode run record")
	}
	return rec, nil
}

// ModeName and the other *Name helpers render compiler.Settings enums the
// way a BenchmarkDescriptor (and the CLI's positional args) name them in
// spec.md §6: greedy/exhaustive, all/mig-based, none/lp/compiling/
// compiling-memusage/greedy-estimate.
func ModeName(m compiler.Settings) string {
	if m.Mode == search.Exhaustive {
		return "exhaustive"
	}
	return "greedy"
}

// SelectionName renders the candidate-selection setting.
func SelectionName(s compiler.Settings) string {
	if s.CandidateSelection == search.MIGBasedSelection {
		return "mig-based"
	}
	return "all"
}

// RewritingStrategyName renders the rewriting-strategy setting.
func RewritingStrategyName(s compiler.Settings) string {
	switch s.RewritingStrategy {
	case compiler.RewriteLP:
		return "lp"
	case compiler.RewriteCompiling:
		return "compiling"
	case compiler.RewriteCompilingMemusage:
		return "compiling-memusage"
	case compiler.RewriteGreedyEstimate:
		return "greedy-estimate"
	default:
		return "none"
	}
}
