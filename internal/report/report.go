// Package report renders spec.md §6's stdout "RESULTS\t<TSV record>" line
// and the human-readable (non-TSV) summaries cmd/lime prints to stderr,
// grounded on the teacher's internal/reporting exportCSV/StreamReport
// text-formatting style.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"lime/internal/store"
)

// ResultsLine formats one run's spec.md §6 "RESULTS\t<TSV record>" line.
// Ok runs carry cost/cell/instruction/validation fields; failed runs carry
// the reason kind and, for ReasonError, its message.
func ResultsLine(rec store.Record) string {
	fields := []string{
		rec.Benchmark.Name,
		rec.Benchmark.Architecture,
		rec.Benchmark.Mode,
		rec.Benchmark.CandidateSelection,
		rec.Benchmark.RewritingStrategy,
		strconv.Itoa(rec.Benchmark.SizeFactor),
	}
	if rec.Ok != nil {
		fields = append(fields,
			"ok",
			strconv.FormatFloat(float64(rec.Ok.Stats.Cost), 'f', -1, 64),
			strconv.Itoa(rec.Ok.Stats.NumCells),
			strconv.Itoa(rec.Ok.Stats.NumInstructions),
			strconv.FormatBool(rec.Ok.Stats.ValidationSuccess),
			strconv.FormatInt(rec.Ok.Stats.CompileMS, 10),
		)
	} else {
		fields = append(fields, "err", string(rec.Err.Kind), rec.Err.Message)
	}
	return "RESULTS\t" + strings.Join(fields, "\t")
}

// Summary renders a human-readable one-line description of rec for
// stderr, humanizing counts the way a benchmark harness report would.
func Summary(rec store.Record) string {
	if rec.Err != nil {
		if rec.Err.Message != "" {
			return fmt.Sprintf("%s (%s): %s: %s", rec.Benchmark.Name, rec.Benchmark.Architecture, rec.Err.Kind, rec.Err.Message)
		}
		return fmt.Sprintf("%s (%s): %s", rec.Benchmark.Name, rec.Benchmark.Architecture, rec.Err.Kind)
	}
	stats := rec.Ok.Stats
	status := "valid"
	if !stats.ValidationSuccess {
		status = "FAILED VALIDATION"
	}
	return fmt.Sprintf("%s (%s): cost %s, %s cells, %s instructions, %s — %s",
		rec.Benchmark.Name,
		rec.Benchmark.Architecture,
		humanize.CommafWithDigits(float64(stats.Cost), 2),
		humanize.Comma(int64(stats.NumCells)),
		humanize.Comma(int64(stats.NumInstructions)),
		humanizeMS(stats.CompileMS),
		status,
	)
}

func humanizeMS(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}

// BatchSummary renders one line per architecture seen across records,
// counting runs and failures — the deterministic-order iteration over
// architecture names uses golang.org/x/exp/maps to collect the key set
// and golang.org/x/exp/slices to sort it, since Go map iteration order is
// randomized and spec.md §5 requires the driver's reporting to be
// deterministic given identical inputs.
func BatchSummary(recs []store.Record) []string {
	total := make(map[string]int)
	failed := make(map[string]int)
	for _, rec := range recs {
		total[rec.Benchmark.Architecture]++
		if rec.Err != nil {
			failed[rec.Benchmark.Architecture]++
		}
	}

	archs := maps.Keys(total)
	slices.Sort(archs)

	out := make([]string, 0, len(archs))
	for _, a := range archs {
		out = append(out, fmt.Sprintf("%s: %s run(s), %s failed", a,
			humanize.Comma(int64(total[a])), humanize.Comma(int64(failed[a]))))
	}
	return out
}
