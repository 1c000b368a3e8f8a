package main

import (
	"strconv"

	"github.com/pkg/errors"

	"lime/internal/compiler"
	"lime/internal/search"
)

// parseSettings turns spec.md §6's positional mode/candidate-selection/
// rewriting-mode/rewriting-size-factor strings into a compiler.Settings.
func parseSettings(mode, selection, rewriting, sizeFactor string) (compiler.Settings, error) {
	var s compiler.Settings

	switch mode {
	case "greedy":
		s.Mode = search.Greedy
	case "exhaustive":
		s.Mode = search.Exhaustive
	default:
		return s, errors.Errorf("unknown mode %q (want greedy or exhaustive)", mode)
	}

	switch selection {
	case "all":
		s.CandidateSelection = search.AllCandidatesSelection
	case "mig-based":
		s.CandidateSelection = search.MIGBasedSelection
	default:
		return s, errors.Errorf("unknown candidate-selection %q (want all or mig-based)", selection)
	}

	switch rewriting {
	case "none":
		s.RewritingStrategy = compiler.RewriteNone
	case "lp":
		s.RewritingStrategy = compiler.RewriteLP
	case "compiling":
		s.RewritingStrategy = compiler.RewriteCompiling
	case "compiling-memusage":
		s.RewritingStrategy = compiler.RewriteCompilingMemusage
	case "greedy-estimate":
		s.RewritingStrategy = compiler.RewriteGreedyEstimate
	default:
		return s, errors.Errorf("unknown rewriting-mode %q", rewriting)
	}

	n, err := strconv.Atoi(sizeFactor)
	if err != nil {
		return s, errors.Wrapf(err, "invalid rewriting-size-factor %q", sizeFactor)
	}
	s.SizeFactor = n

	return s, nil
}
