package search

import (
	"lime/internal/arch"
	"lime/internal/cost"
	"lime/internal/placement"
	"lime/internal/progstate"
)

type exhaustiveResult struct {
	cost    cost.Cost
	program *progstate.Program
	outputs []arch.Cell
}

// exhaustiveSearch explores every legal placement branch at every step,
// keeping the cheapest complete program found (ties broken toward fewer
// cells). Ground truth: compilation::mod::exhaustive_search /
// exhaustive_search_recurse, collapsing the Rust version's single
// no-op-delta seeding idiom (needed there to fit one uniform recursive
// loop shape) into a direct empty-candidates base case — behaviorally
// identical, since replaying a no-op delta changes nothing before that
// check runs.
func exhaustiveSearch(p *placement.Params, sel CandidateSelector, st *progstate.State) (*progstate.Program, []arch.Cell, bool) {
	var best *exhaustiveResult
	exhaustiveRecurse(p, sel, st.Savepoint(), &best)
	if best == nil {
		return nil, nil, false
	}
	return best.program, best.outputs, true
}

func exhaustiveRecurse(p *placement.Params, sel CandidateSelector, sp *progstate.StateSavepoint, best **exhaustiveResult) {
	if sp.Candidates().Len() == 0 {
		program, outputs, ok := finalize(p, sp)
		sp.Rollback()
		if !ok {
			return
		}
		c := ProgramCost(p.Cost, program)
		if *best == nil || c.Less((*best).cost) ||
			(c == (*best).cost && (*best).program.NumCells() > program.NumCells()) {
			*best = &exhaustiveResult{cost: c, program: program, outputs: outputs}
		}
		return
	}

	for _, delta := range step(p, sp, sel) {
		child := sp.Savepoint()
		child.Replay(delta)
		exhaustiveRecurse(p, sel, child, best)
		child.Rollback()
	}
}
