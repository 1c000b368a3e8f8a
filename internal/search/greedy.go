package search

import (
	"lime/internal/arch"
	"lime/internal/placement"
	"lime/internal/progstate"
)

// greedySearch repeatedly takes the single cheapest available placement
// step until no candidates remain, then finalizes. Ground truth:
// compilation::mod::greedy_search.
func greedySearch(p *placement.Params, sel CandidateSelector, st *progstate.State) (*progstate.Program, []arch.Cell, bool) {
	for {
		if st.Candidates().Len() == 0 {
			return finalize(p, st.Savepoint())
		}

		sp := st.Savepoint()
		deltas := step(p, sp, sel)
		sp.Rollback()
		if len(deltas) == 0 {
			return nil, nil, false
		}

		best := deltas[0]
		bestCost := deltaCost(p.Cost, best)
		for _, d := range deltas[1:] {
			if c := deltaCost(p.Cost, d); c.Less(bestCost) {
				best, bestCost = d, c
			}
		}

		commit := st.Savepoint()
		commit.Replay(best)
		commit.Retain()
	}
}
