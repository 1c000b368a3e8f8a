package search

import (
	"lime/internal/network"
	"lime/internal/progstate"
)

// CandidateSelector picks, from the current candidate frontier, the
// subset the next compilation step should actually try to place. Ground
// truth: compilation::candidate_selection::CandidateSelector.
type CandidateSelector interface {
	SelectCandidates(net network.Network, sp *progstate.StateSavepoint) []network.NodeID
}

// AllCandidates tries every current candidate each step: the exhaustive
// default used by CandidateSelection.All.
type AllCandidates struct{}

func (AllCandidates) SelectCandidates(net network.Network, sp *progstate.StateSavepoint) []network.NodeID {
	return sp.Candidates().Ids()
}

// MIGBasedCandidateSelection picks exactly one candidate per step using
// the heuristic of Soeken et al.'s MIG-based LiM compiler. Candidates are
// scanned in order and replace the running best when they have more
// "releasing children" (fanins with exactly one fanout) or when their
// highest parent level is below the running best's lowest parent level
// (a network output counts as a parent one level above the network's
// maximum level). Ground truth:
// compilation::candidate_selection::MIGBasedCompilerCandidateSelection.
type MIGBasedCandidateSelection struct{}

func (MIGBasedCandidateSelection) SelectCandidates(net network.Network, sp *progstate.StateSavepoint) []network.NodeID {
	ids := sp.Candidates().Ids()
	if len(ids) == 0 {
		return nil
	}
	best := newMBCCandidate(net, sp, ids[0])
	for _, id := range ids[1:] {
		u := newMBCCandidate(net, sp, id)
		if u.releasingChildren > best.releasingChildren || u.largestLevelParent < best.smallestLevelParent {
			best = u
		}
	}
	return []network.NodeID{best.node}
}

type mbcCandidate struct {
	node                                   network.NodeID
	releasingChildren                      int
	smallestLevelParent, largestLevelParent int
}

func newMBCCandidate(net network.Network, sp *progstate.StateSavepoint, id network.NodeID) mbcCandidate {
	releasing := 0
	for _, fanin := range net.Node(id).Inputs {
		if len(net.Fanout(fanin.Node)) == 1 {
			releasing++
		}
	}

	parents := net.Fanout(id)
	levels := make([]int, 0, len(parents)+1)
	for _, p := range parents {
		levels = append(levels, net.Level(p))
	}
	if _, isOutput := sp.OutputIDs()[id]; isOutput {
		levels = append(levels, net.MaxLevel()+1)
	}

	smallest, largest := 0, 0
	if len(levels) > 0 {
		smallest, largest = levels[0], levels[0]
		for _, l := range levels[1:] {
			if l < smallest {
				smallest = l
			}
			if l > largest {
				largest = l
			}
		}
	}

	return mbcCandidate{
		node:                id,
		releasingChildren:   releasing,
		smallestLevelParent: smallest,
		largestLevelParent:  largest,
	}
}
