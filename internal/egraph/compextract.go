package egraph

import (
	"lime/internal/arch"
	"lime/internal/copygraph"
	"lime/internal/cost"
	"lime/internal/network"
	"lime/internal/placement"
	"lime/internal/search"
)

// CompileOracle is component G's cost function: instead of summing a
// static per-instruction weight, it actually compiles a candidate's
// subnetwork — using the same placement/search machinery the top-level
// compiler uses — and reports the resulting program's real cost. Ground
// truth: lime-rs:crates/generic/src/egraph/comp_extraction.rs's
// CompilingCostFunction.
type CompileOracle struct {
	Arch       arch.Architecture
	Graph      *copygraph.CopyGraph
	Cost       cost.OperationCost
	InputCells []arch.Cell
	Mode       search.Mode
	Selection  search.Selection
	DisjunctIO bool
	// MemUsage reports num_cells instead of program cost, for the
	// "compiling-memusage" rewriting strategy (spec.md §6).
	MemUsage bool
}

// Choice is one class's currently-best ENode together with its cost.
type Choice struct {
	Node ENode
	Cost cost.Cost
}

// ExtractCompiling runs comp_extraction.rs's fixed-point loop: repeatedly
// recompute every class's cheapest node (skipping any node not yet fully
// determined, i.e. one of whose children has no chosen node yet, and any
// node that references its own class directly) until a full pass finds
// no improvement. Ground truth:
// lime-rs:crates/generic/src/egraph/opt_extractor.rs's OptExtractor /
// find_costs, specialized to CompileOracle's cost function.
func ExtractCompiling(g *EGraph, outputs []ID, oracle *CompileOracle) (map[ID]Choice, bool) {
	return extractFixedPoint(g, outputs, oracle.cost)
}

// ExtractGreedy runs the same fixed point with a trivial per-node cost (1
// per gate, 0 per leaf) instead of CompileOracle's compile-and-measure
// cost — the "greedy-estimate" rewriting strategy's cheap stand-in for a
// real compile, used when even comp_extraction.rs's recompilation is too
// slow to run per-candidate.
func ExtractGreedy(g *EGraph, outputs []ID) (map[ID]Choice, bool) {
	return extractFixedPoint(g, outputs, greedyCost)
}

func greedyCost(g *EGraph, n ENode, best map[ID]Choice) (cost.Cost, bool) {
	if n.Kind == network.KindInput || n.Kind == network.KindConstant {
		return 0, true
	}
	total := cost.Cost(1)
	for _, c := range n.Children {
		c = g.Find(c)
		ch, has := best[c]
		if !has {
			comp, hasComp := best[g.Complement(c)]
			if !hasComp {
				return 0, false
			}
			ch = comp
		}
		total = total.Add(ch.Cost)
	}
	return total, true
}

func extractFixedPoint(g *EGraph, outputs []ID, costOf func(*EGraph, ENode, map[ID]Choice) (cost.Cost, bool)) (map[ID]Choice, bool) {
	best := make(map[ID]Choice)
	classes := g.Classes()
	for {
		changed := false
		for _, id := range classes {
			for _, n := range g.Nodes(id) {
				if hasSelfChild(g, id, n.Children) {
					continue
				}
				if !allChildrenKnown(g, n.Children, best) {
					continue
				}
				c, ok := costOf(g, n, best)
				if !ok {
					continue
				}
				if prev, has := best[id]; !has || c.Less(prev.Cost) {
					best[id] = Choice{Node: n, Cost: c}
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	for _, id := range outputs {
		if !known(g, id, best) {
			return nil, false
		}
	}
	return best, true
}

func hasSelfChild(g *EGraph, root ID, children []ID) bool {
	for _, c := range children {
		if g.Find(c) == root {
			return true
		}
	}
	return false
}

func known(g *EGraph, id ID, best map[ID]Choice) bool {
	id = g.Find(id)
	if _, ok := best[id]; ok {
		return true
	}
	_, ok := best[g.Complement(id)]
	return ok
}

// cost builds the fully-expanded subnetwork rooted at n (recursively
// realizing every descendant's current best choice down to real primary
// inputs/the constant) and compiles it, returning its program cost or
// cell count. Leaf kinds (Input/Constant) are free: there is nothing to
// compile, the value already exists somewhere.
func (o *CompileOracle) cost(g *EGraph, n ENode, best map[ID]Choice) (cost.Cost, bool) {
	if n.Kind == network.KindInput || n.Kind == network.KindConstant {
		return 0, true
	}

	b := network.NewBuilder()
	memo := make(map[ID]network.Signal)
	inputSignals := make(map[int]network.Signal)
	var inputCells []arch.Cell
	ok := true

	var build func(id ID) network.Signal
	build = func(id ID) network.Signal {
		id = g.Find(id)
		if sig, cached := memo[id]; cached {
			return sig
		}
		ch, has := best[id]
		if !has {
			comp := g.Complement(id)
			if _, hasComp := best[comp]; !hasComp {
				ok = false
				return network.Signal{}
			}
			sig := build(comp).Not()
			memo[id] = sig
			return sig
		}
		var sig network.Signal
		switch ch.Node.Kind {
		case network.KindConstant:
			sig = b.CreateConstant()
		case network.KindInput:
			if s, seen := inputSignals[ch.Node.Ordinal]; seen {
				sig = s
			} else if ch.Node.Ordinal < len(o.InputCells) {
				sig = b.CreateInput()
				inputSignals[ch.Node.Ordinal] = sig
				inputCells = append(inputCells, o.InputCells[ch.Node.Ordinal])
			} else {
				ok = false
				return network.Signal{}
			}
		default:
			ins := make([]network.Signal, len(ch.Node.Children))
			for i, c := range ch.Node.Children {
				ins[i] = build(c)
			}
			sig = b.CreateGate(ch.Node.Kind, ins)
		}
		memo[id] = sig
		return sig
	}

	ins := make([]network.Signal, len(n.Children))
	for i, c := range n.Children {
		ins[i] = build(c)
	}
	if !ok {
		return 0, false
	}
	outSig := b.CreateGate(n.Kind, ins)
	sub := b.Build([]network.Signal{outSig})

	pp := &placement.Params{
		Arch:                o.Arch,
		Graph:               o.Graph,
		Net:                 sub,
		InputCells:          inputCells,
		Cost:                o.Cost,
		DisjunctInputOutput: o.DisjunctIO,
	}
	result, compiled := search.Compile(&search.Params{Params: pp, Mode: o.Mode, Selection: o.Selection})
	if !compiled {
		return 0, false
	}
	if o.MemUsage {
		return cost.Cost(result.Program.NumCells()), true
	}
	return search.ProgramCost(o.Cost, result.Program), true
}

// RebuildFromChoices materializes the network implied by a finished
// extraction's chosen nodes, the way the compiling/greedy-estimate
// rewriting strategies turn their best-per-class map into a concrete
// network to run the real search driver over. Returns the rebuilt
// network and the input cells referenced, in the order their signals
// were first created.
func RebuildFromChoices(g *EGraph, outputs []ID, best map[ID]Choice, allInputCells []arch.Cell) (*network.MIG, []arch.Cell, bool) {
	b := network.NewBuilder()
	memo := make(map[ID]network.Signal)
	inputSignals := make(map[int]network.Signal)
	var inputCells []arch.Cell
	ok := true

	var build func(id ID) network.Signal
	build = func(id ID) network.Signal {
		id = g.Find(id)
		if sig, cached := memo[id]; cached {
			return sig
		}
		ch, has := best[id]
		if !has {
			comp := g.Complement(id)
			if _, hasComp := best[comp]; !hasComp {
				ok = false
				return network.Signal{}
			}
			sig := build(comp).Not()
			memo[id] = sig
			return sig
		}
		var sig network.Signal
		switch ch.Node.Kind {
		case network.KindConstant:
			sig = b.CreateConstant()
		case network.KindInput:
			if s, seen := inputSignals[ch.Node.Ordinal]; seen {
				sig = s
			} else if ch.Node.Ordinal < len(allInputCells) {
				sig = b.CreateInput()
				inputSignals[ch.Node.Ordinal] = sig
				inputCells = append(inputCells, allInputCells[ch.Node.Ordinal])
			} else {
				ok = false
				return network.Signal{}
			}
		default:
			ins := make([]network.Signal, len(ch.Node.Children))
			for i, c := range ch.Node.Children {
				ins[i] = build(c)
			}
			sig = b.CreateGate(ch.Node.Kind, ins)
		}
		memo[id] = sig
		return sig
	}

	outSigs := make([]network.Signal, len(outputs))
	for i, id := range outputs {
		outSigs[i] = build(id)
	}
	if !ok {
		return nil, nil, false
	}
	return b.Build(outSigs), inputCells, true
}
