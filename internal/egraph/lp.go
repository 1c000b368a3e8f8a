package egraph

import (
	"lime/internal/arch"
	"lime/internal/cost"
	"lime/internal/network"
)

// LpCost prices instruction-e-graph nodes for ExtractLP: an instruction
// type costs whatever the OperationCost model assigns it, and accessing
// a class at a polarity its producing instruction type does not
// naturally offer costs an extra estimated inversion charge. Ground
// truth: lime-rs:crates/generic/src/egraph/transform.rs's
// LpInversionCostFunction.
type LpCost struct {
	oc         cost.OperationCost
	invCost    float64
	instrCache map[int]instrCostEntry
}

type instrCostEntry struct {
	cost         float64
	freeInverted bool
	freeNormal   bool
}

// NewLpCost builds an LpCost over architecture a's instruction set,
// estimating the cost of a stand-alone inversion as one more than the
// architecture's cheapest instruction — no copy-graph-derived estimate is
// attempted here since that would require a concrete source/target cell
// pair this context doesn't have; see DESIGN.md.
func NewLpCost(a arch.Architecture, oc cost.OperationCost) *LpCost {
	return &LpCost{oc: oc, invCost: estimateInversionCost(a, oc), instrCache: make(map[int]instrCostEntry)}
}

func estimateInversionCost(a arch.Architecture, oc cost.OperationCost) float64 {
	best := -1.0
	for _, instr := range a.Instructions() {
		if c := float64(oc.InstructionCost(instr.ID)); best < 0 || c < best {
			best = c
		}
	}
	if best < 0 {
		return 1
	}
	return best + 1
}

func (l *LpCost) entry(a arch.Architecture, typeID int) instrCostEntry {
	if e, ok := l.instrCache[typeID]; ok {
		return e
	}
	instr := a.Instruction(typeID)
	e := instrCostEntry{
		cost:         float64(l.oc.InstructionCost(typeID)),
		freeInverted: instr.Function.Inverted,
		freeNormal:   !instr.Function.Inverted,
	}
	l.instrCache[typeID] = e
	return e
}

// nodeCost prices n on its own, not counting children (ExtractLP sums
// those separately).
func (l *LpCost) nodeCost(a arch.Architecture, n InstrNode) float64 {
	switch n.Kind {
	case InstrFalse, InstrInput:
		return 0
	case InstrInstruction:
		return l.entry(a, n.InstructionType).cost
	case InstrValue:
		switch n.InstructionType {
		case -1: // Input: only the natural, non-inverted polarity is free
			if n.Inverted {
				return l.invCost
			}
			return 0
		case -2: // constant: both literal cells are equally free
			return 0
		default:
			e := l.entry(a, n.InstructionType)
			if n.Inverted && e.freeInverted {
				return 0
			}
			if !n.Inverted && e.freeNormal {
				return 0
			}
			return l.invCost
		}
	default:
		return 0
	}
}

// LPChoice is one class's chosen node plus its own cost and the total
// cost of its whole subtree.
type LPChoice struct {
	Node  InstrNode
	Own   float64
	Total float64
}

// ExtractLP runs the per-class-minimum fixed point spec.md §4.H calls
// for: repeatedly recompute every class's cheapest node (its own cost
// plus its children's already-known totals) until a pass finds no
// improvement. This is the textbook solution to "pick one node per
// class, minimize the sum" — not a general LP solver, matching DESIGN.md
// §internal/egraph's note that no LP library appears anywhere in the
// example pack. Ground truth:
// lime-rs:crates/generic/src/egraph/opt_extractor.rs, reused for this
// language exactly as comp_extraction.rs's cost function reuses it for
// CompileOracle.
func ExtractLP(ig *InstrGraph, a arch.Architecture, lc *LpCost) map[int]LPChoice {
	best := make(map[int]LPChoice)
	classes := ig.Classes()
	for {
		changed := false
		for _, id := range classes {
			for _, n := range ig.Nodes(id) {
				if instrHasSelfChild(ig, id, n.Children) {
					continue
				}
				childTotal, ok := sumChildrenCost(ig, n.Children, best)
				if !ok {
					continue
				}
				own := lc.nodeCost(a, n)
				total := own + childTotal
				if prev, has := best[id]; !has || total < prev.Total {
					best[id] = LPChoice{Node: n, Own: own, Total: total}
					changed = true
				}
			}
		}
		if !changed {
			return best
		}
	}
}

func instrHasSelfChild(ig *InstrGraph, root int, children []int) bool {
	for _, c := range children {
		if ig.Find(c) == root {
			return true
		}
	}
	return false
}

func sumChildrenCost(ig *InstrGraph, children []int, best map[int]LPChoice) (float64, bool) {
	total := 0.0
	for _, c := range children {
		ch, ok := best[ig.Find(c)]
		if !ok {
			return 0, false
		}
		total += ch.Total
	}
	return total, true
}

func gateFunctionToNetworkKind(gk arch.GateKind) (network.Kind, bool) {
	switch gk {
	case arch.GateAnd:
		return network.KindAnd, true
	case arch.GateXor:
		return network.KindXor, true
	case arch.GateMaj:
		return network.KindMaj, true
	default:
		return 0, false
	}
}

// RebuildNetwork walks the chosen nodes of an LP extraction back into a
// concrete network, the way rebuild_network does in the original: each
// class is visited once (memoized), an InstrInstruction node negates each
// operand its instruction type reads inverted and applies the type's
// natural output inversion when materializing the gate, and an InstrValue
// wrapper applies its own requested-access
// inversion on top of that. Returns the rebuilt network, the original
// input ordinals referenced in the order their CreateInput calls were
// made (so a caller can slice its own input-cell list down to match),
// and the extraction's total estimated cost.
func RebuildNetwork(ig *InstrGraph, a arch.Architecture, outputs []int, best map[int]LPChoice) (net *network.MIG, usedOrdinals []int, total float64, ok bool) {
	b := network.NewBuilder()
	memo := make(map[int]network.Signal)
	inputSignals := make(map[int]network.Signal)
	ok = true

	var build func(id int) network.Signal
	build = func(id int) network.Signal {
		id = ig.Find(id)
		if sig, cached := memo[id]; cached {
			return sig
		}
		ch, has := best[id]
		if !has {
			ok = false
			return network.Signal{}
		}
		total += ch.Own
		var sig network.Signal
		switch ch.Node.Kind {
		case InstrFalse:
			sig = b.CreateConstant()
		case InstrInput:
			if s, seen := inputSignals[ch.Node.InputOrdinal]; seen {
				sig = s
			} else {
				sig = b.CreateInput()
				inputSignals[ch.Node.InputOrdinal] = sig
				usedOrdinals = append(usedOrdinals, ch.Node.InputOrdinal)
			}
		case InstrValue:
			inner := build(ch.Node.Children[0])
			if ch.Node.Inverted {
				inner = inner.Not()
			}
			sig = inner
		case InstrInstruction:
			instr := a.Instruction(ch.Node.InstructionType)
			ins := make([]network.Signal, len(ch.Node.Children))
			for i, c := range ch.Node.Children {
				ins[i] = build(c)
				if instr.InputInverted.Contains(i) {
					ins[i] = ins[i].Not()
				}
			}
			gk, gateOK := gateFunctionToNetworkKind(instr.GateFunction())
			if !gateOK {
				ok = false
				return network.Signal{}
			}
			raw := b.CreateGate(gk, ins)
			if instr.Function.Inverted {
				raw = raw.Not()
			}
			sig = raw
		}
		memo[id] = sig
		return sig
	}

	outSigs := make([]network.Signal, len(outputs))
	for i, id := range outputs {
		outSigs[i] = build(id)
	}
	if !ok {
		return nil, nil, 0, false
	}
	return b.Build(outSigs), usedOrdinals, total, true
}
