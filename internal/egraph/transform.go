package egraph

import (
	"fmt"

	"lime/internal/arch"
	"lime/internal/network"
)

// InstrKind enumerates the node shapes of the instruction e-graph
// transform_egraph builds: one whose nodes name concrete architecture
// instruction types instead of raw gate kinds, so an LP-style extractor
// can pick, per class, not just a gate shape but a specific instruction
// encoding of it. Ground truth:
// lime-rs:crates/generic/src/egraph/transform.rs's
// InstructionEGraphLanguage (Dummy is this port's placeholder kind,
// dropped before the transform returns, same as the original).
type InstrKind int

const (
	InstrInput InstrKind = iota
	InstrFalse
	InstrInstruction
	InstrValue
	instrDummy
)

// InstrNode is one node of the instruction e-graph.
type InstrNode struct {
	Kind InstrKind

	InputOrdinal int // InstrInput

	InstructionType int   // InstrInstruction, InstrValue
	Children        []int // InstrInstruction: gate operands; InstrValue: the single wrapped instruction class
	Arity           int   // InstrValue
	Inverted        bool  // InstrValue

	dummyID int // instrDummy
}

// InstrGraph is the union-find e-graph over InstrNode, paralleling
// EGraph's shape but kept separate since the two languages (Boolean gate
// kind vs. concrete instruction type) have nothing in common.
type InstrGraph struct {
	parent   []int
	classes  map[int][]InstrNode
	hashcons map[string]int
}

func newInstrGraph() *InstrGraph {
	return &InstrGraph{classes: make(map[int][]InstrNode), hashcons: make(map[string]int)}
}

func (g *InstrGraph) fresh(nodes []InstrNode) int {
	id := len(g.parent)
	g.parent = append(g.parent, id)
	g.classes[id] = nodes
	return id
}

// Find returns the canonical representative of id's class.
func (g *InstrGraph) Find(id int) int {
	for g.parent[id] != id {
		g.parent[id] = g.parent[g.parent[id]]
		id = g.parent[id]
	}
	return id
}

// Union merges a's and b's classes.
func (g *InstrGraph) Union(a, b int) int {
	a, b = g.Find(a), g.Find(b)
	if a == b {
		return a
	}
	if len(g.classes[a]) < len(g.classes[b]) {
		a, b = b, a
	}
	g.parent[b] = a
	g.classes[a] = append(g.classes[a], g.classes[b]...)
	delete(g.classes, b)
	return a
}

func (g *InstrGraph) canon(n InstrNode) InstrNode {
	children := make([]int, len(n.Children))
	for i, c := range n.Children {
		children[i] = g.Find(c)
	}
	n.Children = children
	return n
}

func instrKey(n InstrNode) string {
	return fmt.Sprintf("%d:%d:%d:%d:%v:%v", n.Kind, n.InputOrdinal, n.InstructionType, n.Arity, n.Inverted, n.Children)
}

// Add hashconses n into the graph, returning its class.
func (g *InstrGraph) Add(n InstrNode) int {
	n = g.canon(n)
	key := instrKey(n)
	if id, ok := g.hashcons[key]; ok {
		return g.Find(id)
	}
	id := g.fresh([]InstrNode{n})
	g.hashcons[key] = id
	return id
}

// Classes returns every live class id.
func (g *InstrGraph) Classes() []int {
	out := make([]int, 0, len(g.classes))
	for id := range g.classes {
		if g.Find(id) == id {
			out = append(out, id)
		}
	}
	return out
}

// Nodes returns the InstrNodes recorded for id's class.
func (g *InstrGraph) Nodes(id int) []InstrNode { return g.classes[g.Find(id)] }

func gateFunctionOf(k network.Kind) (arch.GateKind, bool) {
	switch k {
	case network.KindAnd:
		return arch.GateAnd, true
	case network.KindXor:
		return arch.GateXor, true
	case network.KindMaj:
		return arch.GateMaj, true
	default:
		return 0, false
	}
}

type transformState struct {
	orig         *EGraph
	ig           *InstrGraph
	arch         arch.Architecture
	mappings     map[ID][2]int
	dummyCounter int
}

// mapped returns the [non-negated, negated] instruction-graph class pair
// standing in for original class id, creating (and linking via two fresh
// placeholder classes) the pair on first use. A class whose complement
// class is already mapped reuses the complement's pair with its two
// entries swapped.
func (s *transformState) mapped(id ID) [2]int {
	id = s.orig.Find(id)
	if m, ok := s.mappings[id]; ok {
		return m
	}
	if c, ok := s.orig.complement[id]; ok {
		if m, ok := s.mappings[s.orig.Find(c)]; ok {
			swapped := [2]int{m[1], m[0]}
			s.mappings[id] = swapped
			return swapped
		}
	}
	d1 := s.ig.fresh([]InstrNode{{Kind: instrDummy, dummyID: s.dummyCounter}})
	s.dummyCounter++
	d2 := s.ig.fresh([]InstrNode{{Kind: instrDummy, dummyID: s.dummyCounter}})
	s.dummyCounter++
	m := [2]int{d1, d2}
	s.mappings[id] = m
	return m
}

func boolIdx(b bool) int {
	if b {
		return 1
	}
	return 0
}

// instructionEclasses enumerates, for one concrete ENode, every
// (instructionClass, instructionTypeID, instructionInverted) triple: one
// per architecture instruction type whose gate function and arity match
// the node. Ground truth:
// transform.rs::TransformationState::build_instruction_eclasses (the
// is_not() branch there has no counterpart here — this port has no
// explicit Not node; inversion is already folded into EGraph's
// complement pairing, per egraph.go's doc comment).
func (s *transformState) instructionEclasses(n ENode) []struct {
	class    int
	typeID   int
	inverted bool
} {
	var out []struct {
		class    int
		typeID   int
		inverted bool
	}
	switch n.Kind {
	case network.KindInput:
		out = append(out, struct {
			class    int
			typeID   int
			inverted bool
		}{s.ig.Add(InstrNode{Kind: InstrInput, InputOrdinal: n.Ordinal}), -1, false})
	case network.KindConstant:
		out = append(out, struct {
			class    int
			typeID   int
			inverted bool
		}{s.ig.Add(InstrNode{Kind: InstrFalse}), -2, false})
	default:
		gate, ok := gateFunctionOf(n.Kind)
		if !ok {
			return nil
		}
		arity := len(n.Children)
		for _, instr := range s.arch.Instructions() {
			if instr.GateFunction() != gate {
				continue
			}
			if fixed, isFixed := instr.Arity(); isFixed && fixed != arity {
				continue
			}
			children := make([]int, len(n.Children))
			for i, c := range n.Children {
				children[i] = s.mapped(c)[boolIdx(instr.InputInverted.Contains(i))]
			}
			class := s.ig.Add(InstrNode{Kind: InstrInstruction, InstructionType: instr.ID, Children: children})
			out = append(out, struct {
				class    int
				typeID   int
				inverted bool
			}{class, instr.ID, instr.Function.Inverted})
		}
	}
	return out
}

// Transform builds the instruction e-graph from g's gate-shaped classes,
// per architecture a, and returns it alongside outputs re-expressed as
// instruction-graph classes (the uninverted/"index 0" view of each output
// id, since g's outputs are already polarity-resolved — see
// EGraph.FromNetwork). Ground truth: transform.rs::transform_egraph.
func Transform(g *EGraph, a arch.Architecture, outputs []ID) (*InstrGraph, []int) {
	s := &transformState{orig: g, ig: newInstrGraph(), arch: a, mappings: make(map[ID][2]int)}

	for _, eclass := range g.Classes() {
		mappedIDs := s.mapped(eclass)
		for _, n := range g.Nodes(eclass) {
			for _, t := range s.instructionEclasses(n) {
				for _, accessInverted := range [2]bool{true, false} {
					access := s.ig.Add(InstrNode{
						Kind:            InstrValue,
						InstructionType: t.typeID,
						Arity:           len(n.Children),
						Inverted:        accessInverted,
						Children:        []int{t.class},
					})
					idx := boolIdx(t.inverted != accessInverted)
					s.ig.Union(mappedIDs[idx], access)
				}
			}
		}
	}

	for id, nodes := range s.ig.classes {
		if s.ig.Find(id) != id {
			continue
		}
		var kept []InstrNode
		for _, n := range nodes {
			if n.Kind != instrDummy {
				kept = append(kept, n)
			}
		}
		s.ig.classes[id] = kept
	}

	outs := make([]int, len(outputs))
	for i, id := range outputs {
		outs[i] = s.ig.Find(s.mappings[s.orig.Find(id)][0])
	}
	return s.ig, outs
}
