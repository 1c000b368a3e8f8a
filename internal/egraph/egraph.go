// Package egraph is a minimal union-find e-graph standing in for the
// external equality-saturation library spec.md §1 treats as out of
// scope ("an external e-graph library... consumed through the
// interfaces given in §6"): it hosts one equivalence class per distinct
// Boolean value, hashconses nodes for automatic common-subexpression
// sharing, and runs a small bounded set of local Boolean identities
// instead of full e-matching. Polarity (spec.md §3's Signal inversion)
// is modeled the way the network package already does it — by pairing
// every class with a complement class — rather than tagging individual
// edges, so extraction never has to reason about "this edge is
// inverted" separately from "this class's value is inverted".
//
// Components G and H (internal/egraph/compextract.go,
// internal/egraph/transform.go, internal/egraph/lp.go) are the actual
// extractors built on top of this structure; this file only provides
// the graph itself. Ground truth:
// lime-rs:crates/generic/src/egraph/mod.rs.
package egraph

import (
	"fmt"

	"golang.org/x/exp/slices"

	"lime/internal/network"
)

// ID names an equivalence class.
type ID int

// ENode is one way of computing a class's value: a gate kind (or Input/
// Constant for leaves) applied to a fixed list of already polarity-
// resolved child classes.
type ENode struct {
	Kind     network.Kind
	Ordinal  int // input ordinal, meaningful only for Kind == KindInput
	Children []ID
}

func commutative(k network.Kind) bool {
	switch k {
	case network.KindAnd, network.KindXor, network.KindMaj:
		return true
	default:
		return false
	}
}

// EGraph is the union-find e-graph: a forest of classes, each owning a
// (possibly empty) set of equivalent ENodes, plus a complement pairing
// used to resolve inverted references without per-edge polarity flags.
type EGraph struct {
	parent     []ID
	classes    map[ID][]ENode
	complement map[ID]ID
	hashcons   map[string]ID
}

// New returns an empty e-graph.
func New() *EGraph {
	return &EGraph{
		classes:    make(map[ID][]ENode),
		complement: make(map[ID]ID),
		hashcons:   make(map[string]ID),
	}
}

func (g *EGraph) freshClass(nodes []ENode) ID {
	id := ID(len(g.parent))
	g.parent = append(g.parent, id)
	g.classes[id] = nodes
	return id
}

// Find returns the canonical representative of id's class.
func (g *EGraph) Find(id ID) ID {
	for g.parent[id] != id {
		g.parent[id] = g.parent[g.parent[id]]
		id = g.parent[id]
	}
	return id
}

// Complement returns the class denoting the negation of id's value,
// creating a fresh, otherwise-unconstrained companion class the first
// time id's polarity is requested.
func (g *EGraph) Complement(id ID) ID {
	id = g.Find(id)
	if c, ok := g.complement[id]; ok {
		return g.Find(c)
	}
	c := g.freshClass(nil)
	g.complement[id] = c
	g.complement[c] = id
	return c
}

// Union merges a's and b's classes, along with their complements (NOT a
// == NOT b follows from a == b), and returns the surviving
// representative.
func (g *EGraph) Union(a, b ID) ID {
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

	ca, hasA := g.complement[a]
	cb, hasB := g.complement[b]
	delete(g.complement, b)
	switch {
	case hasA && hasB:
		g.complement[a] = ca
		g.Union(ca, cb)
	case hasB:
		g.complement[a] = cb
		g.complement[g.Find(cb)] = a
	case hasA:
		g.complement[a] = ca
	}
	return a
}

func nodeKey(n ENode) string {
	return fmt.Sprintf("%d:%d:%v", n.Kind, n.Ordinal, n.Children)
}

func (g *EGraph) canonicalize(n ENode) ENode {
	children := make([]ID, len(n.Children))
	for i, c := range n.Children {
		children[i] = g.Find(c)
	}
	if commutative(n.Kind) {
		slices.Sort(children)
	}
	n.Children = children
	return n
}

// AddNode inserts n (hashconsing it against any structurally identical
// node already present) and returns its class.
func (g *EGraph) AddNode(n ENode) ID {
	n = g.canonicalize(n)
	key := nodeKey(n)
	if id, ok := g.hashcons[key]; ok {
		return g.Find(id)
	}
	id := g.freshClass([]ENode{n})
	g.hashcons[key] = id
	return id
}

// Classes returns every live (canonical) class id.
func (g *EGraph) Classes() []ID {
	out := make([]ID, 0, len(g.classes))
	for id := range g.classes {
		if g.Find(id) == id {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Nodes returns the ENodes recorded for id's class.
func (g *EGraph) Nodes(id ID) []ENode {
	return g.classes[g.Find(id)]
}

// Rebuild restores hashcons congruence after Union calls have changed
// which classes children resolve to, merging any classes that now carry
// structurally-identical nodes. Ground truth: egg's EGraph::rebuild, the
// call the Rust rewriting_receiver makes after every rule application
// round (egraph/mod.rs).
func (g *EGraph) Rebuild() {
	for {
		type item struct {
			root ID
			node ENode
		}
		var items []item
		for id, nodes := range g.classes {
			if g.Find(id) != id {
				continue
			}
			for _, n := range nodes {
				items = append(items, item{root: id, node: n})
			}
		}
		next := make(map[string]ID)
		merged := false
		for _, it := range items {
			cn := g.canonicalize(it.node)
			key := nodeKey(cn)
			root := g.Find(it.root)
			if existing, ok := next[key]; ok {
				if er := g.Find(existing); er != root {
					g.Union(er, root)
					merged = true
				}
			} else {
				next[key] = root
			}
		}
		g.hashcons = next
		if !merged {
			return
		}
	}
}

// FromNetwork builds an e-graph from a concrete network, returning the
// graph, the class id for each network NodeID's uninverted value, and
// the (already polarity-resolved) output class ids in output order.
func FromNetwork(net network.Network) (g *EGraph, byNode map[network.NodeID]ID, outputs []ID) {
	g = New()
	byNode = make(map[network.NodeID]ID, net.Size())
	resolve := func(sig network.Signal) ID {
		base := byNode[sig.Node]
		if sig.Inverted {
			return g.Complement(base)
		}
		return base
	}
	inputOrdinal := 0
	for i := 0; i < net.Size(); i++ {
		id := network.NodeID(i)
		node := net.Node(id)
		switch node.Kind {
		case network.KindInput:
			byNode[id] = g.AddNode(ENode{Kind: network.KindInput, Ordinal: inputOrdinal})
			inputOrdinal++
		case network.KindConstant:
			byNode[id] = g.AddNode(ENode{Kind: network.KindConstant})
		default:
			children := make([]ID, len(node.Inputs))
			for i, sig := range node.Inputs {
				children[i] = resolve(sig)
			}
			byNode[id] = g.AddNode(ENode{Kind: node.Kind, Children: children})
		}
	}
	outputs = make([]ID, len(net.Outputs()))
	for i, sig := range net.Outputs() {
		outputs[i] = resolve(sig)
	}
	return g, byNode, outputs
}
