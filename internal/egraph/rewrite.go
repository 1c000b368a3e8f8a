package egraph

import "lime/internal/network"

// ConstantClass returns the class holding net's single constant node,
// found by scanning the node ids FromNetwork already visited.
func ConstantClass(net network.Network, byNode map[network.NodeID]ID) (ID, bool) {
	for i := 0; i < net.Size(); i++ {
		if net.Node(network.NodeID(i)).Kind == network.KindConstant {
			return byNode[network.NodeID(i)], true
		}
	}
	return 0, false
}

// Rewrite runs up to rounds passes of local Boolean-identity rewriting
// (idempotency, annihilation/identity against the constant, and
// complement cancellation) followed by Rebuild, stopping early once a
// pass finds nothing left to union. It is deliberately narrower than a
// general equality-saturation rewriter (no associativity/distributivity,
// no rule-driven e-matching) — spec.md §1 places the rewriting engine
// itself out of scope; this pass exists so the extractors in
// compextract.go/transform.go see a graph that has already collapsed the
// cheap, unconditionally-valid redundancies. Ground truth for which
// identities matter: lime-rs:crates/generic/src/untyped_ntk.rs's
// create_rewrites (and-ident/annulment/idempotency/complement,
// xor-identity/annulment, maj-majority).
func Rewrite(g *EGraph, falseClass ID, rounds int) {
	trueClass := g.Complement(falseClass)
	for r := 0; r < rounds; r++ {
		if !rewritePass(g, falseClass, trueClass) {
			return
		}
		g.Rebuild()
	}
}

func rewritePass(g *EGraph, falseClass, trueClass ID) bool {
	type item struct {
		root ID
		node ENode
	}
	var items []item
	for _, id := range g.Classes() {
		for _, n := range g.Nodes(id) {
			items = append(items, item{id, n})
		}
	}
	changed := false
	for _, it := range items {
		root := g.Find(it.root)
		if target, ok := simplify(g, it.node, falseClass, trueClass); ok && g.Find(target) != root {
			g.Union(root, target)
			changed = true
		}
	}
	return changed
}

// simplify evaluates the local identities for one node, returning the
// class its result must equal, if any identity fires.
func simplify(g *EGraph, n ENode, falseClass, trueClass ID) (ID, bool) {
	switch n.Kind {
	case network.KindAnd:
		return simplifyAnd(g, n.Children, falseClass, trueClass)
	case network.KindXor:
		return simplifyXor(g, n.Children, falseClass, trueClass)
	case network.KindMaj:
		return simplifyMaj(g, n.Children, falseClass, trueClass)
	default:
		return 0, false
	}
}

func simplifyAnd(g *EGraph, children []ID, falseClass, trueClass ID) (ID, bool) {
	seen := make(map[ID]bool, len(children))
	for _, c := range children {
		c = g.Find(c)
		if c == falseClass {
			return falseClass, true
		}
		if seen[g.Complement(c)] {
			return falseClass, true
		}
		seen[c] = true
	}
	var kept []ID
	for _, c := range children {
		c = g.Find(c)
		if c == trueClass {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return trueClass, true
	}
	if len(kept) == 1 {
		return kept[0], true
	}
	if uniq, ok := dedupe(kept); ok {
		if len(uniq) == 1 {
			return uniq[0], true
		}
		if len(uniq) < len(children) {
			return g.AddNode(ENode{Kind: network.KindAnd, Children: uniq}), true
		}
	}
	return 0, false
}

func simplifyXor(g *EGraph, children []ID, falseClass, trueClass ID) (ID, bool) {
	if len(children) != 2 {
		return 0, false
	}
	a, b := g.Find(children[0]), g.Find(children[1])
	switch {
	case a == b:
		return falseClass, true
	case g.Complement(a) == b:
		return trueClass, true
	case a == falseClass:
		return b, true
	case b == falseClass:
		return a, true
	case a == trueClass:
		return g.Complement(b), true
	case b == trueClass:
		return g.Complement(a), true
	default:
		return 0, false
	}
}

func simplifyMaj(g *EGraph, children []ID, falseClass, trueClass ID) (ID, bool) {
	if len(children) != 3 {
		return 0, false
	}
	ids := []ID{g.Find(children[0]), g.Find(children[1]), g.Find(children[2])}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			if ids[i] == ids[j] {
				return ids[i], true
			}
			if g.Complement(ids[i]) == ids[j] {
				k := 3 - i - j
				return ids[k], true
			}
		}
	}
	return 0, false
}

// dedupe removes duplicate classes from ids, reporting whether anything
// changed.
func dedupe(ids []ID) ([]ID, bool) {
	out := make([]ID, 0, len(ids))
	seen := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, len(out) != len(ids)
}
