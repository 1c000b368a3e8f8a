package copygraph

import (
	"container/heap"

	"lime/internal/arch"
	"lime/internal/cost"
)

// iNode is one vertex of the shortest-path search over the copy graph: a
// cell pattern, the inversion parity accumulated on the path to it, and
// whether it was reached by a type<->cell refinement jump rather than a
// real instruction — jumping is allowed at most once in a row, so a
// jumped-to vertex cannot jump again until it first crosses a genuine
// copy-graph edge.
type iNode struct {
	pat      arch.CellPat
	inverted bool
	jumped   bool
}

func (n iNode) allowed(forbidden map[arch.Cell]struct{}) bool {
	if n.pat.Any {
		return true
	}
	_, blocked := forbidden[n.pat.Cell()]
	return !blocked
}

type viaKind int

const (
	// viaFromParent: this cell vertex was reached by jumping down from
	// its type wildcard.
	viaFromParent viaKind = iota
	// viaFromChild: this type-wildcard vertex was reached by jumping up
	// from the specific cell at childIdx.
	viaFromChild
	// viaOperation: this vertex was reached over a real copy-graph edge.
	viaOperation
)

// via records how a vertex was first reached during the search.
type via struct {
	kind     viaKind
	childIdx uint32
	from     iNode
	edge     *Edge
}

func (v via) addCost(c cost.Cost) cost.Cost {
	if v.kind == viaOperation {
		return c.Add(v.edge.Cost)
	}
	return c
}

type edgeNext struct {
	via  via
	node iNode
}

func neighboursForEdges(from iNode, to arch.CellPat, edges *edgePair) []edgeNext {
	var out []edgeNext
	for _, e := range edges {
		if e == nil {
			continue
		}
		out = append(out, edgeNext{
			via:  via{kind: viaOperation, from: from, edge: e},
			node: iNode{pat: to, inverted: from.inverted != e.Inverted, jumped: false},
		})
	}
	return out
}

func neighboursForTypeNodes(from iNode, ftn *fromTypeNode) []edgeNext {
	if ftn == nil {
		return nil
	}
	var out []edgeNext
	for dstType, node := range ftn.byType {
		out = append(out, neighboursForEdges(from, arch.TypePat(dstType), &node.value)...)
		for idx, edges := range node.children {
			out = append(out, neighboursForEdges(from, arch.ExactPat(arch.Cell{Type: dstType, Index: idx}), edges)...)
		}
	}
	return out
}

func filterAllowed(in []edgeNext, forbidden map[arch.Cell]struct{}) []edgeNext {
	out := in[:0]
	for _, e := range in {
		if e.node.allowed(forbidden) {
			out = append(out, e)
		}
	}
	return out
}

// startOperations returns the neighbours reachable from the search's
// starting vertex via a real instruction — the very first step may never
// be a refinement jump.
func startOperations(g *CopyGraph, from iNode, forbidden map[arch.Cell]struct{}) []edgeNext {
	typeNode, ok := g.nodes[from.pat.Type]
	if !ok {
		return nil
	}
	out := neighboursForTypeNodes(from, typeNode.value)
	if !from.pat.Any {
		if child, ok := typeNode.children[from.pat.Index]; ok {
			out = append(out, neighboursForTypeNodes(from, child)...)
		}
	}
	return filterAllowed(out, forbidden)
}

// neighboursOfNode returns every vertex reachable from node in one step:
// a refinement jump (if node hasn't just jumped) plus every real
// copy-graph edge out of it.
func neighboursOfNode(g *CopyGraph, node iNode, forbidden map[arch.Cell]struct{}) []edgeNext {
	typeNode, ok := g.nodes[node.pat.Type]
	if !ok {
		return nil
	}
	var out []edgeNext
	if node.pat.Any {
		if !node.jumped {
			for idx := range typeNode.children {
				out = append(out, edgeNext{
					via:  via{kind: viaFromParent},
					node: iNode{pat: arch.ExactPat(arch.Cell{Type: node.pat.Type, Index: idx}), inverted: node.inverted, jumped: true},
				})
			}
		}
		out = append(out, neighboursForTypeNodes(node, typeNode.value)...)
	} else {
		if !node.jumped {
			out = append(out, edgeNext{
				via:  via{kind: viaFromChild, childIdx: node.pat.Index},
				node: iNode{pat: arch.TypePat(node.pat.Type), inverted: node.inverted, jumped: true},
			})
		}
		if child, ok := typeNode.children[node.pat.Index]; ok {
			out = append(out, neighboursForTypeNodes(node, child)...)
		}
	}
	return filterAllowed(out, forbidden)
}

type heapItem struct {
	cost cost.Cost
	node iNode
}

type nodeHeap []heapItem

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].cost.Less(h[j].cost) }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(heapItem)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type findPathResult struct {
	cost  cost.Cost
	from  iNode
	to    iNode
	trace map[iNode]via
}

func matchesNode(to arch.CellPat, invert bool) func(iNode) bool {
	return func(n iNode) bool {
		if n.inverted != invert {
			return false
		}
		if n.pat == to {
			return true
		}
		return n.pat.Any && n.pat.Type == to.Type
	}
}

// findPath runs a Dijkstra search from a freshly-entered starting pattern
// to the cheapest vertex satisfying matches, over the copy graph's
// instruction edges plus type<->cell refinement jumps.
func findPath(g *CopyGraph, from arch.CellPat, forbidden map[arch.Cell]struct{}, matches func(iNode) bool) (findPathResult, bool) {
	start := iNode{pat: from, inverted: false, jumped: true}
	costs := make(map[iNode]cost.Cost)
	trace := make(map[iNode]via)
	visited := make(map[iNode]struct{})
	pq := &nodeHeap{}

	visit := func(node iNode, c cost.Cost, v via) {
		if prev, ok := costs[node]; ok && !c.Less(prev) {
			return
		}
		costs[node] = c
		trace[node] = v
		heap.Push(pq, heapItem{cost: c, node: node})
	}

	for _, e := range startOperations(g, start, forbidden) {
		visit(e.node, e.via.edge.Cost, e.via)
	}

	var result *heapItem
	for pq.Len() > 0 {
		item := heap.Pop(pq).(heapItem)
		if _, seen := visited[item.node]; seen {
			continue
		}
		visited[item.node] = struct{}{}

		if matches(item.node) && (result == nil || item.cost.Less(result.cost)) {
			r := item
			result = &r
		}

		for _, e := range neighboursOfNode(g, item.node, forbidden) {
			if result != nil && result.cost.Less(item.cost) {
				continue
			}
			visit(e.node, e.via.addCost(item.cost), e.via)
		}
	}

	if result == nil {
		return findPathResult{}, false
	}
	return findPathResult{cost: result.cost, from: start, to: result.node, trace: trace}, true
}

// DirectEdgesFromPat returns every instruction-level edge reachable in one
// hop directly out of pat, with no refinement jump — the neighbour set
// force-spill searches for a relocation target, and the neighbour set a
// spill-cost estimate is averaged over.
func DirectEdgesFromPat(g *CopyGraph, pat arch.CellPat) []Match {
	start := iNode{pat: pat, inverted: false, jumped: true}
	edges := startOperations(g, start, nil)
	out := make([]Match, len(edges))
	for i, e := range edges {
		out[i] = Match{From: pat, To: e.node.pat, Edge: e.via.edge}
	}
	return out
}

// CopyCost returns the cheapest known cost of routing the signal on a
// cell matching from to a cell matching to at the requested inversion,
// never crossing a forbidden cell. ok is false if no such route exists.
func CopyCost(g *CopyGraph, from arch.CellPat, to arch.CellPat, invert bool, forbidden map[arch.Cell]struct{}) (c cost.Cost, ok bool) {
	result, found := findPath(g, from, forbidden, matchesNode(to, invert))
	if !found {
		return 0, false
	}
	return result.cost, true
}

// PathMemo remembers a path findPath discovered well enough to replay it
// later, once the caller is ready to actually place cells.
type PathMemo struct {
	result findPathResult
}

// CopyCostWithPath is CopyCost plus a replayable memo of the path found.
func CopyCostWithPath(g *CopyGraph, from arch.CellPat, to arch.CellPat, invert bool, forbidden map[arch.Cell]struct{}) (c cost.Cost, memo PathMemo, ok bool) {
	result, found := findPath(g, from, forbidden, matchesNode(to, invert))
	if !found {
		return 0, PathMemo{}, false
	}
	return result.cost, PathMemo{result: result}, true
}

// PathStep is one instruction edge of a reconstructed copy path: the edge
// to instantiate, and the cell pattern its output must satisfy.
type PathStep struct {
	Edge *Edge
	To   arch.CellPat
}

// Steps walks the memoized search trace backward from the matched vertex
// to the search's starting pattern and returns them in forward order: the
// starting pattern, plus the ordered edges to instantiate from there.
func (m PathMemo) Steps() (arch.CellPat, []PathStep) {
	trace := m.result.trace
	var path []PathStep
	curr := m.result.to
	for {
		if curr == m.result.from && len(path) > 0 {
			break
		}
		v, ok := trace[curr]
		if !ok {
			break
		}

		var pathNode arch.CellPat
		var opVia via
		switch v.kind {
		case viaFromChild:
			child := iNode{pat: arch.ExactPat(arch.Cell{Type: curr.pat.Type, Index: v.childIdx}), inverted: curr.inverted, jumped: false}
			pathNode = child.pat
			opVia, ok = trace[child]
			if !ok {
				panic("copygraph: jump predecessor missing from path trace")
			}
		case viaFromParent:
			pathNode = curr.pat
			parent := iNode{pat: arch.TypePat(curr.pat.Type), inverted: curr.inverted, jumped: false}
			opVia, ok = trace[parent]
			if !ok {
				panic("copygraph: jump predecessor missing from path trace")
			}
		default:
			pathNode = curr.pat
			opVia = v
		}
		if opVia.kind != viaOperation {
			panic("copygraph: unexpected jump chain in path trace")
		}

		path = append(path, PathStep{Edge: opVia.edge, To: pathNode})
		curr = opVia.from
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return curr.pat, path
}
