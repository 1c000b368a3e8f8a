// Package copygraph discovers, for every (from-pattern, to-pattern,
// inversion) triple an architecture can realize, the cheapest
// micro-program of instructions that copies (or inverts, or sets a
// constant into) a cell without disturbing anything else — the copy-graph
// builder of spec.md component B.
package copygraph

import (
	"lime/internal/arch"
	"lime/internal/cost"
)

const (
	fromVar uint32 = 0
	toVar   uint32 = 1
)

// TemplateCell is one operand slot of an Edge's instruction template:
// either a placeholder standing for the edge's own from/to cell, or a
// concrete architecture cell (used for scratch cells the template always
// touches, e.g. a fixed constant-zero cell).
type TemplateCell struct {
	IsVar   bool
	VarSlot uint32
	Type    arch.CellType
	Index   uint32
}

// FromVarCell is the template placeholder for the edge's source cell.
func FromVarCell() TemplateCell { return TemplateCell{IsVar: true, VarSlot: fromVar} }

// ToVarCell is the template placeholder for the edge's destination cell.
func ToVarCell() TemplateCell { return TemplateCell{IsVar: true, VarSlot: toVar} }

// ConcreteCell wraps an already-known architecture cell for use in a
// template (e.g. a constant source operand).
func ConcreteCell(c arch.Cell) TemplateCell { return TemplateCell{Type: c.Type, Index: c.Index} }

func (c TemplateCell) resolve(from, to arch.Cell) arch.Cell {
	if c.IsVar {
		switch c.VarSlot {
		case fromVar:
			return from
		case toVar:
			return to
		default:
			panic("copygraph: invalid template variable slot")
		}
	}
	return arch.Cell{Type: c.Type, Index: c.Index}
}

// TemplateOperand is a TemplateCell with an inversion flag.
type TemplateOperand struct {
	Cell     TemplateCell
	Inverted bool
}

// TemplateInstruction is one instruction of an Edge's micro-program, with
// its cell operands left as templates until Edge.Instantiate binds them.
type TemplateInstruction struct {
	Type    arch.InstructionType
	Inputs  []TemplateCell
	Outputs []TemplateOperand
}

// Edge is a discovered micro-program that copies (optionally inverted)
// whatever signal sits on the "from" cell into the "to" cell.
type Edge struct {
	// Inverted marks this edge as producing the negation of the source
	// signal rather than a plain copy.
	Inverted bool
	// ComputesFromInverted marks that the template reads the source cell
	// in its inverted polarity (relevant when both a cell and its
	// complement are independently addressable).
	ComputesFromInverted bool
	Template             []TemplateInstruction
	Cost                 cost.Cost
}

// Instantiate binds an edge's template to concrete from/to cells,
// producing the instructions to emit.
func (e *Edge) Instantiate(from, to arch.Cell) []arch.Instruction {
	out := make([]arch.Instruction, len(e.Template))
	for i, instr := range e.Template {
		inputs := make([]arch.Cell, len(instr.Inputs))
		for j, tc := range instr.Inputs {
			inputs[j] = tc.resolve(from, to)
		}
		outputs := make([]arch.Operand, len(instr.Outputs))
		for j, to2 := range instr.Outputs {
			outputs[j] = arch.Operand{Cell: to2.Cell.resolve(from, to), Inverted: to2.Inverted}
		}
		out[i] = arch.Instruction{Type: instr.Type, Inputs: inputs, Outputs: outputs}
	}
	return out
}

// InstantiatePartial resolves an edge's FROM placeholder to a concrete
// cell while leaving the TO placeholder as a template variable — used
// when nesting an already-discovered edge inside a new, not-yet-placed
// edge's template.
func (e *Edge) InstantiatePartial(from arch.Cell) []TemplateInstruction {
	resolve := func(tc TemplateCell) TemplateCell {
		if !tc.IsVar {
			return tc
		}
		if tc.VarSlot == fromVar {
			return ConcreteCell(from)
		}
		return ToVarCell()
	}
	out := make([]TemplateInstruction, len(e.Template))
	for i, instr := range e.Template {
		inputs := make([]TemplateCell, len(instr.Inputs))
		for j, tc := range instr.Inputs {
			inputs[j] = resolve(tc)
		}
		outputs := make([]TemplateOperand, len(instr.Outputs))
		for j, op := range instr.Outputs {
			outputs[j] = TemplateOperand{Cell: resolve(op.Cell), Inverted: op.Inverted}
		}
		out[i] = TemplateInstruction{Type: instr.Type, Inputs: inputs, Outputs: outputs}
	}
	return out
}

// edgePair holds the plain (index 0) and inverted (index 1) edge for one
// (from, to) pattern pair.
type edgePair [2]*Edge

func (p *edgePair) any() bool { return p[0] != nil || p[1] != nil }

// typeCellNode is the "to" dimension leaf: an edgePair for the
// destination type itself (value) plus one per specific destination cell
// index that beats the type-level edge (children).
type typeCellNode struct {
	value    edgePair
	children map[uint32]*edgePair
}

func (n *typeCellNode) slot(idx *uint32) *edgePair {
	if idx == nil {
		return &n.value
	}
	if e, ok := n.children[*idx]; ok {
		return e
	}
	e := &edgePair{}
	if n.children == nil {
		n.children = make(map[uint32]*edgePair)
	}
	n.children[*idx] = e
	return e
}

// fromTypeNode maps destination cell types to their typeCellNode — the
// full set of known edges out of one "from" pattern.
type fromTypeNode struct {
	byType map[arch.CellType]*typeCellNode
}

func (f *fromTypeNode) entry(t arch.CellType) *typeCellNode {
	if f.byType == nil {
		f.byType = make(map[arch.CellType]*typeCellNode)
	}
	if n, ok := f.byType[t]; ok {
		return n
	}
	n := &typeCellNode{}
	f.byType[t] = n
	return n
}

func (f *fromTypeNode) get(t arch.CellType) (*typeCellNode, bool) {
	if f == nil || f.byType == nil {
		return nil, false
	}
	n, ok := f.byType[t]
	return n, ok
}

// typeCellPat is the "from" dimension leaf: a fromTypeNode for the source
// type itself (value) plus one per specific source cell index that beats
// the type-level edges (children).
type typeCellPat struct {
	value    *fromTypeNode
	children map[uint32]*fromTypeNode
}

func (p *typeCellPat) valueOrDefault(idx *uint32) *fromTypeNode {
	if idx == nil {
		if p.value == nil {
			p.value = &fromTypeNode{}
		}
		return p.value
	}
	if n, ok := p.children[*idx]; ok {
		return n
	}
	n := &fromTypeNode{}
	if p.children == nil {
		p.children = make(map[uint32]*fromTypeNode)
	}
	p.children[*idx] = n
	return n
}

// CopyGraph is the Pareto-optimal set of copy/invert/set-constant edges
// discovered for an architecture: for every (from, to, inversion) triple
// it retains only edges no costlier alternative makes redundant.
type CopyGraph struct {
	nodes map[arch.CellType]*typeCellPat
}

func (g *CopyGraph) entry(t arch.CellType) *typeCellPat {
	if g.nodes == nil {
		g.nodes = make(map[arch.CellType]*typeCellPat)
	}
	if p, ok := g.nodes[t]; ok {
		return p
	}
	p := &typeCellPat{}
	g.nodes[t] = p
	return p
}

// Build discovers every identity and set-constant edge the architecture's
// instructions support and returns the resulting graph.
func Build(a arch.Architecture, c cost.OperationCost) *CopyGraph {
	g := &CopyGraph{}
	FindSetConstant(a, c, g)
	FindCopyInstructions(a, c, g)
	return g
}

func patIndex(p arch.CellPat) *uint32 {
	if p.Any {
		return nil
	}
	idx := p.Index
	return &idx
}

// ConsiderEdge inserts a newly discovered edge into the graph, keeping
// only the Pareto-optimal frontier: a more general edge that is equally
// cheap or cheaper makes a more specific one redundant, and a cheaper
// edge anywhere on the dominance chain displaces a costlier one it makes
// redundant. Ground truth per
// spec.md §9 — property-test against this directly rather than re-derive
// the algorithm.
func (g *CopyGraph) ConsiderEdge(from, to arch.CellPat, edge Edge) {
	invertedIdx := 0
	if edge.Inverted {
		invertedIdx = 1
	}

	fromTypeEntry := g.entry(from.Type)

	if !from.Any {
		if toTypeNode, ok := fromTypeEntry.value.get(to.Type); ok {
			if existing := toTypeNode.value[invertedIdx]; existing != nil && edge.Cost >= existing.Cost {
				return
			}
			if !to.Any {
				if existing, ok2 := toTypeNode.children[to.Index]; ok2 {
					if e := existing[invertedIdx]; e != nil && edge.Cost >= e.Cost {
						return
					}
				}
			}
		}
	}

	fromEdges := fromTypeEntry.valueOrDefault(patIndex(from))
	toTypeNode := fromEdges.entry(to.Type)

	if !to.Any {
		if existing := toTypeNode.value[invertedIdx]; existing != nil && edge.Cost >= existing.Cost {
			return
		}
	}

	edgeCost := edge.Cost
	slot := toTypeNode.slot(patIndex(to))
	switch {
	case slot[invertedIdx] == nil:
		e := edge
		slot[invertedIdx] = &e
	case slot[invertedIdx].Cost > edgeCost:
		e := edge
		slot[invertedIdx] = &e
	default:
		return
	}

	checkRetain := func(edges *edgePair) bool {
		if edges[invertedIdx] != nil && edges[invertedIdx].Cost >= edgeCost {
			edges[invertedIdx] = nil
		}
		return edges.any()
	}

	if to.Any {
		for idx, edges := range toTypeNode.children {
			if !checkRetain(edges) {
				delete(toTypeNode.children, idx)
			}
		}
	}

	if from.Any {
		for idx, fe := range fromTypeEntry.children {
			toNode, ok := fe.get(to.Type)
			if !ok {
				continue
			}
			if to.Any {
				for cidx, edges := range toNode.children {
					if !checkRetain(edges) {
						delete(toNode.children, cidx)
					}
				}
				checkRetain(&toNode.value)
			} else if edges, ok2 := toNode.children[to.Index]; ok2 {
				if !checkRetain(edges) {
					delete(toNode.children, to.Index)
				}
			}
			if !toNode.value.any() && len(toNode.children) == 0 {
				delete(fe.byType, to.Type)
			}
			if len(fe.byType) == 0 {
				delete(fromTypeEntry.children, idx)
			}
		}
	}
}

type fromNodeEntry struct {
	pat  arch.CellPat
	node *fromTypeNode
}

func relevantFromNodes(nodes map[arch.CellType]*typeCellPat, pat arch.CellPat) []fromNodeEntry {
	entry, ok := nodes[pat.Type]
	if !ok {
		return nil
	}
	var out []fromNodeEntry
	if pat.Any {
		for idx, node := range entry.children {
			out = append(out, fromNodeEntry{arch.ExactPat(arch.Cell{Type: pat.Type, Index: idx}), node})
		}
	} else if node, ok := entry.children[pat.Index]; ok {
		out = append(out, fromNodeEntry{arch.ExactPat(arch.Cell{Type: pat.Type, Index: pat.Index}), node})
	}
	out = append(out, fromNodeEntry{arch.TypePat(pat.Type), entry.value})
	return out
}

type toNodeEntry struct {
	pat  arch.CellPat
	node *edgePair
}

func relevantToNodes(ftn *fromTypeNode, pat arch.CellPat) []toNodeEntry {
	if ftn == nil || ftn.byType == nil {
		return nil
	}
	entry, ok := ftn.byType[pat.Type]
	if !ok {
		return nil
	}
	var out []toNodeEntry
	if pat.Any {
		for idx, e := range entry.children {
			out = append(out, toNodeEntry{arch.ExactPat(arch.Cell{Type: pat.Type, Index: idx}), e})
		}
	} else if e, ok := entry.children[pat.Index]; ok {
		out = append(out, toNodeEntry{arch.ExactPat(arch.Cell{Type: pat.Type, Index: pat.Index}), e})
	}
	out = append(out, toNodeEntry{arch.TypePat(pat.Type), &entry.value})
	return out
}

// Match is one (from, to) edge returned by AllOptimalEdgesMatching.
type Match struct {
	From, To arch.CellPat
	Edge     *Edge
}

// AllOptimalEdgesMatching returns every known edge whose (from, to)
// pattern pair is compatible with the given query patterns, preferring
// the most specific match available at each level.
func (g *CopyGraph) AllOptimalEdgesMatching(from, to arch.CellPat, inverted bool) []Match {
	idx := 0
	if inverted {
		idx = 1
	}
	var out []Match
	for _, fe := range relevantFromNodes(g.nodes, from) {
		for _, te := range relevantToNodes(fe.node, to) {
			if e := te.node[idx]; e != nil {
				out = append(out, Match{From: fe.pat, To: te.pat, Edge: e})
			}
		}
	}
	return out
}

// Nodes returns every cell pattern that participates in at least one edge,
// as either a source or a destination.
func (g *CopyGraph) Nodes() map[arch.CellPat]struct{} {
	result := make(map[arch.CellPat]struct{})
	add := func(p arch.CellPat) { result[p] = struct{}{} }
	addDest := func(dstNodes map[arch.CellType]*typeCellNode) {
		for dstType, dstNode := range dstNodes {
			if dstNode.value.any() {
				add(arch.TypePat(dstType))
			}
			for dstIdx := range dstNode.children {
				add(arch.ExactPat(arch.Cell{Type: dstType, Index: dstIdx}))
			}
		}
	}
	for srcType, srcNode := range g.nodes {
		if srcNode.value != nil && len(srcNode.value.byType) > 0 {
			add(arch.TypePat(srcType))
			addDest(srcNode.value.byType)
		}
		for srcIdx, dstNodes := range srcNode.children {
			add(arch.ExactPat(arch.Cell{Type: srcType, Index: srcIdx}))
			addDest(dstNodes.byType)
		}
	}
	return result
}
