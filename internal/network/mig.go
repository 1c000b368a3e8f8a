package network

// Builder accumulates nodes pushed through the Receiver interface into an
// in-memory network, deduplicating the constant node the way a real
// AIG/MIG package would. It is the concrete counterpart spec.md §6 leaves
// external: e-graph extraction, network rebuilding, and architecture
// fixtures all drive one of these rather than constructing a Network by
// hand. Ground truth: lime-rs:crates/generic/src/untyped_ntk.rs's
// UntypedNetworkLanguage And/Xor/Maj node shape, adapted from an egg
// e-graph language definition to a plain append-only node vector.
type Builder struct {
	nodes      []Node
	inputs     []NodeID
	constantID NodeID
	hasConst   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) push(n Node) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	return id
}

// CreateInput implements Receiver: each call adds one more primary input,
// in call order.
func (b *Builder) CreateInput() Signal {
	id := b.push(Node{Kind: KindInput})
	b.inputs = append(b.inputs, id)
	return NewSignal(id, false)
}

// CreateConstant implements Receiver. The network has exactly one
// constant node; repeated calls return the same NodeID at uninverted
// polarity, matching how spec.md §3 models constant(false)/constant(true)
// as the two polarities of a single signal.
func (b *Builder) CreateConstant() Signal {
	if !b.hasConst {
		b.constantID = b.push(Node{Kind: KindConstant})
		b.hasConst = true
	}
	return NewSignal(b.constantID, false)
}

// CreateGate implements Receiver, appending a new gate node. Inputs are
// copied so the caller's slice can be reused.
func (b *Builder) CreateGate(kind Kind, inputs []Signal) Signal {
	ins := append([]Signal(nil), inputs...)
	id := b.push(Node{Kind: kind, Inputs: ins})
	return NewSignal(id, false)
}

// Build finalizes the network with the given output signals, computing
// the derived fanout/level tables once up front so Network's query
// methods are O(1).
func (b *Builder) Build(outputs []Signal) *MIG {
	m := &MIG{
		nodes:   append([]Node(nil), b.nodes...),
		inputs:  append([]NodeID(nil), b.inputs...),
		outputs: append([]Signal(nil), outputs...),
	}
	m.computeDerived()
	return m
}

// MIG is a concrete, immutable in-memory Boolean network: a flat node
// vector plus primary inputs and outputs. Despite the name it hosts
// And/Xor/Maj nodes alike — whichever gate kinds an architecture's
// instruction types need — the same way the Rust original's single
// UntypedNetworkLanguage hosts all three.
type MIG struct {
	nodes   []Node
	inputs  []NodeID
	outputs []Signal

	fanout      [][]NodeID
	fanoutCount []int
	level       []int
	maxLevel    int
}

func (m *MIG) computeDerived() {
	n := len(m.nodes)
	m.fanout = make([][]NodeID, n)
	m.fanoutCount = make([]int, n)
	m.level = make([]int, n)
	seen := make([]map[NodeID]bool, n)
	for id, node := range m.nodes {
		lvl := 0
		for _, in := range node.Inputs {
			m.fanoutCount[in.Node]++
			if seen[in.Node] == nil {
				seen[in.Node] = make(map[NodeID]bool)
			}
			if !seen[in.Node][NodeID(id)] {
				seen[in.Node][NodeID(id)] = true
				m.fanout[in.Node] = append(m.fanout[in.Node], NodeID(id))
			}
			if l := m.level[in.Node] + 1; l > lvl {
				lvl = l
			}
		}
		m.level[id] = lvl
		if lvl > m.maxLevel {
			m.maxLevel = lvl
		}
	}
}

func (m *MIG) Inputs() []NodeID   { return m.inputs }
func (m *MIG) Outputs() []Signal  { return m.outputs }
func (m *MIG) Node(id NodeID) Node { return m.nodes[id] }
func (m *MIG) Fanout(id NodeID) []NodeID { return m.fanout[id] }
func (m *MIG) FanoutCount(id NodeID) int { return m.fanoutCount[id] }
func (m *MIG) Level(id NodeID) int       { return m.level[id] }
func (m *MIG) MaxLevel() int             { return m.maxLevel }

// Leaves returns every input and the constant node, in NodeID (creation)
// order.
func (m *MIG) Leaves() []NodeID {
	var out []NodeID
	for id, node := range m.nodes {
		if node.Kind == KindInput || node.Kind == KindConstant {
			out = append(out, NodeID(id))
		}
	}
	return out
}

func (m *MIG) Size() int { return len(m.nodes) }

func (m *MIG) Contains(kind Kind) bool {
	for _, n := range m.nodes {
		if n.Kind == kind {
			return true
		}
	}
	return false
}
