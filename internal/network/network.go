// Package network defines the read-only Boolean-network view the
// compiler consumes (spec.md §6's external Network/Receiver interfaces)
// and a concrete in-memory implementation of it, used by tests, the CLI,
// and the e-graph rebuilder.
package network

// NodeID identifies a node in a Boolean logic network: an opaque,
// implementation-assigned identifier (an AIG/MIG row, an e-graph
// equivalence class, or similar).
type NodeID uint32

// Signal is a node reference paired with an inversion flag — the
// network's unit of wiring (spec.md §3: "Signal: (node_id, inverted)").
type Signal struct {
	Node     NodeID
	Inverted bool
}

// NewSignal constructs a Signal.
func NewSignal(node NodeID, inverted bool) Signal { return Signal{Node: node, Inverted: inverted} }

// Not returns the complementary signal.
func (s Signal) Not() Signal { return Signal{Node: s.Node, Inverted: !s.Inverted} }

// Kind enumerates the shapes a network node can take.
type Kind int

const (
	KindInput Kind = iota
	KindConstant
	KindAnd
	KindXor
	KindMaj
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConstant:
		return "false"
	case KindAnd:
		return "and"
	case KindXor:
		return "xor"
	case KindMaj:
		return "maj"
	default:
		return "unknown"
	}
}

// Node is one entry of a Network: its kind, and for gate kinds, its
// ordered fanin signals. Input and constant nodes carry no fanins.
type Node struct {
	Kind   Kind
	Inputs []Signal
}

// Network is the read-only view the compiler consumes (spec.md §6):
// primary inputs and outputs, per-node lookups, fanout queries, and level
// information used by extraction, placement, and rewriting heuristics.
type Network interface {
	// Inputs returns every primary input node, in declaration order.
	Inputs() []NodeID
	// Outputs returns the network's output signals, in declaration order.
	Outputs() []Signal
	// Node returns the node stored at id.
	Node(id NodeID) Node
	// Fanout returns every distinct node that has id among its Inputs,
	// at either polarity.
	Fanout(id NodeID) []NodeID
	// FanoutCount returns the total number of input slots across the
	// whole network that reference id — id's total consumption count,
	// used alongside network-output membership to decide when a
	// materialized signal is no longer needed.
	FanoutCount(id NodeID) int
	// Level returns id's longest-path distance from the primary inputs.
	Level(id NodeID) int
	// MaxLevel returns the greatest level of any node in the network.
	MaxLevel() int
	// Leaves returns every node with no fanins: inputs and the constant.
	Leaves() []NodeID
	// Size returns the total number of nodes.
	Size() int
	// Contains reports whether any node of the given kind exists.
	Contains(kind Kind) bool
}

// Receiver is the push-style interface used to build a network
// incrementally — e-graph extraction and network rebuilding both drive
// one of these rather than constructing a concrete Network directly.
type Receiver interface {
	CreateInput() Signal
	CreateConstant() Signal
	CreateGate(kind Kind, inputs []Signal) Signal
}
