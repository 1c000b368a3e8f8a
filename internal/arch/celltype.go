// Package arch is the language-neutral description of a Logic-in-Memory
// architecture: cell types, operand/tuple patterns, instruction templates,
// and the gate-function evaluators the copy-graph builder needs to
// discover identity and constant-producing micro-programs.
package arch

// CellType is an opaque, totally ordered, enumerated kind of memory cell.
// Concrete architectures implement it with a small comparable type (see
// internal/archdefs, which uses a small struct).
type CellType interface {
	// IsConstant reports whether this is the distinguished CONSTANT kind,
	// whose two cells hold the literal values false (index 0) and true
	// (index 1).
	IsConstant() bool
	// Count returns the number of cells of this type and whether that
	// count is finite. An unbounded type (bounded == false) has
	// arbitrarily many cells available.
	Count() (count uint32, bounded bool)
	// Name returns a short display name, used in diagnostics and in the
	// validator's rebuilt-network labels.
	Name() string
	// Less gives CellType a total order so architectures and copy
	// graphs can iterate cell types deterministically.
	Less(other CellType) bool
}

// Cell identifies one memory cell: a cell type plus an index within it.
type Cell struct {
	Type  CellType
	Index uint32
}

// NewCell constructs a Cell.
func NewCell(t CellType, idx uint32) Cell {
	return Cell{Type: t, Index: idx}
}

// ConstantCell returns the cell holding the given constant literal.
func ConstantCell(t CellType, value bool) Cell {
	idx := uint32(0)
	if value {
		idx = 1
	}
	return Cell{Type: t, Index: idx}
}

// ConstantValue returns the literal value this cell holds if it is a
// CONSTANT-type cell.
func (c Cell) ConstantValue() (value bool, ok bool) {
	if !c.Type.IsConstant() {
		return false, false
	}
	return c.Index != 0, true
}

func (c Cell) String() string {
	return c.Type.Name() + "[" + itoa(c.Index) + "]"
}

// Less gives Cell a total order (by type, then index), used for
// deterministic map iteration.
func (c Cell) Less(other Cell) bool {
	if c.Type != other.Type {
		return c.Type.Less(other.Type)
	}
	return c.Index < other.Index
}

// Operand is a cell together with an inversion flag: the signal read or
// written there is the cell's negation when Inverted is true.
type Operand struct {
	Cell     Cell
	Inverted bool
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
