package arch

import "testing"

type testCellType struct {
	name     string
	constant bool
	rank     int
}

func (t testCellType) IsConstant() bool               { return t.constant }
func (t testCellType) Count() (uint32, bool)          { return 4, true }
func (t testCellType) Name() string                   { return t.name }
func (t testCellType) Less(other CellType) bool       { return t.rank < other.(testCellType).rank }

var (
	rowType      = testCellType{name: "row", rank: 0}
	constantType = testCellType{name: "const", constant: true, rank: 1}
)

func TestCellConstantValue(t *testing.T) {
	falseCell := ConstantCell(constantType, false)
	trueCell := ConstantCell(constantType, true)

	if v, ok := falseCell.ConstantValue(); !ok || v {
		t.Errorf("falseCell.ConstantValue() = (%v, %v), want (false, true)", v, ok)
	}
	if v, ok := trueCell.ConstantValue(); !ok || !v {
		t.Errorf("trueCell.ConstantValue() = (%v, %v), want (true, true)", v, ok)
	}
	if _, ok := NewCell(rowType, 0).ConstantValue(); ok {
		t.Errorf("non-constant cell reported ok=true")
	}
}

func TestCellLess(t *testing.T) {
	a := NewCell(rowType, 0)
	b := NewCell(rowType, 1)
	c := NewCell(constantType, 0)

	if !a.Less(b) {
		t.Errorf("NewCell(rowType, 0).Less(NewCell(rowType, 1)) = false, want true")
	}
	if b.Less(a) {
		t.Errorf("NewCell(rowType, 1).Less(NewCell(rowType, 0)) = true, want false")
	}
	if !a.Less(c) {
		t.Errorf("rowType cell should sort before constantType cell by rank")
	}
}

func TestCellString(t *testing.T) {
	if got, want := NewCell(rowType, 3).String(), "row[3]"; got != want {
		t.Errorf("Cell.String() = %q, want %q", got, want)
	}
}
