package cost

import "testing"

func TestCostIsInfinite(t *testing.T) {
	if !Infinite.IsInfinite() {
		t.Errorf("Infinite.IsInfinite() = false, want true")
	}
	if Cost(3).IsInfinite() {
		t.Errorf("Cost(3).IsInfinite() = true, want false")
	}
}

func TestCostAdd(t *testing.T) {
	if got := Cost(2).Add(Cost(3)); got != Cost(5) {
		t.Errorf("Cost(2).Add(Cost(3)) = %v, want 5", got)
	}
	if got := Infinite.Add(Cost(3)); !got.IsInfinite() {
		t.Errorf("Infinite.Add(3) = %v, want infinite", got)
	}
}

func TestCostLess(t *testing.T) {
	if !Cost(1).Less(Cost(2)) {
		t.Errorf("Cost(1).Less(Cost(2)) = false, want true")
	}
	if Cost(2).Less(Cost(1)) {
		t.Errorf("Cost(2).Less(Cost(1)) = true, want false")
	}
	if Cost(1).Less(Cost(1)) {
		t.Errorf("Cost(1).Less(Cost(1)) = true, want false")
	}
}

func TestUniform(t *testing.T) {
	var u Uniform
	if u.InstructionCost(0) != 1 {
		t.Errorf("Uniform.InstructionCost = %v, want 1", u.InstructionCost(0))
	}
	if u.SpillCost() != 0 {
		t.Errorf("Uniform.SpillCost = %v, want 0", u.SpillCost())
	}
}

func TestCellCount(t *testing.T) {
	var c CellCount
	if c.InstructionCost(5) != 0 {
		t.Errorf("CellCount.InstructionCost = %v, want 0", c.InstructionCost(5))
	}
	if c.SpillCost() != 0 {
		t.Errorf("CellCount.SpillCost = %v, want 0", c.SpillCost())
	}
}
