package archdefs_test

import (
	"testing"

	"lime/internal/archdefs"
	"lime/internal/arch"
	"lime/internal/compiler"
	"lime/internal/copygraph"
	"lime/internal/cost"
	"lime/internal/network"
	"lime/internal/search"
)

func greedySettings() compiler.Settings {
	return compiler.Settings{Mode: search.Greedy, CandidateSelection: search.AllCandidatesSelection}
}

func countInstructions(result *compiler.Result, name string) int {
	n := 0
	for _, instr := range result.Program.Instructions() {
		if instr.Type.Name == name {
			n++
		}
	}
	return n
}

func instructionNames(result *compiler.Result) map[string]bool {
	out := make(map[string]bool)
	for _, instr := range result.Program.Instructions() {
		out[instr.Type.Name] = true
	}
	return out
}

// Scenario 1: Ambit, maj(a,b,false), effectively and(a,b). One TRA
// instruction, compile and validation both succeed.
func TestAmbitMajWithFalseIsAnd(t *testing.T) {
	b := network.NewBuilder()
	a := b.CreateInput()
	bb := b.CreateInput()
	f := b.CreateConstant()
	g := b.CreateGate(network.KindMaj, []network.Signal{a, bb, f})
	net := b.Build([]network.Signal{g})

	a1 := archdefs.Ambit()
	oc := cost.Uniform{}
	graph := copygraph.Build(a1, oc)
	inputCells := []arch.Cell{archdefs.AmbitRow(0), archdefs.AmbitRow(1)}

	result, err := compiler.Compile(a1, oc, graph, greedySettings(), inputCells, net, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !result.Stats.ValidationSuccess {
		t.Fatal("validation did not succeed")
	}
	if n := countInstructions(result, "TRA"); n != 1 {
		t.Fatalf("expected exactly one TRA instruction, got %d", n)
	}
}

// Scenario 2: PLiM, maj(!a, b, c). One RM3 instruction, validation
// succeeds.
func TestPLiMMajWithInvertedOperand(t *testing.T) {
	b := network.NewBuilder()
	a := b.CreateInput()
	bb := b.CreateInput()
	c := b.CreateInput()
	g := b.CreateGate(network.KindMaj, []network.Signal{a.Not(), bb, c})
	net := b.Build([]network.Signal{g})

	a1 := archdefs.PLiM()
	oc := cost.Uniform{}
	graph := copygraph.Build(a1, oc)
	inputCells := []arch.Cell{archdefs.PLiMRow(0), archdefs.PLiMRow(1), archdefs.PLiMRow(2)}

	result, err := compiler.Compile(a1, oc, graph, greedySettings(), inputCells, net, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !result.Stats.ValidationSuccess {
		t.Fatal("validation did not succeed")
	}
	if n := countInstructions(result, "RM3"); n != 1 {
		t.Fatalf("expected exactly one RM3 instruction, got %d", n)
	}
}

// Scenario 3: IMPLY, and(a, b). The program uses only IMP and FALSE, and
// validation succeeds.
func TestIMPLYAndUsesOnlyImpAndFalse(t *testing.T) {
	b := network.NewBuilder()
	a := b.CreateInput()
	bb := b.CreateInput()
	g := b.CreateGate(network.KindAnd, []network.Signal{a, bb})
	net := b.Build([]network.Signal{g})

	a1 := archdefs.IMPLY()
	oc := cost.Uniform{}
	graph := copygraph.Build(a1, oc)
	inputCells := []arch.Cell{archdefs.ImplyRow(0), archdefs.ImplyRow(1)}

	result, err := compiler.Compile(a1, oc, graph, greedySettings(), inputCells, net, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !result.Stats.ValidationSuccess {
		t.Fatal("validation did not succeed")
	}
	for name := range instructionNames(result) {
		if name != "IMP" && name != "FALSE" {
			t.Fatalf("program used instruction %q, expected only IMP/FALSE", name)
		}
	}
}

// Scenario 4: FELIX, xor(a,b,c) expressed as two binary xors, in both
// associativity orders. Both compile and validate.
func TestFelixXorBothOrderings(t *testing.T) {
	orderings := []func(a, b, c network.Signal, build *network.Builder) network.Signal{
		func(a, b, c network.Signal, build *network.Builder) network.Signal {
			ab := build.CreateGate(network.KindXor, []network.Signal{a, b})
			return build.CreateGate(network.KindXor, []network.Signal{ab, c})
		},
		func(a, b, c network.Signal, build *network.Builder) network.Signal {
			bc := build.CreateGate(network.KindXor, []network.Signal{b, c})
			return build.CreateGate(network.KindXor, []network.Signal{a, bc})
		},
	}

	for i, order := range orderings {
		b := network.NewBuilder()
		a := b.CreateInput()
		bb := b.CreateInput()
		c := b.CreateInput()
		g := order(a, bb, c, b)
		net := b.Build([]network.Signal{g})

		a1 := archdefs.FELIX()
		oc := cost.Uniform{}
		graph := copygraph.Build(a1, oc)
		inputCells := []arch.Cell{archdefs.FelixRow(0), archdefs.FelixRow(1), archdefs.FelixRow(2)}

		result, err := compiler.Compile(a1, oc, graph, greedySettings(), inputCells, net, nil)
		if err != nil {
			t.Fatalf("ordering %d: compile: %v", i, err)
		}
		if !result.Stats.ValidationSuccess {
			t.Fatalf("ordering %d: validation did not succeed", i)
		}
		if n := countInstructions(result, "XOR2"); n != 2 {
			t.Fatalf("ordering %d: expected exactly two XOR2 instructions, got %d", i, n)
		}
	}
}

// Scenario 5: every output is already a primary input — finalize should
// place it with zero or more copies and nothing else, and validation
// still succeeds.
func TestEmptyCandidatesOutputsAreInputs(t *testing.T) {
	b := network.NewBuilder()
	a := b.CreateInput()
	net := b.Build([]network.Signal{a})

	a1 := archdefs.Ambit()
	oc := cost.Uniform{}
	graph := copygraph.Build(a1, oc)
	inputCells := []arch.Cell{archdefs.AmbitRow(0)}

	result, err := compiler.Compile(a1, oc, graph, greedySettings(), inputCells, net, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !result.Stats.ValidationSuccess {
		t.Fatal("validation did not succeed")
	}
	if n := countInstructions(result, "TRA"); n != 0 {
		t.Fatalf("expected no TRA instructions for a pass-through network, got %d", n)
	}
}

// Scenario 6: Ambit mux2 fixture, two MAJ layers over three inputs.
// Exhaustive search must never use more operations than greedy.
func TestAmbitMux2ExhaustiveNeverWorseThanGreedy(t *testing.T) {
	build := func() (*network.MIG, []arch.Cell) {
		b := network.NewBuilder()
		a := b.CreateInput()
		s := b.CreateInput()
		c := b.CreateInput()
		inner := b.CreateGate(network.KindMaj, []network.Signal{a, s.Not(), c})
		outer := b.CreateGate(network.KindMaj, []network.Signal{inner, s, c})
		net := b.Build([]network.Signal{outer})
		return net, []arch.Cell{archdefs.AmbitRow(0), archdefs.AmbitRow(1), archdefs.AmbitRow(2)}
	}

	a1 := archdefs.Ambit()
	oc := cost.Uniform{}
	graph := copygraph.Build(a1, oc)

	greedyNet, greedyInputs := build()
	greedyResult, err := compiler.Compile(a1, oc, graph, greedySettings(), greedyInputs, greedyNet, nil)
	if err != nil {
		t.Fatalf("greedy compile: %v", err)
	}
	if !greedyResult.Stats.ValidationSuccess {
		t.Fatal("greedy validation did not succeed")
	}

	exhaustiveNet, exhaustiveInputs := build()
	exhaustiveSettings := compiler.Settings{Mode: search.Exhaustive, CandidateSelection: search.AllCandidatesSelection}
	exhaustiveResult, err := compiler.Compile(a1, oc, graph, exhaustiveSettings, exhaustiveInputs, exhaustiveNet, nil)
	if err != nil {
		t.Fatalf("exhaustive compile: %v", err)
	}
	if !exhaustiveResult.Stats.ValidationSuccess {
		t.Fatal("exhaustive validation did not succeed")
	}

	if exhaustiveResult.Stats.NumInstructions > greedyResult.Stats.NumInstructions {
		t.Fatalf("exhaustive produced more instructions (%d) than greedy (%d)",
			exhaustiveResult.Stats.NumInstructions, greedyResult.Stats.NumInstructions)
	}
}
