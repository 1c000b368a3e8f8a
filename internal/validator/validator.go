// Package validator rebuilds a concrete network from a compiled program
// and checks it against the network the compiler started from, by
// brute-force truth-table simulation rather than structural comparison
// (two networks computing the same function can have entirely different
// shapes once copies, spills and instruction encodings are folded in).
// Ground truth: lime-rs:crates/generic/src/validation/mod.rs.
package validator

import (
	"fmt"

	"lime/internal/arch"
	"lime/internal/network"
	"lime/internal/progstate"
)

func gateKind(g arch.GateKind) (network.Kind, bool) {
	switch g {
	case arch.GateAnd:
		return network.KindAnd, true
	case arch.GateXor:
		return network.KindXor, true
	case arch.GateMaj:
		return network.KindMaj, true
	default:
		return 0, false
	}
}

// RebuildNetwork replays program's instructions in order, tracking which
// signal currently lives in each cell, and emits a network reflecting
// what the compiled program actually computes. An instruction whose
// every read operand already resolves to a constant is folded into a
// literal result directly (no gate node is created for it) rather than
// wired through a gate, the way the original's Evaluator shortcut does;
// everything else becomes a real gate. Overridden inputs and outputs are
// both written back through Instruction.WriteCellInvertedMap, so an
// in-place instruction's destination cell ends up holding the right
// signal regardless of which operand slot it happened to occupy.
func RebuildNetwork(program *progstate.Program, a arch.Architecture, inputCells, outputCells []arch.Cell) (*network.MIG, error) {
	b := network.NewBuilder()
	cells := make(map[arch.Cell]network.Signal)

	falseSig := b.CreateConstant()
	trueSig := falseSig.Not()
	for _, c := range inputCells {
		if v, ok := c.ConstantValue(); ok {
			if v {
				cells[c] = trueSig
			} else {
				cells[c] = falseSig
			}
			continue
		}
		cells[c] = b.CreateInput()
	}

	isConstant := func(sig network.Signal) (bool, bool) {
		switch sig.Node {
		case falseSig.Node:
			return true, sig.Inverted
		default:
			return false, false
		}
	}

	for _, instr := range program.Instructions() {
		ins := make([]network.Signal, 0, len(instr.Inputs))
		for j, c := range instr.ReadCells() {
			sig, ok := cells[c]
			if !ok {
				if v, isConst := c.ConstantValue(); isConst {
					sig = falseSig
					if v {
						sig = trueSig
					}
				} else {
					return nil, fmt.Errorf("validator: instruction %s reads %s before it is written", instr.Type.Name, c)
				}
			}
			if instr.Type.InputInverted.Contains(instr.Type.InputRange.Start + j) {
				sig = sig.Not()
			}
			ins = append(ins, sig)
		}

		var result network.Signal
		if allConst, values := allConstant(ins, isConstant); allConst {
			v := evaluateGate(instr.Type.Function.Gate, values)
			if v {
				result = trueSig
			} else {
				result = falseSig
			}
		} else {
			kind, ok := gateKind(instr.Type.Function.Gate.Kind)
			if !ok {
				return nil, fmt.Errorf("validator: instruction %s has no gate equivalent", instr.Type.Name)
			}
			result = b.CreateGate(kind, ins)
		}
		if instr.Type.Function.Inverted {
			result = result.Not()
		}

		for cell, inverted := range instr.WriteCellInvertedMap() {
			sig := result
			if inverted {
				sig = sig.Not()
			}
			cells[cell] = sig
		}
	}

	outSigs := make([]network.Signal, len(outputCells))
	for i, c := range outputCells {
		sig, ok := cells[c]
		if !ok {
			return nil, fmt.Errorf("validator: output cell %s was never written", c)
		}
		outSigs[i] = sig
	}
	return b.Build(outSigs), nil
}

func allConstant(sigs []network.Signal, isConstant func(network.Signal) (bool, bool)) (bool, []bool) {
	values := make([]bool, len(sigs))
	for i, sig := range sigs {
		isC, v := isConstant(sig)
		if !isC {
			return false, nil
		}
		values[i] = v
	}
	return true, values
}

func evaluateGate(g arch.Gate, values []bool) bool {
	switch g.Kind {
	case arch.GateAnd:
		for _, v := range values {
			if !v {
				return false
			}
		}
		return true
	case arch.GateXor:
		out := false
		for _, v := range values {
			out = out != v
		}
		return out
	case arch.GateMaj:
		count := 0
		for _, v := range values {
			if v {
				count++
			}
		}
		return count*2 > len(values)
	case arch.GateConstant:
		return g.ConstantValue
	default:
		return false
	}
}

// Simulate evaluates net over a concrete assignment of its inputs (in
// Leaves order, constants excluded), returning one bool per output. NodeID
// order is already a valid topological order (every gate's operands have
// strictly smaller ids), so a single forward pass suffices.
func Simulate(net network.Network, inputs []bool) []bool {
	values := make([]bool, net.Size())
	inputIdx := 0
	for i := 0; i < net.Size(); i++ {
		id := network.NodeID(i)
		n := net.Node(id)
		switch n.Kind {
		case network.KindInput:
			if inputIdx < len(inputs) {
				values[i] = inputs[inputIdx]
			}
			inputIdx++
		case network.KindConstant:
			values[i] = false
		default:
			operands := make([]bool, len(n.Inputs))
			for j, sig := range n.Inputs {
				v := values[sig.Node]
				if sig.Inverted {
					v = !v
				}
				operands[j] = v
			}
			values[i] = evaluateGate(gateOf(n.Kind), operands)
		}
	}
	outs := net.Outputs()
	result := make([]bool, len(outs))
	for i, sig := range outs {
		v := values[sig.Node]
		if sig.Inverted {
			v = !v
		}
		result[i] = v
	}
	return result
}

func gateOf(k network.Kind) arch.Gate {
	switch k {
	case network.KindAnd:
		return arch.And()
	case network.KindXor:
		return arch.Xor()
	case network.KindMaj:
		return arch.Maj()
	default:
		return arch.Gate{}
	}
}

// Equivalent brute-force-checks that a and b compute the same function
// over numInputs Boolean inputs and agree on output count.
func Equivalent(a network.Network, numInputs int, b network.Network) bool {
	if len(a.Outputs()) != len(b.Outputs()) {
		return false
	}
	total := 1 << uint(numInputs)
	for assignment := 0; assignment < total; assignment++ {
		inputs := make([]bool, numInputs)
		for i := range inputs {
			inputs[i] = assignment&(1<<uint(i)) != 0
		}
		outA := Simulate(a, inputs)
		outB := Simulate(b, inputs)
		for i := range outA {
			if outA[i] != outB[i] {
				return false
			}
		}
	}
	return true
}

// Validate rebuilds program's network and checks it against original for
// logical equivalence over every assignment of inputCells (constant
// cells excluded from the brute-force input count, since their value is
// fixed).
func Validate(original network.Network, program *progstate.Program, a arch.Architecture, inputCells, outputCells []arch.Cell) (bool, error) {
	rebuilt, err := RebuildNetwork(program, a, inputCells, outputCells)
	if err != nil {
		return false, err
	}
	numInputs := 0
	for _, c := range inputCells {
		if _, ok := c.ConstantValue(); !ok {
			numInputs++
		}
	}
	return Equivalent(original, numInputs, rebuilt), nil
}
