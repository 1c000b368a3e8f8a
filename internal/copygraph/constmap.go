package copygraph

import "lime/internal/arch"

// constantMappingHint selects what try_match is searching for: a fixed
// boolean output value, or that the function act as the (possibly
// inverted) identity of whichever operand is being matched last.
type constantMappingHint struct {
	identity bool
	inverted bool
	value    bool
}

func valueHint(v bool) constantMappingHint        { return constantMappingHint{value: v} }
func identityHint(inverted bool) constantMappingHint { return constantMappingHint{identity: true, inverted: inverted} }

func (h constantMappingHint) get(eval *arch.FunctionEval) (arch.BoolHint, bool) {
	if h.identity {
		return eval.HintID(h.inverted)
	}
	return eval.Hint(h.value)
}

// mapping is one way of assigning constant cells to every non-ignored
// operand of an instruction combination such that, added to the
// evaluator in that order, the function reaches the requested hint.
type mapping struct {
	cells []arch.Cell
	eval  *arch.FunctionEval
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// mapConstants finds every constant-cell assignment of the operands in
// combination (skipping the positions in ignore/ignore2) that drives fn's
// evaluator toward hint, honoring invertedIdx (which operand positions
// are read inverted) and requiring inputRange to have no passthrough
// prefix — ground truth ported from the original constant-mapping search,
// exhaustive only up to two free (non-ignored) operand positions.
func mapConstants(
	fn arch.Function,
	hint constantMappingHint,
	invertedIdx arch.InputIndices,
	combination []arch.CellPat,
	inputRange arch.InputRange,
	ignore, ignore2 *int,
) []mapping {
	n := len(combination)
	if minInt(inputRange.Start, n) != 0 {
		return nil
	}
	clamp := func(i *int) *int {
		if i == nil || *i >= n {
			return nil
		}
		return i
	}
	ignore = clamp(ignore)
	ignore2 = clamp(ignore2)
	ignored := func(i int) bool {
		return (ignore != nil && i == *ignore) || (ignore2 != nil && i == *ignore2)
	}
	numIgnored := 0
	if ignore != nil {
		numIgnored++
	}
	if ignore2 != nil {
		numIgnored++
	}
	free := n - numIgnored
	eval := arch.NewFunctionEval(fn, n)

	if free == 0 {
		return []mapping{{cells: nil, eval: eval}}
	}
	if free == 1 {
		idx := 0
		for ignored(idx) {
			idx++
		}
		var out []mapping
		for _, m := range tryMatch(hint, invertedIdx, eval, combination[idx], idx, nil) {
			out = append(out, mapping{cells: []arch.Cell{m.cell}, eval: m.eval})
		}
		return out
	}

	var out []mapping
	for firstIdx, firstPat := range combination {
		if ignored(firstIdx) {
			continue
		}
		for secondIdx, secondPat := range combination {
			if firstIdx == secondIdx || ignored(secondIdx) {
				continue
			}
			for _, first := range tryMatch(hint, invertedIdx, eval, firstPat, firstIdx, nil) {
				forbidden := &first.cell
			second:
				for _, second := range tryMatch(hint, invertedIdx, first.eval, secondPat, secondIdx, forbidden) {
					cells := make([]arch.Cell, 0, n-numIgnored)
					for i := 0; i < n; i++ {
						switch {
						case i == firstIdx:
							cells = append(cells, first.cell)
						case i == secondIdx:
							cells = append(cells, second.cell)
						case !ignored(i):
							continue second
						}
					}
					out = append(out, mapping{cells: cells, eval: second.eval})
				}
			}
		}
	}
	return out
}

type matched struct {
	cell arch.Cell
	eval *arch.FunctionEval
}

func tryMatch(hint constantMappingHint, invertedIdx arch.InputIndices, eval *arch.FunctionEval, pat arch.CellPat, index int, forbidden *arch.Cell) []matched {
	h, ok := hint.get(eval)
	var values []bool
	switch {
	case !ok:
		values = nil
	case h.Kind == arch.HintRequire:
		v := h.Value != invertedIdx.Contains(index)
		values = []bool{v}
	default:
		values = []bool{true, false}
	}
	var out []matched
	for _, v := range values {
		cell, ok := pat.GetConstant(v)
		if !ok {
			continue
		}
		if forbidden != nil && cell == *forbidden {
			continue
		}
		next := eval.Clone()
		next.Add(v != invertedIdx.Contains(index))
		out = append(out, matched{cell: cell, eval: next})
	}
	return out
}
