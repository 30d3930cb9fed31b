package kmap

import (
	"fsmgrade/internal/bitset"
	"fsmgrade/internal/boolexpr"
	"fsmgrade/internal/qm"
)

// Cost is the (literal_count, term_count) tuple spec.md §4.5's minimizer
// reports; a lexicographically smaller cost is a cheaper expression.
type Cost struct {
	Literals int
	Terms    int
}

func (c Cost) equal(other Cost) bool {
	return c.Literals == other.Literals && c.Terms == other.Terms
}

func costOfCover(cover []string) Cost {
	c := Cost{Terms: len(cover)}
	for _, bits := range cover {
		for _, b := range bits {
			if b != '-' {
				c.Literals++
			}
		}
	}
	return c
}

// costOfExpression counts a user expression's own literal/term cost by
// splitting on top-level '+', the same way spec.md §4.5 defines expression
// cost. It reports ok=false for an empty, contradictory, or otherwise
// unusable term, since such an expression has no comparable cost.
func costOfExpression(expr string) (cost Cost, ok bool) {
	tokens := boolexpr.Prepare(expr)
	sections := boolexpr.SplitSections(tokens)
	if len(sections) == 0 {
		return Cost{}, false
	}
	cost.Terms = len(sections)
	for _, section := range sections {
		literals, contradictory := boolexpr.LiteralsOf(section)
		if contradictory || len(literals) == 0 {
			return Cost{}, false
		}
		cost.Literals += len(literals)
	}
	return cost, true
}

func mintermIndex(key string) int {
	v := 0
	for _, c := range key {
		v <<= 1
		if c == '1' {
			v |= 1
		}
	}
	return v
}

// MinimalCost runs Quine-McCluskey over the map's own truth table and
// returns the lexicographically smallest (literal_count, term_count)
// achievable over its prime-implicant set (spec.md §4.5, §8 property 7).
// For a POS map it minimizes the OFF-set instead of the ON-set: by
// duality, a minimal product-of-sums over the forbidden cells has exactly
// the same (literal_count, term_count) as the minimal sum-of-products of
// the complement function.
func MinimalCost(layout Layout, cells map[string]string, kind Kind, missingDefault bitset.Bit) Cost {
	variables := layout.Variables()
	table := BuildTruthTable(layout, cells, missingDefault)
	target, _ := kind.targets()

	var ones, dontCares []int
	for key, v := range table {
		idx := mintermIndex(key)
		switch v {
		case target:
			ones = append(ones, idx)
		case bitset.DontCare:
			dontCares = append(dontCares, idx)
		}
	}
	if len(ones) == 0 {
		return Cost{}
	}
	res := qm.Minimize(variables, ones, dontCares)
	return costOfCover(res.Cover)
}

// IsMinimal reports whether expr's own cost matches the minimal cost
// achievable over the map's function, alongside both costs so callers can
// report them. A submitted expression can never beat the optimal cost
// when it is otherwise a valid verified expression (internal/kmap.Verify
// already rejects non-prime or non-covering terms); any mismatch here
// means the student's cover uses more literals or terms than necessary.
func IsMinimal(layout Layout, cells map[string]string, kind Kind, expr string, missingDefault bitset.Bit) (submitted, optimal Cost, ok bool) {
	optimal = MinimalCost(layout, cells, kind, missingDefault)
	submitted, valid := costOfExpression(expr)
	if !valid {
		return submitted, optimal, false
	}
	return submitted, optimal, submitted.equal(optimal)
}
