package kmap

import (
	"fmt"

	"fsmgrade/internal/bitset"
	"fsmgrade/internal/boolexpr"
)

// Kind distinguishes a sum-of-products map, whose expression must cover
// every '1' cell and never cover a '0', from a product-of-sums map, where
// the roles invert.
type Kind int

const (
	SOP Kind = iota
	POS
)

func (k Kind) targets() (target, forbidden bitset.Bit) {
	if k == POS {
		return bitset.Zero, bitset.One
	}
	return bitset.One, bitset.Zero
}

// BuildExpressionTruthTable evaluates expr against every assignment of the
// given variables (MSB-first over that order) and returns the resulting
// table keyed the same way BuildTruthTable keys a map's cells.
func BuildExpressionTruthTable(expr string, variables []string) (map[string]bitset.Bit, error) {
	rpn := boolexpr.ToRPN(boolexpr.Prepare(expr))
	total := 1 << uint(len(variables))
	table := make(map[string]bitset.Bit, total)
	keys := bitset.GenerateAllCombos(len(variables))
	for i := 0; i < total; i++ {
		key := keys[i]
		assignment := make(map[string]bool, len(variables))
		for idx, name := range variables {
			assignment[name] = key[idx] == '1'
		}
		v, err := boolexpr.Eval(rpn, assignment)
		if err != nil {
			return nil, fmt.Errorf("evaluating %q at %s: %w", expr, key, err)
		}
		if v {
			table[key] = bitset.One
		} else {
			table[key] = bitset.Zero
		}
	}
	return table, nil
}

// coverage expands a product term's fixed literals over the remaining free
// variables, producing every cell key the term covers, MSB-first over the
// free variables in `variables` order (spec.md's prime_implicant_coverage).
func coverage(literals []boolexpr.Literal, variables []string) []string {
	fixed := make(map[string]bool, len(literals))
	fixedVal := make(map[string]bool, len(literals))
	for _, l := range literals {
		name := boolexpr.NormalizeName(l.Name)
		fixed[name] = true
		fixedVal[name] = !l.Negated // true -> bit '1'
	}
	var free []int
	for i, v := range variables {
		if !fixed[boolexpr.NormalizeName(v)] {
			free = append(free, i)
		}
	}
	total := 1 << uint(len(free))
	out := make([]string, total)
	for combo := 0; combo < total; combo++ {
		buf := make([]byte, len(variables))
		for i, v := range variables {
			n := boolexpr.NormalizeName(v)
			if fixed[n] {
				if fixedVal[n] {
					buf[i] = '1'
				} else {
					buf[i] = '0'
				}
			}
		}
		for slot, varIdx := range free {
			bit := (combo >> uint(len(free)-1-slot)) & 1
			if bit == 1 {
				buf[varIdx] = '1'
			} else {
				buf[varIdx] = '0'
			}
		}
		out[combo] = string(buf)
	}
	return out
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// verifyPrimeImplicant checks one product term against the map's own truth
// table: it must never cover a forbidden cell, its coverage size must be a
// power of two, it must cover at least one target cell, and removing any
// one of its literals must cause the (now wider) coverage to hit a
// forbidden cell — i.e. the term cannot be expanded, so it is prime.
func verifyPrimeImplicant(literals []boolexpr.Literal, variables []string, table map[string]bitset.Bit, target, forbidden bitset.Bit) (bool, string) {
	cells := coverage(literals, variables)
	hitTarget := false
	for _, key := range cells {
		v := table[key]
		if v == forbidden {
			return false, fmt.Sprintf("term covers cell %s with forbidden value", key)
		}
		if v == target {
			hitTarget = true
		}
	}
	if !isPowerOfTwo(len(cells)) {
		return false, "term's coverage size is not a power of two"
	}
	if !hitTarget {
		return false, "term does not cover any target cell"
	}

	for i := range literals {
		reduced := make([]boolexpr.Literal, 0, len(literals)-1)
		reduced = append(reduced, literals[:i]...)
		reduced = append(reduced, literals[i+1:]...)
		widerHitsForbidden := false
		for _, key := range coverage(reduced, variables) {
			if table[key] == forbidden {
				widerHitsForbidden = true
				break
			}
		}
		if !widerHitsForbidden {
			return false, "term is not prime; it can be expanded without covering invalid cells"
		}
	}
	return true, ""
}

// Result is the outcome of verifying one K-map's expression.
type Result struct {
	OK     bool
	Issues []string
}

// Verify checks expr against a map's own cell-defined truth table: the
// expression's truth table must agree with the map's on every non-X cell,
// and every top-level '+' section (see boolexpr.SplitSections, for SOP and
// POS alike) must be a valid prime implicant of the target value that
// covers only legal cells (spec.md §4.4).
func Verify(layout Layout, cells map[string]string, kind Kind, expr string, missingDefault bitset.Bit) Result {
	variables := layout.Variables()
	mapTable := BuildTruthTable(layout, cells, missingDefault)

	exprTable, err := BuildExpressionTruthTable(expr, variables)
	if err != nil {
		return Result{OK: false, Issues: []string{err.Error()}}
	}

	var issues []string
	for key, v := range mapTable {
		if v == bitset.DontCare {
			continue
		}
		if exprTable[key] != v {
			issues = append(issues, "Expression output does not match K-map values")
			break
		}
	}

	target, forbidden := kind.targets()
	tokens := boolexpr.Prepare(expr)
	sections := boolexpr.SplitSections(tokens)
	for i, section := range sections {
		literals, contradictory := boolexpr.LiteralsOf(section)
		if contradictory || len(literals) == 0 {
			issues = append(issues, fmt.Sprintf("expression term %d is contradictory or empty", i+1))
			continue
		}
		known := make(map[string]bool, len(variables))
		for _, v := range variables {
			known[boolexpr.NormalizeName(v)] = true
		}
		unknown := false
		for _, lit := range literals {
			if !known[boolexpr.NormalizeName(lit.Name)] {
				issues = append(issues, fmt.Sprintf("expression term %d references unknown variable %q", i+1, lit.Name))
				unknown = true
				break
			}
		}
		if unknown {
			continue
		}
		if ok, reason := verifyPrimeImplicant(literals, variables, mapTable, target, forbidden); !ok {
			issues = append(issues, fmt.Sprintf("expression term %d is not a valid prime implicant: %s", i+1, reason))
		}
	}

	return Result{OK: len(issues) == 0, Issues: issues}
}
