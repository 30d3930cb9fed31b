// Package qm implements Quine-McCluskey minimization: merging minterms into
// prime implicants by repeated single-bit combination, then selecting a
// minimal cover (essential prime implicants first, branch-and-bound for the
// remainder) to produce a minimal sum-of-products expression. This
// algorithm has no counterpart in the original grading script; it follows
// the textbook Quine-McCluskey procedure directly.
package qm

import (
	"sort"
	"strings"
)

// implicant is a bit pattern over the variable count, using '0', '1', or
// '-' (don't-care / merged-out position). minterms records every original
// minterm index this implicant was built from, so essential-PI bookkeeping
// can compare coverage by index rather than by pattern.
type implicant struct {
	bits     string
	minterms map[int]bool
	used     bool // consumed by a merge into a wider implicant
}

func newImplicant(bits string, idx int) implicant {
	return implicant{bits: bits, minterms: map[int]bool{idx: true}}
}

func popcount(bits string) int {
	n := 0
	for _, c := range bits {
		if c == '1' {
			n++
		}
	}
	return n
}

func combinable(a, b string) (string, bool) {
	if len(a) != len(b) {
		return "", false
	}
	diffAt := -1
	for i := range a {
		if a[i] != b[i] {
			if diffAt != -1 {
				return "", false
			}
			diffAt = i
		}
	}
	if diffAt == -1 {
		return "", false
	}
	merged := []byte(a)
	merged[diffAt] = '-'
	return string(merged), true
}

func mergeUnion(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// primeImplicants runs the repeated-merge phase and returns every
// implicant that was never combined into a wider one.
func primeImplicants(width int, indices []int) []implicant {
	current := make([]implicant, 0, len(indices))
	for _, idx := range indices {
		current = append(current, newImplicant(padBinary(idx, width), idx))
	}

	var primes []implicant
	for len(current) > 0 {
		byPop := map[int][]int{} // popcount -> indices into current
		for i, imp := range current {
			p := popcount(imp.bits)
			byPop[p] = append(byPop[p], i)
		}
		pops := make([]int, 0, len(byPop))
		for p := range byPop {
			pops = append(pops, p)
		}
		sort.Ints(pops)

		var next []implicant
		seen := map[string]bool{}
		for gi := 0; gi+1 < len(pops); gi++ {
			lo, hi := pops[gi], pops[gi+1]
			if hi != lo+1 {
				continue
			}
			for _, ai := range byPop[lo] {
				for _, bi := range byPop[hi] {
					merged, ok := combinable(current[ai].bits, current[bi].bits)
					if !ok {
						continue
					}
					current[ai].used = true
					current[bi].used = true
					if seen[merged] {
						continue
					}
					seen[merged] = true
					next = append(next, implicant{
						bits:     merged,
						minterms: mergeUnion(current[ai].minterms, current[bi].minterms),
					})
				}
			}
		}
		for _, imp := range current {
			if !imp.used {
				primes = append(primes, imp)
			}
		}
		current = next
	}
	return dedupeImplicants(primes)
}

func dedupeImplicants(in []implicant) []implicant {
	seen := map[string]bool{}
	var out []implicant
	for _, imp := range in {
		if seen[imp.bits] {
			continue
		}
		seen[imp.bits] = true
		out = append(out, imp)
	}
	return out
}

func padBinary(v, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		if v&1 == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
		v >>= 1
	}
	return string(buf)
}

// Result is a minimized cover: the selected prime implicants (as bit
// patterns, '-' for don't-care positions), which of those are essential,
// and the resulting minimal SOP expression string.
type Result struct {
	PrimeImplicants []string
	Essential       []string
	Cover           []string
	Expression      string
}

// Minimize runs Quine-McCluskey over the given variable names: ones are
// minterm indices (0..2^n-1) that must evaluate true, dontCares may be
// covered but need not be. Indices not listed are required to evaluate
// false and must never be covered by the chosen implicants.
func Minimize(variables []string, ones, dontCares []int) Result {
	width := len(variables)
	all := append(append([]int{}, ones...), dontCares...)
	sort.Ints(all)

	primes := primeImplicants(width, all)

	oneSet := make(map[int]bool, len(ones))
	for _, m := range ones {
		oneSet[m] = true
	}

	requiredMinterms := make([]int, 0, len(ones))
	for m := range oneSet {
		requiredMinterms = append(requiredMinterms, m)
	}
	sort.Ints(requiredMinterms)

	essentialSet, covered := iteratedEssentials(primes, requiredMinterms)

	remaining := make([]int, 0)
	for _, m := range requiredMinterms {
		if !covered[m] {
			remaining = append(remaining, m)
		}
	}

	extra := branchAndBoundCover(primes, essentialSet, remaining)

	selected := make([]int, 0, len(essentialSet)+len(extra))
	for pi := range essentialSet {
		selected = append(selected, pi)
	}
	selected = append(selected, extra...)
	sort.Ints(selected)

	result := Result{}
	var termStrings []string
	var essentialStrings []string
	for _, pi := range selected {
		bits := primes[pi].bits
		result.Cover = append(result.Cover, bits)
		termStrings = append(termStrings, termFromBits(variables, bits))
	}
	for pi := range essentialSet {
		essentialStrings = append(essentialStrings, primes[pi].bits)
	}
	sort.Strings(essentialStrings)
	for _, imp := range primes {
		result.PrimeImplicants = append(result.PrimeImplicants, imp.bits)
	}
	sort.Strings(result.PrimeImplicants)
	result.Essential = essentialStrings
	sort.Strings(result.Cover)
	result.Expression = strings.Join(dedupeStrings(termStrings), " + ")
	return result
}

// iteratedEssentials finds every essential prime implicant — one that is
// the sole cover of some required minterm — repeating the scan after each
// round removes newly-covered minterms, since covering one essential's
// minterms can unmask a new essential among what's left (spec.md §4.5:
// "essentials -> remove covered minterms -> recompute essentials").
func iteratedEssentials(primes []implicant, required []int) (essential map[int]bool, covered map[int]bool) {
	essential = map[int]bool{}
	covered = map[int]bool{}
	for {
		coverage := map[int][]int{} // minterm -> indices into primes, restricted to uncovered minterms
		for _, m := range required {
			if covered[m] {
				continue
			}
			for pi, imp := range primes {
				if imp.minterms[m] {
					coverage[m] = append(coverage[m], pi)
				}
			}
		}
		found := false
		for _, pis := range coverage {
			if len(pis) == 1 && !essential[pis[0]] {
				essential[pis[0]] = true
				found = true
			}
		}
		if !found {
			break
		}
		for pi := range essential {
			for m := range primes[pi].minterms {
				covered[m] = true
			}
		}
	}
	return essential, covered
}

func literalCount(bits string) int {
	n := 0
	for _, c := range bits {
		if c != '-' {
			n++
		}
	}
	return n
}

// cost is the (literal_count, term_count) tuple spec.md §4.5 minimizes,
// compared lexicographically: fewer literals wins; ties break on fewer
// terms.
type cost struct {
	literals int
	terms    int
}

func (c cost) less(other cost) bool {
	if c.literals != other.literals {
		return c.literals < other.literals
	}
	return c.terms < other.terms
}

// branchAndBoundCover selects additional prime implicants (beyond the
// essential set) to cover every remaining required minterm, searching for
// the lexicographically minimal (literal_count, term_count) cover: at each
// node it branches on the candidates covering the lowest-numbered
// uncovered minterm, tried in descending order of how much of the current
// residual they cover, and prunes a branch once its running cost already
// meets or exceeds the best complete cover found, or once the union of
// everything left to try can no longer reach full coverage (spec.md §4.5,
// §8 property 7).
func branchAndBoundCover(primes []implicant, essential map[int]bool, remaining []int) []int {
	if len(remaining) == 0 {
		return nil
	}

	candidates := make([]int, 0, len(primes))
	for pi := range primes {
		if !essential[pi] {
			candidates = append(candidates, pi)
		}
	}

	var best []int
	bestCost := cost{literals: 1 << 30, terms: 1 << 30}

	var search func(uncovered map[int]bool, chosen []int, running cost)
	search = func(uncovered map[int]bool, chosen []int, running cost) {
		if len(uncovered) == 0 {
			if running.less(bestCost) {
				bestCost = running
				best = append([]int(nil), chosen...)
			}
			return
		}
		if !running.less(bestCost) {
			return
		}
		reachable := map[int]bool{}
		for _, pi := range candidates {
			already := false
			for _, c := range chosen {
				if c == pi {
					already = true
					break
				}
			}
			if already {
				continue
			}
			for m := range primes[pi].minterms {
				if uncovered[m] {
					reachable[m] = true
				}
			}
		}
		for m := range uncovered {
			if !reachable[m] {
				return // optimistic union can't reach full coverage
			}
		}

		target := -1
		for m := range uncovered {
			if target == -1 || m < target {
				target = m
			}
		}

		var branch []int
		for _, pi := range candidates {
			if primes[pi].minterms[target] {
				branch = append(branch, pi)
			}
		}
		sort.Slice(branch, func(i, j int) bool {
			gi, gj := 0, 0
			for m := range primes[branch[i]].minterms {
				if uncovered[m] {
					gi++
				}
			}
			for m := range primes[branch[j]].minterms {
				if uncovered[m] {
					gj++
				}
			}
			return gi > gj
		})

		for _, pi := range branch {
			nextUncovered := make(map[int]bool, len(uncovered))
			for m := range uncovered {
				if !primes[pi].minterms[m] {
					nextUncovered[m] = true
				}
			}
			nextChosen := append(append([]int(nil), chosen...), pi)
			search(nextUncovered, nextChosen, cost{
				literals: running.literals + literalCount(primes[pi].bits),
				terms:    running.terms + 1,
			})
		}
	}

	uncovered := make(map[int]bool, len(remaining))
	for _, m := range remaining {
		uncovered[m] = true
	}
	search(uncovered, nil, cost{})
	return best
}

func termFromBits(variables []string, bits string) string {
	var parts []string
	for i, c := range bits {
		if c == '-' {
			continue
		}
		if c == '0' {
			parts = append(parts, "~"+variables[i])
		} else {
			parts = append(parts, variables[i])
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " ")
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
