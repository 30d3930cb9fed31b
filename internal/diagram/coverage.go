package diagram

import (
	"fmt"
	"strings"

	"fsmgrade/internal/bitset"
	"fsmgrade/internal/model"
)

// CheckCoverage verifies that a state's outgoing transitions account for
// every input combination exactly once: no input combo left unhandled, and
// none duplicated or drawn beyond the 2^inputCount total (spec.md §4.6).
func CheckCoverage(stateID int, transitions []model.Transition, inputCount int) (bool, string) {
	expected := 1 << uint(inputCount)
	if expected == 0 {
		return true, ""
	}

	counts := make(map[string]int)
	for _, tr := range transitions {
		if tr.From != stateID {
			continue
		}
		for _, combo := range bitset.CombinationsFrom(valuesToBits(tr.ResolvedInputValues())) {
			counts[combo]++
		}
	}

	var missing []string
	for _, combo := range bitset.GenerateAllCombos(inputCount) {
		if counts[combo] == 0 {
			missing = append(missing, combo)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("State %d is missing input combinations: %s", stateID, strings.Join(missing, ", "))
	}

	hasDuplicates := false
	for _, c := range counts {
		if c > 1 {
			hasDuplicates = true
		}
	}
	if hasDuplicates || len(counts) > expected {
		return false, fmt.Sprintf("State %d has overlapping or extra input combinations", stateID)
	}
	return true, ""
}
