package table

import (
	"fmt"
	"strings"

	"fsmgrade/internal/bitset"
	"fsmgrade/internal/diagram"
	"fsmgrade/internal/model"
)

// RowValues is one transition-table row's cell contents, split out by
// column family.
type RowValues struct {
	CurrentState []string
	Inputs       []string
	NextState    []string
	Outputs      []string
}

func cellValue(cells map[string]string, rowKey, colKey string) string {
	return bitset.Normalize(cells[fmt.Sprintf("%s::%s", rowKey, colKey)]).String()
}

// RowIsBlank reports whether every value column of a row is empty.
func RowIsBlank(rowKey string, columns []model.Column, cells map[string]string) bool {
	for _, col := range columns {
		if cellValue(cells, rowKey, col.Key) != "" {
			return false
		}
	}
	return true
}

// ReadRowValues reads one row's cells out into its current-state,
// input, next-state, and output groups, keyed by column baseKey prefix.
func ReadRowValues(rowKey string, columns []model.Column, cells map[string]string) RowValues {
	var rv RowValues
	for _, col := range columns {
		v := cellValue(cells, rowKey, col.Key)
		switch {
		case strings.HasPrefix(baseKeyOf(col), "q_"):
			rv.CurrentState = append(rv.CurrentState, v)
		case strings.HasPrefix(baseKeyOf(col), "in_"):
			rv.Inputs = append(rv.Inputs, v)
		case strings.HasPrefix(baseKeyOf(col), "next_q_"):
			rv.NextState = append(rv.NextState, v)
		case strings.HasPrefix(baseKeyOf(col), "out_"):
			rv.Outputs = append(rv.Outputs, v)
		}
	}
	return rv
}

// valuesCompatible reports whether one expected/actual bit pair agree,
// treating "X" on either side as a wildcard. Both sides must be non-empty.
func valuesCompatible(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	if expected == "X" || actual == "X" {
		return true
	}
	return expected == actual
}

func listsCompatible(expected, actual []string) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if !valuesCompatible(expected[i], actual[i]) {
			return false
		}
	}
	return true
}

// outputsCompatible applies the Mealy output rule: "X" only matches "X",
// not a concrete bit (an undetermined output is not interchangeable with a
// committed one), whereas Moore output bits use the ordinary wildcard rule.
func outputsCompatible(expected, actual []string, kind string) bool {
	if len(expected) != len(actual) {
		return false
	}
	if kind == "mealy" {
		for i := range expected {
			e, a := expected[i], actual[i]
			if e == "" || a == "" {
				return false
			}
			if e == "X" {
				if a != "X" {
					return false
				}
				continue
			}
			if e != a {
				return false
			}
		}
		return true
	}
	return listsCompatible(expected, actual)
}

func blankToZero(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v == "" {
			out[i] = "0"
		} else {
			out[i] = v
		}
	}
	return out
}

func anyEmpty(values []string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

// Verify checks a filled-in transition table against the diagram's
// expectations: every required column family must be present at the
// correct width, every non-blank row must resolve to a key the diagram
// recognizes with compatible next-state/output values, and every
// expectation the diagram implies must be hit by at least one row.
func Verify(tbl model.TransitionTable, expectations diagram.Expectations, bitCount int, kind string, inputCount, outputCount int) (bool, string) {
	columns := ValueColumns(tbl.Columns)

	var currentCols, nextCols, inputCols, outputCols []model.Column
	for _, c := range columns {
		switch {
		case strings.HasPrefix(baseKeyOf(c), "q_"):
			currentCols = append(currentCols, c)
		case strings.HasPrefix(baseKeyOf(c), "next_q_"):
			nextCols = append(nextCols, c)
		case strings.HasPrefix(baseKeyOf(c), "in_"):
			inputCols = append(inputCols, c)
		case strings.HasPrefix(baseKeyOf(c), "out_"):
			outputCols = append(outputCols, c)
		}
	}

	var missing []string
	if len(currentCols) != bitCount {
		missing = append(missing, "current state bits")
	}
	if len(nextCols) != bitCount {
		missing = append(missing, "next state bits")
	}
	if len(inputCols) != inputCount {
		missing = append(missing, "input columns")
	}
	if len(outputCols) != outputCount {
		missing = append(missing, "output columns")
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("missing required column headers: %s", strings.Join(missing, ", "))
	}

	unchecked := make(map[string]bool, len(expectations.Map))
	for k := range expectations.Map {
		unchecked[k] = true
	}
	matches := !expectations.Conflict

	for _, row := range tbl.Rows {
		if !matches {
			break
		}
		if RowIsBlank(row.Key, columns, tbl.Cells) {
			continue
		}
		raw := ReadRowValues(row.Key, columns, tbl.Cells)
		actual := RowValues{
			CurrentState: blankToZero(raw.CurrentState),
			Inputs:       blankToZero(raw.Inputs),
			NextState:    blankToZero(raw.NextState),
			Outputs:      blankToZero(raw.Outputs),
		}
		if anyEmpty(actual.CurrentState) || anyEmpty(actual.Inputs) {
			matches = false
			break
		}
		currentBits := strings.Join(actual.CurrentState, "")
		inputBits := strings.Join(actual.Inputs, "")
		if currentBits == "" || len(currentBits) != bitCount {
			matches = false
			break
		}
		comboKey := inputBits
		if comboKey == "" {
			comboKey = "none"
		}
		k := fmt.Sprintf("%s|%s", currentBits, comboKey)
		expected, ok := expectations.Map[k]
		if !ok {
			matches = false
			break
		}
		if !listsCompatible(expected.NextStateBits, actual.NextState) {
			matches = false
			break
		}
		if !outputsCompatible(expected.Outputs, actual.Outputs, kind) {
			matches = false
			break
		}
		delete(unchecked, k)
	}

	if matches && len(unchecked) > 0 {
		return false, "Transition table is missing transitions that exist in the diagram"
	}
	if !matches {
		return false, "Transition table and diagram do not match"
	}
	return true, ""
}
