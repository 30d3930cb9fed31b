// Package model defines the JSON document shape a saved FSM-designer
// project is read from: states, transitions, the transition table's cell
// grid, and K-maps.
package model

import (
	"fmt"
	"sort"
	"strings"

	"fsmgrade/internal/bitset"
)

// State is one node of the diagram: its id, user-facing label/description,
// the binary code the student assigned it, whether it has been dragged
// onto the canvas, and (for a Moore machine) its fixed output bits.
type State struct {
	ID          int      `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Binary      string   `json:"binary"`
	Placed      bool     `json:"placed"`
	Outputs     []string `json:"outputs"`
}

// Transition is one drawn arrow between states, tagged with the input
// combination that fires it and (for a Mealy machine) the output it
// produces. Older saves name these arrays "inputs"/"outputs" rather than
// "inputValues"/"outputValues".
type Transition struct {
	From         int      `json:"from"`
	To           int      `json:"to"`
	InputValues  []string `json:"inputValues"`
	OutputValues []string `json:"outputValues"`
	LegacyInputs  []string `json:"inputs,omitempty"`
	LegacyOutputs []string `json:"outputs,omitempty"`
	ArcOffset    *float64 `json:"arcOffset,omitempty"`
	LoopAngle    *float64 `json:"loopAngle,omitempty"`
}

// ResolvedInputValues returns InputValues, falling back to the legacy
// "inputs" array when the modern field is empty.
func (t Transition) ResolvedInputValues() []string {
	if len(t.InputValues) > 0 {
		return t.InputValues
	}
	return t.LegacyInputs
}

// ResolvedOutputValues returns OutputValues, falling back to the legacy
// "outputs" array when the modern field is empty.
func (t Transition) ResolvedOutputValues() []string {
	if len(t.OutputValues) > 0 {
		return t.OutputValues
	}
	return t.LegacyOutputs
}

// IsSelfLoop reports whether this transition starts and ends at the same
// state. LoopAngle is kept exactly as saved: no default angle is filled
// in for a self-loop whose LoopAngle is absent.
func (t Transition) IsSelfLoop() bool {
	return t.From == t.To
}

// KMap is one Karnaugh map the student filled in for a single output bit.
type KMap struct {
	ID               string            `json:"id"`
	Label            string            `json:"label"`
	Variables        []string          `json:"variables"`
	Direction        string            `json:"direction"`
	Type             string            `json:"type"` // "sop" or "pos"
	Cells            map[string]string `json:"cells"`
	Expression       string            `json:"expression"`
	ExpressionTokens []ExprToken       `json:"expressionTokens,omitempty"`
}

// ExprToken mirrors a pre-tokenized expression entry a frontend may embed
// directly in the save file instead of the raw expression string.
type ExprToken struct {
	Type    string `json:"type"`
	Value   string `json:"value,omitempty"`
	Negated bool   `json:"negated,omitempty"`
}

// Column describes one transition-table column: a stable baseKey ("q_0",
// "in_1", "out_0", "spacer") plus the instantiated, possibly user-renamed,
// key and label actually stored against table cells.
type Column struct {
	Key     string `json:"key"`
	BaseKey string `json:"baseKey"`
	Label   string `json:"label"`
	Type    string `json:"type"` // "value" or "spacer"
}

// Row is one transition-table row: a specific state paired with one input
// combination.
type Row struct {
	Key        string `json:"key"`
	StateID    int    `json:"stateId"`
	InputCombo string `json:"inputCombo"`
}

// TransitionTable is the transition-table grid: a flat cell map keyed
// "rowKey::colKey" plus whatever columns/rows the student's save already
// declares (table.EnsureStructure fills in anything missing). Older saves
// may instead carry the compressed grid form (Headers/Data); Decompress
// rehydrates those into Cells.
type TransitionTable struct {
	Cells   map[string]string `json:"cells"`
	Columns []Column          `json:"columns"`
	Rows    []Row             `json:"rows"`

	Headers []string `json:"headers,omitempty"`
	Data    [][]int  `json:"data,omitempty"`
}

// legacyCellSymbols maps the compressed grid's integer encoding back to
// the cell-string alphabet: 0/1/X/empty.
var legacyCellSymbols = map[int]string{0: "0", 1: "1", 2: "X", -1: ""}

// IsCompressed reports whether this table was saved in the legacy
// {headers, data} grid form rather than the modern flat cell map.
func (t TransitionTable) IsCompressed() bool {
	return t.Cells == nil && t.Headers != nil
}

// Decompress rehydrates a legacy compressed table into a flat Cells map
// keyed "rowKey::colKey", with rows in canonical state-major, combo-minor
// order. A table already in the modern cell-map form keeps its cells and
// gets any missing rows/columns synthesized.
func (t TransitionTable) Decompress(numStates int, inputs []string) TransitionTable {
	if !t.IsCompressed() {
		return t.withSynthesizedStructure()
	}
	combos := bitset.GenerateAllCombos(len(inputs))
	var rows []Row
	cells := make(map[string]string, numStates*len(combos)*len(t.Headers))
	rowIdx := 0
	for s := 0; s < numStates; s++ {
		for _, combo := range combos {
			comboKey := combo
			if comboKey == "" {
				comboKey = "none"
			}
			rowKey := fmt.Sprintf("%d|%s", s, comboKey)
			rows = append(rows, Row{Key: rowKey, StateID: s, InputCombo: combo})
			var rowValues []int
			if rowIdx < len(t.Data) {
				rowValues = t.Data[rowIdx]
			}
			for colIdx, colKey := range t.Headers {
				symbol := ""
				if colIdx < len(rowValues) {
					symbol = legacyCellSymbols[rowValues[colIdx]]
				}
				cells[rowKey+"::"+colKey] = symbol
			}
			rowIdx++
		}
	}
	var columns []Column
	for _, colKey := range t.Headers {
		base := colKey
		if i := indexOfDoubleUnderscore(colKey); i >= 0 {
			base = colKey[:i]
		}
		columns = append(columns, Column{Key: colKey, BaseKey: base, Type: "value"})
	}
	return TransitionTable{Cells: cells, Columns: columns, Rows: rows}
}

// withSynthesizedStructure fills in a modern (cell-map) table's Rows and
// Columns from its cell keys when the save itself omitted them, the same
// fallback decompress_transition_table applies regardless of which form a
// table was saved in.
func (t TransitionTable) withSynthesizedStructure() TransitionTable {
	if len(t.Rows) > 0 && len(t.Columns) > 0 {
		return t
	}
	rowKeys := map[string]bool{}
	colKeys := map[string]bool{}
	for cellKey := range t.Cells {
		rowKey, colKey, ok := cutLast(cellKey, "::")
		if !ok {
			continue
		}
		rowKeys[rowKey] = true
		colKeys[colKey] = true
	}
	if len(t.Rows) == 0 {
		var rows []Row
		for k := range rowKeys {
			rows = append(rows, Row{Key: k})
		}
		sortRows(rows)
		t.Rows = rows
	}
	if len(t.Columns) == 0 {
		var columns []Column
		for k := range colKeys {
			base := k
			if i := indexOfDoubleUnderscore(k); i >= 0 {
				base = k[:i]
			}
			columns = append(columns, Column{Key: k, BaseKey: base, Type: "value"})
		}
		sortColumns(columns)
		t.Columns = columns
	}
	return t
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
}

func sortColumns(columns []Column) {
	sort.Slice(columns, func(i, j int) bool { return columns[i].Key < columns[j].Key })
}

func indexOfDoubleUnderscore(s string) int {
	return strings.Index(s, "__")
}

// Machine is the full saved FSM project document.
type Machine struct {
	Type            string           `json:"type"` // "moore" or "mealy"
	NumStates       int              `json:"numStates"`
	Inputs          []string         `json:"inputs"`
	Outputs         []string         `json:"outputs"`
	States          []State          `json:"states"`
	Transitions     []Transition     `json:"transitions"`
	TransitionTable *TransitionTable `json:"transitionTable,omitempty"`
	KMaps           []KMap           `json:"kmaps"`
}

// StateByID indexes states by id for quick lookup.
func (m Machine) StateByID() map[int]State {
	out := make(map[int]State, len(m.States))
	for _, s := range m.States {
		out[s.ID] = s
	}
	return out
}

// UsedStates returns the set of state IDs that are either placed on the
// canvas or referenced by at least one transition (as source or
// destination) — spec.md's "used state" filter.
func (m Machine) UsedStates() map[int]bool {
	used := make(map[int]bool, len(m.States))
	for _, s := range m.States {
		if s.Placed {
			used[s.ID] = true
		}
	}
	for _, tr := range m.Transitions {
		used[tr.From] = true
		used[tr.To] = true
	}
	return used
}
