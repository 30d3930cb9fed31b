// Package table builds and verifies the gate-mode transition table: a
// grid of Q/Q+/input/output columns the student fills in row by row, which
// must reconstruct exactly the expectations the diagram implies (spec.md
// §4.7, "transition-table-to-dictionary reading").
package table

import (
	"fmt"
	"strings"

	"fsmgrade/internal/bitset"
	"fsmgrade/internal/model"
)

func baseKeyOf(col model.Column) string {
	key := col.BaseKey
	if key == "" {
		key = col.Key
	}
	if i := strings.Index(key, "__"); i >= 0 {
		key = key[:i]
	}
	return key
}

// BuildColumnTemplates returns the canonical column layout for a machine of
// the given size: current-state bits (high to low), next-state bits (high
// to low), one column per input, one per output, then a trailing spacer.
func BuildColumnTemplates(numStates int, inputs, outputs []string) []model.Column {
	bitCount := bitset.StateBitWidth(numStates)
	var templates []model.Column
	for i := bitCount - 1; i >= 0; i-- {
		key := fmt.Sprintf("q_%d", i)
		templates = append(templates, model.Column{Key: key, BaseKey: key, Label: fmt.Sprintf("Q_%d", i), Type: "value"})
	}
	for i := bitCount - 1; i >= 0; i-- {
		key := fmt.Sprintf("next_q_%d", i)
		templates = append(templates, model.Column{Key: key, BaseKey: key, Label: fmt.Sprintf("Q_%d^+", i), Type: "value"})
	}
	for idx, name := range inputs {
		key := fmt.Sprintf("in_%d", idx)
		label := name
		if label == "" {
			label = fmt.Sprintf("Input %d", idx+1)
		}
		templates = append(templates, model.Column{Key: key, BaseKey: key, Label: label, Type: "value"})
	}
	for idx, name := range outputs {
		key := fmt.Sprintf("out_%d", idx)
		label := name
		if label == "" {
			label = fmt.Sprintf("Output %d", idx+1)
		}
		templates = append(templates, model.Column{Key: key, BaseKey: key, Label: label, Type: "value"})
	}
	templates = append(templates, model.Column{Key: "spacer", BaseKey: "spacer", Label: "", Type: "spacer"})
	return templates
}

// EnsureStructure reconciles a (possibly partial, possibly user-reordered)
// saved transitionTable against the canonical templates for this machine's
// size, and (re)builds its row list from scratch. A nil table is treated as
// empty.
func EnsureStructure(m model.Machine) model.TransitionTable {
	var existing model.TransitionTable
	if m.TransitionTable != nil {
		existing = *m.TransitionTable
	}
	if existing.Cells == nil {
		existing.Cells = map[string]string{}
	}

	templates := BuildColumnTemplates(m.NumStates, m.Inputs, m.Outputs)
	templateByBase := make(map[string]model.Column, len(templates))
	for _, tpl := range templates {
		templateByBase[tpl.BaseKey] = tpl
	}

	var sanitized []model.Column
	for _, col := range existing.Columns {
		tpl, ok := templateByBase[baseKeyOf(col)]
		if !ok {
			continue
		}
		key := col.Key
		if key == "" {
			key = tpl.BaseKey + "__generated"
		}
		merged := tpl
		merged.Key = key
		merged.BaseKey = tpl.BaseKey
		sanitized = append(sanitized, merged)
	}

	if len(sanitized) == 0 {
		sanitized = defaultLayout(templates)
	}

	out := model.TransitionTable{Cells: existing.Cells, Columns: sanitized}
	out.Rows = buildRows(m.NumStates, m.Inputs)
	return out
}

func defaultLayout(templates []model.Column) []model.Column {
	var current, next, inputs, outputs []model.Column
	for _, tpl := range templates {
		switch {
		case strings.HasPrefix(tpl.BaseKey, "q_"):
			current = append(current, tpl)
		case strings.HasPrefix(tpl.BaseKey, "next_q_"):
			next = append(next, tpl)
		case strings.HasPrefix(tpl.BaseKey, "in_"):
			inputs = append(inputs, tpl)
		case strings.HasPrefix(tpl.BaseKey, "out_"):
			outputs = append(outputs, tpl)
		}
	}
	out := append([]model.Column{}, current...)
	out = append(out, next...)
	if len(inputs) > 0 || len(outputs) > 0 {
		out = append(out, model.Column{Key: "spacer", BaseKey: "spacer", Type: "spacer"})
	}
	out = append(out, inputs...)
	out = append(out, outputs...)
	return out
}

func buildRows(numStates int, inputs []string) []model.Row {
	combos := bitset.GenerateAllCombos(len(inputs))
	var rows []model.Row
	for s := 0; s < numStates; s++ {
		for _, combo := range combos {
			comboKey := combo
			if comboKey == "" {
				comboKey = "none"
			}
			rows = append(rows, model.Row{Key: fmt.Sprintf("%d|%s", s, comboKey), StateID: s, InputCombo: combo})
		}
	}
	return rows
}

// ValueColumns filters a column list down to the "value" columns (i.e.
// everything but spacers), the set verify/reporting actually reasons over.
func ValueColumns(columns []model.Column) []model.Column {
	var out []model.Column
	for _, c := range columns {
		if c.Type == "value" {
			out = append(out, c)
		}
	}
	return out
}
