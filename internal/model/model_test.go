package model

import (
	"encoding/json"
	"testing"
)

func TestTransitionLegacyFieldFallback(t *testing.T) {
	var tr Transition
	if err := json.Unmarshal([]byte(`{"from":0,"to":1,"inputs":["1","0"],"outputs":["1"]}`), &tr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := tr.ResolvedInputValues()
	if len(got) != 2 || got[0] != "1" || got[1] != "0" {
		t.Errorf("expected legacy inputs to resolve, got %v", got)
	}
	if out := tr.ResolvedOutputValues(); len(out) != 1 || out[0] != "1" {
		t.Errorf("expected legacy outputs to resolve, got %v", out)
	}
}

func TestTransitionPrefersModernFields(t *testing.T) {
	var tr Transition
	if err := json.Unmarshal([]byte(`{"from":0,"to":1,"inputValues":["0","1"],"inputs":["1","0"]}`), &tr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := tr.ResolvedInputValues()
	if len(got) != 2 || got[0] != "0" || got[1] != "1" {
		t.Errorf("expected modern inputValues to win, got %v", got)
	}
}

func TestIsSelfLoop(t *testing.T) {
	tr := Transition{From: 2, To: 2}
	if !tr.IsSelfLoop() {
		t.Error("expected From==To to be a self loop")
	}
	tr2 := Transition{From: 1, To: 2}
	if tr2.IsSelfLoop() {
		t.Error("expected From!=To to not be a self loop")
	}
}

func TestUsedStates(t *testing.T) {
	m := Machine{
		States: []State{{ID: 0}, {ID: 1}, {ID: 2, Placed: true}},
		Transitions: []Transition{
			{From: 0, To: 1},
		},
	}
	used := m.UsedStates()
	if !used[0] || !used[1] {
		t.Error("expected states 0 and 1 to be used via transitions")
	}
	if !used[2] {
		t.Error("expected state 2 to be used via placed flag")
	}
}

func TestStateByID(t *testing.T) {
	m := Machine{States: []State{{ID: 5, Label: "S5"}}}
	idx := m.StateByID()
	if idx[5].Label != "S5" {
		t.Errorf("expected state 5 to be indexed, got %+v", idx)
	}
}

func TestTransitionTableDecompressLegacyGrid(t *testing.T) {
	tbl := TransitionTable{
		Headers: []string{"q_0", "next_q_0", "in_0", "out_0"},
		Data: [][]int{
			{0, 0, 0, 0},
			{0, 1, 1, 0},
			{1, 0, 0, 1},
			{1, 1, 1, 1},
		},
	}
	if !tbl.IsCompressed() {
		t.Fatal("expected a headers/data table with no cells to report as compressed")
	}
	got := tbl.Decompress(2, []string{"a"})
	want := map[string]string{
		"0|0::q_0": "0", "0|0::next_q_0": "0", "0|0::in_0": "0", "0|0::out_0": "0",
		"0|1::q_0": "0", "0|1::next_q_0": "1", "0|1::in_0": "1", "0|1::out_0": "0",
		"1|0::q_0": "1", "1|0::next_q_0": "0", "1|0::in_0": "0", "1|0::out_0": "1",
		"1|1::q_0": "1", "1|1::next_q_0": "1", "1|1::in_0": "1", "1|1::out_0": "1",
	}
	for k, v := range want {
		if got.Cells[k] != v {
			t.Errorf("cell %s = %q, want %q", k, got.Cells[k], v)
		}
	}
	if len(got.Rows) != 4 {
		t.Errorf("expected 4 decompressed rows, got %d", len(got.Rows))
	}
}

func TestTransitionTableDecompressSynthesizesMissingStructure(t *testing.T) {
	tbl := TransitionTable{
		Cells: map[string]string{
			"0|0::q_0":  "0",
			"0|0::in_0": "1",
		},
	}
	if tbl.IsCompressed() {
		t.Fatal("a table with a cells map should not report as compressed")
	}
	got := tbl.Decompress(1, []string{"a"})
	if len(got.Rows) != 1 || got.Rows[0].Key != "0|0" {
		t.Errorf("expected a synthesized row for 0|0, got %+v", got.Rows)
	}
	baseKeys := map[string]bool{}
	for _, c := range got.Columns {
		baseKeys[c.BaseKey] = true
	}
	if !baseKeys["q_0"] || !baseKeys["in_0"] {
		t.Errorf("expected synthesized columns for q_0 and in_0, got %+v", got.Columns)
	}
}
