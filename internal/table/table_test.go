package table

import (
	"testing"

	"fsmgrade/internal/diagram"
	"fsmgrade/internal/model"
)

func twoStateMachine() model.Machine {
	return model.Machine{
		Type:      "moore",
		NumStates: 2,
		Inputs:    []string{"a"},
		Outputs:   []string{"y"},
		States: []model.State{
			{ID: 0, Binary: "0", Outputs: []string{"0"}},
			{ID: 1, Binary: "1", Outputs: []string{"1"}},
		},
		Transitions: []model.Transition{
			{From: 0, To: 1, InputValues: []string{"1"}},
			{From: 0, To: 0, InputValues: []string{"0"}},
			{From: 1, To: 0, InputValues: []string{"0"}},
			{From: 1, To: 1, InputValues: []string{"1"}},
		},
	}
}

func filledCells() map[string]string {
	return map[string]string{
		"0|0::q_0": "0", "0|0::in_0": "0", "0|0::next_q_0": "0", "0|0::out_0": "0",
		"0|1::q_0": "0", "0|1::in_0": "1", "0|1::next_q_0": "1", "0|1::out_0": "0",
		"1|0::q_0": "1", "1|0::in_0": "0", "1|0::next_q_0": "0", "1|0::out_0": "1",
		"1|1::q_0": "1", "1|1::in_0": "1", "1|1::next_q_0": "1", "1|1::out_0": "1",
	}
}

func TestEnsureStructureDefaultLayout(t *testing.T) {
	m := twoStateMachine()
	tbl := EnsureStructure(m)
	cols := ValueColumns(tbl.Columns)
	if len(cols) != 4 {
		t.Fatalf("expected 4 value columns (q_0, next_q_0, in_0, out_0), got %d: %+v", len(cols), cols)
	}
	if len(tbl.Rows) != 4 {
		t.Fatalf("expected 4 rows (2 states x 2 input combos), got %d", len(tbl.Rows))
	}
}

func TestVerifyMatchingTable(t *testing.T) {
	m := twoStateMachine()
	tbl := EnsureStructure(m)
	tbl.Cells = filledCells()
	exp := diagram.Build(m.Transitions, m.StateByID(), 1, m.Type, 1)
	ok, reason := Verify(tbl, exp, 1, m.Type, 1, 1)
	if !ok {
		t.Fatalf("expected matching table to verify, got reason: %s", reason)
	}
}

func TestVerifyMismatchedNextState(t *testing.T) {
	m := twoStateMachine()
	tbl := EnsureStructure(m)
	cells := filledCells()
	cells["1|1::next_q_0"] = "0" // diagram says next state 1
	tbl.Cells = cells
	exp := diagram.Build(m.Transitions, m.StateByID(), 1, m.Type, 1)
	ok, _ := Verify(tbl, exp, 1, m.Type, 1, 1)
	if ok {
		t.Fatal("expected mismatched next-state bit to fail verification")
	}
}

func TestVerifyMissingRowFailsCompleteness(t *testing.T) {
	m := twoStateMachine()
	tbl := EnsureStructure(m)
	cells := filledCells()
	delete(cells, "1|1::q_0")
	delete(cells, "1|1::in_0")
	delete(cells, "1|1::next_q_0")
	delete(cells, "1|1::out_0")
	tbl.Cells = cells
	exp := diagram.Build(m.Transitions, m.StateByID(), 1, m.Type, 1)
	ok, reason := Verify(tbl, exp, 1, m.Type, 1, 1)
	if ok {
		t.Fatal("expected a blank row to leave an expectation unchecked and fail")
	}
	if reason == "" {
		t.Error("expected a non-empty reason")
	}
}
