package grade

import (
	"strings"
	"testing"

	"fsmgrade/internal/model"
	"fsmgrade/internal/table"
)

func fullyDefinedMachine() model.Machine {
	return model.Machine{
		Type:      "moore",
		NumStates: 2,
		Inputs:    []string{"a"},
		Outputs:   []string{"y"},
		States: []model.State{
			{ID: 0, Label: "Idle", Description: "waiting for input", Binary: "0", Placed: true, Outputs: []string{"0"}},
			{ID: 1, Label: "Active", Description: "saw a 1", Binary: "1", Placed: true, Outputs: []string{"1"}},
		},
		Transitions: []model.Transition{
			{From: 0, To: 1, InputValues: []string{"1"}},
			{From: 0, To: 0, InputValues: []string{"0"}},
			{From: 1, To: 0, InputValues: []string{"0"}},
			{From: 1, To: 1, InputValues: []string{"1"}},
		},
	}
}

func matchingCells() map[string]string {
	return map[string]string{
		"0|0::q_0": "0", "0|0::in_0": "0", "0|0::next_q_0": "0", "0|0::out_0": "0",
		"0|1::q_0": "0", "0|1::in_0": "1", "0|1::next_q_0": "1", "0|1::out_0": "0",
		"1|0::q_0": "1", "1|0::in_0": "0", "1|0::next_q_0": "0", "1|0::out_0": "1",
		"1|1::q_0": "1", "1|1::in_0": "1", "1|1::next_q_0": "1", "1|1::out_0": "1",
	}
}

func TestCheckStateDefinitionsFullCredit(t *testing.T) {
	m := fullyDefinedMachine()
	res := checkStateDefinitions(m, WeightsRubricV2, 1, 1)
	if res.Score != res.Weight {
		t.Fatalf("expected full credit, got %.2f/%.2f notes=%v", res.Score, res.Weight, res.Notes)
	}
}

func TestCheckStateDefinitionsDuplicateBinaryHalvesCredit(t *testing.T) {
	m := fullyDefinedMachine()
	m.States[1].Binary = "0" // collides with state 0
	res := checkStateDefinitions(m, WeightsRubricV2, 1, 1)
	if res.Score >= res.Weight {
		t.Fatalf("expected duplicate encodings to cost points, got %.2f/%.2f", res.Score, res.Weight)
	}
	found := false
	for _, n := range res.Notes {
		if n == "Duplicate state encodings" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a duplicate-encodings note, got %v", res.Notes)
	}
}

func TestCheckStateDefinitionsBelowMinimumInputs(t *testing.T) {
	m := fullyDefinedMachine()
	res := checkStateDefinitions(m, WeightsRubricV2, 3, 1)
	if res.Score >= res.Weight {
		t.Fatalf("expected a shortfall when minInputs exceeds actual inputs, got full credit %.2f/%.2f", res.Score, res.Weight)
	}
}

func TestCheckTransitionDiagramFullCoverage(t *testing.T) {
	m := fullyDefinedMachine()
	res := checkTransitionDiagram(m, WeightsRubricV2, 2, 1, 1)
	if res.Score != res.Weight {
		t.Fatalf("expected full coverage credit, got %.2f/%.2f notes=%v", res.Score, res.Weight, res.Notes)
	}
}

func TestCheckTransitionDiagramMissingCombo(t *testing.T) {
	m := fullyDefinedMachine()
	m.Transitions = m.Transitions[:3] // drop state 1's "1" transition, leaving a coverage gap
	res := checkTransitionDiagram(m, WeightsRubricV2, 2, 1, 1)
	if res.Score >= res.Weight {
		t.Fatalf("expected a coverage gap to cost points, got %.2f/%.2f", res.Score, res.Weight)
	}
	if len(res.Notes) == 0 {
		t.Error("expected a note describing the coverage gap")
	}
}

func TestCheckTransitionTableFullMatch(t *testing.T) {
	m := fullyDefinedMachine()
	tbl := table.EnsureStructure(m)
	tbl.Cells = matchingCells()
	m.TransitionTable = &tbl
	res := checkTransitionTable(m, WeightsRubricV2, 2, 1, 1)
	if res.Score != res.Weight {
		t.Fatalf("expected full match credit, got %.2f/%.2f notes=%v", res.Score, res.Weight, res.Notes)
	}
}

func TestCheckTransitionTableMismatchLosesMatchPoints(t *testing.T) {
	m := fullyDefinedMachine()
	tbl := table.EnsureStructure(m)
	cells := matchingCells()
	cells["1|1::next_q_0"] = "0" // diagram says next state 1
	tbl.Cells = cells
	m.TransitionTable = &tbl
	res := checkTransitionTable(m, WeightsRubricV2, 2, 1, 1)
	if res.Score >= res.Weight {
		t.Fatalf("expected the mismatch to cost match points, got %.2f/%.2f", res.Score, res.Weight)
	}
	foundNote := false
	for _, n := range res.Notes {
		if strings.Contains(n, "Table/diagram mismatch") {
			foundNote = true
		}
	}
	if !foundNote {
		t.Errorf("expected a mismatch-percentage note, got %v", res.Notes)
	}
}

func TestCheckTransitionTableMissingColumnsLosesStructurePoints(t *testing.T) {
	m := fullyDefinedMachine()
	tbl := table.EnsureStructure(m)
	tbl.Cells = matchingCells()
	var kept []model.Column
	for _, c := range tbl.Columns {
		if c.BaseKey != "out_0" {
			kept = append(kept, c)
		}
	}
	tbl.Columns = kept
	m.TransitionTable = &tbl
	res := checkTransitionTable(m, WeightsRubricV2, 2, 1, 1)
	if res.Score >= res.Weight {
		t.Fatalf("expected a dropped column to cost structure points, got %.2f/%.2f", res.Score, res.Weight)
	}
}

func TestKmapScoresNoKmapsAwardsFullCredit(t *testing.T) {
	completeness, expression, notes := kmapScores(nil, 2, 2)
	if completeness != 2 || expression != 2 {
		t.Fatalf("expected full credit with no kmaps, got %.2f/%.2f", completeness, expression)
	}
	if len(notes) != 0 {
		t.Errorf("expected no notes, got %v", notes)
	}
}

func TestRubricTotalsAndRender(t *testing.T) {
	m := fullyDefinedMachine()
	tbl := table.EnsureStructure(m)
	tbl.Cells = matchingCells()
	m.TransitionTable = &tbl

	res := Rubric("hw3.json", m, WeightsRubricV2, 2, 1, 1)
	if res.TotalScore() != res.TotalWeight() {
		t.Fatalf("expected a fully credited save to score full marks, got %.2f/%.2f", res.TotalScore(), res.TotalWeight())
	}
	rendered := res.Render()
	if !strings.HasPrefix(rendered, "File: hw3.json\n") {
		t.Errorf("expected render to open with the file name, got %q", rendered)
	}
	if !strings.Contains(rendered, "100.0%") {
		t.Errorf("expected a 100%% total line, got %q", rendered)
	}
}

func TestRubricResultSectionWeightsMatchPresets(t *testing.T) {
	if WeightsRubricV2.TableMatch != 16.0 {
		t.Errorf("expected WeightsRubricV2.TableMatch to be 16.0, got %.2f", WeightsRubricV2.TableMatch)
	}
	if WeightsAutograder.ArrowCoverage <= WeightsRubricV2.ArrowCoverage {
		t.Errorf("expected the autograder preset to weight arrow coverage more heavily")
	}
}
