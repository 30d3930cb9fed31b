package grade

import (
	"strings"
	"testing"

	"fsmgrade/internal/bitset"
	"fsmgrade/internal/model"
	"fsmgrade/internal/table"
)

func TestGatePassesOnCompleteMachine(t *testing.T) {
	m := fullyDefinedMachine()
	tbl := table.EnsureStructure(m)
	tbl.Cells = matchingCells()
	m.TransitionTable = &tbl

	res := Gate("hw3.json", m, 2, 1, 1)
	if !res.Pass {
		t.Fatalf("expected a complete machine to pass gate mode, got issues: %v", res.Issues)
	}
}

func TestGateFailsBelowMinimumStates(t *testing.T) {
	m := fullyDefinedMachine()
	m.States = m.States[:1]
	m.Transitions = nil

	res := Gate("hw3.json", m, 2, 1, 1)
	if res.Pass {
		t.Fatal("expected too few used states to fail the gate")
	}
	found := false
	for _, issue := range res.Issues {
		if strings.Contains(issue, "requires at least 2 used states") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a minimum-states issue, got %v", res.Issues)
	}
}

func TestGateFailsOnTableMismatch(t *testing.T) {
	m := fullyDefinedMachine()
	tbl := table.EnsureStructure(m)
	cells := matchingCells()
	cells["1|1::next_q_0"] = "0"
	tbl.Cells = cells
	m.TransitionTable = &tbl

	res := Gate("hw3.json", m, 2, 1, 1)
	if res.Pass {
		t.Fatal("expected a mismatched transition table to fail the gate")
	}
}

func TestGradeKMapsPrefixesIssuesWithLabel(t *testing.T) {
	km := model.KMap{
		ID:        "k1",
		Label:     "Y",
		Variables: []string{"A", "B"},
		Direction: "horizontal",
		Type:      "sop",
		Cells: map[string]string{
			"0-0": "0", "0-1": "0",
			"1-0": "0", "1-1": "1",
		},
		Expression: "A + B",
	}
	issues := gradeKMaps([]model.KMap{km}, bitset.DontCare)
	if len(issues) == 0 {
		t.Fatal("expected the non-implicant expression to raise an issue")
	}
	if !strings.HasPrefix(issues[0], "k-map Y:") {
		t.Errorf("expected the issue to be prefixed with the kmap label, got %q", issues[0])
	}
}
