package kmap

import (
	"testing"

	"fsmgrade/internal/bitset"
)

// and2Cells is a 2-variable (A,B) map whose only 1-cell is A=1,B=1 — an AND
// gate. Layout for ["A","B"] horizontal puts A on columns, B on rows, so
// cell "1-1" (row=1,col=1) is the only populated 1.
func and2Cells() map[string]string {
	return map[string]string{
		"0-0": "0",
		"0-1": "0",
		"1-0": "0",
		"1-1": "1",
	}
}

func TestGrayCode(t *testing.T) {
	cases := map[int][]string{
		0: {""},
		1: {"0", "1"},
		2: {"00", "01", "11", "10"},
		3: {"000", "001", "011", "010", "110", "111", "101", "100"},
	}
	for n, want := range cases {
		got := Gray(n)
		if len(got) != len(want) {
			t.Fatalf("Gray(%d) length = %d, want %d", n, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Gray(%d)[%d] = %s, want %s", n, i, got[i], want[i])
			}
		}
	}
}

func TestBuildLayoutTwoVariables(t *testing.T) {
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	if len(l.ColVars) != 1 || l.ColVars[0] != "A" {
		t.Fatalf("expected A on columns, got %+v", l.ColVars)
	}
	if len(l.RowVars) != 1 || l.RowVars[0] != "B" {
		t.Fatalf("expected B on rows, got %+v", l.RowVars)
	}
	if l.TotalRows != 2 || l.TotalCols != 2 {
		t.Fatalf("expected a 2x2 grid, got %dx%d", l.TotalRows, l.TotalCols)
	}
}

func TestBuildTruthTableMatchesAndGate(t *testing.T) {
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	table := BuildTruthTable(l, and2Cells(), bitset.DontCare)
	want := map[string]bitset.Bit{"00": bitset.Zero, "01": bitset.Zero, "10": bitset.Zero, "11": bitset.One}
	for k, v := range want {
		if table[k] != v {
			t.Errorf("table[%s] = %v, want %v", k, table[k], v)
		}
	}
}

func TestBuildTruthTableMissingCellDefault(t *testing.T) {
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	cells := map[string]string{"0-0": "0", "0-1": "0", "1-0": "0"} // "1-1" missing
	withDontCare := BuildTruthTable(l, cells, bitset.DontCare)
	withZero := BuildTruthTable(l, cells, bitset.Zero)
	if withDontCare["11"] != bitset.DontCare {
		t.Errorf("expected missing cell to default to DontCare, got %v", withDontCare["11"])
	}
	if withZero["11"] != bitset.Zero {
		t.Errorf("expected missing cell to default to Zero, got %v", withZero["11"])
	}
}

func TestVerifyAndGateAccepted(t *testing.T) {
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	res := Verify(l, and2Cells(), SOP, "A B", bitset.DontCare)
	if !res.OK {
		t.Fatalf("expected AND term to verify clean, got issues: %v", res.Issues)
	}
}

func TestVerifyRejectsNonImplicant(t *testing.T) {
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	res := Verify(l, and2Cells(), SOP, "A", bitset.DontCare)
	if res.OK {
		t.Fatal("expected expression \"A\" to be rejected against an AND map")
	}
}

func TestVerifyContradictoryTerm(t *testing.T) {
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	res := Verify(l, and2Cells(), SOP, "A ~A", bitset.DontCare)
	if res.OK {
		t.Fatal("expected contradictory term to fail verification")
	}
	found := false
	for _, issue := range res.Issues {
		if issue == "expression term 1 is contradictory or empty" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected contradiction issue, got: %v", res.Issues)
	}
}

func TestVerifyUnknownVariable(t *testing.T) {
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	res := Verify(l, and2Cells(), SOP, "Q", bitset.DontCare)
	if res.OK {
		t.Fatal("expected unknown variable to fail verification")
	}
}

func TestVerifyDontCareCellIsIgnoredForMatch(t *testing.T) {
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	cells := map[string]string{"0-0": "X", "0-1": "0", "1-0": "0", "1-1": "1"}
	res := Verify(l, cells, SOP, "A B", bitset.DontCare)
	if !res.OK {
		t.Fatalf("expected don't-care cell to be skipped in the match check, got: %v", res.Issues)
	}
}

func TestVerifyPOSFlipsForbiddenCell(t *testing.T) {
	// The same term that is a valid SOP implicant for an AND gate covers
	// cell "11", which is forbidden once the map is graded as POS.
	l := BuildLayout([]string{"A", "B"}, Horizontal)
	res := Verify(l, and2Cells(), POS, "A B", bitset.DontCare)
	if res.OK {
		t.Fatal("expected POS grading to reject a term covering the forbidden (1) cell")
	}
}
