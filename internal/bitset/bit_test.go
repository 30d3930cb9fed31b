package bitset

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Bit
	}{
		{"zero", "0", Zero},
		{"one", "1", One},
		{"dontcare upper", "X", DontCare},
		{"dontcare lower", "x", DontCare},
		{"empty", "", Unspecified},
		{"garbage", "?", Unspecified},
		{"whitespace zero", "  0  ", Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCombinationsFromLaw(t *testing.T) {
	// |combinations_from(v)| = 2^k, all same length, Cartesian product.
	v := []Bit{Zero, DontCare, One, DontCare}
	got := CombinationsFrom(v)
	if len(got) != 4 {
		t.Fatalf("expected 4 combinations, got %d", len(got))
	}
	want := map[string]bool{"0010": true, "0011": true, "0110": true, "0111": true}
	seen := map[string]bool{}
	for _, c := range got {
		if len(c) != len(v) {
			t.Errorf("combination %q has wrong length", c)
		}
		if !want[c] {
			t.Errorf("unexpected combination %q", c)
		}
		seen[c] = true
	}
	if len(seen) != len(want) {
		t.Errorf("missing combinations: got %v want %v", seen, want)
	}
}

func TestCombinationsFromOrdering(t *testing.T) {
	v := []Bit{DontCare, DontCare}
	got := CombinationsFrom(v)
	want := []string{"00", "01", "10", "11"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestCombinationsFromUnspecifiedTreatedAsDontCare(t *testing.T) {
	got := CombinationsFrom([]Bit{Unspecified})
	if len(got) != 2 {
		t.Fatalf("expected 2 combinations for unspecified bit, got %d", len(got))
	}
}

func TestGenerateAllCombos(t *testing.T) {
	got := GenerateAllCombos(2)
	want := []string{"00", "01", "10", "11"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestGenerateAllCombosZero(t *testing.T) {
	got := GenerateAllCombos(0)
	if len(got) != 1 || got[0] != "" {
		t.Errorf("GenerateAllCombos(0) = %v, want [\"\"]", got)
	}
}

func TestStateBitWidth(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1}, {1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4},
	}
	for _, tt := range tests {
		if got := StateBitWidth(tt.n); got != tt.want {
			t.Errorf("StateBitWidth(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestStateBinaryCode(t *testing.T) {
	if got := StateBinaryCode("101", 0, 2); got != "01" {
		t.Errorf("got %q want %q", got, "01")
	}
	if got := StateBinaryCode("", 3, 2); got != "11" {
		t.Errorf("fallback to id binary: got %q want %q", got, "11")
	}
	if got := StateBinaryCode("abc1", 0, 3); got != "001" {
		t.Errorf("strip non {0,1}: got %q want %q", got, "001")
	}
}

func TestMatches(t *testing.T) {
	if !Zero.Matches(DontCare) {
		t.Error("Zero should match DontCare")
	}
	if !DontCare.Matches(One) {
		t.Error("DontCare should match One")
	}
	if Zero.Matches(One) {
		t.Error("Zero should not match One")
	}
	if !Unspecified.StrictMatches(Unspecified) {
		t.Error("Unspecified should strict-match itself")
	}
	if DontCare.StrictMatches(Zero) {
		t.Error("StrictMatches should not treat X as wildcard")
	}
}

func TestPad(t *testing.T) {
	got := Pad([]Bit{One}, 3)
	want := []Bit{Zero, Zero, One}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %v want %v", i, got[i], want[i])
		}
	}
	got2 := Pad([]Bit{Zero, One, One, Zero}, 2)
	want2 := []Bit{One, Zero}
	for i := range want2 {
		if got2[i] != want2[i] {
			t.Errorf("truncate position %d: got %v want %v", i, got2[i], want2[i])
		}
	}
}
