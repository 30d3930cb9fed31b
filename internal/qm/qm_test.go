package qm

import "testing"

func TestMinimizeAndGate(t *testing.T) {
	res := Minimize([]string{"A", "B"}, []int{3}, nil)
	if len(res.Cover) != 1 || res.Cover[0] != "11" {
		t.Fatalf("expected single cover term \"11\", got %v", res.Cover)
	}
	if res.Expression != "A B" {
		t.Errorf("expected expression \"A B\", got %q", res.Expression)
	}
}

func TestMinimizeXOR(t *testing.T) {
	res := Minimize([]string{"A", "B"}, []int{1, 2}, nil)
	if len(res.Cover) != 2 {
		t.Fatalf("expected 2 cover terms for XOR (no valid merge), got %v", res.Cover)
	}
	for _, bits := range res.Cover {
		if bits != "01" && bits != "10" {
			t.Errorf("unexpected cover term %q", bits)
		}
	}
}

func TestMinimizeWithDontCare(t *testing.T) {
	// f(A,B) = 1 at minterm 3 ("11"), don't-care at minterm 2 ("10").
	// The implicant "1-" (A=1, B free) should merge and cover both.
	res := Minimize([]string{"A", "B"}, []int{3}, []int{2})
	found := false
	for _, bits := range res.Cover {
		if bits == "1-" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected don't-care to enable merge into \"1-\", got cover %v", res.Cover)
	}
}

func TestMinimizeSingleMintermNoMerge(t *testing.T) {
	res := Minimize([]string{"A", "B", "C"}, []int{5}, nil) // "101", isolated
	if len(res.PrimeImplicants) != 1 || res.PrimeImplicants[0] != "101" {
		t.Fatalf("expected the lone minterm itself as the prime implicant, got %v", res.PrimeImplicants)
	}
}
