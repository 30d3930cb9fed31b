package graderr

import (
	"errors"
	"testing"
)

func TestErrorMessageIncludesFile(t *testing.T) {
	err := New(KindStructure, "hw3.json", "missing states array")
	if got := err.Error(); got != "StructureError: missing states array (file hw3.json)" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestErrorMessageIncludesKMap(t *testing.T) {
	err := New(KindKMap, "hw3.json", "not a prime implicant").WithKMap("k1")
	if got := err.Error(); got != "KMapError: not a prime implicant (file hw3.json, kmap k1)" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	wrapped := Wrap(KindRead, "hw3.json", cause, "could not parse JSON")
	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}
