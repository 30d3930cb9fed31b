// Package bitset provides the tri-valued bit primitives the rest of the
// grading engine builds on: normalizing scalars into {0,1,X,unspecified},
// expanding don't-care patterns into concrete completions, and the small
// bit-width arithmetic used to size state encodings.
package bitset

import "strings"

// Bit is a tri-valued (plus "unspecified") logic value. Unspecified is
// distinct from DontCare: it marks a blank cell the user never filled in,
// and it never matches during wildcard-aware comparison.
type Bit int

const (
	Unspecified Bit = iota
	Zero
	One
	DontCare
)

// String renders a Bit the way it appears in JSON cells and reports.
func (b Bit) String() string {
	switch b {
	case Zero:
		return "0"
	case One:
		return "1"
	case DontCare:
		return "X"
	default:
		return ""
	}
}

// Normalize accepts any scalar cell value and classifies it. It upper-cases
// the input and looks only at the first character: '0', '1', or 'X' wins;
// anything else (including an empty string) is Unspecified.
func Normalize(s string) Bit {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Unspecified
	}
	switch s[0] {
	case '0':
		return Zero
	case '1':
		return One
	case 'X':
		return DontCare
	default:
		return Unspecified
	}
}

// Matches reports whether two bits agree under wildcard-aware comparison:
// a and b match if either is DontCare or they're equal. Unspecified is
// never wildcard and matches nothing, not even DontCare or itself.
func (b Bit) Matches(other Bit) bool {
	if b == Unspecified || other == Unspecified {
		return false
	}
	if b == DontCare || other == DontCare {
		return true
	}
	return b == other
}

// StrictMatches requires positional equality, including X==X, 0==0, 1==1.
// Used for Mealy output comparison (§4.7), where X is not a wildcard.
func (b Bit) StrictMatches(other Bit) bool {
	return b == other
}

// Pad right-justifies bits to width w, left-padding with Zero. If the input
// is already >= w it is truncated to the last w entries.
func Pad(bits []Bit, w int) []Bit {
	if len(bits) >= w {
		return append([]Bit(nil), bits[len(bits)-w:]...)
	}
	out := make([]Bit, w)
	pad := w - len(bits)
	for i := 0; i < pad; i++ {
		out[i] = Zero
	}
	copy(out[pad:], bits)
	return out
}

// CombinationsFrom expands a bit pattern containing don't-cares (and
// unspecified, which is treated as a don't-care for expansion purposes)
// into its concrete {0,1} completions. Order: for each don't-care slot,
// "0" is emitted before "1", with the leftmost varying slowest.
func CombinationsFrom(values []Bit) []string {
	n := len(values)
	dcPositions := make([]int, 0, n)
	base := make([]byte, n)
	for i, v := range values {
		switch v {
		case Zero:
			base[i] = '0'
		case One:
			base[i] = '1'
		default: // DontCare or Unspecified
			dcPositions = append(dcPositions, i)
			base[i] = '0'
		}
	}
	k := len(dcPositions)
	total := 1 << uint(k)
	out := make([]string, total)
	for combo := 0; combo < total; combo++ {
		row := append([]byte(nil), base...)
		for slot, pos := range dcPositions {
			// leftmost don't-care slot varies slowest: it's bit (k-1-slot)
			bit := (combo >> uint(k-1-slot)) & 1
			if bit == 1 {
				row[pos] = '1'
			} else {
				row[pos] = '0'
			}
		}
		out[combo] = string(row)
	}
	return out
}

// GenerateAllCombos returns every n-bit bitstring in ascending numeric
// order, left-padded to width n. GenerateAllCombos(0) returns [""].
func GenerateAllCombos(n int) []string {
	total := 1 << uint(n)
	out := make([]string, total)
	for i := 0; i < total; i++ {
		out[i] = padBinary(i, n)
	}
	return out
}

func padBinary(v, n int) string {
	buf := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		if v&1 == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
		v >>= 1
	}
	return string(buf)
}

// StateBitWidth computes W = max(1, ceil(log2(max(n,1)))).
func StateBitWidth(n int) int {
	if n <= 1 {
		return 1
	}
	w := 0
	for (1 << uint(w)) < n {
		w++
	}
	if w == 0 {
		w = 1
	}
	return w
}

// StateBinaryCode derives a state's canonical binary string: strip to
// {0,1} only, right-justify to w, keep the last w characters. If nothing
// usable remains, fall back to the binary encoding of id, zero-padded to w.
func StateBinaryCode(binary string, id, w int) string {
	var kept []byte
	for i := 0; i < len(binary); i++ {
		if binary[i] == '0' || binary[i] == '1' {
			kept = append(kept, binary[i])
		}
	}
	if len(kept) == 0 {
		return padBinary(id, w)
	}
	s := string(kept)
	if len(s) >= w {
		return s[len(s)-w:]
	}
	return strings.Repeat("0", w-len(s)) + s
}
