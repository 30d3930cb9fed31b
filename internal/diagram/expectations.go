// Package diagram builds the set of state/input -> next-state/output
// expectations a drawn transition diagram implies, so a separately-filled
// transition table (internal/table) can be checked against it (spec.md
// §4.6, "diagram-to-dictionary expansion").
package diagram

import (
	"fmt"

	"fsmgrade/internal/bitset"
	"fsmgrade/internal/model"
)

// Expectation is what the diagram says must happen from one (state bits,
// input combo) pair: which next-state bits and output bits follow.
type Expectation struct {
	NextStateBits []string
	Outputs       []string
	StateBits     string
	InputCombo    string
}

// Expectations indexes every expectation by "stateBits|inputCombo" (or
// "stateBits|none" when there are no inputs). Conflict is set when the
// diagram itself is inconsistent — an unplaced/unencoded source or
// destination state, or two transitions disagreeing on the same
// (state, input) pair — in which case the transition table can never be
// judged to match it.
type Expectations struct {
	Map      map[string]Expectation
	Conflict bool
}

// valuesToBits converts a list of raw per-position input or output
// markings into Bits the way the diagram reader does: only the literal
// strings "0" and "1" are taken at face value, anything else (including an
// empty string or "X") is a don't-care for expansion purposes.
func valuesToBits(values []string) []bitset.Bit {
	out := make([]bitset.Bit, len(values))
	for i, v := range values {
		switch v {
		case "0":
			out[i] = bitset.Zero
		case "1":
			out[i] = bitset.One
		default:
			out[i] = bitset.DontCare
		}
	}
	return out
}

// key builds the dictionary key a transition-table row is matched against:
// "stateBits|combo", with an empty input combo rendered as "none".
func key(stateBits, combo string) string {
	if combo == "" {
		combo = "none"
	}
	return fmt.Sprintf("%s|%s", stateBits, combo)
}

// resolveOutputs returns the output bits a transition produces: for a
// Moore machine these come from the source state's fixed outputs,
// regardless of what the transition itself carries; for Mealy they come
// from the transition's own OutputValues (padded/truncated to outputCount).
func resolveOutputs(tr model.Transition, states map[int]model.State, kind string, outputCount int) []string {
	if kind == "moore" {
		src, ok := states[tr.From]
		if !ok {
			return make([]string, outputCount)
		}
		return padStrings(src.Outputs, outputCount)
	}
	return padStrings(tr.ResolvedOutputValues(), outputCount)
}

func padStrings(values []string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(values); i++ {
		out[i] = values[i]
	}
	return out
}

func anyBlank(values []string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

// Build expands every transition into the (state, input-combo) ->
// (next-state, outputs) expectations it implies, using state.Binary
// (padded/truncated to bitCount, per bitset.StateBinaryCode) to identify
// states. Two transitions that expand to the same key but disagree on the
// result set Conflict, as does any transition whose source or destination
// cannot be resolved to a clean bitCount-wide code.
func Build(transitions []model.Transition, states map[int]model.State, bitCount int, kind string, outputCount int) Expectations {
	out := Expectations{Map: make(map[string]Expectation)}

	for _, tr := range transitions {
		src, srcOK := states[tr.From]
		sourceBits := ""
		if srcOK {
			sourceBits = bitset.StateBinaryCode(src.Binary, tr.From, bitCount)
		}
		if sourceBits == "" || len(sourceBits) != bitCount {
			out.Conflict = true
			continue
		}

		combos := bitset.CombinationsFrom(valuesToBits(tr.ResolvedInputValues()))

		dst, dstOK := states[tr.To]
		nextBits := ""
		if dstOK {
			nextBits = bitset.StateBinaryCode(dst.Binary, tr.To, bitCount)
		}
		nextStateBits := make([]string, bitCount)
		for i := 0; i < bitCount && i < len(nextBits); i++ {
			nextStateBits[i] = string(nextBits[i])
		}
		outputs := resolveOutputs(tr, states, kind, outputCount)

		if nextBits == "" || anyBlank(nextStateBits) || anyBlank(outputs) {
			out.Conflict = true
			continue
		}

		for _, combo := range combos {
			k := key(sourceBits, combo)
			rec := Expectation{NextStateBits: nextStateBits, Outputs: outputs, StateBits: sourceBits, InputCombo: combo}
			existing, ok := out.Map[k]
			if !ok {
				out.Map[k] = rec
				continue
			}
			if !stringsEqual(existing.NextStateBits, nextStateBits) || !stringsEqual(existing.Outputs, outputs) {
				out.Conflict = true
			}
		}
	}
	return out
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
