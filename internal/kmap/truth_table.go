package kmap

import "fsmgrade/internal/bitset"

// BuildTruthTable walks every (row, col) cell the layout defines and
// assembles the map's truth table keyed by the bitstring over
// Layout.Variables(), in that order. cells holds raw JSON cell values
// keyed "row-col" (CellKey); a cell absent from the map, or holding
// anything other than 0/1/X, resolves to missingDefault (spec.md's
// DefaultPolicy switch — gate mode defaults DontCare, rubric mode Zero).
func BuildTruthTable(layout Layout, cells map[string]string, missingDefault bitset.Bit) map[string]bitset.Bit {
	variables := layout.Variables()
	table := make(map[string]bitset.Bit, layout.TotalRows*layout.TotalCols)

	for r := 0; r < layout.TotalRows; r++ {
		for c := 0; c < layout.TotalCols; c++ {
			sub, ok := layout.submapFor(r, c)
			mapBits := ""
			if ok {
				mapBits = sub.MapCode
			}
			for len(mapBits) < layout.MapVarCount {
				mapBits += "0"
			}
			colCode := ""
			if ok {
				idx := c - sub.ColOffset
				if idx >= 0 && idx < len(layout.ColCodes) {
					colCode = layout.ColCodes[idx]
				}
			}
			rowCode := ""
			if ok {
				idx := r - sub.RowOffset
				if idx >= 0 && idx < len(layout.RowCodes) {
					rowCode = layout.RowCodes[idx]
				}
			}
			bits := mapBits + colCode + rowCode

			key := make([]byte, len(variables))
			for i := range variables {
				if i < len(bits) {
					key[i] = bits[i]
				} else {
					key[i] = '0'
				}
			}

			raw, present := cells[CellKey(r, c)]
			var val bitset.Bit
			if !present {
				val = missingDefault
			} else {
				val = bitset.Normalize(raw)
				if val == bitset.Unspecified {
					val = missingDefault
				}
			}
			table[string(key)] = val
		}
	}
	return table
}
