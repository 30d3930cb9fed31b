package grade

import (
	"fmt"
	"sort"
	"strings"

	"fsmgrade/internal/bitset"
	"fsmgrade/internal/kmap"
	"fsmgrade/internal/model"
)

// SectionResult is one rubric section's score, out of its weight, plus any
// notes explaining a shortfall.
type SectionResult struct {
	Score  float64
	Weight float64
	Notes  []string
}

// Percent returns the section's score as a percentage of its weight, 0 if
// the weight itself is 0.
func (s SectionResult) Percent() float64 {
	if s.Weight == 0 {
		return 0
	}
	return s.Score / s.Weight * 100
}

// Line renders one report line in the grading script's own format.
func (s SectionResult) Line(label string) string {
	noteText := "OK"
	if len(s.Notes) > 0 {
		noteText = strings.Join(s.Notes, "; ")
	}
	return fmt.Sprintf("- %s: %.2f/%.2f (%.1f%%) — %s", label, s.Score, s.Weight, s.Percent(), noteText)
}

// sectionOrder fixes the rendering order the report always uses,
// independent of Go's unordered map iteration.
var sectionOrder = []string{
	"State definitions",
	"Transition diagram",
	"Transition table vs diagram",
}

// RubricResult is the weighted, partial-credit outcome of grading one save
// file's sections.
type RubricResult struct {
	File     string
	Sections map[string]SectionResult
}

// TotalScore sums every section's score.
func (r RubricResult) TotalScore() float64 {
	var total float64
	for _, s := range r.Sections {
		total += s.Score
	}
	return total
}

// TotalWeight sums every section's weight.
func (r RubricResult) TotalWeight() float64 {
	var total float64
	for _, s := range r.Sections {
		total += s.Weight
	}
	return total
}

// Render produces the human-readable summary the report file writes per
// save, one line per section in a fixed order plus a total line.
func (r RubricResult) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", r.File)
	total, weight := r.TotalScore(), r.TotalWeight()
	percent := 0.0
	if weight != 0 {
		percent = total / weight * 100
	}
	fmt.Fprintf(&b, "Total: %.2f/%.2f (%.1f%%)\n", total, weight, percent)
	for _, label := range sectionOrder {
		section, ok := r.Sections[label]
		if !ok {
			continue
		}
		b.WriteString(section.Line(label))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- shared bit helpers, grounded on grade_fsm.py's own normalization
// rather than reused from internal/bitset, since it treats blank/X
// differently in a couple of spots (see expandInputCombosForDictionary).

func normalizeBinaryValue(val string) string {
	upper := strings.ToUpper(strings.TrimSpace(val))
	for _, ch := range upper {
		if ch == '0' || ch == '1' || ch == 'X' {
			return string(ch)
		}
	}
	return ""
}

func normalizeBitArray(values []string, expectedLength int) []string {
	out := make([]string, expectedLength)
	for i, v := range values {
		if i >= expectedLength {
			break
		}
		out[i] = normalizeBinaryValue(v)
	}
	return out
}

// combinationsFromValues expands a bit pattern into concrete {0,1}
// completions, treating a blank entry the same as an explicit "X".
func combinationsFromValues(values []string) []string {
	combos := []string{""}
	for _, v := range values {
		n := normalizeBinaryValue(v)
		if n == "" {
			n = "X"
		}
		options := []string{n}
		if n == "X" {
			options = []string{"0", "1"}
		}
		var next []string
		for _, prefix := range combos {
			for _, opt := range options {
				next = append(next, prefix+opt)
			}
		}
		combos = next
	}
	return combos
}

// expandInputCombosForDictionary mirrors the UI's dictionary-key expansion:
// unlike combinationsFromValues, a blank entry collapses to a literal "-"
// placeholder rather than expanding over both bit values.
func expandInputCombosForDictionary(bits []string) []string {
	combos := []string{""}
	for _, bit := range bits {
		n := normalizeBinaryValue(bit)
		options := []string{n}
		if n == "" {
			options = []string{"-"}
		} else if n == "X" {
			options = []string{"0", "1"}
		}
		var next []string
		for _, prefix := range combos {
			for _, opt := range options {
				next = append(next, prefix+opt)
			}
		}
		combos = next
	}
	return combos
}

func bitToInt(val string) int {
	switch val {
	case "0":
		return 0
	case "1":
		return 1
	case "X":
		return 2
	default:
		return -1
	}
}

// stateBinaryCode returns the cleaned binary code for a state: its binary
// field, or its decimal id when that field is empty, with every character
// other than '0'/'1' dropped. It returns "" when nothing is left after
// that cleaning.
func stateBinaryCode(st model.State, bitCount int) string {
	raw := st.Binary
	if raw == "" {
		raw = fmt.Sprintf("%d", st.ID)
	}
	var cleaned []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '0' || raw[i] == '1' {
			cleaned = append(cleaned, raw[i])
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	s := string(cleaned)
	if len(s) >= bitCount {
		return s[len(s)-bitCount:]
	}
	return strings.Repeat("0", bitCount-len(s)) + s
}

func expectedOutputsForTransition(machineType string, tr model.Transition, source model.State, outputs []string) []string {
	n := len(outputs)
	if machineType == "moore" {
		return normalizeBitArray(source.Outputs, n)
	}
	return normalizeBitArray(tr.ResolvedOutputValues(), n)
}

func stateIsUsed(st model.State, transitions []model.Transition) bool {
	if st.Placed {
		return true
	}
	for _, tr := range transitions {
		if tr.From == st.ID || tr.To == st.ID {
			return true
		}
	}
	return false
}

// --- state definitions section

func checkStateDefinitions(m model.Machine, w Weights, minInputs, minOutputs int) SectionResult {
	var used []model.State
	for _, s := range m.States {
		if stateIsUsed(s, m.Transitions) {
			used = append(used, s)
		}
	}
	if len(used) == 0 {
		used = m.States
	}

	totalWeight := w.StateDescription + w.StateLabel + w.StateBinary + w.InputMinimum + w.OutputMinimum
	var notes []string
	var score float64

	stateCount := float64(len(used))
	if stateCount == 0 {
		stateCount = 1
	}

	descComplete := 0.0
	labelComplete := 0.0
	for _, s := range used {
		if strings.TrimSpace(s.Description) != "" {
			descComplete++
		}
		if strings.TrimSpace(s.Label) != "" {
			labelComplete++
		}
	}
	descComplete /= stateCount
	labelComplete /= stateCount

	bitCount := bitset.StateBitWidth(m.NumStates)
	if bitCount < 1 {
		bitCount = 1
	}
	seen := map[string]bool{}
	binaryComplete := 0.0
	duplicate := false
	for _, s := range used {
		code := stateBinaryCode(s, bitCount)
		if code == "" {
			continue
		}
		binaryComplete++
		if seen[code] {
			duplicate = true
		}
		seen[code] = true
	}
	binaryComplete /= stateCount

	score += w.StateDescription * descComplete
	score += w.StateLabel * labelComplete
	if duplicate {
		score += w.StateBinary * binaryComplete * 0.5
	} else {
		score += w.StateBinary * binaryComplete
	}

	if descComplete < 1 {
		notes = append(notes, "Missing descriptions")
	}
	if labelComplete < 1 {
		notes = append(notes, "Missing labels")
	}
	if duplicate {
		notes = append(notes, "Duplicate state encodings")
	}

	inputRatio := ratio(len(m.Inputs), minInputs)
	outputRatio := ratio(len(m.Outputs), minOutputs)
	score += w.InputMinimum * min1(inputRatio)
	score += w.OutputMinimum * min1(outputRatio)

	if len(m.Inputs) < minInputs {
		notes = append(notes, fmt.Sprintf("Only %d input(s); minimum is %d", len(m.Inputs), minInputs))
	}
	if len(m.Outputs) < minOutputs {
		notes = append(notes, fmt.Sprintf("Only %d output(s); minimum is %d", len(m.Outputs), minOutputs))
	}

	return SectionResult{Score: score, Weight: totalWeight, Notes: notes}
}

func ratio(n, min int) float64 {
	if min < 1 {
		min = 1
	}
	return float64(n) / float64(min)
}

func min1(r float64) float64 {
	if r > 1.0 {
		return 1.0
	}
	return r
}

// --- transition diagram section

func checkTransitionDiagram(m model.Machine, w Weights, minStates, minInputs, minOutputs int) SectionResult {
	var placed []model.State
	for _, s := range m.States {
		if s.Placed {
			placed = append(placed, s)
		}
	}
	placedCount := len(placed)
	expectedInputs := maxInt(len(m.Inputs), minInputs)
	expectedStates := maxInt(placedCount, minStates)
	expectedCombosPerState := 1 << uint(expectedInputs)
	var notes []string

	placedRatio := 1.0
	if expectedStates != 0 {
		placedRatio = float64(placedCount) / float64(expectedStates)
	}
	placedScore := w.PlacedStates * min1(placedRatio)
	if placedRatio < 1 {
		notes = append(notes, fmt.Sprintf("Only %d placed states (min %d)", placedCount, minStates))
	}

	outputsDefinedRatio := 1.0
	if len(m.Outputs) > 0 {
		if m.Type == "moore" || m.Type == "" {
			filled := 0
			for _, st := range placed {
				count := 0
				for _, v := range st.Outputs {
					if normalizeBinaryValue(v) != "" {
						count++
					}
				}
				if count == len(m.Outputs) {
					filled++
				}
			}
			denom := placedCount
			if denom == 0 {
				denom = 1
			}
			outputsDefinedRatio = float64(filled) / float64(denom)
		} else {
			filled := 0
			for _, tr := range m.Transitions {
				count := 0
				for _, v := range tr.ResolvedOutputValues() {
					if normalizeBinaryValue(v) != "" {
						count++
					}
				}
				if count == len(m.Outputs) {
					filled++
				}
			}
			denom := len(m.Transitions)
			if denom == 0 {
				denom = 1
			}
			outputsDefinedRatio = float64(filled) / float64(denom)
		}
		if outputsDefinedRatio < 1 {
			notes = append(notes, "Some outputs are undefined")
		}
	}
	outputScore := w.OutputValue * outputsDefinedRatio

	issues := 0
	missingStates := minStates - placedCount
	if missingStates < 0 {
		missingStates = 0
	}
	issues += missingStates * expectedCombosPerState

	for _, st := range placed {
		combosForState := map[string]int{}
		for _, tr := range m.Transitions {
			if tr.From != st.ID {
				continue
			}
			comboValues := normalizeBitArray(tr.ResolvedInputValues(), expectedInputs)
			for _, combo := range combinationsFromValues(comboValues) {
				combosForState[combo]++
			}
		}
		unique := len(combosForState)
		duplicates := 0
		for _, c := range combosForState {
			if c > 1 {
				duplicates += c - 1
			}
		}
		missing := expectedCombosPerState - unique
		if missing < 0 {
			missing = 0
		}
		issues += missing + duplicates
	}

	expectedTotal := maxInt(expectedStates, placedCount) * expectedCombosPerState
	if expectedTotal == 0 {
		expectedTotal = 1
	}
	coverageRatio := 1 - float64(issues)/float64(expectedTotal)
	if coverageRatio < 0 {
		coverageRatio = 0
	}
	coverageScore := w.ArrowCoverage * coverageRatio
	if coverageRatio < 1 {
		notes = append(notes, fmt.Sprintf("Arrow coverage issues: %d gap(s)/duplicate(s) out of %d expected", issues, expectedTotal))
	}

	totalWeight := w.PlacedStates + w.OutputValue + w.ArrowCoverage
	totalScore := placedScore + outputScore + coverageScore
	return SectionResult{Score: totalScore, Weight: totalWeight, Notes: notes}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// --- transition table vs diagram section

// rowsFromCells rehydrates a row list from a save's flat cell map when the
// save itself doesn't declare one, the way decompress_transition_table
// falls back to the cell keys' row half.
func rowsFromCells(cells map[string]string) []model.Row {
	seen := map[string]bool{}
	var keys []string
	for k := range cells {
		rowKey, _, ok := strings.Cut(k, "::")
		if !ok || seen[rowKey] {
			continue
		}
		seen[rowKey] = true
		keys = append(keys, rowKey)
	}
	sort.Strings(keys)
	rows := make([]model.Row, len(keys))
	for i, k := range keys {
		rows[i] = model.Row{Key: k}
	}
	return rows
}

func categorizeColumns(columns []model.Column) (current, input, next, output []model.Column) {
	for _, col := range columns {
		base := col.BaseKey
		if base == "" {
			base = col.Key
		}
		if i := strings.Index(base, "__"); i >= 0 {
			base = base[:i]
		}
		if base == "" || col.Type == "spacer" {
			continue
		}
		switch {
		case strings.HasPrefix(base, "q_"):
			col.BaseKey = base
			current = append(current, col)
		case strings.HasPrefix(base, "next_q_"):
			col.BaseKey = base
			next = append(next, col)
		case strings.HasPrefix(base, "in_"):
			col.BaseKey = base
			input = append(input, col)
		case strings.HasPrefix(base, "out_"):
			col.BaseKey = base
			output = append(output, col)
		}
	}
	sort.Slice(current, func(i, j int) bool { return current[i].BaseKey > current[j].BaseKey })
	sort.Slice(next, func(i, j int) bool { return next[i].BaseKey > next[j].BaseKey })
	sort.Slice(input, func(i, j int) bool { return input[i].BaseKey < input[j].BaseKey })
	sort.Slice(output, func(i, j int) bool { return output[i].BaseKey < output[j].BaseKey })
	return current, input, next, output
}

type rowValues struct {
	current []string
	inputs  []string
	next    []string
	outputs []string
}

func readTableRowValues(rowKey string, cells map[string]string, current, input, next, output []model.Column) rowValues {
	read := func(col model.Column) string {
		return normalizeBinaryValue(cells[rowKey+"::"+col.Key])
	}
	var rv rowValues
	for _, c := range current {
		rv.current = append(rv.current, read(c))
	}
	for _, c := range input {
		rv.inputs = append(rv.inputs, read(c))
	}
	for _, c := range next {
		rv.next = append(rv.next, read(c))
	}
	for _, c := range output {
		rv.outputs = append(rv.outputs, read(c))
	}
	return rv
}

func buildTransitionDiagramDictionary(m model.Machine, bitCount int) map[string][]int {
	dictionary := map[string][]int{}
	defaultValue := make([]int, bitCount+len(m.Outputs))
	for i := range defaultValue {
		defaultValue[i] = 2
	}

	states := m.StateByID()
	for _, tr := range m.Transitions {
		source := states[tr.From]
		sourceBits := stateBinaryCode(source, bitCount)
		target := states[tr.To]
		nextBits := stateBinaryCode(target, bitCount)
		nextStateBits := normalizeBitArray(splitChars(nextBits), bitCount)
		outputBits := expectedOutputsForTransition(m.Type, tr, source, m.Outputs)
		combos := combinationsFromValues(normalizeBitArray(tr.ResolvedInputValues(), len(m.Inputs)))

		value := make([]int, 0, bitCount+len(m.Outputs))
		for _, b := range nextStateBits {
			value = append(value, bitToInt(b))
		}
		for _, b := range outputBits {
			value = append(value, bitToInt(b))
		}
		for _, combo := range combos {
			k := sourceBits + "|" + comboOrNone(combo)
			dictionary[k] = value
		}
	}

	for _, st := range m.States {
		if stateIsUsed(st, m.Transitions) {
			continue
		}
		bits := stateBinaryCode(st, bitCount)
		for _, combo := range bitset.GenerateAllCombos(len(m.Inputs)) {
			k := bits + "|" + comboOrNone(combo)
			dictionary[k] = append([]int(nil), defaultValue...)
		}
	}

	return dictionary
}

func splitChars(s string) []string {
	out := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = string(s[i])
	}
	return out
}

func comboOrNone(combo string) string {
	if combo == "" {
		return "none"
	}
	return combo
}

func buildTransitionTableDictionary(tbl model.TransitionTable, current, input, next, output []model.Column) map[string][]int {
	dictionary := map[string][]int{}
	for _, row := range tbl.Rows {
		actual := readTableRowValues(row.Key, tbl.Cells, current, input, next, output)
		var stateBits strings.Builder
		for _, b := range actual.current {
			if b == "" {
				stateBits.WriteByte('-')
			} else {
				stateBits.WriteString(b)
			}
		}
		inputCombos := expandInputCombosForDictionary(actual.inputs)
		value := make([]int, 0, len(actual.next)+len(actual.outputs))
		for _, b := range actual.next {
			value = append(value, bitToInt(b))
		}
		for _, b := range actual.outputs {
			value = append(value, bitToInt(b))
		}
		for _, combo := range inputCombos {
			k := stateBits.String() + "|" + comboOrNone(combo)
			dictionary[k] = value
		}
	}
	return dictionary
}

func computeDictionaryMatch(diagramDict, tableDict map[string][]int) int {
	keys := map[string]bool{}
	for k := range diagramDict {
		keys[k] = true
	}
	for k := range tableDict {
		keys[k] = true
	}
	matches := 0
	for k := range keys {
		expected, ok1 := diagramDict[k]
		actual, ok2 := tableDict[k]
		if !ok1 || !ok2 || len(expected) == 0 || len(actual) == 0 {
			continue
		}
		if intSlicesEqual(expected, actual) {
			matches++
		}
	}
	total := len(keys)
	if total == 0 {
		total = 1
	}
	return roundPercent(float64(matches) / float64(total) * 100)
}

func intSlicesEqual(a, b []int) bool {
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

func roundPercent(v float64) int {
	if v-float64(int(v)) >= 0.5 {
		return int(v) + 1
	}
	return int(v)
}

// kmapScores grades the two K-map sections the grading script left as
// stubs ("placeholders, wired into totals for future use"): every K-map's
// cell completeness (every cell resolved, not left unspecified), whether
// its typed expression actually verifies against its grid
// (internal/kmap.Verify, the same checker gate mode uses), and — rubric
// mode only — whether a verified expression also achieves the minimal
// literal/term cost Quine-McCluskey finds for that map (internal/kmap.
// IsMinimal, internal/qm.Minimize), per spec.md §4.5 and scenario S5.
func kmapScores(kmaps []model.KMap, completenessWeight, expressionWeight float64) (float64, float64, []string) {
	if len(kmaps) == 0 {
		return completenessWeight, expressionWeight, nil
	}
	var notes []string
	filled := 0
	verified := 0
	minimal := 0
	for _, km := range kmaps {
		layout := kmap.BuildLayout(km.Variables, kmap.ParseDirection(km.Direction))
		complete := true
		for r := 0; r < layout.TotalRows; r++ {
			for c := 0; c < layout.TotalCols; c++ {
				if v, ok := km.Cells[kmap.CellKey(r, c)]; !ok || bitset.Normalize(v) == bitset.Unspecified {
					complete = false
				}
			}
		}
		if complete {
			filled++
		}

		kind := resolveKMapKind(km.Type)
		res := kmap.Verify(layout, km.Cells, kind, km.Expression, bitset.Zero)
		if res.OK {
			verified++
			if _, _, ok := kmap.IsMinimal(layout, km.Cells, kind, km.Expression, bitset.Zero); ok {
				minimal++
			}
		}
	}
	n := float64(len(kmaps))
	completenessRatio := float64(filled) / n
	expressionRatio := float64(minimal) / n
	if completenessRatio < 1 {
		notes = append(notes, "Some K-map cells are unfilled")
	}
	if float64(verified)/n < 1 {
		notes = append(notes, "Some K-map expressions do not verify")
	} else if expressionRatio < 1 {
		notes = append(notes, "expression not minimal")
	}
	return completenessWeight * completenessRatio, expressionWeight * expressionRatio, notes
}

func checkTransitionTable(m model.Machine, w Weights, minStates, minInputs, minOutputs int) SectionResult {
	numStates := maxInt(m.NumStates, len(m.States))
	bitCount := bitset.StateBitWidth(numStates)

	var tbl model.TransitionTable
	if m.TransitionTable != nil {
		tbl = m.TransitionTable.Decompress(numStates, m.Inputs)
	}
	if tbl.Cells == nil {
		tbl.Cells = map[string]string{}
	}
	if len(tbl.Rows) == 0 {
		tbl.Rows = rowsFromCells(tbl.Cells)
	}

	current, input, next, output := categorizeColumns(tbl.Columns)

	expectedBitCols := bitset.StateBitWidth(maxInt(numStates, minStates))
	expectedInputs := maxInt(len(m.Inputs), minInputs)
	expectedOutputs := maxInt(len(m.Outputs), minOutputs)
	expectedTotalCols := expectedBitCols + expectedBitCols + expectedInputs + expectedOutputs
	if expectedTotalCols == 0 {
		expectedTotalCols = 1
	}

	presentTotalCols := minInt(len(current), expectedBitCols) +
		minInt(len(next), expectedBitCols) +
		minInt(len(input), expectedInputs) +
		minInt(len(output), expectedOutputs)

	structureRatio := float64(presentTotalCols) / float64(expectedTotalCols)
	structureScore := w.TableStructure * structureRatio
	var notes []string
	if structureRatio < 1 {
		notes = append(notes, fmt.Sprintf("Transition table missing columns (have %d/%d across state/input/output groups)", presentTotalCols, expectedTotalCols))
	}

	diagramDict := buildTransitionDiagramDictionary(m, bitCount)
	tableDict := buildTransitionTableDictionary(tbl, current, input, next, output)
	matchPercent := computeDictionaryMatch(diagramDict, tableDict)
	matchScore := w.TableMatch * (float64(matchPercent) / 100)
	if matchPercent < 100 {
		notes = append(notes, fmt.Sprintf("Table/diagram mismatch: %d%% match", matchPercent))
	}

	kmapCompletenessScore, kmapExpressionScore, kmapNotes := kmapScores(m.KMaps, w.KMapCompleteness, w.KMapExpression)
	notes = append(notes, kmapNotes...)

	totalWeight := w.TableStructure + w.TableMatch + w.KMapCompleteness + w.KMapExpression
	totalScore := structureScore + matchScore + kmapCompletenessScore + kmapExpressionScore
	return SectionResult{Score: totalScore, Weight: totalWeight, Notes: notes}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Rubric grades one save file under the partial-credit rubric: state
// definition completeness, diagram placement/output/coverage, and the
// transition table's structural completeness and agreement with the
// diagram (plus K-map completeness/correctness, which the script this
// mode is grounded on left as an unscored placeholder).
func Rubric(path string, m model.Machine, w Weights, minStates, minInputs, minOutputs int) RubricResult {
	return RubricResult{
		File: path,
		Sections: map[string]SectionResult{
			"State definitions":           checkStateDefinitions(m, w, minInputs, minOutputs),
			"Transition diagram":          checkTransitionDiagram(m, w, minStates, minInputs, minOutputs),
			"Transition table vs diagram": checkTransitionTable(m, w, minStates, minInputs, minOutputs),
		},
	}
}
