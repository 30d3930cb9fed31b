// Package grade orchestrates the lower-level checkers (diagram, table,
// kmap) into the two grading façades spec.md describes: a strict
// pass/fail gate mode and a partial-credit rubric mode (§4.8).
package grade

import (
	"fmt"

	"fsmgrade/internal/bitset"
	"fsmgrade/internal/diagram"
	"fsmgrade/internal/kmap"
	"fsmgrade/internal/model"
	"fsmgrade/internal/table"
)

// GateResult is one file's all-or-nothing grading outcome.
type GateResult struct {
	File   string
	Pass   bool
	Issues []string
}

func resolveKMapKind(typ string) kmap.Kind {
	if typ == "pos" {
		return kmap.POS
	}
	return kmap.SOP
}

// gradeKMaps runs kmap.Verify over every K-map in the save, prefixing each
// issue with the map's label (or id) the way the grading script does.
func gradeKMaps(kmaps []model.KMap, missingDefault bitset.Bit) []string {
	var issues []string
	for _, km := range kmaps {
		layout := kmap.BuildLayout(km.Variables, kmap.ParseDirection(km.Direction))
		res := kmap.Verify(layout, km.Cells, resolveKMapKind(km.Type), km.Expression, missingDefault)
		if res.OK {
			continue
		}
		prefix := km.Label
		if prefix == "" {
			prefix = km.ID
		}
		if prefix == "" {
			prefix = "kmap"
		}
		for _, reason := range res.Issues {
			issues = append(issues, fmt.Sprintf("k-map %s: %s", prefix, reason))
		}
	}
	return issues
}

// Gate runs the strict gate-mode grading pass: minimum input/output/state
// counts, per-state input coverage, diagram-vs-table agreement, and every
// K-map's expression. Missing K-map cells default to don't-care in gate
// mode (spec.md's DefaultPolicy switch, gate side).
func Gate(path string, m model.Machine, minStates, minInputs, minOutputs int) GateResult {
	var issues []string

	if len(m.Inputs) < minInputs {
		issues = append(issues, fmt.Sprintf("requires at least %d inputs; found %d", minInputs, len(m.Inputs)))
	}
	if len(m.Outputs) < minOutputs {
		issues = append(issues, fmt.Sprintf("requires at least %d outputs; found %d", minOutputs, len(m.Outputs)))
	}

	used := m.UsedStates()
	if len(used) < minStates {
		issues = append(issues, fmt.Sprintf("requires at least %d used states in the diagram; found %d", minStates, len(used)))
	}

	for id := range used {
		if ok, reason := diagram.CheckCoverage(id, m.Transitions, len(m.Inputs)); !ok {
			issues = append(issues, reason)
		}
	}

	bitCount := bitset.StateBitWidth(m.NumStates)
	expectations := diagram.Build(m.Transitions, m.StateByID(), bitCount, m.Type, len(m.Outputs))
	tbl := table.EnsureStructure(m)
	if m.TransitionTable != nil {
		tbl.Cells = m.TransitionTable.Decompress(m.NumStates, m.Inputs).Cells
	}
	if ok, reason := table.Verify(tbl, expectations, bitCount, m.Type, len(m.Inputs), len(m.Outputs)); !ok {
		issues = append(issues, reason)
	}

	issues = append(issues, gradeKMaps(m.KMaps, bitset.DontCare)...)

	return GateResult{File: path, Pass: len(issues) == 0, Issues: issues}
}
