// Package report formats grading output for both CLI façades: the
// gate-mode console transcript (spec.md §6, "[PASS]"/"[FAIL]" lines) and
// the rubric-mode grading_results.txt file, plus the small third-party
// polish (humanized durations, strftime timestamps, TTY-aware color,
// pretty-printed mismatch dumps) a CLI report earns over hand-rolled
// formatting.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"

	"fsmgrade/internal/grade"
)

const defaultTimeFormat = "%Y-%m-%d %H:%M:%S"

// ansi color codes for the gate-mode console transcript.
const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// colorEnabled reports whether w is a TTY worth coloring; redirected or
// piped output (a file, a CI log) gets plain text.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// WriteGateResult prints one file's gate-mode verdict: a "[PASS] file" or
// "[FAIL] file" line, followed by an indented "- issue" line per issue.
func WriteGateResult(w io.Writer, res grade.GateResult) {
	label := "[PASS]"
	color := ansiGreen
	if !res.Pass {
		label = "[FAIL]"
		color = ansiRed
	}
	if colorEnabled(w) {
		fmt.Fprintf(w, "%s%s%s %s\n", color, label, ansiReset, res.File)
	} else {
		fmt.Fprintf(w, "%s %s\n", label, res.File)
	}
	for _, issue := range res.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}

// WriteGateMismatchDebug pretty-prints an expected/actual pair under a key
// heading. gate --verbose calls it once, for the first failing file, with
// "no issues" as the expected value and that file's first issue as the
// actual one; no diagram or table dictionaries are dumped.
func WriteGateMismatchDebug(w io.Writer, key string, expected, actual any) {
	fmt.Fprintf(w, "first mismatch at %q:\n", key)
	fmt.Fprintf(w, "  expected: %s\n", strings.TrimSpace(pretty.Sprint(expected)))
	fmt.Fprintf(w, "  actual:   %s\n", strings.TrimSpace(pretty.Sprint(actual)))
}

// RunHeader identifies one batch grading run: a fresh UUID plus the wall
// time it started, so repeated runs over the same directory are
// distinguishable in internal/history and in the report file itself.
type RunHeader struct {
	RunID     uuid.UUID
	StartedAt time.Time
}

// NewRunHeader stamps a run with a fresh id and the given start time.
func NewRunHeader(startedAt time.Time) RunHeader {
	return RunHeader{RunID: uuid.New(), StartedAt: startedAt}
}

// TimeFormat renders t using a user-configurable strftime pattern,
// defaulting to "%Y-%m-%d %H:%M:%S".
func TimeFormat(pattern string, t time.Time) string {
	if pattern == "" {
		pattern = defaultTimeFormat
	}
	return strftime.Format(pattern, t)
}

// WriteRubricReport renders grading_results.txt's full contents: a run
// header (id, timestamp, elapsed, file count), then each file's
// RubricResult.Render() in order.
func WriteRubricReport(w io.Writer, header RunHeader, finishedAt time.Time, timeFormat string, results []grade.RubricResult) {
	fmt.Fprintf(w, "Run: %s\n", header.RunID)
	fmt.Fprintf(w, "Started: %s\n", TimeFormat(timeFormat, header.StartedAt))
	fmt.Fprintf(w, "Elapsed: %s\n", humanize.RelTime(header.StartedAt, finishedAt, "", ""))
	fmt.Fprintf(w, "Files graded: %s\n\n", humanize.Comma(int64(len(results))))
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, res.Render())
	}
}
