// Package selftest runs fsmgrade's own grading logic against a
// directory of golden fixture save files and checks the verdict each
// one produces against the verdict its file name promises. It exists so
// a course can sanity-check the grader itself ("does it still accept a
// known-good submission, still reject a known-bad one") without
// standing up a real assignment.
//
// Grounded on the teacher's internal/testing TestRunner/TestSuite
// abstraction (suite discovery, a pluggable Reporter, pass/fail/skip
// counters), narrowed from a general scripting-language test runner
// down to one fixed grading check per fixture, and on DiscoverTests'
// glob-based file discovery.
package selftest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fsmgrade/internal/grade"
	"fsmgrade/internal/model"
)

// Fixture is one golden save file paired with the outcome it's expected
// to produce under gate-mode grading.
type Fixture struct {
	Name         string
	Path         string
	ExpectedPass bool
}

// Result is one fixture's actual outcome.
type Result struct {
	Fixture  string
	Expected bool
	Actual   bool
	Issues   []string
	Duration time.Duration
	Err      error
}

// OK reports whether the fixture graded the way its name promised.
func (r Result) OK() bool {
	return r.Err == nil && r.Actual == r.Expected
}

// Stats summarizes a full run.
type Stats struct {
	Total    int
	Passed   int
	Failed   int
	TotalTime time.Duration
}

// Reporter receives progress as fixtures run, the same role the
// teacher's TestReporter interface plays for its test runner.
type Reporter interface {
	FixtureOK(Result)
	FixtureFailed(Result)
	Summary(Stats)
}

// DiscoverFixtures globs dir for *.json files and classifies each by its
// "pass_"/"fail_" filename prefix. Files without either prefix are
// skipped, since their expected outcome would be ambiguous.
func DiscoverFixtures(dir string) ([]Fixture, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var fixtures []Fixture
	for _, path := range matches {
		base := strings.TrimSuffix(filepath.Base(path), ".json")
		switch {
		case strings.HasPrefix(base, "pass_"):
			fixtures = append(fixtures, Fixture{Name: base, Path: path, ExpectedPass: true})
		case strings.HasPrefix(base, "fail_"):
			fixtures = append(fixtures, Fixture{Name: base, Path: path, ExpectedPass: false})
		}
	}
	return fixtures, nil
}

// Config tunes which fixtures run and the gate thresholds they're
// graded against.
type Config struct {
	MinStates, MinInputs, MinOutputs int
	Filter                           string
}

// Run grades every matching fixture with grade.Gate and reports each
// outcome through reporter, returning the aggregate stats.
func Run(fixtures []Fixture, cfg Config, reporter Reporter) Stats {
	start := time.Now()
	stats := Stats{}

	for _, fx := range fixtures {
		if cfg.Filter != "" && !strings.Contains(fx.Name, cfg.Filter) {
			continue
		}
		stats.Total++
		res := runFixture(fx, cfg)
		if res.OK() {
			stats.Passed++
			reporter.FixtureOK(res)
		} else {
			stats.Failed++
			reporter.FixtureFailed(res)
		}
	}

	stats.TotalTime = time.Since(start)
	reporter.Summary(stats)
	return stats
}

func runFixture(fx Fixture, cfg Config) Result {
	started := time.Now()
	data, err := os.ReadFile(fx.Path)
	if err != nil {
		return Result{Fixture: fx.Name, Expected: fx.ExpectedPass, Err: err, Duration: time.Since(started)}
	}

	var m model.Machine
	if err := json.Unmarshal(data, &m); err != nil {
		return Result{Fixture: fx.Name, Expected: fx.ExpectedPass, Err: err, Duration: time.Since(started)}
	}

	gateRes := grade.Gate(fx.Path, m, cfg.MinStates, cfg.MinInputs, cfg.MinOutputs)
	return Result{
		Fixture:  fx.Name,
		Expected: fx.ExpectedPass,
		Actual:   gateRes.Pass,
		Issues:   gateRes.Issues,
		Duration: time.Since(started),
	}
}

// TextReporter prints a line per fixture plus a summary, the same shape
// as the teacher's TextReporter but addressed to fixtures rather than
// test cases.
type TextReporter struct {
	Verbose bool
}

func (r TextReporter) FixtureOK(res Result) {
	fmt.Printf("\033[32mok\033[0m   %s (%v)\n", res.Fixture, res.Duration)
}

func (r TextReporter) FixtureFailed(res Result) {
	fmt.Printf("\033[31mFAIL\033[0m %s (%v)\n", res.Fixture, res.Duration)
	if res.Err != nil {
		fmt.Printf("     error: %v\n", res.Err)
		return
	}
	fmt.Printf("     expected pass=%v, got pass=%v\n", res.Expected, res.Actual)
	if r.Verbose {
		for _, issue := range res.Issues {
			fmt.Printf("     - %s\n", issue)
		}
	}
}

func (r TextReporter) Summary(stats Stats) {
	fmt.Printf("\n%d fixtures, %d ok, %d failed (%v)\n", stats.Total, stats.Passed, stats.Failed, stats.TotalTime)
}
