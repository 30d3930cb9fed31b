package commands

import (
	"flag"
	"fmt"
	"os"

	"fsmgrade/internal/selftest"
)

// SelftestCommand runs the grader against its own fixture directory and
// reports whether every fixture graded the way its file name promises.
func SelftestCommand(args []string) error {
	fs := flag.NewFlagSet("selftest", flag.ExitOnError)
	fixturesDir := fs.String("fixtures", "testdata/fixtures", "directory of pass_*/fail_*.json fixtures")
	minStates := fs.Int("min-states", 2, "minimum number of used states required")
	minInputs := fs.Int("min-inputs", 1, "minimum number of inputs required")
	minOutputs := fs.Int("min-outputs", 1, "minimum number of outputs required")
	filter := fs.String("filter", "", "only run fixtures whose name contains this substring")
	verbose := fs.Bool("verbose", false, "print every gate-mode issue for failing fixtures")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fixtures, err := selftest.DiscoverFixtures(*fixturesDir)
	if err != nil {
		return fmt.Errorf("discover fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		fmt.Fprintf(os.Stderr, "no pass_*/fail_*.json fixtures found under %s\n", *fixturesDir)
		return nil
	}

	cfg := selftest.Config{MinStates: *minStates, MinInputs: *minInputs, MinOutputs: *minOutputs, Filter: *filter}
	stats := selftest.Run(fixtures, cfg, selftest.TextReporter{Verbose: *verbose})

	if stats.Failed > 0 {
		os.Exit(1)
	}
	return nil
}
