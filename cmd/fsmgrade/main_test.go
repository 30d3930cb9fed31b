package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets testscript re-exec this test binary as the fsmgrade CLI
// itself (one process per txtar script), the standard go-internal
// pattern for CLI integration tests: no teacher file calls testscript
// directly, but it's already an indirect dependency of this module and
// is the ecosystem's standard harness for exactly this job.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"fsmgrade": func() int { return run(os.Args[1:]) },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
