package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fsmgrade/internal/grade"
	"fsmgrade/internal/history"
	"fsmgrade/internal/model"
	"fsmgrade/internal/report"
)

// GateCommand grades every save file under --path against the strict
// pass/fail checks and prints one "[PASS]"/"[FAIL]" line per file.
func GateCommand(args []string) error {
	fs := flag.NewFlagSet("gate", flag.ExitOnError)
	path := fs.String("path", ".", "file or directory of save files to grade")
	minStates := fs.Int("min-states", 2, "minimum number of used states required")
	minInputs := fs.Int("min-inputs", 1, "minimum number of inputs required")
	minOutputs := fs.Int("min-outputs", 1, "minimum number of outputs required")
	workers := fs.Int("workers", 4, "maximum concurrent files graded at once")
	verbose := fs.Bool("verbose", false, "pretty-print the first issue of the first failing file")
	dbDSN := fs.String("db", "", "optional history database DSN (e.g. sqlite:grading.db)")
	minVersion := fs.String("min-version", "", "fail if this grader is older than the given semantic version")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := CheckMinVersion(*minVersion); err != nil {
		return err
	}

	files, err := discoverSaveFiles(*path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no save files found under %s\n", *path)
		return nil
	}

	results := make([]grade.GateResult, len(files))
	g := new(errgroup.Group)
	g.SetLimit(*workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			m, err := loadMachine(file)
			if err != nil {
				results[i] = grade.GateResult{File: file, Pass: false, Issues: []string{err.Error()}}
				return nil
			}
			results[i] = grade.Gate(file, m, *minStates, *minInputs, *minOutputs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failing := 0
	for _, res := range results {
		report.WriteGateResult(os.Stdout, res)
		if !res.Pass {
			failing++
		}
	}
	fmt.Printf("\n%d/%d passed\n", len(results)-failing, len(results))

	if *verbose {
		printFirstMismatch(results)
	}

	if *dbDSN != "" {
		if err := recordGateHistory(*dbDSN, results); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record history: %v\n", err)
		}
	}

	if failing > 0 {
		os.Exit(1)
	}
	return nil
}

func printFirstMismatch(results []grade.GateResult) {
	for _, res := range results {
		if res.Pass || len(res.Issues) == 0 {
			continue
		}
		report.WriteGateMismatchDebug(os.Stdout, res.File, "no issues", res.Issues[0])
		return
	}
}

func recordGateHistory(dsn string, results []grade.GateResult) error {
	scheme, conn := splitHistoryDSN(dsn)
	store, err := history.Open(scheme, conn)
	if err != nil {
		return err
	}
	defer store.Close()
	header := report.NewRunHeader(time.Now())
	return store.RecordGateRun(header.RunID.String(), header.StartedAt, results)
}

func loadMachine(path string) (model.Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Machine{}, fmt.Errorf("read %s: %w", path, err)
	}
	var m model.Machine
	if err := json.Unmarshal(data, &m); err != nil {
		return model.Machine{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// discoverSaveFiles returns path itself if it's a single file, or every
// *.json file directly inside it if it's a directory.
func discoverSaveFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
