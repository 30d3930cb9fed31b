package commands

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fsmgrade/internal/grade"
	"fsmgrade/internal/history"
	"fsmgrade/internal/livegrade"
	"fsmgrade/internal/report"
)

// RubricCommand grades every save file under --path with partial credit
// and writes a grading_results.txt report, optionally streaming progress
// to connected --watch clients over WebSocket.
func RubricCommand(args []string) error {
	fs := flag.NewFlagSet("rubric", flag.ExitOnError)
	path := fs.String("path", ".", "file or directory of save files to grade")
	minStates := fs.Int("min-states", 2, "minimum number of used states required")
	minInputs := fs.Int("min-inputs", 1, "minimum number of inputs required")
	minOutputs := fs.Int("min-outputs", 1, "minimum number of outputs required")
	workers := fs.Int("workers", 4, "maximum concurrent files graded at once")
	weightsName := fs.String("weights", "rubric", "weight preset: rubric or autograder")
	out := fs.String("out", "grading_results.txt", "report file to write")
	dbDSN := fs.String("db", "", "optional history database DSN (e.g. sqlite:grading.db)")
	watchAddr := fs.String("watch", "", "serve live progress over WebSocket at this address (e.g. :8090)")
	minVersion := fs.String("min-version", "", "fail if this grader is older than the given semantic version")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := CheckMinVersion(*minVersion); err != nil {
		return err
	}

	w, err := resolveWeights(*weightsName)
	if err != nil {
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

	var hub *livegrade.Hub
	var srv *closeable
	if *watchAddr != "" {
		hub = livegrade.NewHub()
		httpSrv, err := livegrade.Serve(*watchAddr, hub)
		if err != nil {
			return fmt.Errorf("start watch server: %w", err)
		}
		srv = &closeable{httpSrv}
		defer srv.Close()
		fmt.Printf("watching on ws://%s/ws (status: http://%s/status)\n", *watchAddr, *watchAddr)
	}

	runID := report.NewRunHeader(time.Now())
	results := make([]grade.RubricResult, len(files))
	g := new(errgroup.Group)
	g.SetLimit(*workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			m, err := loadMachine(file)
			if err != nil {
				results[i] = grade.RubricResult{File: file}
				return nil
			}
			res := grade.Rubric(file, m, w, *minStates, *minInputs, *minOutputs)
			results[i] = res
			if hub != nil {
				hub.Broadcast(livegrade.ProgressEvent{
					RunID:   runID.RunID.String(),
					File:    file,
					Mode:    "rubric",
					Pass:    res.TotalScore() >= res.TotalWeight(),
					Score:   res.TotalScore(),
					Weight:  res.TotalWeight(),
					At:      time.Now(),
					Total:   len(files),
					Ordinal: i + 1,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if hub != nil {
		hub.Broadcast(livegrade.ProgressEvent{RunID: runID.RunID.String(), Mode: "rubric", Done: true, Total: len(files)})
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	report.WriteRubricReport(f, runID, time.Now(), "", results)
	fmt.Printf("wrote %s\n", *out)

	if *dbDSN != "" {
		scheme, conn := splitHistoryDSN(*dbDSN)
		store, err := history.Open(scheme, conn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to open history database: %v\n", err)
		} else {
			defer store.Close()
			if err := store.RecordRubricRun(runID.RunID.String(), runID.StartedAt, results); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to record history: %v\n", err)
			}
		}
	}

	return nil
}

func resolveWeights(name string) (grade.Weights, error) {
	switch name {
	case "rubric", "":
		return grade.WeightsRubricV2, nil
	case "autograder":
		return grade.WeightsAutograder, nil
	default:
		return grade.Weights{}, fmt.Errorf("unknown weight preset %q (want rubric or autograder)", name)
	}
}

// closeable adapts *http.Server's graceful-ish Close for a deferred call
// without importing net/http in this file's signature.
type closeable struct {
	s interface{ Close() error }
}

func (c *closeable) Close() error { return c.s.Close() }
