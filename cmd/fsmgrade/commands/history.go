package commands

import (
	"flag"
	"fmt"

	"fsmgrade/internal/history"
)

// HistoryCommand prints the most recent grading runs recorded by earlier
// gate/rubric invocations' --db flag.
func HistoryCommand(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbDSN := fs.String("db", "grading.db", "history database DSN (e.g. sqlite:grading.db)")
	limit := fs.Int("limit", 10, "maximum number of runs to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scheme, conn := splitHistoryDSN(*dbDSN)
	store, err := history.Open(scheme, conn)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(*limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-7s  %s  %3d files  avg %.1f%%\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Mode, r.RunID, r.FileCount, r.AvgScore*100)
	}
	return nil
}
