// Package history persists grading runs to a SQL database so repeated
// gate/rubric runs over the same assignment can be compared over time.
// It is optional: callers that never construct a Store simply never pay
// for it. Grounded on the teacher's DBManager.Connect driver-name
// dispatch, narrowed from a multi-connection manager down to the single
// store a grading run needs.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"fsmgrade/internal/grade"
)

// Store records grading runs against a SQL backend. The zero value is
// not usable; build one with Open.
type Store struct {
	db         *sql.DB
	driverName string
}

// rebind rewrites a query written with sqlite/mysql-style "?" positional
// placeholders into whatever the store's actual driver expects: postgres
// and sqlserver don't accept "?" at all (lib/pq wants "$1, $2, ...",
// go-mssqldb wants "@p1, @p2, ...").
func (s *Store) rebind(query string) string {
	switch s.driverName {
	case "postgres":
		return rebindPlaceholders(query, func(n int) string { return fmt.Sprintf("$%d", n) })
	case "sqlserver":
		return rebindPlaceholders(query, func(n int) string { return fmt.Sprintf("@p%d", n) })
	default:
		return query
	}
}

func rebindPlaceholders(query string, format func(n int) string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(format(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// driverForScheme maps a history DSN's scheme prefix to its registered
// database/sql driver name, the same dispatch DBManager.Connect performs
// keyed on an explicit dbType argument rather than a URL scheme.
func driverForScheme(scheme string) (string, error) {
	switch scheme {
	case "sqlite", "sqlite3", "":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlserver", "mssql":
		return "sqlserver", nil
	default:
		return "", errors.Errorf("unsupported history database scheme: %q", scheme)
	}
}

// Open connects to dsn (a sqlite file path, or a postgres://, mysql://,
// sqlserver:// URL) and ensures the grading_runs/grading_results tables
// exist.
func Open(scheme, dsn string) (*Store, error) {
	driverName, err := driverForScheme(scheme)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open history database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping history database")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db, driverName: driverName}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS grading_runs (
			run_id     TEXT PRIMARY KEY,
			mode       TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			file_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS grading_results (
			run_id TEXT NOT NULL,
			file   TEXT NOT NULL,
			pass   INTEGER NOT NULL,
			score  REAL NOT NULL,
			weight REAL NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "migrate history schema")
		}
	}
	return nil
}

// RecordGateRun inserts a gate-mode run and one row per graded file.
func (s *Store) RecordGateRun(runID string, startedAt time.Time, results []grade.GateResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin history transaction")
	}
	if _, err := tx.Exec(
		s.rebind(`INSERT INTO grading_runs (run_id, mode, started_at, file_count) VALUES (?, ?, ?, ?)`),
		runID, "gate", startedAt, len(results),
	); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "insert gate run")
	}
	for _, res := range results {
		score := 0.0
		weight := 1.0
		if res.Pass {
			score = 1.0
		}
		pass := 0
		if res.Pass {
			pass = 1
		}
		if _, err := tx.Exec(
			s.rebind(`INSERT INTO grading_results (run_id, file, pass, score, weight) VALUES (?, ?, ?, ?, ?)`),
			runID, res.File, pass, score, weight,
		); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert gate result")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit history transaction")
	}
	return nil
}

// RecordRubricRun inserts a rubric-mode run and one row per graded file.
func (s *Store) RecordRubricRun(runID string, startedAt time.Time, results []grade.RubricResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin history transaction")
	}
	if _, err := tx.Exec(
		s.rebind(`INSERT INTO grading_runs (run_id, mode, started_at, file_count) VALUES (?, ?, ?, ?)`),
		runID, "rubric", startedAt, len(results),
	); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "insert rubric run")
	}
	for _, res := range results {
		pass := 0
		if res.TotalWeight() > 0 && res.TotalScore() >= res.TotalWeight() {
			pass = 1
		}
		if _, err := tx.Exec(
			s.rebind(`INSERT INTO grading_results (run_id, file, pass, score, weight) VALUES (?, ?, ?, ?, ?)`),
			runID, res.File, pass, res.TotalScore(), res.TotalWeight(),
		); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert rubric result")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit history transaction")
	}
	return nil
}

// RunSummary is one past run's aggregate outcome, as returned by
// RecentRuns.
type RunSummary struct {
	RunID     string
	Mode      string
	StartedAt time.Time
	FileCount int
	AvgScore  float64
}

// RecentRuns returns the most recent limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(
		s.rebind(`SELECT r.run_id, r.mode, r.started_at, r.file_count,
			COALESCE(AVG(CASE WHEN g.weight > 0 THEN g.score / g.weight ELSE g.score END), 0)
		 FROM grading_runs r
		 LEFT JOIN grading_results g ON g.run_id = r.run_id
		 GROUP BY r.run_id, r.mode, r.started_at, r.file_count
		 ORDER BY r.started_at DESC
		 LIMIT ?`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.RunID, &rs.Mode, &rs.StartedAt, &rs.FileCount, &rs.AvgScore); err != nil {
			return nil, errors.Wrap(err, "scan run summary")
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
