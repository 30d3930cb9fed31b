// Package gradelog is a thin wrapper over log.Logger giving the CLI
// commands a single place to switch verbosity and destination, the way
// the teacher language's own subsystems each took a *log.Logger rather
// than reaching for a global.
package gradelog

import (
	"io"
	"log"
	"os"
)

// Logger wraps the standard logger with a verbosity gate: Debugf only
// writes when verbose is enabled, so `--verbose` can turn on per-cell
// tracing without littering normal runs.
type Logger struct {
	out     *log.Logger
	verbose bool
}

// New builds a Logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{out: log.New(w, "", 0), verbose: verbose}
}

// Default builds a Logger writing to os.Stderr.
func Default(verbose bool) *Logger {
	return New(os.Stderr, verbose)
}

func (l *Logger) Infof(format string, args ...any) {
	l.out.Printf(format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.out.Printf("debug: "+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.out.Printf("error: "+format, args...)
}
