// cmd/fsmgrade/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"fsmgrade/cmd/fsmgrade/commands"
)

// commandAliases mirrors the teacher CLI's short-alias convention.
var commandAliases = map[string]string{
	"g": "gate",
	"r": "rubric",
	"s": "selftest",
	"y": "history",
	"v": "version",
	"h": "help",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches a parsed command line and returns the process exit
// code, split out from main so the CLI integration tests (testscript,
// via RunMain) can drive it without forking a real subprocess per case.
func run(args []string) int {
	if len(args) == 0 {
		showUsage()
		return 0
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		showVersion()
	case "gate":
		if err := commands.GateCommand(args[1:]); err != nil {
			log.Printf("Error: %v", err)
			return 1
		}
	case "rubric":
		if err := commands.RubricCommand(args[1:]); err != nil {
			log.Printf("Error: %v", err)
			return 1
		}
	case "selftest":
		if err := commands.SelftestCommand(args[1:]); err != nil {
			log.Printf("Error: %v", err)
			return 1
		}
	case "history":
		if err := commands.HistoryCommand(args[1:]); err != nil {
			log.Printf("Error: %v", err)
			return 1
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		showUsage()
		return 1
	}
	return 0
}

func showUsage() {
	fmt.Println("fsmgrade - finite-state-machine assignment grader")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fsmgrade gate --path <dir>      Strict pass/fail grading          (alias: g)")
	fmt.Println("  fsmgrade rubric --path <dir>    Weighted partial-credit grading    (alias: r)")
	fmt.Println("  fsmgrade selftest               Grade the fixture corpus           (alias: s)")
	fmt.Println("  fsmgrade history --db <dsn>     List recent recorded runs         (alias: y)")
	fmt.Println("  fsmgrade version                Show version                      (alias: v)")
	fmt.Println("  fsmgrade help                   Show this message                 (alias: h)")
	fmt.Println()
	fmt.Println("Common flags (gate, rubric):")
	fmt.Println("  --path <dir|file>     save file(s) to grade (default \".\")")
	fmt.Println("  --min-states <n>      minimum used states required (default 2)")
	fmt.Println("  --min-inputs <n>      minimum inputs required (default 1)")
	fmt.Println("  --min-outputs <n>     minimum outputs required (default 1)")
	fmt.Println("  --workers <n>         concurrent files graded at once (default 4)")
	fmt.Println("  --db <dsn>            record this run to a history database")
	fmt.Println()
	fmt.Println("Rubric-only flags:")
	fmt.Println("  --weights <rubric|autograder>   weight preset (default rubric)")
	fmt.Println("  --out <file>                     report path (default grading_results.txt)")
	fmt.Println("  --watch <addr>                   stream progress over WebSocket")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  fsmgrade gate --path submissions/ --min-states 4")
	fmt.Println("  fsmgrade rubric --path submissions/ --weights autograder --watch :8090")
	fmt.Println("  fsmgrade selftest --fixtures testdata/fixtures")
}

func showVersion() {
	fmt.Printf("fsmgrade %s\n", commands.Version)
}
