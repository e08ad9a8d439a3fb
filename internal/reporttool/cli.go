package reporttool

import (
	"fmt"
	"os"
	"strings"

	"github.com/aubridge/torneos/internal/domain/points"
	"github.com/aubridge/torneos/pkg/logger"
)

// SetupLogging initializes the logger. Quiet by default so the JSON
// document stays clean on stdout; verbose turns diagnostics back on.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the report tool.
func ShowHelp() {
	os.Stdout.WriteString(`Torneos Report Tool
===================

Parses a PairsScorer export (ranks or board-by-board report) into JSON,
for checking a file before uploading it to the service.

Usage:
  go run cmd/parse-report/main.go -file REPORT [options]

Options:
  -file string
        Report file to parse (required)
  -type string
        Report type: standings, travellers or auto (default "auto")
  -kind string
        Tournament kind; adds an AUB points column to ranking rows
  -output string
        Output file for the JSON document (default: stdout)
  -kinds
        List known tournament kinds and exit
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Parse a ranks report
  go run cmd/parse-report/main.go -file miercoles.txt

  # Parse a board-by-board report into a file
  go run cmd/parse-report/main.go -file manos.txt -type travellers -output manos.json

  # Preview the points a handicap night would award
  go run cmd/parse-report/main.go -file miercoles.txt -kind handicap
`)
}

// ShowKinds prints the known tournament kinds with their labels.
func ShowKinds() {
	var b strings.Builder
	b.WriteString("Known tournament kinds:\n")
	for _, kind := range points.Kinds() {
		label, _ := points.Label(kind)
		fmt.Fprintf(&b, "  %-24s %s\n", kind, label)
	}
	os.Stdout.WriteString(b.String())
}
