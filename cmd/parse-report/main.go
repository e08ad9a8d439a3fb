package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/aubridge/torneos/internal/reporttool"
)

// Default configuration constants.
const (
	defaultRunTimeout = 30 * time.Second
)

func main() {
	var (
		file       = flag.String("file", "", "Report file to parse (required)")
		reportType = flag.String("type", reporttool.TypeAuto, "Report type: standings, travellers or auto")
		kind       = flag.String("kind", "", "Tournament kind; adds an AUB points column")
		output     = flag.String("output", "", "Output file for the JSON document (default: stdout)")
		listKinds  = flag.Bool("kinds", false, "List known tournament kinds")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		reporttool.ShowHelp()
		return
	}

	if *listKinds {
		reporttool.ShowKinds()
		return
	}

	if *file == "" {
		os.Stderr.WriteString("missing required -file flag\n\n")
		reporttool.ShowHelp()
		os.Exit(2)
	}

	// Setup logging
	if err := reporttool.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &reporttool.Config{
		Path:       *file,
		Type:       *reportType,
		Kind:       *kind,
		OutputFile: *output,
		Verbose:    *verbose,
	}

	if err := reporttool.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Parse failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
