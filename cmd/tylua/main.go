package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/tylua/tylua/internal/checker"
	"github.com/tylua/tylua/internal/diagnostics"
	"github.com/tylua/tylua/internal/lexer"
	"github.com/tylua/tylua/internal/modules"
	"github.com/tylua/tylua/internal/parser"
	"github.com/tylua/tylua/internal/pipeline"
)

const cacheFileName = ".tylua-cache.db"

func main() {
	if len(os.Args) < 3 || os.Args[1] != "check" {
		fmt.Fprintf(os.Stderr, "Usage: %s check [--show-type] [--cache-stats] <path>\n", os.Args[0])
		os.Exit(1)
	}

	var showType, cacheStats bool
	var path string
	for _, arg := range os.Args[2:] {
		switch arg {
		case "--show-type":
			showType = true
		case "--cache-stats":
			cacheStats = true
		default:
			path = arg
		}
	}
	if path == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s check [--show-type] [--cache-stats] <path>\n", os.Args[0])
		os.Exit(1)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %s\n", path, err)
		os.Exit(1)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	loader := modules.NewLoader(filepath.Dir(absPath))
	if disk, err := modules.OpenDiskCache(filepath.Join(filepath.Dir(absPath), cacheFileName)); err == nil {
		loader.Disk = disk
		defer disk.Close()
	}
	loader.Check = checker.CheckSource

	ctx := pipeline.NewPipelineContext(string(source))
	ctx.FilePath = absPath

	pl := pipeline.New(
		&lexer.Processor{},
		&parser.Processor{},
		&checker.Processor{Loader: loader},
	)
	final := pl.Run(ctx)

	printDiagnostics(final.Sink, final.RunID)

	if showType && final.ReturnType != nil {
		fmt.Printf("module type: %s\n", final.ReturnType.String())
	}

	if cacheStats && loader.Disk != nil {
		entries, totalBytes, lastChecked, err := loader.Disk.Stats()
		if err == nil {
			fmt.Printf("cache: %d entries, %s, last checked %s\n",
				entries, humanize.Bytes(uint64(totalBytes)), humanize.Time(lastChecked))
		}
	}

	if final.Sink.HasErrors() {
		os.Exit(1)
	}
}

func printDiagnostics(sink *diagnostics.Sink, runID string) {
	color := isatty.IsTerminal(os.Stderr.Fd())
	for _, d := range sink.All() {
		line := d.Error()
		if color {
			if d.Severity == diagnostics.SeverityError {
				line = "\033[31m" + line + "\033[0m"
			} else {
				line = "\033[33m" + line + "\033[0m"
			}
		}
		fmt.Fprintln(os.Stderr, line)
	}
	if len(sink.All()) > 0 {
		fmt.Fprintf(os.Stderr, "run %s\n", runID)
	}
}
