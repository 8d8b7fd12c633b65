// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/cie/internal/errors"
	"github.com/kraklabs/cie/internal/output"
	"github.com/kraklabs/cie/internal/ui"
	"github.com/kraklabs/cie/pkg/config"
	"github.com/kraklabs/cie/pkg/pipeline"
	"github.com/kraklabs/cie/pkg/repoload"
	"github.com/kraklabs/cie/pkg/storage"
)

// indexSummary is the JSON-serializable shape of a run's terminal report.
type indexSummary struct {
	RunID           string `json:"run_id"`
	FilesProcessed  int    `json:"files_processed"`
	ParseErrors     int    `json:"parse_errors"`
	NodeCount       int    `json:"node_count"`
	EdgeCount       int    `json:"edge_count"`
	ImportsFound    int    `json:"imports_found"`
	ImportsResolved int    `json:"imports_resolved"`
	InsertedRels    int    `json:"inserted_rels"`
	SkippedRels     int    `json:"skipped_rels"`
	ParseDurationMs int64  `json:"parse_duration_ms"`
	LoadDurationMs  int64  `json:"load_duration_ms"`
	TotalDurationMs int64  `json:"total_duration_ms"`
}

// runIndex executes 'cie-graph index <repo-root>', parsing every source
// file under repo-root and loading the resulting graph into the embedded
// store (SPEC_FULL.md §4.13).
func runIndex(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	out := fs.String("out", "", "Graph database directory (default: <repo-root>/.cie-graph/data)")
	workers := fs.Int("workers", 0, "Number of parse workers (default: NumCPU, clamped >= 2)")
	format := fs.String("format", "text", "Output format: text or json")
	engine := fs.String("engine", "rocksdb", "Embedded storage engine: rocksdb, sqlite, or mem")
	resolveCalls := fs.Bool("resolve-calls", false, "Resolve CALLS/EXTENDS/IMPLEMENTS/TRAIT_IMPL edges")
	excludes := fs.StringSlice("exclude", nil, "Additional glob patterns to exclude")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cie-graph index <repo-root> [options]

Parses every source file under repo-root with the language registry's
tree-sitter grammars, resolves imports, and loads the resulting code
graph into an embedded CozoDB store.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(errors.ExitInput)
	}

	if *format != "text" && *format != "json" {
		errors.FatalError(errors.NewInputError(
			"Invalid --format value",
			fmt.Sprintf("got %q, expected text or json", *format),
			"Use --format text or --format json",
		), globals.JSON)
	}
	jsonMode := globals.JSON || *format == "json"

	if fs.NArg() != 1 {
		errors.FatalError(errors.NewInputError(
			"Missing repo-root argument",
			"cie-graph index requires exactly one positional argument",
			"Run: cie-graph index <repo-root>",
		), jsonMode)
	}

	repoRoot, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot resolve repo-root",
			err.Error(),
			"Pass an existing directory path",
		), jsonMode)
	}
	if info, statErr := os.Stat(repoRoot); statErr != nil || !info.IsDir() {
		errors.FatalError(errors.NewNotFoundError(
			"repo-root is not a directory",
			repoRoot,
			"Pass the path to an existing repository checkout",
		), jsonMode)
	}

	dataDir := *out
	if dataDir == "" {
		dataDir = filepath.Join(repoRoot, ".cie-graph", "data")
	}

	ui.InitColors(globals.NoColor)

	logLevel := slog.LevelInfo
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// Flags win over an optional .cie-graph.yaml's defaults, which win
	// over config.New's own built-in defaults.
	fileDefaults, err := config.LoadFileDefaults(repoRoot)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot read .cie-graph.yaml", err.Error(), "Make the config file readable, or remove it", err,
		), jsonMode)
	}
	effectiveWorkers := *workers
	if effectiveWorkers == 0 {
		effectiveWorkers = fileDefaults.Workers
	}
	effectiveEngine := *engine
	if !fs.Changed("engine") && fileDefaults.Engine != "" {
		effectiveEngine = fileDefaults.Engine
	}
	effectiveResolveCalls := *resolveCalls
	if !fs.Changed("resolve-calls") && fileDefaults.ResolveCalls {
		effectiveResolveCalls = true
	}
	effectiveExcludes := *excludes
	if !fs.Changed("exclude") {
		effectiveExcludes = fileDefaults.Exclude
	}

	cfg := config.New(
		config.WithNumWorkers(effectiveWorkers),
		config.WithDataDir(dataDir),
		config.WithEngine(effectiveEngine),
		config.WithResolveCalls(effectiveResolveCalls),
		config.WithLogger(logger),
	)

	if !jsonMode {
		ui.Header("Indexing repository")
		ui.Infof("repo: %s", repoRoot)
		ui.Infof("data: %s", cfg.DataDir)
	}

	files, err := repoload.Load(repoRoot, effectiveExcludes, cfg.MaxFileSize)
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Failed to walk repository",
			err.Error(),
			"Check filesystem permissions under repo-root",
			err,
		), jsonMode)
	}
	if !jsonMode {
		ui.Infof("found %d files", len(files))
	}

	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
		DataDir: cfg.DataDir,
		Engine:  cfg.Engine,
	})
	if err != nil {
		errors.FatalError(errors.NewDatabaseError(
			"Cannot open graph database",
			err.Error(),
			"Check that the --out directory is writable and not locked by another process",
			err,
		), jsonMode)
	}
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("cie-graph.shutdown.signal", "signal", sig.String())
		cancel()
	}()

	progressCfg := NewProgressConfig(globals)
	bar := NewProgressBar(progressCfg, int64(len(files)), "Indexing")
	var lastReported int64

	p := pipeline.New(backend, logger)
	result, err := p.Run(ctx, pipeline.Config{
		RepoRoot:     repoRoot,
		NumWorkers:   cfg.NumWorkers,
		ResolveCalls: cfg.ResolveCalls,
		OnProgress: func(processed, _ int) {
			if bar == nil {
				return
			}
			_ = bar.Add64(int64(processed) - lastReported)
			lastReported = int64(processed)
		},
	}, files)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		errors.FatalError(errors.NewInternalError(
			"Indexing failed",
			err.Error(),
			"Re-run with a smaller repository, or check the log output above",
			err,
		), jsonMode)
	}

	summary := indexSummary{
		RunID:           result.RunID,
		FilesProcessed:  result.FilesProcessed,
		ParseErrors:     result.ParseErrors,
		NodeCount:       result.NodeCount,
		EdgeCount:       result.EdgeCount,
		ImportsFound:    result.ImportsFound,
		ImportsResolved: result.ImportsResolved,
		InsertedRels:    result.InsertedRels,
		SkippedRels:     result.SkippedRels,
		ParseDurationMs: result.ParseDuration.Milliseconds(),
		LoadDurationMs:  result.LoadDuration.Milliseconds(),
		TotalDurationMs: result.TotalDuration.Milliseconds(),
	}

	if jsonMode {
		if err := output.JSON(summary); err != nil {
			errors.FatalError(errors.NewInternalError(
				"Failed to encode JSON output", err.Error(), "This is a bug; please report it", err,
			), true)
		}
		return
	}

	printSummary(&summary)
}

func printSummary(s *indexSummary) {
	fmt.Println()
	ui.Header("Indexing complete")
	fmt.Printf("Run ID:            %s\n", s.RunID)
	fmt.Printf("Files processed:   %d\n", s.FilesProcessed)
	if s.ParseErrors > 0 {
		fmt.Printf("Parse errors:      %d\n", s.ParseErrors)
	}
	fmt.Printf("Nodes:             %d\n", s.NodeCount)
	fmt.Printf("Edges:             %d\n", s.EdgeCount)
	fmt.Printf("Imports found:     %d\n", s.ImportsFound)
	fmt.Printf("Imports resolved:  %d\n", s.ImportsResolved)
	fmt.Printf("Relations written: %d\n", s.InsertedRels)
	if s.SkippedRels > 0 {
		ui.Warningf("Relations skipped: %d", s.SkippedRels)
	}
	fmt.Println()
	fmt.Printf("Parse:  %dms\n", s.ParseDurationMs)
	fmt.Printf("Load:   %dms\n", s.LoadDurationMs)
	fmt.Printf("Total:  %dms\n", s.TotalDurationMs)
	ui.Success("Done")
}
