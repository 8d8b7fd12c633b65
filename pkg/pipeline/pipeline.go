// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package pipeline is the Pipeline Orchestrator: it sequences structure
// discovery, parallel parsing, import resolution, optional call/heritage
// resolution, and the graph load into one run. See SPEC_FULL.md §4.9.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/kraklabs/cie/pkg/callresolve"
	"github.com/kraklabs/cie/pkg/graph"
	"github.com/kraklabs/cie/pkg/lang"
	"github.com/kraklabs/cie/pkg/loader"
	"github.com/kraklabs/cie/pkg/metadata"
	"github.com/kraklabs/cie/pkg/parse"
	"github.com/kraklabs/cie/pkg/pool"
	"github.com/kraklabs/cie/pkg/resolve"
	"github.com/kraklabs/cie/pkg/storage"
	"github.com/kraklabs/cie/pkg/suffixindex"
)

// Config controls one Pipeline run.
type Config struct {
	// RepoRoot is read only for the four metadata files (SPEC_FULL.md §6).
	RepoRoot string
	// NumWorkers bounds the parse Worker Pool; <1 is treated as 1.
	NumWorkers int
	// ResolveCalls runs the downstream, non-core call/heritage resolution
	// stage (SPEC_FULL.md §4.9's parenthetical "optional" phase).
	ResolveCalls bool
	// OnProgress, if non-nil, is called with the cumulative parsed-file
	// count and the batch total after every 100 files during the parse
	// phase (SPEC_FULL.md §4.2/§4.3).
	OnProgress func(processed, total int)
}

// Result summarizes one run for the CLI's terminal/JSON output.
type Result struct {
	RunID           string
	FilesProcessed  int
	ParseErrors     int
	NodeCount       int
	EdgeCount       int
	ImportsFound    int
	ImportsResolved int
	InsertedRels    int
	SkippedRels     int
	ParseDuration   time.Duration
	LoadDuration    time.Duration
	TotalDuration   time.Duration
}

// Pipeline owns the Graph Loader's backend across runs.
type Pipeline struct {
	logger *slog.Logger
	loader *loader.Loader
}

// New returns a Pipeline that loads into backend. logger may be nil, in
// which case slog.Default() is used.
func New(backend storage.Backend, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, loader: loader.New(backend, logger)}
}

func generateRunID(repoRoot string, startTime time.Time) string {
	base := fmt.Sprintf("run-%s-%d", repoRoot, startTime.Truncate(time.Second).Unix())
	hash := sha256.Sum256([]byte(base))
	return hex.EncodeToString(hash[:16])
}

// Run executes the full pipeline over files and returns its summary. files
// must use repo-relative, "/"-separated paths (SPEC_FULL.md §6).
func (p *Pipeline) Run(ctx context.Context, cfg Config, files []parse.FileRecord) (*Result, error) {
	startTime := time.Now()
	runID := generateRunID(cfg.RepoRoot, startTime)
	p.logger.Info("pipeline.start", "run_id", runID, "file_count", len(files))

	g := graph.New()

	p.logger.Info("pipeline.step.structure", "run_id", runID)
	buildStructureNodes(g, files)

	p.logger.Info("pipeline.step.parse", "run_id", runID, "file_count", len(files))
	parseStart := time.Now()
	var onProgress pool.ProgressFunc
	if cfg.OnProgress != nil {
		total := len(files)
		onProgress = func(processed int) { cfg.OnProgress(processed, total) }
	}
	parseResult, parseErrors := pool.Run(ctx, p.logger, files, cfg.NumWorkers, onProgress)
	parseDuration := time.Since(parseStart)
	for _, n := range parseResult.Nodes {
		g.AddNode(n)
	}
	for _, e := range parseResult.DefinesEdges {
		g.AddEdge(e)
	}
	p.logger.Info("pipeline.parse.complete",
		"run_id", runID, "files", parseResult.FileCount, "errors", parseErrors,
		"duration_ms", parseDuration.Milliseconds(),
	)

	p.logger.Info("pipeline.step.resolve_imports", "run_id", runID, "import_count", len(parseResult.Imports))
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	meta := metadata.Load(cfg.RepoRoot)
	idx := suffixindex.Build(paths)
	importResolver := resolve.New(meta, idx, paths)
	importEdges, importMap := resolve.BuildEdges(parseResult.Imports, importResolver)
	for _, e := range importEdges {
		g.AddEdge(e)
	}
	p.logger.Info("pipeline.resolve_imports.complete",
		"run_id", runID, "found", len(parseResult.Imports), "resolved", len(importEdges),
	)

	if cfg.ResolveCalls {
		p.logger.Info("pipeline.step.resolve_calls", "run_id", runID,
			"call_count", len(parseResult.Calls), "heritage_count", len(parseResult.Heritage))
		cr := callresolve.New(parseResult.Symbols, importMap)
		for _, e := range cr.ResolveCalls(parseResult.Calls) {
			g.AddEdge(e)
		}
		for _, e := range cr.ResolveHeritage(parseResult.Heritage) {
			g.AddEdge(e)
		}
	}

	p.logger.Info("pipeline.step.load", "run_id", runID)
	loadStart := time.Now()
	report, err := p.loader.Load(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	loadDuration := time.Since(loadStart)

	nodeCount, edgeCount := g.Stats()
	result := &Result{
		RunID:           runID,
		FilesProcessed:  parseResult.FileCount,
		ParseErrors:     parseErrors,
		NodeCount:       nodeCount,
		EdgeCount:       edgeCount,
		ImportsFound:    len(parseResult.Imports),
		ImportsResolved: len(importEdges),
		InsertedRels:    report.InsertedRels,
		SkippedRels:     report.SkippedRels,
		ParseDuration:   parseDuration,
		LoadDuration:    loadDuration,
		TotalDuration:   time.Since(startTime),
	}

	p.logger.Info("pipeline.complete",
		"run_id", runID, "nodes", result.NodeCount, "edges", result.EdgeCount,
		"inserted_rels", result.InsertedRels, "skipped_rels", result.SkippedRels,
		"total_duration_ms", result.TotalDuration.Milliseconds(),
	)
	return result, nil
}

// buildStructureNodes emits one File node per input file and one Folder
// node per distinct ancestor directory, ahead of parsing.
func buildStructureNodes(g *graph.Graph, files []parse.FileRecord) {
	seenFolders := make(map[string]bool)

	for _, f := range files {
		p := graph.NormalizePath(f.Path)
		language := ""
		if l, ok := lang.Detect(f.Path); ok {
			language = string(l)
		}
		fileID := graph.GenerateID(graph.LabelFile, graph.FileKey(f.Path))
		g.AddNode(&graph.Node{ID: fileID, Label: graph.LabelFile, Properties: map[string]any{
			"path": p, "language": language,
		}})

		for dir := path.Dir(p); dir != "." && dir != "/" && dir != ""; dir = path.Dir(dir) {
			if seenFolders[dir] {
				break
			}
			seenFolders[dir] = true
			folderID := graph.GenerateID(graph.LabelFolder, dir)
			g.AddNode(&graph.Node{ID: folderID, Label: graph.LabelFolder, Properties: map[string]any{"path": dir}})
		}
	}
}
