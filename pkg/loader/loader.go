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

// Package loader is the Graph Loader: it takes a built graph.Graph and bulk
// loads it into a storage.Backend in four phases — schema init, node load,
// edge insertion, temp-file cleanup. See SPEC_FULL.md §4.8.
//
// The backend is CozoDB, which has no literal COPY/MATCH...CREATE statement.
// Node and edge rows are still written to RFC 4180 CSV files on disk (so a
// failed load leaves an inspectable artifact and Phase 4 has something
// concrete to clean up), but the bulk insert itself is issued as a batched
// Datalog `:put` script. Node rows are built straight from the graph's typed
// values; edge rows are read back from the relationships CSV with
// encoding/csv.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kraklabs/cie/pkg/graph"
	"github.com/kraklabs/cie/pkg/metrics"
	"github.com/kraklabs/cie/pkg/storage"
)

// nodeBatchSize and edgeBatchSize bound how many rows go into a single :put
// script; very large graphs are loaded in chunks rather than one statement.
const (
	nodeBatchSize = 1000
	edgeBatchSize = 1000
)

// Report summarizes one Load call for the pipeline's terminal summary.
type Report struct {
	NodesInserted int
	InsertedRels  int
	SkippedRels   int
}

// Loader drives schema creation and bulk loading against a storage.Backend.
type Loader struct {
	backend storage.Backend
	logger  *slog.Logger
}

// New returns a Loader over the given backend. logger may be nil, in which
// case slog.Default() is used.
func New(backend storage.Backend, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{backend: backend, logger: logger}
}

// Load runs all four phases of SPEC_FULL.md §4.8 against g. It writes its
// CSV files into a fresh temporary directory and removes that directory
// and its contents when it returns (Phase 4).
func (l *Loader) Load(ctx context.Context, g *graph.Graph) (*Report, error) {
	tmpDir, err := os.MkdirTemp("", "cie-graph-load-*")
	if err != nil {
		return nil, fmt.Errorf("create load temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir) // Phase 4 — cleanup

	if err := l.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	nodesInserted, err := l.loadNodes(ctx, g, tmpDir)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}

	insertedRels, skippedRels, err := l.loadEdges(ctx, g, tmpDir)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}

	return &Report{NodesInserted: nodesInserted, InsertedRels: insertedRels, SkippedRels: skippedRels}, nil
}

// EnsureSchema creates every node table plus the CodeRelation relationship
// table. "Already exists" failures are swallowed; anything else is logged
// but does not abort the load (Phase 1 is soft-failure per §4.8).
func (l *Loader) EnsureSchema(ctx context.Context) error {
	for _, label := range graph.NodeLabels {
		stmt := createTableStatement(label)
		if err := l.backend.Execute(ctx, stmt); err != nil && !alreadyExists(err) {
			l.logger.Warn("loader.schema.create_failed", "table", string(label), "err", err)
		}
	}

	relStmt := ":create CodeRelation { id: String => from_id: String, to_id: String, type: String, confidence: Float, reason: String, step: Int }"
	if err := l.backend.Execute(ctx, relStmt); err != nil && !alreadyExists(err) {
		l.logger.Warn("loader.schema.create_failed", "table", "CodeRelation", "err", err)
	}
	return nil
}

func alreadyExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exist")
}

// --- Phase 2: node bulk load ---

func (l *Loader) loadNodes(ctx context.Context, g *graph.Graph, tmpDir string) (int, error) {
	total := 0
	for _, label := range graph.NodeLabels {
		nodes := g.NodesByLabel(label)
		if len(nodes) == 0 {
			continue
		}

		columns := columnsForLabel(label)
		csvPath := filepath.Join(tmpDir, string(label)+".csv")
		if err := writeNodeCSV(csvPath, columns, nodes); err != nil {
			return total, fmt.Errorf("write %s csv: %w", label, err)
		}

		start := time.Now()
		table := tableName(label)
		for i := 0; i < len(nodes); i += nodeBatchSize {
			end := i + nodeBatchSize
			if end > len(nodes) {
				end = len(nodes)
			}
			rows := make([][]any, 0, end-i)
			for _, n := range nodes[i:end] {
				rows = append(rows, rowValues(columns, n.ID, n.Properties))
			}

			n, err := l.putChunk(ctx, table, columns, rows)
			total += n
			if err != nil {
				return total, fmt.Errorf("bulk load %s: %w", label, err)
			}
		}
		metrics.ObserveLoaderCopyDuration(string(label), time.Since(start).Seconds())
	}
	return total, nil
}

// putChunk issues one batched :put script for rows. On failure it retries
// once by degrading to a per-row :put, skipping any row that still fails —
// the Datalog analog of `IGNORE_ERRORS=true`. It only returns an error
// (aborting the caller's load) when even the degraded retry inserts
// nothing, matching §4.8's "node COPY failures are hard" semantics.
func (l *Loader) putChunk(ctx context.Context, table string, columns []string, rows [][]any) (int, error) {
	if err := l.backend.Execute(ctx, buildPutScript(table, columns, rows)); err == nil {
		return len(rows), nil
	}

	inserted := 0
	var lastErr error
	for _, row := range rows {
		if err := l.backend.Execute(ctx, buildPutScript(table, columns, [][]any{row})); err != nil {
			lastErr = err
			continue
		}
		inserted++
	}
	if inserted == 0 && lastErr != nil {
		return 0, lastErr
	}
	return inserted, nil
}

// --- Phase 3: edge insertion ---

func (l *Loader) loadEdges(ctx context.Context, g *graph.Graph, tmpDir string) (inserted, skipped int, err error) {
	edges := g.Edges()
	if len(edges) == 0 {
		return 0, 0, nil
	}

	csvPath := filepath.Join(tmpDir, "relationships.csv")
	if err := writeEdgeCSV(csvPath, edges); err != nil {
		return 0, 0, fmt.Errorf("write relationships csv: %w", err)
	}

	validLabels := make(map[string]bool, len(graph.NodeLabels))
	for _, lbl := range graph.NodeLabels {
		validLabels[string(lbl)] = true
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return 0, 0, fmt.Errorf("read relationships header: %w", err)
	}

	columns := []string{"id", "from_id", "to_id", "type", "confidence", "reason", "step"}
	var batch [][]any

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, putErr := l.putChunk(ctx, "CodeRelation", columns, batch)
		inserted += n
		skipped += len(batch) - n
		for i := n; i < len(batch); i++ {
			metrics.RecordRelationSkipped()
		}
		batch = batch[:0]
		return putErr
	}

	for {
		record, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return inserted, skipped, fmt.Errorf("read relationships row: %w", readErr)
		}

		fromID, toID := record[1], record[2]
		if !validLabels[labelPrefix(fromID)] || !validLabels[labelPrefix(toID)] {
			skipped++
			metrics.RecordRelationSkipped()
			continue
		}

		confidence, _ := strconv.ParseFloat(record[4], 64)
		step, _ := strconv.Atoi(record[6])
		batch = append(batch, []any{record[0], fromID, toID, record[3], confidence, record[5], step})

		if len(batch) >= edgeBatchSize {
			if err := flush(); err != nil {
				l.logger.Warn("loader.edges.batch_failed", "err", err)
			}
		}
	}
	if err := flush(); err != nil {
		l.logger.Warn("loader.edges.batch_failed", "err", err)
	}

	return inserted, skipped, nil
}

// labelPrefix derives a node's table label from its ID, i.e. the text
// before the first colon (SPEC_FULL.md §4.8 Phase 3, generalized: this
// repo's IDs never use the source system's comm_*/proc_* prefixes).
func labelPrefix(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[:i]
	}
	return id
}

// --- schema / column shaping ---

// columnsForLabel returns the ordered column list (always starting with
// "id") used for a label's CSV header, :create statement, and :put script.
func columnsForLabel(label graph.NodeLabel) []string {
	switch label {
	case graph.LabelFile:
		return []string{"id", "path", "language"}
	case graph.LabelFolder:
		return []string{"id", "path"}
	default:
		return []string{"id", "name", "file_path", "start_line", "end_line", "language", "is_exported", "description"}
	}
}

func columnType(column string) string {
	switch column {
	case "start_line", "end_line":
		return "Int"
	case "is_exported":
		return "Bool"
	default:
		return "String"
	}
}

func tableName(label graph.NodeLabel) string {
	if graph.BacktickLabels[label] {
		return "`" + string(label) + "`"
	}
	return string(label)
}

func createTableStatement(label graph.NodeLabel) string {
	columns := columnsForLabel(label)
	var valCols []string
	for _, c := range columns[1:] {
		valCols = append(valCols, fmt.Sprintf("%s: %s", c, columnType(c)))
	}
	return fmt.Sprintf(":create %s { id: String => %s }", tableName(label), strings.Join(valCols, ", "))
}

// rowValues reads a node's properties in columns order, mapping the
// parser's camelCase property keys onto the loader's snake_case columns
// and defaulting anything absent to that column's zero value.
func rowValues(columns []string, id string, props map[string]any) []any {
	key := map[string]string{
		"path": "path", "language": "language", "name": "name",
		"file_path": "filePath", "start_line": "startLine", "end_line": "endLine",
		"is_exported": "isExported", "description": "description",
	}

	row := make([]any, len(columns))
	for i, c := range columns {
		if c == "id" {
			row[i] = id
			continue
		}
		v, ok := props[key[c]]
		if !ok {
			row[i] = zeroValue(c)
			continue
		}
		row[i] = v
	}
	return row
}

func zeroValue(column string) any {
	switch columnType(column) {
	case "Int":
		return 0
	case "Bool":
		return false
	default:
		return ""
	}
}

// --- CSV artifacts ---

func writeNodeCSV(path string, columns []string, nodes []*graph.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, n := range nodes {
		record := make([]string, len(columns))
		for i, v := range rowValues(columns, n.ID, n.Properties) {
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeEdgeCSV(path string, edges []*graph.Edge) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "from_id", "to_id", "type", "confidence", "reason", "step"}); err != nil {
		return err
	}
	for _, e := range edges {
		step := ""
		if e.Step != nil {
			step = strconv.Itoa(*e.Step)
		}
		record := []string{
			e.ID, e.SourceID, e.TargetID, string(e.Type),
			strconv.FormatFloat(e.Confidence, 'f', -1, 64), e.Reason, step,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// --- Datalog script construction ---

func buildPutScript(table string, columns []string, rows [][]any) string {
	var rowLiterals []string
	for _, row := range rows {
		var vals []string
		for _, v := range row {
			vals = append(vals, formatDatalogValue(v))
		}
		rowLiterals = append(rowLiterals, "["+strings.Join(vals, ", ")+"]")
	}

	putSpec := columns[0] + " => " + strings.Join(columns[1:], ", ")
	return fmt.Sprintf("?[%s] <- [%s]\n:put %s {%s}",
		strings.Join(columns, ", "), strings.Join(rowLiterals, ", "), table, putSpec)
}

func formatDatalogValue(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return "null"
	default:
		return strconv.Quote(fmt.Sprint(val))
	}
}

// ValidNodeTables returns the sorted list of every node table name the
// loader is willing to reference in a relationship; only the tests call it.
func ValidNodeTables() []string {
	out := make([]string, 0, len(graph.NodeLabels))
	for _, l := range graph.NodeLabels {
		out = append(out, string(l))
	}
	sort.Strings(out)
	return out
}
