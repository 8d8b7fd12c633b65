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

package parse

import (
	"context"
	"fmt"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie/pkg/graph"
	"github.com/kraklabs/cie/pkg/lang"
	"github.com/kraklabs/cie/pkg/metrics"
)

// Worker is a worker-local, stateful tree-sitter driver: one *sitter.Parser
// per language (reused across files to amortize setup) and one compiled
// *sitter.Query per language, built lazily and cached for the worker's
// lifetime. A Worker must never be shared across goroutines — each pool
// worker owns exactly one (SPEC_FULL.md §5).
type Worker struct {
	parsers map[lang.Language]*sitter.Parser
	queries map[lang.Language]*sitter.Query
}

// NewWorker returns an empty, ready-to-use Worker.
func NewWorker() *Worker {
	return &Worker{
		parsers: make(map[lang.Language]*sitter.Parser),
		queries: make(map[lang.Language]*sitter.Query),
	}
}

func (w *Worker) parserFor(l lang.Language) (*sitter.Parser, error) {
	if p, ok := w.parsers[l]; ok {
		return p, nil
	}
	grammar, ok := lang.Grammar(l)
	if !ok {
		return nil, fmt.Errorf("no grammar registered for %q", l)
	}
	p := sitter.NewParser()
	p.SetLanguage(grammar)
	w.parsers[l] = p
	return p, nil
}

func (w *Worker) queryFor(l lang.Language) (*sitter.Query, error) {
	if q, ok := w.queries[l]; ok {
		return q, nil
	}
	grammar, ok := lang.Grammar(l)
	if !ok {
		return nil, fmt.Errorf("no grammar registered for %q", l)
	}
	src, ok := lang.Query(l)
	if !ok {
		return nil, fmt.Errorf("no capture query registered for %q", l)
	}
	q, err := sitter.NewQuery([]byte(src), grammar)
	if err != nil {
		return nil, fmt.Errorf("compile capture query for %q: %w", l, err)
	}
	w.queries[l] = q
	return q, nil
}

// ParseFile runs the full per-file algorithm of SPEC_FULL.md §4.2. It
// returns (nil, nil) for unsupported or oversized files — the "silently
// ignore" policy of §7 — and also for every failure (grammar or query
// setup, parsing, or a panic while matching), so a single bad file never
// aborts a batch. It never returns a non-nil error.
func (w *Worker) ParseFile(ctx context.Context, rec FileRecord) (result *FileResult, err error) {
	l, ok := lang.Detect(rec.Path)
	if !ok {
		metrics.RecordFileSkipped()
		return nil, nil
	}
	if len(rec.Content) > MaxFileSize {
		metrics.RecordFileOversize()
		return nil, nil
	}

	start := time.Now()
	defer func() {
		metrics.ObserveParseDuration(time.Since(start).Seconds())
	}()

	defer func() {
		if r := recover(); r != nil {
			result, err = nil, nil
		}
	}()

	parser, perr := w.parserFor(l)
	if perr != nil {
		return nil, nil
	}
	query, qerr := w.queryFor(l)
	if qerr != nil {
		return nil, nil
	}

	tree, perr := parser.ParseCtx(ctx, nil, rec.Content)
	if perr != nil || tree == nil {
		return nil, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() && root.ChildCount() == 0 {
		return nil, nil
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	var matches []map[string]*sitter.Node
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, rec.Content)
		cs := make(map[string]*sitter.Node, len(m.Captures))
		for _, c := range m.Captures {
			cs[query.CaptureNameForId(c.Index)] = c.Node
		}
		matches = append(matches, cs)
	}

	fr := &FileResult{}
	funcNameToID := make(map[string]string)

	// Pass 1: definitions, so that calls in pass 2 can resolve their
	// enclosing function's node ID regardless of match order.
	for _, cs := range matches {
		w.emitDefinition(l, rec, cs, fr, funcNameToID)
	}

	// Pass 2: imports, calls, heritage.
	for _, cs := range matches {
		w.emitImport(l, rec, cs, fr)
		w.emitCall(l, rec, cs, fr, funcNameToID)
		w.emitHeritage(rec, cs, fr)
	}

	metrics.RecordFileParsed(string(l))
	return fr, nil
}

func (w *Worker) emitDefinition(l lang.Language, rec FileRecord, cs map[string]*sitter.Node, fr *FileResult, funcNameToID map[string]string) {
	// Heritage-only matches also carry a definition.class-shaped capture in
	// some grammars; skip anything that is primarily an import/call/heritage
	// match so it is not double-emitted as a node.
	if _, ok := cs["import"]; ok {
		return
	}
	if _, ok := cs["call"]; ok {
		return
	}
	if _, ok := cs["heritage.class"]; ok {
		return
	}

	var label graph.NodeLabel
	var entityNode *sitter.Node
	for capture, l2 := range definitionCaptureLabels {
		if n, ok := cs[capture]; ok {
			label, entityNode = l2, n
			break
		}
	}

	nameNode, hasName := cs["name"]
	if entityNode == nil {
		if !hasName {
			return
		}
		label, entityNode = graph.LabelCodeElement, nameNode
	}

	name := ""
	if hasName {
		name = nameNode.Content(rec.Content)
	}
	if name == "" {
		return
	}

	start, end := entityNode.StartPoint(), entityNode.EndPoint()
	key := graph.EntityKey(rec.Path, name, int(start.Row)+1, int(start.Column), int(end.Row)+1, int(end.Column))
	id := graph.GenerateID(label, key)

	exportNode := entityNode
	if hasName {
		exportNode = nameNode
	}
	exported := isExported(l, exportNode, name, rec.Content)

	props := map[string]any{
		"name":       name,
		"filePath":   graph.NormalizePath(rec.Path),
		"startLine":  int(start.Row) + 1,
		"endLine":    int(end.Row) + 1,
		"language":   string(l),
		"isExported": exported,
	}

	if l == lang.PHP {
		applyPHPExtras(label, name, entityNode, rec.Content, props)
	}

	fr.Nodes = append(fr.Nodes, &graph.Node{ID: id, Label: label, Properties: props})

	fileID := graph.GenerateID(graph.LabelFile, graph.FileKey(rec.Path))
	fr.DefinesEdges = append(fr.DefinesEdges, &graph.Edge{
		ID:         graph.GenerateEdgeID(graph.EdgeDefines, fileID, id),
		SourceID:   fileID,
		TargetID:   id,
		Type:       graph.EdgeDefines,
		Confidence: 1.0,
	})
	fr.Symbols = append(fr.Symbols, Symbol{NodeID: id, FilePath: rec.Path, Name: name, Label: label, IsExported: exported})

	if callableLabels[label] {
		funcNameToID[name] = id
	}
}

func applyPHPExtras(label graph.NodeLabel, name string, entityNode *sitter.Node, source []byte, props map[string]any) {
	switch label {
	case graph.LabelProperty:
		var arrayLit *sitter.Node
		for i := 0; i < int(entityNode.NamedChildCount()); i++ {
			child := entityNode.NamedChild(i)
			if child.Type() == "array_creation_expression" {
				arrayLit = child
			}
		}
		if desc := phpPropertyDescription(name, arrayLit, source); desc != "" {
			props["description"] = desc
		}
	case graph.LabelMethod:
		var body *sitter.Node
		for i := 0; i < int(entityNode.ChildCount()); i++ {
			child := entityNode.Child(i)
			if child.Type() == "compound_statement" {
				body = child
			}
		}
		if desc := phpMethodDescription(body, source); desc != "" {
			props["description"] = desc
		}
	}
}

func (w *Worker) emitImport(l lang.Language, rec FileRecord, cs map[string]*sitter.Node, fr *FileResult) {
	if _, ok := cs["import"]; !ok {
		return
	}
	srcNode, ok := cs["import.source"]
	if !ok {
		return
	}
	raw := strings.Trim(srcNode.Content(rec.Content), `'"<>`)
	if raw == "" {
		return
	}
	fr.Imports = append(fr.Imports, ExtractedImport{FilePath: rec.Path, RawImportPath: raw, Language: string(l)})
	metrics.RecordImportFound()
}

func (w *Worker) emitCall(l lang.Language, rec FileRecord, cs map[string]*sitter.Node, fr *FileResult, funcNameToID map[string]string) {
	callNode, ok := cs["call"]
	if !ok {
		return
	}
	nameNode, ok := cs["call.name"]
	if !ok {
		return
	}
	calleeName := nameNode.Content(rec.Content)
	if IsBuiltinCall(calleeName) {
		return
	}

	fileID := graph.GenerateID(graph.LabelFile, graph.FileKey(rec.Path))
	sourceID := fileID

	if fnNode, fnName, found := enclosingFunction(callNode, rec.Content); found {
		if id, ok := funcNameToID[fnName]; ok {
			sourceID = id
		} else {
			start, end := fnNode.StartPoint(), fnNode.EndPoint()
			key := graph.EntityKey(rec.Path, fnName, int(start.Row)+1, int(start.Column), int(end.Row)+1, int(end.Column))
			sourceID = graph.GenerateID(graph.LabelFunction, key)
		}
	}

	fr.Calls = append(fr.Calls, ExtractedCall{FilePath: rec.Path, CalledName: calleeName, SourceID: sourceID})
}

func (w *Worker) emitHeritage(rec FileRecord, cs map[string]*sitter.Node, fr *FileResult) {
	if _, ok := cs["heritage.class"]; !ok {
		return
	}
	className := ""
	if nn, ok := cs["name"]; ok {
		className = nn.Content(rec.Content)
	}
	if className == "" {
		return
	}

	kinds := map[string]HeritageKind{
		"heritage.extends":    HeritageExtends,
		"heritage.implements": HeritageImplements,
		"heritage.trait":      HeritageTrait,
	}
	for capture, kind := range kinds {
		pn, ok := cs[capture]
		if !ok {
			continue
		}
		fr.Heritage = append(fr.Heritage, ExtractedHeritage{
			FilePath:   rec.Path,
			ClassName:  className,
			ParentName: pn.Content(rec.Content),
			Kind:       kind,
		})
	}
}
