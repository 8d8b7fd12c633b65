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

// Package parse is the Parse Worker: given a file record, it drives
// tree-sitter with the language's grammar and capture query, and emits
// nodes, DEFINES edges, extracted imports, extracted calls, and extracted
// heritage relationships. See SPEC_FULL.md §4.2.
package parse

import "github.com/kraklabs/cie/pkg/graph"

// FileRecord is the {path, content} pair the core consumes at its
// boundary (SPEC_FULL.md §3).
type FileRecord struct {
	Path    string
	Content []byte
}

// ExtractedImport is a raw, unresolved import extracted from one file's AST.
// RawImportPath is the source text of the import.source capture, stripped
// of surrounding quote/angle-bracket characters.
type ExtractedImport struct {
	FilePath      string
	RawImportPath string
	Language      string
}

// ExtractedCall is a call site whose callee identifier was not in the
// built-in deny-list. SourceID is the enclosing function's node ID, or the
// file's node ID when no enclosing function was found.
type ExtractedCall struct {
	FilePath   string
	CalledName string
	SourceID   string
}

// HeritageKind is one of the three heritage relationship kinds extracted by
// name during parsing (not yet resolved to target nodes).
type HeritageKind string

const (
	HeritageExtends    HeritageKind = "extends"
	HeritageImplements HeritageKind = "implements"
	HeritageTrait      HeritageKind = "trait"
)

// ExtractedHeritage is an extends/implements/trait-impl relationship
// extracted by name; resolution to a target node ID happens downstream.
type ExtractedHeritage struct {
	FilePath   string
	ClassName  string
	ParentName string
	Kind       HeritageKind
}

// Symbol is a lightweight row describing one emitted code-entity node,
// kept alongside the full graph.Node for the resolver's package/class
// indexing (e.g. the Go internal-package import resolution needs a quick
// "what symbols does this file export" view without re-walking the graph).
type Symbol struct {
	NodeID     string
	FilePath   string
	Name       string
	Label      graph.NodeLabel
	IsExported bool
}

// FileResult is the Parse Worker's per-file output, merged across files by
// the Worker Pool into the batch-level Result.
type FileResult struct {
	Nodes        []*graph.Node
	DefinesEdges []*graph.Edge
	Symbols      []Symbol
	Imports      []ExtractedImport
	Calls        []ExtractedCall
	Heritage     []ExtractedHeritage
}

// Result is the merged output of a Worker Pool batch (SPEC_FULL.md §4.2
// "Contract").
type Result struct {
	Nodes        []*graph.Node
	DefinesEdges []*graph.Edge
	Symbols      []Symbol
	Imports      []ExtractedImport
	Calls        []ExtractedCall
	Heritage     []ExtractedHeritage
	FileCount    int
}

// Merge folds a FileResult into a batch Result.
func (r *Result) Merge(fr *FileResult) {
	r.Nodes = append(r.Nodes, fr.Nodes...)
	r.DefinesEdges = append(r.DefinesEdges, fr.DefinesEdges...)
	r.Symbols = append(r.Symbols, fr.Symbols...)
	r.Imports = append(r.Imports, fr.Imports...)
	r.Calls = append(r.Calls, fr.Calls...)
	r.Heritage = append(r.Heritage, fr.Heritage...)
	r.FileCount++
}

// MaxFileSize is the 512 KiB oversized-file bound (SPEC_FULL.md §3).
const MaxFileSize = 512 * 1024
