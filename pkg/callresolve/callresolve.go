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

// Package callresolve is an optional, downstream-only stage that turns the
// Parse Worker's extracted calls and heritage relationships into CALLS,
// EXTENDS, IMPLEMENTS, and TRAIT_IMPL edges. It is not part of the core
// parse/resolve-imports/load pipeline invariants: a caller that skips it
// simply gets a graph with DEFINES and IMPORTS edges only.
package callresolve

import (
	"strings"

	"github.com/kraklabs/cie/pkg/graph"
	"github.com/kraklabs/cie/pkg/parse"
)

// Resolver indexes every file's symbols so calls and heritage references can
// be looked up by name, first within the declaring file, then across each
// file it resolved an import to.
type Resolver struct {
	symbolsByFile map[string]map[string]parse.Symbol
	importMap     map[string][]string
}

// New builds a Resolver from a batch's extracted symbols and the Import
// Resolver's per-file resolved-import map (see pkg/resolve.BuildEdges).
func New(symbols []parse.Symbol, importMap map[string][]string) *Resolver {
	r := &Resolver{
		symbolsByFile: make(map[string]map[string]parse.Symbol),
		importMap:     importMap,
	}
	for _, s := range symbols {
		if _, ok := r.symbolsByFile[s.FilePath]; !ok {
			r.symbolsByFile[s.FilePath] = make(map[string]parse.Symbol)
		}
		r.symbolsByFile[s.FilePath][s.Name] = s
	}
	return r
}

// ResolveCalls turns unresolved calls into deduplicated CALLS edges.
func (r *Resolver) ResolveCalls(calls []parse.ExtractedCall) []*graph.Edge {
	var edges []*graph.Edge
	seen := make(map[string]bool)

	for _, call := range calls {
		calleeID := r.resolveName(call.FilePath, call.CalledName)
		if calleeID == "" || calleeID == call.SourceID {
			continue
		}
		id := graph.GenerateEdgeID(graph.EdgeCalls, call.SourceID, calleeID)
		if seen[id] {
			continue
		}
		seen[id] = true
		edges = append(edges, &graph.Edge{
			ID: id, SourceID: call.SourceID, TargetID: calleeID, Type: graph.EdgeCalls, Confidence: 1.0,
		})
	}
	return edges
}

var heritageEdgeType = map[parse.HeritageKind]graph.EdgeType{
	parse.HeritageExtends:    graph.EdgeExtends,
	parse.HeritageImplements: graph.EdgeImplements,
	parse.HeritageTrait:      graph.EdgeTraitImpl,
}

// ResolveHeritage turns extends/implements/trait-impl references into
// deduplicated edges, sourced from the declaring class/struct/impl's own
// node ID.
func (r *Resolver) ResolveHeritage(heritage []parse.ExtractedHeritage) []*graph.Edge {
	var edges []*graph.Edge
	seen := make(map[string]bool)

	for _, h := range heritage {
		source, ok := r.symbolsByFile[h.FilePath][h.ClassName]
		if !ok {
			continue
		}
		targetID := r.resolveName(h.FilePath, h.ParentName)
		if targetID == "" || targetID == source.NodeID {
			continue
		}
		edgeType, ok := heritageEdgeType[h.Kind]
		if !ok {
			continue
		}
		id := graph.GenerateEdgeID(edgeType, source.NodeID, targetID)
		if seen[id] {
			continue
		}
		seen[id] = true
		edges = append(edges, &graph.Edge{
			ID: id, SourceID: source.NodeID, TargetID: targetID, Type: edgeType, Confidence: 1.0,
		})
	}
	return edges
}

// resolveName looks up a (possibly dotted/qualified) reference: its last
// segment is matched first against symbols declared in file itself, then
// against the exported symbols of every file file's imports resolved to.
func (r *Resolver) resolveName(file, name string) string {
	last := name
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		last = name[idx+1:]
	}
	if last == "" {
		return ""
	}

	if sym, ok := r.symbolsByFile[file][last]; ok {
		return sym.NodeID
	}

	for _, target := range r.importMap[file] {
		if sym, ok := r.symbolsByFile[target][last]; ok && sym.IsExported {
			return sym.NodeID
		}
	}
	return ""
}
