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

// Package graph is the in-memory knowledge-graph model: nodes (label +
// properties), typed edges, and deterministic ID generation. It is a passive
// container — producers (the parser, the resolver) are responsible for
// upholding the model's invariants; the graph itself only dedups by ID.
package graph

import (
	"sort"
	"sync"
)

// NodeLabel is one of the closed set of node kinds the core ever emits.
type NodeLabel string

const (
	LabelFile        NodeLabel = "File"
	LabelFolder      NodeLabel = "Folder"
	LabelFunction    NodeLabel = "Function"
	LabelClass       NodeLabel = "Class"
	LabelInterface   NodeLabel = "Interface"
	LabelMethod      NodeLabel = "Method"
	LabelStruct      NodeLabel = "Struct"
	LabelEnum        NodeLabel = "Enum"
	LabelNamespace   NodeLabel = "Namespace"
	LabelModule      NodeLabel = "Module"
	LabelTrait       NodeLabel = "Trait"
	LabelImpl        NodeLabel = "Impl"
	LabelTypeAlias   NodeLabel = "TypeAlias"
	LabelConst       NodeLabel = "Const"
	LabelStatic      NodeLabel = "Static"
	LabelTypedef     NodeLabel = "Typedef"
	LabelMacro       NodeLabel = "Macro"
	LabelUnion       NodeLabel = "Union"
	LabelProperty    NodeLabel = "Property"
	LabelRecord      NodeLabel = "Record"
	LabelDelegate    NodeLabel = "Delegate"
	LabelAnnotation  NodeLabel = "Annotation"
	LabelConstructor NodeLabel = "Constructor"
	LabelTemplate    NodeLabel = "Template"
	LabelCodeElement NodeLabel = "CodeElement"
)

// NodeLabels is the full closed set, in the order the Graph Loader creates
// tables. File, Folder, Function, Class, Interface, Method and CodeElement
// are the "core" tables; the rest are the backtick-quoted multi-language
// tables per SPEC_FULL.md §4.8.
var NodeLabels = []NodeLabel{
	LabelFile, LabelFolder, LabelFunction, LabelClass, LabelInterface, LabelMethod, LabelCodeElement,
	LabelStruct, LabelEnum, LabelMacro, LabelTypedef, LabelUnion, LabelNamespace, LabelTrait, LabelImpl,
	LabelTypeAlias, LabelConst, LabelStatic, LabelProperty, LabelRecord, LabelDelegate, LabelAnnotation,
	LabelConstructor, LabelTemplate, LabelModule,
}

// BacktickLabels are the multi-language tables created with backtick
// quoting and that must be backtick-quoted in every subsequent query.
var BacktickLabels = map[NodeLabel]bool{
	LabelStruct: true, LabelEnum: true, LabelMacro: true, LabelTypedef: true, LabelUnion: true,
	LabelNamespace: true, LabelTrait: true, LabelImpl: true, LabelTypeAlias: true, LabelConst: true,
	LabelStatic: true, LabelProperty: true, LabelRecord: true, LabelDelegate: true, LabelAnnotation: true,
	LabelConstructor: true, LabelTemplate: true, LabelModule: true,
}

// EdgeType is one of the closed set of edge kinds the core ever emits.
type EdgeType string

const (
	EdgeDefines    EdgeType = "DEFINES"
	EdgeImports    EdgeType = "IMPORTS"
	EdgeExtends    EdgeType = "EXTENDS"
	EdgeImplements EdgeType = "IMPLEMENTS"
	EdgeTraitImpl  EdgeType = "TRAIT_IMPL"
	EdgeCalls      EdgeType = "CALLS"
)

// Node is a single knowledge-graph node: a label plus a loosely typed
// property bag. Properties always include at least name, filePath,
// startLine, endLine, language, isExported for non-File/Folder labels.
type Node struct {
	ID         string
	Label      NodeLabel
	Properties map[string]any
}

// Edge is a typed, directed relationship between two node IDs.
type Edge struct {
	ID         string
	SourceID   string
	TargetID   string
	Type       EdgeType
	Confidence float64
	Reason     string
	Step       *int
}

// Graph is a mutable, deduplicated collection of nodes and edges. It is safe
// for concurrent use. In the pipeline, the Orchestrator is the only writer:
// it adds the Worker Pool's merged parse results, and later the resolved
// edges, from a single goroutine.
type Graph struct {
	mu    sync.Mutex
	nodes map[string]*Node
	edges map[string]*Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
	}
}

// AddNode inserts a node, overwriting any existing node with the same ID.
func (g *Graph) AddNode(n *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[n.ID] = n
}

// AddEdge inserts an edge, deduplicated by (sourceID, type, targetID) via its
// caller-supplied deterministic ID.
func (g *Graph) AddEdge(e *Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[e.ID] = e
}

// Node looks up a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes, sorted by ID for deterministic iteration (used by
// the Graph Loader when emitting CSVs and by tests).
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodesByLabel returns all nodes with the given label, sorted by ID.
func (g *Graph) NodesByLabel(label NodeLabel) []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*Node
	for _, n := range g.nodes {
		if n.Label == label {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges, sorted by ID.
func (g *Graph) Edges() []*Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats summarizes node/edge counts, used for the pipeline's terminal summary.
func (g *Graph) Stats() (nodeCount, edgeCount int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes), len(g.edges)
}
