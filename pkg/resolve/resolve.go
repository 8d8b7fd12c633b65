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

// Package resolve is the Import Resolver: given an extracted, raw import
// specifier, it produces zero, one, or many target file paths using
// language-specific strategies backed by the Project Metadata Loader and the
// Suffix Index. See SPEC_FULL.md §4.6. Resolution is single-threaded (the
// resolve-cache is coordinator-local); callers must not share a Resolver
// across goroutines.
package resolve

import (
	"path"
	"regexp"
	"strings"

	"github.com/kraklabs/cie/pkg/graph"
	"github.com/kraklabs/cie/pkg/metadata"
	"github.com/kraklabs/cie/pkg/metrics"
	"github.com/kraklabs/cie/pkg/parse"
	"github.com/kraklabs/cie/pkg/suffixindex"
)

// cacheCapacity bounds the resolve-cache; at capacity the oldest 20% of
// entries are evicted to make room (SPEC_FULL.md §4.6, §5).
const cacheCapacity = 100_000

// genericExtensions is the shared extension-try list used by the
// TypeScript/JavaScript alias path and the generic fallback.
var genericExtensions = []string{
	"", ".tsx", ".ts", ".jsx", ".js",
	"/index.tsx", "/index.ts", "/index.jsx", "/index.js",
	".py", "/__init__.py",
	".java",
	".c", ".h", ".cpp", ".hpp", ".cc", ".cxx", ".hxx", ".hh",
	".cs", ".go", ".rs", "/mod.rs",
	".php", ".phtml",
	".swift",
}

var allCapsConstant = regexp.MustCompile(`^[A-Z_]+$`)

// Resolver resolves raw import specifiers to repo-relative file paths.
type Resolver struct {
	meta     *metadata.Metadata
	idx      *suffixindex.Index
	allPaths []string

	cache      map[string][]string
	cacheOrder []string
}

// New builds a Resolver over the given metadata, suffix index, and the full
// set of repo-relative file paths (needed for Swift's prefix-style lookup,
// which the Suffix Index's three query shapes don't cover).
func New(meta *metadata.Metadata, idx *suffixindex.Index, allPaths []string) *Resolver {
	return &Resolver{
		meta:     meta,
		idx:      idx,
		allPaths: allPaths,
		cache:    make(map[string][]string),
	}
}

// Resolve returns the set of repo-relative target paths a raw import
// specifier resolves to, dispatching on imp.Language.
func (r *Resolver) Resolve(imp parse.ExtractedImport) []string {
	key := imp.FilePath + "\x00" + imp.RawImportPath
	if cached, ok := r.cache[key]; ok {
		metrics.RecordResolveCacheHit()
		return cached
	}
	metrics.RecordResolveCacheMiss()

	var targets []string
	switch imp.Language {
	case "java":
		targets = r.resolveJava(imp.RawImportPath, imp.FilePath)
	case "go":
		targets = r.resolveGo(imp.RawImportPath)
	case "php":
		targets = r.resolvePHP(imp.RawImportPath)
	case "swift":
		targets = r.resolveSwift(imp.RawImportPath)
	case "typescript", "typescript-tsx", "javascript":
		targets = r.resolveTSJS(imp.RawImportPath, imp.FilePath)
	case "rust":
		targets = r.resolveRust(imp.RawImportPath, imp.FilePath)
	default:
		targets = r.resolveGeneric(imp.RawImportPath, imp.FilePath)
	}

	r.put(key, targets)
	return targets
}

func (r *Resolver) put(key string, targets []string) {
	if _, exists := r.cache[key]; exists {
		r.cache[key] = targets
		return
	}
	if len(r.cache) >= cacheCapacity {
		evict := (len(r.cacheOrder) * 20) / 100
		if evict < 1 {
			evict = 1
		}
		for i := 0; i < evict && i < len(r.cacheOrder); i++ {
			delete(r.cache, r.cacheOrder[i])
		}
		r.cacheOrder = r.cacheOrder[evict:]
	}
	r.cache[key] = targets
	r.cacheOrder = append(r.cacheOrder, key)
}

// --- Java ---

func (r *Resolver) resolveJava(importPath, sourceFile string) []string {
	if strings.HasSuffix(importPath, ".*") {
		dir := strings.ReplaceAll(strings.TrimSuffix(importPath, ".*"), ".", "/")
		return r.idx.GetFilesInDir(dir, ".java")
	}

	segments := strings.Split(importPath, ".")
	last := segments[len(segments)-1]
	isStatic := last == "*" || (last != "" && isLower(last[0])) || allCapsConstant.MatchString(last)

	if isStatic && len(segments) > 1 {
		classPath := strings.Join(segments[:len(segments)-1], ".")
		suffix := strings.ReplaceAll(classPath, ".", "/") + ".java"
		if p, ok := r.idx.Get(suffix); ok {
			return []string{p}
		}
		return nil
	}

	// Non-wildcard, non-static: fall through to generic resolution rather
	// than a single non-shortening suffix lookup, so a shorter suffix of
	// importPath still matches when the full qualified suffix doesn't.
	return r.resolveGeneric(importPath, sourceFile)
}

func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

// --- Go ---

func (r *Resolver) resolveGo(importPath string) []string {
	if r.meta.GoModulePath == "" || !strings.HasPrefix(importPath, r.meta.GoModulePath) {
		return nil
	}
	relDir := strings.TrimPrefix(importPath, r.meta.GoModulePath)
	relDir = strings.TrimPrefix(relDir, "/")

	var out []string
	for _, f := range r.idx.GetFilesInDir(relDir, ".go") {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		out = append(out, f)
	}
	return out
}

// --- PHP ---

func (r *Resolver) resolvePHP(importPath string) []string {
	importPath = strings.ReplaceAll(importPath, `\`, "/")

	for _, prefix := range r.meta.PSR4Prefixes() {
		nsPath := strings.ReplaceAll(prefix, `\`, "/")
		if !strings.HasPrefix(importPath, nsPath) {
			continue
		}
		remainder := strings.TrimPrefix(importPath, nsPath)
		remainder = strings.TrimPrefix(remainder, "/")
		candidate := strings.TrimSuffix(r.meta.ComposerPSR4[prefix], "/") + "/" + remainder + ".php"
		candidate = path.Clean(candidate)
		if p, ok := r.idx.Get(candidate); ok {
			return []string{p}
		}
		if p, ok := r.idx.GetInsensitive(candidate); ok {
			return []string{p}
		}
	}

	return r.resolveGeneric(importPath, "")
}

// --- Swift ---

func (r *Resolver) resolveSwift(moduleName string) []string {
	dir, ok := r.meta.SwiftTargets[moduleName]
	if !ok {
		return nil
	}
	var out []string
	for _, p := range r.allPaths {
		if strings.HasPrefix(p, dir) && strings.HasSuffix(p, ".swift") {
			out = append(out, p)
		}
	}
	return out
}

// --- TypeScript / JavaScript ---

func (r *Resolver) resolveTSJS(importPath, sourceFile string) []string {
	if !strings.HasPrefix(importPath, ".") && len(r.meta.TSConfigPaths) > 0 {
		for alias, target := range r.meta.TSConfigPaths {
			if !strings.HasPrefix(importPath, alias) {
				continue
			}
			rest := strings.TrimPrefix(importPath, alias)
			base := path.Clean(path.Join(r.meta.TSBaseURL, target, rest))
			if p, ok := r.tryExtensions(base); ok {
				return []string{p}
			}
		}
	}
	return r.resolveGeneric(importPath, sourceFile)
}

// --- Rust ---

func (r *Resolver) resolveRust(importPath, sourceFile string) []string {
	if idx := strings.Index(importPath, "::{"); idx != -1 {
		importPath = importPath[:idx]
	}

	switch {
	case strings.HasPrefix(importPath, "crate::"):
		rel := strings.ReplaceAll(strings.TrimPrefix(importPath, "crate::"), "::", "/")
		for _, base := range []string{path.Join("src", rel), rel} {
			if p, ok := r.tryRustExtensions(base); ok {
				return []string{p}
			}
			if stripped := stripLastSegment(rel); stripped != "" {
				if p, ok := r.tryRustExtensions(path.Join("src", stripped)); ok {
					return []string{p}
				}
			}
		}
		return nil

	case strings.HasPrefix(importPath, "super::"):
		rel := strings.ReplaceAll(strings.TrimPrefix(importPath, "super::"), "::", "/")
		parentDir := path.Dir(path.Dir(sourceFile))
		return resolveOrNil(r.tryRustExtensions(path.Join(parentDir, rel)))

	case strings.HasPrefix(importPath, "self::"):
		rel := strings.ReplaceAll(strings.TrimPrefix(importPath, "self::"), "::", "/")
		sourceDir := path.Dir(sourceFile)
		return resolveOrNil(r.tryRustExtensions(path.Join(sourceDir, rel)))

	case strings.Contains(importPath, "::"):
		rel := strings.ReplaceAll(importPath, "::", "/")
		return r.resolveGeneric(rel, sourceFile)

	default:
		return nil
	}
}

func (r *Resolver) tryRustExtensions(base string) (string, bool) {
	for _, suffix := range []string{".rs", "/mod.rs", "/lib.rs"} {
		if p, ok := r.idx.Get(base + suffix); ok {
			return p, true
		}
	}
	return "", false
}

func resolveOrNil(p string, ok bool) []string {
	if !ok {
		return nil
	}
	return []string{p}
}

func stripLastSegment(rel string) string {
	i := strings.LastIndex(rel, "/")
	if i < 0 {
		return ""
	}
	return rel[:i]
}

// --- Generic fallback ---

func (r *Resolver) resolveGeneric(importPath, sourceFile string) []string {
	if strings.HasPrefix(importPath, ".") {
		sourceDir := path.Dir(sourceFile)
		base := path.Clean(path.Join(sourceDir, importPath))
		if p, ok := r.tryExtensions(base); ok {
			return []string{p}
		}
		return nil
	}

	if strings.HasSuffix(importPath, ".*") {
		return nil
	}

	normalized := strings.ReplaceAll(strings.ReplaceAll(importPath, ".", "/"), `\`, "/")
	segments := strings.Split(strings.Trim(normalized, "/"), "/")
	for i := 0; i < len(segments); i++ {
		suffix := strings.Join(segments[i:], "/")
		if p, ok := r.tryExtensions(suffix); ok {
			return []string{p}
		}
	}
	return nil
}

func (r *Resolver) tryExtensions(base string) (string, bool) {
	for _, ext := range genericExtensions {
		if p, ok := r.idx.Get(base + ext); ok {
			return p, true
		}
	}
	return "", false
}

// BuildEdges resolves every extracted import against the resolver and
// returns one IMPORTS edge per resolved target path, plus the per-file
// import map (source path → resolved target paths).
func BuildEdges(imports []parse.ExtractedImport, r *Resolver) ([]*graph.Edge, map[string][]string) {
	var edges []*graph.Edge
	importMap := make(map[string][]string)

	for _, imp := range imports {
		targets := r.Resolve(imp)
		if len(targets) == 0 {
			continue
		}
		metrics.RecordImportResolved()
		fromID := graph.GenerateID(graph.LabelFile, graph.FileKey(imp.FilePath))
		for _, target := range targets {
			toID := graph.GenerateID(graph.LabelFile, graph.FileKey(target))
			edges = append(edges, &graph.Edge{
				ID:         graph.GenerateEdgeID(graph.EdgeImports, fromID, toID),
				SourceID:   fromID,
				TargetID:   toID,
				Type:       graph.EdgeImports,
				Confidence: 1.0,
			})
			importMap[imp.FilePath] = append(importMap[imp.FilePath], target)
		}
	}

	return edges, importMap
}
