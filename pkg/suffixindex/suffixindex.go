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

// Package suffixindex builds, once, an index over every repo-relative file
// path that answers exact- and case-insensitive path-suffix lookups and
// "files directly in directory D with extension E" in O(1). See
// SPEC_FULL.md §4.5.
package suffixindex

import (
	"path"
	"strings"
)

// Index is read-only after construction and may be shared across
// goroutines without locking (SPEC_FULL.md §5).
type Index struct {
	// bySuffix maps a `/`-joined path suffix to the longest known full
	// path that ends with it.
	bySuffix map[string]string
	// bySuffixLower is the same with the map key lower-cased; the stored
	// path keeps its original case.
	bySuffixLower map[string]string
	// byDirExt maps "<dirSuffix>\x00<ext>" to the set of full paths whose
	// directory suffix is dirSuffix and whose extension is ext.
	byDirExt map[string][]string
}

// Build enumerates every suffix of each path's `/`-split components, plus
// every directory-suffix paired with the leaf's extension, and indexes
// them all. Longer (i.e. more specific) paths win ties on ambiguous
// suffixes, and among equal-length candidates the one built first (input
// order) is kept, matching a single deterministic pass over paths.
func Build(paths []string) *Index {
	idx := &Index{
		bySuffix:      make(map[string]string),
		bySuffixLower: make(map[string]string),
		byDirExt:      make(map[string][]string),
	}

	for _, p := range paths {
		clean := path.Clean(p)
		parts := strings.Split(clean, "/")

		for i := 0; i < len(parts); i++ {
			suffix := strings.Join(parts[i:], "/")
			idx.index(suffix, clean)
		}

		dir := path.Dir(clean)
		ext := path.Ext(clean)
		dirParts := strings.Split(dir, "/")
		for i := 0; i <= len(dirParts); i++ {
			var dirSuffix string
			if i == len(dirParts) {
				// Only root-level files live directly in the empty directory.
				if dir != "." {
					continue
				}
				dirSuffix = ""
			} else {
				dirSuffix = strings.Join(dirParts[i:], "/")
			}
			key := dirSuffix + "\x00" + ext
			idx.byDirExt[key] = append(idx.byDirExt[key], clean)
		}
	}

	return idx
}

func (idx *Index) index(suffix, full string) {
	if existing, ok := idx.bySuffix[suffix]; !ok || len(full) > len(existing) {
		idx.bySuffix[suffix] = full
	}
	lowerSuffix := strings.ToLower(suffix)
	if existing, ok := idx.bySuffixLower[lowerSuffix]; !ok || len(full) > len(existing) {
		idx.bySuffixLower[lowerSuffix] = full
	}
}

// Get returns the longest known path ending in the exact (case-sensitive)
// suffix, or ("", false).
func (idx *Index) Get(suffix string) (string, bool) {
	p, ok := idx.bySuffix[strings.TrimPrefix(suffix, "/")]
	return p, ok
}

// GetInsensitive returns the longest known path ending in suffix, ignoring
// case on both sides of the comparison.
func (idx *Index) GetInsensitive(suffix string) (string, bool) {
	p, ok := idx.bySuffixLower[strings.ToLower(strings.TrimPrefix(suffix, "/"))]
	return p, ok
}

// GetFilesInDir returns every indexed file whose directory suffix is
// dirSuffix and whose extension (including the leading dot) is ext.
func (idx *Index) GetFilesInDir(dirSuffix, ext string) []string {
	dirSuffix = strings.Trim(dirSuffix, "/")
	return idx.byDirExt[dirSuffix+"\x00"+ext]
}
