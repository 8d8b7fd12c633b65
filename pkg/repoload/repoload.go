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

// Package repoload reads a local repository's files into the
// parse.FileRecord batch the core operates on (SPEC_FULL.md §6 "Input to
// the core"). It is deliberately local-filesystem-only: git cloning and
// remote repository sources are out of scope (SPEC_FULL.md Non-goals,
// "cross-repository resolution").
package repoload

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kraklabs/cie/pkg/parse"
)

// DefaultExcludes are directory names skipped outright during the walk,
// regardless of any caller-supplied excludes.
var DefaultExcludes = []string{
	".git", "node_modules", "vendor", "dist", "build", "target", ".cie",
}

// Load walks root and returns one FileRecord per regular file not matched
// by DefaultExcludes or extraExcludes (plain filepath.Match glob patterns,
// checked against the file's repo-relative, "/"-separated path), skipping
// anything larger than maxFileSize bytes. Paths are always returned
// "/"-separated regardless of host OS.
func Load(root string, extraExcludes []string, maxFileSize int64) ([]parse.FileRecord, error) {
	var files []parse.FileRecord

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && isExcludedDir(d.Name(), rel, extraExcludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if isExcludedFile(rel, extraExcludes) {
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		if maxFileSize > 0 && info.Size() > maxFileSize {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		files = append(files, parse.FileRecord{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk repository: %w", err)
	}
	return files, nil
}

func isExcludedDir(name, rel string, extraExcludes []string) bool {
	for _, d := range DefaultExcludes {
		if name == d {
			return true
		}
	}
	return matchesAny(rel, extraExcludes)
}

func isExcludedFile(rel string, extraExcludes []string) bool {
	return matchesAny(rel, extraExcludes)
}

func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}
