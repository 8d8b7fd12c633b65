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

// Package metadata is the Project Metadata Loader: it reads the handful of
// repo-root config files that give language-specific import resolution extra
// context (TS path aliases, a Go module path, Composer PSR-4 mappings, Swift
// SPM targets). Each loader is independent and a missing file yields "no
// config", never an error. See SPEC_FULL.md §4.4.
package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Metadata is the merged result of all four loaders, invoked once per run
// at the repo root.
type Metadata struct {
	// TSConfigPaths maps an alias prefix (trailing "*" stripped) to its
	// target prefix (trailing "*" stripped), read from the first of
	// tsconfig.json, tsconfig.app.json, tsconfig.base.json that parses.
	TSConfigPaths map[string]string
	// TSBaseURL is compilerOptions.baseUrl, default ".".
	TSBaseURL string

	// GoModulePath is the module path from the first line of go.mod
	// matching ^module\s+(\S+), or "" if go.mod is absent.
	GoModulePath string

	// ComposerPSR4 maps a namespace prefix (trailing "\" stripped) to a
	// directory (forward-slashed), merged from autoload["psr-4"] and
	// autoload-dev["psr-4"].
	ComposerPSR4 map[string]string

	// SwiftTargets maps an SPM target name to its source directory.
	SwiftTargets map[string]string
}

// Load runs all four loaders against repoRoot and returns the merged result.
func Load(repoRoot string) *Metadata {
	m := &Metadata{
		TSConfigPaths: make(map[string]string),
		TSBaseURL:     ".",
		ComposerPSR4:  make(map[string]string),
		SwiftTargets:  make(map[string]string),
	}

	loadTSConfig(repoRoot, m)
	m.GoModulePath = loadGoModule(repoRoot)
	loadComposerPSR4(repoRoot, m)
	loadSwiftTargets(repoRoot, m)

	return m
}

var jsonCommentStripper = regexp.MustCompile(`(?s)//[^\n]*|/\*.*?\*/`)

// stripJSONComments removes // line comments and /* */ block comments so
// tsconfig's JSONC content can be parsed by encoding/json.
func stripJSONComments(data []byte) []byte {
	return jsonCommentStripper.ReplaceAll(data, nil)
}

type tsConfig struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

func loadTSConfig(repoRoot string, m *Metadata) {
	for _, name := range []string{"tsconfig.json", "tsconfig.app.json", "tsconfig.base.json"} {
		data, err := os.ReadFile(filepath.Join(repoRoot, name))
		if err != nil {
			continue
		}

		var cfg tsConfig
		if err := json.Unmarshal(stripJSONComments(data), &cfg); err != nil {
			continue
		}

		if cfg.CompilerOptions.BaseURL != "" {
			m.TSBaseURL = cfg.CompilerOptions.BaseURL
		}
		for pattern, targets := range cfg.CompilerOptions.Paths {
			if len(targets) == 0 {
				continue
			}
			alias := strings.TrimSuffix(pattern, "*")
			target := strings.TrimSuffix(targets[0], "*")
			m.TSConfigPaths[alias] = target
		}
		return
	}
}

var goModuleLine = regexp.MustCompile(`^module\s+(\S+)`)

func loadGoModule(repoRoot string) string {
	data, err := os.ReadFile(filepath.Join(repoRoot, "go.mod"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if m := goModuleLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1]
		}
	}
	return ""
}

type composerJSON struct {
	Autoload struct {
		PSR4 map[string]string `json:"psr-4"`
	} `json:"autoload"`
	AutoloadDev struct {
		PSR4 map[string]string `json:"psr-4"`
	} `json:"autoload-dev"`
}

func loadComposerPSR4(repoRoot string, m *Metadata) {
	data, err := os.ReadFile(filepath.Join(repoRoot, "composer.json"))
	if err != nil {
		return
	}

	var cfg composerJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return
	}

	merge := func(src map[string]string) {
		for ns, dir := range src {
			ns = strings.TrimSuffix(ns, `\`)
			dir = filepath.ToSlash(dir)
			m.ComposerPSR4[ns] = dir
		}
	}
	merge(cfg.Autoload.PSR4)
	merge(cfg.AutoloadDev.PSR4)
}

// swiftSourceDirs is the ordered set of directories scanned for SPM targets;
// every direct subdirectory of each one present is a target, and a later
// directory's subdirectory replaces an earlier one of the same name.
var swiftSourceDirs = []string{"Sources", filepath.Join("Package", "Sources"), "src"}

func loadSwiftTargets(repoRoot string, m *Metadata) {
	for _, dir := range swiftSourceDirs {
		full := filepath.Join(repoRoot, dir)
		entries, err := os.ReadDir(full)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			m.SwiftTargets[e.Name()] = filepath.ToSlash(filepath.Join(dir, e.Name()))
		}
	}
}

// PSR4Prefixes returns the Composer namespace prefixes sorted by descending
// length, the order SPEC_FULL.md §4.6 requires for PHP resolution.
func (m *Metadata) PSR4Prefixes() []string {
	prefixes := make([]string, 0, len(m.ComposerPSR4))
	for ns := range m.ComposerPSR4 {
		prefixes = append(prefixes, ns)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	return prefixes
}
