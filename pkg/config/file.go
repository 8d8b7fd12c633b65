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

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileDefaults is the optional `.cie-graph.yaml` checked into a repository
// root, read by the CLI before flags are applied. It mirrors a subset of
// Config's fields; CLI flags always take precedence over it.
type FileDefaults struct {
	Workers      int      `yaml:"workers"`
	Engine       string   `yaml:"engine"`
	ResolveCalls bool     `yaml:"resolve_calls"`
	Exclude      []string `yaml:"exclude"`
}

// LoadFileDefaults reads `<repoRoot>/.cie-graph.yaml`. A missing file is not
// an error: it returns a zero-value FileDefaults (SPEC_FULL.md §7's
// "metadata-file missing/malformed → treat as no config" policy, applied
// here to the CLI's own optional defaults file).
func LoadFileDefaults(repoRoot string) (*FileDefaults, error) {
	data, err := os.ReadFile(repoRoot + "/.cie-graph.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return &FileDefaults{}, nil
		}
		return nil, fmt.Errorf("read .cie-graph.yaml: %w", err)
	}

	var fd FileDefaults
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return &FileDefaults{}, nil
	}
	return &fd, nil
}
