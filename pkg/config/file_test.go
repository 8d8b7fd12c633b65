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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults_MissingFileYieldsZeroValue(t *testing.T) {
	fd, err := LoadFileDefaults(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &FileDefaults{}, fd)
}

func TestLoadFileDefaults_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	content := "workers: 6\nengine: mem\nresolve_calls: true\nexclude:\n  - \"*.pb.go\"\n"
	require.NoError(t, os.WriteFile(dir+"/.cie-graph.yaml", []byte(content), 0644))

	fd, err := LoadFileDefaults(dir)
	require.NoError(t, err)
	assert.Equal(t, 6, fd.Workers)
	assert.Equal(t, "mem", fd.Engine)
	assert.True(t, fd.ResolveCalls)
	assert.Equal(t, []string{"*.pb.go"}, fd.Exclude)
}

func TestLoadFileDefaults_MalformedYAMLYieldsZeroValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/.cie-graph.yaml", []byte("not: valid: yaml: ["), 0644))

	fd, err := LoadFileDefaults(dir)
	require.NoError(t, err)
	assert.Equal(t, &FileDefaults{}, fd)
}
