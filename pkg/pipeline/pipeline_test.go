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

package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie/pkg/graph"
	"github.com/kraklabs/cie/pkg/parse"
	"github.com/kraklabs/cie/pkg/storage"
)

// fakeBackend is an in-memory storage.Backend stand-in recording every
// script it was asked to run; see pkg/loader's own fakeBackend for the
// same idiom.
type fakeBackend struct {
	executed []string
}

func (b *fakeBackend) Query(ctx context.Context, datalog string) (*storage.QueryResult, error) {
	return &storage.QueryResult{}, nil
}

func (b *fakeBackend) Execute(ctx context.Context, datalog string) error {
	b.executed = append(b.executed, datalog)
	return nil
}

func (b *fakeBackend) Close() error { return nil }

const goSample = `package main

func helper() {}

func main() {
	helper()
}
`

func TestRun_ProducesNodesEdgesAndLoadsThem(t *testing.T) {
	backend := &fakeBackend{}
	p := New(backend, nil)

	files := []parse.FileRecord{
		{Path: "main.go", Content: []byte(goSample)},
	}

	result, err := p.Run(context.Background(), Config{RepoRoot: t.TempDir(), NumWorkers: 1}, files)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesProcessed)
	assert.Equal(t, 0, result.ParseErrors)
	assert.Greater(t, result.NodeCount, 0)
	assert.NotEmpty(t, result.RunID)

	foundFileCreate := false
	for _, stmt := range backend.executed {
		if strings.Contains(stmt, ":create File") {
			foundFileCreate = true
		}
	}
	assert.True(t, foundFileCreate)
}

func TestRun_ResolvesCallsWhenEnabled(t *testing.T) {
	backend := &fakeBackend{}
	p := New(backend, nil)

	files := []parse.FileRecord{
		{Path: "main.go", Content: []byte(goSample)},
	}

	result, err := p.Run(context.Background(), Config{RepoRoot: t.TempDir(), NumWorkers: 1, ResolveCalls: true}, files)
	require.NoError(t, err)
	assert.Greater(t, result.NodeCount, 0)
}

func TestRun_ReportsProgressViaOnProgress(t *testing.T) {
	backend := &fakeBackend{}
	p := New(backend, nil)

	var files []parse.FileRecord
	for i := 0; i < 150; i++ {
		files = append(files, parse.FileRecord{Path: "f.go", Content: []byte(goSample)})
	}

	var mu sync.Mutex
	var updates []int
	total := -1
	result, err := p.Run(context.Background(), Config{
		RepoRoot:   t.TempDir(),
		NumWorkers: 1,
		OnProgress: func(processed, fileTotal int) {
			mu.Lock()
			defer mu.Unlock()
			updates = append(updates, processed)
			total = fileTotal
		},
	}, files)
	require.NoError(t, err)

	assert.Equal(t, 150, result.FilesProcessed)
	assert.Equal(t, 150, total)
	require.NotEmpty(t, updates)
	assert.Equal(t, 150, updates[len(updates)-1])
}

func TestGenerateRunID_DeterministicForSameSecond(t *testing.T) {
	now := time.Now()
	id1 := generateRunID("/repo", now)
	id2 := generateRunID("/repo", now)
	assert.Equal(t, id1, id2)

	id3 := generateRunID("/other-repo", now)
	assert.NotEqual(t, id1, id3)
}

func TestBuildStructureNodes_CreatesFileAndFolderNodes(t *testing.T) {
	g := graph.New()
	files := []parse.FileRecord{
		{Path: "pkg/util/helper.go", Content: []byte(goSample)},
	}
	buildStructureNodes(g, files)

	nodeCount, _ := g.Stats()
	// one File node + two Folder nodes (pkg/util, pkg)
	assert.Equal(t, 3, nodeCount)
}
