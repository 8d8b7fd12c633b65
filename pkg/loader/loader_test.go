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

package loader

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie/pkg/graph"
	"github.com/kraklabs/cie/pkg/storage"
)

// fakeBackend is an in-memory storage.Backend stand-in: it just records
// every script it was asked to Execute, optionally failing scripts that
// reference a table name the test marks as poisoned.
type fakeBackend struct {
	executed []string
	failFor  map[string]int // table substring -> number of remaining failures
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failFor: make(map[string]int)}
}

func (b *fakeBackend) Query(ctx context.Context, datalog string) (*storage.QueryResult, error) {
	return &storage.QueryResult{}, nil
}

func (b *fakeBackend) Execute(ctx context.Context, datalog string) error {
	b.executed = append(b.executed, datalog)
	for substr, remaining := range b.failFor {
		if remaining > 0 && strings.Contains(datalog, substr) {
			b.failFor[substr] = remaining - 1
			return fmt.Errorf("simulated failure for %s", substr)
		}
	}
	return nil
}

func (b *fakeBackend) Close() error { return nil }

func fileNode(path, language string) *graph.Node {
	id := graph.GenerateID(graph.LabelFile, graph.FileKey(path))
	return &graph.Node{ID: id, Label: graph.LabelFile, Properties: map[string]any{"path": path, "language": language}}
}

func funcNode(path, name string) *graph.Node {
	key := graph.EntityKey(path, name, 1, 0, 3, 1)
	id := graph.GenerateID(graph.LabelFunction, key)
	return &graph.Node{ID: id, Label: graph.LabelFunction, Properties: map[string]any{
		"name": name, "filePath": path, "startLine": 1, "endLine": 3, "language": "go", "isExported": true,
	}}
}

func TestEnsureSchema_CreatesEveryNodeTableAndCodeRelation(t *testing.T) {
	backend := newFakeBackend()
	l := New(backend, nil)

	require.NoError(t, l.EnsureSchema(context.Background()))

	assert.Len(t, backend.executed, len(graph.NodeLabels)+1)
	foundRelation := false
	for _, stmt := range backend.executed {
		if strings.Contains(stmt, ":create CodeRelation") {
			foundRelation = true
		}
	}
	assert.True(t, foundRelation)
}

func TestEnsureSchema_SchemaFailuresAreSoft(t *testing.T) {
	backend := newFakeBackend()
	backend.failFor["Function"] = 1000 // every create for this table "fails"
	l := New(backend, nil)

	// Schema failures are logged, never returned (§4.8 Phase 1).
	require.NoError(t, l.EnsureSchema(context.Background()))
}

func TestLoad_InsertsNodesAndEdges(t *testing.T) {
	backend := newFakeBackend()
	l := New(backend, nil)

	g := graph.New()
	file := fileNode("main.go", "go")
	fn := funcNode("main.go", "main")
	g.AddNode(file)
	g.AddNode(fn)
	g.AddEdge(&graph.Edge{
		ID:         graph.GenerateEdgeID(graph.EdgeDefines, file.ID, fn.ID),
		SourceID:   file.ID,
		TargetID:   fn.ID,
		Type:       graph.EdgeDefines,
		Confidence: 1.0,
	})

	report, err := l.Load(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, 2, report.NodesInserted)
	assert.Equal(t, 1, report.InsertedRels)
	assert.Equal(t, 0, report.SkippedRels)
}

func TestLoadEdges_SkipsInvalidLabelPrefix(t *testing.T) {
	backend := newFakeBackend()
	l := New(backend, nil)

	g := graph.New()
	g.AddEdge(&graph.Edge{
		ID:         "IMPORTS:bogus_prefix->File:main.go",
		SourceID:   "comm_123",
		TargetID:   graph.GenerateID(graph.LabelFile, "main.go"),
		Type:       graph.EdgeImports,
		Confidence: 1.0,
	})

	inserted, skipped, err := l.loadEdges(context.Background(), g, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 1, skipped)
}

func TestPutChunk_DegradesToPerRowOnBatchFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failFor["Function"] = 1 // the batched script fails once, then per-row succeeds
	l := New(backend, nil)

	columns := columnsForLabel(graph.LabelFunction)
	rows := [][]any{
		{"Function:a", "a", "a.go", 1, 2, "go", true, ""},
		{"Function:b", "b", "b.go", 1, 2, "go", true, ""},
	}

	n, err := l.putChunk(context.Background(), "Function", columns, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPutChunk_ReturnsErrorWhenEveryAttemptFails(t *testing.T) {
	backend := newFakeBackend()
	backend.failFor["Function"] = 1000
	l := New(backend, nil)

	columns := columnsForLabel(graph.LabelFunction)
	rows := [][]any{{"Function:a", "a", "a.go", 1, 2, "go", true, ""}}

	_, err := l.putChunk(context.Background(), "Function", columns, rows)
	assert.Error(t, err)
}

func TestColumnsForLabel_FileAndFolderDifferFromCodeEntities(t *testing.T) {
	assert.Equal(t, []string{"id", "path", "language"}, columnsForLabel(graph.LabelFile))
	assert.Equal(t, []string{"id", "path"}, columnsForLabel(graph.LabelFolder))
	assert.Contains(t, columnsForLabel(graph.LabelFunction), "is_exported")
}

func TestTableName_BackticksMultiLanguageTables(t *testing.T) {
	assert.Equal(t, "`Struct`", tableName(graph.LabelStruct))
	assert.Equal(t, "File", tableName(graph.LabelFile))
}

func TestBuildPutScript_ProducesPutStatement(t *testing.T) {
	script := buildPutScript("File", []string{"id", "path", "language"}, [][]any{{"File:a.go", "a.go", "go"}})
	assert.Contains(t, script, ":put File {id => path, language}")
	assert.Contains(t, script, `"a.go"`)
}

func TestValidNodeTables_IsSortedAndComplete(t *testing.T) {
	tables := ValidNodeTables()
	assert.Len(t, tables, len(graph.NodeLabels))
	for i := 1; i < len(tables); i++ {
		assert.LessOrEqual(t, tables[i-1], tables[i])
	}
}
