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

package callresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie/pkg/graph"
	"github.com/kraklabs/cie/pkg/parse"
)

func TestResolveCalls_SameFileUnqualified(t *testing.T) {
	symbols := []parse.Symbol{
		{NodeID: "Function:main.go:helper", FilePath: "main.go", Name: "helper", Label: graph.LabelFunction, IsExported: false},
	}
	r := New(symbols, nil)

	edges := r.ResolveCalls([]parse.ExtractedCall{
		{FilePath: "main.go", CalledName: "helper", SourceID: "Function:main.go:main"},
	})
	require.Len(t, edges, 1)
	assert.Equal(t, "Function:main.go:helper", edges[0].TargetID)
	assert.Equal(t, "CALLS", string(edges[0].Type))
}

func TestResolveCalls_QualifiedCrossFileExportedOnly(t *testing.T) {
	symbols := []parse.Symbol{
		{NodeID: "Function:pkg/util.go:Format", FilePath: "pkg/util.go", Name: "Format", IsExported: true},
		{NodeID: "Function:pkg/util.go:helper", FilePath: "pkg/util.go", Name: "helper", IsExported: false},
	}
	importMap := map[string][]string{"main.go": {"pkg/util.go"}}
	r := New(symbols, importMap)

	resolved := r.ResolveCalls([]parse.ExtractedCall{
		{FilePath: "main.go", CalledName: "util.Format", SourceID: "Function:main.go:main"},
		{FilePath: "main.go", CalledName: "util.helper", SourceID: "Function:main.go:main"},
	})
	require.Len(t, resolved, 1)
	assert.Equal(t, "Function:pkg/util.go:Format", resolved[0].TargetID)
}

func TestResolveCalls_DropsSelfLoop(t *testing.T) {
	symbols := []parse.Symbol{
		{NodeID: "Function:main.go:main", FilePath: "main.go", Name: "main", IsExported: false},
	}
	r := New(symbols, nil)

	edges := r.ResolveCalls([]parse.ExtractedCall{
		{FilePath: "main.go", CalledName: "main", SourceID: "Function:main.go:main"},
	})
	assert.Empty(t, edges)
}

func TestResolveCalls_Deduplicates(t *testing.T) {
	symbols := []parse.Symbol{
		{NodeID: "Function:main.go:helper", FilePath: "main.go", Name: "helper"},
	}
	r := New(symbols, nil)

	calls := []parse.ExtractedCall{
		{FilePath: "main.go", CalledName: "helper", SourceID: "Function:main.go:main"},
		{FilePath: "main.go", CalledName: "helper", SourceID: "Function:main.go:main"},
	}
	edges := r.ResolveCalls(calls)
	assert.Len(t, edges, 1)
}

func TestResolveHeritage_ExtendsWithinSameFile(t *testing.T) {
	symbols := []parse.Symbol{
		{NodeID: "Class:shapes.ts:Square", FilePath: "shapes.ts", Name: "Square", Label: graph.LabelClass},
		{NodeID: "Class:shapes.ts:Shape", FilePath: "shapes.ts", Name: "Shape", Label: graph.LabelClass, IsExported: true},
	}
	r := New(symbols, nil)

	edges := r.ResolveHeritage([]parse.ExtractedHeritage{
		{FilePath: "shapes.ts", ClassName: "Square", ParentName: "Shape", Kind: parse.HeritageExtends},
	})
	require.Len(t, edges, 1)
	assert.Equal(t, "EXTENDS", string(edges[0].Type))
	assert.Equal(t, "Class:shapes.ts:Shape", edges[0].TargetID)
}

func TestResolveHeritage_UnknownParentDropped(t *testing.T) {
	symbols := []parse.Symbol{
		{NodeID: "Class:shapes.ts:Square", FilePath: "shapes.ts", Name: "Square"},
	}
	r := New(symbols, nil)

	edges := r.ResolveHeritage([]parse.ExtractedHeritage{
		{FilePath: "shapes.ts", ClassName: "Square", ParentName: "Shape", Kind: parse.HeritageExtends},
	})
	assert.Empty(t, edges)
}
