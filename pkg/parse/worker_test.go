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

package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie/pkg/graph"
)

func parseSource(t *testing.T, path, content string) *FileResult {
	t.Helper()
	w := NewWorker()
	fr, err := w.ParseFile(context.Background(), FileRecord{Path: path, Content: []byte(content)})
	require.NoError(t, err)
	require.NotNil(t, fr)
	return fr
}

func nodeNames(fr *FileResult) map[string]*graph.Node {
	out := make(map[string]*graph.Node, len(fr.Nodes))
	for _, n := range fr.Nodes {
		out[n.Properties["name"].(string)] = n
	}
	return out
}

func TestParseFile_Go_FunctionsAndExport(t *testing.T) {
	src := `package sample

import "fmt"

func Add(a, b int) int {
	return helper(a, b)
}

func helper(a, b int) int {
	fmt.Println(a)
	return a + b
}
`
	fr := parseSource(t, "sample.go", src)
	names := nodeNames(fr)

	require.Contains(t, names, "Add")
	require.Contains(t, names, "helper")
	assert.True(t, names["Add"].Properties["isExported"].(bool))
	assert.False(t, names["helper"].Properties["isExported"].(bool))
	assert.Equal(t, graph.LabelFunction, names["Add"].Label)

	require.Len(t, fr.Imports, 1)
	assert.Equal(t, "fmt", fr.Imports[0].RawImportPath)

	var sawHelperCall bool
	for _, c := range fr.Calls {
		if c.CalledName == "helper" {
			sawHelperCall = true
			assert.Equal(t, names["Add"].ID, c.SourceID)
		}
		assert.NotEqual(t, "Println", c.CalledName, "fmt.Println should be deny-listed")
	}
	assert.True(t, sawHelperCall)

	require.Len(t, fr.DefinesEdges, 2)
	for _, e := range fr.DefinesEdges {
		assert.Equal(t, graph.EdgeDefines, e.Type)
	}
}

func TestParseFile_TypeScript_ClassHeritageAndAlias(t *testing.T) {
	src := `import { Base } from "./base";

export class Widget extends Base implements Shaped {
	render() {
		doWork();
	}
}

function doWork() {
	console.log("working");
}
`
	fr := parseSource(t, "widget.ts", src)
	names := nodeNames(fr)

	require.Contains(t, names, "Widget")
	assert.True(t, names["Widget"].Properties["isExported"].(bool))
	assert.Equal(t, graph.LabelClass, names["Widget"].Label)

	require.Contains(t, names, "doWork")
	assert.False(t, names["doWork"].Properties["isExported"].(bool))

	var sawExtends, sawImplements bool
	for _, h := range fr.Heritage {
		assert.Equal(t, "Widget", h.ClassName)
		switch h.Kind {
		case HeritageExtends:
			sawExtends = true
			assert.Equal(t, "Base", h.ParentName)
		case HeritageImplements:
			sawImplements = true
			assert.Equal(t, "Shaped", h.ParentName)
		}
	}
	assert.True(t, sawExtends)
	assert.True(t, sawImplements)

	require.Len(t, fr.Imports, 1)
	assert.Equal(t, "./base", fr.Imports[0].RawImportPath)

	for _, c := range fr.Calls {
		assert.NotEqual(t, "log", c.CalledName)
	}
}

func TestParseFile_Python_UnderscoreVisibility(t *testing.T) {
	src := `class Service:
    def run(self):
        self._helper()

    def _helper(self):
        print("noop")
`
	fr := parseSource(t, "service.py", src)
	names := nodeNames(fr)

	require.Contains(t, names, "run")
	require.Contains(t, names, "_helper")
	assert.True(t, names["run"].Properties["isExported"].(bool))
	assert.False(t, names["_helper"].Properties["isExported"].(bool))
}

func TestParseFile_Rust_TraitImpl(t *testing.T) {
	src := `struct Counter {
    value: i32,
}

trait Incrementable {
    fn increment(&mut self);
}

impl Incrementable for Counter {
    fn increment(&mut self) {
        self.value += 1;
    }
}
`
	fr := parseSource(t, "counter.rs", src)

	var sawTrait bool
	for _, h := range fr.Heritage {
		if h.Kind == HeritageTrait {
			sawTrait = true
			assert.Equal(t, "Counter", h.ClassName)
			assert.Equal(t, "Incrementable", h.ParentName)
		}
	}
	assert.True(t, sawTrait)
}

func TestParseFile_PHP_EloquentFillable(t *testing.T) {
	src := `<?php
class Post extends Model {
    protected $fillable = ['title', 'body'];

    public function author() {
        return $this->belongsTo(User::class);
    }
}
`
	fr := parseSource(t, "Post.php", src)
	names := nodeNames(fr)

	if n, ok := names["fillable"]; ok {
		desc, _ := n.Properties["description"].(string)
		assert.Contains(t, desc, "title")
	}
	if n, ok := names["author"]; ok {
		desc, _ := n.Properties["description"].(string)
		assert.Equal(t, "belongsTo(User)", desc)
	}
}

func TestParseFile_UnsupportedExtension_ReturnsNil(t *testing.T) {
	w := NewWorker()
	fr, err := w.ParseFile(context.Background(), FileRecord{Path: "README.md", Content: []byte("# hello")})
	require.NoError(t, err)
	assert.Nil(t, fr)
}

func TestParseFile_OversizedFile_ReturnsNil(t *testing.T) {
	w := NewWorker()
	big := make([]byte, MaxFileSize+1)
	fr, err := w.ParseFile(context.Background(), FileRecord{Path: "big.go", Content: big})
	require.NoError(t, err)
	assert.Nil(t, fr)
}

func TestParseFile_DenyListedCallsOmitted(t *testing.T) {
	src := `package sample

func Run() {
	println("hi")
	append([]int{}, 1)
}
`
	fr := parseSource(t, "sample.go", src)
	for _, c := range fr.Calls {
		assert.NotEqual(t, "println", c.CalledName)
		assert.NotEqual(t, "append", c.CalledName)
	}
}
