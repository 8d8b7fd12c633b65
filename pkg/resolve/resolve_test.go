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

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/cie/pkg/metadata"
	"github.com/kraklabs/cie/pkg/parse"
	"github.com/kraklabs/cie/pkg/suffixindex"
)

func TestResolve_TypeScriptAlias(t *testing.T) {
	paths := []string{"src/utils/format.ts", "src/widget.tsx"}
	idx := suffixindex.Build(paths)
	meta := &metadata.Metadata{
		TSConfigPaths: map[string]string{"@/": "src/"},
		TSBaseURL:     ".",
	}
	r := New(meta, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "src/widget.tsx", RawImportPath: "@/utils/format", Language: "typescript"})
	require.Len(t, targets, 1)
	assert.Equal(t, "src/utils/format.ts", targets[0])
}

func TestResolve_RustCrate(t *testing.T) {
	paths := []string{"src/model/user.rs", "src/main.rs"}
	idx := suffixindex.Build(paths)
	r := New(&metadata.Metadata{}, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "src/main.rs", RawImportPath: "crate::model::user", Language: "rust"})
	require.Len(t, targets, 1)
	assert.Equal(t, "src/model/user.rs", targets[0])
}

func TestResolve_JavaWildcard(t *testing.T) {
	paths := []string{"com/example/util/Foo.java", "com/example/util/Bar.java"}
	idx := suffixindex.Build(paths)
	r := New(&metadata.Metadata{}, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "com/example/Main.java", RawImportPath: "com.example.util.*", Language: "java"})
	assert.ElementsMatch(t, paths, targets)
}

func TestResolve_JavaStaticImport(t *testing.T) {
	paths := []string{"com/example/Constants.java"}
	idx := suffixindex.Build(paths)
	r := New(&metadata.Metadata{}, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "com/example/Main.java", RawImportPath: "com.example.Constants.MAX_SIZE", Language: "java"})
	require.Len(t, targets, 1)
	assert.Equal(t, "com/example/Constants.java", targets[0])
}

func TestResolve_JavaClassImport(t *testing.T) {
	paths := []string{"com/example/model/User.java"}
	idx := suffixindex.Build(paths)
	r := New(&metadata.Metadata{}, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "com/example/Main.java", RawImportPath: "com.example.model.User", Language: "java"})
	require.Len(t, targets, 1)
	assert.Equal(t, "com/example/model/User.java", targets[0])
}

func TestResolve_JavaClassImport_FallsThroughOnShorterSuffix(t *testing.T) {
	// The fully-qualified suffix "vendored/com/example/Widget.java" never
	// appears in the index; only a shorter suffix does. A direct,
	// non-shortening lookup would miss this, so it must fall through to
	// resolveGeneric's progressively-shorter-suffix search.
	paths := []string{"thirdparty/com/example/Widget.java"}
	idx := suffixindex.Build(paths)
	r := New(&metadata.Metadata{}, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "Main.java", RawImportPath: "vendored.com.example.Widget", Language: "java"})
	require.Len(t, targets, 1)
	assert.Equal(t, "thirdparty/com/example/Widget.java", targets[0])
}

func TestResolve_GoInternalPackage(t *testing.T) {
	paths := []string{"internal/widget/widget.go", "internal/widget/widget_test.go"}
	idx := suffixindex.Build(paths)
	meta := &metadata.Metadata{GoModulePath: "github.com/example/app"}
	r := New(meta, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "main.go", RawImportPath: "github.com/example/app/internal/widget", Language: "go"})
	require.Len(t, targets, 1)
	assert.Equal(t, "internal/widget/widget.go", targets[0])
}

func TestResolve_GoExternalDropped(t *testing.T) {
	idx := suffixindex.Build(nil)
	meta := &metadata.Metadata{GoModulePath: "github.com/example/app"}
	r := New(meta, idx, nil)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "main.go", RawImportPath: "github.com/other/pkg", Language: "go"})
	assert.Empty(t, targets)
}

func TestResolve_PHPPSR4(t *testing.T) {
	paths := []string{"src/Services/Mailer.php"}
	idx := suffixindex.Build(paths)
	meta := &metadata.Metadata{ComposerPSR4: map[string]string{"App": "src"}}
	r := New(meta, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "src/Controller.php", RawImportPath: `App\Services\Mailer`, Language: "php"})
	require.Len(t, targets, 1)
	assert.Equal(t, "src/Services/Mailer.php", targets[0])
}

func TestResolve_SwiftTarget(t *testing.T) {
	paths := []string{"Sources/Core/Widget.swift", "Sources/Core/Helper.swift", "Sources/Other/Thing.swift"}
	idx := suffixindex.Build(paths)
	meta := &metadata.Metadata{SwiftTargets: map[string]string{"Core": "Sources/Core"}}
	r := New(meta, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "Sources/Core/App.swift", RawImportPath: "Core", Language: "swift"})
	assert.ElementsMatch(t, []string{"Sources/Core/Widget.swift", "Sources/Core/Helper.swift"}, targets)
}

func TestResolve_SwiftExternalFrameworkDropped(t *testing.T) {
	idx := suffixindex.Build(nil)
	r := New(&metadata.Metadata{}, idx, nil)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "App.swift", RawImportPath: "Foundation", Language: "swift"})
	assert.Empty(t, targets)
}

func TestResolve_GenericRelativeImport(t *testing.T) {
	paths := []string{"pkg/helper.py"}
	idx := suffixindex.Build(paths)
	r := New(&metadata.Metadata{}, idx, paths)

	targets := r.Resolve(parse.ExtractedImport{FilePath: "pkg/main.py", RawImportPath: "./helper", Language: "python"})
	require.Len(t, targets, 1)
	assert.Equal(t, "pkg/helper.py", targets[0])
}

func TestResolve_CachesRepeatLookups(t *testing.T) {
	paths := []string{"pkg/helper.py"}
	idx := suffixindex.Build(paths)
	r := New(&metadata.Metadata{}, idx, paths)

	imp := parse.ExtractedImport{FilePath: "pkg/main.py", RawImportPath: "./helper", Language: "python"}
	first := r.Resolve(imp)
	second := r.Resolve(imp)
	assert.Equal(t, first, second)
	assert.Len(t, r.cache, 1)
}

func TestBuildEdges_ProducesDeterministicIDs(t *testing.T) {
	paths := []string{"pkg/helper.py", "pkg/main.py"}
	idx := suffixindex.Build(paths)
	r := New(&metadata.Metadata{}, idx, paths)

	imports := []parse.ExtractedImport{
		{FilePath: "pkg/main.py", RawImportPath: "./helper", Language: "python"},
	}
	edges, importMap := BuildEdges(imports, r)
	require.Len(t, edges, 1)
	assert.Equal(t, "IMPORTS", string(edges[0].Type))
	assert.Equal(t, []string{"pkg/helper.py"}, importMap["pkg/main.py"])
}
