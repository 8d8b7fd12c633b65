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

// Package lang is the Language Registry: it maps file extensions to one of
// the closed set of twelve supported language tags (eleven languages, with
// TSX as its own tag), and owns the per-language
// tree-sitter grammar handle plus the capture-query string that extracts
// definitions, imports, calls, and heritage edges from that grammar's AST.
//
// The capture names — definition.<kind>, name, import, import.source, call,
// call.name, heritage.class, heritage.extends, heritage.implements,
// heritage.trait — are the stable contract with the Parse Worker. Adding a
// new language means adding a grammar import and a query string here; no
// other package needs to change.
package lang

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language is the closed enumeration of language tags the core understands.
type Language string

const (
	JavaScript   Language = "javascript"
	TypeScript   Language = "typescript"
	TypeScriptX  Language = "typescript-tsx"
	Python       Language = "python"
	Java         Language = "java"
	C            Language = "c"
	Cpp          Language = "cpp"
	CSharp       Language = "csharp"
	Go           Language = "go"
	Rust         Language = "rust"
	PHP          Language = "php"
	Swift        Language = "swift"
)

// entry bundles a grammar handle with its capture query source.
type entry struct {
	grammar *sitter.Language
	query   string
}

// registry maps each language to a constructor for its entry. Nothing is
// built until a language is requested, and nothing is cached here: each
// Grammar or Query call runs the constructor again.
var registry = map[Language]func() entry{
	JavaScript:  func() entry { return entry{grammar: javascriptGrammar(), query: javascriptQuery} },
	TypeScript:  func() entry { return entry{grammar: typescriptGrammar(), query: typescriptQuery} },
	TypeScriptX: func() entry { return entry{grammar: tsxGrammar(), query: typescriptQuery} },
	Python:      func() entry { return entry{grammar: pythonGrammar(), query: pythonQuery} },
	Java:        func() entry { return entry{grammar: javaGrammar(), query: javaQuery} },
	C:           func() entry { return entry{grammar: cGrammar(), query: cQuery} },
	Cpp:         func() entry { return entry{grammar: cppGrammar(), query: cppQuery} },
	CSharp:      func() entry { return entry{grammar: csharpGrammar(), query: csharpQuery} },
	Go:          func() entry { return entry{grammar: goGrammar(), query: goQuery} },
	Rust:        func() entry { return entry{grammar: rustGrammar(), query: rustQuery} },
	PHP:         func() entry { return entry{grammar: phpGrammar(), query: phpQuery} },
	Swift:       func() entry { return entry{grammar: swiftGrammar(), query: swiftQuery} },
}

// extensions maps a lower-cased file extension (including the leading dot)
// to its language tag. `.tsx` is the one extension that selects a grammar
// variant (TSX) distinct from its base language's own tag.
var extensions = map[string]Language{
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".ts":  TypeScript,
	".tsx": TypeScriptX,
	".py":  Python,
	".pyi": Python,
	".java": Java,
	".c":   C,
	".h":   C,
	".cpp": Cpp,
	".cc":  Cpp,
	".cxx": Cpp,
	".hpp": Cpp,
	".hh":  Cpp,
	".hxx": Cpp,
	".cs":  CSharp,
	".go":  Go,
	".rs":  Rust,
	".php": PHP,
	".phtml": PHP,
	".swift": Swift,
}

// Detect maps a repo-relative file path to a language tag by extension.
// Unknown extensions return ("", false); the Parse Worker drops such files
// without emitting any node or error.
func Detect(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := extensions[ext]
	return l, ok
}

// Grammar returns the tree-sitter grammar handle for a language,
// constructing it anew on every call.
func Grammar(l Language) (*sitter.Language, bool) {
	ctor, ok := registry[l]
	if !ok {
		return nil, false
	}
	return ctor().grammar, true
}

// Query returns the capture-query source for a language.
func Query(l Language) (string, bool) {
	ctor, ok := registry[l]
	if !ok {
		return "", false
	}
	return ctor().query, true
}
