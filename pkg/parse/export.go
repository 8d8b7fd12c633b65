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
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/cie/pkg/lang"
)

// isExported computes SPEC_FULL.md §4.2's isExported property from AST
// context, per language. It is computed, never guessed: each branch walks
// ancestors or inspects the name text directly, matching the rule the spec
// gives for that language.
func isExported(l lang.Language, nameNode *sitter.Node, name string, source []byte) bool {
	switch l {
	case lang.JavaScript, lang.TypeScript, lang.TypeScriptX:
		return jsExported(nameNode, source)
	case lang.Python:
		return !strings.HasPrefix(name, "_")
	case lang.Java:
		return ancestorHasModifier(nameNode, source, "public")
	case lang.CSharp:
		return ancestorTypeContains(nameNode, source, "modifier", "public") ||
			ancestorTypeContains(nameNode, source, "modifiers", "public")
	case lang.Go:
		return goExported(name)
	case lang.Rust:
		return ancestorTypeContains(nameNode, source, "visibility_modifier", "pub")
	case lang.C, lang.Cpp:
		return false
	case lang.Swift:
		return ancestorTypeContains(nameNode, source, "modifiers", "public") ||
			ancestorTypeContains(nameNode, source, "modifiers", "open") ||
			ancestorTypeContains(nameNode, source, "visibility_modifier", "public") ||
			ancestorTypeContains(nameNode, source, "visibility_modifier", "open")
	case lang.PHP:
		return phpExported(nameNode, source)
	default:
		return false
	}
}

func goExported(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r) && unicode.ToLower(r) != r
}

// jsExported walks ancestors looking for an export_statement/export_specifier,
// a lexical declaration whose parent is an export statement, or text that
// begins with "export ".
func jsExported(n *sitter.Node, source []byte) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "export_statement", "export_specifier":
			return true
		case "lexical_declaration", "function_declaration", "class_declaration":
			if p := cur.Parent(); p != nil && p.Type() == "export_statement" {
				return true
			}
		}
		if strings.HasPrefix(cur.Content(source), "export ") {
			return true
		}
	}
	return false
}

// ancestorHasModifier implements the Java rule: an ancestor has a
// `modifiers` child containing the given keyword, or the enclosing
// method_declaration/constructor_declaration's text starts with it.
func ancestorHasModifier(n *sitter.Node, source []byte, keyword string) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Type() == "method_declaration" || cur.Type() == "constructor_declaration" || cur.Type() == "class_declaration" {
			if strings.HasPrefix(strings.TrimSpace(cur.Content(source)), keyword) {
				return true
			}
			for i := 0; i < int(cur.ChildCount()); i++ {
				child := cur.Child(i)
				if child.Type() == "modifiers" && strings.Contains(child.Content(source), keyword) {
					return true
				}
			}
		}
	}
	return false
}

// ancestorTypeContains walks ancestors (and their direct children) looking
// for a node of the given type whose text contains keyword.
func ancestorTypeContains(n *sitter.Node, source []byte, nodeType, keyword string) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		for i := 0; i < int(cur.ChildCount()); i++ {
			child := cur.Child(i)
			if child.Type() == nodeType && strings.Contains(child.Content(source), keyword) {
				return true
			}
		}
		if cur.Type() == nodeType && strings.Contains(cur.Content(source), keyword) {
			return true
		}
	}
	return false
}

// phpExported implements: top-level class/interface/trait/enum
// declarations are always exported; inside a class, a visibility_modifier
// equal to "public" is exported; top-level functions are exported.
func phpExported(n *sitter.Node, source []byte) bool {
	insideClass := false
	for cur := n; cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			if !insideClass {
				return true
			}
		case "method_declaration":
			insideClass = true
			for i := 0; i < int(cur.ChildCount()); i++ {
				child := cur.Child(i)
				if child.Type() == "visibility_modifier" && strings.TrimSpace(child.Content(source)) == "public" {
					return true
				}
			}
		case "function_definition":
			if !insideClass {
				return true
			}
		}
	}
	return !insideClass
}
