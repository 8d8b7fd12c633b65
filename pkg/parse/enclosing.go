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

import sitter "github.com/smacker/go-tree-sitter"

// functionLikeTypes is the fixed set of AST node types recognized as
// "function-like" for the enclosing-function walk (SPEC_FULL.md §4.2).
var functionLikeTypes = map[string]struct{}{
	"function_declaration":                  {},
	"arrow_function":                        {},
	"function_expression":                   {},
	"method_definition":                     {},
	"generator_function_declaration":        {},
	"function_definition":                   {},
	"async_function_declaration":            {},
	"async_arrow_function":                  {},
	"method_declaration":                    {},
	"constructor_declaration":               {},
	"local_function_statement":              {},
	"function_item":                         {},
	"impl_item":                             {},
	"anonymous_function_creation_expression": {},
	"init_declaration":                      {},
	"deinit_declaration":                    {},
}

// enclosingFunction ascends from n to the first ancestor whose node type is
// function-like, returning that node and its name. Swift init_declaration
// and deinit_declaration use the literal names "init"/"deinit".
func enclosingFunction(n *sitter.Node, source []byte) (node *sitter.Node, name string, ok bool) {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if _, isFn := functionLikeTypes[cur.Type()]; !isFn {
			continue
		}
		return cur, functionName(cur, source), true
	}
	return nil, "", false
}

// functionName applies the naming rule for a function-like node: a `name`
// field, the function child of an impl_item, the declarator name for arrow
// functions assigned to a variable, or the Swift init/deinit literals.
func functionName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "init_declaration":
		return "init"
	case "deinit_declaration":
		return "deinit"
	case "impl_item":
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.Type() == "declaration_list" {
				for j := 0; j < int(child.NamedChildCount()); j++ {
					fn := child.NamedChild(j)
					if fn.Type() == "function_item" {
						return functionName(fn, source)
					}
				}
			}
		}
		return ""
	case "arrow_function", "function_expression":
		if p := n.Parent(); p != nil && p.Type() == "variable_declarator" {
			if nameNode := p.ChildByFieldName("name"); nameNode != nil {
				return nameNode.Content(source)
			}
		}
		return ""
	default:
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			return nameNode.Content(source)
		}
		return ""
	}
}
