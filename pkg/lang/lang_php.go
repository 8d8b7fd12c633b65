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

package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

func phpGrammar() *sitter.Language { return php.GetLanguage() }

// phpQuery additionally captures property_declaration and the Eloquent
// relationship-method bodies; the per-name description extraction
// (fillable/casts summaries, hasMany(Model) labels) is a worker-level
// post-process over these captures, not a query concern (SPEC_FULL.md §4.2
// "PHP extras").
const phpQuery = `
(function_definition
  name: (name) @name) @definition.function

(method_declaration
  name: (name) @name) @definition.method

(class_declaration
  name: (name) @name
  (base_clause (name) @heritage.extends)) @heritage.class

(class_declaration
  name: (name) @name
  (class_interface_clause (name) @heritage.implements)) @heritage.class

(class_declaration
  name: (name) @name) @definition.class

(interface_declaration
  name: (name) @name) @definition.interface

(trait_declaration
  name: (name) @name) @definition.trait

(enum_declaration
  name: (name) @name) @definition.enum

(property_declaration) @definition.property

(namespace_use_clause
  (qualified_name) @import.source) @import

(namespace_definition
  name: (namespace_name) @name) @definition.namespace

(function_call_expression
  function: (name) @call.name) @call

(member_call_expression
  name: (name) @call.name) @call
`
