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
	"github.com/smacker/go-tree-sitter/csharp"
)

func csharpGrammar() *sitter.Language { return csharp.GetLanguage() }

const csharpQuery = `
(method_declaration
  name: (identifier) @name) @definition.method

(constructor_declaration
  name: (identifier) @name) @definition.constructor

(class_declaration
  name: (identifier) @name
  bases: (base_list (identifier) @heritage.extends)) @heritage.class

(class_declaration
  name: (identifier) @name) @definition.class

(interface_declaration
  name: (identifier) @name) @definition.interface

(struct_declaration
  name: (identifier) @name) @definition.struct

(enum_declaration
  name: (identifier) @name) @definition.enum

(delegate_declaration
  name: (identifier) @name) @definition.delegate

(record_declaration
  name: (identifier) @name) @definition.record

(namespace_declaration
  name: (identifier) @name) @definition.namespace

(using_directive
  (qualified_name) @import.source) @import

(invocation_expression
  function: [
    (identifier) @call.name
    (member_access_expression name: (identifier) @call.name)
  ]) @call
`
