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
	"github.com/smacker/go-tree-sitter/swift"
)

func swiftGrammar() *sitter.Language { return swift.GetLanguage() }

// swiftQuery has no import capture: Swift's `import Foundation` statements
// name a framework, not a file, and SPEC_FULL.md §4.6's Swift resolution is
// driven entirely by the SPM-target map, not by per-file import captures.
const swiftQuery = `
(function_declaration
  name: (simple_identifier) @name) @definition.function

(init_declaration) @definition.constructor

(deinit_declaration) @definition.constructor

(class_declaration
  name: (type_identifier) @name
  (inheritance_specifier (user_type (type_identifier) @heritage.extends))) @heritage.class

(class_declaration
  name: (type_identifier) @name) @definition.class

(protocol_declaration
  name: (type_identifier) @name) @definition.interface

(enum_declaration
  name: (type_identifier) @name) @definition.enum

(typealias_declaration
  name: (type_identifier) @name) @definition.type

(call_expression
  function: [
    (simple_identifier) @call.name
    (navigation_expression suffix: (navigation_suffix (simple_identifier) @call.name))
  ]) @call
`
