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
	"github.com/smacker/go-tree-sitter/java"
)

func javaGrammar() *sitter.Language { return java.GetLanguage() }

const javaQuery = `
(method_declaration
  name: (identifier) @name) @definition.method

(constructor_declaration
  name: (identifier) @name) @definition.constructor

(class_declaration
  name: (identifier) @name
  superclass: (superclass (type_identifier) @heritage.extends)) @heritage.class

(class_declaration
  name: (identifier) @name
  interfaces: (super_interfaces
    (type_list (type_identifier) @heritage.implements))) @heritage.class

(class_declaration
  name: (identifier) @name) @definition.class

(interface_declaration
  name: (identifier) @name) @definition.interface

(enum_declaration
  name: (identifier) @name) @definition.enum

(annotation_type_declaration
  name: (identifier) @name) @definition.annotation

(import_declaration
  (scoped_identifier) @import.source) @import

(method_invocation
  name: (identifier) @call.name) @call
`
