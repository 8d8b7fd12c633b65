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
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// eloquentFillableProperties are the Eloquent model property names whose
// array-literal contents are summarized into a description (SPEC_FULL.md
// §4.2 "PHP extras").
var eloquentFillableProperties = map[string]struct{}{
	"fillable": {}, "casts": {}, "hidden": {}, "guarded": {}, "with": {}, "appends": {},
}

// eloquentRelationMethods are the $this->method(Model::class, ...) calls
// whose presence in a method body yields a "kind(Model)" description.
var eloquentRelationMethods = []string{
	"hasMany", "hasOne", "belongsTo", "belongsToMany", "morphTo", "morphMany",
	"morphOne", "morphToMany", "morphedByMany", "hasManyThrough", "hasOneThrough",
}

var classConstRef = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)::class`)

// phpPropertyDescription builds the Property.description for an Eloquent
// fillable/casts/hidden/guarded/with/appends property declaration, or ""
// if the property name isn't one of those six.
func phpPropertyDescription(propName string, arrayLiteral *sitter.Node, source []byte) string {
	if _, ok := eloquentFillableProperties[propName]; !ok || arrayLiteral == nil {
		return ""
	}

	var parts []string
	for i := 0; i < int(arrayLiteral.NamedChildCount()); i++ {
		el := arrayLiteral.NamedChild(i)
		switch el.Type() {
		case "array_element_initializer":
			key := el.ChildByFieldName("key")
			val := el.ChildByFieldName("value")
			if key != nil && val != nil {
				parts = append(parts, strings.Trim(key.Content(source), `'"`)+":"+strings.Trim(val.Content(source), `'"`))
				continue
			}
			if val != nil {
				parts = append(parts, strings.Trim(val.Content(source), `'"`))
			}
		default:
			parts = append(parts, strings.Trim(el.Content(source), `'"`))
		}
	}
	return strings.Join(parts, ", ")
}

// phpMethodDescription scans a method body's text for a
// $this->relation(Model::class, ...) call and returns e.g. "hasMany(Post)",
// or "" if no Eloquent relationship call is present.
func phpMethodDescription(methodBody *sitter.Node, source []byte) string {
	if methodBody == nil {
		return ""
	}
	body := methodBody.Content(source)
	for _, rel := range eloquentRelationMethods {
		idx := strings.Index(body, "$this->"+rel+"(")
		if idx < 0 {
			continue
		}
		rest := body[idx:]
		m := classConstRef.FindStringSubmatch(rest)
		if m != nil {
			return rel + "(" + m[1] + ")"
		}
		return rel + "()"
	}
	return ""
}
