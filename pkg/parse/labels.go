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

import "github.com/kraklabs/cie/pkg/graph"

// definitionCaptureLabels is the capture→label table from SPEC_FULL.md §4.2.
var definitionCaptureLabels = map[string]graph.NodeLabel{
	"definition.function":    graph.LabelFunction,
	"definition.class":       graph.LabelClass,
	"definition.interface":   graph.LabelInterface,
	"definition.method":      graph.LabelMethod,
	"definition.struct":      graph.LabelStruct,
	"definition.enum":        graph.LabelEnum,
	"definition.namespace":   graph.LabelNamespace,
	"definition.module":      graph.LabelModule,
	"definition.trait":       graph.LabelTrait,
	"definition.impl":        graph.LabelImpl,
	"definition.type":        graph.LabelTypeAlias,
	"definition.const":       graph.LabelConst,
	"definition.static":      graph.LabelStatic,
	"definition.typedef":     graph.LabelTypedef,
	"definition.macro":       graph.LabelMacro,
	"definition.union":       graph.LabelUnion,
	"definition.property":    graph.LabelProperty,
	"definition.record":      graph.LabelRecord,
	"definition.delegate":    graph.LabelDelegate,
	"definition.annotation":  graph.LabelAnnotation,
	"definition.constructor": graph.LabelConstructor,
	"definition.template":    graph.LabelTemplate,
}

// callableLabels are the labels whose node ID may be referenced as a call
// site's enclosing-function ID.
var callableLabels = map[graph.NodeLabel]bool{
	graph.LabelFunction:    true,
	graph.LabelMethod:      true,
	graph.LabelConstructor: true,
}
