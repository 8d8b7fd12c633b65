// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
)

// NormalizePath normalizes a repo-relative file path for consistent ID
// generation: strips a leading "./", cleans redundant separators, and
// forces forward slashes so IDs are identical regardless of the host OS
// that produced the file list.
func NormalizePath(p string) string {
	if len(p) >= 2 && p[0:2] == "./" {
		p = p[2:]
	}
	p = path.Clean(p)
	if len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}

// GenerateID produces a deterministic node ID: "<label>:<key>" for short
// keys, or "<label>:<hash>" when the key would make the ID unwieldy. The
// label always appears before the first colon so the Graph Loader can
// recover it directly from the ID (SPEC_FULL.md §4.8 Phase 3).
//
// File nodes use the file path as key; code-entity nodes use
// "filePath:name:startLine:startCol:endLine:endCol" so that two entities of
// the same name in the same file never collide.
func GenerateID(label NodeLabel, key string) string {
	if len(key) <= 200 {
		return fmt.Sprintf("%s:%s", label, key)
	}
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s:%s", label, hex.EncodeToString(hash[:16]))
}

// FileKey builds the key used for File node IDs.
func FileKey(filePath string) string {
	return NormalizePath(filePath)
}

// EntityKey builds the key used for code-entity node IDs: the file path,
// the entity name, and its full source range, so overloaded or nested
// entities sharing a name never collide.
func EntityKey(filePath, name string, startLine, startCol, endLine, endCol int) string {
	return fmt.Sprintf("%s:%s:%d:%d:%d:%d", NormalizePath(filePath), name, startLine, startCol, endLine, endCol)
}

// GenerateEdgeID produces a deterministic edge ID from its type and
// endpoints, per SPEC_FULL.md §4.6's `generateId('IMPORTS', '<from>-><to>')`
// convention, generalized to every edge type the core emits.
func GenerateEdgeID(edgeType EdgeType, sourceID, targetID string) string {
	return fmt.Sprintf("%s:%s->%s", edgeType, sourceID, targetID)
}
