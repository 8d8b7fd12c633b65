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

// Package storage provides the storage backend abstraction the Graph
// Loader runs its Datalog scripts through.
//
// # Available Backends
//
// The package provides one implementation:
//
//   - EmbeddedBackend: a local CozoDB instance.
//
// # Quick Start
//
// Create an embedded backend and execute queries:
//
//	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{
//	    DataDir: "/path/to/data",
//	    Engine:  "rocksdb",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	// Execute a query
//	result, err := backend.Query(ctx, `
//	    ?[path, language] := *File{id, path, language}
//	    :limit 10
//	`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range result.Rows {
//	    fmt.Printf("%s (%s)\n", row[0], row[1])
//	}
//
// Schema creation (one :create per node table plus CodeRelation) is owned
// by pkg/loader's Loader.EnsureSchema, which runs against a Backend; this
// package only provides the Backend implementation itself.
//
// # Query vs Execute
//
// Use Query for read operations and Execute for mutations:
//
//	// Read-only query (uses RunReadOnly internally)
//	result, err := backend.Query(ctx, `?[count(f)] := *File{id: f}`)
//
//	// Mutation (uses Run internally)
//	err := backend.Execute(ctx, `:rm File { id: "f123" }`)
//
// # Configuration
//
// EmbeddedConfig controls the backend behavior:
//
//	config := storage.EmbeddedConfig{
//	    DataDir: "/path/to/data",  // Where to store CozoDB data
//	    Engine:  "rocksdb",        // Storage engine: mem, sqlite, rocksdb
//	}
//
// Default values if not specified:
//   - DataDir: ~/.cie/data/<project_id>
//   - Engine: "rocksdb" (recommended for production)
//
// # Thread Safety
//
// EmbeddedBackend is safe for concurrent use. Read operations use a read
// lock while write operations use an exclusive lock, allowing concurrent
// reads but exclusive writes.
//
// # Direct Database Access
//
// For advanced operations, access the underlying CozoDB instance:
//
//	db := backend.DB()
//	result, err := db.Run(`::relations`, nil)  // List all relations
//
// Use with caution - prefer the Backend interface methods for normal operations.
package storage
