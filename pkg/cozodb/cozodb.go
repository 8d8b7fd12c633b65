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

//go:build cgo

package cozodb

/*
#cgo LDFLAGS: -lcozo_c
#include <stdlib.h>
#include "cozo_c.h"
*/
import "C"

import (
	"encoding/json"
	"fmt"
	"sync"
	"unsafe"
)

// CozoDB is a handle to one open CozoDB instance. A process may open several
// independent instances (e.g. one per indexed repository); each owns its own
// on-disk (or in-memory) storage engine.
type CozoDB struct {
	mu sync.Mutex
	id C.int32_t
}

// NamedRows is the tabular result of a Datalog query: a header row followed
// by any number of value rows, matching CozoDB's own NamedRows JSON shape.
type NamedRows struct {
	Headers []string
	Rows    [][]any
}

type cozoResponse struct {
	Ok      bool            `json:"ok"`
	Message string          `json:"message"`
	Headers []string        `json:"headers"`
	Rows    [][]any         `json:"rows"`
	Display json.RawMessage `json:"display,omitempty"`
}

// New opens (creating if necessary) a CozoDB instance backed by the given
// engine ("mem", "sqlite", or "rocksdb") at path. options is passed through
// as the engine's JSON options string; nil means "use engine defaults".
func New(engine, path string, options map[string]any) (CozoDB, error) {
	optsJSON := "{}"
	if options != nil {
		b, err := json.Marshal(options)
		if err != nil {
			return CozoDB{}, fmt.Errorf("marshal cozodb options: %w", err)
		}
		optsJSON = string(b)
	}

	cEngine := C.CString(engine)
	defer C.free(unsafe.Pointer(cEngine))
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	cOpts := C.CString(optsJSON)
	defer C.free(unsafe.Pointer(cOpts))

	var id C.int32_t
	errBuf := C.cozo_open_db(cEngine, cPath, cOpts, &id)
	if errBuf != nil {
		defer C.cozo_free_str(errBuf)
		return CozoDB{}, fmt.Errorf("open cozodb: %s", C.GoString(errBuf))
	}

	return CozoDB{id: id}, nil
}

// Run executes a Datalog script, which may contain mutations.
func (db *CozoDB) Run(script string, params map[string]any) (NamedRows, error) {
	return db.run(script, params, false)
}

// RunReadOnly executes a Datalog script under a read-only transaction; any
// mutation in the script is rejected by the engine itself.
func (db *CozoDB) RunReadOnly(script string, params map[string]any) (NamedRows, error) {
	return db.run(script, params, true)
}

func (db *CozoDB) run(script string, params map[string]any, immutable bool) (NamedRows, error) {
	if params == nil {
		params = map[string]any{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return NamedRows{}, fmt.Errorf("marshal query params: %w", err)
	}

	cScript := C.CString(script)
	defer C.free(unsafe.Pointer(cScript))
	cParams := C.CString(string(paramsJSON))
	defer C.free(unsafe.Pointer(cParams))

	db.mu.Lock()
	cResult := C.cozo_run_query(db.id, cScript, cParams, C.bool(immutable))
	db.mu.Unlock()
	defer C.cozo_free_str(cResult)

	var resp cozoResponse
	if err := json.Unmarshal([]byte(C.GoString(cResult)), &resp); err != nil {
		return NamedRows{}, fmt.Errorf("decode cozodb response: %w", err)
	}
	if !resp.Ok {
		return NamedRows{}, fmt.Errorf("cozodb query failed: %s", resp.Message)
	}

	return NamedRows{Headers: resp.Headers, Rows: resp.Rows}, nil
}

// Backup writes a full snapshot of the database to path.
func (db *CozoDB) Backup(path string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	db.mu.Lock()
	errBuf := C.cozo_backup(db.id, cPath)
	db.mu.Unlock()
	if errBuf != nil {
		defer C.cozo_free_str(errBuf)
		return fmt.Errorf("backup cozodb: %s", C.GoString(errBuf))
	}
	return nil
}

// Restore replaces the database's contents with a snapshot previously
// written by Backup.
func (db *CozoDB) Restore(path string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	db.mu.Lock()
	errBuf := C.cozo_restore(db.id, cPath)
	db.mu.Unlock()
	if errBuf != nil {
		defer C.cozo_free_str(errBuf)
		return fmt.Errorf("restore cozodb: %s", C.GoString(errBuf))
	}
	return nil
}

// Close releases the underlying CozoDB handle. Calling Close twice is safe.
func (db *CozoDB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	C.cozo_close_db(db.id)
}
