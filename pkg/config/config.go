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

// Package config holds the tunables a Pipeline run is built from: worker
// count, file-size cap, and the embedded storage engine's location. See
// SPEC_FULL.md §4.12.
package config

import (
	"log/slog"
	"runtime"

	"github.com/kraklabs/cie/pkg/parse"
)

// MaxSubBatch mirrors the Parse Worker's 100-file progress-report cadence
// (SPEC_FULL.md §4.2).
const MaxSubBatch = 100

// Config is built via New plus a chain of Option funcs, mirroring
// pkg/storage.EmbeddedConfig's {DataDir, Engine, ProjectID} shape.
type Config struct {
	// NumWorkers bounds the parse Worker Pool. Defaults to runtime.NumCPU(),
	// clamped to at least 2.
	NumWorkers int
	// SubBatchSize is the number of files a worker processes before
	// reporting progress.
	SubBatchSize int
	// MaxFileSize is the oversized-file bound in bytes.
	MaxFileSize int64
	// DataDir is where the embedded storage engine persists the graph.
	DataDir string
	// Engine is the embedded storage engine: "rocksdb", "sqlite", or "mem".
	Engine string
	// ResolveCalls enables the optional call/heritage resolution stage.
	ResolveCalls bool
	// Logger receives phase-transition and per-file diagnostic events.
	Logger *slog.Logger
}

// Option mutates a Config under construction.
type Option func(*Config)

// New builds a Config from defaults plus the given options.
func New(opts ...Option) *Config {
	numWorkers := runtime.NumCPU()
	if numWorkers < 2 {
		numWorkers = 2
	}
	cfg := &Config{
		NumWorkers:   numWorkers,
		SubBatchSize: MaxSubBatch,
		MaxFileSize:  parse.MaxFileSize,
		Engine:       "rocksdb",
		Logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithNumWorkers overrides the Worker Pool size.
func WithNumWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.NumWorkers = n
		}
	}
}

// WithSubBatchSize overrides the progress-report cadence.
func WithSubBatchSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SubBatchSize = n
		}
	}
}

// WithMaxFileSize overrides the oversized-file bound.
func WithMaxFileSize(n int64) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxFileSize = n
		}
	}
}

// WithDataDir sets the embedded storage engine's data directory.
func WithDataDir(dir string) Option {
	return func(c *Config) { c.DataDir = dir }
}

// WithEngine sets the embedded storage engine.
func WithEngine(engine string) Option {
	return func(c *Config) {
		if engine != "" {
			c.Engine = engine
		}
	}
}

// WithResolveCalls toggles the optional call/heritage resolution stage.
func WithResolveCalls(enabled bool) Option {
	return func(c *Config) { c.ResolveCalls = enabled }
}

// WithLogger sets the structured logger used throughout a run.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}
