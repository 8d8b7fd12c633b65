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

// Package main implements cie-graph, a thin CLI wrapping the Pipeline
// Orchestrator for manual, end-to-end verification (SPEC_FULL.md §4.13).
// It is the one sanctioned entry point into the core, not a feature
// surface in its own right.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/cie/internal/errors"
)

var (
	version = "dev"
	commit  = "unknown"
)

// GlobalFlags carries flags relevant across every subcommand.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		jsonOutput  = flag.Bool("json", false, "Emit machine-readable JSON output")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `cie-graph - Code Intelligence Engine graph indexer

Usage:
  cie-graph <command> [options]

Commands:
  index <repo-root>   Parse a repository and load its code graph

Global Options:
  --json       Emit machine-readable JSON output
  --no-color   Disable colored output
  --version    Show version and exit

Examples:
  cie-graph index .
  cie-graph index . --out ~/.cie-graph/data --workers 8
  cie-graph index . --format json

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("cie-graph version %s (%s)\n", version, commit)
		os.Exit(errors.ExitSuccess)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(errors.ExitInput)
	}

	globals := GlobalFlags{JSON: *jsonOutput, NoColor: *noColor}

	switch args[0] {
	case "index":
		runIndex(args[1:], globals)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(errors.ExitInput)
	}
}
