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

// Package pool is the Worker Pool: it fans a batch of files out across a
// bounded set of goroutines, each driving its own parse.Worker, and folds
// the per-file results back into one parse.Result. See SPEC_FULL.md §4.3.
package pool

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/kraklabs/cie/pkg/metrics"
	"github.com/kraklabs/cie/pkg/parse"
)

// sequentialThreshold mirrors the teacher pipeline's own cutover: below this
// many files, goroutine fan-out overhead is not worth paying.
const sequentialThreshold = 10

// progressInterval is how often (in cumulative files handled) onProgress
// fires (SPEC_FULL.md §4.2/§4.3: progress streamed after every 100 files).
const progressInterval = 100

// ProgressFunc is invoked with the cumulative count of files handled
// (parsed or errored) after every progressInterval files, and once more
// with the final count when the batch finishes.
type ProgressFunc func(processed int)

// Run parses files across numWorkers goroutines, each owning one
// parse.Worker for its lifetime (SPEC_FULL.md §5: a tree-sitter parser is
// never shared across goroutines). Per-file errors are logged and counted,
// never returned: the batch continues with the remaining files. ctx
// cancellation stops handing out new files to idle workers; files already
// in flight are allowed to finish. onProgress, if non-nil, is called with
// the cumulative processed count after every 100 files and once more at
// the end of the run.
func Run(ctx context.Context, logger *slog.Logger, files []parse.FileRecord, numWorkers int, onProgress ProgressFunc) (*parse.Result, int) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(files) == 0 {
		return &parse.Result{}, 0
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if len(files) < sequentialThreshold || numWorkers == 1 {
		return runSequential(ctx, logger, files, onProgress)
	}

	jobs := make(chan int, len(files))

	type fileOutcome struct {
		index  int
		result *parse.FileResult
		err    error
	}
	outcomes := make(chan fileOutcome, len(files))

	metrics.SetPoolFilesQueued(len(files))
	var activeWorkers int32

	var errorCount int32
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := parse.NewWorker()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				metrics.SetPoolWorkersActive(int(atomic.AddInt32(&activeWorkers, 1)))
				rec := files[idx]
				fr, err := w.ParseFile(ctx, rec)
				metrics.SetPoolWorkersActive(int(atomic.AddInt32(&activeWorkers, -1)))
				if err != nil {
					atomic.AddInt32(&errorCount, 1)
					logger.Warn("pool.parse_file.error", "path", rec.Path, "err", err)
					outcomes <- fileOutcome{index: idx, err: err}
					continue
				}
				outcomes <- fileOutcome{index: idx, result: fr}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	slots := make([]*parse.FileResult, len(files))
	processed := 0
	for out := range outcomes {
		processed++
		if onProgress != nil && processed%progressInterval == 0 {
			onProgress(processed)
		}
		if out.err != nil {
			continue
		}
		slots[out.index] = out.result
	}
	if onProgress != nil && processed%progressInterval != 0 {
		onProgress(processed)
	}

	result := &parse.Result{}
	for _, fr := range slots {
		if fr == nil {
			continue
		}
		result.Merge(fr)
	}

	return result, int(errorCount)
}

func runSequential(ctx context.Context, logger *slog.Logger, files []parse.FileRecord, onProgress ProgressFunc) (*parse.Result, int) {
	w := parse.NewWorker()
	result := &parse.Result{}
	var errorCount int
	processed := 0

	for _, rec := range files {
		select {
		case <-ctx.Done():
			if onProgress != nil && processed%progressInterval != 0 {
				onProgress(processed)
			}
			return result, errorCount
		default:
		}

		fr, err := w.ParseFile(ctx, rec)
		processed++
		if onProgress != nil && processed%progressInterval == 0 {
			onProgress(processed)
		}
		if err != nil {
			errorCount++
			logger.Warn("pool.parse_file.error", "path", rec.Path, "err", err)
			continue
		}
		if fr == nil {
			continue
		}
		result.Merge(fr)
	}
	if onProgress != nil && processed%progressInterval != 0 {
		onProgress(processed)
	}

	return result, errorCount
}
