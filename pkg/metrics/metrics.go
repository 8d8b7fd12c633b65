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

// Package metrics holds the Prometheus metrics for the ingestion pipeline:
// parse throughput, import resolution, the worker pool, and the graph
// loader's COPY phases.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type ingestionMetrics struct {
	once sync.Once

	filesParsed   *prometheus.CounterVec
	filesSkipped  prometheus.Counter
	filesOversize prometheus.Counter

	parseDuration prometheus.Histogram

	importsFound    prometheus.Counter
	importsResolved prometheus.Counter

	resolveCacheHits   prometheus.Counter
	resolveCacheMisses prometheus.Counter

	poolWorkersActive prometheus.Gauge
	poolFilesQueued   prometheus.Gauge

	loaderCopyDuration *prometheus.HistogramVec
	relationsSkipped   prometheus.Counter
}

var m ingestionMetrics

func (m *ingestionMetrics) init() {
	m.once.Do(func() {
		m.filesParsed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cie_files_parsed_total", Help: "Files successfully parsed, by language",
		}, []string{"language"})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cie_files_skipped_total", Help: "Files skipped (unsupported extension)",
		})
		m.filesOversize = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cie_files_oversize_total", Help: "Files skipped for exceeding the size bound",
		})

		buckets := []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
		m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "cie_parse_seconds", Help: "Per-file parse duration", Buckets: buckets,
		})

		m.importsFound = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cie_imports_found_total", Help: "Raw imports extracted across all files",
		})
		m.importsResolved = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cie_imports_resolved_total", Help: "Imports resolved to at least one target file",
		})

		m.resolveCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cie_resolve_cache_hits_total", Help: "Resolve-cache hits",
		})
		m.resolveCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cie_resolve_cache_misses_total", Help: "Resolve-cache misses",
		})

		m.poolWorkersActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cie_pool_workers_active", Help: "Worker-pool goroutines currently parsing a file",
		})
		m.poolFilesQueued = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cie_pool_files_queued", Help: "Files queued but not yet picked up by a worker",
		})

		loaderBuckets := []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
		m.loaderCopyDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "cie_loader_copy_seconds", Help: "Graph Loader COPY duration, by table", Buckets: loaderBuckets,
		}, []string{"table"})
		m.relationsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cie_loader_relations_skipped_total", Help: "Relationship rows skipped for an invalid label",
		})

		prometheus.MustRegister(
			m.filesParsed, m.filesSkipped, m.filesOversize,
			m.parseDuration,
			m.importsFound, m.importsResolved,
			m.resolveCacheHits, m.resolveCacheMisses,
			m.poolWorkersActive, m.poolFilesQueued,
			m.loaderCopyDuration, m.relationsSkipped,
		)
	})
}

// RecordFileParsed increments the per-language parsed-file counter.
func RecordFileParsed(language string) {
	m.init()
	m.filesParsed.WithLabelValues(language).Inc()
}

// RecordFileSkipped increments the unsupported-extension counter.
func RecordFileSkipped() { m.init(); m.filesSkipped.Inc() }

// RecordFileOversize increments the oversized-file counter.
func RecordFileOversize() { m.init(); m.filesOversize.Inc() }

// ObserveParseDuration records one file's parse wall-clock time in seconds.
func ObserveParseDuration(seconds float64) { m.init(); m.parseDuration.Observe(seconds) }

// RecordImportFound increments the raw-imports-extracted counter.
func RecordImportFound() { m.init(); m.importsFound.Inc() }

// RecordImportResolved increments the resolved-imports counter.
func RecordImportResolved() { m.init(); m.importsResolved.Inc() }

// RecordResolveCacheHit/Miss track the resolve-cache's hit rate.
func RecordResolveCacheHit()  { m.init(); m.resolveCacheHits.Inc() }
func RecordResolveCacheMiss() { m.init(); m.resolveCacheMisses.Inc() }

// SetPoolWorkersActive/SetPoolFilesQueued report worker-pool occupancy.
func SetPoolWorkersActive(n int) { m.init(); m.poolWorkersActive.Set(float64(n)) }
func SetPoolFilesQueued(n int)   { m.init(); m.poolFilesQueued.Set(float64(n)) }

// ObserveLoaderCopyDuration records one table's COPY duration in seconds.
func ObserveLoaderCopyDuration(table string, seconds float64) {
	m.init()
	m.loaderCopyDuration.WithLabelValues(table).Observe(seconds)
}

// RecordRelationSkipped increments the invalid-label relationship counter.
func RecordRelationSkipped() { m.init(); m.relationsSkipped.Inc() }
