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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// These exercise the package-level singleton, so assertions only check
// relative deltas: other tests in this binary may have already recorded
// against the same collectors.

func TestRecordFileParsed_IncrementsLabelledCounter(t *testing.T) {
	before := testutil.ToFloat64(m.filesParsed.WithLabelValues("go"))
	RecordFileParsed("go")
	after := testutil.ToFloat64(m.filesParsed.WithLabelValues("go"))
	assert.Equal(t, before+1, after)
}

func TestRecordFileSkipped_IncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(m.filesSkipped)
	RecordFileSkipped()
	after := testutil.ToFloat64(m.filesSkipped)
	assert.Equal(t, before+1, after)
}

func TestRecordFileOversize_IncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(m.filesOversize)
	RecordFileOversize()
	after := testutil.ToFloat64(m.filesOversize)
	assert.Equal(t, before+1, after)
}

func TestObserveParseDuration_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { ObserveParseDuration(0.01) })
}

func TestResolveCacheHitMiss_IncrementCounters(t *testing.T) {
	beforeHit := testutil.ToFloat64(m.resolveCacheHits)
	beforeMiss := testutil.ToFloat64(m.resolveCacheMisses)
	RecordResolveCacheHit()
	RecordResolveCacheMiss()
	assert.Equal(t, beforeHit+1, testutil.ToFloat64(m.resolveCacheHits))
	assert.Equal(t, beforeMiss+1, testutil.ToFloat64(m.resolveCacheMisses))
}

func TestSetPoolWorkersActive_SetsGaugeValue(t *testing.T) {
	SetPoolWorkersActive(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.poolWorkersActive))
	SetPoolWorkersActive(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.poolWorkersActive))
}

func TestSetPoolFilesQueued_SetsGaugeValue(t *testing.T) {
	SetPoolFilesQueued(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(m.poolFilesQueued))
}

func TestObserveLoaderCopyDuration_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { ObserveLoaderCopyDuration("CodeElement", 1.5) })
}

func TestRecordRelationSkipped_IncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(m.relationsSkipped)
	RecordRelationSkipped()
	after := testutil.ToFloat64(m.relationsSkipped)
	assert.Equal(t, before+1, after)
}
