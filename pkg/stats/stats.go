// Copyright 2026 PingCAP, Inc.
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

package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// maxTrackableLateness is the largest lateness the histogram keeps exactly.
// Larger values are clamped to it.
const maxTrackableLateness = time.Minute

// WakeStats records how late delay tasks wake up relative to their deadline.
// It implements fanout.Observer.
type WakeStats struct {
	spawned atomic.Uint64
	woken   atomic.Uint64

	hist   *hdrhistogram.Histogram
	histMu sync.Mutex
}

// NewWakeStats creates an empty recorder.
func NewWakeStats() *WakeStats {
	return &WakeStats{
		hist: hdrhistogram.New(1, maxTrackableLateness.Microseconds(), 3),
	}
}

// OnSpawn implements fanout.Observer.
func (s *WakeStats) OnSpawn() {
	s.spawned.Add(1)
}

// OnWake implements fanout.Observer.
func (s *WakeStats) OnWake(lateness time.Duration) {
	s.woken.Add(1)
	micros := lateness.Microseconds()
	if micros <= 0 {
		micros = 1
	}
	s.histMu.Lock()
	if err := s.hist.RecordValue(micros); err != nil {
		_ = s.hist.RecordValue(s.hist.HighestTrackableValue())
	}
	s.histMu.Unlock()
}

// Result is the outcome of one benchmark run.
type Result struct {
	RunID         string
	Runtime       string
	Tasks         int
	SpawnDuration time.Duration
	WallTime      time.Duration

	Spawned     uint64
	Woken       uint64
	LatenessAvg time.Duration
	LatenessP50 time.Duration
	LatenessP95 time.Duration
	LatenessP99 time.Duration
	LatenessMax time.Duration

	PeakRSS        uint64
	PeakGoroutines int64
}

// Snapshot fills the lateness fields of r from the recorded samples.
func (s *WakeStats) Snapshot(r Result) Result {
	r.Spawned = s.spawned.Load()
	r.Woken = s.woken.Load()

	s.histMu.Lock()
	if s.hist.TotalCount() > 0 {
		r.LatenessAvg = microsToDuration(int64(s.hist.Mean()))
		r.LatenessP50 = microsToDuration(s.hist.ValueAtQuantile(50))
		r.LatenessP95 = microsToDuration(s.hist.ValueAtQuantile(95))
		r.LatenessP99 = microsToDuration(s.hist.ValueAtQuantile(99))
		r.LatenessMax = microsToDuration(s.hist.Max())
	}
	s.histMu.Unlock()
	return r
}

// SpawnThroughput returns tasks created per second during the spawn phase.
func (r Result) SpawnThroughput() float64 {
	seconds := r.SpawnDuration.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(r.Tasks) / seconds
}

// LatenessSummary renders p50/p95/p99/max.
func (r Result) LatenessSummary() string {
	return FormatDuration(r.LatenessP50) + "/" + FormatDuration(r.LatenessP95) + "/" +
		FormatDuration(r.LatenessP99) + "/" + FormatDuration(r.LatenessMax)
}

func microsToDuration(value int64) time.Duration {
	if value <= 0 {
		return time.Microsecond
	}
	return time.Duration(value) * time.Microsecond
}

// FormatDuration renders d with a unit suited to its magnitude.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Microsecond {
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1e3)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1e3)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
