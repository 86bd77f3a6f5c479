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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWakeStatsSnapshot(t *testing.T) {
	t.Parallel()

	s := NewWakeStats()
	empty := s.Snapshot(Result{Runtime: "timer"})
	require.Zero(t, empty.Woken)
	require.Zero(t, empty.LatenessMax)
	require.Equal(t, "-/-/-/-", empty.LatenessSummary())

	for i := 1; i <= 100; i++ {
		s.OnSpawn()
		s.OnWake(time.Duration(i) * time.Millisecond)
	}
	// Early or absurdly late wakes are clamped, not dropped.
	s.OnSpawn()
	s.OnWake(-time.Millisecond)
	s.OnSpawn()
	s.OnWake(2 * time.Hour)

	r := s.Snapshot(Result{Runtime: "timer", Tasks: 102})
	require.EqualValues(t, 102, r.Spawned)
	require.EqualValues(t, 102, r.Woken)
	require.InDelta(t, 50*time.Millisecond, r.LatenessP50, float64(2*time.Millisecond))
	require.InDelta(t, 95*time.Millisecond, r.LatenessP95, float64(2*time.Millisecond))
	require.GreaterOrEqual(t, r.LatenessMax, 59*time.Second)
	require.Equal(t, "timer", r.Runtime)
	require.Equal(t, 102, r.Tasks)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "-"},
		{-time.Second, "-"},
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5µs"},
		{2500 * time.Microsecond, "2.50ms"},
		{10*time.Second + 120*time.Millisecond, "10.12s"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, FormatDuration(tt.in))
	}
}

func TestSpawnThroughput(t *testing.T) {
	t.Parallel()

	require.Zero(t, Result{Tasks: 10}.SpawnThroughput())
	r := Result{Tasks: 1000, SpawnDuration: 500 * time.Millisecond}
	require.InDelta(t, 2000.0, r.SpawnThroughput(), 0.001)
}

func TestResourceSampler(t *testing.T) {
	t.Parallel()

	s, err := NewResourceSampler(10 * time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	require.Positive(t, s.PeakRSS())
	require.Positive(t, s.PeakGoroutines())

	r := s.Fill(Result{})
	require.Equal(t, s.PeakRSS(), r.PeakRSS)
	require.Equal(t, s.PeakGoroutines(), r.PeakGoroutines)
}

func TestPrintReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintReport(&buf, Result{
		RunID:          "run-1",
		Runtime:        "goroutine",
		Tasks:          10000,
		SpawnDuration:  5 * time.Millisecond,
		WallTime:       10*time.Second + 3*time.Millisecond,
		Spawned:        10000,
		Woken:          10000,
		LatenessP50:    time.Millisecond,
		PeakRSS:        64 * 1000 * 1000,
		PeakGoroutines: 10004,
	})
	out := buf.String()
	require.Contains(t, out, "goroutine runtime, 10,000 tasks (run run-1)")
	require.Contains(t, out, "Woken: 10000/10000")
	require.Contains(t, out, "Wall time: 10.003s")
	require.Contains(t, out, "Peak RSS: 64 MB")
	require.Contains(t, out, "Peak goroutines: 10,004")
}
