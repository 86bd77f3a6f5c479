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

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestFanoutObserver(t *testing.T) {
	t.Parallel()

	const runtime = "observer-test"
	o := NewFanoutObserver(runtime)
	defer o.Close()

	for i := 0; i < 3; i++ {
		o.OnSpawn()
	}
	o.OnWake(5 * time.Millisecond)
	o.OnWake(-time.Millisecond)
	o.ObservePhase("spawning", 250*time.Millisecond)

	require.Equal(t, 3.0, testutil.ToFloat64(TaskSpawnedCounter.WithLabelValues(runtime)))
	require.Equal(t, 2.0, testutil.ToFloat64(TaskCompletedCounter.WithLabelValues(runtime)))
	require.Equal(t, 1.0, testutil.ToFloat64(TaskInflightGauge.WithLabelValues(runtime)))
	require.Equal(t, 0.25, testutil.ToFloat64(PhaseDurationGauge.WithLabelValues(runtime, "spawning")))
}

func TestFanoutObserverClose(t *testing.T) {
	t.Parallel()

	const runtime = "close-test"
	o := NewFanoutObserver(runtime)
	o.OnSpawn()
	o.ObservePhase("joining", time.Second)
	o.Close()

	require.False(t, TaskSpawnedCounter.DeleteLabelValues(runtime))
	require.False(t, PhaseDurationGauge.DeleteLabelValues(runtime, "joining"))
}

func TestInitMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	InitMetrics(registry)

	o := NewFanoutObserver("registry-test")
	defer o.Close()
	o.OnSpawn()

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "sleepbench_fanout_task_spawned_count")
	require.Contains(t, names, "sleepbench_fanout_task_inflight")
}
