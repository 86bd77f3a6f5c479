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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TaskSpawnedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sleepbench",
			Subsystem: "fanout",
			Name:      "task_spawned_count",
			Help:      "The number of delay tasks spawned.",
		}, []string{"runtime"})

	TaskCompletedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sleepbench",
			Subsystem: "fanout",
			Name:      "task_completed_count",
			Help:      "The number of delay tasks that woke up.",
		}, []string{"runtime"})

	TaskInflightGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sleepbench",
			Subsystem: "fanout",
			Name:      "task_inflight",
			Help:      "The number of delay tasks spawned but not woken yet.",
		}, []string{"runtime"})

	// WakeLatenessHistogram records how far past its deadline a task woke up.
	WakeLatenessHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sleepbench",
			Subsystem: "fanout",
			Name:      "wake_lateness_seconds",
			Help:      "Bucketed histogram of delay task wake lateness.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2.0, 20), // 50us ~ 26s
		}, []string{"runtime"})

	// PhaseDurationGauge records how long each run phase took.
	PhaseDurationGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sleepbench",
			Subsystem: "fanout",
			Name:      "phase_duration_seconds",
			Help:      "Duration of the spawning and joining phases of the last run.",
		}, []string{"runtime", "phase"})
)

// InitMetrics registers all metrics in this file.
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(TaskSpawnedCounter)
	registry.MustRegister(TaskCompletedCounter)
	registry.MustRegister(TaskInflightGauge)
	registry.MustRegister(WakeLatenessHistogram)
	registry.MustRegister(PhaseDurationGauge)
}

// FanoutObserver feeds spawner callbacks into the fanout metrics.
// It implements fanout.Observer.
type FanoutObserver struct {
	runtime string

	spawned   prometheus.Counter
	completed prometheus.Counter
	inflight  prometheus.Gauge
	lateness  prometheus.Observer
}

// NewFanoutObserver binds the fanout metrics to the runtime label.
func NewFanoutObserver(runtime string) *FanoutObserver {
	return &FanoutObserver{
		runtime:   runtime,
		spawned:   TaskSpawnedCounter.WithLabelValues(runtime),
		completed: TaskCompletedCounter.WithLabelValues(runtime),
		inflight:  TaskInflightGauge.WithLabelValues(runtime),
		lateness:  WakeLatenessHistogram.WithLabelValues(runtime),
	}
}

// OnSpawn implements fanout.Observer.
func (o *FanoutObserver) OnSpawn() {
	o.spawned.Inc()
	o.inflight.Inc()
}

// OnWake implements fanout.Observer.
func (o *FanoutObserver) OnWake(lateness time.Duration) {
	o.completed.Inc()
	o.inflight.Dec()
	if lateness < 0 {
		lateness = 0
	}
	o.lateness.Observe(lateness.Seconds())
}

// ObservePhase records the duration of a finished phase.
func (o *FanoutObserver) ObservePhase(phase string, d time.Duration) {
	PhaseDurationGauge.WithLabelValues(o.runtime, phase).Set(d.Seconds())
}

// Close removes the label values of this observer.
func (o *FanoutObserver) Close() {
	TaskSpawnedCounter.DeleteLabelValues(o.runtime)
	TaskCompletedCounter.DeleteLabelValues(o.runtime)
	TaskInflightGauge.DeleteLabelValues(o.runtime)
	WakeLatenessHistogram.DeleteLabelValues(o.runtime)
	PhaseDurationGauge.DeletePartialMatch(prometheus.Labels{"runtime": o.runtime})
}
