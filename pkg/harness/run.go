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

package harness

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sleepbench/api"
	"sleepbench/pkg/config"
	"sleepbench/pkg/errors"
	"sleepbench/pkg/fanout"
	"sleepbench/pkg/metrics"
	"sleepbench/pkg/stats"
)

// bench is one run of the fan-out benchmark. It implements api.StatusProvider.
type bench struct {
	runID     string
	kind      fanout.RuntimeKind
	taskCount int
	cfg       *config.Config
	delay     time.Duration

	phase   atomic.Int32
	spawner *fanout.Spawner
}

func newBench(kind fanout.RuntimeKind, taskCount int, cfg *config.Config, delay time.Duration) *bench {
	return &bench{
		runID:     uuid.NewString(),
		kind:      kind,
		taskCount: taskCount,
		cfg:       cfg,
		delay:     delay,
	}
}

func (b *bench) setPhase(p Phase) {
	b.phase.Store(int32(p))
}

func (b *bench) Phase() Phase {
	return Phase(b.phase.Load())
}

// Status implements api.StatusProvider.
func (b *bench) Status() api.Status {
	s := api.Status{
		RunID:     b.runID,
		Runtime:   string(b.kind),
		TaskCount: b.taskCount,
		Phase:     b.Phase().String(),
	}
	if b.spawner != nil {
		s.Spawned = b.spawner.Spawned()
		s.Completed = b.spawner.Completed()
	}
	return s
}

// run spawns the tasks, joins them and tears every resource down again,
// whichever way it returns.
func (b *bench) run(ctx context.Context) (stats.Result, error) {
	result := stats.Result{
		RunID:   b.runID,
		Runtime: string(b.kind),
		Tasks:   b.taskCount,
	}

	undoProcs := setMaxProcs(b.cfg.MaxProcs)
	defer undoProcs()

	rt, err := fanout.NewRuntime(b.kind)
	if err != nil {
		return result, errors.Trace(err)
	}
	defer rt.Close()

	var (
		observers  []fanout.Observer
		fanoutObs  *metrics.FanoutObserver
		wakeStats  *stats.WakeStats
		sampler    *stats.ResourceSampler
		server     *api.Server
		registry   = prometheus.NewRegistry()
		statusAddr = b.cfg.StatusAddr
	)
	if statusAddr != "" {
		metrics.InitMetrics(registry)
		fanoutObs = metrics.NewFanoutObserver(string(b.kind))
		defer fanoutObs.Close()
		observers = append(observers, fanoutObs)
	}
	if b.cfg.Stats.Enabled {
		wakeStats = stats.NewWakeStats()
		observers = append(observers, wakeStats)
		sampler, err = stats.NewResourceSampler(time.Duration(b.cfg.Stats.SampleInterval))
		if err != nil {
			return result, errors.Trace(err)
		}
	}

	b.spawner = fanout.NewSpawner(rt, fanout.SpawnConfig{
		Delay:     b.delay,
		SpawnRate: b.cfg.SpawnRate,
		Observer:  fanout.Observers(observers...),
	})
	if statusAddr != "" {
		server, err = api.NewServer(statusAddr, b, registry)
		if err != nil {
			return result, errors.Trace(err)
		}
	}

	log.Info("sleep benchmark started",
		zap.String("runID", b.runID),
		zap.String("runtime", string(b.kind)),
		zap.Int("taskCount", b.taskCount),
		zap.Duration("delay", b.spawner.Delay()),
		zap.Float64("spawnRate", b.cfg.SpawnRate),
		zap.Bool("stats", b.cfg.Stats.Enabled))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	if server != nil {
		g.Go(func() error {
			return server.Run(gctx)
		})
	}
	if sampler != nil {
		g.Go(func() error {
			return sampler.Run(gctx)
		})
	}
	g.Go(func() error {
		// The siblings only live as long as the fan-out.
		defer cancel()
		result = b.fanOut(result, fanoutObs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return result, errors.Trace(err)
	}

	if wakeStats != nil {
		result = wakeStats.Snapshot(result)
	}
	if sampler != nil {
		result = sampler.Fill(result)
	}
	log.Info("sleep benchmark finished",
		zap.String("runID", b.runID),
		zap.String("runtime", string(b.kind)),
		zap.Int("taskCount", b.taskCount),
		zap.Duration("spawnDuration", result.SpawnDuration),
		zap.Duration("wallTime", result.WallTime),
		zap.Int64("completed", b.spawner.Completed()))
	return result, nil
}

// fanOut is the spawning and joining phases. It cannot fail.
func (b *bench) fanOut(result stats.Result, m *metrics.FanoutObserver) stats.Result {
	start := time.Now()
	b.setPhase(PhaseSpawning)
	tasks := b.spawner.Spawn(b.taskCount)
	result.SpawnDuration = time.Since(start)
	log.Info("all delay tasks spawned",
		zap.Int("taskCount", len(tasks)),
		zap.Duration("spawnDuration", result.SpawnDuration))

	b.setPhase(PhaseJoining)
	fanout.JoinAll(tasks)
	result.WallTime = time.Since(start)
	b.setPhase(PhaseTerminated)

	if m != nil {
		m.ObservePhase(PhaseSpawning.String(), result.SpawnDuration)
		m.ObservePhase(PhaseJoining.String(), result.WallTime-result.SpawnDuration)
	}
	return result
}
