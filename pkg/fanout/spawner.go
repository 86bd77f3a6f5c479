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

package fanout

import (
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// SpawnConfig configures a Spawner.
type SpawnConfig struct {
	// Delay is the suspension of every task. 0 means DelayDuration.
	Delay time.Duration
	// SpawnRate limits creation to this many tasks per second. 0 means unlimited.
	SpawnRate float64
	// Observer may be nil.
	Observer Observer
}

// Spawner fans a task count out into delay operations on a Runtime.
type Spawner struct {
	rt       Runtime
	delay    time.Duration
	limiter  *rate.Limiter
	observer Observer

	spawned   atomic.Int64
	completed atomic.Int64
}

// NewSpawner creates a spawner for rt.
func NewSpawner(rt Runtime, cfg SpawnConfig) *Spawner {
	s := &Spawner{
		rt:       rt,
		delay:    cfg.Delay,
		observer: cfg.Observer,
	}
	if s.delay <= 0 {
		s.delay = DelayDuration
	}
	if cfg.SpawnRate > 0 {
		burst := int(math.Ceil(cfg.SpawnRate / 100))
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.SpawnRate), burst)
	}
	return s
}

// Delay returns the suspension every spawned task uses.
func (s *Spawner) Delay() time.Duration {
	return s.delay
}

// Spawn creates count delay operations and returns them in creation order.
// It returns as soon as the last one is scheduled, without waiting for any
// of them.
func (s *Spawner) Spawn(count int) []Task {
	if count <= 0 {
		return nil
	}
	tasks := make([]Task, 0, count)
	for i := 0; i < count; i++ {
		if s.limiter != nil {
			// Reserve never fails with a positive burst, so pacing only delays.
			time.Sleep(s.limiter.Reserve().Delay())
		}
		tasks = append(tasks, s.rt.Sleep(s.delay, s.wakeFunc()))
		s.spawned.Add(1)
	}
	return tasks
}

func (s *Spawner) wakeFunc() func() {
	if s.observer == nil {
		return func() {
			s.completed.Add(1)
		}
	}
	s.observer.OnSpawn()
	deadline := time.Now().Add(s.delay)
	return func() {
		s.observer.OnWake(time.Since(deadline))
		s.completed.Add(1)
	}
}

// Spawned returns how many tasks have been created so far.
func (s *Spawner) Spawned() int64 {
	return s.spawned.Load()
}

// Completed returns how many tasks have woken up so far.
func (s *Spawner) Completed() int64 {
	return s.completed.Load()
}
