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
	"sync"
	"time"

	"sleepbench/pkg/errors"
)

// DelayDuration is how long every spawned task stays suspended.
const DelayDuration = 10 * time.Second

// RuntimeKind names a delay scheduling strategy.
type RuntimeKind string

const (
	// RuntimeGoroutine parks one goroutine per task on its own timer.
	RuntimeGoroutine RuntimeKind = "goroutine"
	// RuntimeTimer registers one runtime timer callback per task. No goroutine
	// exists for a task until its timer fires.
	RuntimeTimer RuntimeKind = "timer"
)

// Task is the handle of one delay operation.
type Task interface {
	// Done is closed once the delay has resolved.
	Done() <-chan struct{}
}

// Runtime schedules delay operations.
//
// Sleep never fails and never blocks the caller. onWake, when not nil, runs
// once when the delay elapses and before the task is marked done. Close is
// the teardown of the runtime: every task that is still pending is resolved
// without running its onWake. Close is idempotent.
type Runtime interface {
	Name() RuntimeKind
	Sleep(d time.Duration, onWake func()) Task
	Close()
}

// NewRuntime constructs the runtime of the given kind.
func NewRuntime(kind RuntimeKind) (Runtime, error) {
	switch kind {
	case RuntimeGoroutine:
		return newGoroutineRuntime(), nil
	case RuntimeTimer:
		return newTimerRuntime(), nil
	default:
		return nil, errors.ErrUnknownRuntime.GenWithStackByArgs(string(kind))
	}
}

// delayTask is the Task shared by both runtimes.
type delayTask struct {
	done    chan struct{}
	resolve sync.Once
}

func newDelayTask() *delayTask {
	return &delayTask{done: make(chan struct{})}
}

func (t *delayTask) Done() <-chan struct{} {
	return t.done
}

func (t *delayTask) finish(onWake func()) {
	t.resolve.Do(func() {
		if onWake != nil {
			onWake()
		}
		close(t.done)
	})
}

func (t *delayTask) release() {
	t.resolve.Do(func() {
		close(t.done)
	})
}
