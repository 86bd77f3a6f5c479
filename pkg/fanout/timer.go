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
)

type timerTask struct {
	*delayTask
	timer *time.Timer
}

type timerRuntime struct {
	mu      sync.Mutex
	closed  bool
	pending []*timerTask
}

func newTimerRuntime() *timerRuntime {
	return &timerRuntime{}
}

func (r *timerRuntime) Name() RuntimeKind {
	return RuntimeTimer
}

func (r *timerRuntime) Sleep(d time.Duration, onWake func()) Task {
	task := &timerTask{delayTask: newDelayTask()}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		task.release()
		return task
	}
	// The timer is created under the lock so Close never sees a task without one.
	task.timer = time.AfterFunc(d, func() {
		task.finish(onWake)
	})
	r.pending = append(r.pending, task)
	return task
}

// Close stops every timer that has not fired yet and resolves its task.
func (r *timerRuntime) Close() {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.closed = true
	r.mu.Unlock()

	for _, task := range pending {
		if task.timer.Stop() {
			task.release()
		}
	}
	// A timer whose callback is already running resolves its own task; wait
	// for those so every task is resolved once Close returns.
	for _, task := range pending {
		<-task.Done()
	}
}
