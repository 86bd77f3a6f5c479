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

type goroutineRuntime struct {
	wg        sync.WaitGroup
	closing   chan struct{}
	closeOnce sync.Once
}

func newGoroutineRuntime() *goroutineRuntime {
	return &goroutineRuntime{closing: make(chan struct{})}
}

func (r *goroutineRuntime) Name() RuntimeKind {
	return RuntimeGoroutine
}

func (r *goroutineRuntime) Sleep(d time.Duration, onWake func()) Task {
	task := newDelayTask()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			task.finish(onWake)
		case <-r.closing:
			task.release()
		}
	}()
	return task
}

// Close wakes every parked goroutine and waits for all of them to exit.
func (r *goroutineRuntime) Close() {
	r.closeOnce.Do(func() {
		close(r.closing)
	})
	r.wg.Wait()
}
