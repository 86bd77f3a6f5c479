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
	"time"
)

// Observer is notified about every task the spawner creates. Implementations
// must be safe for concurrent use: OnWake runs on the goroutine that resolves
// the task.
type Observer interface {
	OnSpawn()
	// OnWake reports how far past its deadline the task woke up.
	OnWake(lateness time.Duration)
}

// multiObserver fans observer callbacks out to several observers.
type multiObserver []Observer

// Observers combines observers into one. Nil entries are dropped; nil is
// returned when nothing is left so the spawner keeps its no-observer path.
func Observers(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

func (m multiObserver) OnSpawn() {
	for _, o := range m {
		o.OnSpawn()
	}
}

func (m multiObserver) OnWake(lateness time.Duration) {
	for _, o := range m {
		o.OnWake(lateness)
	}
}
