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
	"fmt"
	"runtime"

	"github.com/pingcap/log"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// setMaxProcs applies the max-procs setting and returns a function that
// restores the previous GOMAXPROCS. 0 sizes it from the cgroup CPU quota.
func setMaxProcs(n int) func() {
	if n > 0 {
		prev := runtime.GOMAXPROCS(n)
		log.Info("set GOMAXPROCS", zap.Int("maxProcs", n), zap.Int("previous", prev))
		return func() {
			runtime.GOMAXPROCS(prev)
		}
	}

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Info(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		// GOMAXPROCS is left untouched on failure.
		log.Warn("failed to set GOMAXPROCS from cgroup quota", zap.Error(err))
	}
	return undo
}
