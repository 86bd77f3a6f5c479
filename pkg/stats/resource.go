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
	"context"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pingcap/log"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
	"sleepbench/pkg/errors"
)

// ResourceSampler periodically samples the resident set size and goroutine
// count of the current process and keeps the peaks. Memory grows linearly
// with the task count, so the peaks are part of the benchmark result.
type ResourceSampler struct {
	proc     *process.Process
	interval time.Duration

	peakRSS        atomic.Uint64
	peakGoroutines atomic.Int64
}

// NewResourceSampler creates a sampler for the current process.
func NewResourceSampler(interval time.Duration) (*ResourceSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, errors.WrapError(errors.ErrResourceSampler, err)
	}
	return &ResourceSampler{proc: proc, interval: interval}, nil
}

// Run samples until ctx is done. It takes one last sample before returning so
// a short run still reports its peak.
func (s *ResourceSampler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sample(ctx)
	for {
		select {
		case <-ctx.Done():
			s.Sample(context.Background())
			return nil
		case <-ticker.C:
			s.Sample(ctx)
		}
	}
}

// Sample takes a single measurement.
func (s *ResourceSampler) Sample(ctx context.Context) {
	goroutines := int64(runtime.NumGoroutine())
	for {
		peak := s.peakGoroutines.Load()
		if goroutines <= peak || s.peakGoroutines.CompareAndSwap(peak, goroutines) {
			break
		}
	}

	mem, err := s.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		log.Debug("sample process memory failed", zap.Error(err))
		return
	}
	for {
		peak := s.peakRSS.Load()
		if mem.RSS <= peak || s.peakRSS.CompareAndSwap(peak, mem.RSS) {
			break
		}
	}
}

// PeakRSS returns the largest resident set size seen, in bytes.
func (s *ResourceSampler) PeakRSS() uint64 {
	return s.peakRSS.Load()
}

// PeakGoroutines returns the largest goroutine count seen.
func (s *ResourceSampler) PeakGoroutines() int64 {
	return s.peakGoroutines.Load()
}

// Fill copies the peaks into r.
func (s *ResourceSampler) Fill(r Result) Result {
	r.PeakRSS = s.PeakRSS()
	r.PeakGoroutines = s.PeakGoroutines()
	return r
}
