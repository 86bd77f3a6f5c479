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
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// PrintReport writes a human readable summary of r.
func PrintReport(w io.Writer, r Result) {
	fmt.Fprintf(w, "\n=== %s runtime, %s tasks (run %s) ===\n",
		r.Runtime, humanize.Comma(int64(r.Tasks)), r.RunID)
	fmt.Fprintf(w, "Spawn: %s (%.0f tasks/s)\n",
		r.SpawnDuration.Round(time.Microsecond), r.SpawnThroughput())
	fmt.Fprintf(w, "Wall time: %s\n", r.WallTime.Round(time.Millisecond))
	fmt.Fprintf(w, "Woken: %d/%d\n", r.Woken, r.Spawned)
	fmt.Fprintf(w, "Wake lateness avg %s  (p50/p95/p99/max: %s)\n",
		FormatDuration(r.LatenessAvg), r.LatenessSummary())
	if r.PeakRSS > 0 {
		fmt.Fprintf(w, "Peak RSS: %s", humanize.Bytes(r.PeakRSS))
		if r.Tasks > 0 {
			fmt.Fprintf(w, " (%s per task)", humanize.Bytes(r.PeakRSS/uint64(r.Tasks)))
		}
		fmt.Fprintln(w)
	}
	if r.PeakGoroutines > 0 {
		fmt.Fprintf(w, "Peak goroutines: %s\n", humanize.Comma(r.PeakGoroutines))
	}
}
