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

// Phase is the lifecycle stage of one run.
type Phase int32

const (
	PhaseParsing Phase = iota
	PhaseSpawning
	PhaseJoining
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseParsing:
		return "parsing"
	case PhaseSpawning:
		return "spawning"
	case PhaseJoining:
		return "joining"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
