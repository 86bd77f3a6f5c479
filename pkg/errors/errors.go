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

package errors

import (
	"github.com/pingcap/errors"
)

// errors
var (
	// ErrInvalidInvocation covers every way the command line can be wrong:
	// a missing task count, a task count that is not an integer, a task count
	// outside the accepted range and unparsable flags.
	ErrInvalidInvocation = errors.Normalize(
		"invalid invocation: %s",
		errors.RFCCodeText("SLEEPBENCH:ErrInvalidInvocation"),
	)
	ErrInvalidConfig = errors.Normalize(
		"invalid config: %s",
		errors.RFCCodeText("SLEEPBENCH:ErrInvalidConfig"),
	)
	ErrUnknownRuntime = errors.Normalize(
		"unknown runtime kind: %s",
		errors.RFCCodeText("SLEEPBENCH:ErrUnknownRuntime"),
	)
	ErrStatusServer = errors.Normalize(
		"status server failed: %s",
		errors.RFCCodeText("SLEEPBENCH:ErrStatusServer"),
	)
	ErrLoggerInit = errors.Normalize(
		"init logger failed",
		errors.RFCCodeText("SLEEPBENCH:ErrLoggerInit"),
	)
	ErrInvalidLogLevel = errors.Normalize(
		"invalid log level: %s",
		errors.RFCCodeText("SLEEPBENCH:ErrInvalidLogLevel"),
	)
	ErrResourceSampler = errors.Normalize(
		"resource sampler failed",
		errors.RFCCodeText("SLEEPBENCH:ErrResourceSampler"),
	)
)
