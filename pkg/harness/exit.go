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
	stderrors "errors"

	"sleepbench/pkg/errors"
)

const (
	ExitCodeSuccess           = 0
	ExitCodeExecuteFailed     = 1
	ExitCodeInvalidInvocation = 2
	ExitCodeInvalidConfig     = 3
)

// ExitError carries the process exit code alongside the error that caused it.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFromError extracts the exit code from an ExitError anywhere in the
// chain. Errors without one are classified by their RFC code, and fallback is
// returned when nothing matches.
func exitCodeFromError(err error, fallback int) int {
	var ee *ExitError
	if stderrors.As(err, &ee) {
		return ee.Code
	}
	switch {
	case errors.Is(err, errors.ErrInvalidInvocation):
		return ExitCodeInvalidInvocation
	case errors.Is(err, errors.ErrInvalidConfig):
		return ExitCodeInvalidConfig
	}
	return fallback
}
