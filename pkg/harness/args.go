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
	"strconv"

	"sleepbench/pkg/errors"
)

// ResolveTaskCount reads the task count from the first positional argument.
// Any further arguments are ignored. The count must lie in [0, max].
func ResolveTaskCount(args []string, max int) (int, error) {
	if len(args) == 0 {
		return 0, errors.ErrInvalidInvocation.GenWithStackByArgs("no task count supplied")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.WrapError(errors.ErrInvalidInvocation, err,
			"task count "+strconv.Quote(args[0])+" is not an integer")
	}
	if n < 0 {
		return 0, errors.ErrInvalidInvocation.GenWithStackByArgs(
			"task count " + args[0] + " is negative")
	}
	if n > max {
		return 0, errors.ErrInvalidInvocation.GenWithStackByArgs(
			"task count " + args[0] + " exceeds max-task-count " + strconv.Itoa(max))
	}
	return n, nil
}
