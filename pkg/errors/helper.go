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

// Re-exported helpers so callers only need this package.
var (
	New      = errors.New
	Errorf   = errors.Errorf
	Trace    = errors.Trace
	Annotate = errors.Annotate
	Cause    = errors.Cause
)

// WrapError generates a new error based on given `*errors.Error`, wraps the err
// as cause error.
// If given `err` is nil, returns a nil error, which a the different behavior
// against `Wrap` function in pingcap/errors.
func WrapError(rfcError *errors.Error, err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return rfcError.Wrap(err).GenWithStackByArgs(args...)
}

// RFCCode returns a RFCCode for an error. It walks the wrap chain so an
// annotated or traced RFC error still reports its own code.
func RFCCode(err error) (errors.RFCErrorCode, bool) {
	type rfcCoder interface {
		RFCCode() errors.RFCErrorCode
	}
	for err != nil {
		if terr, ok := err.(rfcCoder); ok {
			return terr.RFCCode(), true
		}
		switch e := err.(type) {
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Cause() error }:
			err = e.Cause()
		default:
			return "", false
		}
	}
	return "", false
}

// Is reports whether err was generated from rfcError.
func Is(err error, rfcError *errors.Error) bool {
	if err == nil {
		return false
	}
	code, ok := RFCCode(err)
	return ok && code == rfcError.RFCCode()
}
