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

package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pingcap/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"sleepbench/pkg/errors"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{input: "debug", expected: zapcore.DebugLevel},
		{input: "INFO", expected: zapcore.InfoLevel},
		{input: " warn ", expected: zapcore.WarnLevel},
		{input: "error", expected: zapcore.ErrorLevel},
		{input: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		lvl, err := ParseLevel(tt.input)
		if tt.wantErr {
			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrInvalidLogLevel))
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.expected, lvl)
	}
}

// The tests below replace the process wide logger so they do not run in parallel.

func TestInitLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleepbench.log")
	sync, err := InitLogger(&Config{Level: "debug", File: path})
	require.NoError(t, err)
	log.Info("hello from test")
	sync()

	require.Equal(t, zapcore.DebugLevel, log.GetLevel())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "hello from test")
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	_, err := InitLogger(&Config{Level: "loud"})
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInvalidLogLevel))
}

func TestSetLogLevel(t *testing.T) {
	sync, err := InitLogger(nil)
	require.NoError(t, err)
	defer sync()

	require.NoError(t, SetLogLevel("warn"))
	require.Equal(t, zapcore.WarnLevel, log.GetLevel())
	require.Error(t, SetLogLevel("nope"))
	require.Equal(t, zapcore.WarnLevel, log.GetLevel())
	require.NoError(t, SetLogLevel("info"))
}
