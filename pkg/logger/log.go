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
	"strings"

	"github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sleepbench/pkg/errors"
)

// Config serializes log related config in toml/json.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`
	// File is the log file path. Empty means stdout.
	File string `toml:"file" json:"file"`
}

// DefaultLogLevel is used when no level is configured.
const DefaultLogLevel = "info"

// NewDefaultConfig returns the default log config.
func NewDefaultConfig() *Config {
	return &Config{Level: DefaultLogLevel}
}

// ParseLevel parses a textual level into a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return lvl, errors.ErrInvalidLogLevel.GenWithStackByArgs(level)
	}
	return lvl, nil
}

// InitLogger builds the global pingcap/log logger from cfg and replaces the
// process wide logger with it. The returned function flushes buffered
// entries and must be called before the process exits.
func InitLogger(cfg *Config) (func(), error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	level := cfg.Level
	if level == "" {
		level = DefaultLogLevel
	}
	if _, err := ParseLevel(level); err != nil {
		return nil, err
	}

	pclogConfig := &log.Config{
		Level: level,
		File: log.FileLogConfig{
			Filename: cfg.File,
		},
	}
	lg, props, err := log.InitLogger(pclogConfig)
	if err != nil {
		return nil, errors.WrapError(errors.ErrLoggerInit, err)
	}
	log.ReplaceGlobals(lg, props)
	return func() {
		_ = lg.Sync()
	}, nil
}

// SetLogLevel changes the level of the global logger at runtime.
func SetLogLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if log.GetLevel() == lvl {
		return nil
	}
	log.SetLevel(lvl)
	log.Info("log level changed", zap.Stringer("level", lvl))
	return nil
}
