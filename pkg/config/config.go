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

package config

import (
	"net"
	"path/filepath"
	"strings"
	"time"

	"sleepbench/pkg/errors"
	"sleepbench/pkg/logger"
)

const (
	// DefaultMaxTaskCount bounds the task count accepted on the command line.
	DefaultMaxTaskCount = 10_000_000
	// DefaultSampleInterval is how often process resources are sampled.
	DefaultSampleInterval = 200 * time.Millisecond

	minSampleInterval = 10 * time.Millisecond
)

// Config is the run configuration shared by both harness programs.
type Config struct {
	// StatusAddr is the listen address of the status server. Empty disables it.
	StatusAddr string `toml:"status-addr" json:"status_addr"`
	// MaxTaskCount is the largest task count the argument resolver accepts.
	MaxTaskCount int `toml:"max-task-count" json:"max_task_count"`
	// SpawnRate limits task creation to this many tasks per second. 0 means unlimited.
	SpawnRate float64 `toml:"spawn-rate" json:"spawn_rate"`
	// MaxProcs sets GOMAXPROCS. 0 sizes it from the cgroup CPU quota.
	MaxProcs int `toml:"max-procs" json:"max_procs"`

	Log   *logger.Config `toml:"log" json:"log"`
	Stats *StatsConfig   `toml:"stats" json:"stats"`
}

// StatsConfig controls the optional wake lateness and resource collection.
type StatsConfig struct {
	Enabled        bool         `toml:"enabled" json:"enabled"`
	SampleInterval TomlDuration `toml:"sample-interval" json:"sample_interval"`
}

// NewDefaultConfig returns a config with every field set to its default.
func NewDefaultConfig() *Config {
	return &Config{
		MaxTaskCount: DefaultMaxTaskCount,
		Log:          logger.NewDefaultConfig(),
		Stats: &StatsConfig{
			SampleInterval: TomlDuration(DefaultSampleInterval),
		},
	}
}

// Load reads a TOML config file on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if filepath.Ext(path) != ".toml" {
		return nil, errors.ErrInvalidConfig.GenWithStackByArgs("config must be a .toml file: " + path)
	}
	if err := StrictDecodeFile(path, "sleepbench", cfg); err != nil {
		return nil, errors.WrapError(errors.ErrInvalidConfig, err, "decode "+path)
	}
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateAndAdjust fills missing sections with defaults and rejects values
// the harness cannot run with.
func (c *Config) ValidateAndAdjust() error {
	if c.Log == nil {
		c.Log = logger.NewDefaultConfig()
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = logger.DefaultLogLevel
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.WrapError(errors.ErrInvalidConfig, err, "log.level")
	}
	if c.Stats == nil {
		c.Stats = &StatsConfig{}
	}
	if c.Stats.SampleInterval == 0 {
		c.Stats.SampleInterval = TomlDuration(DefaultSampleInterval)
	}
	if time.Duration(c.Stats.SampleInterval) < minSampleInterval {
		return errors.ErrInvalidConfig.GenWithStackByArgs(
			"stats.sample-interval must be >= " + minSampleInterval.String())
	}

	if c.MaxTaskCount <= 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("max-task-count must be > 0")
	}
	if c.SpawnRate < 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("spawn-rate must be >= 0")
	}
	if c.MaxProcs < 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("max-procs must be >= 0")
	}
	c.StatusAddr = strings.TrimSpace(c.StatusAddr)
	if c.StatusAddr != "" {
		if _, _, err := net.SplitHostPort(c.StatusAddr); err != nil {
			return errors.WrapError(errors.ErrInvalidConfig, err, "status-addr")
		}
	}
	return nil
}
