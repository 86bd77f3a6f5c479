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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"sleepbench/pkg/config"
	"sleepbench/pkg/errors"
	"sleepbench/pkg/fanout"
	"sleepbench/pkg/logger"
	"sleepbench/pkg/stats"
)

const (
	FlagConfig       = "config"
	FlagLogLevel     = "log-level"
	FlagLogFile      = "log-file"
	FlagStatusAddr   = "status-addr"
	FlagMaxTaskCount = "max-task-count"
	FlagSpawnRate    = "spawn-rate"
	FlagMaxProcs     = "max-procs"
	FlagStats        = "stats"
)

type options struct {
	kind fanout.RuntimeKind
	// delay overrides fanout.DelayDuration in tests.
	delay time.Duration

	configPath   string
	logLevel     string
	logFile      string
	statusAddr   string
	maxTaskCount int
	spawnRate    float64
	maxProcs     int
	stats        bool
}

// Main runs the benchmark program of the given runtime kind and returns its
// exit code.
func Main(kind fanout.RuntimeKind, args []string) int {
	return execute(&options{kind: kind}, args, os.Stdout, os.Stderr)
}

func execute(o *options, args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(o)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFromError(err, ExitCodeExecuteFailed)
	}
	return ExitCodeSuccess
}

// NewCommand creates the root command of the program for kind.
func NewCommand(kind fanout.RuntimeKind) *cobra.Command {
	return newCommand(&options{kind: kind})
}

func newCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("sleepbench-%s [flags] <task_count>", o.kind),
		Short: fmt.Sprintf("Spawn task_count sleeping tasks on the %s runtime and wait for all of them", o.kind),
		Long: fmt.Sprintf("Spawn task_count tasks on the %s runtime, each sleeping for %s, "+
			"then wait until every one of them has woken up.", o.kind, fanout.DelayDuration),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{
			Code: ExitCodeInvalidInvocation,
			Err:  errors.WrapError(errors.ErrInvalidInvocation, err, "parse flags"),
		}
	})

	flags := cmd.Flags()
	flags.StringVarP(&o.configPath, FlagConfig, "c", "", "configuration file path")
	flags.StringVar(&o.logLevel, FlagLogLevel, "", "log level: debug, info, warn, error")
	flags.StringVar(&o.logFile, FlagLogFile, "", "log file path, stdout if empty")
	flags.StringVar(&o.statusAddr, FlagStatusAddr, "", "serve /status, /metrics and /api/v1/log on this address")
	flags.IntVar(&o.maxTaskCount, FlagMaxTaskCount, config.DefaultMaxTaskCount, "largest accepted task count")
	flags.Float64Var(&o.spawnRate, FlagSpawnRate, 0, "tasks spawned per second, 0 for unlimited")
	flags.IntVar(&o.maxProcs, FlagMaxProcs, 0, "GOMAXPROCS, 0 to size it from the cgroup CPU quota")
	flags.BoolVar(&o.stats, FlagStats, false, "collect wake lateness and resource peaks and print a report")
	return cmd
}

// loadConfig reads the config file and lets explicitly set flags override it.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed(FlagLogLevel) {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed(FlagLogFile) {
		cfg.Log.File = o.logFile
	}
	if flags.Changed(FlagStatusAddr) {
		cfg.StatusAddr = o.statusAddr
	}
	if flags.Changed(FlagMaxTaskCount) {
		cfg.MaxTaskCount = o.maxTaskCount
	}
	if flags.Changed(FlagSpawnRate) {
		cfg.SpawnRate = o.spawnRate
	}
	if flags.Changed(FlagMaxProcs) {
		cfg.MaxProcs = o.maxProcs
	}
	if flags.Changed(FlagStats) {
		cfg.Stats.Enabled = o.stats
	}
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return &ExitError{Code: ExitCodeInvalidConfig, Err: err}
	}
	taskCount, err := ResolveTaskCount(args, cfg.MaxTaskCount)
	if err != nil {
		return &ExitError{Code: ExitCodeInvalidInvocation, Err: err}
	}

	syncLog, err := logger.InitLogger(cfg.Log)
	if err != nil {
		return &ExitError{Code: ExitCodeExecuteFailed, Err: err}
	}
	defer syncLog()

	b := newBench(o.kind, taskCount, cfg, o.delay)
	result, err := b.run(cmd.Context())
	if err != nil {
		return &ExitError{Code: ExitCodeExecuteFailed, Err: err}
	}
	if cfg.Stats.Enabled {
		stats.PrintReport(cmd.OutOrStdout(), result)
	}
	return nil
}
