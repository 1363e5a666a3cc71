// Copyright 2025 walteh LLC
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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/cmd/luaufmt/commands"
	"github.com/walteh/luaufmt/cmd/luaufmt/opts"
	"github.com/walteh/luaufmt/pkg/config"
	"github.com/walteh/luaufmt/pkg/log"
	"github.com/walteh/luaufmt/pkg/tool"
)

var (
	// Flags
	configFile string
	debugLog   bool
	noSpinner  bool
)

// newRootCmd builds the command tree. Shared options are filled in by
// PersistentPreRunE, after flags are parsed.
func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "luaufmt",
		Short: "A front end for luau-format",
		Long: `luaufmt opens a file, runs it through luau-format with a chosen set of
transformations, lets you edit the result, and saves it back out.

luau-format itself is downloaded into ~/.luau-format-gui on first run when it
is not already on PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newRootOpts(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunUI(cmd.Context(), rootOpts)
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewUICmd(rootOpts),
		commands.NewFetchCmd(rootOpts),
		commands.NewFormatCmd(rootOpts),
		commands.NewReleaseCmd(rootOpts, nil),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: ~/.config/luaufmt/config.{yaml,yml,hcl,json})")
	cmd.PersistentFlags().BoolVarP(&debugLog, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&noSpinner, "no-spinner", false, "do not show a spinner while locating luau-format")
}

// setupLogging returns a console logger on stderr at the given level
func setupLogging(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newRootOpts loads config and fills o, returning ctx with the logger attached
func newRootOpts(ctx context.Context, o *opts.RootOpts) (context.Context, error) {
	level := zerolog.InfoLevel
	if debugLog {
		level = zerolog.DebugLevel
	}
	logger := setupLogging(level)
	ctx = logger.WithContext(ctx)

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return ctx, errors.Errorf("loading config: %w", err)
	}

	if !debugLog {
		level = cfg.Log.ZerologLevel()
		logger = logger.Level(level)
		ctx = logger.WithContext(ctx)
	}

	acq, err := tool.NewAcquirer(cfg.AcquirerOptions())
	if err != nil {
		return ctx, errors.Errorf("creating acquirer: %w", err)
	}

	o.Config = cfg
	o.Acquirer = acq
	o.LogLevel = level
	o.Console = log.New(os.Stderr, logger)
	o.NoSpinner = noSpinner

	return ctx, nil
}
