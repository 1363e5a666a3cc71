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

package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/cmd/luaufmt/opts"
	"github.com/walteh/luaufmt/pkg/app"
	"github.com/walteh/luaufmt/pkg/dialog"
	"github.com/walteh/luaufmt/pkg/formatter"
	"github.com/walteh/luaufmt/pkg/ui"
)

// NewUICmd creates the ui command
func NewUICmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive formatter",
		Long: `ui makes sure luau-format is available, downloading it on first run,
then opens the editor. Logs go to the log file while the editor is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunUI(cmd.Context(), o)
		},
	}

	return cmd
}

// RunUI is the default action of the root command.
func RunUI(ctx context.Context, o *opts.RootOpts) error {
	h, err := Bootstrap(ctx, o)
	if err != nil {
		return err
	}

	f, err := openLogFile(o.Config.Log.File)
	if err != nil {
		return err
	}
	defer f.Close()

	logger := zerolog.New(f).Level(o.LogLevel).With().Timestamp().Str("command", "ui").Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().Str("tool", h.String()).Msg("starting ui")

	a := app.New(h, formatter.NewRunner(), dialog.NewZenity(), app.Config{
		SaveFilename: o.Config.Editor.SaveFilename,
		WatchInput:   o.Config.Editor.WatchInput,
		Options:      o.Config.Options,
	})
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing app")
		}
	}()

	if err := ui.Run(ctx, a, o.Config.UI.FrameIntervalDuration()); err != nil {
		logger.Error().Err(err).Msg("ui exited")
		return err
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Errorf("opening log file: %w", err)
	}
	return f, nil
}
