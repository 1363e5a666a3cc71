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

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/cmd/luaufmt/opts"
	"github.com/walteh/luaufmt/pkg/bridge"
	"github.com/walteh/luaufmt/pkg/tool"
)

type ensureResult struct {
	handle tool.Handle
	err    error
}

// 🚀 Bootstrap resolves the formatter before anything interactive starts. The
// download honors ctx and tool.download_timeout; there are no retries.
func Bootstrap(ctx context.Context, o *opts.RootOpts) (tool.Handle, error) {
	if h, ok := o.Acquirer.Handle(); ok {
		return h, nil
	}

	if d := o.Config.Tool.DownloadTimeoutDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var spinner *pterm.SpinnerPrinter
	if !o.NoSpinner {
		spinner, _ = pterm.DefaultSpinner.
			WithRemoveWhenDone(false).
			WithWriter(os.Stderr).
			Start("Locating " + o.Config.Tool.Name + "...")
	}

	task := bridge.NewTask[ensureResult]("bootstrap")
	task.Start(ctx, func(ctx context.Context) ensureResult {
		h, err := o.Acquirer.Ensure(ctx)
		return ensureResult{handle: h, err: err}
	})

	res, err := task.Await(ctx)
	if err != nil {
		task.Cancel()
		res.err = err
	}

	if res.err != nil {
		msg := "Could not get " + o.Config.Tool.Name
		if errors.Is(res.err, tool.ErrNoBuild) {
			msg = "No " + o.Config.Tool.Name + " build at " + o.Acquirer.URL()
		}
		if spinner != nil {
			spinner.Fail(msg)
		}
		zerolog.Ctx(ctx).Error().Err(res.err).Str("url", o.Acquirer.URL()).Msg("bootstrap failed")
		return tool.Handle{}, errors.Errorf("getting formatter: %w", res.err)
	}

	if spinner != nil {
		spinner.Success("Using " + res.handle.String())
	}
	return res.handle, nil
}
