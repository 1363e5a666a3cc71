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

package tool

import (
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Prober reports whether an executable can be launched
type Prober interface {
	Probe(ctx context.Context, name string) error
}

type ProberFunc func(ctx context.Context, name string) error

func (f ProberFunc) Probe(ctx context.Context, name string) error { return f(ctx, name) }

// ExecProber runs the executable with no arguments. A process that started counts
// as available whatever its exit status; only a launch failure is an error.
type ExecProber struct {
	// Timeout bounds how long the probed process may run. Zero means no limit.
	Timeout time.Duration
}

func (p ExecProber) Probe(ctx context.Context, name string) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name)
	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		zerolog.Ctx(ctx).Debug().Str("name", name).Int("exit_code", exitErr.ExitCode()).Msg("probe exited non-zero, treating as available")
		return nil
	}

	return errors.Errorf("launching %s: %w", name, err)
}
