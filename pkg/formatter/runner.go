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

// Package formatter runs the luau-format executable against one input file.
package formatter

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/pkg/tool"
)

// ❌ ProcessError is a formatter run that exited non-zero. Its message is the
// process's stderr, unmodified.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	return e.Stderr
}

// 📄 Outcome is the result of one formatter run: either Text or Err is set
type Outcome struct {
	Text string
	Err  error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Invoker runs the formatter. App depends on this rather than on Runner.
type Invoker interface {
	Invoke(ctx context.Context, h tool.Handle, input string, opts Options) Outcome
}

// 🏃 Runner executes the formatter as a child process and waits for it
type Runner struct {
	// Env, when non-nil, replaces the child's environment.
	Env []string
}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Invoke(ctx context.Context, h tool.Handle, input string, opts Options) Outcome {
	args := Args(input, opts)
	logger := zerolog.Ctx(ctx).With().Str("tool", h.Path()).Strs("args", args).Logger()

	cmd := exec.CommandContext(ctx, h.Path(), args...)
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug().Int("exit_code", exitErr.ExitCode()).Msg("formatter failed")
			return Outcome{Err: &ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   decode(stderr.Bytes()),
			}}
		}
		logger.Error().Err(err).Msg("launching formatter")
		return Outcome{Err: errors.WithStack(err)}
	}

	logger.Debug().Int("bytes", stdout.Len()).Msg("formatter succeeded")
	return Outcome{Text: decode(stdout.Bytes())}
}

// decode replaces invalid UTF-8 with U+FFFD
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
