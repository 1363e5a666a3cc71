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

// Package app holds the state behind the luaufmt front end and advances it one
// frame at a time. Everything here is owned by the render goroutine; slow work
// runs on bridge tasks and is picked up by Frame.
package app

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/pkg/bridge"
	"github.com/walteh/luaufmt/pkg/dialog"
	"github.com/walteh/luaufmt/pkg/formatter"
	"github.com/walteh/luaufmt/pkg/tool"
	"github.com/walteh/luaufmt/pkg/watch"
)

const (
	DefaultSaveFilename = "formatted.lua"
	ErrorPrefix         = "An error occured: "
)

// ⚙️ Config holds the startup settings of an App
type Config struct {
	SaveFilename string
	WatchInput   bool
	Options      formatter.Options
}

type pickResult struct {
	path string
	err  error
}

// 🖼️ App is the per-frame driver behind the UI
type App struct {
	handle  tool.Handle
	invoker formatter.Invoker
	picker  dialog.Picker
	cfg     Config

	options   formatter.Options
	input     string
	formatted string
	editor    string
	editorRev uint64
	err       error
	saved     string

	open *bridge.Task[pickResult]
	save *bridge.Task[pickResult]

	watcher *watch.Watcher

	edits      int
	editsDirty bool
}

// 🏭 New creates an App for an already resolved formatter
func New(h tool.Handle, invoker formatter.Invoker, picker dialog.Picker, cfg Config) *App {
	if cfg.SaveFilename == "" {
		cfg.SaveFilename = DefaultSaveFilename
	}
	return &App{
		handle:  h,
		invoker: invoker,
		picker:  picker,
		cfg:     cfg,
		options: cfg.Options,
		open:    bridge.NewTask[pickResult]("open-dialog"),
		save:    bridge.NewTask[pickResult]("save-dialog"),
	}
}

// 📂 OpenFile shows the open dialog in the background. It does nothing while a
// previous open dialog is still pending.
func (a *App) OpenFile(ctx context.Context) bool {
	if a.open.Pending() {
		return false
	}
	a.err = nil

	picker := a.picker
	return a.open.Start(ctx, func(ctx context.Context) pickResult {
		path, err := picker.OpenFile(ctx)
		return pickResult{path: path, err: err}
	})
}

// 💾 SaveFile shows the save dialog in the background and writes the editor
// buffer, as it is now, to the chosen path.
func (a *App) SaveFile(ctx context.Context) bool {
	if a.save.Pending() {
		return false
	}
	a.err = nil

	picker := a.picker
	name := a.cfg.SaveFilename
	snapshot := a.editor
	return a.save.Start(ctx, func(ctx context.Context) pickResult {
		path, err := picker.SaveFile(ctx, name)
		if err != nil {
			return pickResult{err: err}
		}
		if err := os.WriteFile(path, []byte(snapshot), 0o644); err != nil {
			return pickResult{path: path, err: errors.WithStack(err)}
		}
		zerolog.Ctx(ctx).Info().Str("path", path).Int("bytes", len(snapshot)).Msg("saved editor buffer")
		return pickResult{path: path}
	})
}

// SetOption switches an option and re-runs the formatter when a file is open.
func (a *App) SetOption(ctx context.Context, opt formatter.Option, on bool) {
	a.options = a.options.Set(opt, on)
	a.format(ctx)
}

func (a *App) ToggleOption(ctx context.Context, opt formatter.Option) {
	a.SetOption(ctx, opt, !a.options.Get(opt))
}

// 🔄 ResetEditor throws away user edits and shows the last formatted text again.
func (a *App) ResetEditor() {
	a.setEditor(a.formatted)
}

// EditBuffer records a user edit. It never touches the formatted text.
func (a *App) EditBuffer(text string) {
	if text == a.editor {
		return
	}
	a.editor = text
	a.editsDirty = true
}

// 🎞️ Frame picks up whatever background work finished since the last frame.
// It never blocks on a dialog; it does block while the formatter runs.
func (a *App) Frame(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	if res, ok := a.open.Receive(); ok {
		switch {
		case errors.Is(res.err, dialog.ErrCanceled):
			logger.Debug().Msg("open canceled, keeping current input")
		case res.err != nil:
			a.setError(ctx, res.err)
		default:
			a.input = res.path
			a.rewatch(ctx)
			a.format(ctx)
		}
	}

	if res, ok := a.save.Receive(); ok {
		switch {
		case errors.Is(res.err, dialog.ErrCanceled):
			logger.Debug().Msg("save canceled")
		case res.err != nil:
			a.setError(ctx, res.err)
		default:
			a.saved = res.path
		}
	}

	if a.watcher != nil && a.watcher.Changed() {
		logger.Debug().Str("path", a.input).Msg("input changed on disk, formatting again")
		a.format(ctx)
	}
}

// Close releases the input watcher, if any.
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	err := a.watcher.Close()
	a.watcher = nil
	return err
}

func (a *App) format(ctx context.Context) {
	if a.input == "" {
		return
	}

	out := a.invoker.Invoke(ctx, a.handle, a.input, a.options)
	if out.Err != nil {
		a.setError(ctx, out.Err)
		return
	}

	a.err = nil
	a.formatted = out.Text
	a.setEditor(out.Text)
}

func (a *App) setEditor(text string) {
	a.editor = text
	a.editorRev++
	a.editsDirty = true
}

func (a *App) setError(ctx context.Context, err error) {
	zerolog.Ctx(ctx).Warn().Err(err).Msg("showing error")
	a.err = err
}

func (a *App) rewatch(ctx context.Context) {
	if !a.cfg.WatchInput {
		return
	}
	if a.watcher != nil && a.watcher.Path() == a.input {
		return
	}
	if err := a.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("closing input watcher")
	}
	w, err := watch.New(ctx, a.input, watch.DefaultDebounce)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", a.input).Msg("cannot watch input, changes on disk will be ignored")
		return
	}
	a.watcher = w
}
