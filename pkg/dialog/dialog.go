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

// Package dialog shows the platform's native file pickers.
package dialog

import (
	"context"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrCanceled is returned when the user dismisses a picker without choosing.
var ErrCanceled = errors.Base("dialog canceled")

// 📂 Picker asks the user for a path. Both calls block until the dialog closes,
// so they belong on a background goroutine.
type Picker interface {
	OpenFile(ctx context.Context) (string, error)
	SaveFile(ctx context.Context, suggested string) (string, error)
}

// Zenity shows dialogs through github.com/ncruces/zenity.
type Zenity struct {
	Filters zenity.FileFilters
}

// LuaFilters limits the picker to Lua sources, with an escape hatch for anything else.
var LuaFilters = zenity.FileFilters{
	{Name: "Lua source", Patterns: []string{"*.lua", "*.luau"}, CaseFold: true},
	{Name: "All files", Patterns: []string{"*"}},
}

func NewZenity() *Zenity {
	return &Zenity{Filters: LuaFilters}
}

func (z *Zenity) OpenFile(ctx context.Context) (string, error) {
	path, err := zenity.SelectFile(
		zenity.Context(ctx),
		zenity.Title("Open file"),
		z.Filters,
	)
	if err != nil {
		return "", wrap(ctx, "open", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("open dialog chose file")
	return path, nil
}

func (z *Zenity) SaveFile(ctx context.Context, suggested string) (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Context(ctx),
		zenity.Title("Save to file"),
		zenity.Filename(suggested),
		zenity.ConfirmOverwrite(),
		z.Filters,
	)
	if err != nil {
		return "", wrap(ctx, "save", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("save dialog chose file")
	return path, nil
}

func wrap(ctx context.Context, kind string, err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		zerolog.Ctx(ctx).Debug().Str("dialog", kind).Msg("dialog canceled")
		return errors.WithStack(ErrCanceled)
	}
	return errors.Errorf("%s dialog: %w", kind, err)
}
