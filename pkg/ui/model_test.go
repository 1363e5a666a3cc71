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

package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/pkg/app"
	"github.com/walteh/luaufmt/pkg/dialog"
	"github.com/walteh/luaufmt/pkg/formatter"
	"github.com/walteh/luaufmt/pkg/tool"
)

type fakeInvoker struct {
	calls []formatter.Options
	out   formatter.Outcome
}

func (f *fakeInvoker) Invoke(ctx context.Context, h tool.Handle, input string, opts formatter.Options) formatter.Outcome {
	f.calls = append(f.calls, opts)
	return f.out
}

type fakePicker struct {
	open string
}

func (f *fakePicker) OpenFile(ctx context.Context) (string, error) {
	if f.open == "" {
		return "", errors.WithStack(dialog.ErrCanceled)
	}
	return f.open, nil
}

func (f *fakePicker) SaveFile(ctx context.Context, suggested string) (string, error) {
	return "", errors.WithStack(dialog.ErrCanceled)
}

func newTestModel(t *testing.T, inv *fakeInvoker, picker *fakePicker) Model {
	ctx := zerolog.New(zerolog.TestWriter{T: t}).WithContext(context.Background())
	a := app.New(tool.NewHandle("luau-format", tool.SourcePath), inv, picker, app.Config{})
	m := New(ctx, a, time.Millisecond)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func openFile(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Eventually(t, func() bool {
		m, _ = update(t, m, frameMsg{})
		return m.app.View().Input != ""
	}, 2*time.Second, time.Millisecond)
	return m
}

func TestViewInitial(t *testing.T) {
	m := newTestModel(t, &fakeInvoker{}, &fakePicker{})
	out := m.View()

	assert.Contains(t, out, Heading)
	assert.Contains(t, out, "Open file...")
	assert.Contains(t, out, "Save to file...")
	assert.Contains(t, out, "Reset editor...")
	assert.Contains(t, out, "Options:")
	for _, opt := range formatter.AllOptions {
		assert.Contains(t, out, opt.Label())
	}
	assert.Contains(t, out, "no file")
	assert.NotContains(t, out, "An error occured")
}

func TestFrameTickReschedules(t *testing.T) {
	m := newTestModel(t, &fakeInvoker{}, &fakePicker{})
	assert.NotNil(t, m.Init())

	_, cmd := update(t, m, frameMsg{})
	require.NotNil(t, cmd)
}

func TestOpenLoadsEditor(t *testing.T) {
	inv := &fakeInvoker{out: formatter.Outcome{Text: "local x = 1"}}
	m := newTestModel(t, inv, &fakePicker{open: "test.lua"})

	m = openFile(t, m)
	assert.Equal(t, "local x = 1", m.editor.Value())
	assert.Contains(t, m.View(), "test.lua")
	assert.Equal(t, []formatter.Options{{}}, inv.calls)
}

func TestToggleKeys(t *testing.T) {
	inv := &fakeInvoker{out: formatter.Outcome{Text: "x"}}
	m := newTestModel(t, inv, &fakePicker{open: "test.lua"})
	m = openFile(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF2})
	assert.True(t, m.app.View().Options.Minify)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF5})
	assert.True(t, m.app.View().Options.SolveListTable)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF2})
	assert.False(t, m.app.View().Options.Minify)

	require.Len(t, inv.calls, 4)
	assert.Equal(t, formatter.Options{Minify: true}, inv.calls[1])
	assert.Equal(t, formatter.Options{Minify: true, SolveListTable: true}, inv.calls[2])
	assert.Equal(t, formatter.Options{SolveListTable: true}, inv.calls[3])
}

func TestTypingAndReset(t *testing.T) {
	inv := &fakeInvoker{out: formatter.Outcome{Text: "abc"}}
	m := newTestModel(t, inv, &fakePicker{open: "test.lua"})
	m = openFile(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	v := m.app.View()
	assert.Equal(t, "abcz", v.Editor)
	assert.Equal(t, "abc", v.Formatted)
	assert.Contains(t, m.View(), "1 edit(s)")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "abc", m.editor.Value())
	assert.Equal(t, "abc", m.app.View().Editor)
	assert.Len(t, inv.calls, 1, "reset never runs the formatter")
}

func TestEditorKeepsFormattedText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "tabs", text: "local function f()\n\treturn 1\nend\n"},
		{name: "crlf", text: "local x = 1\r\nlocal y = 2\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvoker{out: formatter.Outcome{Text: tt.text}}
			m := newTestModel(t, inv, &fakePicker{open: "test.lua"})
			m = openFile(t, m)

			m, _ = update(t, m, struct{}{})
			v := m.app.View()
			assert.Equal(t, tt.text, v.Editor, "the textarea's rewrite of the buffer is not an edit")
			assert.Equal(t, v.Formatted, v.Editor)
			assert.Zero(t, v.Edits)

			m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
			m, _ = update(t, m, struct{}{})
			v = m.app.View()
			assert.Equal(t, v.Formatted, v.Editor, "reset stays equal on the next message")

			m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
			v = m.app.View()
			assert.NotEqual(t, v.Formatted, v.Editor)
			assert.Contains(t, v.Editor, "z")
		})
	}
}

func TestErrorLine(t *testing.T) {
	inv := &fakeInvoker{out: formatter.Outcome{Err: &formatter.ProcessError{ExitCode: 1, Stderr: "parse error\n  at line 3\n"}}}
	m := newTestModel(t, inv, &fakePicker{open: "test.lua"})
	m = openFile(t, m)

	assert.Contains(t, m.View(), "An error occured: parse error at line 3")
	assert.Empty(t, m.editor.Value())
}

func TestQuitAndHelp(t *testing.T) {
	m := newTestModel(t, &fakeInvoker{}, &fakePicker{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF12})
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "minify")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
