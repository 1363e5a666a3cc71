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

// Package ui hosts an app.App in a terminal with bubbletea. A frame tick calls
// App.Frame; keys map onto the buttons and checkboxes of the front end.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/pkg/app"
	"github.com/walteh/luaufmt/pkg/formatter"
)

const (
	Heading              = "luau-format by techhog"
	DefaultFrameInterval = 33 * time.Millisecond

	// heading, buttons, "Options:", five checkboxes, status, error, help, editor border
	chromeLines = 13
	minEditorH  = 3
)

type frameMsg struct{}

type Model struct {
	ctx context.Context
	app *app.App

	editor    textarea.Model
	editorRev uint64

	// editorShown is the textarea value after the last sync or user edit. The
	// textarea rewrites tabs and CRLF, so only a change from it is an edit.
	editorShown string

	frameInterval time.Duration
	width         int
	height        int

	help     help.Model
	showHelp bool
}

// 🏭 New wraps a. A zero frameInterval means DefaultFrameInterval.
func New(ctx context.Context, a *app.App, frameInterval time.Duration) Model {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}

	ed := textarea.New()
	ed.Prompt = ""
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.Placeholder = "open a file with ctrl+o"
	ed.Focus()

	m := Model{
		ctx:           ctx,
		app:           a,
		editor:        ed,
		frameInterval: frameInterval,
		help:          help.New(),
	}
	m.syncEditor()
	return m
}

// 🚀 Run takes over the terminal until the user quits or ctx is done.
func Run(ctx context.Context, a *app.App, frameInterval time.Duration) error {
	p := tea.NewProgram(New(ctx, a, frameInterval), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Errorf("running ui: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.tickFrame())
}

func (m Model) tickFrame() tea.Cmd {
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeEditor()
		return m, nil

	case frameMsg:
		m.app.Frame(m.ctx)
		m.syncEditor()
		return m, m.tickFrame()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Open):
			m.app.OpenFile(m.ctx)
			return m, nil
		case key.Matches(msg, keys.Save):
			m.app.SaveFile(m.ctx)
			return m, nil
		case key.Matches(msg, keys.Reset):
			m.app.ResetEditor()
			m.syncEditor()
			return m, nil
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.resizeEditor()
			return m, nil
		}
		for i, b := range keys.Toggle {
			if key.Matches(msg, b) {
				m.app.ToggleOption(m.ctx, formatter.AllOptions[i])
				m.syncEditor()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if value := m.editor.Value(); value != m.editorShown {
		m.editorShown = value
		m.app.EditBuffer(value)
	}
	return m, cmd
}

// syncEditor copies the app's buffer into the textarea when the app replaced it
func (m *Model) syncEditor() {
	v := m.app.View()
	if v.EditorRev == m.editorRev {
		return
	}
	m.editorRev = v.EditorRev
	m.editor.SetValue(v.Editor)
	m.editorShown = m.editor.Value()
}

func (m *Model) resizeEditor() {
	if m.width == 0 {
		return
	}
	h := m.height - chromeLines
	if m.showHelp {
		h -= 2
	}
	m.editor.SetWidth(max(10, m.width-2))
	m.editor.SetHeight(max(minEditorH, h))
}

func (m Model) View() string {
	v := m.app.View()
	var b strings.Builder

	b.WriteString(headingStyle.Render(Heading))
	b.WriteRune('\n')

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		button("Open file...", keys.Open, v.Opening), " ",
		button("Save to file...", keys.Save, v.Saving), " ",
		button("Reset editor...", keys.Reset, false),
	))
	b.WriteRune('\n')

	b.WriteString("Options:\n")
	for i, opt := range formatter.AllOptions {
		box := "[ ]"
		if v.Options.Get(opt) {
			box = checkedStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %s %s\n", box, dimStyle.Render(keys.Toggle[i].Help().Key), opt.Label())
	}

	b.WriteString(m.statusLine(v))
	b.WriteRune('\n')

	b.WriteString(editorStyle.Render(m.editor.View()))
	b.WriteRune('\n')

	b.WriteString(m.errorLine(v))
	b.WriteRune('\n')

	if m.showHelp {
		b.WriteString(m.help.FullHelpView(keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(keys.ShortHelp()))
	}

	return b.String()
}

func button(label string, b key.Binding, busy bool) string {
	text := fmt.Sprintf("%s %s", b.Help().Key, label)
	if busy {
		return buttonBusyStyle.Render(text + " …")
	}
	return buttonStyle.Render(text)
}

func (m Model) statusLine(v app.ViewState) string {
	input := v.Input
	if input == "" {
		input = "no file"
	}
	parts := []string{input}
	if v.Edits > 0 {
		parts = append(parts, fmt.Sprintf("%d edit(s)", v.Edits))
	}
	if v.Saved != "" {
		parts = append(parts, "saved "+v.Saved)
	}
	line := dimStyle.Render(strings.Join(parts, " • "))
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "…")
	}
	return line
}

// errorLine flattens the error to one line and fits it to the terminal
func (m Model) errorLine(v app.ViewState) string {
	if v.Error == "" {
		return ""
	}
	text := strings.Join(strings.Fields(strings.TrimSpace(v.Error)), " ")
	if m.width > 0 {
		text = ansi.Truncate(text, m.width, "…")
	}
	return errorStyle.Render(text)
}
