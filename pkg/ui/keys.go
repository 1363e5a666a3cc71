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
	"github.com/charmbracelet/bubbles/key"

	"github.com/walteh/luaufmt/pkg/formatter"
)

type keyMap struct {
	Open   key.Binding
	Save   key.Binding
	Reset  key.Binding
	Toggle [5]key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Open:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open file")),
	Save:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save to file")),
	Reset: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset editor")),
	Toggle: [5]key.Binding{
		key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", formatter.NoSimplify.String())),
		key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", formatter.Minify.String())),
		key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", formatter.LuaCalls.String())),
		key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", formatter.SolveRecordTable.String())),
		key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", formatter.SolveListTable.String())),
	},
	Help: key.NewBinding(key.WithKeys("f12"), key.WithHelp("f12", "help")),
	Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Save, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Save, k.Reset},
		k.Toggle[:],
		{k.Help, k.Quit},
	}
}
