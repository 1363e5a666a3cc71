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

package app

import (
	"github.com/walteh/luaufmt/pkg/formatter"
	"github.com/walteh/luaufmt/pkg/tool"
)

// 🪟 ViewState is everything a renderer needs for one frame
type ViewState struct {
	Tool    tool.Handle
	Options formatter.Options

	Opening bool
	Saving  bool

	Input     string
	Formatted string
	Editor    string
	// EditorRev changes whenever the editor buffer is replaced by the app,
	// never on user edits.
	EditorRev uint64

	// Error is the full line to show, empty when there is nothing to report.
	Error string
	// Edits counts the changed hunks between Editor and Formatted.
	Edits int
	Saved string
}

func (a *App) View() ViewState {
	v := ViewState{
		Tool:      a.handle,
		Options:   a.options,
		Opening:   a.open.Pending(),
		Saving:    a.save.Pending(),
		Input:     a.input,
		Formatted: a.formatted,
		Editor:    a.editor,
		EditorRev: a.editorRev,
		Edits:     a.editCount(),
		Saved:     a.saved,
	}
	if a.err != nil {
		v.Error = ErrorPrefix + a.err.Error()
	}
	return v
}

// Diverged reports whether the user edited the formatted text.
func (v ViewState) Diverged() bool {
	return v.Editor != v.Formatted
}

func (a *App) editCount() int {
	if a.editsDirty {
		a.edits = formatter.Edits(a.formatted, a.editor)
		a.editsDirty = false
	}
	return a.edits
}
