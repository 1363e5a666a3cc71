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

package formatter

import "github.com/sergi/go-diff/diffmatchpatch"

var dmp = diffmatchpatch.New()

// Diff computes a semantically cleaned character diff from before to after.
func Diff(before, after string) []diffmatchpatch.Diff {
	return dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))
}

// 🔢 CountHunks counts runs of inserts and deletes not separated by equal text
func CountHunks(diffs []diffmatchpatch.Diff) int {
	n := 0
	inHunk := false
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			inHunk = false
			continue
		}
		if !inHunk {
			n++
			inHunk = true
		}
	}
	return n
}

// Edits is CountHunks of Diff, zero when the texts are equal.
func Edits(before, after string) int {
	if before == after {
		return 0
	}
	return CountHunks(Diff(before, after))
}
