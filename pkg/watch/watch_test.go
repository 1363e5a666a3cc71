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

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherSignalsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.lua")
	other := filepath.Join(dir, "other.lua")
	require.NoError(t, os.WriteFile(path, []byte("local x = 1"), 0o644))

	w, err := New(context.Background(), path, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	assert.False(t, w.Changed())

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.False(t, w.Changed(), "writes to sibling files are ignored")

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("local x = 2"), 0o644))
	}
	require.Eventually(t, w.Changed, 2*time.Second, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.False(t, w.Changed(), "a burst collapses into one signal")
}

func TestWatcherClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lua")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := New(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "closing twice is harmless")
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "test.lua"), 0)
	require.Error(t, err)
}
