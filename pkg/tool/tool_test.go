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
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// fileProber treats only existing files as launchable, so nothing on the real PATH leaks in
func fileProber(onPath bool) ProberFunc {
	return func(ctx context.Context, name string) error {
		if name == DefaultName {
			if onPath {
				return nil
			}
			return errors.New("executable file not found in $PATH")
		}
		if _, err := os.Stat(name); err != nil {
			return err
		}
		return nil
	}
}

type countingServer struct {
	*httptest.Server
	hits atomic.Int32
	path atomic.Value
}

func newServer(t *testing.T, status int, body string) *countingServer {
	s := &countingServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.path.Store(r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestAcquirer(t *testing.T, srv *countingServer, onPath bool) *Acquirer {
	a, err := NewAcquirer(Options{
		BaseURL:  srv.URL,
		CacheDir: filepath.Join(t.TempDir(), CacheDirName),
		GOOS:     "linux",
		GOARCH:   "amd64",
		Prober:   fileProber(onPath),
	})
	require.NoError(t, err)
	return a
}

func TestDownloadURL(t *testing.T) {
	tests := []struct {
		name   string
		goos   string
		goarch string
		want   string
	}{
		{"windows", "windows", "amd64", "https://github.com/TechHog8984/luau-format/releases/latest/download/luau-format.exe"},
		{"linux_amd64", "linux", "amd64", "https://github.com/TechHog8984/luau-format/releases/latest/download/luau-format-x86_64"},
		{"darwin_arm64", "darwin", "arm64", "https://github.com/TechHog8984/luau-format/releases/latest/download/luau-format-aarch64"},
		{"linux_386", "linux", "386", "https://github.com/TechHog8984/luau-format/releases/latest/download/luau-format-x86"},
		{"linux_riscv64", "linux", "riscv64", "https://github.com/TechHog8984/luau-format/releases/latest/download/luau-format-riscv64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DownloadURL(DefaultBaseURL+"/", DefaultRepo, DefaultName, tt.goos, tt.goarch)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBinaryName(t *testing.T) {
	assert.Equal(t, "luau-format.exe", BinaryName(DefaultName, "windows"))
	assert.Equal(t, "luau-format", BinaryName(DefaultName, "darwin"))
}

func TestEnsureOnPath(t *testing.T) {
	ctx := testContext(t)
	srv := newServer(t, http.StatusOK, "binary")
	a := newTestAcquirer(t, srv, true)

	h, err := a.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, h.Path())
	assert.Equal(t, SourcePath, h.Source())
	assert.Zero(t, srv.hits.Load(), "nothing is fetched when the tool is on PATH")

	_, err = os.Stat(a.CacheDir())
	assert.True(t, os.IsNotExist(err), "cache directory is not created when unused")
}

func TestEnsureDownloadsOnce(t *testing.T) {
	ctx := testContext(t)
	srv := newServer(t, http.StatusOK, "#!/bin/sh\necho formatted\n")
	a := newTestAcquirer(t, srv, false)

	h, err := a.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceDownload, h.Source())
	assert.Equal(t, a.CachePath(), h.Path())
	assert.Equal(t, "/TechHog8984/luau-format/releases/latest/download/luau-format-x86_64", srv.path.Load())

	content, err := os.ReadFile(h.Path())
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho formatted\n", string(content))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(h.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}

	again, err := a.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, h, again, "handle is never re-resolved")
	assert.Equal(t, int32(1), srv.hits.Load())

	cached, ok := a.Handle()
	require.True(t, ok)
	assert.Equal(t, h, cached)
}

func TestEnsureUsesCache(t *testing.T) {
	ctx := testContext(t)
	srv := newServer(t, http.StatusOK, "binary")
	a := newTestAcquirer(t, srv, false)

	require.NoError(t, os.MkdirAll(a.CacheDir(), 0o755))
	require.NoError(t, os.WriteFile(a.CachePath(), []byte("cached"), 0o755))

	h, err := a.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, h.Source())
	assert.Equal(t, a.CachePath(), h.Path())
	assert.Zero(t, srv.hits.Load())
}

func TestEnsureConcurrentCallsShareOneFetch(t *testing.T) {
	ctx := testContext(t)
	srv := newServer(t, http.StatusOK, "binary")
	a := newTestAcquirer(t, srv, false)

	var wg sync.WaitGroup
	handles := make([]Handle, 8)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := a.Ensure(ctx)
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		assert.Equal(t, handles[0], h)
	}
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestEnsureNotFoundSentinel(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			ctx := testContext(t)
			srv := newServer(t, status, NotFoundBody)
			a := newTestAcquirer(t, srv, false)

			_, err := a.Ensure(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoBuild)
			assert.Contains(t, err.Error(), "is your architecture supported?")

			entries, err := os.ReadDir(a.CacheDir())
			require.NoError(t, err)
			assert.Empty(t, entries, "nothing is written for the sentinel body")

			_, ok := a.Handle()
			assert.False(t, ok)
		})
	}
}

func TestEnsureBadStatus(t *testing.T) {
	ctx := testContext(t)
	srv := newServer(t, http.StatusInternalServerError, "boom")
	a := newTestAcquirer(t, srv, false)

	_, err := a.Ensure(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoBuild)
	assert.Contains(t, err.Error(), "unexpected status code 500")

	_, statErr := os.Stat(a.CachePath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestEnsureCancelled(t *testing.T) {
	srv := newServer(t, http.StatusOK, "binary")
	a := newTestAcquirer(t, srv, false)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := a.Ensure(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecProber(t *testing.T) {
	ctx := testContext(t)

	t.Run("missing", func(t *testing.T) {
		err := ExecProber{}.Probe(ctx, filepath.Join(t.TempDir(), "does-not-exist"))
		assert.Error(t, err)
	})

	t.Run("non_zero_exit_is_available", func(t *testing.T) {
		path, err := exec.LookPath("false")
		if err != nil {
			t.Skip("false not available")
		}
		assert.NoError(t, ExecProber{}.Probe(ctx, path))
	})
}

type mockReleaseClient struct {
	mock.Mock
}

func (m *mockReleaseClient) GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	rel, _ := args.Get(0).(*github.RepositoryRelease)
	resp, _ := args.Get(1).(*github.Response)
	return rel, resp, args.Error(2)
}

func TestLatestRelease(t *testing.T) {
	ctx := testContext(t)

	t.Run("asset_present", func(t *testing.T) {
		client := &mockReleaseClient{}
		client.On("GetLatestRelease", mock.Anything, "TechHog8984", "luau-format").Return(&github.RepositoryRelease{
			TagName: github.String("v1.2.0"),
			Name:    github.String("1.2.0"),
			HTMLURL: github.String("https://github.com/TechHog8984/luau-format/releases/tag/v1.2.0"),
			Assets: []*github.ReleaseAsset{
				{Name: github.String("luau-format.exe"), BrowserDownloadURL: github.String("https://example.com/exe"), Size: github.Int(10)},
				{Name: github.String("luau-format-x86_64"), BrowserDownloadURL: github.String("https://example.com/x86_64"), Size: github.Int(20)},
			},
		}, nil, nil)

		info, err := LatestRelease(ctx, client, DefaultRepo, AssetName(DefaultName, "linux", "amd64"))
		require.NoError(t, err)
		assert.Equal(t, "v1.2.0", info.Tag)
		assert.True(t, info.HasAsset)
		assert.Equal(t, "https://example.com/x86_64", info.AssetURL)
		assert.Equal(t, 20, info.AssetSize)
		assert.Equal(t, []string{"luau-format.exe", "luau-format-x86_64"}, info.Assets)
		client.AssertExpectations(t)
	})

	t.Run("asset_missing", func(t *testing.T) {
		client := &mockReleaseClient{}
		client.On("GetLatestRelease", mock.Anything, "TechHog8984", "luau-format").Return(&github.RepositoryRelease{
			TagName: github.String("v1.2.0"),
		}, nil, nil)

		info, err := LatestRelease(ctx, client, DefaultRepo, AssetName(DefaultName, "linux", "s390x"))
		require.NoError(t, err)
		assert.False(t, info.HasAsset)
		assert.Equal(t, "luau-format-s390x", info.Asset)
	})

	t.Run("api_error", func(t *testing.T) {
		client := &mockReleaseClient{}
		client.On("GetLatestRelease", mock.Anything, "TechHog8984", "luau-format").Return(nil,
			&github.Response{Response: &http.Response{StatusCode: http.StatusNotFound}}, errors.New("404"))

		_, err := LatestRelease(ctx, client, DefaultRepo, "luau-format.exe")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no releases")
	})

	t.Run("bad_repo", func(t *testing.T) {
		_, err := LatestRelease(ctx, &mockReleaseClient{}, "luau-format", "luau-format.exe")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected owner/name")
	})
}
