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
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/singleflight"
)

// ⚙️ Options configures an Acquirer. Empty fields take the package defaults.
type Options struct {
	Name     string
	Repo     string
	BaseURL  string
	CacheDir string

	// GOOS and GOARCH select the release asset; empty means the running platform.
	GOOS   string
	GOARCH string

	Prober  Prober
	Fetcher Fetcher
}

// 📦 Acquirer resolves the formatter executable once and remembers the result
type Acquirer struct {
	opts Options

	group  singleflight.Group
	mu     sync.Mutex
	handle Handle
}

// DefaultCacheDir is ~/.luau-format-gui.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, CacheDirName), nil
}

func NewAcquirer(opts Options) (*Acquirer, error) {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Repo == "" {
		opts.Repo = DefaultRepo
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.GOARCH == "" {
		opts.GOARCH = runtime.GOARCH
	}
	if opts.CacheDir == "" {
		dir, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		opts.CacheDir = dir
	}
	if opts.Prober == nil {
		opts.Prober = ExecProber{}
	}
	if opts.Fetcher == nil {
		opts.Fetcher = HTTPFetcher{}
	}
	return &Acquirer{opts: opts}, nil
}

// URL is the download link for the configured platform.
func (a *Acquirer) URL() string {
	return DownloadURL(a.opts.BaseURL, a.opts.Repo, a.opts.Name, a.opts.GOOS, a.opts.GOARCH)
}

// CachePath is where a downloaded executable is stored.
func (a *Acquirer) CachePath() string {
	return filepath.Join(a.opts.CacheDir, BinaryName(a.opts.Name, a.opts.GOOS))
}

func (a *Acquirer) CacheDir() string { return a.opts.CacheDir }

// Handle returns the resolved handle, if Ensure has succeeded before.
func (a *Acquirer) Handle() (Handle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handle, !a.handle.IsZero()
}

// 🚀 Ensure returns a runnable formatter, downloading it into the cache when it
// is neither on PATH nor already cached. Concurrent calls share one resolution.
func (a *Acquirer) Ensure(ctx context.Context) (Handle, error) {
	if h, ok := a.Handle(); ok {
		return h, nil
	}

	v, err, _ := a.group.Do("ensure", func() (interface{}, error) {
		if h, ok := a.Handle(); ok {
			return h, nil
		}
		h, err := a.resolve(ctx)
		if err != nil {
			return Handle{}, err
		}
		a.mu.Lock()
		a.handle = h
		a.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return Handle{}, err
	}
	return v.(Handle), nil
}

func (a *Acquirer) resolve(ctx context.Context) (Handle, error) {
	logger := zerolog.Ctx(ctx).With().Str("name", a.opts.Name).Logger()

	err := a.opts.Prober.Probe(ctx, a.opts.Name)
	if err == nil {
		logger.Debug().Msg("formatter found on PATH")
		return NewHandle(a.opts.Name, SourcePath), nil
	}
	logger.Debug().Err(err).Msg("formatter not on PATH")

	dest := a.CachePath()
	if _, statErr := os.Stat(dest); statErr == nil {
		err := a.opts.Prober.Probe(ctx, dest)
		if err == nil {
			logger.Debug().Str("path", dest).Msg("formatter found in cache")
			return NewHandle(dest, SourceCache), nil
		}
		logger.Warn().Err(err).Str("path", dest).Msg("cached formatter cannot be launched, downloading again")
	}

	url := a.URL()
	logger.Info().Str("url", url).Str("path", dest).Msg("downloading formatter")

	if err := os.MkdirAll(a.opts.CacheDir, 0o755); err != nil {
		return Handle{}, errors.Errorf("creating cache directory %s: %w", a.opts.CacheDir, err)
	}

	body, err := a.opts.Fetcher.Fetch(ctx, url)
	if err != nil {
		return Handle{}, err
	}

	if err := writeExecutable(dest, body); err != nil {
		return Handle{}, errors.Errorf("saving formatter to %s: %w", dest, err)
	}

	logger.Info().Str("path", dest).Int("bytes", len(body)).Msg("formatter downloaded")
	return NewHandle(dest, SourceDownload), nil
}
