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

// Package tool makes sure the luau-format executable can be run, downloading and
// caching a release build on first use.
package tool

import (
	"fmt"
	"runtime"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const (
	DefaultName    = "luau-format"
	DefaultRepo    = "TechHog8984/luau-format"
	DefaultBaseURL = "https://github.com"
	CacheDirName   = ".luau-format-gui"

	// NotFoundBody is the exact response body served when no build exists for a platform.
	NotFoundBody = "Not Found"
)

// ErrNoBuild means the release host has no build for this platform.
var ErrNoBuild = errors.Base("no release build for this platform, is your architecture supported?")

// 🏷️ Source records how a Handle was resolved
type Source int

const (
	SourcePath Source = iota
	SourceCache
	SourceDownload
)

func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceCache:
		return "cache"
	case SourceDownload:
		return "download"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// 🔧 Handle is a resolved, runnable formatter executable. It is immutable.
type Handle struct {
	path   string
	source Source
}

func NewHandle(path string, source Source) Handle {
	return Handle{path: path, source: source}
}

// Path is what gets passed to exec.
func (h Handle) Path() string { return h.path }

func (h Handle) Source() Source { return h.source }

func (h Handle) IsZero() bool { return h.path == "" }

func (h Handle) String() string {
	return fmt.Sprintf("%s (%s)", h.path, h.source)
}

// 🖥️ Arch maps a GOARCH value to the naming used by release assets
func Arch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}

// AssetName is the release asset for a platform.
func AssetName(name, goos, goarch string) string {
	if goos == "windows" {
		return name + ".exe"
	}
	return name + "-" + Arch(goarch)
}

// BinaryName is the file name the cached executable is stored under.
func BinaryName(name, goos string) string {
	if goos == "windows" {
		return name + ".exe"
	}
	return name
}

// 🔗 DownloadURL builds the "latest release" download link for a platform
func DownloadURL(baseURL, repo, name, goos, goarch string) string {
	return fmt.Sprintf("%s/%s/releases/latest/download/%s",
		strings.TrimRight(baseURL, "/"),
		strings.Trim(repo, "/"),
		AssetName(name, goos, goarch),
	)
}

// CurrentAssetName is AssetName for the running platform.
func CurrentAssetName(name string) string {
	return AssetName(name, runtime.GOOS, runtime.GOARCH)
}
