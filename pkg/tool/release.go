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
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ReleaseClient is the part of the GitHub API needed to inspect releases
type ReleaseClient interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
}

type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error) {
	return w.client.Repositories.GetLatestRelease(ctx, owner, repo)
}

// NewGitHubClient uses GITHUB_TOKEN when set.
func NewGitHubClient() ReleaseClient {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &githubClientWrapper{client: client}
}

// 📋 ReleaseInfo summarizes the latest release for one platform
type ReleaseInfo struct {
	Tag       string
	Name      string
	URL       string
	Asset     string
	HasAsset  bool
	AssetURL  string
	AssetSize int
	Assets    []string
}

// 🔍 LatestRelease looks up the latest release of repo ("owner/name") and
// whether it carries the named asset
func LatestRelease(ctx context.Context, client ReleaseClient, repo, asset string) (*ReleaseInfo, error) {
	owner, name, ok := strings.Cut(strings.Trim(repo, "/"), "/")
	if !ok || owner == "" || name == "" {
		return nil, errors.Errorf("invalid repository %q, expected owner/name", repo)
	}

	zerolog.Ctx(ctx).Debug().Str("owner", owner).Str("repo", name).Msg("getting latest release")

	rel, resp, err := client.GetLatestRelease(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.Errorf("repository %s has no releases: %w", repo, err)
		}
		return nil, errors.Errorf("getting latest release: %w", err)
	}

	info := &ReleaseInfo{
		Tag:   rel.GetTagName(),
		Name:  rel.GetName(),
		URL:   rel.GetHTMLURL(),
		Asset: asset,
	}
	for _, a := range rel.Assets {
		info.Assets = append(info.Assets, a.GetName())
		if a.GetName() == asset {
			info.HasAsset = true
			info.AssetURL = a.GetBrowserDownloadURL()
			info.AssetSize = a.GetSize()
		}
	}

	return info, nil
}
