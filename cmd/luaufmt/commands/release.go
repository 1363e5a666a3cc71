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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/cmd/luaufmt/opts"
	"github.com/walteh/luaufmt/pkg/tool"
)

// NewReleaseCmd creates the release command. A nil client means the GitHub API.
func NewReleaseCmd(o *opts.RootOpts, client tool.ReleaseClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Show the latest luau-format release and whether it has a build for this platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "release").Logger().WithContext(cmd.Context())

			c := client
			if c == nil {
				c = tool.NewGitHubClient()
			}

			asset := tool.CurrentAssetName(o.Config.Tool.Name)
			info, err := tool.LatestRelease(ctx, c, o.Config.Tool.Repo, asset)
			if err != nil {
				return errors.Errorf("checking release: %w", err)
			}

			o.Console.Header("latest release of " + o.Config.Tool.Repo)
			o.Console.Infof("tag %s (%s)", info.Tag, info.URL)
			if !info.HasAsset {
				o.Console.Warningf("no %s asset in this release, is your architecture supported?", asset)
				return nil
			}
			o.Console.Successf("%s available (%d bytes)", asset, info.AssetSize)
			o.Console.Infof("download url %s", o.Acquirer.URL())
			return nil
		},
	}

	return cmd
}
