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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/luaufmt/cmd/luaufmt/opts"
)

// NewFetchCmd creates the fetch command
func NewFetchCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Make sure luau-format is available",
		Long: `fetch resolves luau-format the same way the editor does at startup:
1. Look for it on PATH
2. Look for a previously downloaded copy in the cache directory
3. Download the latest release build for this platform

It prints the path that will be used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "fetch").Logger().WithContext(cmd.Context())

			h, err := Bootstrap(ctx, o)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), h.Path())
			o.Console.Successf("%s resolved from %s", o.Config.Tool.Name, h.Source())
			return nil
		},
	}

	return cmd
}
