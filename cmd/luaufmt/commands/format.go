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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/cmd/luaufmt/opts"
	"github.com/walteh/luaufmt/pkg/formatter"
	"github.com/walteh/luaufmt/pkg/log"
	"github.com/walteh/luaufmt/pkg/tool"
)

const formattedSuffix = ".formatted.lua"

type formatFlags struct {
	write   bool
	outDir  string
	diff    bool
	options formatter.Options
}

// NewFormatCmd creates the format command
func NewFormatCmd(o *opts.RootOpts) *cobra.Command {
	var ff formatFlags
	var toggles [5]bool

	cmd := &cobra.Command{
		Use:   "format [glob...]",
		Short: "Format files without opening the editor",
		Long: `format runs luau-format over every file matched by the given globs
("**" is supported), one file at a time.

By default the result is printed to stdout. With --write each result is saved
next to its input (or into --out) as <name>.formatted.lua; inputs are never
modified. With --diff a diff from input to result is printed instead.

A failing file is reported and skipped; the command exits non-zero at the end
if any file failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "format").Logger().WithContext(cmd.Context())

			for i, opt := range formatter.AllOptions {
				if cmd.Flags().Changed(opt.String()) {
					ff.options = ff.options.Set(opt, toggles[i])
				} else {
					ff.options = ff.options.Set(opt, o.Config.Options.Get(opt))
				}
			}

			files, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.Errorf("no files match %s", strings.Join(args, " "))
			}

			h, err := Bootstrap(ctx, o)
			if err != nil {
				return err
			}

			return runFormat(ctx, o.Console, formatter.NewRunner(), h, files, ff, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&ff.write, "write", "w", false, "write results to <name>.formatted.lua")
	cmd.Flags().StringVarP(&ff.outDir, "out", "o", "", "directory for --write results (default: next to each input)")
	cmd.Flags().BoolVar(&ff.diff, "diff", false, "print a diff instead of the result")
	for i, opt := range formatter.AllOptions {
		cmd.Flags().BoolVar(&toggles[i], opt.String(), false, opt.Label())
	}
	cmd.MarkFlagsMutuallyExclusive("write", "diff")

	return cmd
}

// expandGlobs returns the sorted, de-duplicated regular files matched by patterns
func expandGlobs(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Errorf("bad glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func outputPath(input, outDir string) string {
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+formattedSuffix)
}

// checkOutputCollisions fails when two inputs would be written to the same file
func checkOutputCollisions(files []string, outDir string) error {
	seen := make(map[string]string, len(files))
	for _, file := range files {
		dest := filepath.Clean(outputPath(file, outDir))
		if prev, ok := seen[dest]; ok {
			return errors.Errorf("%s and %s would both be written to %s", prev, file, dest)
		}
		seen[dest] = file
	}
	return nil
}

func flagString(opts formatter.Options) string {
	return strings.Join(formatter.Args("", opts)[1:], " ")
}

func runFormat(ctx context.Context, console *log.Logger, invoker formatter.Invoker, h tool.Handle, files []string, ff formatFlags, stdout io.Writer) error {
	if ff.write {
		if err := checkOutputCollisions(files, ff.outDir); err != nil {
			return err
		}
	}

	console.StartBatch(ctx, log.BatchOperation{
		Files:   len(files),
		Flags:   flagString(ff.options),
		Tool:    h.Path(),
		Destdir: ff.outDir,
	})

	if ff.write && ff.outDir != "" {
		if err := os.MkdirAll(ff.outDir, 0o755); err != nil {
			return errors.Errorf("creating output directory: %w", err)
		}
	}

	dmp := diffmatchpatch.New()
	for _, file := range files {
		result := log.FileResult{Path: file}

		input, err := os.ReadFile(file)
		if err != nil {
			result.Failed = true
			result.Status = "UNREADABLE"
			console.LogFileResult(ctx, result)
			console.Errorf("%s: %v", file, err)
			continue
		}

		out := invoker.Invoke(ctx, h, file, ff.options)
		if out.Err != nil {
			result.Failed = true
			result.Status = "FAILED"
			console.LogFileResult(ctx, result)
			console.Errorf("%s: %s", file, strings.TrimSpace(out.Err.Error()))
			continue
		}

		diffs := formatter.Diff(string(input), out.Text)
		result.Edits = formatter.CountHunks(diffs)

		switch {
		case ff.diff:
			result.Status = "DIFFED"
			if result.Edits > 0 {
				fmt.Fprintf(stdout, "== %s ==\n", file)
				if color.NoColor {
					fmt.Fprint(stdout, dmp.PatchToText(dmp.PatchMake(string(input), diffs)))
				} else {
					fmt.Fprintln(stdout, dmp.DiffPrettyText(diffs))
				}
			}
		case ff.write:
			dest := outputPath(file, ff.outDir)
			if err := writeFileAtomic(dest, []byte(out.Text)); err != nil {
				result.Failed = true
				result.Status = "WRITE FAILED"
				console.LogFileResult(ctx, result)
				console.Errorf("%s: %v", dest, err)
				continue
			}
			result.Status = "WRITTEN"
			result.Output = dest
			result.Written = true
		default:
			result.Status = "FORMATTED"
			if len(files) > 1 {
				fmt.Fprintf(stdout, "== %s ==\n", file)
			}
			fmt.Fprint(stdout, out.Text)
			if len(files) > 1 && !strings.HasSuffix(out.Text, "\n") {
				fmt.Fprintln(stdout)
			}
		}
		if result.Edits == 0 && !result.Written {
			result.Status = "UNCHANGED"
		}

		console.LogFileResult(ctx, result)
	}

	if failed := console.EndBatch(ctx); failed > 0 {
		return errors.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

// writeFileAtomic writes to a temp file next to path and renames it into place
func writeFileAtomic(path string, content []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, 0o644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
