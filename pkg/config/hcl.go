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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/pkg/formatter"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclConfig struct {
	Tool *struct {
		Name            string `hcl:"name,optional"`
		Repo            string `hcl:"repo,optional"`
		BaseURL         string `hcl:"base_url,optional"`
		CacheDir        string `hcl:"cache_dir,optional"`
		ProbeTimeout    string `hcl:"probe_timeout,optional"`
		DownloadTimeout string `hcl:"download_timeout,optional"`
	} `hcl:"tool,block"`
	Editor *struct {
		SaveFilename string `hcl:"save_filename,optional"`
		WatchInput   bool   `hcl:"watch_input,optional"`
	} `hcl:"editor,block"`
	Options *formatter.Options `hcl:"options,block"`
	UI      *struct {
		FrameInterval string `hcl:"frame_interval,optional"`
	} `hcl:"ui,block"`
	Log *struct {
		Level string `hcl:"level,optional"`
		File  string `hcl:"file,optional"`
	} `hcl:"log,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	if t := hclCfg.Tool; t != nil {
		cfg.Tool = ToolConfig{
			Name:            t.Name,
			Repo:            t.Repo,
			BaseURL:         t.BaseURL,
			CacheDir:        t.CacheDir,
			ProbeTimeout:    t.ProbeTimeout,
			DownloadTimeout: t.DownloadTimeout,
		}
	}
	if e := hclCfg.Editor; e != nil {
		cfg.Editor = EditorConfig{SaveFilename: e.SaveFilename, WatchInput: e.WatchInput}
	}
	if hclCfg.Options != nil {
		cfg.Options = *hclCfg.Options
	}
	if u := hclCfg.UI; u != nil {
		cfg.UI = UIConfig{FrameInterval: u.FrameInterval}
	}
	if l := hclCfg.Log; l != nil {
		cfg.Log = LogConfig{Level: l.Level, File: l.File}
	}

	return cfg, nil
}
