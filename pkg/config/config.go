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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/luaufmt/pkg/formatter"
	"github.com/walteh/luaufmt/pkg/tool"
)

const (
	DefaultSaveFilename  = "formatted.lua"
	DefaultFrameInterval = 33 * time.Millisecond
	DefaultProbeTimeout  = 10 * time.Second
	DefaultLogLevel      = "info"
	LogFileName          = "luaufmt.log"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔧 ToolConfig controls where the formatter comes from
type ToolConfig struct {
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	Repo            string `json:"repo,omitempty" yaml:"repo,omitempty"`
	BaseURL         string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	CacheDir        string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
	ProbeTimeout    string `json:"probe_timeout,omitempty" yaml:"probe_timeout,omitempty"`
	DownloadTimeout string `json:"download_timeout,omitempty" yaml:"download_timeout,omitempty"`

	probeTimeout    time.Duration
	downloadTimeout time.Duration
}

// ✏️ EditorConfig controls the editor buffer
type EditorConfig struct {
	SaveFilename string `json:"save_filename,omitempty" yaml:"save_filename,omitempty"`
	WatchInput   bool   `json:"watch_input,omitempty" yaml:"watch_input,omitempty"`
}

type UIConfig struct {
	FrameInterval string `json:"frame_interval,omitempty" yaml:"frame_interval,omitempty"`

	frameInterval time.Duration
}

type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`

	level zerolog.Level
}

// 📚 Config represents the complete configuration
type Config struct {
	Tool    ToolConfig        `json:"tool" yaml:"tool"`
	Editor  EditorConfig      `json:"editor" yaml:"editor"`
	Options formatter.Options `json:"options" yaml:"options"`
	UI      UIConfig          `json:"ui" yaml:"ui"`
	Log     LogConfig         `json:"log" yaml:"log"`

	location string
}

// Default is the configuration used when no file exists.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths lists the files Load looks for, in order.
func DefaultPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Errorf("finding home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "luaufmt")
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
		filepath.Join(dir, "config.hcl"),
		filepath.Join(dir, "config.json"),
	}, nil
}

// 🎯 Load loads the configuration from path. An empty path searches
// DefaultPaths and falls back to Default when none exists.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		candidates, err := DefaultPaths()
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
		if path == "" {
			logger.Debug().Msg("no configuration file found, using defaults")
			return Default()
		}
	}

	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg.location = path
	return cfg, nil
}

// Location is the file the config was loaded from, empty for defaults.
func (cfg *Config) Location() string { return cfg.location }

// 🔍 Validate fills defaults and checks values. It is safe to call more than once.
func (cfg *Config) Validate() error {
	if cfg.Tool.Name == "" {
		cfg.Tool.Name = tool.DefaultName
	}
	if cfg.Tool.Repo == "" {
		cfg.Tool.Repo = tool.DefaultRepo
	}
	if owner, name, ok := strings.Cut(strings.Trim(cfg.Tool.Repo, "/"), "/"); !ok || owner == "" || name == "" {
		return errors.Errorf("tool.repo must be owner/name, got %q", cfg.Tool.Repo)
	}
	if cfg.Tool.BaseURL == "" {
		cfg.Tool.BaseURL = tool.DefaultBaseURL
	}
	if !strings.HasPrefix(cfg.Tool.BaseURL, "http://") && !strings.HasPrefix(cfg.Tool.BaseURL, "https://") {
		return errors.Errorf("tool.base_url must be an http(s) URL, got %q", cfg.Tool.BaseURL)
	}

	if cfg.Tool.CacheDir == "" {
		dir, err := tool.DefaultCacheDir()
		if err != nil {
			return err
		}
		cfg.Tool.CacheDir = dir
	} else {
		dir, err := expandHome(cfg.Tool.CacheDir)
		if err != nil {
			return err
		}
		cfg.Tool.CacheDir = filepath.Clean(dir)
	}

	var err error
	if cfg.Tool.probeTimeout, err = parseDuration("tool.probe_timeout", cfg.Tool.ProbeTimeout, DefaultProbeTimeout); err != nil {
		return err
	}
	if cfg.Tool.downloadTimeout, err = parseDuration("tool.download_timeout", cfg.Tool.DownloadTimeout, 0); err != nil {
		return err
	}

	if cfg.Editor.SaveFilename == "" {
		cfg.Editor.SaveFilename = DefaultSaveFilename
	}
	if strings.ContainsAny(cfg.Editor.SaveFilename, `/\`) {
		return errors.Errorf("editor.save_filename must be a file name, got %q", cfg.Editor.SaveFilename)
	}

	if cfg.UI.frameInterval, err = parseDuration("ui.frame_interval", cfg.UI.FrameInterval, DefaultFrameInterval); err != nil {
		return err
	}
	if cfg.UI.frameInterval == 0 {
		return errors.Errorf("ui.frame_interval must be positive")
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.level, err = zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		return errors.Errorf("log.level: %w", err)
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Tool.CacheDir, LogFileName)
	} else {
		file, err := expandHome(cfg.Log.File)
		if err != nil {
			return err
		}
		cfg.Log.File = filepath.Clean(file)
	}

	return nil
}

func (c ToolConfig) ProbeTimeoutDuration() time.Duration { return c.probeTimeout }

// DownloadTimeoutDuration is zero when downloads are unbounded.
func (c ToolConfig) DownloadTimeoutDuration() time.Duration { return c.downloadTimeout }

func (c UIConfig) FrameIntervalDuration() time.Duration { return c.frameInterval }

func (c LogConfig) ZerologLevel() zerolog.Level { return c.level }

// AcquirerOptions maps the tool section onto tool.Options.
func (cfg *Config) AcquirerOptions() tool.Options {
	return tool.Options{
		Name:     cfg.Tool.Name,
		Repo:     cfg.Tool.Repo,
		BaseURL:  cfg.Tool.BaseURL,
		CacheDir: cfg.Tool.CacheDir,
		Prober:   tool.ExecProber{Timeout: cfg.Tool.probeTimeout},
	}
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, errors.Errorf("%s must not be negative, got %s", field, value)
	}
	return d, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
