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
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalid is returned when a config file parses but holds unusable values.
var ErrInvalid = errors.New("invalid config")

const (
	// DefaultIgnoreFile is looked up in the source root when no ignore file is named.
	DefaultIgnoreFile = ".bcignore"
	// DefaultIncludeFile is looked up in the source root when no include file is named.
	DefaultIncludeFile = ".bcinclude"
	// GitignoreFile replaces the ignore file when use_gitignore is set.
	GitignoreFile = ".gitignore"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes data on top of the defaults
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

// 📚 Config holds the persistent defaults for a copy. Command line flags
// override any field they set explicitly.
type Config struct {
	IgnoreFile     string `json:"ignore_file" yaml:"ignore_file"`
	IncludeFile    string `json:"include_file" yaml:"include_file"`
	UseGitignore   bool   `json:"use_gitignore" yaml:"use_gitignore"`
	MaxDepth       int    `json:"max_depth" yaml:"max_depth"`
	FollowSymlinks bool   `json:"follow_symlinks" yaml:"follow_symlinks"`
	AllowEmpty     bool   `json:"allow_empty" yaml:"allow_empty"`
	Verbosity      int    `json:"verbosity" yaml:"verbosity"`
	Jobs           int    `json:"jobs" yaml:"jobs"`
}

// 🏭 Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		IgnoreFile:  DefaultIgnoreFile,
		IncludeFile: DefaultIncludeFile,
		MaxDepth:    -1,
		Verbosity:   1,
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
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
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Verbosity < 0 || cfg.Verbosity > 3 {
		return errors.Errorf("%w: verbosity must be between 0 and 3, got %d", ErrInvalid, cfg.Verbosity)
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("%w: jobs must not be negative, got %d", ErrInvalid, cfg.Jobs)
	}
	if cfg.MaxDepth < -1 {
		return errors.Errorf("%w: max_depth must be -1 (unlimited) or more, got %d", ErrInvalid, cfg.MaxDepth)
	}

	if cfg.IgnoreFile != "" {
		cfg.IgnoreFile = filepath.Clean(cfg.IgnoreFile)
	}
	if cfg.IncludeFile != "" {
		cfg.IncludeFile = filepath.Clean(cfg.IncludeFile)
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("ignore=%s include=%s gitignore=%t depth=%d follow=%t allow_empty=%t verbosity=%d jobs=%d",
		cfg.IgnoreFile, cfg.IncludeFile, cfg.UseGitignore, cfg.MaxDepth,
		cfg.FollowSymlinks, cfg.AllowEmpty, cfg.Verbosity, cfg.Jobs)
}
