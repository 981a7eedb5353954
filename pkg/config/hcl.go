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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. Expressions may read the process
// environment through env, e.g. ignore_file = "${env.HOME}/.bcignore".
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	// optional attributes left out of the file keep their defaults
	type hclConfig struct {
		IgnoreFile     string `hcl:"ignore_file,optional"`
		IncludeFile    string `hcl:"include_file,optional"`
		UseGitignore   bool   `hcl:"use_gitignore,optional"`
		MaxDepth       int    `hcl:"max_depth,optional"`
		FollowSymlinks bool   `hcl:"follow_symlinks,optional"`
		AllowEmpty     bool   `hcl:"allow_empty,optional"`
		Verbosity      int    `hcl:"verbosity,optional"`
		Jobs           int    `hcl:"jobs,optional"`
	}

	def := Default()
	hclCfg := hclConfig{
		IgnoreFile:  def.IgnoreFile,
		IncludeFile: def.IncludeFile,
		MaxDepth:    def.MaxDepth,
		Verbosity:   def.Verbosity,
	}
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &Config{
		IgnoreFile:     hclCfg.IgnoreFile,
		IncludeFile:    hclCfg.IncludeFile,
		UseGitignore:   hclCfg.UseGitignore,
		MaxDepth:       hclCfg.MaxDepth,
		FollowSymlinks: hclCfg.FollowSymlinks,
		AllowEmpty:     hclCfg.AllowEmpty,
		Verbosity:      hclCfg.Verbosity,
		Jobs:           hclCfg.Jobs,
	}, nil
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
