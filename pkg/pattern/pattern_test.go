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

package pattern_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bettercopy/pkg/log"
	"github.com/walteh/bettercopy/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestParse(t *testing.T) {
	input := `
# build output
node_modules
  *.log

dist/
/top.txt
docs/**/*.tmp
   # indented comment
`
	patterns, err := pattern.Parse(testContext(t), strings.NewReader(input), pattern.KindExclude, log.Discard())
	require.NoError(t, err)

	got := make([]string, 0, len(patterns))
	for _, p := range patterns {
		got = append(got, p.String())
		assert.Equal(t, pattern.KindExclude, p.Kind)
	}
	assert.Equal(t, []string{"node_modules", "*.log", "dist/", "/top.txt", "docs/**/*.tmp"}, got, "order should be preserved")

	assert.True(t, patterns[2].DirOnly, "trailing slash marks a directory pattern")
	assert.True(t, patterns[3].Anchored, "leading slash anchors the pattern")
	assert.True(t, patterns[4].Anchored, "inner slash anchors the pattern")
}

func TestParseInvalidPatternWarns(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name      string
		verbosity log.Verbosity
		wantWarn  bool
	}{
		{name: "hidden_at_default_verbosity", verbosity: log.VerbosityErrors, wantWarn: false},
		{name: "shown_at_warning_verbosity", verbosity: log.VerbosityWarning, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := log.New(buf, tt.verbosity, zerolog.Nop())

			patterns, err := pattern.Parse(testContext(t), strings.NewReader("good.txt\n[\nother.txt\n"), pattern.KindExclude, logger)
			require.NoError(t, err, "an invalid line is not fatal")
			require.Len(t, patterns, 2)
			assert.Equal(t, "good.txt", patterns[0].Glob)
			assert.Equal(t, "other.txt", patterns[1].Glob)

			if tt.wantWarn {
				assert.Contains(t, buf.String(), "line 2")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestParseNegationWarns(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := log.New(buf, log.VerbosityWarning, zerolog.Nop())

	patterns, err := pattern.Parse(testContext(t), strings.NewReader("*.log\n!keep.log\n"), pattern.KindExclude, logger)
	require.NoError(t, err)

	require.Len(t, patterns, 1, "negated lines are dropped, not compiled as literals")
	assert.Equal(t, "*.log", patterns[0].Glob)
	assert.Contains(t, buf.String(), "negated")
	assert.Contains(t, buf.String(), "line 2")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads_file", func(t *testing.T) {
		path := filepath.Join(dir, ".bcignore")
		require.NoError(t, os.WriteFile(path, []byte("a\n#b\nc\n"), 0o644))

		patterns, err := pattern.LoadFile(testContext(t), path, pattern.KindInclude, log.Discard())
		require.NoError(t, err)
		require.Len(t, patterns, 2)
		assert.Equal(t, pattern.KindInclude, patterns[0].Kind)
	})

	t.Run("missing_file_is_config_error", func(t *testing.T) {
		_, err := pattern.LoadFile(testContext(t), filepath.Join(dir, "missing"), pattern.KindExclude, log.Discard())
		require.Error(t, err)
		assert.True(t, errors.Is(err, pattern.ErrConfig), "error should wrap ErrConfig")
	})
}

func TestMatcher(t *testing.T) {
	parse := func(t *testing.T, lines ...string) []pattern.Pattern {
		patterns, err := pattern.Parse(testContext(t), strings.NewReader(strings.Join(lines, "\n")), pattern.KindExclude, log.Discard())
		require.NoError(t, err)
		return patterns
	}

	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		want     bool
	}{
		{name: "segment_at_root", patterns: []string{"node_modules"}, path: "node_modules", isDir: true, want: true},
		{name: "segment_nested", patterns: []string{"node_modules"}, path: "web/node_modules", isDir: true, want: true},
		{name: "segment_prefix_only", patterns: []string{"node_modules"}, path: "node_modules_old", isDir: true, want: false},
		{name: "extension_glob", patterns: []string{"*.log"}, path: "a/b/run.log", want: true},
		{name: "extension_glob_miss", patterns: []string{"*.log"}, path: "a/b/run.txt", want: false},
		{name: "dir_only_skips_files", patterns: []string{"build/"}, path: "build", isDir: false, want: false},
		{name: "dir_only_matches_dirs", patterns: []string{"build/"}, path: "src/build", isDir: true, want: true},
		{name: "anchored_root", patterns: []string{"/top.txt"}, path: "top.txt", want: true},
		{name: "anchored_not_nested", patterns: []string{"/top.txt"}, path: "sub/top.txt", want: false},
		{name: "inner_slash_anchored", patterns: []string{"sub/b.txt"}, path: "sub/b.txt", want: true},
		{name: "inner_slash_not_right_anchored", patterns: []string{"sub/b.txt"}, path: "x/sub/b.txt", want: false},
		{name: "path_glob", patterns: []string{"docs/**/*.tmp"}, path: "docs/a/b/x.tmp", want: true},
		{name: "windows_separator", patterns: []string{"docs/*.tmp"}, path: filepath.Join("docs", "x.tmp"), want: true},
		{name: "no_patterns", patterns: nil, path: "anything", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pattern.New(parse(t, tt.patterns...), nil)
			assert.Equal(t, tt.want, m.Matches(tt.path, tt.isDir))
		})
	}
}

func TestMatcherExcludeWinsOverInclude(t *testing.T) {
	excludes, err := pattern.Parse(testContext(t), strings.NewReader("*.txt"), pattern.KindExclude, log.Discard())
	require.NoError(t, err)
	includes, err := pattern.Parse(testContext(t), strings.NewReader("keep.txt"), pattern.KindInclude, log.Discard())
	require.NoError(t, err)

	m := pattern.New(excludes, includes)

	assert.True(t, m.Included("keep.txt", false))
	assert.True(t, m.Matches("keep.txt", false), "exclusion has precedence over inclusion")
	assert.False(t, m.Empty())
	assert.True(t, pattern.New(nil, nil).Empty())
}
