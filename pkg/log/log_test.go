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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(buf *bytes.Buffer) []string {
	output := strings.TrimSpace(buf.String())
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}

func TestLoggerVerbosity(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	emit := func(logger *Logger) {
		logger.Error("error message")
		logger.Warning("warning message")
		logger.Info("info message")
	}

	tests := []struct {
		name      string
		verbosity Verbosity
		wantLogs  []string
	}{
		{
			name:      "quiet",
			verbosity: VerbosityQuiet,
			wantLogs:  nil,
		},
		{
			name:      "errors_only",
			verbosity: VerbosityErrors,
			wantLogs:  []string{"❌ error message"},
		},
		{
			name:      "warnings",
			verbosity: VerbosityWarning,
			wantLogs:  []string{"❌ error message", "⚠️  warning message"},
		},
		{
			name:      "everything",
			verbosity: VerbosityInfo,
			wantLogs:  []string{"❌ error message", "⚠️  warning message", "ℹ️  info message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, tt.verbosity, zerolog.New(zerolog.NewTestWriter(t)))

			emit(logger)

			got := lines(buf)
			require.Equal(t, len(tt.wantLogs), len(got), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(got[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerFormatted(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := New(buf, VerbosityInfo, zerolog.Nop())

	logger.Infof("info %s", "test")
	logger.Warningf("warning %s", "test")
	logger.Errorf("error %s", "test")
	logger.Successf("success %s", "test")
	logger.Header("copying tree")

	assert.Equal(t, []string{
		"ℹ️  info test",
		"⚠️  warning test",
		"❌ error test",
		"✅ success test",
		"",
		"bettercopy • copying tree",
	}, lines(buf))
}

func TestPrintIgnoresVerbosity(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, VerbosityQuiet, zerolog.Nop())

	logger.Print("| .")
	logger.Success("done")

	assert.Equal(t, "| .\n", buf.String())
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, VerbosityErrors, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	missing := FromContext(context.Background())
	require.NotNil(t, missing)
	assert.Equal(t, VerbosityQuiet, missing.Verbosity(), "a context without a logger yields a silent one")
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	row := func(symbol, path, kind, status string) string {
		return strings.TrimSpace(fmt.Sprintf("    %s %-35s %-10s %-10s", symbol, path, kind, status))
	}

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "copied_file",
			op:   FileOperation{Path: "a.txt", Kind: "file", Status: "copied"},
			want: row("✓", "a.txt", "file", "copied"),
		},
		{
			name: "created_dir",
			op:   FileOperation{Path: "sub", Kind: "dir", Status: "created"},
			want: row("▸", "sub", "dir", "created"),
		},
		{
			name: "linked",
			op:   FileOperation{Path: "sub/link", Kind: "symlink", Status: "linked"},
			want: row("↪", "sub/link", "symlink", "linked"),
		},
		{
			name: "failed",
			op:   FileOperation{Path: "b.txt", Kind: "file", Status: "failed", IsFailed: true},
			want: row("✗", "b.txt", "file", "failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, VerbosityInfo, zerolog.Nop())

			logger.LogFileOperation(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}

	t.Run("hidden_below_info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, VerbosityWarning, zerolog.Nop())
		logger.LogFileOperation(context.Background(), FileOperation{Path: "a.txt", Kind: "file", Status: "copied"})
		assert.Empty(t, buf.String())
	})
}
