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

package operation_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bettercopy/pkg/log"
	"github.com/walteh/bettercopy/pkg/operation"
	"github.com/walteh/bettercopy/pkg/pattern"
	"github.com/walteh/bettercopy/pkg/tree"
)

// 🧪 testContext carries a zerolog logger that writes through t
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 writeTree creates files under root; names ending in "/" become directories
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("content of "+p), 0o644))
	}
}

// 🧪 snapshot maps every path under root to "dir", "file:<content>" or
// "link:<target>". Symlinks are not followed.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			out[rel] = "link:" + target
		case d.IsDir():
			out[rel] = "dir"
		default:
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out[rel] = "file:" + string(content)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func excludes(t *testing.T, lines ...string) *pattern.Matcher {
	patterns, err := pattern.Parse(testContext(t), strings.NewReader(strings.Join(lines, "\n")), pattern.KindExclude, log.Discard())
	require.NoError(t, err)
	return pattern.New(patterns, nil)
}

func buildTree(t *testing.T, root string, matcher tree.Matcher, maxDepth int) *tree.Tree {
	t.Helper()
	tr, err := tree.NewBuilder(matcher, maxDepth, log.Discard()).Build(testContext(t), root)
	require.NoError(t, err)
	return tr
}

// 🔧 mockFileSystem records Mkdir and CopyFile calls by base name and
// delegates to the real filesystem unless the expectation returns an error
type mockFileSystem struct {
	mock.Mock
	real operation.FileSystem
}

func newMockFileSystem(t *testing.T) *mockFileSystem {
	m := &mockFileSystem{real: operation.OSFileSystem{}}
	m.Test(t)
	return m
}

func (m *mockFileSystem) Lstat(ctx context.Context, path string) (fs.FileInfo, error) {
	return m.real.Lstat(ctx, path)
}

func (m *mockFileSystem) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	return m.real.ReadDir(ctx, path)
}

func (m *mockFileSystem) Mkdir(ctx context.Context, path string, parents bool) error {
	result := m.Called(filepath.Base(path))
	if err := result.Error(0); err != nil {
		return err
	}
	return m.real.Mkdir(ctx, path, parents)
}

func (m *mockFileSystem) CopyFile(ctx context.Context, src, dst string, followSymlinks bool) error {
	result := m.Called(filepath.Base(src))
	if err := result.Error(0); err != nil {
		return err
	}
	return m.real.CopyFile(ctx, src, dst, followSymlinks)
}
