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

package operation

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/walteh/bettercopy/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

const dirPerm fs.FileMode = 0o755

// 💾 FileSystem is every filesystem call the copier makes
type FileSystem interface {
	// Lstat describes path without following a final symlink
	Lstat(ctx context.Context, path string) (fs.FileInfo, error)
	// ReadDir lists path
	ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error)
	// Mkdir creates one directory; with parents, missing ancestors too
	Mkdir(ctx context.Context, path string, parents bool) error
	// CopyFile copies src to a dst that must not exist yet
	CopyFile(ctx context.Context, src, dst string, followSymlinks bool) error
}

// 🖥️ OSFileSystem is the FileSystem backed by the os package
type OSFileSystem struct{}

var _ FileSystem = OSFileSystem{}

func (OSFileSystem) Lstat(ctx context.Context, path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

func (OSFileSystem) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (OSFileSystem) Mkdir(ctx context.Context, path string, parents bool) error {
	if parents {
		if err := os.MkdirAll(path, dirPerm); err != nil {
			return errors.Errorf("creating directory: %w", err)
		}
		return nil
	}
	if err := os.Mkdir(path, dirPerm); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// CopyFile preserves a symlink as a link unless followSymlinks is set, in
// which case the target's content is copied. Permission bits are kept.
func (OSFileSystem) CopyFile(ctx context.Context, src, dst string, followSymlinks bool) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Errorf("reading source info: %w", err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if !followSymlinks {
			target, err := os.Readlink(src)
			if err != nil {
				return errors.Errorf("reading symlink: %w", err)
			}
			if err := os.Symlink(target, dst); err != nil {
				return errors.Errorf("creating symlink: %w", err)
			}
			return nil
		}

		info, err = os.Stat(src)
		if err != nil {
			return errors.Errorf("resolving symlink: %w", err)
		}
		if !info.Mode().IsRegular() {
			return errors.Errorf("symlink target is a %s, not a regular file", tree.DescribeMode(info.Mode()))
		}
	}

	return copyContent(src, dst, info.Mode().Perm())
}

func copyContent(src, dst string, perm fs.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file content: %w", err)
	}

	if err := destination.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	return nil
}
