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

package tree

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/bettercopy/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidSource is returned when the source root is missing or is not a directory.
var ErrInvalidSource = errors.New("invalid source directory")

// Unlimited disables the depth bound.
const Unlimited = -1

// 🔍 Matcher decides whether an entry is excluded
type Matcher interface {
	Matches(relPath string, isDir bool) bool
}

// includer is implemented by matchers that also carry include patterns
type includer interface {
	Included(relPath string, isDir bool) bool
}

// 🏗️ Builder enumerates a source directory into a Tree
type Builder struct {
	Matcher        Matcher     // nil keeps everything
	MaxDepth       int         // deepest directory level kept below the root; negative is Unlimited
	Logger         *log.Logger // nil uses the logger carried by the context
	FollowSymlinks bool        // descend into symlinked directories
}

// 🏗️ NewBuilder creates a builder
func NewBuilder(matcher Matcher, maxDepth int, logger *log.Logger) *Builder {
	return &Builder{Matcher: matcher, MaxDepth: maxDepth, Logger: logger}
}

// walk is the state of one Build call
type walk struct {
	tree   *Tree
	real   []string // resolved path of each node, parallel to tree.Nodes
	logger *log.Logger
}

// 🌳 Build walks rootPath with an explicit work list and returns the tree of
// surviving entries. Excluded entries are never visited; directories beyond
// MaxDepth are pruned; unsupported or unreadable entries are skipped with a
// warning and recorded in Tree.Skipped.
func (b *Builder) Build(ctx context.Context, rootPath string) (*Tree, error) {
	logger := b.Logger
	if logger == nil {
		logger = log.FromContext(ctx)
	}

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, errors.Errorf("%w: resolving %s: %s", ErrInvalidSource, rootPath, err.Error())
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrInvalidSource, err.Error())
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%w: %s is not a directory", ErrInvalidSource, absRoot)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, errors.Errorf("%w: resolving %s: %s", ErrInvalidSource, absRoot, err.Error())
	}

	w := &walk{
		tree: &Tree{
			Nodes: []DirectoryNode{{
				Name:   filepath.Base(absRoot),
				Path:   absRoot,
				Depth:  0,
				Parent: -1,
			}},
		},
		real:   []string{realRoot},
		logger: logger,
	}
	t := w.tree

	work := []int{0}
	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("building tree: %w", err)
		}

		i := work[len(work)-1]
		work = work[:len(work)-1]

		// os.ReadDir returns entries sorted by name
		entries, err := os.ReadDir(t.Nodes[i].Path)
		if err != nil {
			if i == 0 {
				return nil, errors.Errorf("%w: reading %s: %s", ErrInvalidSource, absRoot, err.Error())
			}
			rel := t.RelPath(i)
			logger.Warningf("skipping contents of %s: %v", rel, err)
			t.Skipped = append(t.Skipped, Skipped{RelPath: rel, Reason: "unreadable directory: " + err.Error()})
			continue
		}

		for _, entry := range entries {
			if child, ok := b.visit(ctx, w, i, entry); ok {
				work = append(work, child)
			}
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("root", absRoot).
		Int("directories", len(t.Nodes)).
		Int("skipped", len(t.Skipped)).
		Msg("built tree")

	return t, nil
}

// visit files one entry under node parent and returns the index of a new
// child directory that still needs enumerating.
func (b *Builder) visit(ctx context.Context, w *walk, parent int, entry fs.DirEntry) (int, bool) {
	t := w.tree
	name := entry.Name()
	path := filepath.Join(t.Nodes[parent].Path, name)
	rel := name
	if parent != 0 {
		rel = filepath.Join(t.RelPath(parent), name)
	}

	mode := entry.Type()
	isDir := mode.IsDir()
	linkedDir := false
	if mode&fs.ModeSymlink != 0 && b.FollowSymlinks {
		// a dangling link stays a file entry so the copy records why it failed
		if target, err := os.Stat(path); err == nil {
			switch {
			case target.IsDir():
				isDir, linkedDir = true, true
			case !target.Mode().IsRegular():
				reason := "symlink target is a " + DescribeMode(target.Mode())
				w.logger.Warningf("skipping %s: %s", rel, reason)
				t.Skipped = append(t.Skipped, Skipped{RelPath: rel, Reason: reason})
				return 0, false
			}
		}
	}

	if b.Matcher != nil && b.Matcher.Matches(rel, isDir) {
		if inc, ok := b.Matcher.(includer); ok && inc.Included(rel, isDir) {
			w.logger.Infof("%s matches an include pattern but is excluded", rel)
		}
		return 0, false
	}

	switch {
	case mode.IsRegular():
		t.Nodes[parent].Files = append(t.Nodes[parent].Files, FileEntry{Name: name, Path: path})
	case isDir:
		depth := t.Nodes[parent].Depth + 1
		if b.MaxDepth >= 0 && depth > b.MaxDepth {
			zerolog.Ctx(ctx).Debug().Str("path", rel).Int("depth", depth).Msg("pruned beyond max depth")
			return 0, false
		}

		resolvedPath := filepath.Join(w.real[parent], name)
		if linkedDir {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				reason := "unresolvable symlink: " + err.Error()
				w.logger.Warningf("skipping %s: %s", rel, reason)
				t.Skipped = append(t.Skipped, Skipped{RelPath: rel, Reason: reason})
				return 0, false
			}
			if ancestor, loops := w.loops(parent, resolved); loops {
				reason := "symlink loop back to " + ancestor
				w.logger.Warningf("skipping %s: %s", rel, reason)
				t.Skipped = append(t.Skipped, Skipped{RelPath: rel, Reason: reason})
				return 0, false
			}
			resolvedPath = resolved
		}

		child := len(t.Nodes)
		t.Nodes = append(t.Nodes, DirectoryNode{
			Name:   name,
			Path:   path,
			Depth:  depth,
			Parent: parent,
		})
		w.real = append(w.real, resolvedPath)
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, child)
		return child, true
	case mode&fs.ModeSymlink != 0:
		t.Nodes[parent].Files = append(t.Nodes[parent].Files, FileEntry{Name: name, Path: path, IsSymlink: true})
	default:
		reason := "unsupported file type: " + DescribeMode(mode)
		w.logger.Warningf("skipping %s: %s", rel, reason)
		t.Skipped = append(t.Skipped, Skipped{RelPath: rel, Reason: reason})
	}
	return 0, false
}

// loops reports whether descending into resolved would revisit node i or
// one of its ancestors, returning that ancestor's relative path.
func (w *walk) loops(i int, resolved string) (string, bool) {
	for n := i; n >= 0; n = w.tree.Nodes[n].Parent {
		r := w.real[n]
		if r == resolved || strings.HasPrefix(r, resolved+string(filepath.Separator)) {
			return w.tree.RelPath(n), true
		}
	}
	return "", false
}

// DescribeMode names the type of a non-regular file for messages
func DescribeMode(mode fs.FileMode) string {
	switch {
	case mode.IsDir():
		return "directory"
	case mode&fs.ModeSymlink != 0:
		return "symlink"
	case mode&fs.ModeNamedPipe != 0:
		return "named pipe"
	case mode&fs.ModeSocket != 0:
		return "socket"
	case mode&fs.ModeCharDevice != 0:
		return "character device"
	case mode&fs.ModeDevice != 0:
		return "device"
	case mode.IsRegular():
		return "regular file"
	default:
		return "irregular file"
	}
}
