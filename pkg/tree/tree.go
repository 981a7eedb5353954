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

// Package tree builds the filtered, depth-bounded in-memory image of a
// source directory that the copier later replicates.
package tree

import (
	"path/filepath"
	"slices"
)

// 📄 FileEntry is a non-directory entry kept in the tree
type FileEntry struct {
	Name      string
	Path      string // absolute source path
	IsSymlink bool
}

// 📁 DirectoryNode is one directory of the tree. Children are indexes into
// Tree.Nodes owned by this node alone; Parent is a lookup link only.
type DirectoryNode struct {
	Name     string
	Path     string // absolute source path
	Depth    int
	Parent   int // -1 for the root
	Children []int
	Files    []FileEntry
}

// ⚠️ Skipped is an entry the builder could not keep
type Skipped struct {
	RelPath string
	Reason  string
}

// 🌳 Tree is an arena of directory nodes with the root at index 0.
// It is read-only once Build returns.
type Tree struct {
	Nodes   []DirectoryNode
	Skipped []Skipped
}

// 📊 Stats counts the kept entries
type Stats struct {
	Directories int
	Files       int
	Symlinks    int
}

// Root returns the root node
func (t *Tree) Root() *DirectoryNode {
	return &t.Nodes[0]
}

// RelPath returns the path of node i relative to the root, "." for the root.
func (t *Tree) RelPath(i int) string {
	var parts []string
	for n := i; n > 0; n = t.Nodes[n].Parent {
		parts = append(parts, t.Nodes[n].Name)
	}
	if len(parts) == 0 {
		return "."
	}
	slices.Reverse(parts)
	return filepath.Join(parts...)
}

// FileRelPath returns the root-relative path of a file held by node i
func (t *Tree) FileRelPath(i int, f FileEntry) string {
	if i == 0 {
		return f.Name
	}
	return filepath.Join(t.RelPath(i), f.Name)
}

// Walk visits every node pre-order, children in name order. Walk stops
// early when fn returns false.
func (t *Tree) Walk(fn func(index int, node *DirectoryNode) bool) {
	if len(t.Nodes) == 0 {
		return
	}
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(i, &t.Nodes[i]) {
			return
		}

		children := t.Nodes[i].Children
		for c := len(children) - 1; c >= 0; c-- {
			stack = append(stack, children[c])
		}
	}
}

// Stats counts directories (root included), files and symlinks
func (t *Tree) Stats() Stats {
	var s Stats
	for _, n := range t.Nodes {
		s.Directories++
		for _, f := range n.Files {
			if f.IsSymlink {
				s.Symlinks++
			} else {
				s.Files++
			}
		}
	}
	return s
}
