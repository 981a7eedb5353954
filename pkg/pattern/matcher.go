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

package pattern

import (
	"path/filepath"
	"slices"
)

// 🔍 Matcher decides whether an entry is excluded from the copy.
//
// Include patterns are carried for diagnostics only: when both lists match
// a path, exclusion wins.
type Matcher struct {
	excludes []Pattern
	includes []Pattern
}

// 🏭 New creates a matcher. The slices are cloned so later edits by the
// caller do not leak into the matcher.
func New(excludes, includes []Pattern) *Matcher {
	return &Matcher{
		excludes: slices.Clone(excludes),
		includes: slices.Clone(includes),
	}
}

// Matches reports whether relPath (relative to the source root, either
// separator) should be excluded.
func (m *Matcher) Matches(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	rel := filepath.ToSlash(relPath)
	for _, p := range m.excludes {
		if p.match(rel, isDir) {
			return true
		}
	}
	return false
}

// Included reports whether any include pattern matches relPath. It has no
// effect on Matches.
func (m *Matcher) Included(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	rel := filepath.ToSlash(relPath)
	for _, p := range m.includes {
		if p.match(rel, isDir) {
			return true
		}
	}
	return false
}

// Empty reports whether neither list holds a pattern
func (m *Matcher) Empty() bool {
	return m == nil || (len(m.excludes) == 0 && len(m.includes) == 0)
}
