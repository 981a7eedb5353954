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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/walteh/bettercopy/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// 🖨️ Render writes the dry-run listing of t: one "| dir" line per directory
// and one "- name" line per file, indented by depth, with paths relative to
// the source root. It only reads t.
func Render(w io.Writer, t *tree.Tree) error {
	var renderErr error
	t.Walk(func(i int, node *tree.DirectoryNode) bool {
		indent := strings.Repeat("  ", node.Depth)
		if _, err := fmt.Fprintf(w, "%s| %s\n", indent, filepath.ToSlash(t.RelPath(i))); err != nil {
			renderErr = err
			return false
		}
		for _, f := range node.Files {
			line := fmt.Sprintf("%s    - %s", indent, f.Name)
			if f.IsSymlink {
				line += " @"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				renderErr = err
				return false
			}
		}
		return true
	})
	if renderErr != nil {
		return errors.Errorf("writing listing: %w", renderErr)
	}
	return nil
}
