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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bettercopy/pkg/operation"
	"github.com/walteh/bettercopy/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

func TestBuildPlanPreOrder(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, "b.txt", "a.txt", "sub/c.txt", "sub/deep/d.txt", "z/")
	dst := filepath.Join(t.TempDir(), "out")

	plan, err := operation.BuildPlan(buildTree(t, src, nil, tree.Unlimited), dst)
	require.NoError(t, err)

	type row struct {
		kind operation.StepKind
		rel  string
	}
	var got []row
	for _, s := range plan.Steps {
		got = append(got, row{s.Kind, filepath.ToSlash(s.RelPath)})
		assert.Equal(t, filepath.Join(dst, s.RelPath), s.Destination, "destination of %s", s.RelPath)
		assert.Equal(t, filepath.Join(src, s.RelPath), s.Source, "source of %s", s.RelPath)
	}

	assert.Equal(t, []row{
		{operation.StepMkdir, "."},
		{operation.StepCopyFile, "a.txt"},
		{operation.StepCopyFile, "b.txt"},
		{operation.StepMkdir, "sub"},
		{operation.StepCopyFile, "sub/c.txt"},
		{operation.StepMkdir, "sub/deep"},
		{operation.StepCopyFile, "sub/deep/d.txt"},
		{operation.StepMkdir, "z"},
	}, got)

	dirs, files := plan.Counts()
	assert.Equal(t, 4, dirs)
	assert.Equal(t, 4, files)
	assert.Equal(t, dst, plan.DestRoot)
}

func TestBuildPlanParentBeforeChildren(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, "a/b/c/f.txt", "a/g.txt", "h/i/j.txt")

	plan, err := operation.BuildPlan(buildTree(t, src, nil, tree.Unlimited), filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, s := range plan.Steps {
		if s.RelPath != "." {
			parent := filepath.Dir(s.RelPath)
			assert.True(t, seen[parent], "%s planned before its directory %s", s.RelPath, parent)
		}
		if s.Kind == operation.StepMkdir {
			seen[s.RelPath] = true
		}
	}
}

func TestBuildPlanEmptyTree(t *testing.T) {
	_, err := operation.BuildPlan(&tree.Tree{}, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, operation.ErrInvalidPlan))
}
