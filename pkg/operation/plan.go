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
	"path/filepath"

	"github.com/walteh/bettercopy/pkg/status"
	"github.com/walteh/bettercopy/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidPlan is returned when a destination path cannot be derived.
var ErrInvalidPlan = errors.New("invalid copy plan")

// 🏷️ StepKind is the type of a planned filesystem operation
type StepKind int

const (
	StepMkdir StepKind = iota
	StepCopyFile
)

func (k StepKind) String() string {
	if k == StepMkdir {
		return "mkdir"
	}
	return "copy"
}

// 📦 Step is one planned filesystem operation
type Step struct {
	Kind        StepKind
	Source      string // absolute source path
	Destination string // absolute destination path
	RelPath     string // path relative to both roots, "." for the root
	Depth       int    // depth of the directory that owns the step
	IsSymlink   bool
}

func (s Step) entryKind() string {
	switch {
	case s.Kind == StepMkdir:
		return status.KindDir
	case s.IsSymlink:
		return status.KindSymlink
	default:
		return status.KindFile
	}
}

// 📋 Plan is the ordered, immutable list of steps for one run
type Plan struct {
	SourceRoot string
	DestRoot   string
	Steps      []Step
}

// Counts returns the number of directories and files in the plan
func (p *Plan) Counts() (dirs, files int) {
	for _, s := range p.Steps {
		if s.Kind == StepMkdir {
			dirs++
		} else {
			files++
		}
	}
	return dirs, files
}

// 🗺️ BuildPlan derives the pre-order step list for t under destRoot. Every
// directory step precedes the steps of its files and subdirectories, and
// siblings keep the tree's name order.
func BuildPlan(t *tree.Tree, destRoot string) (*Plan, error) {
	if t == nil || len(t.Nodes) == 0 {
		return nil, errors.Errorf("%w: empty tree", ErrInvalidPlan)
	}

	absDest, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, errors.Errorf("%w: resolving %s: %s", ErrInvalidPlan, destRoot, err.Error())
	}

	plan := &Plan{
		SourceRoot: t.Root().Path,
		DestRoot:   absDest,
	}

	var planErr error
	t.Walk(func(i int, node *tree.DirectoryNode) bool {
		rel := t.RelPath(i)
		dst, err := destinationFor(absDest, rel)
		if err != nil {
			planErr = err
			return false
		}
		plan.Steps = append(plan.Steps, Step{
			Kind:        StepMkdir,
			Source:      node.Path,
			Destination: dst,
			RelPath:     rel,
			Depth:       node.Depth,
		})

		for _, f := range node.Files {
			fileRel := t.FileRelPath(i, f)
			fileDst, err := destinationFor(absDest, fileRel)
			if err != nil {
				planErr = err
				return false
			}
			plan.Steps = append(plan.Steps, Step{
				Kind:        StepCopyFile,
				Source:      f.Path,
				Destination: fileDst,
				RelPath:     fileRel,
				Depth:       node.Depth,
				IsSymlink:   f.IsSymlink,
			})
		}
		return true
	})
	if planErr != nil {
		return nil, planErr
	}

	return plan, nil
}

// destinationFor joins rel onto destRoot, refusing paths that leave it
func destinationFor(destRoot, rel string) (string, error) {
	if !filepath.IsLocal(rel) {
		return "", errors.Errorf("%w: %q escapes the destination root", ErrInvalidPlan, rel)
	}
	return filepath.Join(destRoot, rel), nil
}
