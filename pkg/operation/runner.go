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
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/bettercopy/pkg/log"
	"github.com/walteh/bettercopy/pkg/status"
	"github.com/walteh/bettercopy/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// 🚦 State is a stage of one run
type State int

const (
	StateConfigured State = iota
	StateTreeBuilt
	StatePlanComputed
	StateCopying
	StateReporting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateTreeBuilt:
		return "tree-built"
	case StatePlanComputed:
		return "plan-computed"
	case StateCopying:
		return "copying"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// allowed forward transitions; Failed is reachable from any live state
var transitions = map[State][]State{
	StateConfigured:   {StateTreeBuilt},
	StateTreeBuilt:    {StatePlanComputed, StateReporting},
	StatePlanComputed: {StateCopying},
	StateCopying:      {StateDone},
	StateReporting:    {StateDone},
}

// 🔧 Input is everything one run needs, already validated by the caller
type Input struct {
	Source             string
	Destination        string
	Matcher            tree.Matcher // nil keeps everything
	MaxDepth           int          // tree.Unlimited for no bound
	FollowSymlinks     bool
	AllowExistingEmpty bool
	DryRun             bool
	Workers            int
	FS                 FileSystem  // defaults to OSFileSystem
	Output             io.Writer   // dry-run listing; defaults to os.Stdout
	Logger             *log.Logger // defaults to the logger carried by the run context
}

// 🏃 Runner drives a single invocation through its states. A Runner is
// used once.
type Runner struct {
	in    Input
	mu    sync.Mutex
	state State
}

// 🏗️ NewRunner creates a new runner
func NewRunner(in Input) *Runner {
	if in.Output == nil {
		in.Output = os.Stdout
	}
	if in.FS == nil {
		in.FS = OSFileSystem{}
	}
	return &Runner{in: in, state: StateConfigured}
}

// State returns the current state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) transition(to State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if to == StateFailed && r.state != StateDone && r.state != StateFailed {
		r.state = to
		return nil
	}
	for _, next := range transitions[r.state] {
		if next == to {
			r.state = to
			return nil
		}
	}
	return errors.Errorf("invalid state transition %s -> %s", r.state, to)
}

func (r *Runner) fail(err error) error {
	_ = r.transition(StateFailed)
	return err
}

// 🏃 Run builds the tree and then either copies it or renders it. The
// report is returned even when err is non-nil, unless the run failed before
// any report existed.
func (r *Runner) Run(ctx context.Context) (*status.Report, error) {
	if r.State() != StateConfigured {
		return nil, errors.Errorf("runner already used (state %s)", r.State())
	}

	logger := r.in.Logger
	if logger == nil {
		logger = log.FromContext(ctx)
	}
	copier := NewCopier(CopierOptions{
		FS:                 r.in.FS,
		Logger:             logger,
		FollowSymlinks:     r.in.FollowSymlinks,
		AllowExistingEmpty: r.in.AllowExistingEmpty,
		Workers:            r.in.Workers,
	})

	// fail fast before walking a large source
	if !r.in.DryRun {
		dest, err := filepath.Abs(r.in.Destination)
		if err != nil {
			return nil, r.fail(errors.Errorf("resolving destination: %w", err))
		}
		if _, err := copier.Preflight(ctx, dest); err != nil {
			return nil, r.fail(err)
		}
	}

	builder := tree.NewBuilder(r.in.Matcher, r.in.MaxDepth, logger)
	builder.FollowSymlinks = r.in.FollowSymlinks
	t, err := builder.Build(ctx, r.in.Source)
	if err != nil {
		return nil, r.fail(errors.Errorf("building tree: %w", err))
	}
	if err := r.transition(StateTreeBuilt); err != nil {
		return nil, r.fail(err)
	}

	stats := t.Stats()
	zerolog.Ctx(ctx).Debug().
		Int("directories", stats.Directories).
		Int("files", stats.Files).
		Int("symlinks", stats.Symlinks).
		Msg("tree ready")

	if r.in.DryRun {
		return r.report(t)
	}
	return r.copy(ctx, t, copier, logger)
}

func (r *Runner) report(t *tree.Tree) (*status.Report, error) {
	if err := r.transition(StateReporting); err != nil {
		return nil, r.fail(err)
	}

	report := status.NewReport(t.Root().Path, "")
	trackSkipped(report, t)

	if err := Render(r.in.Output, t); err != nil {
		report.SetFatal(err)
		return report, r.fail(err)
	}

	if err := r.transition(StateDone); err != nil {
		return report, r.fail(err)
	}
	return report, nil
}

func (r *Runner) copy(ctx context.Context, t *tree.Tree, copier *Copier, logger *log.Logger) (*status.Report, error) {
	plan, err := BuildPlan(t, r.in.Destination)
	if err != nil {
		return nil, r.fail(err)
	}
	if err := r.transition(StatePlanComputed); err != nil {
		return nil, r.fail(err)
	}

	dirs, files := plan.Counts()
	logger.Infof("copying %d directories and %d files to %s", dirs, files, plan.DestRoot)

	if err := r.transition(StateCopying); err != nil {
		return nil, r.fail(err)
	}

	report, err := copier.Execute(ctx, plan)
	trackSkipped(report, t)
	if err != nil {
		return report, r.fail(err)
	}

	if err := r.transition(StateDone); err != nil {
		return report, r.fail(err)
	}
	return report, nil
}

func trackSkipped(report *status.Report, t *tree.Tree) {
	for _, s := range t.Skipped {
		report.Track(status.Entry{
			RelPath: s.RelPath,
			Kind:    status.KindEntry,
			Status:  status.StatusSkipped,
			Reason:  s.Reason,
		})
	}
}
