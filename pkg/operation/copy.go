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
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/walteh/bettercopy/pkg/log"
	"github.com/walteh/bettercopy/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDestinationExists is returned when the destination root is already present.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrDirectoryCreate is returned when a planned directory cannot be created.
	ErrDirectoryCreate = errors.New("directory creation failed")
)

// 🔧 CopierOptions configures a Copier
type CopierOptions struct {
	FS                 FileSystem  // defaults to OSFileSystem
	Logger             *log.Logger // defaults to a discarding logger
	FollowSymlinks     bool        // copy link targets instead of the links
	AllowExistingEmpty bool        // accept an existing, empty destination directory
	Workers            int         // file copy parallelism; <= 0 uses GOMAXPROCS
}

// 📦 Copier executes a Plan
type Copier struct {
	fs                 FileSystem
	logger             *log.Logger
	followSymlinks     bool
	allowExistingEmpty bool
	workers            int
}

// 🏭 NewCopier creates a copier
func NewCopier(opts CopierOptions) *Copier {
	c := &Copier{
		fs:                 opts.FS,
		logger:             opts.Logger,
		followSymlinks:     opts.FollowSymlinks,
		allowExistingEmpty: opts.AllowExistingEmpty,
		workers:            opts.Workers,
	}
	if c.fs == nil {
		c.fs = OSFileSystem{}
	}
	if c.logger == nil {
		c.logger = log.Discard()
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// 🔍 Preflight checks destRoot before any write. It returns reuse=true when
// destRoot is an existing empty directory that AllowExistingEmpty accepts.
func (c *Copier) Preflight(ctx context.Context, destRoot string) (reuse bool, err error) {
	info, err := c.fs.Lstat(ctx, destRoot)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("checking destination %s: %w", destRoot, err)
	}

	if !c.allowExistingEmpty {
		return false, errors.Errorf("%w: %s (use --allow-empty to copy into an existing empty directory)", ErrDestinationExists, destRoot)
	}
	if !info.IsDir() {
		return false, errors.Errorf("%w: %s is not a directory", ErrDestinationExists, destRoot)
	}
	entries, err := c.fs.ReadDir(ctx, destRoot)
	if err != nil {
		return false, errors.Errorf("reading destination %s: %w", destRoot, err)
	}
	if len(entries) > 0 {
		return false, errors.Errorf("%w: %s is not empty", ErrDestinationExists, destRoot)
	}
	return true, nil
}

// 🏃 Execute runs plan and returns a report of every step. The error is
// non-nil when the run was aborted (preflight, directory creation or
// cancellation); individual file failures only show up in the report.
func (c *Copier) Execute(ctx context.Context, plan *Plan) (*status.Report, error) {
	report := status.NewReport(plan.SourceRoot, plan.DestRoot)

	reuse, err := c.Preflight(ctx, plan.DestRoot)
	if err != nil {
		report.SetFatal(err)
		for _, step := range plan.Steps {
			c.trackPending(report, step, "destination check failed")
		}
		return report, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("destination", plan.DestRoot).
		Int("steps", len(plan.Steps)).
		Int("workers", c.workers).
		Msg("executing copy plan")

	var group errgroup.Group
	group.SetLimit(c.workers)

	var abort error
	next := 0
dispatch:
	for ; next < len(plan.Steps); next++ {
		if err := ctx.Err(); err != nil {
			report.MarkCancelled()
			abort = errors.Errorf("copy cancelled: %w", err)
			break
		}

		step := plan.Steps[next]
		switch step.Kind {
		case StepMkdir:
			// directories are created here, never on the pool, so a
			// directory exists before anything beneath it is scheduled
			if step.RelPath == "." && reuse {
				c.track(ctx, report, step, nil)
				continue
			}
			if err := c.fs.Mkdir(ctx, step.Destination, step.RelPath == "."); err != nil {
				err = errors.Errorf("%w: %s: %s", ErrDirectoryCreate, step.RelPath, err.Error())
				c.track(ctx, report, step, err)
				abort = err
				next++
				break dispatch
			}
			c.track(ctx, report, step, nil)
		case StepCopyFile:
			group.Go(func() error {
				err := c.fs.CopyFile(ctx, step.Source, step.Destination, c.followSymlinks)
				if err != nil {
					c.logger.Warningf("failed to copy %s: %v", step.RelPath, err)
				}
				c.track(ctx, report, step, err)
				return nil
			})
		}
	}

	// workers never return an error; failures live in the report
	_ = group.Wait()

	reason := "not reached"
	if report.Cancelled() {
		reason = "cancelled"
	} else if abort != nil {
		reason = "aborted after directory failure"
	}
	for ; next < len(plan.Steps); next++ {
		c.trackPending(report, plan.Steps[next], reason)
	}

	if abort != nil {
		report.SetFatal(abort)
		return report, abort
	}
	return report, nil
}

func (c *Copier) track(ctx context.Context, report *status.Report, step Step, err error) {
	entry := status.Entry{
		RelPath: step.RelPath,
		Kind:    step.entryKind(),
		Status:  status.StatusCompleted,
	}
	op := log.FileOperation{
		Path:   step.RelPath,
		Kind:   entry.Kind,
		Status: "copied",
	}
	switch {
	case err != nil:
		entry.Status = status.StatusFailed
		entry.Err = err
		op.Status = "failed"
		op.IsFailed = true
	case step.Kind == StepMkdir:
		op.Status = "created"
	case step.IsSymlink && !c.followSymlinks:
		op.Status = "linked"
	}

	report.Track(entry)
	c.logger.LogFileOperation(ctx, op)
}

func (c *Copier) trackPending(report *status.Report, step Step, reason string) {
	report.Track(status.Entry{
		RelPath: step.RelPath,
		Kind:    step.entryKind(),
		Status:  status.StatusPending,
		Reason:  reason,
	})
}
