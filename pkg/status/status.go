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

package status

import (
	"slices"
	"strconv"
	"sync"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 📊 Status is the outcome of one planned step
type Status int

const (
	StatusUnknown   Status = iota
	StatusCompleted        // step finished on disk
	StatusFailed           // step was attempted and failed
	StatusPending          // step never ran (fatal error or cancellation)
	StatusSkipped          // entry dropped while building the tree
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusPending:
		return "pending"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 🏷️ Entry kinds
const (
	KindDir     = "dir"
	KindFile    = "file"
	KindSymlink = "symlink"
	KindEntry   = "entry"
)

// 📄 Entry is the tracked outcome of a single path
type Entry struct {
	RelPath string // path relative to the source root
	Kind    string // one of the Kind constants
	Status  Status
	Err     error  // set for StatusFailed
	Reason  string // set for StatusSkipped and StatusPending
}

// 📈 Report is the result of a copy run. It is safe for concurrent use.
type Report struct {
	SourceRoot string
	DestRoot   string

	mu        sync.Mutex
	entries   []Entry
	cancelled bool
	fatal     error
}

// 🏭 NewReport creates an empty report
func NewReport(sourceRoot, destRoot string) *Report {
	return &Report{
		SourceRoot: sourceRoot,
		DestRoot:   destRoot,
	}
}

// Track appends an entry
func (r *Report) Track(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// MarkCancelled records that the run stopped because its context ended
func (r *Report) MarkCancelled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
}

// SetFatal records the error that aborted the run
func (r *Report) SetFatal(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fatal = err
}

// Cancelled reports whether the run was cancelled
func (r *Report) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// Fatal returns the error that aborted the run, if any
func (r *Report) Fatal() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fatal
}

// Entries returns a copy of all entries in tracking order
func (r *Report) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

func (r *Report) filter(s Status) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Status == s {
			out = append(out, e)
		}
	}
	return out
}

// Completed returns the steps that finished, in completion order
func (r *Report) Completed() []Entry { return r.filter(StatusCompleted) }

// Failed returns the steps that failed
func (r *Report) Failed() []Entry { return r.filter(StatusFailed) }

// Pending returns the steps that never ran
func (r *Report) Pending() []Entry { return r.filter(StatusPending) }

// Skipped returns the entries dropped while building the tree
func (r *Report) Skipped() []Entry { return r.filter(StatusSkipped) }

// OK reports whether the run finished with nothing failed, pending or fatal
func (r *Report) OK() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fatal != nil || r.cancelled {
		return false
	}
	for _, e := range r.entries {
		if e.Status == StatusFailed || e.Status == StatusPending {
			return false
		}
	}
	return true
}

// Problems formats every skipped, failed and pending entry, one per line
func (r *Report) Problems() []string {
	var lines []string
	for _, e := range r.Entries() {
		if e.Status == StatusCompleted {
			continue
		}
		lines = append(lines, FormatEntry(e))
	}
	return lines
}

// 📋 Table renders per-kind counts as a table
func (r *Report) Table() (string, error) {
	kinds := []string{KindDir, KindFile, KindSymlink, KindEntry}
	counts := make(map[string]map[Status]int, len(kinds))
	for _, k := range kinds {
		counts[k] = map[Status]int{}
	}
	for _, e := range r.Entries() {
		if _, ok := counts[e.Kind]; !ok {
			counts[e.Kind] = map[Status]int{}
			kinds = append(kinds, e.Kind)
		}
		counts[e.Kind][e.Status]++
	}

	data := pterm.TableData{{"kind", "completed", "failed", "pending", "skipped"}}
	for _, k := range kinds {
		c := counts[k]
		if len(c) == 0 {
			continue
		}
		data = append(data, []string{
			k,
			strconv.Itoa(c[StatusCompleted]),
			strconv.Itoa(c[StatusFailed]),
			strconv.Itoa(c[StatusPending]),
			strconv.Itoa(c[StatusSkipped]),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering summary table: %w", err)
	}
	return out, nil
}
