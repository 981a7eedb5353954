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

// Package pattern compiles ignore and include pattern files into a
// predicate over paths relative to the copy source root.
package pattern

import (
	"bufio"
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/bettercopy/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// ErrConfig is returned when a pattern file cannot be read.
var ErrConfig = errors.New("pattern configuration error")

// 🏷️ Kind tells which list a pattern came from
type Kind int

const (
	KindExclude Kind = iota
	KindInclude
)

func (k Kind) String() string {
	if k == KindInclude {
		return "include"
	}
	return "exclude"
}

// 📐 Pattern is one glob line from a pattern file
type Pattern struct {
	Glob     string // glob with anchor and directory markers removed
	Kind     Kind
	DirOnly  bool // trailing "/": matches directories only
	Anchored bool // contains "/": matched against the full relative path
}

// String returns the pattern as it would be written in a pattern file
func (p Pattern) String() string {
	s := p.Glob
	if p.Anchored && !strings.Contains(s, "/") {
		s = "/" + s
	}
	if p.DirOnly {
		s += "/"
	}
	return s
}

func (p Pattern) match(relPath string, isDir bool) bool {
	if p.DirOnly && !isDir {
		return false
	}
	subject := relPath
	if !p.Anchored {
		subject = path.Base(relPath)
	}
	// the glob was validated at parse time, so the error is always nil
	ok, _ := doublestar.Match(p.Glob, subject)
	return ok
}

// 📖 LoadFile reads the pattern file at filename
func LoadFile(ctx context.Context, filename string, kind Kind, logger *log.Logger) ([]Pattern, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Errorf("%w: reading %s file: %s", ErrConfig, kind, err.Error())
	}
	defer f.Close()

	patterns, err := Parse(ctx, f, kind, logger)
	if err != nil {
		return nil, errors.Errorf("%w: parsing %s: %s", ErrConfig, filename, err.Error())
	}

	zerolog.Ctx(ctx).Debug().Str("path", filename).Stringer("kind", kind).Int("count", len(patterns)).Msg("loaded pattern file")
	return patterns, nil
}

// 📝 Parse reads one pattern per line. Blank lines and lines whose trimmed
// content starts with "#" are skipped. A "!" negation or a line that is not
// a valid glob is reported as a warning and dropped.
func Parse(ctx context.Context, r io.Reader, kind Kind, logger *log.Logger) ([]Pattern, error) {
	var patterns []Pattern

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "!") {
			logger.Warningf("skipping negated %s pattern on line %d: %q (negation is not supported)", kind, lineNo, line)
			continue
		}

		p, ok := compile(line, kind)
		if !ok {
			logger.Warningf("skipping invalid %s pattern on line %d: %q", kind, lineNo, line)
			continue
		}
		patterns = append(patterns, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("scanning patterns: %w", err)
	}

	return patterns, nil
}

func compile(line string, kind Kind) (Pattern, bool) {
	p := Pattern{Kind: kind}

	glob := line
	if strings.HasSuffix(glob, "/") {
		p.DirOnly = true
		glob = strings.TrimRight(glob, "/")
	}
	if strings.HasPrefix(glob, "/") {
		p.Anchored = true
		glob = strings.TrimLeft(glob, "/")
	}
	if strings.Contains(glob, "/") {
		p.Anchored = true
	}

	if glob == "" || !doublestar.ValidatePattern(glob) {
		return Pattern{}, false
	}
	p.Glob = glob
	return p, true
}
