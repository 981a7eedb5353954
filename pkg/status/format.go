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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent entries
	nameWidth   = 35 // Base width for path
	statusWidth = 10 // Width for status text
)

// 🎯 FormatEntry formats one report entry for display
func FormatEntry(e Entry) string {
	var prefix string
	switch e.Status {
	case StatusCompleted:
		prefix = color.GreenString("✓")
	case StatusFailed:
		prefix = color.RedString("✗")
	case StatusPending:
		prefix = color.YellowString("…")
	case StatusSkipped:
		prefix = color.HiBlackString("-")
	default:
		prefix = color.HiBlackString("?")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, filepath.ToSlash(e.RelPath))
	statusPart := fmt.Sprintf("%-*s", statusWidth, e.Status.String())

	detail := e.Reason
	if e.Err != nil {
		detail = e.Err.Error()
	}

	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", entryIndent),
		prefix,
		namePart,
		statusPart,
		detail,
	), " ")
}
