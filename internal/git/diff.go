// Copyright 2026 Sebastian Rodriguez
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

package git

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/semarova/lazytag/internal/tagger"
)

// Hunk headers look like "@@ -12,2 +14,3 @@"; a missing count means 1.
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// StagedHunks returns the changed regions between HEAD and the index for one
// file, with zero context lines so every listed line is a real change.
func (c *Client) StagedHunks(ctx context.Context, path string) ([]tagger.Hunk, error) {
	out, err := c.run(ctx, "diff", "--cached", "-U0", "--", path)
	if err != nil {
		return nil, err
	}
	return ParseHunks(out), nil
}

// ParseHunks extracts hunk headers from unified diff output. Lines that are
// not hunk headers are ignored; the tagger only needs the line ranges.
func ParseHunks(diff string) []tagger.Hunk {
	var hunks []tagger.Hunk
	for _, line := range strings.Split(diff, "\n") {
		m := hunkHeaderPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		hunks = append(hunks, tagger.Hunk{
			OldStart: atoiDefault(m[1], 0),
			OldCount: atoiDefault(m[2], 1),
			NewStart: atoiDefault(m[3], 0),
			NewCount: atoiDefault(m[4], 1),
		})
	}
	return hunks
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
