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

package tagger

import (
	"sort"
	"strings"
)

// ChangeSet is the set of 1-based after-content line numbers judged
// substantively modified: new lines, or lines whose content changed beyond
// whitespace normalization.
type ChangeSet map[int]struct{}

// Sorted returns the change set's line numbers in ascending order.
func (cs ChangeSet) Sorted() []int {
	lines := make([]int, 0, len(cs))
	for n := range cs {
		lines = append(lines, n)
	}
	sort.Ints(lines)
	return lines
}

// Hunk is one changed region from a unified diff. Counts of zero are valid:
// a pure deletion has NewCount == 0 and contributes no taggable lines.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
}

// ClassifyHunks builds a ChangeSet from precomputed diff hunks. Hunk line
// numbers that fall outside the after content are returned in dropped rather
// than failing the whole file; a collaborator handing us a stale diff should
// degrade, not crash. When before content is available, paired replacements
// whose lines differ only in whitespace are excluded.
func ClassifyHunks(hunks []Hunk, before, after []string, style CommentStyle) (ChangeSet, []int) {
	changes := make(ChangeSet)
	var dropped []int

	for _, h := range hunks {
		paired := len(before) > 0 && h.OldCount == h.NewCount
		for i := 0; i < h.NewCount; i++ {
			n := h.NewStart + i
			if n < 1 || n > len(after) {
				dropped = append(dropped, n)
				continue
			}
			line := after[n-1]
			if !taggable(line, style) {
				continue
			}
			if paired {
				old := h.OldStart + i
				if old >= 1 && old <= len(before) &&
					strings.TrimSpace(before[old-1]) == strings.TrimSpace(line) {
					continue
				}
			}
			changes[n] = struct{}{}
		}
	}

	return changes, dropped
}

// Classify builds a ChangeSet by diffing before and after content directly.
// A nil or empty before marks the file as new: every taggable after line is
// changed.
func Classify(before, after []string, style CommentStyle) ChangeSet {
	changes := make(ChangeSet)

	if len(before) == 0 {
		for i, line := range after {
			if taggable(line, style) {
				changes[i+1] = struct{}{}
			}
		}
		return changes
	}

	for _, edit := range diffLines(before, after) {
		for i := 0; i < len(edit.added); i++ {
			n := edit.addedStart + i
			line := after[n-1]
			if !taggable(line, style) {
				continue
			}
			// A removal and an addition of equal position within the
			// same edit is a replacement; skip it when only the
			// whitespace changed.
			if i < len(edit.removed) &&
				strings.TrimSpace(edit.removed[i]) == strings.TrimSpace(line) {
				continue
			}
			changes[n] = struct{}{}
		}
	}

	return changes
}

// taggable reports whether a line can carry a tag at all: non-blank code, or
// a "deleted" marker comment left behind to memorialize removed lines. Plain
// comment lines are not tagged.
func taggable(line string, style CommentStyle) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if !strings.HasPrefix(trimmed, style.Token) {
		return true
	}
	return IsDeletedMarker(line, style)
}

// edit is one contiguous region of change produced by diffLines: removed
// lines from the before content and added lines starting at addedStart in the
// after content.
type edit struct {
	removed    []string
	added      []string
	addedStart int // 1-based
}

// diffLines computes the changed regions between two line sequences using a
// longest-common-subsequence alignment. Quadratic in the worst case, which is
// fine for the file sizes a commit touches.
func diffLines(before, after []string) []edit {
	n, m := len(before), len(after)

	// lcs[i][j] = length of the LCS of before[i:] and after[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if before[i] == after[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var edits []edit
	var cur *edit
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && before[i] == after[j]:
			cur = nil
			i++
			j++
		case j < m && (i == n || lcs[i][j+1] >= lcs[i+1][j]):
			if cur == nil {
				edits = append(edits, edit{addedStart: j + 1})
				cur = &edits[len(edits)-1]
			}
			cur.added = append(cur.added, after[j])
			j++
		default:
			if cur == nil {
				edits = append(edits, edit{addedStart: j + 1})
				cur = &edits[len(edits)-1]
			}
			cur.removed = append(cur.removed, before[i])
			i++
		}
	}

	return edits
}
