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

import "strings"

// ResolveTargets collapses runs of changed lines that belong to one logical
// statement down to the statement's final physical line. Two changed lines
// join the same run only when they are numerically adjacent and the earlier
// line ends with a continuation indicator for the language. Tagging every
// physical line of a wrapped call would be noise; only the terminus carries
// the tag.
//
// The returned line numbers are strictly increasing, at most one per run.
func ResolveTargets(changes ChangeSet, after []string, style CommentStyle) []int {
	lines := changes.Sorted()
	if len(lines) == 0 {
		return nil
	}

	var targets []int
	for i, n := range lines {
		if i+1 < len(lines) && lines[i+1] == n+1 && continues(after, n, style) {
			continue
		}
		targets = append(targets, n)
	}
	return targets
}

// continues reports whether line n (1-based) hands its statement to line n+1.
func continues(after []string, n int, style CommentStyle) bool {
	if style.IsContinuation == nil || n < 1 || n > len(after) {
		return false
	}
	return style.IsContinuation(strings.TrimSpace(after[n-1]))
}
