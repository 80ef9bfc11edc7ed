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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyNewFileMarksAllNonBlankLines(t *testing.T) {
	style := mustStyle(t, "c")
	after := []string{
		"int main(void) {",
		"",
		"    return 0;",
		"}",
	}

	changes := Classify(nil, after, style)
	assert.Equal(t, []int{1, 3, 4}, changes.Sorted())
}

func TestClassifyExcludesWhitespaceOnlyChanges(t *testing.T) {
	style := mustStyle(t, "c")
	before := []string{
		"int x = 10;",
		"int y = 20;",
		"int z = 30;",
	}
	after := []string{
		"    int x = 10;", // re-indented only
		"int y = 21;",     // real change
		"int z = 30;",
	}

	changes := Classify(before, after, style)
	assert.Equal(t, []int{2}, changes.Sorted())
}

func TestClassifyAddedLines(t *testing.T) {
	style := mustStyle(t, "py")
	before := []string{
		"a = 1",
		"b = 2",
	}
	after := []string{
		"a = 1",
		"c = 3",
		"",
		"b = 2",
	}

	changes := Classify(before, after, style)
	assert.Equal(t, []int{2}, changes.Sorted(), "blank insertions are not taggable")
}

func TestClassifyPureDeletionLeavesNothing(t *testing.T) {
	style := mustStyle(t, "py")
	before := []string{
		"a = 1",
		"b = 2",
		"c = 3",
	}
	after := []string{
		"a = 1",
		"c = 3",
	}

	changes := Classify(before, after, style)
	assert.Empty(t, changes)
}

func TestClassifyDeletedMarkerIsEligible(t *testing.T) {
	style := mustStyle(t, "py")
	before := []string{
		"a = 1",
		`print("Done")`,
	}
	after := []string{
		"a = 1",
		`# deleted print("Done")`,
	}

	changes := Classify(before, after, style)
	assert.Equal(t, []int{2}, changes.Sorted())
}

func TestClassifyPlainCommentChangesIgnored(t *testing.T) {
	style := mustStyle(t, "c")
	before := []string{
		"// old comment",
		"int x;",
	}
	after := []string{
		"// new comment",
		"int x;",
	}

	changes := Classify(before, after, style)
	assert.Empty(t, changes)
}

func TestClassifyHunks(t *testing.T) {
	style := mustStyle(t, "c")
	before := []string{
		"int x = 10;",
		"int y = 20;",
	}
	after := []string{
		"int x = 10;",
		"int y = 99;",
		"int z = 30;",
	}

	hunks := []Hunk{
		{OldStart: 2, OldCount: 1, NewStart: 2, NewCount: 1},
		{OldStart: 2, OldCount: 0, NewStart: 3, NewCount: 1},
	}

	changes, dropped := ClassifyHunks(hunks, before, after, style)
	assert.Empty(t, dropped)
	assert.Equal(t, []int{2, 3}, changes.Sorted())
}

func TestClassifyHunksWhitespaceOnlyReplacement(t *testing.T) {
	style := mustStyle(t, "c")
	before := []string{"int x = 10;"}
	after := []string{"\tint x = 10;"}

	hunks := []Hunk{{OldStart: 1, OldCount: 1, NewStart: 1, NewCount: 1}}

	changes, dropped := ClassifyHunks(hunks, before, after, style)
	assert.Empty(t, dropped)
	assert.Empty(t, changes)
}

func TestClassifyHunksDropsOutOfRangeLines(t *testing.T) {
	style := mustStyle(t, "c")
	after := []string{"int x = 10;"}

	hunks := []Hunk{{NewStart: 1, NewCount: 3}}

	changes, dropped := ClassifyHunks(hunks, nil, after, style)
	assert.Equal(t, []int{1}, changes.Sorted())
	assert.Equal(t, []int{2, 3}, dropped)
}

func TestDiffLinesPairsReplacements(t *testing.T) {
	before := []string{"one", "two", "three"}
	after := []string{"one", "TWO", "three"}

	edits := diffLines(before, after)
	require.Len(t, edits, 1)
	assert.Equal(t, []string{"two"}, edits[0].removed)
	assert.Equal(t, []string{"TWO"}, edits[0].added)
	assert.Equal(t, 2, edits[0].addedStart)
}
