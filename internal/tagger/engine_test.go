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
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRunTagsChangedLines(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	files := []SourceFile{{
		Path:   "main.c",
		Before: []string{"int x = 10;"},
		After:  []string{"int x = 11;", "int y = 20;"},
	}}

	results, err := engine.Run(context.Background(), files, "SMR-1010", false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.False(t, r.Skipped)
	assert.Equal(t, []int{1, 2}, r.Targets)
	require.Len(t, r.Changes, 2)
	assert.Equal(t, 1, r.Changes[0].Line)
	assert.Contains(t, r.Lines[0], "// SMR-1010")
	assert.Contains(t, r.Lines[1], "// SMR-1010")
}

func TestEngineRunUnknownExtensionSkips(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	files := []SourceFile{{
		Path:  "notes.txt",
		After: []string{"changed line"},
	}}

	results, err := engine.Run(context.Background(), files, "SMR-1010", false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Skipped)
	assert.Empty(t, r.Changes)
	assert.Equal(t, []string{"changed line"}, r.Lines, "content must be untouched")
}

func TestEngineRunBinaryContentSkips(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	files := []SourceFile{{
		Path:  "blob.c",
		After: []string{"int x;\x00\x01"},
	}}

	results, err := engine.Run(context.Background(), files, "SMR-1010", false)
	require.NoError(t, err)
	require.True(t, results[0].Skipped)
	assert.Equal(t, "binary content", results[0].Reason)
}

func TestEngineRunWithoutTagPreviewsTargets(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	files := []SourceFile{{
		Path:  "main.c",
		After: []string{"int x = 10;"},
	}}

	results, err := engine.Run(context.Background(), files, "", false)
	require.NoError(t, err)

	r := results[0]
	assert.Equal(t, []int{1}, r.Targets)
	assert.Empty(t, r.Changes)
	assert.Equal(t, []string{"int x = 10;"}, r.Lines)
}

func TestEngineRunInvalidTag(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	_, err := engine.Run(context.Background(), []SourceFile{{Path: "a.c"}}, "smr-1", false)
	require.ErrorIs(t, err, ErrInvalidTag)
}

func TestEngineRunNoInput(t *testing.T) {
	engine := NewEngine(EngineConfig{})

	_, err := engine.Run(context.Background(), nil, "", false)
	require.ErrorIs(t, err, ErrNoInput)
}

func TestEngineRunDryRunEquivalence(t *testing.T) {
	files := []SourceFile{{
		Path:   "mod.py",
		Before: []string{"a = 1"},
		After:  []string{"a = 2", "b = 3"},
	}}

	engine := NewEngine(EngineConfig{})
	wet, err := engine.Run(context.Background(), files, "SMR-1010", false)
	require.NoError(t, err)
	dry, err := engine.Run(context.Background(), files, "SMR-1010", true)
	require.NoError(t, err)

	assert.Equal(t, wet, dry, "dry run must compute identical results")
}

func TestEngineRunOneBadFileDoesNotAbortBatch(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	files := []SourceFile{
		{Path: "bad.bin", After: []string{"\x00"}},
		{Path: "good.c", Before: []string{"int x = 1;"}, After: []string{"int x = 2;"}},
	}

	results, err := engine.Run(context.Background(), files, "SMR-1010", false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Skipped)
	assert.False(t, results[1].Skipped)
	assert.Len(t, results[1].Changes, 1)
}

func TestEngineRunUsesHunksWhenPresent(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	files := []SourceFile{{
		Path:  "main.c",
		After: []string{"int a;", "int b;", "int c;"},
		// Only line 2 is reported changed by the collaborator diff.
		Hunks: []Hunk{{OldStart: 2, OldCount: 0, NewStart: 2, NewCount: 1}},
	}}

	results, err := engine.Run(context.Background(), files, "SMR-1010", false)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, results[0].Targets)
	assert.NotContains(t, results[0].Lines[0], "SMR-1010")
	assert.Contains(t, results[0].Lines[1], "SMR-1010")
	assert.NotContains(t, results[0].Lines[2], "SMR-1010")
}

func TestEngineRunCustomColumn(t *testing.T) {
	engine := NewEngine(EngineConfig{Column: 40})
	files := []SourceFile{{Path: "x.c", After: []string{"int x;"}}}

	results, err := engine.Run(context.Background(), files, "SMR-1", false)
	require.NoError(t, err)
	assert.Equal(t, 39, strings.Index(results[0].Lines[0], "//"))
}

func TestSplitJoinLines(t *testing.T) {
	content := []byte("one\ntwo\n")
	lines := SplitLines(content)
	assert.Equal(t, []string{"one", "two"}, lines)
	assert.Equal(t, content, JoinLines(lines))

	assert.Nil(t, SplitLines(nil))
	assert.Nil(t, JoinLines(nil))

	// No trailing newline on input still yields one.
	assert.Equal(t, []string{"one"}, SplitLines([]byte("one")))
}
