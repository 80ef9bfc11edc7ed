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

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lazytag", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := Run{
		ID:        NewRunID(),
		Tag:       "SMR-1010",
		StartedAt: time.Now(),
		Files:     1,
		Lines:     2,
	}
	entries := []Entry{
		{Path: "main.c", Line: 3, Before: "int x = 11;", After: "int x = 11; // SMR-1010"},
		{Path: "main.c", Line: 8, Before: "int y = 20;", After: "int y = 20; // SMR-1010"},
	}
	require.NoError(t, s.Record(ctx, run, entries))

	runs, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "SMR-1010", runs[0].Tag)
	assert.Equal(t, 2, runs[0].Lines)

	got, err := s.Entries(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "main.c", got[0].Path)
	assert.Equal(t, 3, got[0].Line)
}

func TestListFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := Run{ID: NewRunID(), Tag: "SMR-1010", StartedAt: time.Now().Add(-time.Hour)}
	second := Run{ID: NewRunID(), Tag: "ABC-42", StartedAt: time.Now()}
	require.NoError(t, s.Record(ctx, first, []Entry{{Path: "a.c", Line: 1, Before: "x", After: "y"}}))
	require.NoError(t, s.Record(ctx, second, []Entry{{Path: "b.py", Line: 2, Before: "x", After: "y"}}))

	byTag, err := s.List(ctx, Filter{Tag: "ABC-42"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, second.ID, byTag[0].ID)

	byPath, err := s.List(ctx, Filter{Path: "a.c"})
	require.NoError(t, err)
	require.Len(t, byPath, 1)
	assert.Equal(t, first.ID, byPath[0].ID)

	limited, err := s.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.ID, limited[0].ID, "newest run first")
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}
