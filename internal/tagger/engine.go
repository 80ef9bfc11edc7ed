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
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidTag is returned when a caller-supplied tag does not match
	// the KEY-NUMBER pattern. This is a configuration error to fix before
	// retrying, not a per-file condition.
	ErrInvalidTag = errors.New("tagger: tag must match KEY-NUMBER, e.g. SMR-1010")

	// ErrNoInput is returned when there is nothing to do at all: no files
	// and no tag.
	ErrNoInput = errors.New("tagger: no files to process and no tag to apply")
)

// SourceFile is one file's worth of input to the engine. Before is nil for
// newly created files. Hunks, when present, carry a collaborator's
// precomputed diff; otherwise the engine diffs Before against After itself.
type SourceFile struct {
	Path   string
	Before []string
	After  []string
	Hunks  []Hunk
}

// LineChange records one line rewritten by tag insertion.
type LineChange struct {
	Line   int
	Before string
	After  string
}

// TaggingResult is the engine's per-file output: the rewritten content, the
// lines selected to carry a tag, and the lines actually changed. A skipped
// file reports why and carries its input content unchanged.
type TaggingResult struct {
	Path    string
	Lines   []string
	Targets []int
	Changes []LineChange
	Skipped bool
	Reason  string
}

// Engine drives classification, multiline resolution, and tag composition
// over a batch of files. It owns no I/O: callers feed it content and decide
// what to do with the rewritten buffers, so dry runs and real runs share the
// same code path up to write-back.
type Engine struct {
	registry *Registry
	column   int
	workers  int
	logger   *slog.Logger
}

// EngineConfig configures a tagging engine. Zero values select defaults.
type EngineConfig struct {
	// Registry resolves file extensions to comment styles.
	// Default: NewRegistry().
	Registry *Registry

	// Column is the target start column for inserted comments.
	// Default: DefaultColumn.
	Column int

	// Workers bounds the per-file concurrency. Files are independent and
	// results keep input order regardless. Default: GOMAXPROCS.
	Workers int

	// Logger receives per-file diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// NewEngine creates a tagging engine.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		registry: cfg.Registry,
		column:   cfg.Column,
		workers:  cfg.Workers,
		logger:   cfg.Logger,
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	if e.column <= 0 {
		e.column = DefaultColumn
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Run tags every file in the batch and returns one result per input file, in
// input order. An empty tag degrades to preview: classification and target
// selection still run and are reported, but no content changes. Per-file
// problems (unknown extension, binary content) skip that file only; a commit
// can span many files and one bad file must not block the rest.
func (e *Engine) Run(ctx context.Context, files []SourceFile, tag string, dryRun bool) ([]TaggingResult, error) {
	if tag != "" && !IsTag(tag) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	if len(files) == 0 && tag == "" {
		return nil, ErrNoInput
	}

	results := make([]TaggingResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.processFile(f, tag, dryRun)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (e *Engine) processFile(f SourceFile, tag string, dryRun bool) TaggingResult {
	result := TaggingResult{Path: f.Path, Lines: slices.Clone(f.After)}
	logger := e.logger.With(slog.String("path", f.Path))

	style, ok := e.registry.Lookup(filepath.Ext(f.Path))
	if !ok {
		result.Skipped = true
		result.Reason = fmt.Sprintf("unsupported file extension %q", filepath.Ext(f.Path))
		logger.Debug("skipping file", slog.String("reason", result.Reason))
		return result
	}

	if reason, bad := unsuitableContent(f.After); bad {
		result.Skipped = true
		result.Reason = reason
		logger.Warn("skipping file", slog.String("reason", reason))
		return result
	}

	var changes ChangeSet
	if len(f.Hunks) > 0 {
		var dropped []int
		changes, dropped = ClassifyHunks(f.Hunks, f.Before, f.After, style)
		for _, n := range dropped {
			logger.Warn("dropping out-of-range diff line", slog.Int("line", n))
		}
	} else {
		changes = Classify(f.Before, f.After, style)
	}

	result.Targets = ResolveTargets(changes, f.After, style)
	if tag == "" {
		logger.Debug("no tag available, previewing targets only",
			slog.Int("targets", len(result.Targets)))
		return result
	}

	for _, n := range result.Targets {
		original := result.Lines[n-1]
		composed, changed := Compose(original, style, tag, e.column)
		if !changed {
			continue
		}
		result.Lines[n-1] = composed
		result.Changes = append(result.Changes, LineChange{Line: n, Before: original, After: composed})
	}

	logger.Debug("file processed",
		slog.Int("targets", len(result.Targets)),
		slog.Int("changed", len(result.Changes)),
		slog.Bool("dry_run", dryRun))

	return result
}

// unsuitableContent rejects content the composer could corrupt, such as a
// binary file misdetected as text.
func unsuitableContent(lines []string) (string, bool) {
	for _, line := range lines {
		if strings.IndexByte(line, 0) >= 0 {
			return "binary content", true
		}
	}
	return "", false
}

// SplitLines splits file content into lines without trailing newlines. A
// final newline does not produce a trailing empty line.
func SplitLines(content []byte) []string {
	s := strings.TrimSuffix(string(content), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// JoinLines reassembles lines into file content with a trailing newline.
func JoinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
