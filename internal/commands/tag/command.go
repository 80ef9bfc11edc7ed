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

package tag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/semarova/lazytag/internal/commands/shared"
	"github.com/semarova/lazytag/internal/config"
	"github.com/semarova/lazytag/internal/git"
	"github.com/semarova/lazytag/internal/history"
	"github.com/semarova/lazytag/internal/log"
	"github.com/semarova/lazytag/internal/tagger"
)

// NewCommand creates the tag command
func NewCommand() *cobra.Command {
	var (
		tagOverride string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "tag [paths...]",
		Short: "Tag modified staged lines",
		Long: `Tag scans the files staged for commit, determines which lines changed
beyond whitespace, and appends the issue tag as a trailing comment on each
changed line's statement terminus.

The tag is taken from the current branch name (e.g. SMR-1010-fix-altimeter
yields SMR-1010) unless --tag overrides it. Without a usable tag the command
still reports which lines would be tagged, and changes nothing.

Positional paths, when given, restrict tagging to those staged files.`,
		Example: `  # Tag everything staged, using the branch-derived tag
  lazytag tag

  # Preview without modifying files
  lazytag tag --dry-run

  # Override the branch tag
  lazytag tag --tag ABC-1234

  # Only tag two of the staged files
  lazytag tag src/main.c src/util.c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(cmd, args, tagOverride, dryRun)
		},
	}

	cmd.Flags().StringVar(&tagOverride, "tag", "", "Tag to apply (e.g. ABC-1234), overriding the branch name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying files")

	return cmd
}

func runTag(cmd *cobra.Command, args []string, tagOverride string, dryRun bool) error {
	ctx := cmd.Context()

	gitClient := git.New("")
	repoRoot, err := gitClient.RepoRoot(ctx)
	if err != nil {
		return shared.NewConfigError("not inside a git repository", err)
	}

	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return shared.NewConfigError("invalid configuration", err)
	}
	logger := newLogger(cfg)

	issueTag, err := resolveTag(ctx, gitClient, tagOverride)
	if err != nil {
		return err
	}

	files, skipped, err := collectFiles(ctx, gitClient, cfg, repoRoot, args, logger)
	if err != nil {
		return shared.NewTaggingError("failed to enumerate staged files", err)
	}
	if len(files) == 0 && len(skipped) == 0 {
		if !shared.GetQuiet() && !shared.GetJSON() {
			cmd.Println("No staged source files to process.")
		}
		return nil
	}

	registry := tagger.NewRegistry()
	for ext, token := range cfg.Languages {
		registry.Register(ext, token)
	}
	engine := tagger.NewEngine(tagger.EngineConfig{
		Registry: registry,
		Column:   cfg.Column,
		Logger:   logger,
	})

	var results []tagger.TaggingResult
	if len(files) > 0 {
		results, err = engine.Run(ctx, files, issueTag, dryRun)
		if err != nil {
			return shared.NewTaggingError("tagging failed", err)
		}
	}
	results = append(results, skipped...)

	var writeFailures int
	if !dryRun && issueTag != "" {
		writeFailures = writeBack(ctx, gitClient, repoRoot, results, logger)
	}

	recordHistory(ctx, gitClient, cfg, issueTag, dryRun, results, logger)

	if shared.GetJSON() {
		if err := emitJSON(cmd, issueTag, dryRun, results); err != nil {
			return err
		}
	} else {
		report(cmd, issueTag, dryRun, results)
	}

	if writeFailures > 0 {
		return shared.NewTaggingError(fmt.Sprintf("%d file(s) could not be written", writeFailures), nil)
	}
	return nil
}

func loadConfig(repoRoot string) (*config.Config, error) {
	path := shared.GetConfigPath()
	if path == "" {
		var err error
		path, err = config.Find(repoRoot)
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) *slog.Logger {
	logCfg := log.FromEnv()
	if cfg.Log.Level != "" && os.Getenv("LAZYTAG_DEBUG") == "" &&
		os.Getenv("LAZYTAG_LOG_LEVEL") == "" && os.Getenv("LOG_LEVEL") == "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" && os.Getenv("LOG_FORMAT") == "" {
		logCfg.Format = log.Format(cfg.Log.Format)
	}
	if shared.GetVerbose() {
		logCfg.Level = "debug"
	}
	return log.WithComponent(log.New(logCfg), "tag")
}

// resolveTag picks the tag to apply: an explicit override wins and must be
// well-formed; a branch without a tag is not an error, just preview mode.
func resolveTag(ctx context.Context, gitClient *git.Client, override string) (string, error) {
	if override != "" {
		if !tagger.IsTag(override) {
			return "", shared.NewConfigError(
				fmt.Sprintf("tag %q does not match KEY-NUMBER (e.g. ABC-1234)", override), nil)
		}
		return override, nil
	}

	branchTag, err := gitClient.CurrentTag(ctx)
	if err != nil {
		return "", shared.NewTaggingError("failed to read current branch", err)
	}
	return branchTag, nil
}

// collectFiles loads before/after content and diff hunks for every staged
// file that passes the config filters. Unreadable files become pre-skipped
// results rather than failing the run.
func collectFiles(ctx context.Context, gitClient *git.Client, cfg *config.Config, repoRoot string, only []string, logger *slog.Logger) ([]tagger.SourceFile, []tagger.TaggingResult, error) {
	staged, err := gitClient.StagedFiles(ctx)
	if err != nil {
		return nil, nil, err
	}

	var files []tagger.SourceFile
	var skipped []tagger.TaggingResult
	for _, path := range staged {
		if len(only) > 0 && !slices.Contains(only, path) {
			continue
		}
		if !cfg.Selects(path) {
			logger.Debug("path excluded by config", slog.String(log.PathKey, path))
			continue
		}

		content, err := os.ReadFile(filepath.Join(repoRoot, path))
		if err != nil {
			logger.Warn("cannot read staged file", slog.String(log.PathKey, path), log.Error(err))
			skipped = append(skipped, tagger.TaggingResult{
				Path:    path,
				Skipped: true,
				Reason:  fmt.Sprintf("unreadable: %v", err),
			})
			continue
		}

		before, _, err := gitClient.BeforeContent(ctx, path)
		if err != nil {
			logger.Warn("cannot read committed version", slog.String(log.PathKey, path), log.Error(err))
		}
		hunks, err := gitClient.StagedHunks(ctx, path)
		if err != nil {
			logger.Warn("cannot diff staged file", slog.String(log.PathKey, path), log.Error(err))
		}

		files = append(files, tagger.SourceFile{
			Path:   path,
			Before: before,
			After:  tagger.SplitLines(content),
			Hunks:  hunks,
		})
	}

	return files, skipped, nil
}

// writeBack persists rewritten files and restages them, returning the number
// of files that could not be written.
func writeBack(ctx context.Context, gitClient *git.Client, repoRoot string, results []tagger.TaggingResult, logger *slog.Logger) int {
	failures := 0
	for _, r := range results {
		if r.Skipped || len(r.Changes) == 0 {
			continue
		}

		target := filepath.Join(repoRoot, r.Path)
		perm := os.FileMode(0644)
		if info, err := os.Stat(target); err == nil {
			perm = info.Mode().Perm()
		}

		if err := os.WriteFile(target, tagger.JoinLines(r.Lines), perm); err != nil {
			logger.Error("failed to write file", slog.String(log.PathKey, r.Path), log.Error(err))
			failures++
			continue
		}
		if err := gitClient.Restage(ctx, r.Path); err != nil {
			logger.Error("failed to restage file", slog.String(log.PathKey, r.Path), log.Error(err))
			failures++
		}
	}
	return failures
}

func recordHistory(ctx context.Context, gitClient *git.Client, cfg *config.Config, issueTag string, dryRun bool, results []tagger.TaggingResult, logger *slog.Logger) {
	if cfg.History.Disabled || issueTag == "" {
		return
	}

	var entries []history.Entry
	filesChanged := 0
	for _, r := range results {
		if len(r.Changes) == 0 {
			continue
		}
		filesChanged++
		for _, c := range r.Changes {
			entries = append(entries, history.Entry{
				Path:   r.Path,
				Line:   c.Line,
				Before: c.Before,
				After:  c.After,
			})
		}
	}
	if len(entries) == 0 {
		return
	}

	path := cfg.History.Path
	if path == "" {
		gitDir, err := gitClient.GitDir(ctx)
		if err != nil {
			logger.Warn("history disabled: cannot locate git dir", log.Error(err))
			return
		}
		path = filepath.Join(gitDir, "lazytag", "history.db")
	}

	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history disabled", log.Error(err))
		return
	}
	defer store.Close()

	run := history.Run{
		ID:        history.NewRunID(),
		Tag:       issueTag,
		StartedAt: time.Now(),
		DryRun:    dryRun,
		Files:     filesChanged,
		Lines:     len(entries),
	}
	if err := store.Record(ctx, run, entries); err != nil {
		logger.Warn("failed to record tagging run", slog.String(log.RunIDKey, run.ID), log.Error(err))
	}
}

func report(cmd *cobra.Command, issueTag string, dryRun bool, results []tagger.TaggingResult) {
	quiet := shared.GetQuiet()

	label := "TAGGED"
	if dryRun {
		label = "DRY-RUN"
	}

	if !quiet {
		switch {
		case issueTag == "":
			cmd.Println(shared.RenderWarn("No issue tag found (use --tag or a branch like ABC-1234-feature); previewing only."))
		default:
			cmd.Printf("Tagging with: %s\n\n", shared.Bold.Render(issueTag))
		}
	}

	tagged := 0
	for _, r := range results {
		if r.Skipped {
			if shared.GetVerbose() {
				cmd.Println(shared.Muted.Render(fmt.Sprintf("[SKIP]    %s (%s)", r.Path, r.Reason)))
			}
			continue
		}
		if issueTag == "" {
			for _, n := range r.Targets {
				cmd.Printf("%s %s:%d\n", shared.RenderLabel("WOULD-TAG"), r.Path, n)
			}
			continue
		}
		for _, c := range r.Changes {
			tagged++
			if !quiet {
				cmd.Printf("%s %s:%d --> %s\n", shared.RenderLabel(label), r.Path, c.Line, c.After)
			}
		}
	}

	if quiet || issueTag == "" {
		return
	}
	switch {
	case dryRun:
		cmd.Println("\n" + shared.RenderOK("Dry-run complete. No files were modified."))
	case tagged == 0:
		cmd.Println(shared.RenderOK("Nothing to tag."))
	default:
		cmd.Println("\n" + shared.RenderOK("Tagging complete."))
	}
}

func emitJSON(cmd *cobra.Command, issueTag string, dryRun bool, results []tagger.TaggingResult) error {
	type changeJSON struct {
		Line   int    `json:"line"`
		Before string `json:"before"`
		After  string `json:"after"`
	}
	type fileJSON struct {
		Path    string       `json:"path"`
		Skipped bool         `json:"skipped,omitempty"`
		Reason  string       `json:"reason,omitempty"`
		Targets []int        `json:"targets,omitempty"`
		Changes []changeJSON `json:"changes,omitempty"`
	}
	type tagResponse struct {
		shared.JSONResponse
		Tag    string     `json:"tag,omitempty"`
		DryRun bool       `json:"dry_run"`
		Files  []fileJSON `json:"files"`
	}

	resp := tagResponse{
		JSONResponse: shared.JSONResponse{Version: "1.0", Command: "tag", Success: true},
		Tag:          issueTag,
		DryRun:       dryRun,
		Files:        make([]fileJSON, 0, len(results)),
	}
	for _, r := range results {
		f := fileJSON{Path: r.Path, Skipped: r.Skipped, Reason: r.Reason, Targets: r.Targets}
		for _, c := range r.Changes {
			f.Changes = append(f.Changes, changeJSON{Line: c.Line, Before: c.Before, After: c.After})
		}
		resp.Files = append(resp.Files, f)
	}

	return shared.EmitJSON(cmd.OutOrStdout(), resp)
}
