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
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/semarova/lazytag/internal/commands/shared"
	"github.com/semarova/lazytag/internal/config"
	"github.com/semarova/lazytag/internal/git"
	"github.com/semarova/lazytag/internal/history"
)

// NewCommand creates the history command
func NewCommand() *cobra.Command {
	var (
		tagFilter  string
		fileFilter string
		limit      int
		showLines  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past tagging runs",
		Long: `History lists the tagging runs recorded in this repository, newest
first. Each run shows when it happened, the tag applied, and how many files
and lines were rewritten.`,
		Example: `  # Last ten runs
  lazytag history

  # Runs that applied a specific tag
  lazytag history --tag SMR-1010

  # Runs that touched a file, with the rewritten lines
  lazytag history --file src/main.c --lines`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, tagFilter, fileFilter, limit, showLines)
		},
	}

	cmd.Flags().StringVar(&tagFilter, "tag", "", "Only show runs that applied this tag")
	cmd.Flags().StringVar(&fileFilter, "file", "", "Only show runs that touched this file")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&showLines, "lines", false, "Show the rewritten lines of each run")

	return cmd
}

func runHistory(cmd *cobra.Command, tagFilter, fileFilter string, limit int, showLines bool) error {
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
	if cfg.History.Disabled {
		return shared.NewConfigError("history is disabled in the configuration", nil)
	}

	path := cfg.History.Path
	if path == "" {
		gitDir, err := gitClient.GitDir(ctx)
		if err != nil {
			return shared.NewConfigError("cannot locate git dir", err)
		}
		path = filepath.Join(gitDir, "lazytag", "history.db")
	}
	if _, err := os.Stat(path); err != nil {
		if !shared.GetJSON() {
			cmd.Println("No tagging runs recorded yet.")
			return nil
		}
		return emptyJSON(cmd)
	}

	store, err := history.Open(path)
	if err != nil {
		return shared.NewConfigError("failed to open history database", err)
	}
	defer store.Close()

	runs, err := store.List(ctx, history.Filter{Tag: tagFilter, Path: fileFilter, Limit: limit})
	if err != nil {
		return shared.NewTaggingError("failed to query history", err)
	}

	entriesByRun := make(map[string][]history.Entry)
	if showLines || shared.GetJSON() {
		for _, r := range runs {
			entries, err := store.Entries(ctx, r.ID)
			if err != nil {
				return shared.NewTaggingError("failed to query history entries", err)
			}
			entriesByRun[r.ID] = entries
		}
	}

	if shared.GetJSON() {
		return emitJSON(cmd, runs, entriesByRun)
	}

	if len(runs) == 0 {
		cmd.Println("No tagging runs match.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTAG\tMODE\tFILES\tLINES\tRUN")
	for _, r := range runs {
		mode := "applied"
		if r.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Tag, mode, r.Files, r.Lines, shortID(r.ID))
	}
	w.Flush()

	if showLines {
		for _, r := range runs {
			cmd.Printf("\n%s %s\n", shared.Bold.Render(r.Tag), shared.Muted.Render(shortID(r.ID)))
			for _, e := range entriesByRun[r.ID] {
				cmd.Printf("  %s:%d --> %s\n", e.Path, e.Line, e.After)
			}
		}
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

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type entryJSON struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Before string `json:"before"`
	After  string `json:"after"`
}

type runJSON struct {
	ID        string      `json:"id"`
	Tag       string      `json:"tag"`
	StartedAt string      `json:"started_at"`
	DryRun    bool        `json:"dry_run"`
	Files     int         `json:"files"`
	Lines     int         `json:"lines"`
	Entries   []entryJSON `json:"entries,omitempty"`
}

type historyResponse struct {
	shared.JSONResponse
	Runs []runJSON `json:"runs"`
}

func emitJSON(cmd *cobra.Command, runs []history.Run, entriesByRun map[string][]history.Entry) error {
	resp := historyResponse{
		JSONResponse: shared.JSONResponse{Version: "1.0", Command: "history", Success: true},
		Runs:         make([]runJSON, 0, len(runs)),
	}
	for _, r := range runs {
		rj := runJSON{
			ID:        r.ID,
			Tag:       r.Tag,
			StartedAt: r.StartedAt.UTC().Format(time.RFC3339),
			DryRun:    r.DryRun,
			Files:     r.Files,
			Lines:     r.Lines,
		}
		for _, e := range entriesByRun[r.ID] {
			rj.Entries = append(rj.Entries, entryJSON{Path: e.Path, Line: e.Line, Before: e.Before, After: e.After})
		}
		resp.Runs = append(resp.Runs, rj)
	}
	return shared.EmitJSON(cmd.OutOrStdout(), resp)
}

func emptyJSON(cmd *cobra.Command) error {
	return shared.EmitJSON(cmd.OutOrStdout(), historyResponse{
		JSONResponse: shared.JSONResponse{Version: "1.0", Command: "history", Success: true},
		Runs:         []runJSON{},
	})
}
