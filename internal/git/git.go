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

// Package git wraps the git binary for the handful of operations the tagger
// needs: branch inspection, staged-file enumeration, diff hunks, and
// restaging. Everything here is a thin adapter; no tagging logic lives at
// this boundary.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

var branchTagPattern = regexp.MustCompile(`[A-Z]+-[0-9]+`)

// Client runs git commands in a fixed working directory.
type Client struct {
	dir string
}

// New returns a client operating in dir. An empty dir means the process's
// working directory.
func New(dir string) *Client {
	return &Client{dir: dir}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

// CurrentTag derives an issue tag from the current branch name, e.g.
// "SMR-1010-fix-altimeter" yields "SMR-1010". It returns an empty string
// when the branch carries no tag; that is not an error. symbolic-ref works
// on an unborn branch too, which rev-parse HEAD does not.
func (c *Client) CurrentTag(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		// Detached HEAD has no branch, hence no tag.
		return "", nil
	}
	return branchTagPattern.FindString(strings.TrimSpace(out)), nil
}

// StagedFiles lists the paths staged for the next commit, relative to the
// repository root.
func (c *Client) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "diff", "--cached", "--name-only", "--diff-filter=d")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// BeforeContent returns the committed version of a staged file, split into
// lines. ok is false for files new in this commit.
func (c *Client) BeforeContent(ctx context.Context, path string) (lines []string, ok bool, err error) {
	out, err := c.run(ctx, "show", "HEAD:"+path)
	if err != nil {
		// A path absent from HEAD is a new file, not a failure.
		return nil, false, nil
	}
	return splitOutput(out), true, nil
}

// Restage re-adds a rewritten file to the index so the tags land in the same
// commit that triggered them.
func (c *Client) Restage(ctx context.Context, path string) error {
	_, err := c.run(ctx, "add", "--", path)
	return err
}

// RepoRoot returns the absolute path of the working tree root.
func (c *Client) RepoRoot(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GitDir returns the absolute path of the .git directory, which may live
// outside the working tree for linked worktrees.
func (c *Client) GitDir(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func splitOutput(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
