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

// Package install manages the git pre-commit hook that runs lazytag on
// every commit.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/semarova/lazytag/internal/commands/shared"
	"github.com/semarova/lazytag/internal/git"
)

// hookMarker identifies hooks written by us, so install stays idempotent and
// uninstall never deletes a hook somebody else wrote.
const hookMarker = "# Installed by lazytag."

const hookScript = `#!/bin/sh
` + hookMarker + ` Run "lazytag install" to regenerate.
lazytag tag
`

// NewCommand creates the install command
func NewCommand() *cobra.Command {
	var (
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install lazytag as a git pre-commit hook",
		Long: `Install writes a pre-commit hook that runs 'lazytag tag' before every
commit in this repository. Replacing a hook not written by lazytag requires
--force; the old hook is backed up to pre-commit.bak first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, force, dryRun)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing hook not written by lazytag")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be installed without writing")

	return cmd
}

// NewUninstallCommand creates the uninstall command
func NewUninstallCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the lazytag pre-commit hook",
		Long: `Uninstall removes the pre-commit hook if lazytag installed it, restoring
any backed-up hook from pre-commit.bak.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without writing")

	return cmd
}

func hookPath(cmd *cobra.Command) (string, error) {
	gitDir, err := git.New("").GitDir(cmd.Context())
	if err != nil {
		return "", shared.NewConfigError("not inside a git repository", err)
	}
	return filepath.Join(gitDir, "hooks", "pre-commit"), nil
}

func runInstall(cmd *cobra.Command, force, dryRun bool) error {
	hook, err := hookPath(cmd)
	if err != nil {
		return err
	}
	backup := hook + ".bak"

	existing, err := os.ReadFile(hook)
	exists := err == nil
	ours := exists && strings.Contains(string(existing), hookMarker)

	if exists && !ours && !force {
		return shared.NewConfigError(
			"a pre-commit hook not written by lazytag already exists; rerun with --force to back it up and replace it", nil)
	}

	if dryRun {
		out := shared.NewDryRunOutput()
		if exists && !ours {
			out.Create("<git-dir>/hooks/pre-commit.bak", "backup of existing hook")
		}
		out.Create("<git-dir>/hooks/pre-commit", "lazytag pre-commit hook")
		cmd.Println(out.String())
		return nil
	}

	if exists && !ours {
		perm := os.FileMode(0755)
		if info, err := os.Stat(hook); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(backup, existing, perm); err != nil {
			return shared.NewTaggingError("failed to back up existing hook", err)
		}
		cmd.Println(shared.RenderWarn(fmt.Sprintf("Existing pre-commit hook backed up to: %s", backup)))
	}

	if err := os.MkdirAll(filepath.Dir(hook), 0755); err != nil {
		return shared.NewTaggingError("failed to create hooks directory", err)
	}
	if err := os.WriteFile(hook, []byte(hookScript), 0755); err != nil {
		return shared.NewTaggingError("failed to write pre-commit hook", err)
	}

	cmd.Println(shared.RenderOK(fmt.Sprintf("lazytag hook installed at: %s", hook)))
	return nil
}

func runUninstall(cmd *cobra.Command, dryRun bool) error {
	hook, err := hookPath(cmd)
	if err != nil {
		return err
	}
	backup := hook + ".bak"

	existing, err := os.ReadFile(hook)
	if err != nil {
		if os.IsNotExist(err) {
			cmd.Println("No pre-commit hook installed.")
			return nil
		}
		return shared.NewTaggingError("failed to read pre-commit hook", err)
	}
	if !strings.Contains(string(existing), hookMarker) {
		return shared.NewConfigError("pre-commit hook was not installed by lazytag; refusing to remove it", nil)
	}

	_, statErr := os.Stat(backup)
	hasBackup := statErr == nil

	if dryRun {
		out := shared.NewDryRunOutput()
		if hasBackup {
			out.Modify("<git-dir>/hooks/pre-commit", "restore previous hook from backup")
			out.Delete("<git-dir>/hooks/pre-commit.bak", "consumed backup")
		} else {
			out.Delete("<git-dir>/hooks/pre-commit", "lazytag pre-commit hook")
		}
		cmd.Println(out.String())
		return nil
	}

	if err := os.Remove(hook); err != nil {
		return shared.NewTaggingError("failed to remove pre-commit hook", err)
	}

	if backupContent, err := os.ReadFile(backup); err == nil {
		perm := os.FileMode(0755)
		if info, err := os.Stat(backup); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(hook, backupContent, perm); err != nil {
			return shared.NewTaggingError("failed to restore backed-up hook", err)
		}
		os.Remove(backup)
		cmd.Println(shared.RenderOK("lazytag hook removed; previous hook restored from backup."))
		return nil
	}

	cmd.Println(shared.RenderOK("lazytag hook removed."))
	return nil
}
