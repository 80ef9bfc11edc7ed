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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/semarova/lazytag/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for LazyTag
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lazytag",
		Short: "LazyTag - append issue tags to modified code lines",
		Long: `LazyTag scans the files staged for commit, works out which lines were
semantically changed, and appends the current issue tag (taken from the
branch name, e.g. SMR-1010-fix-altimeter) as a trailing comment on each
changed line, aligned to a fixed column.

Run 'lazytag install' once per repository to tag automatically on commit.
Run 'lazytag tag --dry-run' to preview what would be tagged.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	shared.RegisterGlobalFlags(cmd.PersistentFlags())

	return cmd
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
