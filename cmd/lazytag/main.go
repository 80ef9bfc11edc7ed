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

package main

import (
	"github.com/semarova/lazytag/internal/cli"
	historycmd "github.com/semarova/lazytag/internal/commands/history"
	"github.com/semarova/lazytag/internal/commands/install"
	"github.com/semarova/lazytag/internal/commands/tag"
	versioncmd "github.com/semarova/lazytag/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	rootCmd := cli.NewRootCommand()

	rootCmd.AddCommand(tag.NewCommand())
	rootCmd.AddCommand(install.NewCommand())
	rootCmd.AddCommand(install.NewUninstallCommand())
	rootCmd.AddCommand(historycmd.NewCommand())
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		cli.HandleExitError(err)
	}
}
