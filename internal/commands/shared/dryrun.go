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

package shared

import (
	"fmt"
	"strings"
)

// DryRunOutput formats dry-run output in a consistent way across commands.
// It shows what actions would be performed without executing them.
type DryRunOutput struct {
	actions []string
}

// NewDryRunOutput creates a new dry-run output formatter.
func NewDryRunOutput() *DryRunOutput {
	return &DryRunOutput{actions: make([]string, 0)}
}

// Create adds a CREATE action. The path should use placeholders like
// <git-dir> instead of full system paths.
func (d *DryRunOutput) Create(path, description string) {
	d.add("CREATE", path, description)
}

// Modify adds a MODIFY action.
func (d *DryRunOutput) Modify(path, description string) {
	d.add("MODIFY", path, description)
}

// Delete adds a DELETE action.
func (d *DryRunOutput) Delete(path, description string) {
	d.add("DELETE", path, description)
}

func (d *DryRunOutput) add(action, path, description string) {
	if description != "" {
		d.actions = append(d.actions, fmt.Sprintf("%s: %s (%s)", action, path, description))
		return
	}
	d.actions = append(d.actions, fmt.Sprintf("%s: %s", action, path))
}

// String returns the formatted dry-run output.
func (d *DryRunOutput) String() string {
	if len(d.actions) == 0 {
		return "Dry run: No actions would be performed."
	}

	var sb strings.Builder
	sb.WriteString("Dry run: The following actions would be performed:\n\n")
	for _, action := range d.actions {
		sb.WriteString(action)
		sb.WriteString("\n")
	}
	sb.WriteString("\nRun without --dry-run to execute.")

	return sb.String()
}
