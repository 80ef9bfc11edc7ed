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

package install

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()
	if cmd.Use != "install" {
		t.Errorf("expected use 'install', got %q", cmd.Use)
	}
	if cmd.Flags().Lookup("dry-run") == nil {
		t.Error("expected --dry-run flag")
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected --force flag")
	}

	uninstall := NewUninstallCommand()
	if uninstall.Use != "uninstall" {
		t.Errorf("expected use 'uninstall', got %q", uninstall.Use)
	}
}

func TestHookScriptHasMarker(t *testing.T) {
	if !strings.Contains(hookScript, hookMarker) {
		t.Fatal("hook script must contain the marker so uninstall can recognize it")
	}
	if !strings.Contains(hookScript, "lazytag tag") {
		t.Fatal("hook script must invoke lazytag tag")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	if out, err := exec.Command("git", "init", dir).CombinedOutput(); err != nil {
		t.Fatalf("git init failed: %v\n%s", err, out)
	}
	t.Chdir(dir)
	return dir
}

func TestInstallAndUninstall(t *testing.T) {
	dir := initRepo(t)
	hook := filepath.Join(dir, ".git", "hooks", "pre-commit")

	cmd := NewCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	content, err := os.ReadFile(hook)
	if err != nil {
		t.Fatalf("hook not written: %v", err)
	}
	if !strings.Contains(string(content), hookMarker) {
		t.Errorf("hook missing marker:\n%s", content)
	}

	// Installing twice must not create a backup of our own hook.
	cmd = NewCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("second install failed: %v", err)
	}
	if _, err := os.Stat(hook + ".bak"); !os.IsNotExist(err) {
		t.Error("reinstall should not back up a lazytag hook")
	}

	uninstall := NewUninstallCommand()
	uninstall.SetOut(&buf)
	uninstall.SetArgs([]string{})
	if err := uninstall.Execute(); err != nil {
		t.Fatalf("uninstall failed: %v", err)
	}
	if _, err := os.Stat(hook); !os.IsNotExist(err) {
		t.Error("hook should be removed after uninstall")
	}
}

func TestInstallBacksUpForeignHook(t *testing.T) {
	dir := initRepo(t)
	hook := filepath.Join(dir, ".git", "hooks", "pre-commit")

	foreign := "#!/bin/sh\necho custom hook\n"
	if err := os.MkdirAll(filepath.Dir(hook), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hook, []byte(foreign), 0755); err != nil {
		t.Fatal(err)
	}

	// Without --force a foreign hook is left alone.
	cmd := NewCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected install to refuse replacing a foreign hook without --force")
	}
	content, err := os.ReadFile(hook)
	if err != nil || string(content) != foreign {
		t.Fatalf("foreign hook must be untouched without --force: %v %q", err, content)
	}

	cmd = NewCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--force"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("install --force failed: %v", err)
	}

	backup, err := os.ReadFile(hook + ".bak")
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if string(backup) != foreign {
		t.Errorf("backup content mismatch: %q", backup)
	}

	// Uninstall restores the foreign hook.
	uninstall := NewUninstallCommand()
	uninstall.SetOut(&buf)
	uninstall.SetArgs([]string{})
	if err := uninstall.Execute(); err != nil {
		t.Fatalf("uninstall failed: %v", err)
	}
	restored, err := os.ReadFile(hook)
	if err != nil {
		t.Fatalf("foreign hook not restored: %v", err)
	}
	if string(restored) != foreign {
		t.Errorf("restored content mismatch: %q", restored)
	}
}

func TestUninstallRefusesForeignHook(t *testing.T) {
	dir := initRepo(t)
	hook := filepath.Join(dir, ".git", "hooks", "pre-commit")

	if err := os.MkdirAll(filepath.Dir(hook), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hook, []byte("#!/bin/sh\necho custom\n"), 0755); err != nil {
		t.Fatal(err)
	}

	uninstall := NewUninstallCommand()
	var buf bytes.Buffer
	uninstall.SetOut(&buf)
	uninstall.SetErr(&buf)
	uninstall.SetArgs([]string{})
	if err := uninstall.Execute(); err == nil {
		t.Fatal("expected error removing a hook lazytag did not install")
	}
	if _, err := os.Stat(hook); err != nil {
		t.Error("foreign hook must be left in place")
	}
}

func TestInstallBackupPreservesHookMode(t *testing.T) {
	dir := initRepo(t)
	hook := filepath.Join(dir, ".git", "hooks", "pre-commit")

	foreign := "#!/bin/sh\necho custom hook\n"
	if err := os.MkdirAll(filepath.Dir(hook), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hook, []byte(foreign), 0700); err != nil {
		t.Fatal(err)
	}

	cmd := NewCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--force"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("install --force failed: %v", err)
	}

	info, err := os.Stat(hook + ".bak")
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if got := info.Mode().Perm(); got != 0700 {
		t.Errorf("backup mode = %o, want the original hook's 0700", got)
	}
}

func TestUninstallDryRun(t *testing.T) {
	dir := initRepo(t)
	hook := filepath.Join(dir, ".git", "hooks", "pre-commit")

	if err := os.MkdirAll(filepath.Dir(hook), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hook, []byte(hookScript), 0755); err != nil {
		t.Fatal(err)
	}

	cmd := NewUninstallCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--dry-run"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("uninstall --dry-run failed: %v", err)
	}

	if _, err := os.Stat(hook); err != nil {
		t.Error("dry run must not remove the hook")
	}
	out := buf.String()
	if !strings.Contains(out, "DELETE") {
		t.Errorf("expected a DELETE action in dry-run output, got: %s", out)
	}

	// With a backup present the plan is a restore, not a plain delete.
	if err := os.WriteFile(hook+".bak", []byte("#!/bin/sh\necho old\n"), 0755); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	cmd = NewUninstallCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--dry-run"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("uninstall --dry-run failed: %v", err)
	}
	out = buf.String()
	if !strings.Contains(out, "MODIFY") || !strings.Contains(out, "pre-commit.bak") {
		t.Errorf("expected a restore plan in dry-run output, got: %s", out)
	}
	if _, err := os.Stat(hook + ".bak"); err != nil {
		t.Error("dry run must not consume the backup")
	}
}

func TestInstallDryRun(t *testing.T) {
	dir := initRepo(t)
	hook := filepath.Join(dir, ".git", "hooks", "pre-commit")

	cmd := NewCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--dry-run"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("install --dry-run failed: %v", err)
	}

	if _, err := os.Stat(hook); !os.IsNotExist(err) {
		t.Error("dry run must not write the hook")
	}
	if !strings.Contains(buf.String(), "Dry run") {
		t.Errorf("expected dry-run output, got: %s", buf.String())
	}
}
