package hooks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fence/internal/core/errors"
)

func TestPreCommitContent(t *testing.T) {
	content := PreCommitContent("/work/project")

	if !strings.HasPrefix(content, "#!/bin/sh\n") {
		t.Errorf("Expected sh shebang, got %q", content)
	}
	if !strings.Contains(content, "fence check --config") {
		t.Errorf("Expected check invocation, got %q", content)
	}
	if !strings.Contains(content, filepath.Join("/work/project", "fence.toml")) {
		t.Errorf("Expected pinned config path, got %q", content)
	}
}

func TestInstall(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatal(err)
	}

	hookPath, err := Install(gitDir)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if hookPath != filepath.Join(gitDir, "hooks", "pre-commit") {
		t.Errorf("Unexpected hook path %s", hookPath)
	}

	info, err := os.Stat(hookPath)
	if err != nil {
		t.Fatalf("Hook not written: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("Expected mode 0755, got %v", info.Mode().Perm())
	}

	data, err := os.ReadFile(hookPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "fence check") {
		t.Errorf("Hook does not run the check: %q", string(data))
	}
}

func TestInstallRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	if err := os.MkdirAll(filepath.Join(gitDir, "hooks"), 0o755); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(gitDir, "hooks", "pre-commit")
	if err := os.WriteFile(existing, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Install(gitDir); err == nil {
		t.Fatal("Expected error for existing hook")
	} else if !strings.Contains(err.Error(), "refusing to overwrite") {
		t.Errorf("Unexpected error: %v", err)
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#!/bin/sh\nexit 0\n" {
		t.Error("Existing hook was modified")
	}
}

func TestInstallMissingGitDir(t *testing.T) {
	root := t.TempDir()

	_, err := Install(filepath.Join(root, ".git"))
	if err == nil {
		t.Fatal("Expected error for missing git directory")
	}
	if !errors.IsCode(err, errors.CodeFileIO) {
		t.Errorf("Expected CodeFileIO, got %v", err)
	}
}

func TestInstallGitDirIsFile(t *testing.T) {
	root := t.TempDir()
	gitFile := filepath.Join(root, ".git")
	if err := os.WriteFile(gitFile, []byte("gitdir: elsewhere"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Install(gitFile); err == nil {
		t.Fatal("Expected error when .git is a file")
	}
}
