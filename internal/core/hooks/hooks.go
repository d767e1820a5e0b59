// Package hooks installs the git pre-commit hook that gates commits on a
// clean boundary check.
package hooks

import (
	"fmt"
	"os"
	"path/filepath"

	"fence/internal/core/config"
	"fence/internal/core/errors"
)

const hookName = "pre-commit"

// PreCommitContent renders the pre-commit script. The config path is pinned
// so the hook works no matter which directory git invokes it from.
func PreCommitContent(projectRoot string) string {
	configPath := filepath.Join(projectRoot, config.DefaultConfigName)
	return fmt.Sprintf(`#!/bin/sh
# Installed by 'fence install-hooks'.
set -e

exec fence check --config %q
`, configPath)
}

// Install writes the pre-commit hook into gitDir/hooks with mode 0755. An
// existing hook is never overwritten.
func Install(gitDir string) (string, error) {
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return "", errors.AddContext(
			errors.New(errors.CodeFileIO, fmt.Sprintf("'%s' is not a git directory", gitDir)),
			errors.CtxPath, gitDir)
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeFileIO, "cannot create hooks directory")
	}

	hookPath := filepath.Join(hooksDir, hookName)
	if _, err := os.Stat(hookPath); err == nil {
		return "", errors.New(errors.CodeFileIO,
			fmt.Sprintf("refusing to overwrite existing hook at '%s'", hookPath))
	}

	content := PreCommitContent(filepath.Dir(gitDir))
	if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeFileIO, "cannot write pre-commit hook")
	}
	return hookPath, nil
}
