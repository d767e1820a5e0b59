package config

import (
	"os"
	"path/filepath"

	"fence/internal/core/errors"
)

// Find walks from startDir up toward the filesystem root looking for a
// fence.toml. It returns the config file path and the directory containing
// it, which is treated as the project root.
func Find(startDir string) (configPath string, projectRoot string, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", "", errors.Wrap(err, errors.CodeConfigNotFound, "could not resolve working directory")
	}

	for {
		candidate := filepath.Join(dir, DefaultConfigName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", "", errors.AddContext(
		errors.New(errors.CodeConfigNotFound, "no fence.toml found in this directory or any parent"),
		errors.CtxPath, startDir,
	)
}

// Init writes a starter fence.toml into dir. It refuses to overwrite an
// existing configuration.
func Init(dir string) (string, error) {
	path := filepath.Join(dir, DefaultConfigName)
	if _, err := os.Stat(path); err == nil {
		return "", errors.AddContext(
			errors.New(errors.CodeEditFailed, "fence.toml already exists"),
			errors.CtxPath, path,
		)
	}

	content, err := Dump(Default())
	if err != nil {
		return "", errors.Wrap(err, errors.CodeEditFailed, "could not render default configuration")
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, errors.CodeEditFailed, "could not write fence.toml")
	}
	return path, nil
}
