package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fence/internal/core/config"
	"fence/internal/core/hooks"
	"fence/internal/engine/check"
	"fence/internal/engine/report"
	"fence/internal/ui/render"
)

func createProjectFiles(t *testing.T, tmpDir string) {
	files := map[string]string{
		"core/__init__.py":   "",
		"core/service.py":    "import api.handler\nimport legacy\n",
		"api/__init__.py":    "",
		"api/handler.py":     "import shared\n",
		"legacy/__init__.py": "",
		"shared/__init__.py": "",
		"cli.py":             "import core.service\n",
	}
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func declareModules(t *testing.T, configPath string) {
	editor := config.NewEditor(configPath)
	editor.Enqueue(config.CreateModule{Path: "core"})
	editor.Enqueue(config.CreateModule{Path: "api"})
	editor.Enqueue(config.CreateModule{Path: "legacy"})
	editor.Enqueue(config.CreateModule{Path: "shared"})
	editor.Enqueue(config.AddDependency{Path: "core", Dependency: "api"})
	editor.Enqueue(config.AddDependency{Path: "core", Dependency: "legacy"})
	editor.Enqueue(config.AddDependency{Path: "api", Dependency: "shared"})
	editor.Enqueue(config.MarkModuleAsUtility{Path: "shared"})
	require.NoError(t, editor.Apply())
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createProjectFiles(t, tmpDir)

	// init writes the starter config, the editor declares the modules.
	configPath, err := config.Init(tmpDir)
	require.NoError(t, err)
	declareModules(t, configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	require.Len(t, cfg.Modules, 4)
	require.NotNil(t, cfg.Module("shared"))
	assert.True(t, cfg.Module("shared").Utility)

	ctx := context.Background()
	diagnostics, err := check.Run(ctx, tmpDir, cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, diagnostics.Errors)
	assert.Empty(t, diagnostics.DeprecatedWarnings)
	assert.False(t, diagnostics.HasErrors())
}

func TestPipelineCatchesUndeclaredDependency(t *testing.T) {
	tmpDir := t.TempDir()
	createProjectFiles(t, tmpDir)

	configPath, err := config.Init(tmpDir)
	require.NoError(t, err)
	declareModules(t, configPath)

	// Withdraw the core -> legacy declaration; the import in core/service.py
	// must now be flagged.
	editor := config.NewEditor(configPath)
	editor.Enqueue(config.RemoveDependency{Path: "core", Dependency: "legacy"})
	require.NoError(t, editor.Apply())

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	diagnostics, err := check.Run(context.Background(), tmpDir, cfg, nil)
	require.NoError(t, err)
	require.Len(t, diagnostics.Errors, 1)

	violation := diagnostics.Errors[0]
	assert.Equal(t, filepath.Join("core", "service.py"), violation.FilePath)
	assert.Equal(t, "legacy", violation.ImportModPath)
	var invalid *check.InvalidImportError
	require.ErrorAs(t, violation.Violation, &invalid)
	assert.Equal(t, "core", invalid.SourceModule)
	assert.Equal(t, "legacy", invalid.InvalidModule)

	// Declaring the dependency again clears the violation.
	editor = config.NewEditor(configPath)
	editor.Enqueue(config.AddDependency{Path: "core", Dependency: "legacy"})
	require.NoError(t, editor.Apply())

	cfg, err = config.Load(configPath)
	require.NoError(t, err)
	diagnostics, err = check.Run(context.Background(), tmpDir, cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, diagnostics.Errors)
}

func TestPipelineReport(t *testing.T) {
	tmpDir := t.TempDir()
	createProjectFiles(t, tmpDir)

	configPath, err := config.Init(tmpDir)
	require.NoError(t, err)
	declareModules(t, configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	result, err := report.Create(context.Background(), tmpDir, cfg, report.Options{
		TargetPath: "core",
		Raw:        true,
	})
	require.NoError(t, err)
	// cli.py sits outside every declared module, so it contributes no usage.
	assert.Equal(t, "# Module Dependencies\napi\nlegacy", result)

	render.SetColorEnabled(false)
	t.Cleanup(func() { render.SetColorEnabled(true) })
	formatted, err := report.Create(context.Background(), tmpDir, cfg, report.Options{
		TargetPath: "core",
	})
	require.NoError(t, err)
	assert.Contains(t, formatted, "[ Dependency Report for 'core' ]")
	assert.Contains(t, formatted, "Import 'api.handler'")
	assert.Contains(t, formatted, "No usages found.")
}

func TestPipelineInstallsHook(t *testing.T) {
	tmpDir := t.TempDir()
	createProjectFiles(t, tmpDir)

	_, err := config.Init(tmpDir)
	require.NoError(t, err)

	gitDir := filepath.Join(tmpDir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))

	hookPath, err := hooks.Install(gitDir)
	require.NoError(t, err)

	data, err := os.ReadFile(hookPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fence check")
	assert.Contains(t, string(data), filepath.Join(tmpDir, "fence.toml"))

	info, err := os.Stat(hookPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}
