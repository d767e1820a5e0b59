package config

import (
	"errors"
	"testing"
)

func TestEditorApply(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[[modules]]
path = "core"
depends_on = ["shared"]

[[modules]]
path = "shared"
`)

	editor := NewEditor(path)
	editor.Enqueue(CreateModule{Path: "api"})
	editor.Enqueue(AddDependency{Path: "api", Dependency: "core"})
	editor.Enqueue(MarkModuleAsUtility{Path: "shared"})
	editor.Enqueue(RemoveDependency{Path: "core", Dependency: "shared"})
	if err := editor.Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if editor.Pending() != 0 {
		t.Errorf("Expected empty queue after Apply, got %d", editor.Pending())
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load after edit failed: %v", err)
	}
	api := cfg.Module("api")
	if api == nil {
		t.Fatal("Expected module api after CreateModule")
	}
	if len(api.DependsOn) != 1 || api.DependsOn[0].Path != "core" {
		t.Errorf("Unexpected api dependencies: %+v", api.DependsOn)
	}
	if shared := cfg.Module("shared"); shared == nil || !shared.Utility {
		t.Error("Expected shared marked as utility")
	}
	if core := cfg.Module("core"); len(core.DependsOn) != 0 {
		t.Errorf("Expected core dependencies removed, got %+v", core.DependsOn)
	}
}

func TestEditorErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[[modules]]
path = "core"
`)

	cases := []struct {
		name string
		edit ConfigEdit
		want error
	}{
		{"create existing", CreateModule{Path: "core"}, ErrModuleAlreadyExists},
		{"delete missing", DeleteModule{Path: "gone"}, ErrEditModuleNotFound},
		{"mark missing", MarkModuleAsUtility{Path: "gone"}, ErrEditModuleNotFound},
		{"add to missing", AddDependency{Path: "gone", Dependency: "core"}, ErrEditModuleNotFound},
		{"remove undeclared", RemoveDependency{Path: "core", Dependency: "shared"}, ErrNotApplicable},
	}
	for _, tc := range cases {
		editor := NewEditor(path)
		editor.Enqueue(tc.edit)
		err := editor.Apply()
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	editor := NewEditor("missing/fence.toml")
	editor.Enqueue(CreateModule{Path: "core"})
	if err := editor.Apply(); !errors.Is(err, ErrConfigDoesNotExist) {
		t.Errorf("Expected ErrConfigDoesNotExist, got %v", err)
	}
}

func TestEditorFailureLeavesFileUntouched(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[[modules]]
path = "core"
`)

	editor := NewEditor(path)
	editor.Enqueue(CreateModule{Path: "api"})
	editor.Enqueue(CreateModule{Path: "core"})
	if err := editor.Apply(); err == nil {
		t.Fatal("Expected Apply to fail")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Module("api") != nil {
		t.Error("Expected no partial edit on disk after failure")
	}
}
