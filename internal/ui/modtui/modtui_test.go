package modtui

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"fence/internal/core/config"
	"fence/internal/core/exclusion"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestDiscoverPackages(t *testing.T) {
	root := writeProject(t, map[string]string{
		"core/__init__.py":       "",
		"core/inner/__init__.py": "",
		"legacy/__init__.py":     "",
		"api.py":                 "",
		"scripts/helper.py":      "",
		".hidden/__init__.py":    "",
	})
	cfg := &config.ProjectConfig{
		SourceRoots: []string{"."},
		Modules: []config.ModuleConfig{
			{Path: "core"},
			{Path: "legacy", Utility: true},
			{Path: "ghost"},
			{Path: config.RootModule},
		},
	}

	entries, err := discoverPackages(root, cfg)
	if err != nil {
		t.Fatalf("discoverPackages failed: %v", err)
	}

	byPath := make(map[string]*entry, len(entries))
	var paths []string
	for _, e := range entries {
		byPath[e.path] = e
		paths = append(paths, e.path)
	}

	want := []string{"api", "core", "core.inner", "ghost", "legacy"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("Expected entries %v, got %v", want, paths)
	}

	if byPath["api"].declared {
		t.Error("api should not start declared")
	}
	if !byPath["core"].declared || !byPath["core"].wasDeclared {
		t.Error("core should be seeded as declared")
	}
	if !byPath["legacy"].utility || !byPath["legacy"].wasUtility {
		t.Error("legacy should be seeded as a utility module")
	}
	if byPath["ghost"].location != "(not found on disk)" {
		t.Errorf("ghost location = %q", byPath["ghost"].location)
	}
}

func TestDiscoverPackagesRespectsExclusions(t *testing.T) {
	root := writeProject(t, map[string]string{
		"core/__init__.py":     "",
		"vendored/__init__.py": "",
	})
	if err := exclusion.Set(root, []string{"vendored"}, false); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = exclusion.Set("", nil, false) })

	cfg := &config.ProjectConfig{SourceRoots: []string{"."}}
	entries, err := discoverPackages(root, cfg)
	if err != nil {
		t.Fatalf("discoverPackages failed: %v", err)
	}

	for _, e := range entries {
		if e.path == "vendored" {
			t.Error("Excluded package should not be listed")
		}
	}
}

func TestEditsDiff(t *testing.T) {
	m := model{entries: []*entry{
		{path: "api", declared: true},
		{path: "core", declared: true, wasDeclared: true},
		{path: "legacy", wasDeclared: true},
		{path: "shared", declared: true, utility: true, wasDeclared: true},
		{path: "util", declared: true, wasDeclared: true, wasUtility: true},
		{path: "viz", declared: true, utility: true},
	}}

	want := []config.ConfigEdit{
		config.CreateModule{Path: "api"},
		config.DeleteModule{Path: "legacy"},
		config.MarkModuleAsUtility{Path: "shared"},
		config.UnmarkModuleAsUtility{Path: "util"},
		config.CreateModule{Path: "viz"},
		config.MarkModuleAsUtility{Path: "viz"},
	}
	if got := m.edits(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected edits %v, got %v", want, got)
	}
}

func TestEditsNoChanges(t *testing.T) {
	m := model{entries: []*entry{
		{path: "core", declared: true, wasDeclared: true},
		{path: "api"},
	}}
	if got := m.edits(); len(got) != 0 {
		t.Errorf("Expected no edits, got %v", got)
	}
}

func TestItemTitleMarkers(t *testing.T) {
	undeclared := item{e: &entry{path: "api"}}
	if got := undeclared.Title(); got != "[ ] api" {
		t.Errorf("Title = %q", got)
	}

	declared := item{e: &entry{path: "core", declared: true}}
	if got := declared.Title(); got != "[x] core" {
		t.Errorf("Title = %q", got)
	}

	utility := item{e: &entry{path: "shared", declared: true, utility: true}}
	if got := utility.Title(); got != "[x] shared (utility)" {
		t.Errorf("Title = %q", got)
	}
}

func sizedModel(entries []*entry) model {
	m := initialModel(entries)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return updated.(model)
}

func TestToggleKeys(t *testing.T) {
	entries := []*entry{{path: "api", location: "api"}}
	m := sizedModel(entries)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(model)
	if !entries[0].declared {
		t.Fatal("Space should declare the selected package")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	m = updated.(model)
	if !entries[0].utility {
		t.Fatal("'u' should mark the declared module as utility")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(model)
	if entries[0].declared || entries[0].utility {
		t.Fatal("Undeclaring should also clear the utility flag")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	_ = updated.(model)
	if entries[0].utility {
		t.Fatal("'u' must not apply to an undeclared package")
	}
}

func TestSaveKeyQuitsWithSave(t *testing.T) {
	m := sizedModel([]*entry{{path: "api", location: "api"}})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = updated.(model)
	if !m.save {
		t.Error("'s' should request a save")
	}
	if cmd == nil {
		t.Fatal("'s' should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("'s' should produce a quit message")
	}
}

func TestCtrlCQuitsWithoutSave(t *testing.T) {
	m := sizedModel([]*entry{{path: "api", location: "api"}})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(model)
	if m.save {
		t.Error("ctrl+c must not save")
	}
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should produce a quit message")
	}
}
