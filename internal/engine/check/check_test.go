package check

import (
	"errors"
	"testing"

	"fence/internal/core/config"
	"fence/internal/engine/modules"
)

func strictTree(t *testing.T) *modules.ModuleTree {
	t.Helper()
	mods := []config.ModuleConfig{
		{Path: "core", DependsOn: []config.DependencyConfig{{Path: "api"}}},
		{Path: "api", Strict: true, InterfaceMembers: []string{"handler"}},
	}
	tree, err := modules.Build(nil, mods, config.RootModuleIgnore, false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return tree
}

func TestCheckImportExternalAllowed(t *testing.T) {
	tree := strictTree(t)
	if v := CheckImport(tree, "requests.sessions", "core.service", nil); v != nil {
		t.Errorf("Expected external import allowed, got %v", v)
	}
}

func TestCheckImportFileModuleNotFound(t *testing.T) {
	tree := strictTree(t)
	v := CheckImport(tree, "core.service", "scripts.deploy", nil)
	var notFound *ModuleNotFoundError
	if !errors.As(v, &notFound) {
		t.Fatalf("Expected ModuleNotFoundError, got %v", v)
	}
	want := "Module containing 'scripts.deploy' not found in project."
	if notFound.Error() != want {
		t.Errorf("Expected %q, got %q", want, notFound.Error())
	}
}

func TestCheckImportSameModuleAlwaysAllowed(t *testing.T) {
	mods := []config.ModuleConfig{{Path: "core"}}
	tree, err := modules.Build(nil, mods, config.RootModuleIgnore, false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// No depends_on at all, yet intra-module imports stay legal.
	if v := CheckImport(tree, "core.db.models", "core.service", nil); v != nil {
		t.Errorf("Expected same-module import allowed, got %v", v)
	}
}

func TestCheckImportStrictMode(t *testing.T) {
	tree := strictTree(t)

	if v := CheckImport(tree, "api", "core.service", nil); v != nil {
		t.Errorf("Expected top-level import of a strict module allowed, got %v", v)
	}
	if v := CheckImport(tree, "api.handler", "core.service", nil); v != nil {
		t.Errorf("Expected interface member import allowed, got %v", v)
	}

	v := CheckImport(tree, "api.internal", "core.service", nil)
	var strictErr *StrictModeImportError
	if !errors.As(v, &strictErr) {
		t.Fatalf("Expected StrictModeImportError, got %v", v)
	}
	want := "Module 'api' is in strict mode. Only imports from the public interface of this module are allowed. The import 'api.internal' (in module 'core') is not included in __all__."
	if strictErr.Error() != want {
		t.Errorf("Expected %q, got %q", want, strictErr.Error())
	}

	// Nested member access is not a direct interface member.
	if v := CheckImport(tree, "api.handler.submit", "core.service", nil); v == nil {
		t.Error("Expected nested path under an interface member rejected")
	}
}

func TestCheckImportDirectionMatters(t *testing.T) {
	tree := strictTree(t)

	// core declares api, so core -> api.handler passes both gates.
	if v := CheckImport(tree, "api.handler", "core.service", nil); v != nil {
		t.Errorf("Expected declared dependency allowed, got %v", v)
	}

	// api declares nothing, so api -> core is invalid.
	v := CheckImport(tree, "core", "api.handler", nil)
	var invalid *InvalidImportError
	if !errors.As(v, &invalid) {
		t.Fatalf("Expected InvalidImportError, got %v", v)
	}
	want := "Cannot import 'core'. Module 'api' cannot depend on 'core'."
	if invalid.Error() != want {
		t.Errorf("Expected %q, got %q", want, invalid.Error())
	}
}

func TestCheckImportDefaultDeny(t *testing.T) {
	mods := []config.ModuleConfig{{Path: "a"}, {Path: "b"}}
	tree, err := modules.Build(nil, mods, config.RootModuleIgnore, false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	v := CheckImport(tree, "b.thing", "a.main", nil)
	var invalid *InvalidImportError
	if !errors.As(v, &invalid) {
		t.Fatalf("Expected InvalidImportError, got %v", v)
	}
	if !invalid.IsDependencyError() || invalid.IsDeprecated() {
		t.Error("Expected a non-deprecated dependency error")
	}
}

func TestCheckImportDeprecatedBeatsInvalid(t *testing.T) {
	mods := []config.ModuleConfig{
		{Path: "m", DependsOn: []config.DependencyConfig{{Path: "legacy", Deprecated: true}}},
		{Path: "legacy"},
	}
	tree, err := modules.Build(nil, mods, config.RootModuleIgnore, false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	v := CheckImport(tree, "legacy.old", "m.service", nil)
	var deprecated *DeprecatedImportError
	if !errors.As(v, &deprecated) {
		t.Fatalf("Expected DeprecatedImportError, got %v", v)
	}
	want := "Import 'legacy.old' is deprecated. Module 'm' should not depend on 'legacy'."
	if deprecated.Error() != want {
		t.Errorf("Expected %q, got %q", want, deprecated.Error())
	}
	if !deprecated.IsDependencyError() || !deprecated.IsDeprecated() {
		t.Error("Expected a deprecated dependency error")
	}
}

func TestCheckImportActiveBeatsDeprecated(t *testing.T) {
	mods := []config.ModuleConfig{
		{Path: "m", DependsOn: []config.DependencyConfig{
			{Path: "legacy", Deprecated: true},
			{Path: "legacy"},
		}},
		{Path: "legacy"},
	}
	tree, err := modules.Build(nil, mods, config.RootModuleIgnore, false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if v := CheckImport(tree, "legacy", "m.service", nil); v != nil {
		t.Errorf("Expected an active declaration to win over a deprecated one, got %v", v)
	}
}

func TestCheckImportPreResolvedNode(t *testing.T) {
	tree := strictTree(t)
	node := tree.Get("core")

	supplied := CheckImport(tree, "api.internal", "core.service", node)
	recomputed := CheckImport(tree, "api.internal", "core.service", nil)
	if supplied == nil || recomputed == nil {
		t.Fatal("Expected violations from both calls")
	}
	if supplied.Error() != recomputed.Error() {
		t.Errorf("Expected identical behavior with and without the pre-resolved node, got %q vs %q",
			supplied.Error(), recomputed.Error())
	}
}

func TestCheckImportModuleConfigNotFound(t *testing.T) {
	tree := strictTree(t)
	bare := &modules.ModuleNode{FullPath: "stray"}

	v := CheckImport(tree, "api.handler", "stray.file", bare)
	var confErr *ModuleConfigNotFoundError
	if !errors.As(v, &confErr) {
		t.Fatalf("Expected ModuleConfigNotFoundError, got %v", v)
	}
	if confErr.Error() != "Could not find module configuration." {
		t.Errorf("Unexpected message %q", confErr.Error())
	}
}
