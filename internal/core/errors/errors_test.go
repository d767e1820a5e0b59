package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeConfigNotFound, "fence.toml not found")
		if err.Error() != "[CONFIG_NOT_FOUND] fence.toml not found" {
			t.Errorf("expected [CONFIG_NOT_FOUND] fence.toml not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeTreeBuild, "module tree build failed")
		expected := "[TREE_BUILD] module tree build failed: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeConfigValidation, "invalid source root")
		if !IsCode(err, CodeConfigValidation) {
			t.Error("expected IsCode to return true for CodeConfigValidation")
		}
		if IsCode(err, CodeConfigNotFound) {
			t.Error("expected IsCode to return false for CodeConfigNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeFileIO, "could not read module file")
		if !IsCode(err, CodeFileIO) {
			t.Error("expected IsCode to return true for wrapped CodeFileIO")
		}
	})

	t.Run("Unwrap", func(t *testing.T) {
		original := errors.New("disk full")
		err := Wrap(original, CodeEditFailed, "could not write fence.toml")
		if !errors.Is(err, original) {
			t.Error("expected errors.Is to find the wrapped cause")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := New(CodeExclusion, "bad pattern")
		err = AddContext(err, CtxPattern, "[invalid")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected a DomainError")
		}
		if de.Context[CtxPattern] != "[invalid" {
			t.Errorf("expected pattern context, got %v", de.Context)
		}
	})

	t.Run("AddContextForeignError", func(t *testing.T) {
		original := errors.New("not a domain error")
		err := AddContext(original, CtxPath, "/tmp/project")
		if !IsCode(err, CodeInternal) {
			t.Error("expected foreign errors to be wrapped as CodeInternal")
		}
		if !errors.Is(err, original) {
			t.Error("expected the original error to remain reachable")
		}
	})
}
