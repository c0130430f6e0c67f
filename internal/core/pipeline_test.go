package core

import (
	"errors"
	"reflect"
	"testing"
)

func registryWithCanonicalBuildTasks() *Registry {
	reg := NewRegistry()
	for _, stage := range CanonicalBuildStages {
		reg.Register(BuildNamespace, stage, noopHandler)
	}
	reg.Register(BuildNamespace, "package", noopHandler)
	return reg
}

func TestAssembler_DefaultStagesWithoutPlugins(t *testing.T) {
	reg := registryWithCanonicalBuildTasks()
	asm := NewAssembler(reg, reg.Snapshot())

	got := asm.DefaultBuildStages()
	want := []string{"config", "core", "themes", "manifest", "packages"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAssembler_PluginStagesAppendAfterCanonical(t *testing.T) {
	reg := registryWithCanonicalBuildTasks()
	snap := reg.Snapshot()

	// Plugin registrations after the snapshot.
	reg.Register(BuildNamespace, "lint", noopHandler)
	reg.Register(BuildNamespace, "docs", noopHandler)

	asm := NewAssembler(reg, snap)
	got := asm.DefaultBuildStages()
	want := []string{"config", "core", "themes", "manifest", "packages", "docs", "lint"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAssembler_PluginOverwriteOfCanonicalStageNotDuplicated(t *testing.T) {
	reg := registryWithCanonicalBuildTasks()
	snap := reg.Snapshot()

	// A plugin overwriting a canonical stage must not append it again.
	reg.Register(BuildNamespace, "themes", noopHandler)
	reg.Register(BuildNamespace, "lint", noopHandler)

	asm := NewAssembler(reg, snap)
	got := asm.DefaultBuildStages()
	want := []string{"config", "core", "themes", "manifest", "packages", "lint"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAssembler_SnapshotTasksOutsideCanonicalNotAppended(t *testing.T) {
	reg := registryWithCanonicalBuildTasks()
	asm := NewAssembler(reg, reg.Snapshot())

	// "package" was in the static table, so it never joins the default
	// pipeline.
	for _, stage := range asm.DefaultBuildStages() {
		if stage == "package" {
			t.Fatal("package must not appear in the default pipeline")
		}
	}
}

func TestValidatePackageName(t *testing.T) {
	if err := ValidatePackageName("vendor/app"); err != nil {
		t.Errorf("expected vendor/app to be valid, got %v", err)
	}

	for _, name := range []string{"", "   ", "app"} {
		err := ValidatePackageName(name)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("name %q: expected ErrInvalidArgument, got %v", name, err)
		}
	}
}
