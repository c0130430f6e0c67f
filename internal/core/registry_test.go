package core

import (
	"context"
	"reflect"
	"testing"

	"github.com/buildmill/buildmill/pkg/models"
)

func noopHandler(ctx context.Context, opts Options, ws *models.Workspace) (any, error) {
	return nil, nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	reg.Register("build", "core", noopHandler)

	if _, ok := reg.Lookup("build", "core"); !ok {
		t.Fatal("expected build:core to be registered")
	}
	if _, ok := reg.Lookup("build", "missing"); ok {
		t.Error("expected build:missing to be absent")
	}
	if _, ok := reg.Lookup("other", "core"); ok {
		t.Error("expected other:core to be absent")
	}
}

func TestRegistry_NamesAndNamespacesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register("generate", "icons", noopHandler)
	reg.Register("build", "themes", noopHandler)
	reg.Register("build", "core", noopHandler)

	if got := reg.Namespaces(); !reflect.DeepEqual(got, []string{"build", "generate"}) {
		t.Errorf("expected sorted namespaces, got %v", got)
	}
	if got := reg.Names("build"); !reflect.DeepEqual(got, []string{"core", "themes"}) {
		t.Errorf("expected sorted names, got %v", got)
	}
}

func TestRegistry_OverwriteFiresHook(t *testing.T) {
	reg := NewRegistry()
	var overwritten []string
	reg.SetOverwriteHook(func(namespace, name string) {
		overwritten = append(overwritten, namespace+":"+name)
	})

	reg.Register("build", "core", noopHandler)
	if len(overwritten) != 0 {
		t.Fatalf("first registration must not fire the hook, got %v", overwritten)
	}

	reg.Register("build", "core", noopHandler)
	if !reflect.DeepEqual(overwritten, []string{"build:core"}) {
		t.Errorf("expected one overwrite notification, got %v", overwritten)
	}
}

func TestRegistry_SnapshotIsImmutable(t *testing.T) {
	reg := NewRegistry()
	reg.Register("build", "core", noopHandler)
	snap := reg.Snapshot()

	reg.Register("build", "lint", noopHandler)

	if !snap.Has("build", "core") {
		t.Error("snapshot lost build:core")
	}
	if snap.Has("build", "lint") {
		t.Error("snapshot must not see registrations made after capture")
	}
	if snap.Has("plugin-ns", "anything") {
		t.Error("snapshot must not see unknown namespaces")
	}
}
