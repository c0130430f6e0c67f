package build

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/pkg/models"
)

func testBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	base := t.TempDir()
	settings := &models.Settings{
		SourceDir:      "src",
		DistDir:        "dist",
		PackagesDir:    "packages",
		DefaultTargets: []string{"dist", "dist-dev"},
	}
	return NewBuilder(base, settings), base
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func workspace(raw string) *models.Workspace {
	return &models.Workspace{Path: "workspace.json", Raw: []byte(raw)}
}

func TestWriteTargetConfig_StampsTargetAndDebug(t *testing.T) {
	b, base := testBuilder(t)
	ws := workspace(`{"name":"demo"}`)

	if err := b.WriteTargetConfig(context.Background(), "dist-dev", core.MapOptions{}, ws); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(base, "dist", "dist-dev", "config.json"))
	if err != nil {
		t.Fatalf("reading target config: %v", err)
	}
	out := &models.Workspace{Raw: raw}
	if got := out.Get("dist_target").String(); got != "dist-dev" {
		t.Errorf("expected dist_target dist-dev, got %q", got)
	}
	if !out.Get("debug").Bool() {
		t.Error("expected debug true for dist-dev")
	}

	if err := b.WriteTargetConfig(context.Background(), "dist", core.MapOptions{}, ws); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, _ = os.ReadFile(filepath.Join(base, "dist", "dist", "config.json"))
	if (&models.Workspace{Raw: raw}).Get("debug").Bool() {
		t.Error("expected debug false for dist")
	}
}

func TestCoreAssets_CopiesSourceTreeAndMounts(t *testing.T) {
	b, base := testBuilder(t)
	writeFile(t, filepath.Join(base, "src", "index.html"), "<html></html>")
	writeFile(t, filepath.Join(base, "src", "js", "app.js"), "void 0")
	writeFile(t, filepath.Join(base, "extra", "readme.md"), "# extra")

	ws := workspace(`{"mounts":{"extra":"extra"}}`)
	if err := b.CoreAssets(context.Background(), "dist", core.MapOptions{}, ws); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rel := range []string{
		filepath.Join("dist", "dist", "index.html"),
		filepath.Join("dist", "dist", "js", "app.js"),
		filepath.Join("dist", "dist", "extra", "readme.md"),
	} {
		if _, err := os.Stat(filepath.Join(base, rel)); err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
		}
	}
}

func TestCoreAssets_MissingSourceTreeIsNotAnError(t *testing.T) {
	b, _ := testBuilder(t)
	if err := b.CoreAssets(context.Background(), "dist", core.MapOptions{}, workspace(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestThemes_RendersStylesheetPerTheme(t *testing.T) {
	b, base := testBuilder(t)
	ws := workspace(`{"themes":{"night":{"colors":{"bg":"#000","fg":"#fff"}}}}`)

	if err := b.Themes(context.Background(), "dist", core.MapOptions{}, ws); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(base, "dist", "dist", "themes", "night", "theme.css"))
	if err != nil {
		t.Fatalf("reading stylesheet: %v", err)
	}
	css := string(raw)
	for _, want := range []string{"--bg: #000;", "--fg: #fff;"} {
		if !strings.Contains(css, want) {
			t.Errorf("stylesheet missing %q:\n%s", want, css)
		}
	}
}

func TestWriteManifest_ListsEnabledPackagesAndMounts(t *testing.T) {
	b, base := testBuilder(t)
	ws := workspace(`{
		"name": "demo",
		"version": "2.0.0",
		"mounts": {"docs": "../docs"},
		"packages": {
			"vendor/app": {"enabled": true},
			"vendor/off": {"enabled": false}
		}
	}`)

	if err := b.WriteManifest(context.Background(), "dist", core.MapOptions{}, ws); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(base, "dist", "dist", "manifest.yaml"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decoding manifest: %v", err)
	}

	if m.Name != "demo" || m.Version != "2.0.0" || m.Target != "dist" {
		t.Errorf("unexpected manifest identity: %+v", m)
	}
	if len(m.Packages) != 1 || m.Packages[0] != "vendor/app" {
		t.Errorf("expected only enabled packages, got %v", m.Packages)
	}
	if len(m.Mounts) != 1 || m.Mounts[0] != "docs" {
		t.Errorf("expected mounts [docs], got %v", m.Mounts)
	}
}

func TestPackage_ArchivesPackageTree(t *testing.T) {
	b, base := testBuilder(t)
	writeFile(t, filepath.Join(base, "packages", "vendor", "app", "app.json"), `{"id":"app"}`)
	writeFile(t, filepath.Join(base, "packages", "vendor", "app", "lib", "main.js"), "void 0")

	ws := workspace(`{}`)
	if err := b.Package(context.Background(), "dist", core.MapOptions{}, ws, "vendor/app"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	archive := filepath.Join(base, "dist", "dist", "packages", "vendor-app.zip")
	zr, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer func() { _ = zr.Close() }()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["app.json"] || !names["lib/main.js"] {
		t.Errorf("archive missing expected entries, got %v", names)
	}
}

func TestPackage_MissingSourceFails(t *testing.T) {
	b, _ := testBuilder(t)
	err := b.Package(context.Background(), "dist", core.MapOptions{}, workspace(`{}`), "vendor/ghost")
	if err == nil {
		t.Fatal("expected an error for a missing package directory")
	}
}

func TestAllPackages_ArchivesOnlyEnabled(t *testing.T) {
	b, base := testBuilder(t)
	writeFile(t, filepath.Join(base, "packages", "vendor", "app", "app.json"), `{}`)
	writeFile(t, filepath.Join(base, "packages", "vendor", "off", "app.json"), `{}`)

	ws := workspace(`{"packages":{"vendor/app":{"enabled":true},"vendor/off":{"enabled":false}}}`)
	if err := b.AllPackages(context.Background(), "dist", core.MapOptions{}, ws); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(base, "dist", "dist", "packages", "vendor-app.zip")); err != nil {
		t.Errorf("expected enabled package archive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "dist", "dist", "packages", "vendor-off.zip")); err == nil {
		t.Error("disabled package must not be archived")
	}
}
