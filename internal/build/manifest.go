package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/pkg/models"
)

// Manifest describes the contents of one built dist target.
type Manifest struct {
	Name      string   `yaml:"name"`
	Version   string   `yaml:"version"`
	Target    string   `yaml:"target"`
	Generated string   `yaml:"generated"`
	Mounts    []string `yaml:"mounts,omitempty"`
	Packages  []string `yaml:"packages,omitempty"`
	Overlays  []string `yaml:"overlays,omitempty"`
}

// WriteManifest renders the manifest for one target from the workspace
// config and writes it into the target's dist directory.
func (b *Builder) WriteManifest(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := Manifest{
		Name:      ws.Get("name").String(),
		Version:   ws.Get("version").String(),
		Target:    target,
		Generated: time.Now().UTC().Format(time.RFC3339),
		Overlays:  ws.Strings("overlays"),
	}
	if m.Name == "" {
		m.Name = filepath.Base(b.basePath)
	}
	if m.Version == "" {
		m.Version = "0.0.0"
	}

	for name := range ws.Get("mounts").Map() {
		m.Mounts = append(m.Mounts, name)
	}
	sort.Strings(m.Mounts)

	ws.Get("packages").ForEach(func(key, value gjson.Result) bool {
		if value.Get("enabled").Bool() {
			m.Packages = append(m.Packages, key.String())
		}
		return true
	})
	sort.Strings(m.Packages)

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("encoding manifest for %s: %w", target, err)
	}

	dir := b.DistDir(target)
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("creating dist dir for %s: %w", target, err)
	}
	path := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
