// Package build implements the delegated build operations invoked by the
// task table: per-target config files, core asset bundling, theme assets,
// manifests, and package archives. The orchestration core only decides
// whether and in what order these run.
package build

import (
	"os"
	"path/filepath"

	"github.com/buildmill/buildmill/pkg/models"
)

// Builder performs the concrete build operations for one workspace.
type Builder struct {
	basePath string
	settings *models.Settings
}

// NewBuilder creates a Builder rooted at basePath.
func NewBuilder(basePath string, settings *models.Settings) *Builder {
	return &Builder{basePath: basePath, settings: settings}
}

// SourceDir returns the absolute source tree path.
func (b *Builder) SourceDir() string {
	return b.abs(b.settings.SourceDir)
}

// DistDir returns the absolute output directory for a target.
func (b *Builder) DistDir(target string) string {
	return filepath.Join(b.abs(b.settings.DistDir), target)
}

// PackagesDir returns the absolute package source directory.
func (b *Builder) PackagesDir() string {
	return b.abs(b.settings.PackagesDir)
}

func (b *Builder) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.basePath, path)
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
