package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/buildmill/buildmill/pkg/models"
)

// ConfigurationManager loads tool settings and the shared workspace
// configuration document.
type ConfigurationManager interface {
	// LoadSettings reads .buildmill.yaml from the base path. A missing file
	// yields defaults.
	LoadSettings() (*models.Settings, error)

	// LoadWorkspace reads the persisted workspace config document. It is
	// called once per chain; a missing file yields an empty document, an
	// unreadable or invalid one is an error.
	LoadWorkspace() (*models.Workspace, error)
}

// viperConfigManager implements ConfigurationManager using Viper for the
// YAML settings file and a plain read for the JSON workspace document.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager reading files
// relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultSettings returns Settings populated with sensible defaults.
func defaultSettings() *models.Settings {
	return &models.Settings{
		SourceDir:       "src",
		DistDir:         "dist",
		PackagesDir:     "packages",
		PluginsDir:      "plugins",
		WorkspaceConfig: filepath.Join("config", "workspace.json"),
		DefaultTargets:  []string{"dist", "dist-dev"},
		Server: models.ServerSettings{
			Port:       8080,
			LogLevel:   "info",
			DistTarget: "dist-dev",
		},
	}
}

// LoadSettings reads the .buildmill.yaml settings file via Viper.
func (cm *viperConfigManager) LoadSettings() (*models.Settings, error) {
	cfg := defaultSettings()

	v := viper.New()
	v.SetConfigName(".buildmill")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Viper defaults so missing keys fall back gracefully.
	v.SetDefault("source_dir", cfg.SourceDir)
	v.SetDefault("dist_dir", cfg.DistDir)
	v.SetDefault("packages_dir", cfg.PackagesDir)
	v.SetDefault("plugins_dir", cfg.PluginsDir)
	v.SetDefault("workspace_config", cfg.WorkspaceConfig)
	v.SetDefault("default_targets", cfg.DefaultTargets)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.log_level", cfg.Server.LogLevel)
	v.SetDefault("server.dist_target", cfg.Server.DistTarget)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .buildmill.yaml: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding .buildmill.yaml: %w", err)
	}
	return cfg, nil
}

// LoadWorkspace reads the workspace config document from disk.
func (cm *viperConfigManager) LoadWorkspace() (*models.Workspace, error) {
	settings, err := cm.LoadSettings()
	if err != nil {
		return nil, err
	}

	path := settings.WorkspaceConfig
	if !filepath.IsAbs(path) {
		path = filepath.Join(cm.basePath, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Workspace{Path: path, Raw: []byte("{}")}, nil
		}
		return nil, fmt.Errorf("reading workspace config %s: %w", path, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("workspace config %s is not valid JSON", path)
	}
	return &models.Workspace{Path: path, Raw: raw}, nil
}

// ConfigWriter applies serialized mutations to the persisted workspace
// document. All writes funnel through one mutex; fan-out operations must
// route changes here rather than mutating Workspace.Raw in place.
type ConfigWriter struct {
	mu sync.Mutex
}

// NewConfigWriter creates a ConfigWriter.
func NewConfigWriter() *ConfigWriter {
	return &ConfigWriter{}
}

// Set assigns a value to a dotted key in the workspace document.
func (w *ConfigWriter) Set(ws *models.Workspace, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: config key is required", ErrInvalidArgument)
	}
	return w.apply(ws, func(raw []byte) ([]byte, error) {
		return sjson.SetBytes(raw, key, value)
	})
}

// AddMount registers a named mount point.
func (w *ConfigWriter) AddMount(ws *models.Workspace, name, path string) error {
	if name == "" || path == "" {
		return fmt.Errorf("%w: mount name and path are required", ErrInvalidArgument)
	}
	return w.apply(ws, func(raw []byte) ([]byte, error) {
		return sjson.SetBytes(raw, "mounts."+models.EscapeKey(name), path)
	})
}

// AddPreload appends a preload path, skipping duplicates.
func (w *ConfigWriter) AddPreload(ws *models.Workspace, path string) error {
	if path == "" {
		return fmt.Errorf("%w: preload path is required", ErrInvalidArgument)
	}
	return w.appendUnique(ws, "preloads", path)
}

// AddRepository registers a named package repository URL.
func (w *ConfigWriter) AddRepository(ws *models.Workspace, name, url string) error {
	if name == "" || url == "" {
		return fmt.Errorf("%w: repository name and url are required", ErrInvalidArgument)
	}
	return w.apply(ws, func(raw []byte) ([]byte, error) {
		return sjson.SetBytes(raw, "repositories."+models.EscapeKey(name), url)
	})
}

// RemoveRepository deletes a named package repository.
func (w *ConfigWriter) RemoveRepository(ws *models.Workspace, name string) error {
	if name == "" {
		return fmt.Errorf("%w: repository name is required", ErrInvalidArgument)
	}
	key := "repositories." + models.EscapeKey(name)
	if !gjson.GetBytes(ws.Raw, key).Exists() {
		return fmt.Errorf("%w: repository %q is not configured", ErrInvalidArgument, name)
	}
	return w.apply(ws, func(raw []byte) ([]byte, error) {
		return sjson.DeleteBytes(raw, key)
	})
}

// AddOverlayFile appends an overlay file path, skipping duplicates.
func (w *ConfigWriter) AddOverlayFile(ws *models.Workspace, path string) error {
	if path == "" {
		return fmt.Errorf("%w: overlay file path is required", ErrInvalidArgument)
	}
	return w.appendUnique(ws, "overlays", path)
}

// EnablePackage marks a package as enabled.
func (w *ConfigWriter) EnablePackage(ws *models.Workspace, name string) error {
	return w.setPackageEnabled(ws, name, true)
}

// DisablePackage marks a package as disabled.
func (w *ConfigWriter) DisablePackage(ws *models.Workspace, name string) error {
	return w.setPackageEnabled(ws, name, false)
}

// ListPackages returns all configured package names, sorted, with their
// enabled state.
func (w *ConfigWriter) ListPackages(ws *models.Workspace) map[string]bool {
	out := make(map[string]bool)
	ws.Get("packages").ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.Get("enabled").Bool()
		return true
	})
	return out
}

// PackageNames returns the configured package names, sorted.
func (w *ConfigWriter) PackageNames(ws *models.Workspace) []string {
	pkgs := w.ListPackages(ws)
	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (w *ConfigWriter) setPackageEnabled(ws *models.Workspace, name string, enabled bool) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	return w.apply(ws, func(raw []byte) ([]byte, error) {
		return sjson.SetBytes(raw, "packages."+models.EscapeKey(name)+".enabled", enabled)
	})
}

func (w *ConfigWriter) appendUnique(ws *models.Workspace, list, value string) error {
	return w.apply(ws, func(raw []byte) ([]byte, error) {
		for _, existing := range gjson.GetBytes(raw, list).Array() {
			if existing.String() == value {
				return raw, nil
			}
		}
		return sjson.SetBytes(raw, list+".-1", value)
	})
}

// apply mutates the document under the writer lock and persists the result
// atomically via a temp file rename.
func (w *ConfigWriter) apply(ws *models.Workspace, mutate func([]byte) ([]byte, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	updated, err := mutate(ws.Raw)
	if err != nil {
		return fmt.Errorf("updating workspace config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(ws.Path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp := ws.Path + ".tmp"
	if err := os.WriteFile(tmp, updated, 0o644); err != nil {
		return fmt.Errorf("writing workspace config: %w", err)
	}
	if err := os.Rename(tmp, ws.Path); err != nil {
		return fmt.Errorf("replacing workspace config: %w", err)
	}

	ws.Raw = updated
	return nil
}
