// Package models holds the shared data types of buildmill: tool settings
// read from .buildmill.yaml and the workspace configuration document that
// every task in a chain shares.
package models

// ServerSettings holds defaults for the long-running development server.
type ServerSettings struct {
	Port       int    `yaml:"port" mapstructure:"port"`
	LogLevel   string `yaml:"log_level" mapstructure:"log_level"`
	DistTarget string `yaml:"dist_target" mapstructure:"dist_target"`
}

// Settings holds tool-level settings read from .buildmill.yaml via Viper.
// All paths are relative to the workspace base path unless absolute.
type Settings struct {
	SourceDir       string         `yaml:"source_dir" mapstructure:"source_dir"`
	DistDir         string         `yaml:"dist_dir" mapstructure:"dist_dir"`
	PackagesDir     string         `yaml:"packages_dir" mapstructure:"packages_dir"`
	PluginsDir      string         `yaml:"plugins_dir" mapstructure:"plugins_dir"`
	WorkspaceConfig string         `yaml:"workspace_config" mapstructure:"workspace_config"`
	DefaultTargets  []string       `yaml:"default_targets" mapstructure:"default_targets"`
	Server          ServerSettings `yaml:"server" mapstructure:"server"`
}
