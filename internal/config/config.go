// Package config loads the sitecfg tool configuration: the site definition
// plus the collection bindings, validation policy, output and logging
// settings that drive a run.
package config

import (
	"path/filepath"

	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "sitecfg.yaml"

// Config is the root of a sitecfg.yaml (or .toml) file.
type Config struct {
	Version     string             `yaml:"version"`
	Site        site.Config        `yaml:"site"`
	Collections []CollectionConfig `yaml:"collections,omitempty"`
	Validation  ValidationConfig   `yaml:"validation,omitempty"`
	Content     ContentConfig      `yaml:"content,omitempty"`
	Output      OutputConfig       `yaml:"output,omitempty"`
	Logging     LoggingConfig      `yaml:"logging,omitempty"`
	Watch       WatchConfig        `yaml:"watch,omitempty"`

	// baseDir is the directory of the loaded file; relative paths resolve against it.
	baseDir string
}

// CollectionConfig declares one content collection.
type CollectionConfig struct {
	Name    string `yaml:"name"`
	Loader  string `yaml:"loader"`
	Schema  string `yaml:"schema,omitempty"`
	Base    string `yaml:"base,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
}

// ValidationConfig selects how strictly the site is checked.
type ValidationConfig struct {
	Duplicates     site.DuplicatePolicy `yaml:"duplicates,omitempty"`
	CheckAssets    bool                 `yaml:"check_assets,omitempty"`
	CheckSlugs     bool                 `yaml:"check_slugs,omitempty"`
	ResolveSidebar bool                 `yaml:"resolve_sidebar,omitempty"`
	IncludeDrafts  bool                 `yaml:"include_drafts,omitempty"`
}

// ContentConfig locates the project the collections live in.
type ContentConfig struct {
	// Root is the Astro project directory. Defaults to the config file's directory.
	Root string `yaml:"root,omitempty"`
	// GitLastUpdated fills page last-updated times from commit history.
	GitLastUpdated bool `yaml:"git_last_updated,omitempty"`
	// Language is the BCP 47 tag used to sort generated sidebar groups.
	Language string `yaml:"language,omitempty"`
}

// OutputConfig controls what render writes and where.
type OutputConfig struct {
	Directory string   `yaml:"directory,omitempty"`
	Formats   []string `yaml:"formats,omitempty"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// WatchConfig tunes watch mode. Durations use time.ParseDuration syntax.
type WatchConfig struct {
	Debounce    string `yaml:"debounce,omitempty"`
	Rescan      string `yaml:"rescan,omitempty"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// BaseDir returns the directory relative paths resolve against.
func (c *Config) BaseDir() string {
	if c.baseDir == "" {
		return "."
	}
	return c.baseDir
}

// ResolvePath resolves p against BaseDir unless it is absolute. An empty p
// resolves to BaseDir.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir(), filepath.FromSlash(p))
}

// ProjectRoot is the resolved content.root.
func (c *Config) ProjectRoot() string {
	return c.ResolvePath(c.Content.Root)
}

// OutputDir is the resolved output.directory.
func (c *Config) OutputDir() string {
	return c.ResolvePath(c.Output.Directory)
}
