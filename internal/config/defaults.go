package config

import (
	"fmt"

	"git.home.luguber.info/inful/sitecfg/internal/collection"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier runs domain appliers in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&CollectionsDefaultApplier{},
			&ValidationDefaultApplier{},
			&OutputDefaultApplier{},
			&LoggingDefaultApplier{},
			&WatchDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// CollectionsDefaultApplier declares the docs collection when none is configured.
type CollectionsDefaultApplier struct{}

func (*CollectionsDefaultApplier) Domain() string { return "collections" }

func (*CollectionsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Collections) == 0 {
		cfg.Collections = []CollectionConfig{{
			Name:   "docs",
			Loader: "docs",
			Schema: "docs",
			Base:   collection.DefaultDocsBase,
		}}
	}
	for i := range cfg.Collections {
		col := &cfg.Collections[i]
		if col.Loader == "" {
			col.Loader = "docs"
		}
		if col.Loader == "docs" {
			if col.Schema == "" {
				col.Schema = "docs"
			}
			if col.Base == "" {
				col.Base = collection.DefaultDocsBase
			}
		}
		if col.Loader == "glob" && col.Pattern == "" {
			col.Pattern = collection.DefaultGlobPattern
		}
	}
	return nil
}

// ValidationDefaultApplier selects the warn duplicate policy.
type ValidationDefaultApplier struct{}

func (*ValidationDefaultApplier) Domain() string { return "validation" }

func (*ValidationDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Validation.Duplicates == "" {
		cfg.Validation.Duplicates = site.DuplicatesWarn
	}
	return nil
}

// OutputDefaultApplier writes the Astro files into the project directory.
type OutputDefaultApplier struct{}

func (*OutputDefaultApplier) Domain() string { return "output" }

func (*OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "."
	}
	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{"mjs", "content"}
	}
	return nil
}

// LoggingDefaultApplier defaults to info-level text logs.
type LoggingDefaultApplier struct{}

func (*LoggingDefaultApplier) Domain() string { return "logging" }

func (*LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

// WatchDefaultApplier sets the debounce window. Rescans stay off unless configured.
type WatchDefaultApplier struct{}

func (*WatchDefaultApplier) Domain() string { return "watch" }

func (*WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "300ms"
	}
	return nil
}
