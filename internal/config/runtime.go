package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitecfg/internal/build"
	"git.home.luguber.info/inful/sitecfg/internal/collection"
	"git.home.luguber.info/inful/sitecfg/internal/git"
	"git.home.luguber.info/inful/sitecfg/internal/logfields"
	"git.home.luguber.info/inful/sitecfg/internal/render"
)

// CollectionSpecs converts the collections section for collection.Build.
func (c *Config) CollectionSpecs() []collection.Spec {
	specs := make([]collection.Spec, len(c.Collections))
	for i, col := range c.Collections {
		specs[i] = collection.Spec{
			Name:    col.Name,
			Loader:  col.Loader,
			Schema:  col.Schema,
			Base:    col.Base,
			Pattern: col.Pattern,
		}
	}
	return specs
}

// History opens the repository enclosing the project when git last-updated
// times are enabled. A project outside any repository yields no history.
func (c *Config) History(logger *slog.Logger) (collection.HistorySource, error) {
	if !c.Content.GitLastUpdated {
		return nil, nil
	}
	h, err := git.Open(c.ProjectRoot())
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			loggerOr(logger).Warn("Git last-updated times disabled: project is not in a repository", logfields.Directory(c.ProjectRoot()))
			return nil, nil
		}
		return nil, err
	}
	return h, nil
}

// Registry builds the collection registry rooted at the project directory.
func (c *Config) Registry(logger *slog.Logger) (*collection.Registry, error) {
	history, err := c.History(logger)
	if err != nil {
		return nil, err
	}
	return collection.Build(c.CollectionSpecs(), collection.Options{
		Root:    c.ProjectRoot(),
		History: history,
		Logger:  logger,
	})
}

// AssembleOptions maps the validation and content sections onto build.Options.
func (c *Config) AssembleOptions() build.Options {
	opts := build.Options{
		Duplicates:     c.Validation.Duplicates,
		CheckSlugs:     c.Validation.CheckSlugs,
		ResolveSidebar: c.Validation.ResolveSidebar,
		IncludeDrafts:  c.Validation.IncludeDrafts,
	}
	if c.Validation.CheckAssets {
		opts.AssetRoot = c.ProjectRoot()
	}
	if c.Content.Language != "" {
		if tag, err := language.Parse(c.Content.Language); err == nil {
			opts.Language = tag
		}
	}
	return opts
}

// OutputFormats returns the configured render formats.
func (c *Config) OutputFormats() ([]render.Format, error) {
	return render.ParseFormats(strings.Join(c.Output.Formats, ","))
}

// WatchIntervals returns the parsed debounce and rescan durations.
func (c *Config) WatchIntervals() (debounce, rescan time.Duration, err error) {
	if c.Watch.Debounce != "" {
		if debounce, err = time.ParseDuration(c.Watch.Debounce); err != nil {
			return 0, 0, fmt.Errorf("watch.debounce: %w", err)
		}
	}
	if c.Watch.Rescan != "" {
		if rescan, err = time.ParseDuration(c.Watch.Rescan); err != nil {
			return 0, 0, fmt.Errorf("watch.rescan: %w", err)
		}
	}
	return debounce, rescan, nil
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
