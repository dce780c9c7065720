package collection

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Spec declares one collection as written in the tool configuration.
type Spec struct {
	Name    string
	Loader  string
	Schema  string
	Base    string
	Pattern string
}

// Options supply the environment loaders run in.
type Options struct {
	// Root is the project directory relative bases are resolved against.
	Root    string
	History HistorySource
	Logger  *slog.Logger
}

// DefaultDocsBase is where Starlight expects the docs collection.
const DefaultDocsBase = "src/content/docs"

// DefaultGlobPattern is used by glob loaders without an explicit pattern.
const DefaultGlobPattern = "**/*.{md,mdx}"

// LoaderKinds and SchemaKinds list the accepted kind names.
var (
	LoaderKinds = []string{"docs", "glob"}
	SchemaKinds = []string{"docs", "passthrough"}
)

// Build constructs a registry from specs.
func Build(specs []Spec, opts Options) (*Registry, error) {
	bindings := make([]Binding, 0, len(specs))
	for _, s := range specs {
		b, err := bind(s, opts)
		if err != nil {
			return nil, fmt.Errorf("collection %q: %w", s.Name, err)
		}
		bindings = append(bindings, b)
	}
	return NewRegistry(bindings...)
}

func bind(s Spec, opts Options) (Binding, error) {
	base := s.Base
	if base == "" && s.Loader == "docs" {
		base = DefaultDocsBase
	}
	dir := base
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(opts.Root, filepath.FromSlash(base))
	}

	b := Binding{Name: s.Name}
	switch s.Loader {
	case "docs":
		b.Loader = &DocsLoader{Dir: dir, Collection: s.Name, History: opts.History, Logger: opts.Logger}
	case "glob":
		if base == "" {
			return Binding{}, fmt.Errorf("glob loader needs a base directory")
		}
		pattern := s.Pattern
		if pattern == "" {
			pattern = DefaultGlobPattern
		}
		b.Loader = &GlobLoader{
			Pattern:    pattern,
			Base:       base,
			Dir:        dir,
			Collection: s.Name,
			History:    opts.History,
			Logger:     opts.Logger,
		}
	default:
		return Binding{}, fmt.Errorf("%w: %q", ErrUnknownLoader, s.Loader)
	}

	switch s.Schema {
	case "docs":
		b.Schema = DocsSchema{}
	case "passthrough", "":
		b.Schema = PassthroughSchema{}
	default:
		return Binding{}, fmt.Errorf("%w: %q", ErrUnknownSchema, s.Schema)
	}
	return b, nil
}
