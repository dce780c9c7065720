package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitecfg/internal/collection"
	"git.home.luguber.info/inful/sitecfg/internal/render"
)

// ValidateConfig checks the tool sections. The site definition itself is
// validated by the assembler, which reports every finding at once.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	return errors.Join(
		cv.validateCollections(),
		cv.validateOutput(),
		cv.validateContent(),
		cv.validateWatch(),
	)
}

func (cv *configurationValidator) validateCollections() error {
	var errs []error
	seen := map[string]int{}
	for i, col := range cv.config.Collections {
		field := fmt.Sprintf("collections[%d]", i)
		if col.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", field))
		} else if first, dup := seen[col.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: %w: %q already declared at collections[%d]", field, collection.ErrDuplicateCollection, col.Name, first))
		} else {
			seen[col.Name] = i
		}
		if !slices.Contains(collection.LoaderKinds, col.Loader) {
			errs = append(errs, fmt.Errorf("%s: %w %q (valid: %s)", field, collection.ErrUnknownLoader, col.Loader, strings.Join(collection.LoaderKinds, ", ")))
		}
		if col.Schema != "" && !slices.Contains(collection.SchemaKinds, col.Schema) {
			errs = append(errs, fmt.Errorf("%s: %w %q (valid: %s)", field, collection.ErrUnknownSchema, col.Schema, strings.Join(collection.SchemaKinds, ", ")))
		}
		if col.Loader == "glob" && col.Base == "" {
			errs = append(errs, fmt.Errorf("%s: glob loader needs a base directory", field))
		}
	}
	return errors.Join(errs...)
}

func (cv *configurationValidator) validateOutput() error {
	if _, err := render.ParseFormats(strings.Join(cv.config.Output.Formats, ",")); err != nil {
		return fmt.Errorf("output.formats: %w", err)
	}
	return nil
}

func (cv *configurationValidator) validateContent() error {
	if lang := cv.config.Content.Language; lang != "" {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("content.language: %w", err)
		}
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	var errs []error
	for _, f := range []struct{ field, raw string }{
		{"watch.debounce", cv.config.Watch.Debounce},
		{"watch.rescan", cv.config.Watch.Rescan},
	} {
		field, raw := f.field, f.raw
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		} else if d < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative", field))
		}
	}
	return errors.Join(errs...)
}
