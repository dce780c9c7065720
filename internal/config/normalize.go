package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitecfg/internal/foundation/normalization"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// NormalizationResult captures adjustments and warnings from the normalization pass.
type NormalizationResult struct {
	Warnings []string
}

func (r *NormalizationResult) warn(msg string) { r.Warnings = append(r.Warnings, msg) }

var duplicatesNormalizer = normalization.NewNormalizer(map[string]site.DuplicatePolicy{
	"warn":   site.DuplicatesWarn,
	"reject": site.DuplicatesReject,
	"dedupe": site.DuplicatesDedupe,
}, site.DuplicatesWarn)

var formatNormalizer = normalization.NewNormalizer(map[string]string{
	"mjs":     "mjs",
	"astro":   "mjs",
	"content": "content",
	"ts":      "content",
	"json":    "json",
	"yaml":    "yaml",
	"yml":     "yaml",
}, "")

var loaderNormalizer = normalization.NewNormalizer(map[string]string{
	"docs": "docs",
	"glob": "glob",
}, "")

var schemaNormalizer = normalization.NewNormalizer(map[string]string{
	"docs":        "docs",
	"passthrough": "passthrough",
	"none":        "passthrough",
}, "")

// NormalizeConfig canonicalizes enumerated fields and trims free-form input
// before defaults are applied. It mutates c in place. Unknown loader, schema
// and format names are left as written so validation can name them.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	c.Version = strings.TrimSpace(c.Version)
	normalizeSite(&c.Site, res)

	if raw := string(c.Validation.Duplicates); strings.TrimSpace(raw) != "" {
		// A mistyped policy must not silently weaken reject to warn.
		policy, err := duplicatesNormalizer.NormalizeWithError(raw)
		if err != nil {
			return nil, fmt.Errorf("validation.duplicates: %w", err)
		}
		if string(policy) != raw {
			res.warn(fmt.Sprintf("normalized validation.duplicates from '%s' to '%s'", raw, policy))
		}
		c.Validation.Duplicates = policy
	}
	if raw := string(c.Logging.Level); raw != "" {
		c.Logging.Level = logLevelNormalizer.Field("logging.level", raw, res.warn)
	}
	if raw := string(c.Logging.Format); raw != "" {
		c.Logging.Format = logFormatNormalizer.Field("logging.format", raw, res.warn)
	}

	for i := range c.Collections {
		col := &c.Collections[i]
		col.Name = strings.TrimSpace(col.Name)
		col.Loader = canonical(loaderNormalizer, fmt.Sprintf("collections[%d].loader", i), col.Loader, res)
		col.Schema = canonical(schemaNormalizer, fmt.Sprintf("collections[%d].schema", i), col.Schema, res)
		col.Base = strings.TrimSpace(col.Base)
		col.Pattern = strings.TrimSpace(col.Pattern)
	}
	for i, f := range c.Output.Formats {
		c.Output.Formats[i] = canonical(formatNormalizer, fmt.Sprintf("output.formats[%d]", i), f, res)
	}
	c.Output.Directory = strings.TrimSpace(c.Output.Directory)
	c.Content.Root = strings.TrimSpace(c.Content.Root)
	return res, nil
}

// canonical maps raw through n, keeping unknown input untouched.
func canonical(n *normalization.Normalizer[string], field, raw string, res *NormalizationResult) string {
	v, ok := n.Lookup(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	if v != raw {
		res.warn(fmt.Sprintf("normalized %s from '%s' to '%s'", field, raw, v))
	}
	return v
}

func normalizeSite(s *site.Config, res *NormalizationResult) {
	s.URL = strings.TrimSpace(s.URL)
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Favicon = strings.TrimSpace(s.Favicon)
	s.CustomCSS = dropBlank("site.customCss", s.CustomCSS, res)
	if s.Vite != nil {
		s.Vite.Server.FS.Allow = dropBlank("site.vite.server.fs.allow", s.Vite.Server.FS.Allow, res)
	}
}

// dropBlank trims entries and removes empty ones, preserving order.
func dropBlank(field string, in []string, res *NormalizationResult) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for i, v := range in {
		t := strings.TrimSpace(v)
		if t == "" {
			res.warn(fmt.Sprintf("dropped blank %s[%d]", field, i))
			continue
		}
		out = append(out, t)
	}
	return out
}
