package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitecfg/internal/collection"
	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/render"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

func TestLoadYAML(t *testing.T) {
	t.Setenv("SITE_URL", "https://go-gen-jsonschema.tylergannon.com")

	cfg, err := Load(filepath.Join("testdata", "sitecfg.yaml"))
	require.NoError(t, err)

	require.Equal(t, "https://go-gen-jsonschema.tylergannon.com", cfg.Site.URL)
	require.Equal(t, []string{"./src/fonts/font-face.css", "./src/styles/custom.css"}, cfg.Site.CustomCSS)
	require.Equal(t, site.SlugLink("", "getting-started"), cfg.Site.Sidebar[0])
	require.Equal(t, site.DuplicatesDedupe, cfg.Validation.Duplicates)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
	require.Equal(t, []string{"mjs", "json"}, cfg.Output.Formats)

	require.Equal(t, "docs", cfg.Collections[0].Loader)
	require.Equal(t, "docs", cfg.Collections[0].Schema)
	require.Equal(t, collection.DefaultGlobPattern, cfg.Collections[1].Pattern)

	abs, err := filepath.Abs("testdata")
	require.NoError(t, err)
	require.Equal(t, abs, cfg.BaseDir())
	require.Equal(t, filepath.Join(abs, "dist"), cfg.OutputDir())
	require.Equal(t, abs, cfg.ProjectRoot())
}

func TestLoadTOMLMatchesYAML(t *testing.T) {
	t.Setenv("SITE_URL", "https://go-gen-jsonschema.tylergannon.com")

	fromYAML, err := Load(filepath.Join("testdata", "sitecfg.yaml"))
	require.NoError(t, err)
	fromTOML, err := Load(filepath.Join("testdata", "sitecfg.toml"))
	require.NoError(t, err)
	require.Equal(t, fromYAML, fromTOML)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
	se, ok := serrors.As(err)
	require.True(t, ok)
	require.Equal(t, "configuration file not found", se.Message)

	path := filepath.Join(t.TempDir(), "sitecfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"2\"\nsite: {}\n"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, "unsupported configuration version")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "minimal", input: "version: 1\nsite:\n  title: T\n"},
		{name: "minor version", input: "version: \"1.3\"\n"},
		{name: "empty document", input: "", wantErr: "version is required"},
		{name: "missing version", input: "site:\n  title: T\n", wantErr: "version is required"},
		{name: "unknown top-level key", input: "version: 1\nsites: {}\n", wantErr: "sites"},
		{name: "ambiguous sidebar node", input: "version: 1\nsite:\n  sidebar:\n    - label: X\n      link: /x/\n      slug: x\n", wantErr: "mixes link and slug"},
		{name: "unknown loader", input: "version: 1\ncollections:\n  - name: docs\n    loader: s3\n", wantErr: "unknown loader"},
		{name: "unknown schema", input: "version: 1\ncollections:\n  - name: docs\n    loader: docs\n    schema: zod\n", wantErr: "unknown schema"},
		{name: "duplicate collection", input: "version: 1\ncollections:\n  - {name: docs, loader: docs}\n  - {name: docs, loader: docs}\n", wantErr: "duplicate collection"},
		{name: "glob without base", input: "version: 1\ncollections:\n  - {name: notes, loader: glob}\n", wantErr: "base directory"},
		{name: "unknown format", input: "version: 1\noutput:\n  formats: [html]\n", wantErr: "html"},
		{name: "bad duration", input: "version: 1\nwatch:\n  rescan: often\n", wantErr: "watch.rescan"},
		{name: "mistyped duplicate policy", input: "version: 1\nvalidation:\n  duplicates: rejct\n", wantErr: "validation.duplicates"},
		{name: "bad language", input: "version: 1\ncontent:\n  language: \"!!\"\n", wantErr: "content.language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input), FormatYAML)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg, res, err := Parse([]byte("version: 1\n"), FormatYAML)
	require.NoError(t, err)
	require.Empty(t, res.Warnings)

	require.Equal(t, []CollectionConfig{{Name: "docs", Loader: "docs", Schema: "docs", Base: collection.DefaultDocsBase}}, cfg.Collections)
	require.Equal(t, site.DuplicatesWarn, cfg.Validation.Duplicates)
	require.Equal(t, ".", cfg.Output.Directory)
	require.Equal(t, []string{"mjs", "content"}, cfg.Output.Formats)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)

	debounce, rescan, err := cfg.WatchIntervals()
	require.NoError(t, err)
	require.Positive(t, debounce)
	require.Zero(t, rescan)
}

func TestDocsCollectionBaseDefault(t *testing.T) {
	cfg, _, err := Parse([]byte("version: 1\ncollections:\n  - {name: docs, loader: Docs}\n  - {name: notes, loader: glob, base: src/notes}\n"), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, collection.DefaultDocsBase, cfg.Collections[0].Base)
	require.Equal(t, "docs", cfg.Collections[0].Schema)
	require.Equal(t, "src/notes", cfg.Collections[1].Base)

	specs := cfg.CollectionSpecs()
	require.Equal(t, collection.DefaultDocsBase, specs[0].Base)
}

func TestNormalizationWarnings(t *testing.T) {
	input := strings.Join([]string{
		"version: 1",
		"site:",
		"  title: '  Padded  '",
		"  customCss: ['./a.css', '', './b.css']",
		"validation:",
		"  duplicates: ' Dedupe'",
		"logging:",
		"  level: WARNING",
		"  format: JSON",
		"output:",
		"  formats: [YML]",
	}, "\n")
	cfg, res, err := Parse([]byte(input), FormatYAML)
	require.NoError(t, err)

	require.Equal(t, "Padded", cfg.Site.Title)
	require.Equal(t, []string{"./a.css", "./b.css"}, cfg.Site.CustomCSS)
	require.Equal(t, site.DuplicatesDedupe, cfg.Validation.Duplicates)
	require.Equal(t, LogLevelWarn, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
	require.Equal(t, []string{"yaml"}, cfg.Output.Formats)

	joined := strings.Join(res.Warnings, "\n")
	require.Contains(t, joined, "dropped blank site.customCss[1]")
	require.Contains(t, joined, "normalized validation.duplicates from ' Dedupe' to 'dedupe'")
	require.Contains(t, joined, "normalized logging.level")
	require.Contains(t, joined, "normalized output.formats[0] from 'YML' to 'yaml'")
}

func TestRuntimeConversions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "content", "docs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "content", "docs", "index.md"), []byte("---\ntitle: Home\n---\n"), 0o600))
	path := filepath.Join(root, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nvalidation:\n  check_assets: true\n  resolve_sidebar: true\ncontent:\n  language: de\n  git_last_updated: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	reg, err := cfg.Registry(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"docs"}, reg.Names())

	opts := cfg.AssembleOptions()
	require.Equal(t, root, opts.AssetRoot)
	require.True(t, opts.ResolveSidebar)
	require.Equal(t, "de", opts.Language.String())

	formats, err := cfg.OutputFormats()
	require.NoError(t, err)
	require.Equal(t, []render.Format{render.FormatAstro, render.FormatContent}, formats)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "go-gen-jsonschema", cfg.Site.Title)
	require.Equal(t, Example().Site, cfg.Site)
	require.Empty(t, site.Validate(&cfg.Site, site.Options{}).Errors())

	err = Init(path, false)
	require.ErrorContains(t, err, "--force")
	require.NoError(t, Init(path, true))
}
