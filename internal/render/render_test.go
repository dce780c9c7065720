package render

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitecfg/internal/build"
	"git.home.luguber.info/inful/sitecfg/internal/collection"
	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

func loadSite(t *testing.T, name string) *site.Config {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "site", "testdata", name))
	require.NoError(t, err)
	var cfg site.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	return &cfg
}

func docsRegistry(t *testing.T, dir string) *collection.Registry {
	t.Helper()
	reg, err := collection.NewRegistry(collection.Binding{
		Name:   "docs",
		Loader: &collection.DocsLoader{Dir: dir, Collection: "docs"},
		Schema: collection.DocsSchema{},
	})
	require.NoError(t, err)
	return reg
}

func TestWriteAstroConfig(t *testing.T) {
	cfg := loadSite(t, "full.yaml")
	cfg.Integrations = []site.Integration{
		{Name: "mermaid", Import: "mermaid", Package: "astro-mermaid", Options: map[string]any{"theme": "forest"}},
		{Name: "sitemap", Import: "sitemap", Package: "@astrojs/sitemap"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAstroConfig(&buf, cfg, AstroOptions{Header: "Generated by sitecfg."}))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "// @ts-check\n// Generated by sitecfg.\n"))
	require.Contains(t, out, "import { defineConfig } from 'astro/config';\n")
	require.Contains(t, out, "import starlight from '@astrojs/starlight';\n")
	require.Contains(t, out, "import mermaid from \"astro-mermaid\";\n")
	require.Contains(t, out, "\tsite: \"https://go-gen-jsonschema.tylergannon.com\",\n")
	require.Contains(t, out, "\"allow\": [")
	require.Contains(t, out, "\t\tmermaid({")
	require.Contains(t, out, "\t\tsitemap(),\n")
	require.True(t, strings.HasSuffix(out, "\t],\n});\n"))

	title := strings.Index(out, "\"title\": \"go-gen-jsonschema\"")
	css := strings.Index(out, "\"customCss\"")
	side := strings.Index(out, "\"sidebar\"")
	require.True(t, title > 0 && title < css && css < side, "starlight keys out of order")

	font := strings.Index(out, "./src/fonts/font-face.css")
	custom := strings.Index(out, "./src/styles/custom.css")
	require.True(t, font > 0 && font < custom, "customCss order changed")
}

func TestWriteAstroConfigSidebarOverride(t *testing.T) {
	cfg := loadSite(t, "minimal.yaml")
	cfg.Vite = nil
	var buf bytes.Buffer
	require.NoError(t, WriteAstroConfig(&buf, cfg, AstroOptions{
		Sidebar: []site.NavNode{site.Link("Only", "/only/")},
	}))
	require.Contains(t, buf.String(), "\"label\": \"Only\"")
	require.NotContains(t, buf.String(), "Getting Started")
	require.NotContains(t, buf.String(), "vite:")
}

func TestWriteAstroConfigNil(t *testing.T) {
	require.Error(t, WriteAstroConfig(&bytes.Buffer{}, nil, AstroOptions{}))
}

func TestWriteContentConfig(t *testing.T) {
	reg, err := collection.NewRegistry(
		collection.Binding{Name: "docs", Loader: &collection.DocsLoader{Dir: t.TempDir()}, Schema: collection.DocsSchema{}},
		collection.Binding{Name: "api-notes", Loader: &collection.GlobLoader{Pattern: "**/*.md", Base: "./notes"}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteContentConfig(&buf, reg))
	out := buf.String()

	require.Contains(t, out, "import { defineCollection } from \"astro:content\";\n")
	require.Contains(t, out, "import { docsLoader } from \"@astrojs/starlight/loaders\";\n")
	require.Contains(t, out, "import { docsSchema } from \"@astrojs/starlight/schema\";\n")
	require.Contains(t, out, "\tdocs: defineCollection({ loader: docsLoader(), schema: docsSchema() }),\n")
	require.Contains(t, out, "\t\"api-notes\": defineCollection({ loader: glob(")
	require.Less(t, strings.Index(out, "docs:"), strings.Index(out, "\"api-notes\":"))
}

func TestImportSetGroupsByModule(t *testing.T) {
	var s importSet
	s.add(collection.Import{Name: "a", From: "m1"})
	s.add(collection.Import{Name: "b", From: "m2"})
	s.add(collection.Import{Name: "c", From: "m1"})
	s.add(collection.Import{Name: "a", From: "m1"})
	s.add(collection.Import{})
	require.Equal(t, []string{"m1", "m2"}, s.order)
	require.Equal(t, []string{"a", "c"}, s.names["m1"])
}

func TestWriteJSONRoundTrip(t *testing.T) {
	for _, name := range []string{"minimal.yaml", "grouped.yaml", "full.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := loadSite(t, name)
			var buf bytes.Buffer
			require.NoError(t, WriteJSON(&buf, cfg))

			var back site.Config
			require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
			require.Equal(t, cfg, &back)
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := loadSite(t, "full.yaml")
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, cfg))

	var back site.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Equal(t, cfg, &back)
	require.Equal(t, []string{"./src/fonts/font-face.css", "./src/styles/custom.css"}, back.CustomCSS)
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats("mjs, JSON,mjs,,yaml")
	require.NoError(t, err)
	require.Equal(t, []Format{FormatAstro, FormatJSON, FormatYAML}, got)

	_, err = ParseFormats("mjs,html")
	require.ErrorContains(t, err, "html")
}

func assemble(t *testing.T, cfg *site.Config) *build.Result {
	t.Helper()
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.md"), []byte("---\ntitle: Home\n---\n"), 0o600))
	res, _ := build.NewAssembler(cfg, docsRegistry(t, docs), build.Options{}).Assemble(context.Background())
	require.NotNil(t, res)
	return res
}

func TestEmitterWritesFiles(t *testing.T) {
	res := assemble(t, loadSite(t, "minimal.yaml"))
	require.Equal(t, build.StatusSuccess, res.Status())

	out := t.TempDir()
	e := &Emitter{Dir: out, Formats: Formats, Header: "Generated."}
	paths, err := e.Emit(context.Background(), res)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(out, "astro.config.mjs"),
		filepath.Join(out, "src", "content.config.ts"),
		filepath.Join(out, "site.json"),
		filepath.Join(out, "site.yaml"),
	}, paths)

	for _, p := range paths {
		_, err := os.Stat(p + ".tmp")
		require.True(t, os.IsNotExist(err), "temp file left behind for %s", p)
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o644), info.Mode().Perm(), p)
	}
	content, err := os.ReadFile(filepath.Join(out, "src", "content.config.ts"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(content), "// Generated.\nimport { defineCollection }"))
}

func TestEmitterDefaultsAndRefusesInvalid(t *testing.T) {
	cfg := loadSite(t, "minimal.yaml")
	cfg.Title = ""
	res := assemble(t, cfg)
	require.Equal(t, build.StatusInvalid, res.Status())

	_, err := (&Emitter{Dir: t.TempDir()}).Emit(context.Background(), res)
	require.True(t, serrors.IsCategory(err, serrors.CategoryValidation))

	res = assemble(t, loadSite(t, "minimal.yaml"))
	paths, err := (&Emitter{Dir: t.TempDir()}).Emit(context.Background(), res)
	require.NoError(t, err)
	require.Len(t, paths, len(DefaultFormats))
}

func TestEmitterCanceled(t *testing.T) {
	res := assemble(t, loadSite(t, "minimal.yaml"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths, err := (&Emitter{Dir: t.TempDir()}).Emit(ctx, res)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, paths)
}
