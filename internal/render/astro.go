package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// starlightOptions is the object passed to starlight(). Field order is the
// order keys appear in the generated file.
type starlightOptions struct {
	Title           string                `json:"title"`
	Description     string                `json:"description,omitempty"`
	Logo            *site.Logo            `json:"logo,omitempty"`
	Favicon         string                `json:"favicon,omitempty"`
	Social          []site.SocialLink     `json:"social,omitempty"`
	CustomCSS       []string              `json:"customCss,omitempty"`
	Head            []site.HeadEntry      `json:"head,omitempty"`
	EditLink        *site.EditLink        `json:"editLink,omitempty"`
	LastUpdated     bool                  `json:"lastUpdated,omitempty"`
	Pagination      *bool                 `json:"pagination,omitempty"`
	TableOfContents *site.TableOfContents `json:"tableOfContents,omitempty"`
	Sidebar         []site.NavNode        `json:"sidebar,omitempty"`
}

// AstroOptions tune WriteAstroConfig.
type AstroOptions struct {
	// Sidebar replaces cfg.Sidebar when non-nil, e.g. with a resolved tree.
	Sidebar []site.NavNode
	// Header is written as a line comment at the top of the file.
	Header string
}

// WriteAstroConfig writes an astro.config.mjs equivalent to cfg. Option
// objects are emitted as JSON, which is valid JavaScript.
func WriteAstroConfig(w io.Writer, cfg *site.Config, opts AstroOptions) error {
	if cfg == nil {
		return fmt.Errorf("site configuration is nil")
	}
	sidebar := cfg.Sidebar
	if opts.Sidebar != nil {
		sidebar = opts.Sidebar
	}
	sl := starlightOptions{
		Title:           cfg.Title,
		Description:     cfg.Description,
		Logo:            cfg.Logo,
		Favicon:         cfg.Favicon,
		Social:          cfg.Social,
		CustomCSS:       cfg.CustomCSS,
		Head:            cfg.Head,
		EditLink:        cfg.EditLink,
		LastUpdated:     cfg.LastUpdated,
		Pagination:      cfg.Pagination,
		TableOfContents: cfg.TableOfContents,
		Sidebar:         sidebar,
	}

	var b bytes.Buffer
	b.WriteString("// @ts-check\n")
	if opts.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(opts.Header, "\n"), "\n") {
			b.WriteString("// " + line + "\n")
		}
	}
	b.WriteString("import { defineConfig } from 'astro/config';\n")
	b.WriteString("import starlight from '@astrojs/starlight';\n")
	for _, in := range cfg.Integrations {
		fmt.Fprintf(&b, "import %s from %s;\n", in.Import, jsString(in.Package))
	}
	b.WriteString("\n// https://astro.build/config\nexport default defineConfig({\n")
	fmt.Fprintf(&b, "\tsite: %s,\n", jsString(cfg.URL))
	if allow := cfg.FSAllow(); len(allow) > 0 {
		v, err := jsValue(map[string]any{"server": map[string]any{"fs": map[string]any{"allow": allow}}}, "\t")
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "\tvite: %s,\n", v)
	}
	b.WriteString("\tintegrations: [\n")
	v, err := jsValue(sl, "\t\t")
	if err != nil {
		return err
	}
	fmt.Fprintf(&b, "\t\tstarlight(%s),\n", v)
	for _, in := range cfg.Integrations {
		if len(in.Options) == 0 {
			fmt.Fprintf(&b, "\t\t%s(),\n", in.Import)
			continue
		}
		v, err := jsValue(in.Options, "\t\t")
		if err != nil {
			return fmt.Errorf("integration %s: %w", in.Name, err)
		}
		fmt.Fprintf(&b, "\t\t%s(%s),\n", in.Import, v)
	}
	b.WriteString("\t],\n});\n")

	_, err = w.Write(b.Bytes())
	return err
}

// jsValue renders v as indented JSON continuing at the given indent.
func jsValue(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(indent, "\t")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func jsString(s string) string {
	v, _ := jsValue(s, "")
	return v
}
