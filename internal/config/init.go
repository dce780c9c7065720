package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Version: "1",
		Site: site.Config{
			URL:         "https://go-gen-jsonschema.tylergannon.com",
			Title:       "go-gen-jsonschema",
			Description: "Generate JSON Schema from Go types.",
			Logo:        &site.Logo{Src: "./src/assets/gopher-front.svg", ReplacesTitle: true},
			Favicon:     "/favicon.svg",
			Social: []site.SocialLink{
				{Icon: "github", Label: "GitHub", Href: "https://github.com/tylergannon/go-gen-jsonschema"},
			},
			CustomCSS: []string{"./src/fonts/font-face.css", "./src/styles/custom.css"},
			Vite:      &site.Vite{Server: site.ViteServer{FS: site.ViteFS{Allow: []string{"..", "../.."}}}},
			Sidebar: []site.NavNode{
				site.Link("Getting Started", "/getting-started/"),
				site.AutoGroup("Guides", "guides"),
				site.Link("Spec", "/spec/"),
				site.Link("Examples", "/examples/"),
				site.Group("API Reference", site.Link("Index", "/api/")),
			},
		},
		Collections: []CollectionConfig{
			{Name: "docs", Loader: "docs", Schema: "docs"},
		},
		Validation: ValidationConfig{Duplicates: site.DuplicatesWarn, CheckSlugs: true},
		Content:    ContentConfig{Root: "."},
		Output:     OutputConfig{Directory: ".", Formats: []string{"mjs", "content"}},
		Logging:    LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Init writes the example configuration to configPath. An existing file is
// only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return serrors.New(serrors.CategoryConfig, serrors.SeverityError,
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Example()); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
		return serrors.FileSystemError("write config", err).WithContext("path", configPath)
	}
	return nil
}
