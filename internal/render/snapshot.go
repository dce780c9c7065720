package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// WriteJSON writes cfg as indented JSON.
func WriteJSON(w io.Writer, cfg *site.Config) error {
	if cfg == nil {
		return fmt.Errorf("site configuration is nil")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteYAML writes cfg as YAML with two-space indentation.
func WriteYAML(w io.Writer, cfg *site.Config) error {
	if cfg == nil {
		return fmt.Errorf("site configuration is nil")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
