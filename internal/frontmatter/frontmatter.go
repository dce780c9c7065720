// Package frontmatter separates document metadata blocks from Markdown bodies.
//
// Two block styles are recognized: YAML delimited by `---` lines and TOML
// delimited by `+++` lines.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the frontmatter syntax of a document.
type Format string

const (
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Split separates frontmatter from the Markdown body.
//
// If the document does not start with a delimiter line, format is FormatNone
// and body is the full input.
func Split(content []byte) (fm []byte, body []byte, format Format, err error) {
	nl := detectNewline(content)

	for _, d := range []struct {
		delim  string
		format Format
	}{{"---", FormatYAML}, {"+++", FormatTOML}} {
		open := []byte(d.delim + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		start := len(open)
		if bytes.HasPrefix(content[start:], open) {
			return []byte{}, content[start+len(open):], d.format, nil
		}
		closeSeq := []byte(nl + d.delim + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// A closing delimiter at EOF without a trailing newline still counts.
			tail := []byte(nl + d.delim)
			if bytes.HasSuffix(content, tail) && len(content)-len(tail) >= start {
				return content[start : len(content)-len(tail)+len(nl)], []byte{}, d.format, nil
			}
			return nil, nil, FormatNone, ErrMissingClosingDelimiter
		}
		end := start + idx + len(nl)
		return content[start:end], content[start+idx+len(closeSeq):], d.format, nil
	}
	return nil, content, FormatNone, nil
}

// Parse decodes a raw frontmatter block (without delimiters) into a map.
func Parse(fm []byte, format Format) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(fm, &fields); err != nil {
			return nil, fmt.Errorf("yaml frontmatter: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(fm, &fields); err != nil {
			return nil, fmt.Errorf("toml frontmatter: %w", err)
		}
	case FormatNone:
	default:
		return nil, fmt.Errorf("unsupported frontmatter format %q", format)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
