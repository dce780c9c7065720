package render

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"git.home.luguber.info/inful/sitecfg/internal/collection"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// WriteContentConfig writes a src/content.config.ts binding every collection
// in reg to its loader and schema, in declaration order.
func WriteContentConfig(w io.Writer, reg *collection.Registry) error {
	if reg == nil {
		return fmt.Errorf("collection registry is nil")
	}

	imports := importSet{}
	imports.add(collection.Import{Name: "defineCollection", From: "astro:content"})
	for _, b := range reg.Bindings() {
		imports.add(b.Loader.Import())
		if b.Schema != nil {
			imports.add(b.Schema.Import())
		}
	}

	var buf bytes.Buffer
	for _, from := range imports.order {
		fmt.Fprintf(&buf, "import { %s } from %s;\n", joinNames(imports.names[from]), jsString(from))
	}
	buf.WriteString("\nexport const collections = {\n")
	for _, b := range reg.Bindings() {
		key := b.Name
		if !identifier.MatchString(key) {
			key = jsString(key)
		}
		fmt.Fprintf(&buf, "\t%s: defineCollection({ loader: %s", key, b.Loader.Expression())
		if b.Schema != nil && b.Schema.Expression() != "" {
			fmt.Fprintf(&buf, ", schema: %s", b.Schema.Expression())
		}
		buf.WriteString(" }),\n")
	}
	buf.WriteString("};\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// importSet groups named imports by module, keeping first-seen order.
type importSet struct {
	order []string
	names map[string][]string
}

func (s *importSet) add(in collection.Import) {
	if in.IsZero() {
		return
	}
	if s.names == nil {
		s.names = map[string][]string{}
	}
	names, seen := s.names[in.From]
	if !seen {
		s.order = append(s.order, in.From)
	}
	for _, n := range names {
		if n == in.Name {
			return
		}
	}
	s.names[in.From] = append(names, in.Name)
}

func joinNames(names []string) string {
	var b bytes.Buffer
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
	}
	return b.String()
}
