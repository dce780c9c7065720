package collection

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// SchemaError lists every frontmatter problem found in one entry.
type SchemaError struct {
	Collection string
	Entry      string
	Problems   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s entry %q: %s", e.Collection, e.Entry, strings.Join(e.Problems, "; "))
}

var (
	templates     = map[string]struct{}{"doc": {}, "splash": {}}
	badgeVariants = map[string]struct{}{
		"note": {}, "tip": {}, "caution": {}, "danger": {}, "success": {}, "default": {},
	}
	docsKnownFields = map[string]struct{}{
		"title": {}, "description": {}, "slug": {}, "template": {}, "draft": {},
		"pagefind": {}, "sidebar": {}, "tableOfContents": {}, "lastUpdated": {},
	}
)

// DocsSchema checks Starlight page frontmatter.
type DocsSchema struct{}

func (DocsSchema) Kind() string { return "docs" }

func (DocsSchema) Import() Import {
	return Import{Name: "docsSchema", From: "@astrojs/starlight/schema"}
}

func (DocsSchema) Expression() string { return "docsSchema()" }

// Parse validates e.Fields. Unknown fields are kept in Data.Extra.
func (DocsSchema) Parse(e Entry) (Data, error) {
	p := fieldParser{fields: e.Fields}
	d := Data{
		Title:       p.str("title", true),
		Description: p.str("description", false),
		Slug:        strings.Trim(p.str("slug", false), "/"),
		Template:    p.str("template", false),
		Draft:       p.boolean("draft", false),
		Pagefind:    p.boolean("pagefind", true),
		LastUpdated: e.LastUpdated,
	}
	if d.Template == "" {
		d.Template = "doc"
	} else if _, ok := templates[d.Template]; !ok {
		p.problemf("template must be doc or splash, got %q", d.Template)
	}
	d.Sidebar = p.sidebar()
	d.TableOfContents = p.toc()
	if t, set, disabled := p.lastUpdated(); disabled {
		d.LastUpdated = time.Time{}
	} else if set {
		d.LastUpdated = t
	}

	for k, v := range e.Fields {
		if _, known := docsKnownFields[k]; !known {
			if d.Extra == nil {
				d.Extra = make(map[string]any)
			}
			d.Extra[k] = v
		}
	}
	if len(p.problems) > 0 {
		return d, &SchemaError{Collection: e.Collection, Entry: e.Path, Problems: p.problems}
	}
	return d, nil
}

// PassthroughSchema accepts any frontmatter. A string title is picked up when present.
type PassthroughSchema struct{}

func (PassthroughSchema) Kind() string { return "passthrough" }

func (PassthroughSchema) Import() Import { return Import{} }

func (PassthroughSchema) Expression() string { return "" }

func (PassthroughSchema) Parse(e Entry) (Data, error) {
	d := Data{Pagefind: true, LastUpdated: e.LastUpdated}
	if t, ok := e.Fields["title"].(string); ok {
		d.Title = t
	}
	if len(e.Fields) > 0 {
		d.Extra = make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			d.Extra[k] = v
		}
	}
	return d, nil
}

type fieldParser struct {
	fields   map[string]any
	problems []string
}

func (p *fieldParser) problemf(format string, args ...any) {
	p.problems = append(p.problems, fmt.Sprintf(format, args...))
}

func (p *fieldParser) str(key string, required bool) string {
	return p.strFrom(p.fields, key, key, required)
}

func (p *fieldParser) strFrom(m map[string]any, key, label string, required bool) string {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			p.problemf("%s is required", label)
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.problemf("%s must be a string", label)
		return ""
	}
	if required && strings.TrimSpace(s) == "" {
		p.problemf("%s must not be empty", label)
	}
	return s
}

func (p *fieldParser) boolean(key string, def bool) bool {
	return p.boolFrom(p.fields, key, key, def)
}

func (p *fieldParser) boolFrom(m map[string]any, key, label string, def bool) bool {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		p.problemf("%s must be a boolean", label)
		return def
	}
	return b
}

func (p *fieldParser) intFrom(m map[string]any, key, label string) (int, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	p.problemf("%s must be an integer", label)
	return 0, false
}

func (p *fieldParser) sidebar() SidebarMeta {
	var meta SidebarMeta
	raw, ok := p.fields["sidebar"]
	if !ok || raw == nil {
		return meta
	}
	m, ok := asMap(raw)
	if !ok {
		p.problemf("sidebar must be a mapping")
		return meta
	}
	meta.Label = p.strFrom(m, "label", "sidebar.label", false)
	if n, ok := p.intFrom(m, "order", "sidebar.order"); ok {
		meta.Order = &n
	}
	meta.Hidden = p.boolFrom(m, "hidden", "sidebar.hidden", false)
	meta.Badge = p.badge(m["badge"])
	if attrs, ok := m["attrs"]; ok && attrs != nil {
		am, ok := asMap(attrs)
		if !ok {
			p.problemf("sidebar.attrs must be a mapping")
		} else {
			meta.Attrs = make(map[string]string, len(am))
			for k, v := range am {
				meta.Attrs[k] = fmt.Sprint(v)
			}
		}
	}
	for _, k := range sortedKeys(m) {
		switch k {
		case "label", "order", "hidden", "badge", "attrs":
		default:
			p.problemf("sidebar.%s is not a known field", k)
		}
	}
	return meta
}

func (p *fieldParser) badge(raw any) *Badge {
	switch b := raw.(type) {
	case nil:
		return nil
	case string:
		return &Badge{Text: b}
	default:
		m, ok := asMap(raw)
		if !ok {
			p.problemf("sidebar.badge must be a string or a mapping")
			return nil
		}
		out := &Badge{
			Text:    p.strFrom(m, "text", "sidebar.badge.text", true),
			Variant: p.strFrom(m, "variant", "sidebar.badge.variant", false),
		}
		if out.Variant != "" {
			if _, ok := badgeVariants[out.Variant]; !ok {
				p.problemf("sidebar.badge.variant %q is not one of note, tip, caution, danger, success, default", out.Variant)
			}
		}
		return out
	}
}

func (p *fieldParser) toc() *TableOfContents {
	raw, ok := p.fields["tableOfContents"]
	if !ok || raw == nil {
		return nil
	}
	if b, ok := raw.(bool); ok {
		if b {
			return nil
		}
		return &TableOfContents{Disabled: true}
	}
	m, ok := asMap(raw)
	if !ok {
		p.problemf("tableOfContents must be false or a mapping")
		return nil
	}
	t := &TableOfContents{MinHeadingLevel: 2, MaxHeadingLevel: 3}
	if n, ok := p.intFrom(m, "minHeadingLevel", "tableOfContents.minHeadingLevel"); ok {
		t.MinHeadingLevel = n
	}
	if n, ok := p.intFrom(m, "maxHeadingLevel", "tableOfContents.maxHeadingLevel"); ok {
		t.MaxHeadingLevel = n
	}
	if t.MinHeadingLevel < 1 || t.MaxHeadingLevel > 6 || t.MinHeadingLevel > t.MaxHeadingLevel {
		p.problemf("tableOfContents levels must satisfy 1 <= min <= max <= 6")
	}
	return t
}

// lastUpdated accepts a date, a date string, or a boolean.
func (p *fieldParser) lastUpdated() (t time.Time, set bool, disabled bool) {
	raw, ok := p.fields["lastUpdated"]
	if !ok || raw == nil {
		return time.Time{}, false, false
	}
	switch v := raw.(type) {
	case bool:
		return time.Time{}, false, !v
	case time.Time:
		return v, true, false
	case string:
		if parsed, ok := parseDate(v); ok {
			return parsed, true, false
		}
		p.problemf("lastUpdated %q is not a date", v)
	case fmt.Stringer:
		// TOML local dates decode to a value type that prints as YYYY-MM-DD.
		if parsed, ok := parseDate(v.String()); ok {
			return parsed, true, false
		}
		p.problemf("lastUpdated %q is not a date", v.String())
	default:
		p.problemf("lastUpdated must be a date or a boolean")
	}
	return time.Time{}, false, false
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
