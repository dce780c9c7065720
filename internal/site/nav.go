package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the NavNode variants.
type Kind int

const (
	KindInvalid Kind = iota
	// KindLink is a link with an explicit target path or URL.
	KindLink
	// KindSlug is a link to a document in the docs collection, addressed by slug.
	KindSlug
	// KindGroup is a labeled group with explicit children.
	KindGroup
	// KindAutogenerate is a group whose children are derived from a content directory.
	KindAutogenerate
)

func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindSlug:
		return "slug"
	case KindGroup:
		return "group"
	case KindAutogenerate:
		return "autogenerate"
	default:
		return "invalid"
	}
}

// NavNode is one sidebar entry. Exactly one of Link, Slug, Items or
// Autogenerate determines its kind; Items is non-nil for groups even when empty.
type NavNode struct {
	Label        string
	Link         string
	Slug         string
	Items        []NavNode
	Autogenerate *Autogenerate
	Collapsed    bool
	Badge        *Badge
	Attrs        map[string]string
}

// Autogenerate asks for a group's children to be derived from Directory.
type Autogenerate struct {
	Directory string `yaml:"directory" json:"directory"`
	Collapsed bool   `yaml:"collapsed,omitempty" json:"collapsed,omitempty"`
}

// Badge decorates a sidebar entry. It decodes from a bare string or an object.
type Badge struct {
	Text    string `yaml:"text" json:"text"`
	Variant string `yaml:"variant,omitempty" json:"variant,omitempty"`
}

// Link returns a link node.
func Link(label, href string) NavNode { return NavNode{Label: label, Link: href} }

// SlugLink returns a link node addressing a document by slug. The label may be empty.
func SlugLink(label, slug string) NavNode { return NavNode{Label: label, Slug: slug} }

// Group returns a group node with explicit children.
func Group(label string, items ...NavNode) NavNode {
	if items == nil {
		items = []NavNode{}
	}
	return NavNode{Label: label, Items: items}
}

// AutoGroup returns a group node derived from a content directory.
func AutoGroup(label, directory string) NavNode {
	return NavNode{Label: label, Autogenerate: &Autogenerate{Directory: directory}}
}

// Kind reports the variant. Nodes with conflicting fields report KindInvalid.
func (n NavNode) Kind() Kind {
	if n.variantCount() != 1 {
		return KindInvalid
	}
	switch {
	case n.Autogenerate != nil:
		return KindAutogenerate
	case n.Items != nil:
		return KindGroup
	case n.Slug != "":
		return KindSlug
	default:
		return KindLink
	}
}

func (n NavNode) variantCount() int {
	c := 0
	if n.Link != "" {
		c++
	}
	if n.Slug != "" {
		c++
	}
	if n.Items != nil {
		c++
	}
	if n.Autogenerate != nil {
		c++
	}
	return c
}

// IsGroup reports whether n is an explicit or autogenerated group.
func (n NavNode) IsGroup() bool {
	k := n.Kind()
	return k == KindGroup || k == KindAutogenerate
}

// Key is the identity used for uniqueness checks among siblings: the label,
// or "slug:<slug>" for unlabeled slug links.
func (n NavNode) Key() string {
	if l := strings.TrimSpace(n.Label); l != "" {
		return l
	}
	if n.Slug != "" {
		return "slug:" + n.Slug
	}
	return ""
}

// Clone returns a deep copy of n.
func (n NavNode) Clone() NavNode {
	out := n
	if n.Items != nil {
		out.Items = CloneNodes(n.Items)
	}
	if n.Autogenerate != nil {
		a := *n.Autogenerate
		out.Autogenerate = &a
	}
	if n.Badge != nil {
		b := *n.Badge
		out.Badge = &b
	}
	out.Attrs = cloneMap(n.Attrs)
	return out
}

// CloneNodes deep-copies a node slice, preserving nil vs empty.
func CloneNodes(in []NavNode) []NavNode {
	if in == nil {
		return nil
	}
	out := make([]NavNode, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}

// Walk visits nodes depth-first in declaration order. path is the
// dotted location used in diagnostics, e.g. "sidebar[3].items[0]".
// Returning false from fn skips the node's children.
func Walk(prefix string, nodes []NavNode, fn func(path string, depth int, n *NavNode) bool) {
	walk(prefix, 0, nodes, fn)
}

func walk(prefix string, depth int, nodes []NavNode, fn func(string, int, *NavNode) bool) {
	for i := range nodes {
		p := fmt.Sprintf("%s[%d]", prefix, i)
		if fn(p, depth, &nodes[i]) && nodes[i].Items != nil {
			walk(p+".items", depth+1, nodes[i].Items, fn)
		}
	}
}

// navWire is the serialized shape shared by both codecs. Items is a pointer so
// that an empty group survives a round trip as `items: []`.
type navWire struct {
	Label        string            `yaml:"label,omitempty" json:"label,omitempty"`
	Link         string            `yaml:"link,omitempty" json:"link,omitempty"`
	Slug         string            `yaml:"slug,omitempty" json:"slug,omitempty"`
	Items        *[]NavNode        `yaml:"items,omitempty" json:"items,omitempty"`
	Autogenerate *Autogenerate     `yaml:"autogenerate,omitempty" json:"autogenerate,omitempty"`
	Collapsed    bool              `yaml:"collapsed,omitempty" json:"collapsed,omitempty"`
	Badge        *Badge            `yaml:"badge,omitempty" json:"badge,omitempty"`
	Attrs        map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

var navKeys = map[string]struct{}{
	"label": {}, "link": {}, "slug": {}, "items": {}, "autogenerate": {},
	"collapsed": {}, "badge": {}, "attrs": {},
}

func (n NavNode) wire() navWire {
	w := navWire{
		Label:        n.Label,
		Link:         n.Link,
		Slug:         n.Slug,
		Autogenerate: n.Autogenerate,
		Collapsed:    n.Collapsed,
		Badge:        n.Badge,
		Attrs:        n.Attrs,
	}
	if n.Items != nil {
		items := n.Items
		w.Items = &items
	}
	return w
}

func fromWire(w navWire) (NavNode, error) {
	n := NavNode{
		Label:        w.Label,
		Link:         w.Link,
		Slug:         w.Slug,
		Autogenerate: w.Autogenerate,
		Collapsed:    w.Collapsed,
		Badge:        w.Badge,
		Attrs:        w.Attrs,
	}
	if w.Items != nil {
		n.Items = *w.Items
		if n.Items == nil {
			n.Items = []NavNode{}
		}
	}
	switch n.variantCount() {
	case 0:
		return NavNode{}, fmt.Errorf("sidebar entry %q needs one of link, slug, items or autogenerate", n.Label)
	case 1:
		return n, nil
	default:
		return NavNode{}, fmt.Errorf("sidebar entry %q mixes %s", n.Label, strings.Join(n.setVariants(), " and "))
	}
}

func (n NavNode) setVariants() []string {
	var out []string
	if n.Link != "" {
		out = append(out, "link")
	}
	if n.Slug != "" {
		out = append(out, "slug")
	}
	if n.Items != nil {
		out = append(out, "items")
	}
	if n.Autogenerate != nil {
		out = append(out, "autogenerate")
	}
	return out
}

// MarshalYAML implements yaml.Marshaler.
func (n NavNode) MarshalYAML() (any, error) {
	return n.wire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. A bare string is shorthand for a slug link.
func (n *NavNode) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var slug string
		if err := value.Decode(&slug); err != nil {
			return err
		}
		*n = SlugLink("", slug)
		return nil
	case yaml.MappingNode:
		var unknown []string
		for i := 0; i+1 < len(value.Content); i += 2 {
			if _, ok := navKeys[value.Content[i].Value]; !ok {
				unknown = append(unknown, value.Content[i].Value)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return fmt.Errorf("line %d: unknown sidebar field(s) %s", value.Line, strings.Join(unknown, ", "))
		}
		var w navWire
		if err := value.Decode(&w); err != nil {
			return err
		}
		node, err := fromWire(w)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*n = node
		return nil
	default:
		return fmt.Errorf("line %d: sidebar entry must be a mapping or a slug string", value.Line)
	}
}

// MarshalJSON implements json.Marshaler.
func (n NavNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.wire())
}

// UnmarshalJSON implements json.Unmarshaler. A bare string is shorthand for a slug link.
func (n *NavNode) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var slug string
		if err := json.Unmarshal(trimmed, &slug); err != nil {
			return err
		}
		*n = SlugLink("", slug)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	var w navWire
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("sidebar entry: %w", err)
	}
	node, err := fromWire(w)
	if err != nil {
		return err
	}
	*n = node
	return nil
}

// UnmarshalYAML accepts `badge: New` as well as `badge: {text: New, variant: tip}`.
func (b *Badge) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		b.Variant = ""
		return value.Decode(&b.Text)
	}
	type plain Badge
	return value.Decode((*plain)(b))
}

// UnmarshalJSON accepts a bare string or an object.
func (b *Badge) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		b.Variant = ""
		return json.Unmarshal(trimmed, &b.Text)
	}
	type plain Badge
	return json.Unmarshal(trimmed, (*plain)(b))
}
