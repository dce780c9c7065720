// Package collection binds named content collections to the loader that
// enumerates their documents and the schema that validates each document's
// frontmatter.
//
// Loaders and schemas are capabilities: besides loading and parsing content
// locally they describe the import and expression the generated content
// configuration must contain to bind the same capability at build time.
package collection

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/sitecfg/internal/frontmatter"
	"git.home.luguber.info/inful/sitecfg/internal/markdown"
)

var (
	ErrUnknownLoader       = errors.New("unknown loader kind")
	ErrUnknownSchema       = errors.New("unknown schema kind")
	ErrDuplicateCollection = errors.New("duplicate collection name")
)

// Import is a named ES module import, e.g. {docsLoader, @astrojs/starlight/loaders}.
type Import struct {
	Name string
	From string
}

// IsZero reports whether no import is needed.
func (i Import) IsZero() bool { return i.Name == "" }

// Entry is one source document as read from disk.
type Entry struct {
	// ID is derived from the path relative to the collection base: lowercased,
	// extension removed, spaces replaced by '-', and trailing "index" collapsed.
	ID         string
	Collection string

	// Path is the slash-separated path relative to the collection base.
	Path        string
	File        string
	Format      frontmatter.Format
	Fields      map[string]any
	Body        []byte
	Digest      string
	// StaleFingerprint is set when the frontmatter records a fingerprint
	// that no longer matches Digest.
	StaleFingerprint bool
	Headings         []markdown.Heading
	LastUpdated      time.Time
}

// Loader enumerates the entries of a collection.
type Loader interface {
	Kind() string
	Load(ctx context.Context) ([]Entry, error)
	Import() Import
	Expression() string
}

// Schema validates and coerces an entry's frontmatter.
type Schema interface {
	Kind() string
	Parse(e Entry) (Data, error)
	Import() Import
	Expression() string
}

// Binding associates a collection name with its loader and schema.
type Binding struct {
	Name   string
	Loader Loader
	Schema Schema
}

// Data is the schema-checked view of an entry's frontmatter.
type Data struct {
	Title       string
	Description string
	// Slug overrides the path-derived ID when set.
	Slug     string
	Template string
	Draft    bool
	Pagefind bool
	Sidebar  SidebarMeta
	// TableOfContents is nil when the page uses the site default.
	TableOfContents *TableOfContents
	// LastUpdated is the frontmatter date, the git date, or zero.
	LastUpdated      time.Time
	Extra       map[string]any
}

// SidebarMeta holds the per-page sidebar overrides.
type SidebarMeta struct {
	Label  string
	Order  *int
	Hidden bool
	Badge  *Badge
	Attrs  map[string]string
}

// Badge decorates a generated sidebar link.
type Badge struct {
	Text    string
	Variant string
}

// TableOfContents is a per-page override. Disabled means `tableOfContents: false`.
type TableOfContents struct {
	Disabled        bool
	MinHeadingLevel int
	MaxHeadingLevel int
}

// Document is a loaded entry with its parsed data.
type Document struct {
	Entry
	Data Data
}

// Slug returns the public slug of the document.
func (d Document) Slug() string {
	if d.Data.Slug != "" {
		return d.Data.Slug
	}
	return d.ID
}

// Href returns the site-absolute link to the document, e.g. "/guides/example/".
func (d Document) Href() string {
	s := d.Slug()
	if s == "" {
		return "/"
	}
	return "/" + s + "/"
}

// Label is the sidebar label override or the title.
func (d Document) Label() string {
	if d.Data.Sidebar.Label != "" {
		return d.Data.Sidebar.Label
	}
	return d.Data.Title
}
