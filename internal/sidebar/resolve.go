// Package sidebar resolves a declared navigation tree against the loaded
// docs collection: autogenerate groups are expanded from content directories
// and slug links are turned into concrete links.
package sidebar

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitecfg/internal/collection"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// Options control resolution.
type Options struct {
	// IncludeDrafts keeps draft pages in generated groups.
	IncludeDrafts bool
	// Language selects the collation used to order generated links.
	Language language.Tag
}

// Resolver expands sidebars against one set of documents.
type Resolver struct {
	docs     []collection.Document
	index    collection.Index
	opts     Options
	collator *collate.Collator
}

// NewResolver indexes docs for resolution.
func NewResolver(docs []collection.Document, opts Options) *Resolver {
	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}
	return &Resolver{
		docs:     docs,
		index:    collection.NewIndex(docs),
		opts:     opts,
		collator: collate.New(tag, collate.IgnoreCase, collate.Numeric),
	}
}

// Resolve returns a copy of nodes with every autogenerate group expanded and
// every slug link replaced by a link. Unknown slugs are errors; directories
// without visible pages are warnings. nodes is not modified.
func Resolve(nodes []site.NavNode, docs []collection.Document, opts Options) ([]site.NavNode, site.Issues) {
	return NewResolver(docs, opts).Resolve(nodes)
}

// Resolve is the method form of Resolve.
func (r *Resolver) Resolve(nodes []site.NavNode) ([]site.NavNode, site.Issues) {
	rep := issueSink{}
	out := r.resolveList("sidebar", nodes, &rep)
	return out, rep.issues
}

// Unresolved returns the paths of slug links naming no document.
func Unresolved(nodes []site.NavNode, idx collection.Index) []string {
	var out []string
	site.Walk("sidebar", nodes, func(p string, _ int, n *site.NavNode) bool {
		if n.Kind() == site.KindSlug {
			if _, ok := idx[n.Slug]; !ok {
				out = append(out, p)
			}
		}
		return true
	})
	return out
}

type issueSink struct {
	issues site.Issues
}

func (s *issueSink) add(sev site.Severity, p, format string, args ...any) {
	s.issues = append(s.issues, site.Issue{Severity: sev, Rule: "sidebar_resolve", Path: p, Message: fmt.Sprintf(format, args...)})
}

func (r *Resolver) resolveList(prefix string, nodes []site.NavNode, rep *issueSink) []site.NavNode {
	if nodes == nil {
		return nil
	}
	out := make([]site.NavNode, 0, len(nodes))
	for i, n := range nodes {
		p := fmt.Sprintf("%s[%d]", prefix, i)
		switch n.Kind() {
		case site.KindSlug:
			doc, ok := r.index[n.Slug]
			if !ok {
				rep.add(site.SeverityError, p, "slug %q does not name a page in the docs collection", n.Slug)
				out = append(out, n.Clone())
				continue
			}
			link := n.Clone()
			link.Slug = ""
			link.Link = doc.Href()
			if link.Label == "" {
				link.Label = doc.Label()
			}
			if link.Badge == nil {
				link.Badge = badgeFor(doc)
			}
			out = append(out, link)
		case site.KindGroup:
			g := n.Clone()
			g.Items = r.resolveList(p+".items", n.Items, rep)
			out = append(out, g)
		case site.KindAutogenerate:
			g := n.Clone()
			dir := n.Autogenerate.Directory
			g.Autogenerate = nil
			g.Collapsed = n.Collapsed || n.Autogenerate.Collapsed
			g.Items = r.generate(dir, n.Autogenerate.Collapsed)
			if len(g.Items) == 0 {
				rep.add(site.SeverityWarning, p, "directory %q has no visible pages", dir)
			}
			out = append(out, g)
		default:
			out = append(out, n.Clone())
		}
	}
	return out
}

// tree is an intermediate directory tree built before ordering.
type tree struct {
	name     string
	docs     []collection.Document
	children map[string]*tree
}

func (r *Resolver) generate(dir string, collapsed bool) []site.NavNode {
	dir = strings.Trim(path.Clean(dir), "/")
	root := &tree{children: map[string]*tree{}}
	for _, d := range r.docs {
		if d.Data.Sidebar.Hidden || (d.Data.Draft && !r.opts.IncludeDrafts) {
			continue
		}
		rel, ok := strings.CutPrefix(d.Path, dir+"/")
		if !ok && dir != "." {
			continue
		}
		if dir == "." {
			rel = d.Path
		}
		segs := strings.Split(rel, "/")
		t := root
		for _, s := range segs[:len(segs)-1] {
			child, ok := t.children[s]
			if !ok {
				child = &tree{name: s, children: map[string]*tree{}}
				t.children[s] = child
			}
			t = child
		}
		t.docs = append(t.docs, d)
	}
	return r.emit(root, collapsed)
}

// sortable pairs an emitted node with its sort keys.
type sortable struct {
	node  site.NavNode
	order *int
	label string
}

func (r *Resolver) emit(t *tree, collapsed bool) []site.NavNode {
	items := make([]sortable, 0, len(t.docs)+len(t.children))
	for _, d := range t.docs {
		items = append(items, sortable{
			node: site.NavNode{
				Label: d.Label(),
				Link:  d.Href(),
				Badge: badgeFor(d),
				Attrs: cloneAttrs(d.Data.Sidebar.Attrs),
			},
			order: d.Data.Sidebar.Order,
			label: d.Label(),
		})
	}
	for _, child := range t.children {
		sub := r.emit(child, collapsed)
		if len(sub) == 0 {
			continue
		}
		g := site.Group(child.name, sub...)
		g.Collapsed = collapsed
		items = append(items, sortable{node: g, order: lowestOrder(child), label: child.name})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.order != nil && b.order != nil && *a.order != *b.order:
			return *a.order < *b.order
		case a.order != nil && b.order == nil:
			return true
		case a.order == nil && b.order != nil:
			return false
		}
		if c := r.collator.CompareString(a.label, b.label); c != 0 {
			return c < 0
		}
		return a.node.Link < b.node.Link
	})
	out := make([]site.NavNode, len(items))
	for i, it := range items {
		out[i] = it.node
	}
	return out
}

// lowestOrder is the smallest explicit order among a directory's pages.
func lowestOrder(t *tree) *int {
	var best *int
	for _, d := range t.docs {
		if o := d.Data.Sidebar.Order; o != nil && (best == nil || *o < *best) {
			best = o
		}
	}
	for _, c := range t.children {
		if o := lowestOrder(c); o != nil && (best == nil || *o < *best) {
			best = o
		}
	}
	return best
}

func badgeFor(d collection.Document) *site.Badge {
	b := d.Data.Sidebar.Badge
	if b == nil {
		return nil
	}
	return &site.Badge{Text: b.Text, Variant: b.Variant}
}

func cloneAttrs(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
