package sidebar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitecfg/internal/collection"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

func doc(path, title string, mutate ...func(*collection.Data)) collection.Document {
	d := collection.Document{
		Entry: collection.Entry{ID: collection.DeriveID(path), Collection: "docs", Path: path},
		Data:  collection.Data{Title: title, Template: "doc", Pagefind: true},
	}
	for _, m := range mutate {
		m(&d.Data)
	}
	return d
}

func order(n int) func(*collection.Data) {
	return func(d *collection.Data) { d.Sidebar.Order = &n }
}

func fixtureDocs() []collection.Document {
	return []collection.Document{
		doc("index.mdx", "go-gen-jsonschema"),
		doc("getting-started.md", "Getting Started"),
		doc("guides/index.md", "Guides", func(d *collection.Data) { d.Sidebar.Hidden = true }),
		doc("guides/writing-schemas.md", "Writing Schemas", order(2), func(d *collection.Data) {
			d.Sidebar.Label = "Schemas"
			d.Sidebar.Badge = &collection.Badge{Text: "New", Variant: "tip"}
		}),
		doc("guides/Enum Values.md", "Enum values", order(1)),
		doc("guides/draft.md", "Unfinished", func(d *collection.Data) { d.Draft = true }),
		doc("guides/advanced/interfaces.md", "Interfaces"),
		doc("guides/advanced/arrays.md", "arrays"),
		doc("guides/zeta.md", "zeta"),
		doc("guides/Alpha.md", "Alpha"),
	}
}

func TestResolveAutogenerate(t *testing.T) {
	nodes := []site.NavNode{site.AutoGroup("Guides", "guides")}
	out, issues := Resolve(nodes, fixtureDocs(), Options{})
	require.Empty(t, issues)

	require.Len(t, out, 1)
	g := out[0]
	require.Equal(t, site.KindGroup, g.Kind())
	require.Equal(t, "Guides", g.Label)

	var labels []string
	for _, n := range g.Items {
		labels = append(labels, n.Label)
	}
	require.Equal(t, []string{"Enum values", "Schemas", "advanced", "Alpha", "zeta"}, labels)
	require.Equal(t, "/guides/enum-values/", g.Items[0].Link)
	require.Equal(t, &site.Badge{Text: "New", Variant: "tip"}, g.Items[1].Badge)

	adv := g.Items[2]
	require.Equal(t, site.KindGroup, adv.Kind())
	require.Equal(t, "arrays", adv.Items[0].Label)
	require.Equal(t, "Interfaces", adv.Items[1].Label)

	require.Equal(t, site.KindAutogenerate, nodes[0].Kind(), "input must not be modified")
}

func TestResolveIncludeDrafts(t *testing.T) {
	out, _ := Resolve([]site.NavNode{site.AutoGroup("Guides", "guides")}, fixtureDocs(), Options{IncludeDrafts: true})
	var found bool
	for _, n := range out[0].Items {
		if n.Label == "Unfinished" {
			found = true
		}
	}
	require.True(t, found)
}

func TestResolveCollapsedPropagates(t *testing.T) {
	n := site.AutoGroup("Guides", "guides")
	n.Autogenerate.Collapsed = true
	out, _ := Resolve([]site.NavNode{n}, fixtureDocs(), Options{})
	require.True(t, out[0].Collapsed)
	require.True(t, out[0].Items[2].Collapsed)
}

func TestResolveSlugLinks(t *testing.T) {
	nodes := []site.NavNode{
		site.SlugLink("", "getting-started"),
		site.SlugLink("Start here", "getting-started"),
		site.Group("Overview", site.SlugLink("", ""), site.SlugLink("", "missing")),
	}
	out, issues := Resolve(nodes, fixtureDocs(), Options{})

	require.Equal(t, site.Link("Getting Started", "/getting-started/"), out[0])
	require.Equal(t, site.Link("Start here", "/getting-started/"), out[1])
	require.Equal(t, site.KindSlug, out[2].Items[1].Kind())

	require.Len(t, issues, 1)
	require.Equal(t, site.SeverityError, issues[0].Severity)
	require.Equal(t, "sidebar[2].items[1]", issues[0].Path)
}

func TestResolveEmptyDirectoryWarns(t *testing.T) {
	out, issues := Resolve([]site.NavNode{site.AutoGroup("Ref", "reference")}, fixtureDocs(), Options{})
	require.Equal(t, site.KindGroup, out[0].Kind())
	require.Empty(t, out[0].Items)
	require.Len(t, issues.Warnings(), 1)
}

func TestUnresolved(t *testing.T) {
	nodes := []site.NavNode{site.SlugLink("", "getting-started"), site.Group("G", site.SlugLink("", "nope"))}
	idx := collection.NewIndex(fixtureDocs())
	require.Equal(t, []string{"sidebar[1].items[0]"}, Unresolved(nodes, idx))
}

func TestPrint(t *testing.T) {
	nodes := []site.NavNode{
		site.Link("Getting Started", "/getting-started/"),
		site.Group("Overview", site.SlugLink("", "spec")),
		site.AutoGroup("Guides", "guides"),
	}
	nodes[0].Badge = &site.Badge{Text: "New"}
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, nodes))
	require.Equal(t, "Getting Started  /getting-started/ [New]\nOverview/\n  spec  slug:spec\nGuides/ <autogenerate guides>\n", buf.String())
}

func TestResolvedTreeRepeatsLabels(t *testing.T) {
	docs := []collection.Document{
		doc("getting-started.md", "Getting Started"),
		doc("guides/a.md", "Intro"),
		doc("guides/b.md", "Intro"),
	}
	nodes := []site.NavNode{
		site.Link("Getting Started", "/getting-started/"),
		site.SlugLink("", "getting-started"),
		site.AutoGroup("Guides", "guides"),
	}
	require.Empty(t, site.Validate(&site.Config{Sidebar: nodes}, site.Options{}).Errors())

	out, issues := Resolve(nodes, docs, Options{})
	require.Empty(t, issues)

	found := site.ValidateResolved(out, site.DuplicatesWarn)
	require.Len(t, found, 2, found.Summary())
	require.Equal(t, site.SeverityError, found[0].Severity)
	require.Equal(t, "sidebar[2].items[1]", found[0].Path)
	require.Equal(t, site.SeverityWarning, found[1].Severity)
	require.Equal(t, "sidebar[1]", found[1].Path)

	found = site.ValidateResolved(out, site.DuplicatesReject)
	require.Len(t, found.Errors(), 2)
}
