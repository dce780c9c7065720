package sidebar

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// Print writes nodes as an indented tree, one entry per line:
//
//	Getting Started  /getting-started/
//	Guides/
//	  Enum values  /guides/enum-values/
func Print(w io.Writer, nodes []site.NavNode) error {
	var err error
	site.Walk("sidebar", nodes, func(_ string, depth int, n *site.NavNode) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintln(w, strings.Repeat("  ", depth)+describe(n))
		return true
	})
	return err
}

func describe(n *site.NavNode) string {
	var b strings.Builder
	label := n.Label
	switch n.Kind() {
	case site.KindGroup:
		b.WriteString(label + "/")
		if n.Collapsed {
			b.WriteString(" (collapsed)")
		}
	case site.KindAutogenerate:
		fmt.Fprintf(&b, "%s/ <autogenerate %s>", label, n.Autogenerate.Directory)
	case site.KindSlug:
		if label == "" {
			label = n.Slug
		}
		fmt.Fprintf(&b, "%s  slug:%s", label, n.Slug)
	case site.KindLink:
		fmt.Fprintf(&b, "%s  %s", label, n.Link)
	default:
		fmt.Fprintf(&b, "%s  <invalid>", label)
	}
	if n.Badge != nil {
		fmt.Fprintf(&b, " [%s]", n.Badge.Text)
	}
	return b.String()
}
