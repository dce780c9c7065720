package commands

import (
	"context"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitecfg/internal/build"
	"git.home.luguber.info/inful/sitecfg/internal/sidebar"
)

// SidebarCmd implements the 'sidebar' command.
type SidebarCmd struct {
	Resolve bool   `short:"r" help:"Expand autogenerate groups from the docs collection"`
	Drafts  bool   `help:"Include draft pages in generated groups"`
	Format  string `short:"f" default:"text" help:"Output format (text, json or yaml)" enum:"text,json,yaml"`
}

func (s *SidebarCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	res, err := assemble(context.Background(), g, cfg, func(o *build.Options) {
		o.SkipContent = !s.Resolve
		o.ResolveSidebar = s.Resolve
		o.IncludeDrafts = o.IncludeDrafts || s.Drafts
	})
	if err != nil {
		if res != nil {
			_ = printIssues(g.Out, res.Issues())
		}
		return err
	}

	nodes := res.Sidebar()
	switch s.Format {
	case "json":
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	case "yaml":
		enc := yaml.NewEncoder(g.Out)
		enc.SetIndent(2)
		if err := enc.Encode(nodes); err != nil {
			return err
		}
		return enc.Close()
	default:
		return sidebar.Print(g.Out, nodes)
	}
}
