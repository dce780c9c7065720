package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// CollectionsCmd implements the 'collections' command.
type CollectionsCmd struct {
	Entries bool `short:"e" help:"Load the collections and list their entries"`
}

func (c *CollectionsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if !c.Entries {
		reg, err := registryFor(g, cfg)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tLOADER\tSCHEMA")
		for _, b := range reg.Bindings() {
			schema := "-"
			if b.Schema != nil {
				schema = b.Schema.Kind()
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Name, b.Loader.Expression(), schema)
		}
		return tw.Flush()
	}

	res, err := assemble(context.Background(), g, cfg, nil)
	if res == nil {
		return err
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	for _, name := range res.Registry().Names() {
		docs := res.Documents(name)
		fmt.Fprintf(tw, "%s (%d)\n", name, len(docs))
		for _, d := range docs {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d heading(s)\n", d.ID, d.Href(), d.Data.Title, len(d.Headings))
		}
	}
	if ferr := tw.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		_ = printIssues(g.Out, res.Issues())
	}
	return err
}
