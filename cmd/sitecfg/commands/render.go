package commands

import (
	"bytes"
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitecfg/internal/build"
	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/render"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Output  string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	Formats string `short:"f" help:"Comma-separated formats: mjs, content, json, yaml (overrides output.formats)"`
	Resolve bool   `help:"Expand autogenerate sidebar groups in the emitted config"`
	Stdout  bool   `help:"Write a single format to stdout instead of files"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	formats, err := cfg.OutputFormats()
	if err != nil {
		return serrors.ConfigInvalid(root.Config, err)
	}
	if r.Formats != "" {
		if formats, err = render.ParseFormats(r.Formats); err != nil {
			return serrors.ConfigInvalid("--formats", err)
		}
	}
	if r.Stdout && len(formats) != 1 {
		return serrors.ConfigInvalid("--stdout", fmt.Errorf("exactly one format is required, got %d", len(formats)))
	}

	ctx := context.Background()
	res, err := assemble(ctx, g, cfg, func(o *build.Options) {
		if r.Resolve {
			o.ResolveSidebar = true
		}
	})
	if err != nil {
		if res != nil {
			_ = printIssues(g.Out, res.Issues())
		}
		return err
	}
	if warnings := res.Issues().Warnings(); len(warnings) > 0 {
		for _, w := range warnings {
			g.Logger.Warn(w.Message, "path", w.Path, "rule", w.Rule)
		}
	}

	if r.Stdout {
		return writeOne(g, res, formats[0])
	}

	dir := cfg.OutputDir()
	if r.Output != "" {
		dir = r.Output
	}
	emitter := &render.Emitter{
		Dir:     dir,
		Formats: formats,
		Header:  "Generated by sitecfg from " + root.Config + ". Do not edit.",
		Logger:  g.Logger,
	}
	paths, err := emitter.Emit(ctx, res)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(g.Out, p)
	}
	return nil
}

func writeOne(g *Global, res *build.Result, f render.Format) error {
	var buf bytes.Buffer
	var err error
	cfg := res.Site()
	if res.Resolved() {
		cfg.Sidebar = res.Sidebar()
	}
	switch f {
	case render.FormatAstro:
		err = render.WriteAstroConfig(&buf, cfg, render.AstroOptions{})
	case render.FormatContent:
		err = render.WriteContentConfig(&buf, res.Registry())
	case render.FormatJSON:
		err = render.WriteJSON(&buf, cfg)
	case render.FormatYAML:
		err = render.WriteYAML(&buf, cfg)
	}
	if err != nil {
		return serrors.RenderFailed(string(f), err)
	}
	_, err = g.Out.Write(buf.Bytes())
	return err
}
