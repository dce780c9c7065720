package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/sitecfg/internal/build"
	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Format      string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	SkipContent bool   `name:"skip-content" help:"Check the declaration only; do not load collections"`
	Strict      bool   `help:"Treat warnings as errors"`
	Duplicates  string `help:"Override the duplicate sidebar policy (warn, reject, dedupe)"`
}

type validateReport struct {
	Valid     bool           `json:"valid"`
	RunID     string         `json:"run_id,omitempty"`
	Documents map[string]int `json:"documents,omitempty"`
	Dropped   []string       `json:"dropped,omitempty"`
	Issues    site.Issues    `json:"issues"`
}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	switch site.DuplicatePolicy(v.Duplicates) {
	case "", site.DuplicatesWarn, site.DuplicatesReject, site.DuplicatesDedupe:
	default:
		return serrors.ConfigInvalid("--duplicates", fmt.Errorf("unknown policy %q (want warn, reject or dedupe)", v.Duplicates))
	}
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	res, err := assemble(context.Background(), g, cfg, func(o *build.Options) {
		o.SkipContent = v.SkipContent
		if v.Duplicates != "" {
			o.Duplicates = site.DuplicatePolicy(v.Duplicates)
		}
	})
	if res == nil {
		return err
	}

	issues := res.Issues()
	report := validateReport{
		Valid:     err == nil,
		RunID:     res.RunID(),
		Documents: res.DocumentCounts(),
		Dropped:   res.Dropped(),
		Issues:    issues,
	}
	if report.Issues == nil {
		report.Issues = site.Issues{}
	}
	if v.Strict && len(issues.Warnings()) > 0 {
		report.Valid = false
	}

	if v.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return encErr
		}
	} else {
		if perr := printIssues(g.Out, issues); perr != nil {
			return perr
		}
		if report.Valid {
			fmt.Fprintf(g.Out, "%s: valid (%d warning(s))\n", root.Config, len(issues.Warnings()))
		}
	}

	if err != nil {
		return err
	}
	if !report.Valid {
		first := issues.Warnings()[0].String()
		return serrors.ValidationFailed(len(issues.Warnings()), first).WithContext("strict", true)
	}
	return nil
}
