package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// GlobLoader reads files under Dir whose base-relative path matches Pattern.
// Base is the directory as written in the site configuration and is only
// used for the generated loader expression.
type GlobLoader struct {
	Pattern    string
	Base       string
	Dir        string
	Collection string
	History    HistorySource
	Logger     *slog.Logger
}

func (l *GlobLoader) Kind() string { return "glob" }

func (l *GlobLoader) Import() Import { return Import{Name: "glob", From: "astro/loaders"} }

func (l *GlobLoader) Expression() string {
	pattern, _ := json.Marshal(l.Pattern)
	base, _ := json.Marshal(l.Base)
	return fmt.Sprintf("glob({ pattern: %s, base: %s })", pattern, base)
}

func (l *GlobLoader) Load(ctx context.Context) ([]Entry, error) {
	patterns := ExpandBraces(l.Pattern)
	return walkEntries(ctx, walkSpec{
		dir:        l.Dir,
		collection: l.Collection,
		history:    l.History,
		logger:     l.Logger,
		match: func(rel string) bool {
			for _, p := range patterns {
				if MatchGlob(p, rel) {
					return true
				}
			}
			return false
		},
	})
}
