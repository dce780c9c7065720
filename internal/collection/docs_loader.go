package collection

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/frontmatter"
	"git.home.luguber.info/inful/sitecfg/internal/frontmatterops"
	"git.home.luguber.info/inful/sitecfg/internal/logfields"
	"git.home.luguber.info/inful/sitecfg/internal/markdown"
)

// DocsExtensions are the file extensions the docs loader reads.
var DocsExtensions = []string{".md", ".mdx", ".mdoc"}

// HistorySource provides last-modified times for files.
type HistorySource interface {
	LastUpdated(ctx context.Context, file string) (t time.Time, ok bool, err error)
}

// DocsLoader reads Markdown documents from the docs content directory.
type DocsLoader struct {
	// Dir is the filesystem directory to walk.
	Dir        string
	Collection string
	// History fills Entry.LastUpdated when set.
	History HistorySource
	Logger  *slog.Logger
}

func (l *DocsLoader) Kind() string { return "docs" }

func (l *DocsLoader) Import() Import {
	return Import{Name: "docsLoader", From: "@astrojs/starlight/loaders"}
}

func (l *DocsLoader) Expression() string { return "docsLoader()" }

// Load walks Dir. A missing directory yields an empty collection.
func (l *DocsLoader) Load(ctx context.Context) ([]Entry, error) {
	return walkEntries(ctx, walkSpec{
		dir:        l.Dir,
		collection: l.Collection,
		history:    l.History,
		logger:     l.Logger,
		match: func(rel string) bool {
			return hasExtension(rel, DocsExtensions)
		},
	})
}

type walkSpec struct {
	dir        string
	collection string
	history    HistorySource
	logger     *slog.Logger
	match      func(rel string) bool
}

func walkEntries(ctx context.Context, ws walkSpec) ([]Entry, error) {
	logger := loggerOrDefault(ws.logger)
	info, err := os.Stat(ws.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Debug("Collection directory does not exist", logfields.Collection(ws.collection), logfields.Directory(ws.dir))
			return []Entry{}, nil
		}
		return nil, serrors.LoaderFailed(ws.collection, err)
	}
	if !info.IsDir() {
		return nil, serrors.LoaderFailed(ws.collection, fmt.Errorf("%s is not a directory", ws.dir))
	}

	var files []string
	err = filepath.WalkDir(ws.dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != ws.dir && skipName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(ws.dir, p)
		if err != nil {
			return err
		}
		if ws.match(filepath.ToSlash(rel)) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, serrors.LoaderFailed(ws.collection, err)
	}
	sort.Strings(files)

	entries := make([]Entry, 0, len(files))
	ids := make(map[string]string, len(files))
	for _, file := range files {
		e, err := readEntry(ctx, ws, file)
		if err != nil {
			return nil, err
		}
		if prev, dup := ids[e.ID]; dup {
			return nil, serrors.LoaderFailed(ws.collection, fmt.Errorf("entries %s and %s share id %q", prev, e.Path, e.ID))
		}
		ids[e.ID] = e.Path
		entries = append(entries, e)
	}
	logger.Debug("Loaded collection", logfields.Collection(ws.collection), logfields.Documents(len(entries)))
	return entries, nil
}

func readEntry(ctx context.Context, ws walkSpec, file string) (Entry, error) {
	rel, err := filepath.Rel(ws.dir, file)
	if err != nil {
		return Entry{}, serrors.LoaderFailed(ws.collection, err)
	}
	rel = filepath.ToSlash(rel)

	// #nosec G304 -- file comes from walking the configured content directory.
	content, err := os.ReadFile(file)
	if err != nil {
		return Entry{}, serrors.LoaderFailed(ws.collection, err).WithContext("file", rel)
	}
	fm, body, format, err := frontmatter.Split(content)
	if err != nil {
		return Entry{}, serrors.LoaderFailed(ws.collection, err).WithContext("file", rel)
	}
	fields, err := frontmatter.Parse(fm, format)
	if err != nil {
		return Entry{}, serrors.LoaderFailed(ws.collection, err).WithContext("file", rel)
	}
	digest, err := frontmatterops.ComputeFingerprint(fields, body)
	if err != nil {
		return Entry{}, serrors.LoaderFailed(ws.collection, err).WithContext("file", rel)
	}

	e := Entry{
		ID:         DeriveID(rel),
		Collection: ws.collection,
		Path:       rel,
		File:       file,
		Format:     format,
		Fields:     fields,
		Body:       body,
		Digest:     digest,
		Headings:   markdown.ExtractHeadings(body),

		StaleFingerprint: frontmatterops.Stale(fields, digest),
	}
	if ws.history != nil {
		t, ok, err := ws.history.LastUpdated(ctx, file)
		switch {
		case err != nil:
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return Entry{}, err
			}
			loggerOrDefault(ws.logger).Warn("Could not read git history", logfields.File(rel), logfields.Error(err))
		case ok:
			e.LastUpdated = t
		}
	}
	return e, nil
}

// DeriveID turns a base-relative path into an entry ID: the extension is
// dropped, each segment is slugified, and a trailing "index" segment collapses
// into its directory ("guides/index.md" -> "guides", "index.md" -> "").
func DeriveID(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	segs := strings.Split(rel, "/")
	out := segs[:0]
	for _, s := range segs {
		if slug := markdown.Slugify(s); slug != "" {
			out = append(out, slug)
		}
	}
	if n := len(out); n > 0 && out[n-1] == "index" {
		out = out[:n-1]
	}
	return strings.Join(out, "/")
}

// skipName hides dotfiles and underscore-prefixed partials.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func hasExtension(rel string, exts []string) bool {
	ext := strings.ToLower(path.Ext(rel))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
