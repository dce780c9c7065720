package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitecfg/internal/collection"
	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/logfields"
	"git.home.luguber.info/inful/sitecfg/internal/metrics"
	"git.home.luguber.info/inful/sitecfg/internal/sidebar"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// DocsCollection is the collection every site must declare.
const DocsCollection = "docs"

// Options provides optional assembly behavior modifiers.
type Options struct {
	// Duplicates selects how repeated top-level sidebar sections are handled.
	Duplicates site.DuplicatePolicy

	// SkipContent validates the declaration only; collections are not loaded
	// and sidebar references are not checked.
	SkipContent bool

	// CheckSlugs reports slug links that name no docs page.
	CheckSlugs bool

	// ResolveSidebar expands autogenerate groups into the result sidebar.
	ResolveSidebar bool

	// IncludeDrafts keeps draft pages in generated sidebar groups.
	IncludeDrafts bool

	// AssetRoot, when set, checks that logo and stylesheet files exist below it.
	AssetRoot string

	// Language selects the collation used to order generated sidebar groups.
	Language language.Tag
}

// Emitter writes an assembled result somewhere. It returns the paths written.
type Emitter interface {
	Emit(ctx context.Context, res *Result) ([]string, error)
}

// Assembler produces a Result from a site definition and its collections.
type Assembler struct {
	site     *site.Config
	registry *collection.Registry
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// NewAssembler creates an Assembler with the given inputs. cfg is cloned at
// the start of every run, so later changes by the caller are not observed
// by runs already in progress.
func NewAssembler(cfg *site.Config, registry *collection.Registry, opts Options) *Assembler {
	return &Assembler{
		site:     cfg,
		registry: registry,
		opts:     opts,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
}

// WithLogger sets the logger used for run diagnostics.
func (a *Assembler) WithLogger(l *slog.Logger) *Assembler {
	if l != nil {
		a.logger = l
	}
	return a
}

// WithRecorder injects a metrics recorder.
func (a *Assembler) WithRecorder(r metrics.Recorder) *Assembler {
	if r != nil {
		a.recorder = r
	}
	return a
}

// Assemble runs validation and loading. When the site has error-level
// findings, the Result is still returned together with a validation error
// so callers can report every issue.
func (a *Assembler) Assemble(ctx context.Context) (*Result, error) {
	start := a.now()
	runID := uuid.NewString()
	log := a.logger.With(logfields.RunID(runID))

	res, err := a.assemble(ctx, log, runID)
	d := a.now().Sub(start)
	if res != nil {
		res.StartTime = start
		res.Duration = d
	}
	a.recorder.ObserveAssemble(d, metrics.OutcomeOf(err))

	switch {
	case err == nil:
		log.Info("Site assembled",
			logfields.Issues(len(res.issues)),
			logfields.Elapsed(d))
	case serrors.IsCategory(err, serrors.CategoryValidation):
		log.Warn("Site configuration has errors",
			logfields.Issues(len(res.issues.Errors())),
			logfields.Elapsed(d))
	default:
		log.Error("Site assembly failed", logfields.Error(err), logfields.Elapsed(d))
	}
	return res, err
}

func (a *Assembler) assemble(ctx context.Context, log *slog.Logger, runID string) (*Result, error) {
	if a.site == nil {
		return nil, serrors.ConfigRequired("site")
	}
	if a.registry == nil {
		return nil, serrors.ConfigRequired("collections")
	}
	cfg := a.site.Clone()

	policy := a.opts.Duplicates
	if policy == "" {
		policy = site.DuplicatesWarn
	}
	res := &Result{runID: runID, status: StatusSuccess, site: cfg, registry: a.registry}

	if policy == site.DuplicatesDedupe {
		cfg.Sidebar, res.dropped = site.Dedupe(cfg.Sidebar)
		for _, label := range res.dropped {
			log.Info("Dropped duplicate sidebar section", logfields.Label(label))
		}
	}

	issues := site.Validate(cfg, site.Options{Duplicates: policy, AssetRoot: a.opts.AssetRoot})

	if _, err := a.registry.Require(DocsCollection); err != nil {
		return nil, err
	}

	if !a.opts.SkipContent {
		docs, problems, err := a.loadAll(ctx, log)
		if err != nil {
			return nil, err
		}
		res.documents = docs
		issues = append(issues, problems...)
		issues = append(issues, a.checkSidebar(cfg, docs[DocsCollection], res, policy, issues, log)...)
	}

	sortIssues(issues)
	res.issues = issues
	a.recorder.AddIssues(string(site.SeverityError), len(issues.Errors()))
	a.recorder.AddIssues(string(site.SeverityWarning), len(issues.Warnings()))
	for _, issue := range issues {
		log.Debug(issue.Message, slog.String("severity", string(issue.Severity)), logfields.Path(issue.Path), slog.String("rule", issue.Rule))
	}

	if err := issues.Err(); err != nil {
		res.status = StatusInvalid
		return res, err
	}
	return res, nil
}

// checkSidebar resolves the sidebar against docs when requested and reports
// slug links that name no page. The resolved tree is checked for label
// uniqueness again; findings already reported on the declared tree are
// skipped.
func (a *Assembler) checkSidebar(cfg *site.Config, docs []collection.Document, res *Result, policy site.DuplicatePolicy, declared site.Issues, log *slog.Logger) site.Issues {
	var issues site.Issues
	if a.opts.ResolveSidebar {
		resolved, rIssues := sidebar.Resolve(cfg.Sidebar, docs, sidebar.Options{IncludeDrafts: a.opts.IncludeDrafts, Language: a.opts.Language})
		for _, i := range rIssues {
			if i.Severity == site.SeverityError && !a.opts.CheckSlugs {
				continue
			}
			issues = append(issues, i)
		}
		if policy == site.DuplicatesDedupe {
			var dropped []string
			resolved, dropped = site.Dedupe(resolved)
			for _, label := range dropped {
				log.Info("Dropped duplicate sidebar section", logfields.Label(label))
			}
			res.dropped = append(res.dropped, dropped...)
		}
		res.resolved = resolved

		seen := make(map[string]struct{}, len(declared))
		for _, i := range declared {
			seen[i.Path+"\x00"+i.Message] = struct{}{}
		}
		for _, i := range site.ValidateResolved(resolved, policy) {
			if _, dup := seen[i.Path+"\x00"+i.Message]; !dup {
				issues = append(issues, i)
			}
		}
		return issues
	}
	if a.opts.CheckSlugs {
		idx := collection.NewIndex(docs)
		for _, p := range sidebar.Unresolved(cfg.Sidebar, idx) {
			issues = append(issues, site.Issue{
				Severity: site.SeverityError,
				Rule:     "sidebar_slugs",
				Path:     p,
				Message:  "slug does not name a page in the docs collection",
			})
		}
	}
	return issues
}

// loadAll loads every collection concurrently. Schema problems become
// error-level issues; a loader failure aborts the run.
func (a *Assembler) loadAll(ctx context.Context, log *slog.Logger) (map[string][]collection.Document, site.Issues, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	docs := make(map[string][]collection.Document, a.registry.Len())
	problems := make(map[string][]*collection.SchemaError)

	for _, b := range a.registry.Bindings() {
		g.Go(func() error {
			loaded, probs, err := collection.Load(gctx, b)
			if err != nil {
				if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
					return err
				}
				if _, ok := serrors.As(err); ok {
					return err
				}
				return serrors.LoaderFailed(b.Name, err)
			}
			mu.Lock()
			docs[b.Name] = loaded
			problems[b.Name] = probs
			mu.Unlock()
			a.recorder.SetDocuments(b.Name, len(loaded))
			log.Debug("Collection loaded", logfields.Collection(b.Name), logfields.Documents(len(loaded)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if len(docs[DocsCollection]) == 0 {
		log.Warn("Docs collection is empty", logfields.Collection(DocsCollection))
	}

	var issues site.Issues
	for _, name := range a.registry.Names() {
		probs := problems[name]
		sort.SliceStable(probs, func(i, j int) bool { return probs[i].Entry < probs[j].Entry })
		for _, p := range probs {
			for _, msg := range p.Problems {
				issues = append(issues, site.Issue{
					Severity: site.SeverityError,
					Rule:     "schema",
					Path:     fmt.Sprintf("%s:%s", name, p.Entry),
					Message:  msg,
				})
			}
		}
	}
	issues = append(issues, a.contentIssues(docs)...)
	return docs, issues, nil
}

// contentIssues warns about recorded fingerprints that no longer match the
// content and about per-page tableOfContents ranges that select no heading.
func (a *Assembler) contentIssues(docs map[string][]collection.Document) site.Issues {
	var issues site.Issues
	for _, name := range a.registry.Names() {
		for _, d := range docs[name] {
			p := fmt.Sprintf("%s:%s", name, d.Path)
			if d.StaleFingerprint {
				issues = append(issues, site.Issue{
					Severity: site.SeverityWarning,
					Rule:     "fingerprint",
					Path:     p,
					Message:  "recorded fingerprint does not match the content",
				})
			}
			toc := d.Data.TableOfContents
			if toc == nil || toc.Disabled || hasHeadingIn(d, toc.MinHeadingLevel, toc.MaxHeadingLevel) {
				continue
			}
			issues = append(issues, site.Issue{
				Severity: site.SeverityWarning,
				Rule:     "toc_headings",
				Path:     p,
				Message:  fmt.Sprintf("tableOfContents selects h%d-h%d but the page has no such headings", toc.MinHeadingLevel, toc.MaxHeadingLevel),
			})
		}
	}
	return issues
}

func hasHeadingIn(d collection.Document, lo, hi int) bool {
	for _, h := range d.Headings {
		if h.Depth >= lo && h.Depth <= hi {
			return true
		}
	}
	return false
}
