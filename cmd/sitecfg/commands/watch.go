package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitecfg/internal/build"
	"git.home.luguber.info/inful/sitecfg/internal/config"
	"git.home.luguber.info/inful/sitecfg/internal/logfields"
	"git.home.luguber.info/inful/sitecfg/internal/metrics"
	"git.home.luguber.info/inful/sitecfg/internal/render"
	"git.home.luguber.info/inful/sitecfg/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address, e.g. :9090 (overrides watch.metrics_addr)"`
	Rescan      string `help:"Full rescan interval, e.g. 5m (overrides watch.rescan)"`
}

// session holds the configuration in effect across reloads and the content
// fingerprints of the last emitted result.
type session struct {
	mu      sync.Mutex
	cfg     *config.Config
	digests map[string]string
}

func (s *session) get() (*config.Config, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.digests
}

func (s *session) set(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.digests = nil
}

func (s *session) emitted(digests map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.digests = digests
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if w.Rescan != "" {
		cfg.Watch.Rescan = w.Rescan
	}
	debounce, rescan, err := cfg.WatchIntervals()
	if err != nil {
		return err
	}
	addr := cfg.Watch.MetricsAddr
	if w.MetricsAddr != "" {
		addr = w.MetricsAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var server *metrics.Server
	if addr != "" {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		if server, err = metrics.Listen(addr, reg); err != nil {
			return err
		}
	}

	outDir := cfg.OutputDir()
	if w.Output != "" {
		outDir = w.Output
	}
	sess := &session{cfg: cfg}
	run := func(ctx context.Context, trigger string) error {
		current, prev := sess.get()
		if trigger == watch.TriggerConfig {
			reloaded, err := root.loadConfig(g)
			if err != nil {
				return err
			}
			sess.set(reloaded)
			current, prev = reloaded, nil
		}
		digests, err := renderOnce(ctx, g, root, current, outDir, recorder, prev)
		if err != nil {
			return err
		}
		sess.emitted(digests)
		return nil
	}

	roots := contentRoots(cfg)
	watcher, err := watch.New(watch.Options{
		ConfigPath:   root.Config,
		ContentRoots: roots,
		Ignore:       ignoredDirs(outDir, roots),
		Debounce:     debounce,
		Rescan:       rescan,
		Recorder:     recorder,
		Logger:       g.Logger,
	}, run)
	if err != nil {
		return err
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return watcher.Run(gctx) })
	if server != nil {
		grp.Go(func() error { return server.Serve(gctx) })
	}
	return grp.Wait()
}

// renderOnce assembles and emits with the given configuration. When prev is
// non-nil and no entry fingerprint changed, the emit is skipped. It returns
// the fingerprints of the result.
func renderOnce(ctx context.Context, g *Global, root *CLI, cfg *config.Config, outDir string, rec metrics.Recorder, prev map[string]string) (map[string]string, error) {
	formats, err := cfg.OutputFormats()
	if err != nil {
		return nil, err
	}
	registry, err := cfg.Registry(g.Logger)
	if err != nil {
		return nil, err
	}
	res, err := build.NewAssembler(&cfg.Site, registry, cfg.AssembleOptions()).
		WithLogger(g.Logger).
		WithRecorder(rec).
		Assemble(ctx)
	if err != nil {
		if res != nil {
			for _, issue := range res.Issues().Errors() {
				g.Logger.Error(issue.Message, logfields.Path(issue.Path), "rule", issue.Rule)
			}
		}
		return nil, err
	}

	digests := res.Digests()
	if prev != nil {
		changed := build.ChangedEntries(prev, digests)
		if len(changed) == 0 {
			g.Logger.Debug("Content unchanged, skipping render", logfields.RunID(res.RunID()))
			return digests, nil
		}
		for _, key := range changed {
			g.Logger.Debug("Entry changed", logfields.Path(key))
		}
		g.Logger.Info("Content changed", logfields.Documents(len(changed)), logfields.RunID(res.RunID()))
	}

	emitter := &render.Emitter{
		Dir:      outDir,
		Formats:  formats,
		Header:   "Generated by sitecfg from " + root.Config + ". Do not edit.",
		Recorder: rec,
		Logger:   g.Logger,
	}
	if _, err := emitter.Emit(ctx, res); err != nil {
		return nil, err
	}
	return digests, nil
}

// contentRoots lists the directories the configured collections read from.
func contentRoots(cfg *config.Config) []string {
	seen := map[string]bool{}
	var roots []string
	for _, s := range cfg.CollectionSpecs() {
		base := s.Base
		if base == "" {
			continue
		}
		dir := base
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.ProjectRoot(), filepath.FromSlash(base))
		}
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	return roots
}

// ignoredDirs drops events from the output directory when it lies inside a
// content root. An output directory enclosing the roots is not ignored.
func ignoredDirs(outDir string, roots []string) []string {
	out, err := filepath.Abs(outDir)
	if err != nil {
		return nil
	}
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(abs, out); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			return []string{out}
		}
	}
	return nil
}
