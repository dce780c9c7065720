// Package watch re-runs site assembly when the configuration or content
// changes, and on a fixed rescan interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitecfg/internal/logfields"
	"git.home.luguber.info/inful/sitecfg/internal/metrics"
)

// Trigger names what caused a run.
const (
	TriggerInitial = "initial"
	TriggerConfig  = "config"
	TriggerContent = "content"
	TriggerRescan  = "rescan"
)

// RunFunc assembles and emits the site once. It is never called concurrently.
type RunFunc func(ctx context.Context, trigger string) error

// Options configures a Watcher.
type Options struct {
	// ConfigPath is the site configuration file. Its directory is watched.
	ConfigPath string
	// ContentRoots are watched recursively.
	ContentRoots []string
	// Ignore lists directories whose events are dropped, e.g. the output directory.
	Ignore []string
	// Debounce is the quiet window before a change triggers a run.
	Debounce time.Duration
	// Rescan forces a full run at this interval; zero disables it.
	Rescan time.Duration

	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// DefaultDebounce is used when Options.Debounce is unset.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors the configuration file and content roots.
type Watcher struct {
	opts       Options
	run        RunFunc
	configPath string
	ignore     []string
	roots      []string
	fs         *fsnotify.Watcher
	rescan     chan struct{}
	log        *slog.Logger
	rec        metrics.Recorder
}

// New creates a watcher. Call Run to start it.
func New(opts Options, run RunFunc) (*Watcher, error) {
	if run == nil {
		return nil, errors.New("watch: run function is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	w := &Watcher{
		opts:   opts,
		run:    run,
		rescan: make(chan struct{}, 1),
		log:    opts.Logger,
		rec:    opts.Recorder,
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	if w.rec == nil {
		w.rec = metrics.NoopRecorder{}
	}
	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		w.configPath = abs
	}
	for _, dir := range opts.Ignore {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ignored path: %w", err)
		}
		w.ignore = append(w.ignore, abs)
	}
	for _, root := range opts.ContentRoots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve content root: %w", err)
		}
		w.roots = append(w.roots, abs)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fs = fw
	return w, nil
}

// Run performs an initial run, then blocks until ctx is canceled. Run
// failures are logged and counted; they do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fs.Close(); err != nil {
			w.log.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if w.configPath != "" {
		dir := filepath.Dir(w.configPath)
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
		}
	}
	for _, root := range w.roots {
		if err := w.addTree(root); err != nil {
			return err
		}
	}

	if w.opts.Rescan > 0 {
		sched, err := w.schedule()
		if err != nil {
			return err
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				w.log.Error("Error stopping rescan scheduler", logfields.Error(err))
			}
		}()
	}

	w.log.Info("Watching for changes",
		logfields.Path(w.configPath),
		slog.Any("content_roots", w.opts.ContentRoots),
		slog.Duration("debounce", w.opts.Debounce))
	w.execute(ctx, TriggerInitial)

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	var (
		timerC  <-chan time.Time
		pending string
	)
	for {
		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			trigger := w.classify(event)
			if trigger == "" {
				continue
			}
			w.log.Debug("Change detected", logfields.File(event.Name), logfields.Trigger(trigger), slog.String("op", event.Op.String()))
			if pending != TriggerConfig {
				pending = trigger
			}
			stopTimer(timer)
			timer.Reset(w.opts.Debounce)
			timerC = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("File watcher error", logfields.Error(err))
		case <-timerC:
			timerC = nil
			w.execute(ctx, pending)
			pending = ""
		case <-w.rescan:
			w.execute(ctx, TriggerRescan)
		}
	}
}

func (w *Watcher) execute(ctx context.Context, trigger string) {
	start := time.Now()
	err := w.run(ctx, trigger)
	outcome := metrics.OutcomeOf(err)
	w.rec.IncReload(trigger, outcome)
	if err != nil {
		w.log.Warn("Run failed", logfields.Trigger(trigger), slog.String("outcome", string(outcome)), logfields.Error(err), logfields.Elapsed(time.Since(start)))
		return
	}
	w.log.Info("Run completed", logfields.Trigger(trigger), logfields.Elapsed(time.Since(start)))
}

// classify maps an event to a trigger, or "" when it is irrelevant.
func (w *Watcher) classify(event fsnotify.Event) string {
	if event.Op == fsnotify.Chmod {
		return ""
	}
	name := filepath.Clean(event.Name)
	if w.ignored(name) || strings.HasSuffix(name, ".tmp") {
		return ""
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return ""
	}
	if w.configPath != "" && abs == w.configPath {
		return TriggerConfig
	}
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if hiddenPath(rel) {
			return ""
		}
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(name); err == nil && info.IsDir() {
				if err := w.addTree(name); err != nil {
					w.log.Warn("Failed to watch new directory", logfields.Directory(name), logfields.Error(err))
				}
			}
		}
		return TriggerContent
	}
	return ""
}

func (w *Watcher) ignored(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addTree watches root and every non-hidden directory below it. A missing
// root is not an error; it is picked up on the next rescan run.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				w.log.Warn("Content root does not exist", logfields.Directory(root))
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.ignored(path)) {
			return fs.SkipDir
		}
		return w.fs.Add(path)
	})
	if err != nil {
		return fmt.Errorf("failed to watch content root %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) schedule() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Rescan),
		gocron.NewTask(func() {
			select {
			case w.rescan <- struct{}{}:
			default:
			}
		}),
		gocron.WithName("sitecfg-rescan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create rescan job: %w", err)
	}
	s.Start()
	return s, nil
}

func hiddenPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
