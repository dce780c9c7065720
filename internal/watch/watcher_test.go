package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"git.home.luguber.info/inful/sitecfg/internal/metrics"
)

type reloadRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	triggers []string
}

func (r *reloadRecorder) IncReload(trigger string, _ metrics.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, trigger)
}

func fixture(t *testing.T) (cfgPath, content string) {
	t.Helper()
	root := t.TempDir()
	cfgPath = filepath.Join(root, "sitecfg.yaml")
	content = filepath.Join(root, "src", "content", "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(content, "guides"), 0o750))
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: \"1\"\n"), 0o600))
	return cfgPath, content
}

func startWatcher(t *testing.T, opts Options) (<-chan string, context.CancelFunc, <-chan error) {
	t.Helper()
	runs := make(chan string, 16)
	w, err := New(opts, func(_ context.Context, trigger string) error {
		runs <- trigger
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return runs, cancel, done
}

func nextRun(t *testing.T, runs <-chan string) string {
	t.Helper()
	select {
	case tr := <-runs:
		return tr
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run")
		return ""
	}
}

func TestWatcherTriggers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfgPath, content := fixture(t)
	rec := &reloadRecorder{}
	runs, cancel, done := startWatcher(t, Options{
		ConfigPath:   cfgPath,
		ContentRoots: []string{content},
		Debounce:     50 * time.Millisecond,
		Recorder:     rec,
	})

	require.Equal(t, TriggerInitial, nextRun(t, runs))

	require.NoError(t, os.WriteFile(filepath.Join(content, "guides", "new.md"), []byte("---\ntitle: New\n---\n"), 0o600))
	require.Equal(t, TriggerContent, nextRun(t, runs))

	require.NoError(t, os.WriteFile(cfgPath, []byte("version: \"1.1\"\n"), 0o600))
	require.Equal(t, TriggerConfig, nextRun(t, runs))

	cancel()
	require.NoError(t, <-done)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Equal(t, []string{TriggerInitial, TriggerContent, TriggerConfig}, rec.triggers)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	cfgPath, content := fixture(t)
	runs, cancel, done := startWatcher(t, Options{
		ConfigPath:   cfgPath,
		ContentRoots: []string{content},
		Debounce:     200 * time.Millisecond,
	})
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()
	require.Equal(t, TriggerInitial, nextRun(t, runs))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(content, "page.md"), []byte("---\ntitle: Page\n---\n"), 0o600))
	}
	require.Equal(t, TriggerContent, nextRun(t, runs))

	select {
	case tr := <-runs:
		t.Fatalf("unexpected extra run %q", tr)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherRescan(t *testing.T) {
	_, content := fixture(t)
	runs, cancel, done := startWatcher(t, Options{
		ContentRoots: []string{content},
		Rescan:       100 * time.Millisecond,
	})
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()
	require.Equal(t, TriggerInitial, nextRun(t, runs))
	require.Equal(t, TriggerRescan, nextRun(t, runs))
}

func TestClassify(t *testing.T) {
	cfgPath, content := fixture(t)
	out := filepath.Join(content, "dist")
	w, err := New(Options{ConfigPath: cfgPath, ContentRoots: []string{content}, Ignore: []string{out}}, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	defer func() { require.NoError(t, w.fs.Close()) }()

	tests := []struct {
		name string
		ev   fsnotify.Event
		want string
	}{
		{"config write", fsnotify.Event{Name: cfgPath, Op: fsnotify.Write}, TriggerConfig},
		{"sibling of config", fsnotify.Event{Name: filepath.Join(filepath.Dir(cfgPath), "README.md"), Op: fsnotify.Write}, ""},
		{"content write", fsnotify.Event{Name: filepath.Join(content, "a.md"), Op: fsnotify.Write}, TriggerContent},
		{"content remove", fsnotify.Event{Name: filepath.Join(content, "guides", "a.md"), Op: fsnotify.Remove}, TriggerContent},
		{"chmod only", fsnotify.Event{Name: filepath.Join(content, "a.md"), Op: fsnotify.Chmod}, ""},
		{"temp file", fsnotify.Event{Name: filepath.Join(content, "a.md.tmp"), Op: fsnotify.Create}, ""},
		{"hidden dir", fsnotify.Event{Name: filepath.Join(content, ".git", "index"), Op: fsnotify.Write}, ""},
		{"ignored output", fsnotify.Event{Name: filepath.Join(out, "site.json"), Op: fsnotify.Write}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, w.classify(tt.ev))
		})
	}
}

func TestNewRequiresRunFunc(t *testing.T) {
	_, err := New(Options{}, nil)
	require.Error(t, err)
}
