package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitecfg/internal/build"
	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/logfields"
	"git.home.luguber.info/inful/sitecfg/internal/metrics"
)

// Format names one output artifact.
type Format string

const (
	FormatAstro   Format = "mjs"
	FormatContent Format = "content"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// Formats lists every supported format in emission order.
var Formats = []Format{FormatAstro, FormatContent, FormatJSON, FormatYAML}

// DefaultFormats are emitted when none are requested.
var DefaultFormats = []Format{FormatAstro, FormatContent}

// ParseFormats parses a comma-separated list such as "mjs,json".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if f.fileName() == "" {
			return nil, fmt.Errorf("unknown output format %q (want one of mjs, content, json, yaml)", part)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

func (f Format) fileName() string {
	switch f {
	case FormatAstro:
		return "astro.config.mjs"
	case FormatContent:
		return filepath.Join("src", "content.config.ts")
	case FormatJSON:
		return "site.json"
	case FormatYAML:
		return "site.yaml"
	default:
		return ""
	}
}

// Emitter writes the requested formats of a Result below Dir. Each file is
// written to a temporary sibling and renamed into place.
type Emitter struct {
	Dir     string
	Formats []Format
	// Header is prepended as a comment to generated JavaScript and TypeScript.
	Header   string
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

var _ build.Emitter = (*Emitter)(nil)

// Emit implements build.Emitter. Results with error-level issues are refused.
func (e *Emitter) Emit(ctx context.Context, res *build.Result) ([]string, error) {
	if res == nil {
		return nil, serrors.InternalError("emit called without a result", nil)
	}
	if res.Status() != build.StatusSuccess {
		errs := res.Issues().Errors()
		first := ""
		if len(errs) > 0 {
			first = errs[0].String()
		}
		return nil, serrors.ValidationFailed(len(errs), first)
	}
	formats := e.Formats
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	rec := e.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logfields.RunID(res.RunID()))

	cfg := res.Site()
	if res.Resolved() {
		cfg.Sidebar = res.Sidebar()
	}
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		start := time.Now()
		var buf bytes.Buffer
		var err error
		switch f {
		case FormatAstro:
			err = WriteAstroConfig(&buf, cfg, AstroOptions{Header: e.Header})
		case FormatContent:
			err = WriteContentConfig(&buf, res.Registry())
			if err == nil && e.Header != "" {
				body := buf.Bytes()
				buf = bytes.Buffer{}
				buf.Write(headerComment(e.Header))
				buf.Write(body)
			}
		case FormatJSON:
			err = WriteJSON(&buf, cfg)
		case FormatYAML:
			err = WriteYAML(&buf, cfg)
		default:
			err = fmt.Errorf("unknown format %q", f)
		}
		if err != nil {
			return written, serrors.RenderFailed(string(f), err)
		}
		path := filepath.Join(e.Dir, f.fileName())
		if err := writeAtomic(path, buf.Bytes()); err != nil {
			return written, serrors.RenderFailed(string(f), err).WithContext("path", path)
		}
		d := time.Since(start)
		rec.ObserveEmit(string(f), d)
		log.Info("Wrote output", logfields.Format(string(f)), logfields.File(path), logfields.Elapsed(d))
		written = append(written, path)
	}
	return written, nil
}

func headerComment(h string) []byte {
	var b bytes.Buffer
	for _, line := range strings.Split(strings.TrimRight(h, "\n"), "\n") {
		b.WriteString("// " + line + "\n")
	}
	return b.Bytes()
}

// Generated files are project sources checked in next to hand-written ones.
const (
	outputFileMode os.FileMode = 0o644
	outputDirMode  os.FileMode = 0o755
)

func writeAtomic(path string, data []byte) error {
	// #nosec G301 -- output directories belong to the project tree.
	if err := os.MkdirAll(filepath.Dir(path), outputDirMode); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	tmp := path + ".tmp"
	// #nosec G306 -- generated sources are meant to be readable like the rest of the project.
	if err := os.WriteFile(tmp, data, outputFileMode); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Chmod(tmp, outputFileMode); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("set file mode: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}
