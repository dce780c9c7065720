package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyCollection = "collection"
	KeyLabel      = "label"
	KeyFormat     = "format"
	KeyDirectory  = "directory"
	KeyIssues     = "issues"
	KeyDocuments  = "documents"
	KeyTrigger    = "trigger"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr          { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func File(f string) slog.Attr            { return slog.String(KeyFile, f) }
func Collection(name string) slog.Attr   { return slog.String(KeyCollection, name) }
func Label(l string) slog.Attr           { return slog.String(KeyLabel, l) }
func Format(f string) slog.Attr          { return slog.String(KeyFormat, f) }
func Directory(d string) slog.Attr       { return slog.String(KeyDirectory, d) }
func Issues(n int) slog.Attr             { return slog.Int(KeyIssues, n) }
func Documents(n int) slog.Attr          { return slog.Int(KeyDocuments, n) }
func Trigger(t string) slog.Attr         { return slog.String(KeyTrigger, t) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// Elapsed records d under the duration_ms key.
func Elapsed(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}
