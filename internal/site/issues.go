package site

import (
	"fmt"
	"strings"

	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
)

// Severity of a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Issues is an ordered list of findings.
type Issues []Issue

// Errors returns the error-level findings.
func (is Issues) Errors() Issues { return is.filter(SeverityError) }

// Warnings returns the warning-level findings.
func (is Issues) Warnings() Issues { return is.filter(SeverityWarning) }

// HasErrors reports whether any error-level finding is present.
func (is Issues) HasErrors() bool {
	for _, i := range is {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (is Issues) filter(s Severity) Issues {
	var out Issues
	for _, i := range is {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Err returns nil when there are no error-level findings, otherwise a
// validation SiteError carrying every error message under "findings".
func (is Issues) Err() error {
	errs := is.Errors()
	if len(errs) == 0 {
		return nil
	}
	findings := make([]string, len(errs))
	for i, e := range errs {
		findings[i] = e.String()
	}
	return serrors.ValidationFailed(len(errs), findings[0]).
		WithContext("findings", findings)
}

// Summary renders findings one per line, prefixed with their severity.
func (is Issues) Summary() string {
	var b strings.Builder
	for _, i := range is {
		fmt.Fprintf(&b, "%-7s %s\n", i.Severity, i.String())
	}
	return b.String()
}

// Reporter collects findings for the rule currently running.
type Reporter struct {
	rule   string
	issues Issues
}

// Errorf records an error-level finding at path.
func (r *Reporter) Errorf(path, format string, args ...any) {
	r.add(SeverityError, path, format, args...)
}

// Warnf records a warning-level finding at path.
func (r *Reporter) Warnf(path, format string, args ...any) {
	r.add(SeverityWarning, path, format, args...)
}

func (r *Reporter) add(s Severity, path, format string, args ...any) {
	r.issues = append(r.issues, Issue{Severity: s, Rule: r.rule, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Issues returns everything reported so far.
func (r *Reporter) Issues() Issues { return r.issues }
