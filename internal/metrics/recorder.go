package metrics

import (
	"context"
	"errors"
	"time"

	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
)

// Outcome labels an assemble or reload result.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines observability hooks for assembly and emission. All methods
// must be cheap; NoopRecorder is the default when metrics are not configured.
type Recorder interface {
	ObserveAssemble(d time.Duration, outcome Outcome)
	AddIssues(severity string, n int)
	SetDocuments(collection string, n int)
	IncReload(trigger string, outcome Outcome)
	ObserveEmit(format string, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveAssemble(time.Duration, Outcome) {}
func (NoopRecorder) AddIssues(string, int)                  {}
func (NoopRecorder) SetDocuments(string, int)               {}
func (NoopRecorder) IncReload(string, Outcome)              {}
func (NoopRecorder) ObserveEmit(string, time.Duration)      {}

// OutcomeOf classifies the error returned by an assemble or reload run.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case serrors.IsCategory(err, serrors.CategoryValidation):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}
