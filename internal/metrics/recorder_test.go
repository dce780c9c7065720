package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveAssemble(time.Second, OutcomeSuccess)
	r.AddIssues("warning", 1)
	r.SetDocuments("docs", 1)
	r.IncReload("fsnotify", OutcomeInvalid)
	r.ObserveEmit("yaml", time.Second)
}

var _ Recorder = (*PrometheusRecorder)(nil)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Outcome
	}{
		{nil, OutcomeSuccess},
		{context.Canceled, OutcomeCanceled},
		{fmt.Errorf("load: %w", context.DeadlineExceeded), OutcomeCanceled},
		{serrors.ValidationFailed(2, "title: required"), OutcomeInvalid},
		{serrors.LoaderFailed("docs", fmt.Errorf("boom")), OutcomeFailed},
		{fmt.Errorf("plain"), OutcomeFailed},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, OutcomeOf(tt.err), "%v", tt.err)
	}
}

func TestServerServesMetrics(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).ObserveAssemble(time.Millisecond, OutcomeSuccess)

	srv, err := Listen("127.0.0.1:0", reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + srv.Addr() + "/metrics")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Contains(t, string(body), "sitecfg_assemble_duration_seconds")
	require.Contains(t, string(body), "go_goroutines")

	cancel()
	require.NoError(t, <-done)
}
