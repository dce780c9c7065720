package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveAssemble(150*time.Millisecond, OutcomeSuccess)
	pr.AddIssues("warning", 2)
	pr.AddIssues("error", 0)
	pr.SetDocuments("docs", 12)
	pr.IncReload("fsnotify", OutcomeSuccess)
	pr.IncReload("fsnotify", OutcomeSuccess)
	pr.ObserveEmit("mjs", time.Millisecond)

	require.InDelta(t, 2, testutil.ToFloat64(pr.issues.WithLabelValues("warning")), 0)
	require.InDelta(t, 12, testutil.ToFloat64(pr.documents.WithLabelValues("docs")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(pr.reloads.WithLabelValues("fsnotify", "success")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveAssemble(time.Second, OutcomeFailed)
	pr.AddIssues("error", 1)
	pr.SetDocuments("docs", 1)
	pr.IncReload("schedule", OutcomeFailed)
	pr.ObserveEmit("json", time.Second)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).SetDocuments("docs", 3)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `sitecfg_collection_documents{collection="docs"} 3`))
}
