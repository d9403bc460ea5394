package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/eventstore"
)

func TestHandleHealth_ReportsBuildState(t *testing.T) {
	status := &Status{}
	srv := New(":0", t.TempDir(), status)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	status.SetError(errors.New("boom"))
	rec = httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "degraded", resp["status"])
	require.Equal(t, "boom", resp["last_error"])

	// Once a good build exists, a later failure degrades but stays serving.
	status.SetSuccess()
	status.SetError(errors.New("later"))
	rec = httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleBuilds_ReturnsRecentHistory(t *testing.T) {
	store, err := eventstore.Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Append(context.Background(), "b1", eventstore.TypeBuildSucceeded, []byte(`{"pages_rendered":1}`)))

	srv := New(":0", t.TempDir(), &Status{}, WithEventStore(store))

	rec := httptest.NewRecorder()
	srv.handleBuilds(rec, httptest.NewRequest(http.MethodGet, "/api/builds", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var events []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	require.Equal(t, "b1", events[0]["build_id"])
}

func TestServer_ServesSiteAndMetrics(t *testing.T) {
	siteDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "index.html"), []byte("<h1>hi</h1>"), 0o644))

	reg := prom.NewRegistry()
	srv := New("127.0.0.1:0", siteDir, &Status{}, WithMetrics(reg))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for _, path := range []string{"/index.html", "/healthz", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, "path %s", path)
		_ = resp.Body.Close()
	}
}
