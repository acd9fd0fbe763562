// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrinaldi/quorum/event"
	"github.com/mrinaldi/quorum/models"
	"github.com/mrinaldi/quorum/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	st := testutil.SetupTestStore(t, models.PhaseClosed, "", "")
	bus := event.NewBus(prometheus.NewRegistry(), slog.Default())
	return NewRouter(st, bus, testutil.GetTestConfig())
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/health", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Expected OK body, got %q", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "quorum API v1" {
		t.Errorf("Unexpected root body: %q", w.Body.String())
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	mux := newTestRouter(t)

	adminRoutes := []struct {
		method string
		path   string
	}{
		{"GET", "/session/admin"},
		{"PUT", "/session/topic"},
		{"PUT", "/session/access-code"},
		{"POST", "/session/open"},
		{"POST", "/session/close"},
		{"POST", "/session/terminate"},
		{"POST", "/session/votes/clear"},
		{"POST", "/session/wipe"},
		{"DELETE", "/session/confirmations/wipe"},
		{"GET", "/session/participants"},
		{"GET", "/session/reports"},
		{"GET", "/session/export/attendance"},
		{"GET", "/session/export/reports"},
	}
	for _, route := range adminRoutes {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(route.method, route.path, nil, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without key: expected 401, got %d", route.method, route.path, w.Code)
		}
	}
}

func TestAdminRouteAcceptsKey(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/session/admin", nil, testutil.AdminHeaders()))
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.AdminSessionView
	testutil.AssertJSON(t, w, &view)
	if view.Phase != models.PhaseClosed {
		t.Errorf("Expected CLOSED session, got %+v", view)
	}
}

func TestPublicRoutesNeedNoKey(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/session", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/session/stats", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	if tally.Total != 0 {
		t.Errorf("Expected empty tally, got %+v", tally)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/metrics", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("DELETE", "/session", nil, nil))
	testutil.AssertStatus(t, w, http.StatusMethodNotAllowed)
}

func TestExportRoutesServeCSV(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/session/export/attendance", nil, testutil.AdminHeaders()))
	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Expected CSV content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("Expected a download disposition header")
	}
}
