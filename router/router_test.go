// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/models"
	"github.com/danielhkuo/trackclash/ratelimit"
	"github.com/danielhkuo/trackclash/store"
	"github.com/danielhkuo/trackclash/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, *store.Store) {
	t.Helper()

	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()

	limiter := ratelimit.New(map[string]ratelimit.Rule{
		models.RateActionSubmit: {Cap: cfg.SubmitCap, Window: cfg.SubmitWindow},
		models.RateActionDelete: {Cap: cfg.DeleteCap, Window: cfg.DeleteWindow},
	})
	t.Cleanup(limiter.Close)

	svcs := Services{
		Contests: engine.NewContestService(st, testutil.AdminOnly, cfg.ConfirmSalt, cfg.DefaultSubmissionLimit),
		Submissions: engine.NewSubmissionService(st, limiter, testutil.StaticFetcher{},
			&testutil.RecordingPoster{}, testutil.AdminOnly, time.Second),
		Votes: engine.NewVoteService(st, cfg.EnableVoting, cfg.AllowSelfVote),
	}
	return NewRouter(svcs, st, cfg), st
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "trackclash API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	// Routes should be matched; 400/401/404 from the handler is fine, a 405
	// means the registration is missing.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/contests"},
		{"PATCH", "/contests/test-id"},
		{"POST", "/contests/test-id/delete-request"},
		{"POST", "/contests/test-id/delete-confirm"},

		{"GET", "/contests"},
		{"GET", "/contests/test-id"},
		{"GET", "/contests/test-id/stats"},
		{"GET", "/contests/test-id/leaderboard"},

		{"POST", "/contests/test-id/submissions"},
		{"GET", "/contests/test-id/submissions"},
		{"DELETE", "/submissions/1"},

		{"POST", "/submissions/1/votes"},
		{"DELETE", "/submissions/1/votes"},

		{"GET", "/integrity"},
		{"GET", "/audit"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},            // Only GET is defined
		{"PUT", "/contests/test-id"},   // Only PATCH and GET are defined
		{"PATCH", "/submissions/1"},    // Only DELETE is defined
		{"PUT", "/submissions/1/votes"}, // Only POST and DELETE are defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux, st := newTestRouter(t)
	testutil.CreateTestContest(t, st, "summer-2025", models.StatusActive, 3)

	req := httptest.NewRequest("GET", "/contests/summer-2025", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for existing contest, got %d. Body: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/contests/no-such", nil)
	w = httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing contest, got %d", w.Code)
	}
}
