// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides shared fixtures for package tests: a migrated
// throwaway database, canned contests and submissions, and HTTP helpers.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/trackclash/auth"
	"github.com/danielhkuo/trackclash/cliparse"
	"github.com/danielhkuo/trackclash/db"
	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/models"
	"github.com/danielhkuo/trackclash/store"
)

// TestAdminToken matches GetTestConfig's AdminToken.
const TestAdminToken = "test-admin-token"

// SetupTestStore opens a fresh migrated database in a per-test temp
// directory. Closed automatically when the test ends.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if err := db.Migrate(st.DB()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                   3321,
		DatabasePath:           "test.db",
		AdminToken:             TestAdminToken,
		ConfirmSalt:            "test-confirm-salt",
		BackupDir:              "backups",
		BackupInterval:         24 * time.Hour,
		MaxBackups:             3,
		SubmitCap:              5,
		SubmitWindow:           time.Minute,
		DeleteCap:              10,
		DeleteWindow:           time.Minute,
		DefaultSubmissionLimit: 1,
		FetchTimeout:           time.Second,
		EnableVoting:           true,
		AllowSelfVote:          false,
	}
}

// AdminOnly approves any action for requests carrying validated admin
// credentials in the context. The standard authorization predicate in tests.
func AdminOnly(ctx context.Context, _ engine.Actor, _, _ string) bool {
	return auth.IsAdmin(ctx)
}

// AllowAll approves every action regardless of actor.
func AllowAll(context.Context, engine.Actor, string, string) bool {
	return true
}

// CreateTestContest inserts a contest directly and returns it.
// status should be "active", "voting", or "closed".
func CreateTestContest(t *testing.T, st *store.Store, contestID, status string, limit int) *models.Contest {
	t.Helper()

	contest := &models.Contest{
		ID:              contestID,
		PublicChannel:   "public-ch",
		ReviewChannel:   "review-ch",
		SubmissionLimit: limit,
		Status:          status,
		CreatedAt:       time.Now().UTC(),
		CreatedBy:       "test-admin",
	}
	err := st.WithTx(context.Background(), func(tx *store.Tx) error {
		return tx.InsertContest(contest)
	})
	if err != nil {
		t.Fatalf("Failed to create test contest: %v", err)
	}
	return contest
}

// AddTestSubmission inserts a submission directly and returns it.
func AddTestSubmission(t *testing.T, st *store.Store, contestID, userID, url string) *models.Submission {
	t.Helper()

	sub := &models.Submission{
		ContestID: contestID,
		UserID:    userID,
		UserName:  "user-" + userID,
		SongName:  "Test Track",
		Platform:  "suno",
		URL:       url,
		PublicRef: auth.NewPublicRef(),
		CreatedAt: time.Now().UTC(),
	}
	err := st.WithTx(context.Background(), func(tx *store.Tx) error {
		return tx.InsertSubmission(sub)
	})
	if err != nil {
		t.Fatalf("Failed to create test submission: %v", err)
	}
	return sub
}

// CastTestVote inserts a vote directly.
func CastTestVote(t *testing.T, st *store.Store, submissionID int64, voterID string) {
	t.Helper()

	err := st.WithTx(context.Background(), func(tx *store.Tx) error {
		return tx.InsertVote(submissionID, voterID)
	})
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// StaticFetcher returns fixed metadata for every URL.
type StaticFetcher struct {
	Meta *models.TrackMetadata
	Err  error
}

func (f StaticFetcher) Fetch(context.Context, string) (*models.TrackMetadata, error) {
	return f.Meta, f.Err
}

// RecordingPoster records CreatePosts/DeletePosts calls for assertions.
type RecordingPoster struct {
	mu      sync.Mutex
	Created []int64
	Deleted []string
	Err     error
}

func (p *RecordingPoster) CreatePosts(_ context.Context, _ *models.Contest, sub *models.Submission) (string, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return "", "", p.Err
	}
	p.Created = append(p.Created, sub.ID)
	return "pub-" + sub.PublicRef, "rev-" + sub.PublicRef, nil
}

func (p *RecordingPoster) DeletePosts(_ context.Context, _ *models.Contest, publicRef, reviewRef string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Deleted = append(p.Deleted, publicRef, reviewRef)
	return p.Err
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
