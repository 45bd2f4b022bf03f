// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/danielhkuo/trackclash/auth"
	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/models"
	"github.com/danielhkuo/trackclash/ratelimit"
	"github.com/danielhkuo/trackclash/store"
	"github.com/danielhkuo/trackclash/testutil"
)

type submitFixture struct {
	st      *store.Store
	svc     *engine.SubmissionService
	limiter *ratelimit.Limiter
	poster  *testutil.RecordingPoster
}

func newSubmitFixture(t *testing.T, submitCap int) *submitFixture {
	t.Helper()

	st := testutil.SetupTestStore(t)
	limiter := ratelimit.New(map[string]ratelimit.Rule{
		models.RateActionSubmit: {Cap: submitCap, Window: time.Minute},
		models.RateActionDelete: {Cap: 10, Window: time.Minute},
	})
	t.Cleanup(limiter.Close)

	poster := &testutil.RecordingPoster{}
	fetcher := testutil.StaticFetcher{Meta: &models.TrackMetadata{Title: "Fetched Title"}}
	svc := engine.NewSubmissionService(st, limiter, fetcher, poster, testutil.AdminOnly, time.Second)
	return &submitFixture{st: st, svc: svc, limiter: limiter, poster: poster}
}

var alice = engine.Actor{ID: "alice", Name: "Alice"}

func TestSubmit(t *testing.T) {
	f := newSubmitFixture(t, 5)
	testutil.CreateTestContest(t, f.st, "summer-2025", models.StatusActive, 3)

	sub, err := f.svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
		SongName: "Midnight Drive",
		URL:      "https://suno.com/song/abc123",
	})
	if err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	if sub.Platform != "suno" {
		t.Errorf("Expected platform suno, got %s", sub.Platform)
	}
	if sub.PublicRef == "" {
		t.Error("Expected an anonymized public reference")
	}
	if sub.Metadata == nil || sub.Metadata.Title != "Fetched Title" {
		t.Errorf("Expected fetched metadata, got %+v", sub.Metadata)
	}
	if len(f.poster.Created) != 1 || f.poster.Created[0] != sub.ID {
		t.Errorf("Expected one post render for the submission, got %v", f.poster.Created)
	}

	// Post refs were backfilled after commit.
	got, err := f.st.GetSubmission(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("Failed to read submission back: %v", err)
	}
	if got.PublicPostRef == "" || got.ReviewPostRef == "" {
		t.Error("Expected post refs to be backfilled")
	}
}

func TestSubmitPipelineOrder(t *testing.T) {
	f := newSubmitFixture(t, 1)
	testutil.CreateTestContest(t, f.st, "voting-now", models.StatusVoting, 3)

	// Contest status is checked before the rate limit: a rejected submit to a
	// non-active contest must not consume quota.
	_, err := f.svc.Submit(context.Background(), alice, "voting-now", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/1",
	})
	if !models.IsConflict(err) {
		t.Fatalf("Expected ConflictError for non-active contest, got %v", err)
	}

	testutil.CreateTestContest(t, f.st, "summer-2025", models.StatusActive, 3)
	if _, err := f.svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/1",
	}); err != nil {
		t.Fatalf("Expected quota to be untouched by the earlier rejection: %v", err)
	}
}

func TestSubmitRejections(t *testing.T) {
	f := newSubmitFixture(t, 100)
	contest := testutil.CreateTestContest(t, f.st, "summer-2025", models.StatusActive, 3)

	cases := []struct {
		name  string
		req   models.SubmitRequest
		check func(error) bool
	}{
		{"missing song name", models.SubmitRequest{SongName: "   ", URL: "https://suno.com/song/1"}, models.IsValidation},
		{"bad url", models.SubmitRequest{SongName: "Track", URL: "not a url"}, models.IsValidation},
		{"unknown platform", models.SubmitRequest{SongName: "Track", URL: "https://spotify.com/track/1"}, models.IsValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), alice, contest.ID, tc.req)
			if err == nil || !tc.check(err) {
				t.Errorf("Expected rejection, got %v", err)
			}
		})
	}

	// Missing contest
	_, err := f.svc.Submit(context.Background(), alice, "no-such", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/1",
	})
	if !models.IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestSubmitPlatformAllowList(t *testing.T) {
	f := newSubmitFixture(t, 100)
	st := f.st

	contest := &models.Contest{
		ID:               "suno-only",
		PublicChannel:    "a",
		ReviewChannel:    "b",
		AllowedPlatforms: []string{"suno"},
		SubmissionLimit:  3,
		Status:           models.StatusActive,
		CreatedAt:        time.Now().UTC(),
		CreatedBy:        "admin",
	}
	err := st.WithTx(context.Background(), func(tx *store.Tx) error {
		return tx.InsertContest(contest)
	})
	if err != nil {
		t.Fatalf("Failed to insert contest: %v", err)
	}

	_, err = f.svc.Submit(context.Background(), alice, "suno-only", models.SubmitRequest{
		SongName: "Track", URL: "https://udio.com/songs/1",
	})
	if !models.IsValidation(err) {
		t.Errorf("Expected ValidationError for disallowed platform, got %v", err)
	}

	if _, err := f.svc.Submit(context.Background(), alice, "suno-only", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/1",
	}); err != nil {
		t.Fatalf("Expected allowed platform to pass: %v", err)
	}
}

func TestSubmitLimitAndDuplicate(t *testing.T) {
	f := newSubmitFixture(t, 100)
	testutil.CreateTestContest(t, f.st, "summer-2025", models.StatusActive, 2)

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
			SongName: fmt.Sprintf("Track %d", i),
			URL:      fmt.Sprintf("https://suno.com/song/%d", i),
		}); err != nil {
			t.Fatalf("Failed to submit %d: %v", i, err)
		}
	}

	// Over the per-user limit
	_, err := f.svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
		SongName: "Track 3", URL: "https://suno.com/song/3",
	})
	if !models.IsConflict(err) {
		t.Errorf("Expected ConflictError at the limit, got %v", err)
	}

	// Another user submitting the same URL is fine; the same user is not.
	bob := engine.Actor{ID: "bob", Name: "Bob"}
	if _, err := f.svc.Submit(context.Background(), bob, "summer-2025", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/0",
	}); err != nil {
		t.Fatalf("Expected other user's duplicate URL to pass: %v", err)
	}
	_, err = f.svc.Submit(context.Background(), bob, "summer-2025", models.SubmitRequest{
		SongName: "Track again", URL: "https://suno.com/song/0",
	})
	if !models.IsConflict(err) {
		t.Errorf("Expected ConflictError for duplicate URL, got %v", err)
	}
}

func TestSubmitRateLimited(t *testing.T) {
	f := newSubmitFixture(t, 1)
	testutil.CreateTestContest(t, f.st, "summer-2025", models.StatusActive, 10)

	if _, err := f.svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/1",
	}); err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	_, err := f.svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
		SongName: "Track 2", URL: "https://suno.com/song/2",
	})
	retryAfter, ok := models.IsRateLimited(err)
	if !ok {
		t.Fatalf("Expected RateLimitedError, got %v", err)
	}
	if retryAfter <= 0 {
		t.Errorf("Expected positive retry hint, got %v", retryAfter)
	}
}

func TestSubmitSurvivesFetchAndPostFailures(t *testing.T) {
	st := testutil.SetupTestStore(t)
	limiter := ratelimit.New(map[string]ratelimit.Rule{})
	t.Cleanup(limiter.Close)

	poster := &testutil.RecordingPoster{Err: errors.New("discord down")}
	fetcher := testutil.StaticFetcher{Err: errors.New("upstream timeout")}
	svc := engine.NewSubmissionService(st, limiter, fetcher, poster, testutil.AdminOnly, time.Second)

	testutil.CreateTestContest(t, st, "summer-2025", models.StatusActive, 3)

	sub, err := svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/1",
	})
	if err != nil {
		t.Fatalf("Expected submission to survive collaborator failures: %v", err)
	}
	if sub.Metadata != nil {
		t.Errorf("Expected metadata degraded to nil, got %+v", sub.Metadata)
	}
	if sub.PublicPostRef != "" {
		t.Error("Expected no post refs when rendering failed")
	}
}

func TestDeleteSubmission(t *testing.T) {
	f := newSubmitFixture(t, 100)
	testutil.CreateTestContest(t, f.st, "summer-2025", models.StatusActive, 3)

	sub, err := f.svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/1",
	})
	if err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	// A stranger cannot delete it.
	err = f.svc.Delete(context.Background(), engine.Actor{ID: "mallory"}, sub.ID)
	if !models.IsNotAuthorized(err) {
		t.Fatalf("Expected NotAuthorizedError, got %v", err)
	}

	// The owner can.
	if err := f.svc.Delete(context.Background(), alice, sub.ID); err != nil {
		t.Fatalf("Failed to delete own submission: %v", err)
	}
	if _, err := f.st.GetSubmission(context.Background(), sub.ID); !models.IsNotFound(err) {
		t.Errorf("Expected submission gone, got %v", err)
	}
	if len(f.poster.Deleted) == 0 {
		t.Error("Expected post removal to be signaled")
	}
}

func TestAdminDeletesOthersSubmission(t *testing.T) {
	f := newSubmitFixture(t, 100)
	testutil.CreateTestContest(t, f.st, "summer-2025", models.StatusActive, 3)

	sub, err := f.svc.Submit(context.Background(), alice, "summer-2025", models.SubmitRequest{
		SongName: "Track", URL: "https://suno.com/song/1",
	})
	if err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	adminCtx := auth.ContextWithAdmin(context.Background())
	if err := f.svc.Delete(adminCtx, engine.Actor{ID: "admin-1"}, sub.ID); err != nil {
		t.Fatalf("Expected admin delete to succeed: %v", err)
	}
}
