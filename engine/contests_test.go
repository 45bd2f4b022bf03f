// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine_test

import (
	"context"
	"testing"

	"github.com/danielhkuo/trackclash/auth"
	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/models"
	"github.com/danielhkuo/trackclash/testutil"
)

const testSalt = "test-confirm-salt"

func newContestService(t *testing.T) (*engine.ContestService, context.Context) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	svc := engine.NewContestService(st, testutil.AdminOnly, testSalt, 1)
	return svc, auth.ContextWithAdmin(context.Background())
}

var admin = engine.Actor{ID: "admin-1", Name: "Admin"}

func TestCreateContest(t *testing.T) {
	svc, ctx := newContestService(t)

	contest, err := svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID:        "summer-2025",
		PublicChannel:    "public",
		ReviewChannel:    "review",
		AllowedPlatforms: []string{"Suno", "udio"},
		SubmissionLimit:  3,
		Description:      "Summer contest",
	})
	if err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}

	if contest.Status != models.StatusActive {
		t.Errorf("Expected new contest active, got %s", contest.Status)
	}
	if contest.SubmissionLimit != 3 {
		t.Errorf("Expected limit 3, got %d", contest.SubmissionLimit)
	}
	if len(contest.AllowedPlatforms) != 2 || contest.AllowedPlatforms[0] != "suno" {
		t.Errorf("Expected normalized platforms, got %v", contest.AllowedPlatforms)
	}

	got, err := svc.Get(context.Background(), "summer-2025")
	if err != nil {
		t.Fatalf("Failed to read contest back: %v", err)
	}
	if got.CreatedBy != admin.ID {
		t.Errorf("Expected creator recorded, got %s", got.CreatedBy)
	}
}

func TestCreateContestDefaultLimit(t *testing.T) {
	svc, ctx := newContestService(t)

	contest, err := svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID:     "summer-2025",
		PublicChannel: "public",
		ReviewChannel: "review",
	})
	if err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}
	if contest.SubmissionLimit != 1 {
		t.Errorf("Expected configured default limit 1, got %d", contest.SubmissionLimit)
	}
}

func TestCreateContestRejections(t *testing.T) {
	svc, ctx := newContestService(t)

	// Not an admin
	_, err := svc.Create(context.Background(), engine.Actor{ID: "user"}, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "a", ReviewChannel: "b",
	})
	if !models.IsNotAuthorized(err) {
		t.Errorf("Expected NotAuthorizedError, got %v", err)
	}

	// Same public and review channel
	_, err = svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "same", ReviewChannel: "same",
	})
	if !models.IsValidation(err) {
		t.Errorf("Expected ValidationError for same channels, got %v", err)
	}

	// Bad identifier
	_, err = svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "--bad--", PublicChannel: "a", ReviewChannel: "b",
	})
	if !models.IsValidation(err) {
		t.Errorf("Expected ValidationError for bad id, got %v", err)
	}

	// Unknown platform
	_, err = svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "a", ReviewChannel: "b",
		AllowedPlatforms: []string{"spotify"},
	})
	if !models.IsValidation(err) {
		t.Errorf("Expected ValidationError for unknown platform, got %v", err)
	}

	// Duplicate identifier
	if _, err := svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "a", ReviewChannel: "b",
	}); err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}
	_, err = svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "a", ReviewChannel: "b",
	})
	if !models.IsConflict(err) {
		t.Errorf("Expected ConflictError for duplicate id, got %v", err)
	}
}

func TestEditContestStatusTransitions(t *testing.T) {
	svc, ctx := newContestService(t)

	if _, err := svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "a", ReviewChannel: "b",
	}); err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}

	status := models.StatusVoting
	contest, err := svc.Edit(ctx, admin, "summer-2025", models.EditContestRequest{Status: &status})
	if err != nil {
		t.Fatalf("Failed to move to voting: %v", err)
	}
	if contest.Status != models.StatusVoting {
		t.Errorf("Expected voting, got %s", contest.Status)
	}

	// Backwards is forbidden
	status = models.StatusActive
	_, err = svc.Edit(ctx, admin, "summer-2025", models.EditContestRequest{Status: &status})
	if !models.IsConflict(err) {
		t.Errorf("Expected ConflictError for voting -> active, got %v", err)
	}

	status = models.StatusClosed
	if _, err := svc.Edit(ctx, admin, "summer-2025", models.EditContestRequest{Status: &status}); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	// Nothing leaves closed
	status = models.StatusVoting
	_, err = svc.Edit(ctx, admin, "summer-2025", models.EditContestRequest{Status: &status})
	if !models.IsConflict(err) {
		t.Errorf("Expected ConflictError for closed -> voting, got %v", err)
	}
}

func TestEditContestNothingToEdit(t *testing.T) {
	svc, ctx := newContestService(t)

	if _, err := svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "a", ReviewChannel: "b",
	}); err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}

	_, err := svc.Edit(ctx, admin, "summer-2025", models.EditContestRequest{})
	if !models.IsValidation(err) {
		t.Errorf("Expected ValidationError for empty edit, got %v", err)
	}
}

func TestTwoStepDelete(t *testing.T) {
	svc, ctx := newContestService(t)

	if _, err := svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "a", ReviewChannel: "b",
	}); err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}

	resp, err := svc.RequestDelete(ctx, admin, "summer-2025")
	if err != nil {
		t.Fatalf("Failed to request delete: %v", err)
	}
	if resp.ConfirmToken == "" {
		t.Fatal("Expected a confirmation handle")
	}

	// Contest still exists between the two steps.
	if _, err := svc.Get(context.Background(), "summer-2025"); err != nil {
		t.Fatalf("Expected contest to survive step one: %v", err)
	}

	if err := svc.ConfirmDelete(ctx, admin, "summer-2025", resp.ConfirmToken); err != nil {
		t.Fatalf("Failed to confirm delete: %v", err)
	}

	if _, err := svc.Get(context.Background(), "summer-2025"); !models.IsNotFound(err) {
		t.Errorf("Expected contest gone, got %v", err)
	}
}

func TestConfirmDeleteRejectsBadToken(t *testing.T) {
	svc, ctx := newContestService(t)

	if _, err := svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "summer-2025", PublicChannel: "a", ReviewChannel: "b",
	}); err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}

	if err := svc.ConfirmDelete(ctx, admin, "summer-2025", "forged.12345"); !models.IsValidation(err) {
		t.Errorf("Expected ValidationError for forged token, got %v", err)
	}

	// Token for one contest cannot delete another.
	if _, err := svc.Create(ctx, admin, models.CreateContestRequest{
		ContestID: "winter-2025", PublicChannel: "a", ReviewChannel: "b",
	}); err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}
	resp, err := svc.RequestDelete(ctx, admin, "summer-2025")
	if err != nil {
		t.Fatalf("Failed to request delete: %v", err)
	}
	if err := svc.ConfirmDelete(ctx, admin, "winter-2025", resp.ConfirmToken); !models.IsValidation(err) {
		t.Errorf("Expected ValidationError for cross-target token, got %v", err)
	}
}

func TestRequestDeleteMissingContest(t *testing.T) {
	svc, ctx := newContestService(t)

	if _, err := svc.RequestDelete(ctx, admin, "no-such"); !models.IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}
