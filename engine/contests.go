// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/trackclash/auth"
	"github.com/danielhkuo/trackclash/models"
	"github.com/danielhkuo/trackclash/platforms"
	"github.com/danielhkuo/trackclash/store"
)

// ContestService enforces the contest state machine and validates admin
// mutations.
type ContestService struct {
	store        *store.Store
	authorize    AuthorizeFunc
	confirmSalt  string
	defaultLimit int
	now          func() time.Time
}

func NewContestService(s *store.Store, authorize AuthorizeFunc, confirmSalt string, defaultLimit int) *ContestService {
	return &ContestService{
		store:        s,
		authorize:    authorize,
		confirmSalt:  confirmSalt,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// Create makes a new contest in active status. The identifier is immutable
// afterwards; a duplicate identifier is a ConflictError.
func (svc *ContestService) Create(ctx context.Context, actor Actor, req models.CreateContestRequest) (*models.Contest, error) {
	if !svc.authorize(ctx, actor, req.ContestID, models.ActionContestCreate) {
		return nil, &models.NotAuthorizedError{Reason: "only admins can create contests"}
	}
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.PublicChannel == req.ReviewChannel {
		return nil, &models.ValidationError{Field: "review_channel", Reason: "must differ from public channel"}
	}

	allowed, err := platforms.NormalizeList(req.AllowedPlatforms)
	if err != nil {
		return nil, &models.ValidationError{Field: "allowed_platforms", Reason: err.Error()}
	}

	limit := req.SubmissionLimit
	if limit == 0 {
		limit = svc.defaultLimit
	}

	contest := &models.Contest{
		ID:               req.ContestID,
		PublicChannel:    req.PublicChannel,
		ReviewChannel:    req.ReviewChannel,
		AllowedPlatforms: allowed,
		SubmissionLimit:  limit,
		Status:           models.StatusActive,
		Description:      models.CleanUserInput(req.Description),
		CreatedAt:        svc.now().UTC(),
		CreatedBy:        actor.ID,
	}

	err = svc.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.InsertContest(contest); err != nil {
			return err
		}
		return tx.AppendAudit(actor.ID, models.ActionContestCreate, contest, "ok")
	})
	if err != nil {
		return nil, err
	}

	slog.Info("contest created", "contest_id", contest.ID, "creator", actor.ID, "limit", limit)
	return contest, nil
}

// Edit applies partial changes to a contest. The identifier never changes;
// a status change must be a legal forward transition.
func (svc *ContestService) Edit(ctx context.Context, actor Actor, contestID string, req models.EditContestRequest) (*models.Contest, error) {
	if !svc.authorize(ctx, actor, contestID, models.ActionContestEdit) {
		return nil, &models.NotAuthorizedError{Reason: "only admins can edit contests"}
	}
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.PublicChannel == nil && req.ReviewChannel == nil && req.SubmissionLimit == nil &&
		req.Status == nil && req.Description == nil {
		return nil, &models.ValidationError{Reason: "nothing to edit"}
	}

	var contest *models.Contest
	err := svc.store.WithTx(ctx, func(tx *store.Tx) error {
		c, err := tx.GetContest(contestID)
		if err != nil {
			return err
		}

		if req.PublicChannel != nil {
			c.PublicChannel = *req.PublicChannel
		}
		if req.ReviewChannel != nil {
			c.ReviewChannel = *req.ReviewChannel
		}
		if c.PublicChannel == c.ReviewChannel {
			return &models.ValidationError{Field: "review_channel", Reason: "must differ from public channel"}
		}
		if req.SubmissionLimit != nil {
			c.SubmissionLimit = *req.SubmissionLimit
		}
		if req.Description != nil {
			c.Description = models.CleanUserInput(*req.Description)
		}
		if req.Status != nil {
			if !models.ValidStatusTransition(c.Status, *req.Status) {
				return &models.ConflictError{
					Reason: "cannot change status from " + c.Status + " to " + *req.Status,
				}
			}
			c.Status = *req.Status
		}

		if err := tx.UpdateContest(c); err != nil {
			return err
		}
		contest = c
		return tx.AppendAudit(actor.ID, models.ActionContestEdit, c, "ok")
	})
	if err != nil {
		return nil, err
	}

	slog.Info("contest updated", "contest_id", contestID, "actor", actor.ID)
	return contest, nil
}

// RequestDelete is step one of the two-step delete: it verifies the contest
// exists and the actor may delete it, then returns a confirmation handle.
// Nothing is deleted until ConfirmDelete presents the handle.
func (svc *ContestService) RequestDelete(ctx context.Context, actor Actor, contestID string) (*models.DeleteRequestResponse, error) {
	if !svc.authorize(ctx, actor, contestID, models.ActionContestDelete) {
		return nil, &models.NotAuthorizedError{Reason: "only admins can delete contests"}
	}
	if _, err := svc.store.GetContest(ctx, contestID); err != nil {
		return nil, err
	}

	token, expiresAt := auth.GenerateConfirmToken(models.ActionContestDelete, contestID, svc.confirmSalt, svc.now())
	return &models.DeleteRequestResponse{ConfirmToken: token, ExpiresAt: expiresAt}, nil
}

// ConfirmDelete is step two: it validates the handle and performs the
// irreversible cascade (contest, its submissions, their votes) in one
// transaction.
func (svc *ContestService) ConfirmDelete(ctx context.Context, actor Actor, contestID, token string) error {
	if !svc.authorize(ctx, actor, contestID, models.ActionContestDelete) {
		return &models.NotAuthorizedError{Reason: "only admins can delete contests"}
	}
	if err := auth.ValidateConfirmToken(token, models.ActionContestDelete, contestID, svc.confirmSalt, svc.now()); err != nil {
		return &models.ValidationError{Field: "confirm_token", Reason: err.Error()}
	}

	err := svc.store.WithTx(ctx, func(tx *store.Tx) error {
		contest, err := tx.GetContest(contestID)
		if err != nil {
			return err
		}
		subCount, err := tx.DeleteContest(contestID)
		if err != nil {
			return err
		}
		target := map[string]any{
			"contest":     contest,
			"submissions": subCount,
		}
		return tx.AppendAudit(actor.ID, models.ActionContestDelete, target, "ok")
	})
	if err != nil {
		return err
	}

	slog.Info("contest deleted", "contest_id", contestID, "actor", actor.ID)
	return nil
}

// Get returns one contest.
func (svc *ContestService) Get(ctx context.Context, contestID string) (*models.Contest, error) {
	return svc.store.GetContest(ctx, contestID)
}

// List returns all contests.
func (svc *ContestService) List(ctx context.Context) ([]models.Contest, error) {
	return svc.store.ListContests(ctx)
}

// Stats aggregates submission/participant/vote counts for a contest.
func (svc *ContestService) Stats(ctx context.Context, contestID string) (*models.ContestStats, error) {
	return svc.store.ContestStats(ctx, contestID)
}

// Leaderboard ranks submissions by votes descending, ties broken by
// earliest submission.
func (svc *ContestService) Leaderboard(ctx context.Context, contestID string) ([]models.LeaderboardEntry, error) {
	if _, err := svc.store.GetContest(ctx, contestID); err != nil {
		return nil, err
	}
	return svc.store.Leaderboard(ctx, contestID)
}

// VerifyIntegrity runs the read-only integrity scan.
func (svc *ContestService) VerifyIntegrity(ctx context.Context) (*models.IntegrityReport, error) {
	return svc.store.VerifyIntegrity(ctx)
}
