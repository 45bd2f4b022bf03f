// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/trackclash/models"
	"github.com/danielhkuo/trackclash/store"
)

// VoteService enforces the one-vote-per-voter-per-submission rule and the
// voting-phase gate.
type VoteService struct {
	store         *store.Store
	votingEnabled bool
	allowSelfVote bool
}

func NewVoteService(s *store.Store, votingEnabled, allowSelfVote bool) *VoteService {
	return &VoteService{
		store:         s,
		votingEnabled: votingEnabled,
		allowSelfVote: allowSelfVote,
	}
}

// Cast records a vote. The submission's contest must be in voting status, and
// a voter holds at most one vote per submission. Returns the submission's
// vote count after the cast.
func (svc *VoteService) Cast(ctx context.Context, actor Actor, submissionID int64) (*models.VoteResponse, error) {
	if !svc.votingEnabled {
		return nil, &models.ConflictError{Reason: "voting is disabled"}
	}

	err := svc.store.WithTx(ctx, func(tx *store.Tx) error {
		sub, err := tx.GetSubmission(submissionID)
		if err != nil {
			return err
		}
		contest, err := tx.GetContest(sub.ContestID)
		if err != nil {
			return err
		}
		if contest.Status != models.StatusVoting {
			return &models.ConflictError{Reason: "contest is not in voting phase (status: " + contest.Status + ")"}
		}
		if !svc.allowSelfVote && sub.UserID == actor.ID {
			return &models.ConflictError{Reason: "you cannot vote on your own submission"}
		}
		if err := tx.InsertVote(submissionID, actor.ID); err != nil {
			return err
		}
		target := map[string]any{
			"submission_id": submissionID,
			"contest_id":    sub.ContestID,
		}
		return tx.AppendAudit(actor.ID, models.ActionVoteCast, target, "ok")
	})
	if err != nil {
		return nil, err
	}

	count, err := svc.store.CountVotes(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	slog.Info("vote cast", "submission_id", submissionID, "vote_count", count)
	return &models.VoteResponse{SubmissionID: submissionID, VoteCount: count}, nil
}

// Withdraw removes the actor's vote on a submission. Withdrawing a vote that
// does not exist is a no-op, not an error; a later re-cast carries a fresh
// timestamp.
func (svc *VoteService) Withdraw(ctx context.Context, actor Actor, submissionID int64) (*models.VoteResponse, error) {
	if !svc.votingEnabled {
		return nil, &models.ConflictError{Reason: "voting is disabled"}
	}

	err := svc.store.WithTx(ctx, func(tx *store.Tx) error {
		sub, err := tx.GetSubmission(submissionID)
		if err != nil {
			return err
		}
		existed, err := tx.DeleteVote(submissionID, actor.ID)
		if err != nil {
			return err
		}
		if !existed {
			return nil
		}
		target := map[string]any{
			"submission_id": submissionID,
			"contest_id":    sub.ContestID,
		}
		return tx.AppendAudit(actor.ID, models.ActionVoteWithdraw, target, "ok")
	})
	if err != nil {
		return nil, err
	}

	count, err := svc.store.CountVotes(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return &models.VoteResponse{SubmissionID: submissionID, VoteCount: count}, nil
}
