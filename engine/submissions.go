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
	"github.com/danielhkuo/trackclash/ratelimit"
	"github.com/danielhkuo/trackclash/store"
)

// SubmissionService runs the submit pipeline and owns submission deletion.
type SubmissionService struct {
	store        *store.Store
	limiter      *ratelimit.Limiter
	fetcher      MetadataFetcher
	poster       Poster
	authorize    AuthorizeFunc
	fetchTimeout time.Duration
}

func NewSubmissionService(s *store.Store, limiter *ratelimit.Limiter, fetcher MetadataFetcher, poster Poster, authorize AuthorizeFunc, fetchTimeout time.Duration) *SubmissionService {
	if poster == nil {
		poster = NopPoster{}
	}
	return &SubmissionService{
		store:        s,
		limiter:      limiter,
		fetcher:      fetcher,
		poster:       poster,
		authorize:    authorize,
		fetchTimeout: fetchTimeout,
	}
}

// Submit runs the validation pipeline in a fixed order so the caller always
// sees the earliest applicable rejection: contest state, rate limit, song
// name, URL and platform, allowed set, per-user limit, duplicate URL. The
// limit and duplicate checks also exist as schema constraints inside the
// insert transaction, so racing submits cannot both pass.
func (svc *SubmissionService) Submit(ctx context.Context, actor Actor, contestID string, req models.SubmitRequest) (*models.Submission, error) {
	contest, err := svc.store.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if contest.Status != models.StatusActive {
		return nil, &models.ConflictError{Reason: "contest is not accepting submissions (status: " + contest.Status + ")"}
	}

	if allowed, retryAfter := svc.limiter.Allow(actor.ID, models.RateActionSubmit); !allowed {
		return nil, &models.RateLimitedError{RetryAfter: retryAfter}
	}

	songName := models.CleanUserInput(req.SongName)
	if !models.ValidSongName(songName) {
		return nil, &models.ValidationError{Field: "song_name", Reason: "must be 1-100 characters"}
	}

	if !models.ValidURL(req.URL) {
		return nil, &models.ValidationError{Field: "url", Reason: "must be a valid http(s) URL"}
	}
	platform, ok := platforms.Resolve(req.URL)
	if !ok {
		return nil, &models.ValidationError{Field: "url", Reason: "unrecognized music platform"}
	}
	if !platformAllowed(contest.AllowedPlatforms, platform) {
		return nil, &models.ValidationError{Field: "url", Reason: platform + " is not allowed in this contest"}
	}

	// Fetch before opening the transaction so a slow upstream cannot hold a
	// write lock. Failure degrades to a submission without metadata.
	meta := svc.fetchMetadata(ctx, req.URL)

	sub := &models.Submission{
		ContestID: contestID,
		UserID:    actor.ID,
		UserName:  actor.Name,
		SongName:  songName,
		Platform:  platform,
		URL:       req.URL,
		Metadata:  meta,
		PublicRef: auth.NewPublicRef(),
		CreatedAt: time.Now().UTC(),
	}

	err = svc.store.WithTx(ctx, func(tx *store.Tx) error {
		// Re-read inside the transaction: status may have flipped since the
		// pre-check.
		c, err := tx.GetContest(contestID)
		if err != nil {
			return err
		}
		if c.Status != models.StatusActive {
			return &models.ConflictError{Reason: "contest is not accepting submissions (status: " + c.Status + ")"}
		}
		count, err := tx.CountUserSubmissions(contestID, actor.ID)
		if err != nil {
			return err
		}
		if count >= c.SubmissionLimit {
			return &models.ConflictError{Reason: "submission limit reached"}
		}
		if err := tx.InsertSubmission(sub); err != nil {
			return err
		}
		return tx.AppendAudit(actor.ID, models.ActionSubmissionCreate, sub, "ok")
	})
	if err != nil {
		return nil, err
	}

	// Post rendering happens after commit; the submission stands even if the
	// posting backend is down.
	publicRef, reviewRef, perr := svc.poster.CreatePosts(ctx, contest, sub)
	if perr != nil {
		slog.Warn("post rendering failed", "submission_id", sub.ID, "error", perr)
	} else if publicRef != "" || reviewRef != "" {
		sub.PublicPostRef = publicRef
		sub.ReviewPostRef = reviewRef
		if err := svc.store.SetPostRefs(ctx, sub.ID, publicRef, reviewRef); err != nil {
			slog.Warn("post ref backfill failed", "submission_id", sub.ID, "error", err)
		}
	}

	slog.Info("submission accepted",
		"contest_id", contestID, "submission_id", sub.ID,
		"platform", platform, "public_ref", sub.PublicRef)
	return sub, nil
}

// Delete removes a submission. Allowed for the submitter and for actors the
// authorization predicate approves; everyone is subject to the deletion rate
// limit.
func (svc *SubmissionService) Delete(ctx context.Context, actor Actor, submissionID int64) error {
	sub, err := svc.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.UserID != actor.ID && !svc.authorize(ctx, actor, sub.ContestID, models.ActionSubmissionDelete) {
		return &models.NotAuthorizedError{Reason: "you may only delete your own submissions"}
	}

	if allowed, retryAfter := svc.limiter.Allow(actor.ID, models.RateActionDelete); !allowed {
		return &models.RateLimitedError{RetryAfter: retryAfter}
	}

	err = svc.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.DeleteSubmission(submissionID); err != nil {
			return err
		}
		// Snapshot of the deleted row; the row itself is gone.
		target := map[string]any{
			"submission_id": sub.ID,
			"contest_id":    sub.ContestID,
			"song_name":     sub.SongName,
			"platform":      sub.Platform,
			"url":           sub.URL,
			"public_ref":    sub.PublicRef,
		}
		return tx.AppendAudit(actor.ID, models.ActionSubmissionDelete, target, "ok")
	})
	if err != nil {
		return err
	}

	if sub.PublicPostRef != "" || sub.ReviewPostRef != "" {
		contest, cerr := svc.store.GetContest(ctx, sub.ContestID)
		if cerr == nil {
			if perr := svc.poster.DeletePosts(ctx, contest, sub.PublicPostRef, sub.ReviewPostRef); perr != nil {
				slog.Warn("post removal failed", "submission_id", submissionID, "error", perr)
			}
		}
	}

	slog.Info("submission deleted", "submission_id", submissionID, "contest_id", sub.ContestID, "actor", actor.ID)
	return nil
}

// Get returns one submission.
func (svc *SubmissionService) Get(ctx context.Context, submissionID int64) (*models.Submission, error) {
	return svc.store.GetSubmission(ctx, submissionID)
}

// List returns a contest's submissions in creation order.
func (svc *SubmissionService) List(ctx context.Context, contestID string) ([]models.Submission, error) {
	if _, err := svc.store.GetContest(ctx, contestID); err != nil {
		return nil, err
	}
	return svc.store.ListSubmissions(ctx, contestID)
}

func (svc *SubmissionService) fetchMetadata(ctx context.Context, url string) *models.TrackMetadata {
	if svc.fetcher == nil {
		return nil
	}
	fctx, cancel := context.WithTimeout(ctx, svc.fetchTimeout)
	defer cancel()
	meta, err := svc.fetcher.Fetch(fctx, url)
	if err != nil {
		slog.Warn("metadata fetch failed", "url", url, "error", err)
		return nil
	}
	return meta
}

// platformAllowed treats an empty allow-list as "all known platforms".
func platformAllowed(allowed []string, platform string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, p := range allowed {
		if p == platform {
			return true
		}
	}
	return false
}
