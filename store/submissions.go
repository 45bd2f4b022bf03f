// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/danielhkuo/trackclash/models"
)

const submissionColumns = `submission_id, contest_id, user_id, user_name, song_name, platform, url,
       meta_title, meta_author, meta_thumbnail, public_ref, public_post_ref, review_post_ref, created_at`

func scanSubmission(row interface{ Scan(...any) error }) (*models.Submission, error) {
	var sub models.Submission
	var title, author, thumb sql.NullString
	err := row.Scan(
		&sub.ID, &sub.ContestID, &sub.UserID, &sub.UserName, &sub.SongName, &sub.Platform, &sub.URL,
		&title, &author, &thumb, &sub.PublicRef, &sub.PublicPostRef, &sub.ReviewPostRef, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if title.Valid || author.Valid || thumb.Valid {
		sub.Metadata = &models.TrackMetadata{
			Title:     title.String,
			Author:    author.String,
			Thumbnail: thumb.String,
		}
	}
	return &sub, nil
}

func getSubmission(ctx context.Context, q querier, id int64) (*models.Submission, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions WHERE submission_id = ?
	`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "submission", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, classify(err)
	}
	return sub, nil
}

// GetSubmission returns a submission by surrogate id or a NotFoundError.
func (s *Store) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	return getSubmission(ctx, s.db, id)
}

func (t *Tx) GetSubmission(id int64) (*models.Submission, error) {
	return getSubmission(t.ctx, t.tx, id)
}

// ListSubmissions returns a contest's submissions ordered by creation time.
func (s *Store) ListSubmissions(ctx context.Context, contestID string) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions WHERE contest_id = ?
		ORDER BY created_at, submission_id
	`, contestID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, classify(err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// CountUserSubmissions returns the submitter's live submission count for a
// contest, observed within the transaction.
func (t *Tx) CountUserSubmissions(contestID, userID string) (int, error) {
	var count int
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT COUNT(*) FROM submissions WHERE contest_id = ? AND user_id = ?
	`, contestID, userID).Scan(&count)
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

// InsertSubmission creates the row and fills in sub.ID. The schema enforces
// the (contest, user, url) uniqueness and the per-user limit trigger inside
// this same transaction, so two racing submits cannot both slip through.
func (t *Tx) InsertSubmission(sub *models.Submission) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	var title, author, thumb sql.NullString
	if m := sub.Metadata; m != nil {
		title = sql.NullString{String: m.Title, Valid: m.Title != ""}
		author = sql.NullString{String: m.Author, Valid: m.Author != ""}
		thumb = sql.NullString{String: m.Thumbnail, Valid: m.Thumbnail != ""}
	}

	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO submissions (contest_id, user_id, user_name, song_name, platform, url,
		                         meta_title, meta_author, meta_thumbnail,
		                         public_ref, public_post_ref, review_post_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ContestID, sub.UserID, sub.UserName, sub.SongName, sub.Platform, sub.URL,
		title, author, thumb, sub.PublicRef, sub.PublicPostRef, sub.ReviewPostRef, sub.CreatedAt)
	if err != nil {
		ce := classify(err)
		if models.IsConflict(ce) {
			var conflict *models.ConflictError
			if errors.As(ce, &conflict) && conflict.Reason == "already exists" {
				return &models.ConflictError{Reason: "you already submitted this URL to this contest"}
			}
		}
		return ce
	}
	id, err := res.LastInsertId()
	if err != nil {
		return classify(err)
	}
	sub.ID = id
	return nil
}

// SetPostRefs backfills the opaque post references returned by the
// post-rendering collaborator after the submission committed.
func (s *Store) SetPostRefs(ctx context.Context, id int64, publicRef, reviewRef string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET public_post_ref = ?, review_post_ref = ?
		WHERE submission_id = ?
	`, publicRef, reviewRef, id)
	return classify(err)
}

// SetMetadata backfills fetched metadata on an existing submission. The only
// in-place update submissions ever receive.
func (s *Store) SetMetadata(ctx context.Context, id int64, m *models.TrackMetadata) error {
	if m == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET meta_title = ?, meta_author = ?, meta_thumbnail = ?
		WHERE submission_id = ?
	`, m.Title, m.Author, m.Thumbnail, id)
	return classify(err)
}

// DeleteSubmission removes the row; its votes cascade with it.
func (t *Tx) DeleteSubmission(id int64) error {
	res, err := t.tx.ExecContext(t.ctx, `DELETE FROM submissions WHERE submission_id = ?`, id)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "submission", ID: strconv.FormatInt(id, 10)}
	}
	return nil
}
