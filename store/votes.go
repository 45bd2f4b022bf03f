// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"time"

	"github.com/danielhkuo/trackclash/models"
)

// InsertVote records one vote. The composite primary key turns a duplicate
// cast into a ConflictError, so "already voted" is decided by the storage
// layer inside the same transaction as the insert.
func (t *Tx) InsertVote(submissionID int64, voterID string) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO votes (submission_id, voter_id, created_at)
		VALUES (?, ?, ?)
	`, submissionID, voterID, time.Now().UTC())
	if err != nil {
		ce := classify(err)
		if models.IsConflict(ce) {
			return &models.ConflictError{Reason: "already voted on this submission"}
		}
		return ce
	}
	return nil
}

// DeleteVote withdraws a vote. Reports whether a vote existed; deleting a
// missing vote is not an error.
func (t *Tx) DeleteVote(submissionID int64, voterID string) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx, `
		DELETE FROM votes WHERE submission_id = ? AND voter_id = ?
	`, submissionID, voterID)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}

// CountVotes returns the vote tally for one submission.
func (s *Store) CountVotes(ctx context.Context, submissionID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM votes WHERE submission_id = ?
	`, submissionID).Scan(&count)
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

// Leaderboard ranks a contest's submissions by vote count descending, ties
// broken by earliest submission. Deterministic for a fixed database state.
func (s *Store) Leaderboard(ctx context.Context, contestID string) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sub.submission_id, sub.song_name, sub.platform, sub.public_ref, COUNT(v.voter_id)
		FROM submissions sub
		LEFT JOIN votes v ON v.submission_id = sub.submission_id
		WHERE sub.contest_id = ?
		GROUP BY sub.submission_id
		ORDER BY COUNT(v.voter_id) DESC, sub.created_at ASC, sub.submission_id ASC
	`, contestID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.SubmissionID, &e.SongName, &e.Platform, &e.PublicRef, &e.VoteCount); err != nil {
			return nil, classify(err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
