// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/trackclash/models"
)

const contestColumns = `contest_id, public_channel, review_channel, allowed_platforms,
       submission_limit, status, description, created_at, created_by`

func scanContest(row interface{ Scan(...any) error }) (*models.Contest, error) {
	var c models.Contest
	var platforms string
	err := row.Scan(
		&c.ID, &c.PublicChannel, &c.ReviewChannel, &platforms,
		&c.SubmissionLimit, &c.Status, &c.Description, &c.CreatedAt, &c.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if platforms != "" {
		c.AllowedPlatforms = strings.Split(platforms, ",")
	}
	return &c, nil
}

func getContest(ctx context.Context, q querier, id string) (*models.Contest, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+contestColumns+`
		FROM contests WHERE contest_id = ?
	`, id)
	c, err := scanContest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "contest", ID: id}
	}
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

// GetContest returns a contest by identifier or a NotFoundError.
func (s *Store) GetContest(ctx context.Context, id string) (*models.Contest, error) {
	return getContest(ctx, s.db, id)
}

// GetContest reads the contest within the transaction, so status and limit
// checks observe the same snapshot the mutation will commit against.
func (t *Tx) GetContest(id string) (*models.Contest, error) {
	return getContest(t.ctx, t.tx, id)
}

// ListContests returns all contests ordered by creation time.
func (s *Store) ListContests(ctx context.Context) ([]models.Contest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contestColumns+`
		FROM contests ORDER BY created_at, contest_id
	`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	contests := []models.Contest{}
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			return nil, classify(err)
		}
		contests = append(contests, *c)
	}
	return contests, rows.Err()
}

// InsertContest creates the contest row. A duplicate identifier surfaces as
// a ConflictError via the primary key.
func (t *Tx) InsertContest(c *models.Contest) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO contests (contest_id, public_channel, review_channel, allowed_platforms,
		                      submission_limit, status, description, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.PublicChannel, c.ReviewChannel, strings.Join(c.AllowedPlatforms, ","),
		c.SubmissionLimit, c.Status, c.Description, c.CreatedAt, c.CreatedBy)
	if err != nil {
		ce := classify(err)
		if models.IsConflict(ce) {
			return &models.ConflictError{Reason: fmt.Sprintf("contest %q already exists", c.ID)}
		}
		return ce
	}
	return nil
}

// UpdateContest rewrites the mutable columns. The identifier is immutable;
// callers validate status transitions before getting here.
func (t *Tx) UpdateContest(c *models.Contest) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE contests
		SET public_channel = ?, review_channel = ?, submission_limit = ?,
		    status = ?, description = ?
		WHERE contest_id = ?
	`, c.PublicChannel, c.ReviewChannel, c.SubmissionLimit, c.Status, c.Description, c.ID)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "contest", ID: c.ID}
	}
	return nil
}

// DeleteContest removes the contest; submissions and votes go with it via
// ON DELETE CASCADE. Returns how many submissions were removed.
func (t *Tx) DeleteContest(id string) (int, error) {
	var subCount int
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT COUNT(*) FROM submissions WHERE contest_id = ?`, id).Scan(&subCount)
	if err != nil {
		return 0, classify(err)
	}

	res, err := t.tx.ExecContext(t.ctx, `DELETE FROM contests WHERE contest_id = ?`, id)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err)
	}
	if n == 0 {
		return 0, &models.NotFoundError{Kind: "contest", ID: id}
	}
	return subCount, nil
}

// ContestStats aggregates submission, participant, vote, and per-platform
// counts. Reads run outside any transaction; a consistent-as-of-start view
// is acceptable for stats.
func (s *Store) ContestStats(ctx context.Context, id string) (*models.ContestStats, error) {
	contest, err := s.GetContest(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &models.ContestStats{
		ContestID:  contest.ID,
		Status:     contest.Status,
		ByPlatform: map[string]int{},
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id)
		FROM submissions WHERE contest_id = ?
	`, id).Scan(&stats.TotalSubmissions, &stats.UniqueParticipants)
	if err != nil {
		return nil, classify(err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM votes v JOIN submissions sub ON v.submission_id = sub.submission_id
		WHERE sub.contest_id = ?
	`, id).Scan(&stats.TotalVotes)
	if err != nil {
		return nil, classify(err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, COUNT(*)
		FROM submissions WHERE contest_id = ?
		GROUP BY platform
	`, id)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	for rows.Next() {
		var platform string
		var count int
		if err := rows.Scan(&platform, &count); err != nil {
			return nil, classify(err)
		}
		stats.ByPlatform[platform] = count
	}
	return stats, rows.Err()
}
