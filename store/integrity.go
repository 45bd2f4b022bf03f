// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/trackclash/models"
)

// integrityChecks are read-only scans for conditions the schema should make
// impossible. Each query returns a count of violating rows.
var integrityChecks = []struct {
	name  string
	query string
}{
	{
		"orphaned submissions",
		`SELECT COUNT(*) FROM submissions s
		 LEFT JOIN contests c ON s.contest_id = c.contest_id
		 WHERE c.contest_id IS NULL`,
	},
	{
		"orphaned votes",
		`SELECT COUNT(*) FROM votes v
		 LEFT JOIN submissions s ON v.submission_id = s.submission_id
		 WHERE s.submission_id IS NULL`,
	},
	{
		"duplicate submission URLs",
		`SELECT COUNT(*) FROM (
		   SELECT 1 FROM submissions
		   GROUP BY contest_id, user_id, url HAVING COUNT(*) > 1
		 )`,
	},
	{
		"duplicate votes",
		`SELECT COUNT(*) FROM (
		   SELECT 1 FROM votes
		   GROUP BY submission_id, voter_id HAVING COUNT(*) > 1
		 )`,
	},
	{
		"submission limit violations",
		`SELECT COUNT(*) FROM (
		   SELECT s.contest_id, s.user_id FROM submissions s
		   JOIN contests c ON s.contest_id = c.contest_id
		   GROUP BY s.contest_id, s.user_id
		   HAVING COUNT(*) > MAX(c.submission_limit)
		 )`,
	},
	{
		"invalid contest statuses",
		`SELECT COUNT(*) FROM contests
		 WHERE status NOT IN ('active', 'voting', 'closed')`,
	},
}

// VerifyIntegrity scans for orphaned rows and constraint violations and
// reports them without modifying data. A healthy database yields an empty
// violation list.
func (s *Store) VerifyIntegrity(ctx context.Context) (*models.IntegrityReport, error) {
	report := &models.IntegrityReport{
		CheckedAt:  time.Now().UTC(),
		Violations: []string{},
	}

	for _, check := range integrityChecks {
		var count int
		if err := s.db.QueryRowContext(ctx, check.query).Scan(&count); err != nil {
			return nil, classify(err)
		}
		if count > 0 {
			report.Violations = append(report.Violations,
				fmt.Sprintf("%s: %d row(s)", check.name, count))
		}
	}

	// SQLite's own page-level check. Returns the single row "ok" when clean.
	var result string
	if err := s.db.QueryRowContext(ctx, `PRAGMA integrity_check(1)`).Scan(&result); err != nil {
		return nil, classify(err)
	}
	if result != "ok" {
		report.Violations = append(report.Violations, "integrity_check: "+result)
	}

	// Foreign-key scan catches anything the LEFT JOIN checks missed.
	rows, err := s.db.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	fkViolations := 0
	for rows.Next() {
		fkViolations++
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	if fkViolations > 0 {
		report.Violations = append(report.Violations,
			fmt.Sprintf("foreign_key_check: %d row(s)", fkViolations))
	}

	return report, nil
}
