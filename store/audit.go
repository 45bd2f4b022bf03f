// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/danielhkuo/trackclash/models"
)

// AppendAudit writes one audit entry inside the current transaction, so the
// entry commits atomically with the mutation it records. target is
// marshalled to JSON as a snapshot of the entity's key attributes.
func (t *Tx) AppendAudit(actor, action string, target any, outcome string) error {
	snapshot, err := json.Marshal(target)
	if err != nil {
		// A target that will not marshal should not sink the mutation.
		snapshot = []byte(`{}`)
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO audit_log (actor, action, target, outcome, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, actor, action, string(snapshot), outcome, time.Now().UTC())
	return classify(err)
}

// ListAudit returns the most recent audit entries, newest first.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, target, outcome, created_at
		FROM audit_log ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Target, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, classify(err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
