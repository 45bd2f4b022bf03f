// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"os"
)

// Vacuum rewrites the database file to reclaim free pages. Must not run
// while a snapshot is in flight; the maintenance mutex serializes the two.
func (s *Store) Vacuum(ctx context.Context) error {
	s.maintMu.Lock()
	defer s.maintMu.Unlock()

	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum failed: %w", classify(err))
	}
	return nil
}

// Snapshot writes a consistent copy of the database to destPath using
// VACUUM INTO, which runs against a single point-in-time view without
// blocking ordinary readers or writers. Returns the snapshot size in bytes.
func (s *Store) Snapshot(ctx context.Context, destPath string) (int64, error) {
	s.maintMu.Lock()
	defer s.maintMu.Unlock()

	// VACUUM INTO refuses to overwrite; a stale partial file from a crashed
	// run would wedge every later snapshot.
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to clear snapshot target: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, destPath); err != nil {
		return 0, fmt.Errorf("snapshot failed: %w", classify(err))
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return 0, fmt.Errorf("snapshot written but unreadable: %w", err)
	}
	return info.Size(), nil
}
