// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package backup schedules periodic database snapshots with bounded
// retention and a post-snapshot integrity scan.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/trackclash/store"
)

const snapshotPrefix = "trackclash-"

// Scheduler takes a snapshot every interval, prunes old snapshots beyond the
// retention count, and runs the integrity scan after each cycle.
type Scheduler struct {
	store     *store.Store
	dir       string
	interval  time.Duration
	retention int

	now func() time.Time
}

func NewScheduler(s *store.Store, dir string, interval time.Duration, retention int) *Scheduler {
	return &Scheduler{
		store:     s,
		dir:       dir,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Run takes one snapshot immediately, then repeats every interval until the
// context is canceled. A failed cycle is logged and does not stop the loop.
func (sch *Scheduler) Run(ctx context.Context) {
	if err := sch.RunOnce(ctx); err != nil {
		slog.Error("backup cycle failed", "error", err)
	}

	ticker := time.NewTicker(sch.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sch.RunOnce(ctx); err != nil {
				slog.Error("backup cycle failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single snapshot-prune-verify cycle.
func (sch *Scheduler) RunOnce(ctx context.Context) error {
	if err := os.MkdirAll(sch.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := snapshotPrefix + sch.now().UTC().Format("20060102-150405") + ".db"
	dest := filepath.Join(sch.dir, name)

	size, err := sch.store.Snapshot(ctx, dest)
	if err != nil {
		return err
	}
	slog.Info("snapshot written", "path", dest, "size", humanize.Bytes(uint64(size)))

	if err := sch.prune(); err != nil {
		slog.Error("snapshot pruning failed", "error", err)
	}

	report, err := sch.store.VerifyIntegrity(ctx)
	if err != nil {
		return fmt.Errorf("post-snapshot integrity scan failed: %w", err)
	}
	if !report.OK() {
		slog.Error("integrity violations detected", "count", len(report.Violations), "violations", report.Violations)
	}
	return nil
}

// prune deletes the oldest snapshots beyond the retention count. Snapshot
// names embed a sortable UTC timestamp, so lexical order is age order.
func (sch *Scheduler) prune() error {
	entries, err := os.ReadDir(sch.dir)
	if err != nil {
		return err
	}

	var snapshots []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > len(snapshotPrefix) && name[:len(snapshotPrefix)] == snapshotPrefix && filepath.Ext(name) == ".db" {
			snapshots = append(snapshots, name)
		}
	}
	if len(snapshots) <= sch.retention {
		return nil
	}

	sort.Strings(snapshots)
	for _, name := range snapshots[:len(snapshots)-sch.retention] {
		path := filepath.Join(sch.dir, name)
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to remove old snapshot", "path", path, "error", err)
			continue
		}
		slog.Info("old snapshot removed", "path", path)
	}
	return nil
}
