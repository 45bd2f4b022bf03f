// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence engine: transactional CRUD and integrity
enforcement over contests, submissions, votes, and the audit log.

# Transactions

Every mutating operation runs inside WithTx:

	err := s.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.InsertVote(subID, voter); err != nil {
			return err
		}
		return tx.AppendAudit(voter, models.ActionVoteCast, target, "ok")
	})

Any error from the callback rolls the transaction back. Transient failures
(SQLITE_BUSY / SQLITE_LOCKED) retry the whole transaction with exponential
backoff up to a small bound; everything else surfaces immediately.

The DSN sets _txlock=immediate, so a write transaction takes the write lock
at BEGIN. Count checks made inside a transaction therefore cannot race a
concurrent writer; combined with the schema's UNIQUE constraints and the
submission-limit trigger, check-then-act races are closed at the storage
layer even if a controller has a bug.

# Error Mapping

Driver errors are classified into the models taxonomy: UNIQUE/PK violations
become ConflictError, the limit trigger becomes ConflictError, foreign-key
violations become IntegrityError, BUSY/LOCKED become TransientError.

# Maintenance

VerifyIntegrity scans read-only for orphans, duplicates, limit violations,
and page corruption. Vacuum and Snapshot (VACUUM INTO) share a maintenance
mutex; neither runs during startup migration because the scheduler only
starts after Migrate returns.
*/
package store
