// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the on-disk schema version and applies ordered migrations.

# Migrations

SQL files under migrations/ are embedded into the binary and applied at
startup via golang-migrate:

	if err := db.Migrate(conn); err != nil {
		// fatal: never run against a partially migrated schema
	}

Each numbered step runs in its own transaction. A failing step marks the
schema dirty and aborts startup; a current schema is a no-op. Fresh databases
apply the full chain from version 0.

# Schema

	contests 1──* submissions 1──* votes
	audit_log (references by snapshot, owns nothing)

All foreign keys use ON DELETE CASCADE, so deleting a contest removes its
submissions and their votes in the same statement.

Uniqueness and row-count invariants live in the schema, not only in
application code:

  - UNIQUE (contest_id, user_id, url) on submissions
  - PRIMARY KEY (submission_id, voter_id) on votes
  - trg_submission_limit rejects inserts past the contest's per-user limit
    inside the inserting transaction

# Version Marker

golang-migrate keeps the schema-version marker in its schema_migrations
table, including the dirty flag consulted by Version.
*/
package db
