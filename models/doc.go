// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain types, request/response types, the error
taxonomy, and input validation for the contest engine.

# Domain Types

  - Contest: identifier, channel bindings, allowed platforms, per-user
    submission limit, lifecycle status
  - Submission: one user's entry (URL + best-effort metadata) in a contest
  - Vote: one voter's vote on one submission (composite key)
  - AuditLogEntry: append-only record with a denormalized target snapshot
  - LeaderboardEntry, ContestStats, IntegrityReport: read-model types

# Status Lifecycle

	StatusActive -> StatusVoting -> StatusClosed

active -> closed is also legal. No transition leaves closed; a contest that
should run again is recreated under a new identifier.

# Error Taxonomy

Each failure mode has a distinct type so callers can render distinct feedback:

  - ValidationError: malformed input, message safe to show verbatim
  - ConflictError: duplicates, limits, illegal transitions
  - RateLimitedError: carries a retry-after hint
  - NotFoundError: unknown contest/submission
  - NotAuthorizedError: denied by the injected authorization predicate
  - IntegrityError: storage constraint violation, reported generically
  - TransientError: lock contention / I/O hiccup, retried before surfacing

# Validation

Request structs carry go-playground/validator tags, including the custom
"contestid" and "songname" validators. The plain functions (ValidContestID,
ValidSongName, ValidURL) back those validators and are also used directly by
the engine's submission pipeline.
*/
package models
