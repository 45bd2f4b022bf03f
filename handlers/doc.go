// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Trackclash API.

# Handler Types

Each handler is a struct with its engine service and config dependencies:

  - ContestHandler: Contest lifecycle (create, edit, two-step delete),
    stats, leaderboard, integrity scan
  - SubmissionHandler: Track submission and deletion
  - VoteHandler: Casting and withdrawing votes
  - AuditHandler: Audit log retrieval

Handlers are created via constructor functions:

	contestHandler := handlers.NewContestHandler(contestSvc, cfg)

# Identity and Authorization

The acting user arrives in X-User-ID (required for mutations) and
X-User-Name headers, set by the platform gateway in front of this service.
Admin operations additionally require the X-Admin-Token header; a valid
token marks the request context so the engine's authorization predicate
approves admin-only actions.

# Contest Lifecycle

Contests progress through three states: active → voting → closed

	POST /contests                        → CreateContest (admin)
	PATCH /contests/{id}                  → EditContest (admin, incl. status)
	POST /contests/{id}/delete-request    → RequestDelete (returns handle)
	POST /contests/{id}/delete-confirm    → ConfirmDelete (presents handle)

Deleting is two-step: the first call returns a confirmation handle with a
short expiry, the second presents it back. Nothing pends server-side.

# Submitting and Voting

	POST /contests/{id}/submissions   → Submit (active contests only)
	DELETE /submissions/{id}          → DeleteSubmission (owner or admin)
	POST /submissions/{id}/votes      → CastVote (voting contests only)
	DELETE /submissions/{id}/votes    → WithdrawVote (no-op if absent)

Submission responses expose the anonymized public reference, never the
submitter's identity.

# Error Mapping

Engine errors map to status codes in middleware.WriteError: validation 400,
not found 404, not authorized 403, conflict 409, rate limited 429 with a
Retry-After header, everything else 500.
*/
package handlers
