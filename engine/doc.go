// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine implements the contest lifecycle, the submission pipeline, and
voting, on top of the store package.

# Services

Three services split the surface by entity:

  - ContestService: create/edit/two-step delete, reads, stats, leaderboard,
    integrity scan
  - SubmissionService: the submit pipeline and submission deletion
  - VoteService: cast and withdraw

Each service takes its collaborators at construction and performs every
mutation inside a single store transaction together with its audit entry, so
the audit log never references an operation that rolled back.

# Collaborators

The engine is platform-agnostic. Identity arrives as an Actor, authorization
as an AuthorizeFunc, metadata as a MetadataFetcher, and public/review post
rendering as a Poster. Posting failures are logged and never fail the
submission; the post references are backfilled when the collaborator
succeeds.

# The submit pipeline

Submit checks in a fixed order: contest status, rate limit, song name, URL
and platform, contest allow-list, per-user limit, duplicate URL. The last
two are re-enforced by schema constraints inside the insert transaction, so
concurrent submits cannot exceed a limit or duplicate a URL.
*/
package engine
