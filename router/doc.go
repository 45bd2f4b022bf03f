// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Trackclash API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svcs, st, cfg)

# Endpoints

Health:

	GET /health

Contest management (admin, requires X-Admin-Token):

	POST  /contests                      - Create contest
	PATCH /contests/{id}                 - Edit contest / change status
	POST  /contests/{id}/delete-request  - Get delete-confirmation handle
	POST  /contests/{id}/delete-confirm  - Delete contest (cascade)

Contest reads (public):

	GET /contests                   - List contests
	GET /contests/{id}              - Contest details
	GET /contests/{id}/stats        - Submission/participant/vote counts
	GET /contests/{id}/leaderboard  - Ranked by votes

Submissions and votes (requires X-User-ID):

	POST   /contests/{id}/submissions - Submit a track
	GET    /contests/{id}/submissions - List submissions (anonymized)
	DELETE /submissions/{id}          - Delete (owner or admin)
	POST   /submissions/{id}/votes    - Cast vote
	DELETE /submissions/{id}/votes    - Withdraw vote

Operational (admin):

	GET /integrity - Read-only integrity scan
	GET /audit     - Recent audit entries

# Handler Initialization

The router creates handler instances with dependency injection:

	contestHandler := handlers.NewContestHandler(svcs.Contests, cfg)
	submissionHandler := handlers.NewSubmissionHandler(svcs.Submissions, cfg)
	voteHandler := handlers.NewVoteHandler(svcs.Votes, cfg)
	auditHandler := handlers.NewAuditHandler(st, cfg)
*/
package router
