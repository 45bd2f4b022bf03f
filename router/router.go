// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/trackclash/cliparse"
	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/handlers"
	"github.com/danielhkuo/trackclash/middleware"
	"github.com/danielhkuo/trackclash/store"
)

// Services bundles the engine services the router binds to endpoints.
type Services struct {
	Contests    *engine.ContestService
	Submissions *engine.SubmissionService
	Votes       *engine.VoteService
}

func NewRouter(svcs Services, st *store.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	contestHandler := handlers.NewContestHandler(svcs.Contests, cfg)
	submissionHandler := handlers.NewSubmissionHandler(svcs.Submissions, cfg)
	voteHandler := handlers.NewVoteHandler(svcs.Votes, cfg)
	auditHandler := handlers.NewAuditHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Contest management (admin operations)
	mux.HandleFunc("POST /contests", middleware.WithLogging(contestHandler.CreateContest))
	mux.HandleFunc("PATCH /contests/{id}", middleware.WithLogging(contestHandler.EditContest))
	mux.HandleFunc("POST /contests/{id}/delete-request", middleware.WithLogging(contestHandler.RequestDelete))
	mux.HandleFunc("POST /contests/{id}/delete-confirm", middleware.WithLogging(contestHandler.ConfirmDelete))

	// Contest reads (public)
	mux.HandleFunc("GET /contests", middleware.WithLogging(contestHandler.ListContests))
	mux.HandleFunc("GET /contests/{id}", middleware.WithLogging(contestHandler.GetContest))
	mux.HandleFunc("GET /contests/{id}/stats", middleware.WithLogging(contestHandler.GetStats))
	mux.HandleFunc("GET /contests/{id}/leaderboard", middleware.WithLogging(contestHandler.GetLeaderboard))

	// Submissions
	mux.HandleFunc("POST /contests/{id}/submissions", middleware.WithLogging(submissionHandler.Submit))
	mux.HandleFunc("GET /contests/{id}/submissions", middleware.WithLogging(submissionHandler.ListSubmissions))
	mux.HandleFunc("DELETE /submissions/{id}", middleware.WithLogging(submissionHandler.DeleteSubmission))

	// Votes
	mux.HandleFunc("POST /submissions/{id}/votes", middleware.WithLogging(voteHandler.CastVote))
	mux.HandleFunc("DELETE /submissions/{id}/votes", middleware.WithLogging(voteHandler.WithdrawVote))

	// Operational (admin)
	mux.HandleFunc("GET /integrity", middleware.WithLogging(contestHandler.VerifyIntegrity))
	mux.HandleFunc("GET /audit", middleware.WithLogging(auditHandler.ListAudit))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("trackclash API v1"))
	})

	return mux
}
