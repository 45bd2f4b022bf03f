// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/trackclash/auth"
	"github.com/danielhkuo/trackclash/cliparse"
	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/middleware"
	"github.com/danielhkuo/trackclash/models"
)

type ContestHandler struct {
	svc *engine.ContestService
	cfg cliparse.Config
}

func NewContestHandler(svc *engine.ContestService, cfg cliparse.Config) *ContestHandler {
	return &ContestHandler{svc: svc, cfg: cfg}
}

// CreateContest handles POST /contests
func (h *ContestHandler) CreateContest(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminToken(r.Header.Get("X-Admin-Token"), h.cfg.AdminToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
		return
	}
	actor, err := middleware.RequireActor(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.CreateContestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	contest, err := h.svc.Create(auth.ContextWithAdmin(r.Context()), actor, req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateContestResponse{
		ContestID: contest.ID,
	})
}

// EditContest handles PATCH /contests/{id}
func (h *ContestHandler) EditContest(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("id")
	if err := auth.ValidateAdminToken(r.Header.Get("X-Admin-Token"), h.cfg.AdminToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
		return
	}
	actor, err := middleware.RequireActor(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.EditContestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	contest, err := h.svc.Edit(auth.ContextWithAdmin(r.Context()), actor, contestID, req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, contest)
}

// RequestDelete handles POST /contests/{id}/delete-request
func (h *ContestHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("id")
	if err := auth.ValidateAdminToken(r.Header.Get("X-Admin-Token"), h.cfg.AdminToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
		return
	}
	actor, err := middleware.RequireActor(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.RequestDelete(auth.ContextWithAdmin(r.Context()), actor, contestID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ConfirmDelete handles POST /contests/{id}/delete-confirm
func (h *ContestHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("id")
	if err := auth.ValidateAdminToken(r.Header.Get("X-Admin-Token"), h.cfg.AdminToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
		return
	}
	actor, err := middleware.RequireActor(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		ConfirmToken string `json:"confirm_token"`
	}
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.ConfirmDelete(auth.ContextWithAdmin(r.Context()), actor, contestID, req.ConfirmToken); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListContests handles GET /contests
func (h *ContestHandler) ListContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.svc.List(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, contests)
}

// GetContest handles GET /contests/{id}
func (h *ContestHandler) GetContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, contest)
}

// GetStats handles GET /contests/{id}/stats
func (h *ContestHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}

// GetLeaderboard handles GET /contests/{id}/leaderboard
func (h *ContestHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Leaderboard(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}

// VerifyIntegrity handles GET /integrity
func (h *ContestHandler) VerifyIntegrity(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminToken(r.Header.Get("X-Admin-Token"), h.cfg.AdminToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
		return
	}

	report, err := h.svc.VerifyIntegrity(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, report)
}
