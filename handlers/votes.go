// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/trackclash/cliparse"
	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/middleware"
)

type VoteHandler struct {
	svc *engine.VoteService
	cfg cliparse.Config
}

func NewVoteHandler(svc *engine.VoteService, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{svc: svc, cfg: cfg}
}

// CastVote handles POST /submissions/{id}/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	actor, err := middleware.RequireActor(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Cast(r.Context(), actor, id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// WithdrawVote handles DELETE /submissions/{id}/votes
func (h *VoteHandler) WithdrawVote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	actor, err := middleware.RequireActor(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Withdraw(r.Context(), actor, id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
