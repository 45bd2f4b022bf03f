// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/trackclash/auth"
	"github.com/danielhkuo/trackclash/cliparse"
	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/middleware"
	"github.com/danielhkuo/trackclash/models"
)

type SubmissionHandler struct {
	svc *engine.SubmissionService
	cfg cliparse.Config
}

func NewSubmissionHandler(svc *engine.SubmissionService, cfg cliparse.Config) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, cfg: cfg}
}

// Submit handles POST /contests/{id}/submissions
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	contestID := r.PathValue("id")
	actor, err := middleware.RequireActor(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SubmitRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sub, err := h.svc.Submit(r.Context(), actor, contestID, req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponse{
		SubmissionID: sub.ID,
		PublicRef:    sub.PublicRef,
		Platform:     sub.Platform,
	})
}

// ListSubmissions handles GET /contests/{id}/submissions
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, subs)
}

// DeleteSubmission handles DELETE /submissions/{id}
// Allowed for the submitter, or for an admin presenting the admin token.
func (h *SubmissionHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
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

	ctx := r.Context()
	if token := r.Header.Get("X-Admin-Token"); token != "" {
		if err := auth.ValidateAdminToken(token, h.cfg.AdminToken); err != nil {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
			return
		}
		ctx = auth.ContextWithAdmin(ctx)
	}

	if err := h.svc.Delete(ctx, actor, id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
