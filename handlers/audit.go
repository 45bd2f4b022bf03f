// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/trackclash/auth"
	"github.com/danielhkuo/trackclash/cliparse"
	"github.com/danielhkuo/trackclash/middleware"
	"github.com/danielhkuo/trackclash/store"
)

type AuditHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewAuditHandler(s *store.Store, cfg cliparse.Config) *AuditHandler {
	return &AuditHandler{store: s, cfg: cfg}
}

// ListAudit handles GET /audit
// Returns the most recent audit entries, newest first. Admin only.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminToken(r.Header.Get("X-Admin-Token"), h.cfg.AdminToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.store.ListAudit(r.Context(), limit)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}
