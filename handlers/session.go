// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/encuesta/auth"
	"github.com/danielhkuo/encuesta/cliparse"
	"github.com/danielhkuo/encuesta/db"
	"github.com/danielhkuo/encuesta/middleware"
	"github.com/danielhkuo/encuesta/models"
)

type SessionHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewSessionHandler(store *db.Store, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{store: store, cfg: cfg}
}

// Login handles POST /login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}

	rec, err := h.store.Get(r.Context(), code)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown municipality code")
		return
	}
	if err != nil {
		slog.Error("failed to query municipality", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("municipality logged in", "code", rec.Code)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		SessionToken: auth.GenerateSessionToken(rec.Code, h.cfg.SessionSalt),
		Code:         rec.Code,
		Name:         rec.Name,
	})
}

// sessionCode returns the municipality code carried by the request's
// session token, or writes a 401 and returns false.
func sessionCode(w http.ResponseWriter, r *http.Request, salt string) (string, bool) {
	token := r.Header.Get(models.SessionHeader)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Session token required")
		return "", false
	}
	code, err := auth.ValidateSessionToken(token, salt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid session token")
		return "", false
	}
	return code, true
}
