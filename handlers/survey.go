// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/encuesta/auth"
	"github.com/danielhkuo/encuesta/cliparse"
	"github.com/danielhkuo/encuesta/columns"
	"github.com/danielhkuo/encuesta/db"
	"github.com/danielhkuo/encuesta/metrics"
	"github.com/danielhkuo/encuesta/middleware"
	"github.com/danielhkuo/encuesta/models"
	"github.com/danielhkuo/encuesta/survey"
)

type SurveyHandler struct {
	store   *db.Store
	cfg     cliparse.Config
	catalog columns.Catalog
}

func NewSurveyHandler(store *db.Store, cfg cliparse.Config, catalog columns.Catalog) *SurveyHandler {
	return &SurveyHandler{store: store, cfg: cfg, catalog: catalog}
}

// Columns handles GET /columns
func (h *SurveyHandler) Columns(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ColumnsResponse{
		Questions:   h.catalog.Questions,
		LevelColumn: h.catalog.Schema.LevelColumn,
		MaxEdits:    h.catalog.Schema.MaxEdits,
	})
}

// GetMine handles GET /municipalities/me
func (h *SurveyHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	code, ok := sessionCode(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	rec, err := h.store.Get(r.Context(), code)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Municipality not found")
		return
	}
	if err != nil {
		slog.Error("failed to query municipality", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	edits, err := h.store.EditCount(r.Context(), code)
	if err != nil {
		slog.Error("failed to count edits", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MunicipalityResponse{
		Municipality: rec,
		EditCount:    edits,
	})
}

// ApplyEdits handles POST /municipalities/me/edits
func (h *SurveyHandler) ApplyEdits(w http.ResponseWriter, r *http.Request) {
	code, ok := sessionCode(w, r, h.cfg.SessionSalt)
	if !ok {
		return
	}

	var req models.EditRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if limit := h.catalog.Schema.MaxEdits; limit > 0 && len(req.Edits) > limit {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("at most %d edits per request", limit))
		return
	}

	if h.cfg.StrictColumns {
		if msg, ok := h.unknownColumn(req.Edits); !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest, msg)
			return
		}
	}

	audit := db.EditAudit{
		IPHash:    auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSalt),
		UserAgent: r.UserAgent(),
	}

	var outcome survey.Outcome
	rec, err := h.store.Update(r.Context(), code, audit, func(current survey.Record) (survey.Record, survey.Batch, error) {
		next, o, err := survey.ApplyEdits(current, req.Edits, h.catalog.Questions, h.catalog.Schema.LevelColumn)
		if err != nil {
			return survey.Record{}, nil, err
		}
		outcome = o
		return next, written(req.Edits), nil
	})
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Municipality not found")
		return
	}
	if errors.Is(err, survey.ErrInvalidRecord) {
		slog.Error("stored municipality is invalid", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Stored record is invalid")
		return
	}
	if err != nil {
		slog.Error("failed to apply edits", "code", code, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save edits")
		return
	}

	metrics.EditsApplied.Add(float64(outcome.Applied))
	for _, d := range outcome.Diagnostics {
		metrics.Diagnostics.WithLabelValues(string(d.Kind)).Inc()
		slog.Warn("edit diagnostic", "code", code, "kind", d.Kind, "column", d.Column)
	}
	slog.Info("edits applied", "code", code, "applied", outcome.Applied, "diagnostics", len(outcome.Diagnostics))

	middleware.JSONResponse(w, http.StatusOK, models.EditResponse{
		Municipality: rec,
		Applied:      outcome.Applied,
		Diagnostics:  outcome.Diagnostics,
		Message:      editMessage(outcome),
	})
}

// unknownColumn reports the first edit naming a column that is neither a
// question nor the level column.
func (h *SurveyHandler) unknownColumn(batch survey.Batch) (string, bool) {
	level := columns.Normalize(h.catalog.Schema.LevelColumn)
	for _, e := range batch {
		col := columns.Normalize(e.Column)
		if col == "" || col == level || h.catalog.Questions.Contains(col) {
			continue
		}
		msg := fmt.Sprintf("unknown column %q", col)
		if hint, ok := h.catalog.Questions.Closest(col); ok {
			msg += fmt.Sprintf("; did you mean %q?", hint)
		}
		return msg, false
	}
	return "", true
}

// written drops the edits ApplyEdits skips, leaving those to be logged.
func written(batch survey.Batch) survey.Batch {
	out := survey.Batch{}
	for _, e := range batch {
		col := columns.Normalize(e.Column)
		if col == "" {
			continue
		}
		out = append(out, survey.Edit{Column: col, Value: e.Value})
	}
	return out
}

func editMessage(o survey.Outcome) string {
	if o.Applied == 0 {
		return "No changes to save"
	}
	msg := fmt.Sprintf("Saved %d change(s)", o.Applied)
	if n := len(o.Diagnostics); n > 0 {
		msg += fmt.Sprintf(" with %d warning(s)", n)
	}
	return msg
}
