// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/encuesta/columns"
	"github.com/danielhkuo/encuesta/db"
	"github.com/danielhkuo/encuesta/middleware"
	"github.com/danielhkuo/encuesta/models"
)

// previewSize is how many municipalities the dashboard previews.
const previewSize = 10

type DashboardHandler struct {
	store   *db.Store
	catalog columns.Catalog
}

func NewDashboardHandler(store *db.Store, catalog columns.Catalog) *DashboardHandler {
	return &DashboardHandler{store: store, catalog: catalog}
}

// Summary handles GET /dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.store.Count(ctx)
	if err != nil {
		slog.Error("failed to count municipalities", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	defined, avg, err := h.store.LevelStats(ctx)
	if err != nil {
		slog.Error("failed to compute level stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	records, err := h.store.List(ctx, previewSize)
	if err != nil {
		slog.Error("failed to list municipalities", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	preview := make([]models.PreviewRow, 0, len(records))
	for _, rec := range records {
		row := models.PreviewRow{Code: rec.Code, Name: rec.Name, Answers: map[string]string{}}
		for _, q := range h.catalog.Questions {
			if v, ok := rec.Answers[q]; ok {
				row.Answers[q] = v
			}
		}
		preview = append(preview, row)
	}

	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{
		MunicipalityCount: count,
		QuestionCount:     len(h.catalog.Questions),
		Questions:         h.catalog.Questions,
		LevelDefined:      defined,
		AverageLevel:      avg,
		Preview:           preview,
	})
}
