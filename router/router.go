// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/encuesta/cliparse"
	"github.com/danielhkuo/encuesta/columns"
	"github.com/danielhkuo/encuesta/db"
	"github.com/danielhkuo/encuesta/handlers"
	"github.com/danielhkuo/encuesta/metrics"
	"github.com/danielhkuo/encuesta/middleware"
)

// Banner is the body served on GET /.
const Banner = "encuesta API v1"

func NewRouter(store *db.Store, cfg cliparse.Config, catalog columns.Catalog) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(store, cfg)
	surveyHandler := handlers.NewSurveyHandler(store, cfg, catalog)
	dashboardHandler := handlers.NewDashboardHandler(store, catalog)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(pattern, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Session
	handle("POST /login", sessionHandler.Login)

	// Survey (requires X-Session-Token except for /columns)
	handle("GET /columns", surveyHandler.Columns)
	handle("GET /municipalities/me", surveyHandler.GetMine)
	handle("POST /municipalities/me/edits", surveyHandler.ApplyEdits)

	// Overview
	handle("GET /dashboard", dashboardHandler.Summary)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return mux
}
