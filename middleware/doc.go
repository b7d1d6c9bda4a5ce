// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /columns", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms) under a request ID. The ID is taken from X-Request-ID when
the client sends one and generated otherwise; it is echoed back in the
same header.

# Metrics

WithMetrics counts requests and observes latency under a route label:

	middleware.WithMetrics("GET /columns", handler)

Pass the mux pattern, not the raw path, to keep label cardinality bounded.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type,
Authorization, X-Session-Token, X-Request-ID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.EditRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr. The result is
hashed before it is written to the edit log.
*/
package middleware
