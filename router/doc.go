// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the encuesta API.

	mux := router.NewRouter(store, cfg, catalog)

# Endpoints

	GET  /health                   - Liveness
	GET  /metrics                  - Prometheus metrics
	POST /login                    - Exchange a municipality code for a session token
	GET  /columns                  - Editable question columns
	GET  /municipalities/me        - Current record (X-Session-Token)
	POST /municipalities/me/edits  - Apply an edit batch (X-Session-Token)
	GET  /dashboard                - Counts, level summary and preview

Every API route is wrapped with request logging and per-route metrics,
labelled by its mux pattern.
*/
package router
