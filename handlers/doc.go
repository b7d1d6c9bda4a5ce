// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the encuesta API.

# Handler Types

Each handler is a struct with its dependencies:

  - SessionHandler: code login
  - SurveyHandler: column listing, the caller's record and edit batches
  - DashboardHandler: overview counts and preview

	surveyHandler := handlers.NewSurveyHandler(store, cfg, catalog)

# Sessions

	POST /login {code} → session_token

Later requests send the token in X-Session-Token. The code inside it
selects the record; a record that no longer exists gives 404.

# Edits

	POST /municipalities/me/edits {edits: [{column, value}, ...]}

At most max_edits pairs per request. Pairs are merged with
survey.ApplyEdits inside db.Store.Update and each written pair is logged.
Unknown columns are saved with a warning and a suggested column name; with
-strict they are rejected with 400 instead.
*/
package handlers
