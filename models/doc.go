// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

  - LoginRequest: code
  - EditRequest: edits ([{column, value}])

# Response Types

  - LoginResponse: session_token, code, name
  - MunicipalityResponse: municipality, edit_count
  - EditResponse: municipality, applied, diagnostics, message
  - ColumnsResponse: questions, level_column, max_edits
  - DashboardResponse: counts, questions, level summary, preview
  - ErrorResponse: error, message

Records, edits and diagnostics are the survey package types and are
serialized as-is.

Session tokens travel in the X-Session-Token header (SessionHeader).
*/
package models
