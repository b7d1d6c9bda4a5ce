// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "github.com/danielhkuo/encuesta/survey"

// SessionHeader carries the token returned by POST /login.
const SessionHeader = "X-Session-Token"

// Request types

type LoginRequest struct {
	Code string `json:"code"`
}

type EditRequest struct {
	Edits survey.Batch `json:"edits"`
}

// Response types

type LoginResponse struct {
	SessionToken string `json:"session_token"`
	Code         string `json:"code"`
	Name         string `json:"name"`
}

type MunicipalityResponse struct {
	Municipality survey.Record `json:"municipality"`
	EditCount    int           `json:"edit_count"`
}

type EditResponse struct {
	Municipality survey.Record       `json:"municipality"`
	Applied      int                 `json:"applied"`
	Diagnostics  []survey.Diagnostic `json:"diagnostics"`
	Message      string              `json:"message"`
}

type ColumnsResponse struct {
	Questions   []string `json:"questions"`
	LevelColumn string   `json:"level_column"`
	MaxEdits    int      `json:"max_edits"`
}

// PreviewRow is one municipality restricted to its name and question answers.
type PreviewRow struct {
	Code    string            `json:"code"`
	Name    string            `json:"name"`
	Answers map[string]string `json:"answers"`
}

type DashboardResponse struct {
	MunicipalityCount int          `json:"municipality_count"`
	QuestionCount     int          `json:"question_count"`
	Questions         []string     `json:"questions"`
	LevelDefined      int          `json:"level_defined"`
	AverageLevel      *float64     `json:"average_level"`
	Preview           []PreviewRow `json:"preview"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
