// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/encuesta/auth"
	"github.com/danielhkuo/encuesta/cliparse"
	"github.com/danielhkuo/encuesta/columns"
	"github.com/danielhkuo/encuesta/db"
	"github.com/danielhkuo/encuesta/models"
	"github.com/danielhkuo/encuesta/survey"
)

// TestHeaders is the header row stored by SeedMunicipalities.
var TestHeaders = []string{
	"AYUNTAMIENTO",
	"Municipio",
	"P1. Formación digital",
	"P2_INFRA",
	"P3. Sede electrónica",
	"Nivel de digitalización (%)",
}

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in t.TempDir() and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "encuesta.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// SetupTestStore returns a Store over a fresh test database.
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t), db.TypeSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		StoreConfig: cliparse.StoreConfig{
			DatabaseURL:  "test.db",
			DatabaseType: db.TypeSQLite,
		},
		Port:        3318,
		SessionSalt: "test-session-salt",
	}
}

// GetTestCatalog classifies TestHeaders with the default schema.
func GetTestCatalog() columns.Catalog {
	return columns.NewCatalog(TestHeaders, columns.DefaultSchema())
}

// SeedMunicipalities imports two municipalities: 001 Villa with level 40
// and 002 Aldea with no level.
func SeedMunicipalities(t *testing.T, store *db.Store) []survey.Record {
	t.Helper()

	level := 40.0
	records := []survey.Record{
		{
			Code:  "001",
			Name:  "Villa",
			Level: &level,
			Answers: map[string]string{
				"AYUNTAMIENTO":                "Villa",
				"P1. Formación digital":       "Básico",
				"Nivel de digitalización (%)": "40",
			},
			State: survey.StateImported,
		},
		{
			Code:    "002",
			Name:    "Aldea",
			Answers: map[string]string{"AYUNTAMIENTO": "Aldea", "P2_INFRA": "Limitada"},
			State:   survey.StateImported,
		},
	}

	if _, err := store.ReplaceAll(context.Background(), "testutil", TestHeaders, records); err != nil {
		t.Fatalf("Failed to seed municipalities: %v", err)
	}
	return records
}

// SessionHeaders returns request headers carrying a session token for code.
func SessionHeaders(cfg cliparse.Config, code string) map[string]string {
	return map[string]string{
		models.SessionHeader: auth.GenerateSessionToken(code, cfg.SessionSalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
