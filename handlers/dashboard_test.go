// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/encuesta/models"
	"github.com/danielhkuo/encuesta/testutil"
)

func TestDashboardSummary(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		handler := NewDashboardHandler(store, testutil.GetTestCatalog())

		w := httptest.NewRecorder()
		handler.Summary(w, httptest.NewRequest("GET", "/dashboard", nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.DashboardResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.MunicipalityCount != 0 || resp.LevelDefined != 0 || resp.AverageLevel != nil {
			t.Errorf("Expected empty summary, got %+v", resp)
		}
		if len(resp.Preview) != 0 {
			t.Errorf("Expected empty preview, got %+v", resp.Preview)
		}
	})

	t.Run("seeded", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		testutil.SeedMunicipalities(t, store)
		handler := NewDashboardHandler(store, testutil.GetTestCatalog())

		w := httptest.NewRecorder()
		handler.Summary(w, httptest.NewRequest("GET", "/dashboard", nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.DashboardResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.MunicipalityCount != 2 {
			t.Errorf("Expected 2 municipalities, got %d", resp.MunicipalityCount)
		}
		if resp.QuestionCount != 3 {
			t.Errorf("Expected 3 questions, got %d", resp.QuestionCount)
		}
		if resp.LevelDefined != 1 || resp.AverageLevel == nil || *resp.AverageLevel != 40 {
			t.Errorf("Unexpected level summary %d %v", resp.LevelDefined, resp.AverageLevel)
		}

		want := []models.PreviewRow{
			{Code: "001", Name: "Villa", Answers: map[string]string{"P1. Formación digital": "Básico"}},
			{Code: "002", Name: "Aldea", Answers: map[string]string{"P2_INFRA": "Limitada"}},
		}
		if diff := cmp.Diff(want, resp.Preview); diff != "" {
			t.Errorf("preview mismatch (-want +got):\n%s", diff)
		}
	})
}
