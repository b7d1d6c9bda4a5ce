// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package columns

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	excluded := DefaultSchema().Excluded()

	tests := []struct {
		name    string
		headers []string
		want    Set
	}{
		{
			name:    "empty input",
			headers: nil,
			want:    Set{},
		},
		{
			name:    "workbook headers",
			headers: []string{"AYUNTAMIENTO", " p1_training ", "Código", "Nivel de digitalización (%)", "P2_infra"},
			want:    Set{"p1_training", "P2_infra"},
		},
		{
			name:    "duplicates keep first occurrence",
			headers: []string{"P2", "P1", " P2", "P1 "},
			want:    Set{"P2", "P1"},
		},
		{
			name:    "only P headers kept",
			headers: []string{"Provincia", "Habitantes", "Notas", "pTotal"},
			want:    Set{"Provincia", "pTotal"},
		},
		{
			name:    "extra exclusion applies after trim",
			headers: []string{"  Municipio  ", "P3. Servicios"},
			want:    Set{"P3. Servicios"},
		},
		{
			name:    "blank headers ignored",
			headers: []string{"", "   ", "P1"},
			want:    Set{"P1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.headers, excluded)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_Invariants(t *testing.T) {
	excluded := DefaultSchema().Excluded()
	headers := []string{
		"P1", "Código", "p2", "P1", "PONDERACIÓN", "AYUNTAMIENTO",
		"Nivel de digitalización (%)", "Provincia", " p2 ", "Municipio", "P7. Formación Nº",
	}

	got := Classify(headers, excluded)

	seen := map[string]bool{}
	for _, c := range got {
		if seen[c] {
			t.Errorf("duplicate column %q in result", c)
		}
		seen[c] = true

		if !strings.HasPrefix(strings.ToUpper(c), "P") {
			t.Errorf("column %q does not start with P", c)
		}
		for _, e := range excluded {
			if c == e {
				t.Errorf("excluded column %q returned", c)
			}
		}
	}

	want := Set{"P1", "p2", "PONDERACIÓN", "Provincia", "P7. Formación Nº"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order not preserved (-want +got):\n%s", diff)
	}
}

func TestSet_Contains(t *testing.T) {
	s := Set{"P1_TRAINING", "P2_INFRA"}

	if !s.Contains("P1_TRAINING") {
		t.Error("expected P1_TRAINING to be found")
	}
	if !s.Contains("  P2_INFRA ") {
		t.Error("expected padded P2_INFRA to be found")
	}
	if s.Contains("p1_training") {
		t.Error("Contains should be case-sensitive")
	}
}

func TestSet_Closest(t *testing.T) {
	s := Set{"P1. Formación", "P2. Infraestructura", "P3. Servicios"}

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"case difference", "p1. formación", "P1. Formación", true},
		{"one typo", "P3. Servicos", "P3. Servicios", true},
		{"too far", "Habitantes", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Closest(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Closest(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLoadSchema(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		s, err := LoadSchema("")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(DefaultSchema(), s); diff != "" {
			t.Errorf("schema mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "columns.yaml")
		content := "municipality_column: Municipio\nexclude:\n  - Provincia\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		s, err := LoadSchema(path)
		if err != nil {
			t.Fatal(err)
		}
		if s.MunicipalityColumn != "Municipio" {
			t.Errorf("expected municipality column Municipio, got %q", s.MunicipalityColumn)
		}
		if s.LevelColumn != DefaultLevelColumn {
			t.Errorf("expected default level column, got %q", s.LevelColumn)
		}
		if s.MaxEdits != DefaultMaxEdits {
			t.Errorf("expected default max edits, got %d", s.MaxEdits)
		}
		if diff := cmp.Diff([]string{"Provincia"}, s.Exclude); diff != "" {
			t.Errorf("exclude mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid max edits", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "columns.yaml")
		if err := os.WriteFile(path, []byte("max_edits: 0\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSchema(path); err == nil {
			t.Error("expected error for max_edits 0")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadSchema(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestNewCatalog(t *testing.T) {
	headers := []string{"AYUNTAMIENTO", "Código", "P1", " P2 ", "Nivel de digitalización (%)", "P1"}
	cat := NewCatalog(headers, DefaultSchema())

	wantHeaders := Set{"AYUNTAMIENTO", "Código", "P1", "P2", "Nivel de digitalización (%)"}
	if diff := cmp.Diff(wantHeaders, cat.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Set{"P1", "P2"}, cat.Questions); diff != "" {
		t.Errorf("questions mismatch (-want +got):\n%s", diff)
	}
}
