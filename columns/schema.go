// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package columns

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default header names used by the survey workbook.
const (
	DefaultMunicipalityColumn = "AYUNTAMIENTO"
	DefaultCodeColumn         = "Código"
	DefaultLevelColumn        = "Nivel de digitalización (%)"
	DefaultMaxEdits           = 3
)

// Schema names the identification and derived columns of the workbook.
type Schema struct {
	MunicipalityColumn string   `yaml:"municipality_column"`
	CodeColumn         string   `yaml:"code_column"`
	LevelColumn        string   `yaml:"level_column"`
	Exclude            []string `yaml:"exclude"`
	MaxEdits           int      `yaml:"max_edits"`
}

// DefaultSchema matches the layout of the ENCUESTAS survey workbook.
func DefaultSchema() Schema {
	return Schema{
		MunicipalityColumn: DefaultMunicipalityColumn,
		CodeColumn:         DefaultCodeColumn,
		LevelColumn:        DefaultLevelColumn,
		Exclude:            []string{"Municipio"},
		MaxEdits:           DefaultMaxEdits,
	}
}

// LoadSchema reads a YAML schema file. Fields left out keep their defaults.
// An empty path returns DefaultSchema.
func LoadSchema(path string) (Schema, error) {
	s := DefaultSchema()
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read column schema: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Schema{}, fmt.Errorf("failed to parse column schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Validate checks that the required column names are set.
func (s Schema) Validate() error {
	if Normalize(s.MunicipalityColumn) == "" {
		return errors.New("municipality_column is required")
	}
	if Normalize(s.LevelColumn) == "" {
		return errors.New("level_column is required")
	}
	if s.MaxEdits < 1 {
		return errors.New("max_edits must be at least 1")
	}
	return nil
}

// Excluded is the fixed set of headers that are never editable questions.
func (s Schema) Excluded() []string {
	out := []string{s.MunicipalityColumn, s.CodeColumn, s.LevelColumn}
	out = append(out, s.Exclude...)
	return out
}

// Catalog is the immutable column view the server is built around.
type Catalog struct {
	Schema    Schema
	Headers   Set
	Questions Set
}

// NewCatalog classifies a stored header row under schema.
func NewCatalog(headers []string, schema Schema) Catalog {
	return Catalog{
		Schema:    schema,
		Headers:   Headers(headers),
		Questions: Classify(headers, schema.Excluded()),
	}
}
