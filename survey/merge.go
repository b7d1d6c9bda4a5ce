// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/danielhkuo/encuesta/columns"
)

// ErrNotNumeric is returned by ParseLevel for values that are not a finite number.
var ErrNotNumeric = errors.New("value is not numeric")

// DiagnosticKind classifies a non-fatal problem found while merging.
type DiagnosticKind string

const (
	DiagLevelNotNumeric DiagnosticKind = "level_not_numeric"
	DiagUnknownColumn   DiagnosticKind = "unknown_column"
)

// Diagnostic describes an edit that was saved with a caveat.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Column     string         `json:"column"`
	Value      string         `json:"value,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
	Message    string         `json:"message"`
}

// Outcome reports what ApplyEdits did.
type Outcome struct {
	Applied     int          `json:"applied"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// ApplyEdits merges batch into rec and returns the new record.
//
// Edits are applied in order. Blank column names are skipped. Every other
// edit is written verbatim, so a repeated column keeps its last value and
// columns outside legal are still stored (with an unknown_column diagnostic).
// An edit to levelColumn also updates Level when the value parses as a
// number; otherwise Level is left alone and a diagnostic is added.
//
// rec is never modified. The result depends only on the arguments.
func ApplyEdits(rec Record, batch Batch, legal columns.Set, levelColumn string) (Record, Outcome, error) {
	if strings.TrimSpace(rec.Code) == "" {
		return Record{}, Outcome{}, ErrInvalidRecord
	}

	out := rec.Clone()
	outcome := Outcome{Diagnostics: []Diagnostic{}}
	levelColumn = columns.Normalize(levelColumn)

	for _, e := range batch {
		col := columns.Normalize(e.Column)
		if col == "" {
			continue
		}

		out.Answers[col] = e.Value
		outcome.Applied++

		if levelColumn != "" && col == levelColumn {
			lvl, err := ParseLevel(e.Value)
			if err != nil {
				outcome.Diagnostics = append(outcome.Diagnostics, Diagnostic{
					Kind:    DiagLevelNotNumeric,
					Column:  col,
					Value:   e.Value,
					Message: fmt.Sprintf("value saved but digitalization level unchanged because %q isn't numeric", e.Value),
				})
				continue
			}
			out.Level = &lvl
			continue
		}

		if !legal.Contains(col) {
			d := Diagnostic{
				Kind:    DiagUnknownColumn,
				Column:  col,
				Message: fmt.Sprintf("%q is not a survey question column", col),
			}
			if hint, ok := legal.Closest(col); ok {
				d.Suggestion = hint
				d.Message += fmt.Sprintf("; did you mean %q?", hint)
			}
			outcome.Diagnostics = append(outcome.Diagnostics, d)
		}
	}

	if outcome.Applied > 0 {
		out.State = StateEdited
	}
	return out, outcome, nil
}

// ParseLevel parses a digitalization level. Surrounding whitespace is
// ignored and a decimal comma is accepted when there is no dot.
func ParseLevel(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNotNumeric
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotNumeric
	}
	return v, nil
}
