// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"errors"
	"maps"
)

// ErrInvalidRecord is returned when a record has no identity.
var ErrInvalidRecord = errors.New("record has no code")

// State is the lifecycle position of a municipality record.
type State string

const (
	StateImported State = "imported"
	StateEdited   State = "edited"
)

// Record is one municipality's survey answers.
// A nil Level means no digitalization level has been recorded,
// which is not the same as a level of 0.
type Record struct {
	Code    string            `json:"code"`
	Name    string            `json:"name"`
	Level   *float64          `json:"digitalization_level"`
	Answers map[string]string `json:"answers"`
	State   State             `json:"state"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	if r.Level != nil {
		lvl := *r.Level
		out.Level = &lvl
	}
	out.Answers = make(map[string]string, len(r.Answers))
	maps.Copy(out.Answers, r.Answers)
	return out
}

// Edit is a proposed value for one column.
type Edit struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Batch is an ordered set of edits submitted together.
type Batch []Edit
