// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package columns decides which workbook headers are editable survey
// questions. A question header starts with "P" in any case after
// trimming; administrative headers listed in the schema are never editable.
package columns

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a typo can be from a real column
// before Closest stops suggesting it.
const maxSuggestDistance = 3

// Set is an ordered list of distinct column names.
type Set []string

// Normalize trims surrounding whitespace from a column header.
func Normalize(name string) string {
	return strings.TrimSpace(name)
}

// IsQuestion reports whether a normalized header looks like a survey question.
func IsQuestion(name string) bool {
	return strings.HasPrefix(strings.ToUpper(name), "P")
}

// Headers normalizes a raw header row, dropping blanks and collapsing
// duplicates to their first occurrence.
func Headers(raw []string) Set {
	out := make(Set, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, h := range raw {
		h = Normalize(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// Classify returns the editable question columns of a header row.
// A header qualifies when it starts with "P" (any case) and is not in
// excluded. Order of first appearance is kept and duplicates collapse.
func Classify(headers []string, excluded []string) Set {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[Normalize(e)] = true
	}

	out := Set{}
	for _, h := range Headers(headers) {
		if !IsQuestion(h) || skip[h] {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Contains reports whether name (after trimming) is in the set.
func (s Set) Contains(name string) bool {
	name = Normalize(name)
	for _, c := range s {
		if c == name {
			return true
		}
	}
	return false
}

// Closest returns the column nearest to name by edit distance, ignoring case.
// ok is false when nothing is within a few edits.
func (s Set) Closest(name string) (string, bool) {
	target := strings.ToLower(Normalize(name))
	if target == "" {
		return "", false
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range s {
		d := levenshtein.ComputeDistance(target, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
