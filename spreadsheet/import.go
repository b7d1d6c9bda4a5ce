// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/encuesta/columns"
	"github.com/danielhkuo/encuesta/survey"
)

// Skipped records a data row that did not become a municipality.
type Skipped struct {
	Row    int // 1-based worksheet row, header is row 1
	Reason string
}

// Import is the result of turning a worksheet into records.
type Import struct {
	Headers columns.Set
	Records []survey.Record
	Skipped []Skipped
}

// placeholder names that mean "no municipality" in the source workbook
var blankNames = map[string]bool{"": true, "nan": true, "sin nombre": true}

func findColumn(headers []string, name string) int {
	name = columns.Normalize(name)
	if name == "" {
		return -1
	}
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// BuildRecords turns each data row of sheet into a municipality record.
//
// The municipality column gives the name. The code column gives the code
// when present and filled; otherwise codes are numbered 001, 002, ... in
// import order. Rows with a blank or placeholder name, or a name or code
// already taken by an earlier row, are skipped. An unparsable level leaves
// the record's level undefined. Every non-empty cell is kept as an answer.
func BuildRecords(sheet Sheet, schema columns.Schema) (Import, error) {
	nameIdx := findColumn(sheet.Headers, schema.MunicipalityColumn)
	if nameIdx < 0 {
		return Import{}, fmt.Errorf("municipality column %q not found in sheet %q", schema.MunicipalityColumn, sheet.Name)
	}
	codeIdx := findColumn(sheet.Headers, schema.CodeColumn)
	levelIdx := findColumn(sheet.Headers, schema.LevelColumn)

	out := Import{
		Headers: columns.Headers(sheet.Headers),
		Records: []survey.Record{},
		Skipped: []Skipped{},
	}
	names := map[string]bool{}
	codes := map[string]bool{}
	seq := 0

	for i, row := range sheet.Rows {
		rowNum := i + 2
		cell := func(idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := cell(nameIdx)
		if blankNames[strings.ToLower(name)] {
			out.Skipped = append(out.Skipped, Skipped{Row: rowNum, Reason: fmt.Sprintf("no municipality name (%q)", name)})
			continue
		}
		if names[strings.ToLower(name)] {
			out.Skipped = append(out.Skipped, Skipped{Row: rowNum, Reason: fmt.Sprintf("duplicate municipality %q", name)})
			continue
		}

		code := cell(codeIdx)
		if code == "" {
			seq++
			code = fmt.Sprintf("%03d", seq)
			for codes[code] {
				seq++
				code = fmt.Sprintf("%03d", seq)
			}
		}
		if codes[code] {
			out.Skipped = append(out.Skipped, Skipped{Row: rowNum, Reason: fmt.Sprintf("duplicate code %q", code)})
			continue
		}

		rec := survey.Record{
			Code:    code,
			Name:    name,
			Answers: map[string]string{},
			State:   survey.StateImported,
		}
		if lvl, err := survey.ParseLevel(cell(levelIdx)); err == nil {
			rec.Level = &lvl
		}
		for j, h := range sheet.Headers {
			h = columns.Normalize(h)
			v := cell(j)
			if h == "" || v == "" {
				continue
			}
			if _, ok := rec.Answers[h]; !ok {
				rec.Answers[h] = v
			}
		}

		names[strings.ToLower(name)] = true
		codes[code] = true
		out.Records = append(out.Records, rec)
	}

	return out, nil
}
