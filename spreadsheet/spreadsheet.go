// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/encuesta/columns"
	"github.com/danielhkuo/encuesta/survey"
)

// ErrNoSheet is returned when the requested sheet does not exist.
var ErrNoSheet = errors.New("sheet not found")

// Sheet is the raw content of one worksheet. Every row has len(Headers) cells.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// ReadFile reads a worksheet from an .xlsx file on disk.
func ReadFile(path, sheet string) (Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return Read(f, sheet)
}

// Read parses a worksheet from an .xlsx stream. An empty sheet name selects
// the first sheet. Headers are trimmed; rows shorter than the header are padded.
func Read(r io.Reader, sheet string) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return Sheet{}, ErrNoSheet
		}
		sheet = list[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return Sheet{}, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}

	// Raw values, so number formats such as "0%" or "#,##0.00" don't hide the number
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, fmt.Errorf("failed to read rows: %w", err)
	}

	out := Sheet{Name: sheet, Headers: []string{}, Rows: [][]string{}}
	if len(rows) == 0 {
		return out, nil
	}

	for _, h := range rows[0] {
		out.Headers = append(out.Headers, columns.Normalize(h))
	}
	for _, raw := range rows[1:] {
		row := make([]string, len(out.Headers))
		copy(row, raw)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Write renders records as a workbook with one row per record, in the given
// header order. The municipality and level columns come from the record's
// identity and level; every other cell comes from its answers.
func Write(w io.Writer, headers []string, records []survey.Record, schema columns.Schema) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Encuesta"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	munCol := columns.Normalize(schema.MunicipalityColumn)
	levelCol := columns.Normalize(schema.LevelColumn)
	for i, rec := range records {
		row := make([]any, len(headers))
		for j, h := range headers {
			switch {
			case h == munCol:
				row[j] = rec.Name
			case h == levelCol:
				if rec.Level != nil {
					row[j] = *rec.Level
				}
			default:
				if v, ok := rec.Answers[h]; ok {
					row[j] = v
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", rec.Code, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
