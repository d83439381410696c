package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"

	"doorquote/engine"
)

// ErrNotEnumerable is returned when values are imported into a parameter
// that has no value list.
var ErrNotEnumerable = errors.New("parameter does not take a value list")

// ErrEmptyImport is returned when an uploaded file has no data rows.
var ErrEmptyImport = errors.New("file must contain a header row and at least one data row")

var hexColorPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// ImportResult holds the outcome of a value import.
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Imported   int              `json:"imported"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
	RolledBack bool             `json:"rolled_back"`
}

// ImportRowError represents a problem with a specific spreadsheet row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type valueRow struct {
	line                       int
	value, localized, hex, ral string
}

// ImportParameterValues appends the values listed in an uploaded sheet to
// a SELECT or COLOR parameter. Files named *.csv are read as CSV, anything
// else as the first sheet of an xlsx workbook. The first row is a header;
// columns are Value, Localized value, Hex colour and RAL code, only Value
// being mandatory. Either every row is imported or, when any row is
// invalid, none is.
func ImportParameterValues(app *pocketbase.PocketBase, parameterID, filename string, r io.Reader) (*ImportResult, error) {
	param, err := app.FindRecordById("parameters", parameterID)
	if err != nil {
		return nil, fmt.Errorf("parameter %s not found: %w", parameterID, err)
	}
	if !engine.ParseKind(param.GetString("kind")).Enumerable() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotEnumerable, param.GetString("name"), param.GetString("kind"))
	}

	var raw [][]string
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		raw, err = parseValueCSV(r)
	} else {
		raw, err = parseValueWorkbook(r)
	}
	if err != nil {
		return nil, err
	}
	rows := valueRows(raw)
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}

	existing, err := app.FindAllRecords("parameter_values", dbx.HashExp{"parameter": parameterID})
	if err != nil {
		return nil, fmt.Errorf("load existing values: %w", err)
	}
	seen := make(map[string]bool, len(existing)+len(rows))
	nextOrder := 1
	for _, v := range existing {
		seen[strings.ToLower(v.GetString("value"))] = true
		if o := v.GetInt("sort_order"); o >= nextOrder {
			nextOrder = o + 1
		}
	}

	result := &ImportResult{TotalRows: len(rows)}
	failedRows := make(map[int]bool)
	for i := range rows {
		for _, e := range checkValueRow(&rows[i], seen) {
			result.Errors = append(result.Errors, e)
			failedRows[e.Row] = true
		}
	}
	if len(result.Errors) > 0 {
		result.Failed = len(failedRows)
		result.RolledBack = true
		return result, nil
	}

	col, err := app.FindCollectionByNameOrId("parameter_values")
	if err != nil {
		return nil, fmt.Errorf("parameter_values collection not found: %w", err)
	}
	err = app.RunInTransaction(func(txApp core.App) error {
		for i, row := range rows {
			rec := core.NewRecord(col)
			rec.Set("parameter", parameterID)
			rec.Set("value", row.value)
			rec.Set("value_localized", row.localized)
			rec.Set("hex_color", row.hex)
			rec.Set("ral_code", row.ral)
			rec.Set("sort_order", nextOrder+i)
			rec.Set("is_active", true)
			if err := txApp.Save(rec); err != nil {
				result.Errors = append(result.Errors, ImportRowError{Row: row.line, Field: "Value", Message: err.Error()})
				return fmt.Errorf("save row %d: %w", row.line, err)
			}
		}
		return nil
	})
	if err != nil {
		result.Failed = len(rows)
		result.RolledBack = true
		return result, nil
	}
	result.Imported = len(rows)
	return result, nil
}

func parseValueCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func parseValueWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read first sheet: %w", err)
	}
	return rows, nil
}

// valueRows skips the header and blank rows. line is the 1-based row
// number in the file.
func valueRows(raw [][]string) []valueRow {
	var rows []valueRow
	for i, cells := range raw {
		if i == 0 {
			continue
		}
		cell := func(n int) string {
			if n < len(cells) {
				return strings.TrimSpace(cells[n])
			}
			return ""
		}
		row := valueRow{line: i + 1, value: cell(0), localized: cell(1), hex: cell(2), ral: cell(3)}
		if row.value == "" && row.localized == "" && row.hex == "" && row.ral == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// checkValueRow validates and normalizes one row. seen collects accepted
// values in lower case so duplicates within the file are reported too.
func checkValueRow(row *valueRow, seen map[string]bool) []ImportRowError {
	var errs []ImportRowError
	if row.value == "" {
		errs = append(errs, ImportRowError{Row: row.line, Field: "Value", Message: "Value is required"})
	} else if key := strings.ToLower(row.value); seen[key] {
		errs = append(errs, ImportRowError{Row: row.line, Field: "Value", Message: fmt.Sprintf("%q already exists", row.value)})
	} else {
		seen[key] = true
	}

	if row.hex != "" {
		if !hexColorPattern.MatchString(row.hex) {
			errs = append(errs, ImportRowError{Row: row.line, Field: "Hex", Message: "Invalid hex colour (expected #RRGGBB)"})
		} else {
			row.hex = "#" + strings.ToUpper(strings.TrimPrefix(row.hex, "#"))
		}
	}
	return errs
}
