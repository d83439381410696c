package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var excelColumns = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// excelSheetName returns a valid worksheet name (max 31 chars, none of []:*?/\).
func excelSheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, s)
	if len([]rune(s)) > 31 {
		s = string([]rune(s)[:31])
	}
	if strings.TrimSpace(s) == "" {
		return "Proposal"
	}
	return s
}

type excelStyles struct {
	title, subtitle, header, group, row, groupTotal, summaryLabel, summaryValue int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var st excelStyles
	defs := []struct {
		dst   *int
		name  string
		style *excelize.Style
	}{
		{&st.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&st.subtitle, "subtitle", &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{&st.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{&st.group, "group", &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 10},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"#EDEDED"}, Pattern: 1},
			Border: thinBorders(),
		}},
		{&st.row, "row", &excelize.Style{
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
			Border:    thinBorders(),
		}},
		{&st.groupTotal, "group total", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&st.summaryLabel, "summary label", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&st.summaryValue, "summary value", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.dst = id
	}
	return st, nil
}

// GenerateProposalExcel renders a proposal as an xlsx workbook with one
// sheet: company header, one block per group with its subtotal, and the
// document totals.
func GenerateProposalExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	lbl := labelsFor(data.Locale)
	sheet := excelSheetName(data.Number)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	lastCol := excelColumns[len(excelColumns)-1]

	widths := []float64{7, 60, 8, 16, 10, 8, 16, 16}
	for i, col := range excelColumns {
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	st, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	row := 1
	merged := func(value string, style int) error {
		r := fmt.Sprint(row)
		if err := f.MergeCell(sheet, "A"+r, lastCol+r); err != nil {
			return fmt.Errorf("merge row %d: %w", row, err)
		}
		f.SetCellValue(sheet, "A"+r, sanitizeExcelCell(value))
		f.SetCellStyle(sheet, "A"+r, lastCol+r, style)
		row++
		return nil
	}

	// Header block.
	if err := merged(data.Company.Name, st.title); err != nil {
		return nil, err
	}
	for _, line := range []string{data.Company.Address, data.Company.Email} {
		if line == "" {
			continue
		}
		if err := merged(line, st.subtitle); err != nil {
			return nil, err
		}
	}
	row++
	header := []string{
		lbl.Proposal + ": " + data.Number,
		lbl.Client + ": " + data.ClientName,
		lbl.Date + ": " + data.Date,
	}
	if data.Manager != "" {
		header = append(header, lbl.Manager+": "+data.Manager)
	}
	for _, line := range header {
		if err := merged(line, st.subtitle); err != nil {
			return nil, err
		}
	}
	row++

	// Column headers.
	headers := []string{lbl.Index, lbl.Description, lbl.Qty, lbl.UnitPrice, lbl.Discount, lbl.VAT, lbl.Taxable, lbl.Total}
	r := fmt.Sprint(row)
	for i, h := range headers {
		f.SetCellValue(sheet, excelColumns[i]+r, h)
	}
	f.SetCellStyle(sheet, "A"+r, lastCol+r, st.header)
	row++

	for _, g := range data.Groups {
		if err := merged(g.Index+"  "+g.Name, st.group); err != nil {
			return nil, err
		}
		for _, p := range g.Rows {
			r := fmt.Sprint(row)
			desc := p.Description
			if p.Notes != "" && !strings.Contains(desc, p.Notes) {
				desc += "\n" + p.Notes
			}
			f.SetCellValue(sheet, "A"+r, p.Index)
			f.SetCellValue(sheet, "B"+r, sanitizeExcelCell(desc))
			f.SetCellValue(sheet, "C"+r, FormatQuantity(p.Qty, data.Locale))
			f.SetCellValue(sheet, "D"+r, FormatMoney(p.UnitPrice, data.Locale))
			f.SetCellValue(sheet, "E"+r, FormatPercent(p.DiscountPercent, data.Locale))
			f.SetCellValue(sheet, "F"+r, FormatPercent(p.VATPercent, data.Locale))
			f.SetCellValue(sheet, "G"+r, FormatMoney(p.TaxableBase, data.Locale))
			f.SetCellValue(sheet, "H"+r, FormatMoney(p.Total, data.Locale))
			f.SetCellStyle(sheet, "A"+r, lastCol+r, st.row)
			row++
		}
		r := fmt.Sprint(row)
		f.SetCellValue(sheet, "G"+r, lbl.GroupTotal)
		f.SetCellValue(sheet, "H"+r, FormatMoney(g.Totals.Total, data.Locale))
		f.SetCellStyle(sheet, "G"+r, "H"+r, st.groupTotal)
		row += 2
	}

	// Summary.
	summary := []struct {
		label string
		value float64
	}{
		{lbl.Subtotal, data.Totals.Subtotal},
		{lbl.Discount, data.Totals.Discount},
		{lbl.Taxable, data.Taxable()},
		{lbl.VAT, data.Totals.VATAmount},
		{lbl.GrandTotal, data.Totals.Total},
	}
	for _, s := range summary {
		r := fmt.Sprint(row)
		f.SetCellValue(sheet, "G"+r, s.label)
		f.SetCellStyle(sheet, "G"+r, "G"+r, st.summaryLabel)
		f.SetCellValue(sheet, "H"+r, FormatMoney(s.value, data.Locale))
		f.SetCellStyle(sheet, "H"+r, "H"+r, st.summaryValue)
		row++
	}

	if data.Notes != "" {
		row++
		if err := merged(lbl.Notes+": "+data.Notes, st.subtitle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin black borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
