package services

import (
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"doorquote/config"
	"doorquote/engine"
	"doorquote/testhelpers"
)

var testCompany = config.CompanyConfig{Name: "Serramenti Srl", Address: "Via Roma 1, Milano", Email: "info@example.com"}

func sampleDocument() engine.Document {
	return engine.Document{
		ID:         "p1",
		Number:     "PRV-2026-0007",
		ClientName: "Studio Verdi",
		Manager:    "Anna",
		Date:       time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:     engine.StatusDraft,
		Locale:     engine.LocaleEN,
		Notes:      "Delivery in April",
		Groups: []engine.Group{
			{ID: "g1", Name: "Ground floor", Positions: []engine.Position{
				{ID: "a", Description: "900x2100 | Wood", UnitPrice: 150, Quantity: 2, VATPercent: 22},
				{ID: "b", Description: "800x2100 | MDF", UnitPrice: 100, Quantity: 1, DiscountPercent: 10, VATPercent: 22},
			}},
			{ID: "g2", Name: "First floor", Positions: []engine.Position{
				{ID: "c", Description: "=cmd|' /C calc'!A0", UnitPrice: 200, Quantity: 1, VATPercent: 10},
			}},
		},
	}
}

func TestNewProposalExportData(t *testing.T) {
	data := NewProposalExportData(sampleDocument(), testCompany)

	if data.Date != "Mar 5, 2026" {
		t.Errorf("Date = %q", data.Date)
	}
	if len(data.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(data.Groups))
	}
	if got := data.Groups[0].Rows[1].Index; got != "1.2" {
		t.Errorf("second row index = %q, want 1.2", got)
	}
	if got := data.Groups[1].Rows[0].Index; got != "2.1" {
		t.Errorf("third row index = %q, want 2.1", got)
	}

	// 300 + 90 taxable at 22%, 200 at 10%.
	if !floatClose(data.Groups[0].Totals.Total, 475.8) {
		t.Errorf("group 1 total = %v, want 475.8", data.Groups[0].Totals.Total)
	}
	if !floatClose(data.Groups[0].Rows[1].TaxableBase, 90) {
		t.Errorf("discounted taxable = %v, want 90", data.Groups[0].Rows[1].TaxableBase)
	}
	if !floatClose(data.Totals.Total, 695.8) {
		t.Errorf("grand total = %v, want 695.8", data.Totals.Total)
	}
	if !floatClose(data.Taxable(), 590) {
		t.Errorf("Taxable() = %v, want 590", data.Taxable())
	}
}

func TestGenerateProposalExcel(t *testing.T) {
	data := NewProposalExportData(sampleDocument(), testCompany)

	result, err := GenerateProposalExcel(data)
	if err != nil {
		t.Fatalf("GenerateProposalExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "PRV-2026-0007" {
		t.Fatalf("sheets = %v", sheets)
	}
	title, _ := f.GetCellValue(sheets[0], "A1")
	if title != "Serramenti Srl" {
		t.Errorf("A1 = %q", title)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	var all []string
	for _, r := range rows {
		all = append(all, strings.Join(r, "|"))
	}
	text := strings.Join(all, "\n")
	for _, want := range []string{"Proposal: PRV-2026-0007", "Client: Studio Verdi", "Ground floor", "900x2100 | Wood", "Grand total", "€695.80", "Notes: Delivery in April"} {
		if !strings.Contains(text, want) {
			t.Errorf("workbook missing %q", want)
		}
	}
	if !strings.Contains(text, "'=cmd") {
		t.Error("formula-like description should be escaped")
	}
}

func TestGenerateProposalExcel_Empty(t *testing.T) {
	result, err := GenerateProposalExcel(ExportData{Locale: engine.LocaleIT})
	if err != nil {
		t.Fatalf("GenerateProposalExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); sheets[0] != "Proposal" {
		t.Errorf("empty number should fall back to sheet 'Proposal', got %v", sheets)
	}
}

func TestExcelSheetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"PRV-2026-0001", "PRV-2026-0001"},
		{"a/b:c", "a-b-c"},
		{"", "Proposal"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		if got := excelSheetName(tt.in); got != tt.want {
			t.Errorf("excelSheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateProposalPDF(t *testing.T) {
	for _, loc := range []engine.Locale{engine.LocaleEN, engine.LocaleIT} {
		t.Run(string(loc), func(t *testing.T) {
			doc := sampleDocument()
			doc.Locale = loc
			result, err := GenerateProposalPDF(NewProposalExportData(doc, testCompany))
			if err != nil {
				t.Fatalf("GenerateProposalPDF() error = %v", err)
			}
			if len(result) < 5 || string(result[:5]) != "%PDF-" {
				t.Errorf("result does not start with PDF header")
			}
		})
	}
}

func TestGenerateProposalPDF_NoPositions(t *testing.T) {
	result, err := GenerateProposalPDF(NewProposalExportData(engine.Document{Number: "PRV-2026-0002"}, config.CompanyConfig{}))
	if err != nil {
		t.Fatalf("GenerateProposalPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateProposalPDF() returned empty bytes")
	}
}

func TestBuildProposalExportData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := testhelpers.CreateDoorFixture(t, app)
	testhelpers.CreateTestPosition(t, app, fx.Group.Id, fx.Category.Id, fx.Link.Id, fx.ValidConfiguration(), 150, 2, 0, 22)

	data, err := BuildProposalExportData(app, fx.Proposal.Id, testCompany)
	if err != nil {
		t.Fatalf("BuildProposalExportData() error = %v", err)
	}
	if data.Number != "PRV-2026-0001" || data.ClientName != "Studio Verdi" {
		t.Errorf("header = %q / %q", data.Number, data.ClientName)
	}
	if !floatClose(data.Totals.Total, 366) {
		t.Errorf("total = %v, want 366", data.Totals.Total)
	}

	if _, err := BuildProposalExportData(app, "missing", testCompany); err == nil {
		t.Error("expected error for missing proposal")
	}
}
