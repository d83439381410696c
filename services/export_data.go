package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"

	"doorquote/config"
	"doorquote/engine"
)

// ExportRow is one position of an exported proposal.
type ExportRow struct {
	Index           string // "1.1", "1.2", "2.1" ...
	Description     string
	Notes           string
	Qty             float64
	UnitPrice       float64
	DiscountPercent float64
	VATPercent      float64
	TaxableBase     float64
	Total           float64
}

// ExportGroup is a named group of positions with its own totals.
type ExportGroup struct {
	Index  string
	Name   string
	Rows   []ExportRow
	Totals engine.Totals
}

// ExportData holds everything the Excel and PDF generators print.
type ExportData struct {
	Locale     engine.Locale
	Company    config.CompanyConfig
	Number     string
	ClientName string
	Manager    string
	Date       string
	Status     string
	Notes      string
	Groups     []ExportGroup
	Totals     engine.Totals
}

// Taxable is the document subtotal after discounts.
func (d ExportData) Taxable() float64 {
	return d.Totals.Subtotal - d.Totals.Discount
}

// exportLabels are the fixed strings of exported documents.
type exportLabels struct {
	Proposal, Client, Manager, Date, Status                      string
	Index, Description, Qty, UnitPrice, Discount, VAT, Taxable   string
	Total, Subtotal, GroupTotal, GrandTotal, Notes, GeneratedFor string
}

var labelsByLocale = map[engine.Locale]exportLabels{
	engine.LocaleEN: {
		Proposal: "Proposal", Client: "Client", Manager: "Manager", Date: "Date", Status: "Status",
		Index: "#", Description: "Description", Qty: "Qty", UnitPrice: "Unit price",
		Discount: "Discount", VAT: "VAT", Taxable: "Taxable", Total: "Total",
		Subtotal: "Subtotal", GroupTotal: "Group total", GrandTotal: "Grand total",
		Notes: "Notes", GeneratedFor: "Prepared for",
	},
	engine.LocaleIT: {
		Proposal: "Preventivo", Client: "Cliente", Manager: "Referente", Date: "Data", Status: "Stato",
		Index: "#", Description: "Descrizione", Qty: "Q.tà", UnitPrice: "Prezzo unitario",
		Discount: "Sconto", VAT: "IVA", Taxable: "Imponibile", Total: "Totale",
		Subtotal: "Subtotale", GroupTotal: "Totale gruppo", GrandTotal: "Totale complessivo",
		Notes: "Note", GeneratedFor: "Preparato per",
	},
}

func labelsFor(loc engine.Locale) exportLabels {
	if l, ok := labelsByLocale[loc]; ok {
		return l
	}
	return labelsByLocale[engine.LocaleEN]
}

// NewProposalExportData lays out a loaded proposal for export. Totals are
// recomputed from the positions.
func NewProposalExportData(doc engine.Document, company config.CompanyConfig) ExportData {
	totals := engine.Recompute(doc)

	data := ExportData{
		Locale:     doc.Locale,
		Company:    company,
		Number:     doc.Number,
		ClientName: doc.ClientName,
		Manager:    doc.Manager,
		Date:       FormatDate(doc.Date, doc.Locale),
		Status:     string(doc.Status),
		Notes:      doc.Notes,
		Groups:     make([]ExportGroup, 0, len(doc.Groups)),
		Totals:     totals.Totals,
	}

	for i, g := range doc.Groups {
		gt := totals.Groups[i]
		group := ExportGroup{
			Index:  fmt.Sprintf("%d", i+1),
			Name:   g.Name,
			Rows:   make([]ExportRow, 0, len(g.Positions)),
			Totals: gt.Totals,
		}
		for j, p := range g.Positions {
			pt := gt.Positions[j]
			group.Rows = append(group.Rows, ExportRow{
				Index:           fmt.Sprintf("%d.%d", i+1, j+1),
				Description:     p.Description,
				Notes:           p.Notes,
				Qty:             p.Quantity,
				UnitPrice:       p.UnitPrice,
				DiscountPercent: p.DiscountPercent,
				VATPercent:      p.VATPercent,
				TaxableBase:     pt.TaxableBase,
				Total:           pt.Total,
			})
		}
		data.Groups = append(data.Groups, group)
	}
	return data
}

// BuildProposalExportData loads proposal id and lays it out for export.
func BuildProposalExportData(app *pocketbase.PocketBase, id string, company config.CompanyConfig) (ExportData, error) {
	doc, err := LoadProposal(app, id)
	if err != nil {
		return ExportData{}, err
	}
	return NewProposalExportData(doc, company), nil
}
