package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"doorquote/engine"
)

var (
	pdfGrey      = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfHeaderBg  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfGroupBg   = &props.Color{Red: 237, Green: 237, Blue: 237}
	pdfSummaryBg = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// GenerateProposalPDF renders a proposal as an A4 landscape PDF.
func GenerateProposalPDF(data ExportData) ([]byte, error) {
	lbl := labelsFor(data.Locale)
	pageLabel := "Page {current} of {total}"
	if data.Locale == engine.LocaleIT {
		pageLabel = "Pagina {current} di {total}"
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: pageLabel,
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addProposalHeader(m, data, lbl)
	addPositionsHeader(m, lbl)
	for _, g := range data.Groups {
		addGroup(m, g, data, lbl)
	}
	addProposalSummary(m, data, lbl)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addProposalHeader(m core.Maroto, data ExportData, lbl exportLabels) {
	small := props.Text{Size: 9, Align: align.Left, Color: pdfGrey}

	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(text.New(data.Company.Name, props.Text{Size: 16, Style: fontstyle.Bold})),
			col.New(5).Add(text.New(fmt.Sprintf("%s %s", lbl.Proposal, data.Number), props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Right,
			})),
		),
	)
	if data.Company.Address != "" || data.Company.Email != "" {
		m.AddRows(row.New(6).Add(
			col.New(12).Add(text.New(joinNonEmpty(" - ", data.Company.Address, data.Company.Email), small)),
		))
	}

	right := small
	right.Align = align.Right
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(fmt.Sprintf("%s: %s", lbl.GeneratedFor, data.ClientName), props.Text{Size: 10, Style: fontstyle.Bold})),
			col.New(6).Add(text.New(fmt.Sprintf("%s: %s", lbl.Date, data.Date), right)),
		),
	)
	if data.Manager != "" {
		m.AddRows(row.New(6).Add(
			col.New(12).Add(text.New(fmt.Sprintf("%s: %s", lbl.Manager, data.Manager), small)),
		))
	}
	m.AddRows(row.New(4))
}

func addPositionsHeader(m core.Maroto, lbl exportLabels) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	cell := &props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New(lbl.Index, headerText)).WithStyle(cell),
			col.New(4).Add(text.New(lbl.Description, headerTextLeft)).WithStyle(cell),
			col.New(1).Add(text.New(lbl.Qty, headerText)).WithStyle(cell),
			col.New(2).Add(text.New(lbl.UnitPrice, headerText)).WithStyle(cell),
			col.New(1).Add(text.New(lbl.Discount, headerText)).WithStyle(cell),
			col.New(1).Add(text.New(lbl.VAT, headerText)).WithStyle(cell),
			col.New(2).Add(text.New(lbl.Total, headerText)).WithStyle(cell),
		),
	)
}

func addGroup(m core.Maroto, g ExportGroup, data ExportData, lbl exportLabels) {
	groupCell := &props.Cell{BackgroundColor: pdfGroupBg}
	m.AddRows(row.New(7).Add(
		col.New(12).Add(text.New(g.Index+"  "+g.Name, props.Text{Size: 9, Style: fontstyle.Bold, Left: 2})).WithStyle(groupCell),
	))

	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	rightText := base
	rightText.Align = align.Right

	for _, r := range g.Rows {
		m.AddRows(
			row.New(10).Add(
				col.New(1).Add(text.New(r.Index, base)),
				col.New(4).Add(text.New(r.Description, left)),
				col.New(1).Add(text.New(FormatQuantity(r.Qty, data.Locale), rightText)),
				col.New(2).Add(text.New(FormatMoney(r.UnitPrice, data.Locale), rightText)),
				col.New(1).Add(text.New(FormatPercent(r.DiscountPercent, data.Locale), base)),
				col.New(1).Add(text.New(FormatPercent(r.VATPercent, data.Locale), base)),
				col.New(2).Add(text.New(FormatMoney(r.Total, data.Locale), rightText)),
			),
		)
	}

	bold := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(row.New(7).Add(
		col.New(10).Add(text.New(lbl.GroupTotal, bold)),
		col.New(2).Add(text.New(FormatMoney(g.Totals.Total, data.Locale), bold)),
	))
	m.AddRows(row.New(3))
}

func addProposalSummary(m core.Maroto, data ExportData, lbl exportLabels) {
	m.AddRows(row.New(4))

	cell := &props.Cell{BackgroundColor: pdfSummaryBg}
	label := props.Text{Size: 9, Align: align.Right}
	value := props.Text{Size: 9, Align: align.Right}

	lines := []struct {
		label string
		value float64
	}{
		{lbl.Subtotal, data.Totals.Subtotal},
		{lbl.Discount, data.Totals.Discount},
		{lbl.Taxable, data.Taxable()},
		{lbl.VAT, data.Totals.VATAmount},
	}
	for _, l := range lines {
		m.AddRows(row.New(7).Add(
			col.New(10).Add(text.New(l.label, label)).WithStyle(cell),
			col.New(2).Add(text.New(FormatMoney(l.value, data.Locale), value)).WithStyle(cell),
		))
	}

	label.Style, value.Style = fontstyle.Bold, fontstyle.Bold
	label.Size, value.Size = 10, 10
	m.AddRows(row.New(8).Add(
		col.New(10).Add(text.New(lbl.GrandTotal, label)).WithStyle(cell),
		col.New(2).Add(text.New(FormatMoney(data.Totals.Total, data.Locale), value)).WithStyle(cell),
	))

	if data.Notes != "" {
		m.AddRows(row.New(6))
		m.AddRows(row.New(12).Add(
			col.New(12).Add(text.New(fmt.Sprintf("%s: %s", lbl.Notes, data.Notes), props.Text{Size: 8, Color: pdfGrey})),
		))
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
