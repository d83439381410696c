// Package templates holds the HTML components of the proposal page.
package templates

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// PositionRowData is one rendered position.
type PositionRowData struct {
	ID          string
	Index       string
	Description string
	Qty         string
	UnitPrice   string
	Discount    string
	VAT         string
	Total       string
}

// GroupData is one rendered group with its positions.
type GroupData struct {
	ID         string
	Name       string
	Positions  []PositionRowData
	Subtotal   string
	VATAmount  string
	Total      string
	VATOptions []string
}

// ProposalViewData is everything the proposal page shows. Amounts are
// preformatted for the proposal's locale.
type ProposalViewData struct {
	ID         string
	Number     string
	ClientName string
	Manager    string
	Date       string
	Status     string
	Notes      string
	Lang       string
	Groups     []GroupData
	Subtotal   string
	Discount   string
	VATAmount  string
	Total      string
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// ProposalViewContent renders the proposal body: header, one table per
// group and the document totals. It is swapped in directly for HTMX
// requests.
func ProposalViewContent(data ProposalViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.rawf(`<section id="proposal" data-proposal-id="%s">`, templ.EscapeString(data.ID))
		h.raw(`<header class="proposal-header"><h1>`)
		h.text(data.Number)
		h.raw(`</h1><dl><dt>Client</dt><dd>`)
		h.text(data.ClientName)
		h.raw(`</dd><dt>Date</dt><dd>`)
		h.text(data.Date)
		h.raw(`</dd><dt>Status</dt><dd class="status">`)
		h.text(data.Status)
		h.raw(`</dd>`)
		if data.Manager != "" {
			h.raw(`<dt>Manager</dt><dd>`)
			h.text(data.Manager)
			h.raw(`</dd>`)
		}
		h.raw(`</dl></header><div id="position-errors"></div>`)

		if len(data.Groups) == 0 {
			h.raw(`<p class="empty">No positions yet.</p>`)
		}
		for _, g := range data.Groups {
			renderGroup(h, data.ID, g)
		}

		h.raw(`<table class="proposal-totals" id="proposal-totals">`)
		for _, row := range [][2]string{
			{"Subtotal", data.Subtotal},
			{"Discount", data.Discount},
			{"VAT", data.VATAmount},
			{"Total", data.Total},
		} {
			h.raw(`<tr><th>`)
			h.text(row[0])
			h.raw(`</th><td>`)
			h.text(row[1])
			h.raw(`</td></tr>`)
		}
		h.raw(`</table>`)

		if data.Notes != "" {
			h.raw(`<p class="notes">`)
			h.text(data.Notes)
			h.raw(`</p>`)
		}
		h.rawf(`<nav class="exports"><a href="/proposals/%[1]s/export/excel">Excel</a> <a href="/proposals/%[1]s/export/pdf">PDF</a></nav>`,
			templ.EscapeString(data.ID))
		h.raw(`</section>`)
		return h.err
	})
}

func renderGroup(h *htmlWriter, proposalID string, g GroupData) {
	h.rawf(`<section class="proposal-group" id="group-%s"><h2>`, templ.EscapeString(g.ID))
	h.text(g.Name)
	h.raw(`</h2>`)

	h.rawf(`<form class="group-vat" hx-post="/api/proposals/%s/groups/%s/vat" hx-target="#proposal" hx-swap="outerHTML">`,
		templ.EscapeString(proposalID), templ.EscapeString(g.ID))
	h.raw(`<label>VAT <select name="vat_percent">`)
	for _, opt := range g.VATOptions {
		h.rawf(`<option value="%[1]s">%[1]s%%</option>`, templ.EscapeString(opt))
	}
	h.raw(`</select></label><button type="submit">Apply to group</button></form>`)

	h.raw(`<table class="positions"><thead><tr><th>#</th><th>Description</th><th>Qty</th><th>Unit price</th><th>Discount</th><th>VAT</th><th>Total</th><th></th></tr></thead><tbody>`)
	for _, p := range g.Positions {
		h.rawf(`<tr id="position-%s">`, templ.EscapeString(p.ID))
		for _, cell := range []string{p.Index, p.Description, p.Qty, p.UnitPrice, p.Discount, p.VAT, p.Total} {
			h.raw(`<td>`)
			h.text(cell)
			h.raw(`</td>`)
		}
		h.rawf(`<td><button hx-delete="/api/proposals/%s/positions/%s" hx-target="#proposal" hx-swap="outerHTML" hx-confirm="Delete this position?">Delete</button></td></tr>`,
			templ.EscapeString(proposalID), templ.EscapeString(p.ID))
	}
	h.raw(`</tbody><tfoot><tr><td colspan="6">Group total</td><td>`)
	h.text(g.Total)
	h.raw(`</td><td></td></tr></tfoot></table></section>`)
}

// htmxConfig lets 422 responses swap so validation errors reach #position-errors.
const htmxConfig = `<meta name="htmx-config" content='{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"422","swap":true,"error":false},{"code":"[45]..","swap":false,"error":true}]}'>`

// ProposalViewPage renders the full HTML document around ProposalViewContent.
func ProposalViewPage(data ProposalViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		lang := data.Lang
		if lang == "" {
			lang = "it"
		}
		h.rawf(`<!doctype html><html lang="%s"><head><meta charset="utf-8">`+htmxConfig+`<title>`, templ.EscapeString(lang))
		h.text(data.Number)
		h.raw(`</title><script src="https://unpkg.com/htmx.org@2.0.4"></script></head><body>`)
		if h.err != nil {
			return h.err
		}
		if err := ProposalViewContent(data).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</body></html>`)
		return h.err
	})
}

// ValidationErrors renders field errors as a list. labels maps field keys
// to display names; keys without a label are shown as is. Entries are
// sorted by label.
func ValidationErrors(errs map[string]string, labels map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		type entry struct{ label, msg string }
		entries := make([]entry, 0, len(errs))
		for key, msg := range errs {
			label := labels[key]
			if label == "" {
				label = key
			}
			entries = append(entries, entry{label, msg})
		}
		sort.Slice(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].label) < strings.ToLower(entries[j].label)
		})

		h := &htmlWriter{w: w}
		h.raw(`<ul class="validation-errors" role="alert">`)
		for _, en := range entries {
			h.raw(`<li><strong>`)
			h.text(en.label)
			h.raw(`</strong> `)
			h.text(en.msg)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}
