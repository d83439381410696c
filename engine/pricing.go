package engine

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrGroupNotFound is returned by document operations addressing a group id
// the document does not contain.
var ErrGroupNotFound = errors.New("proposal group not found")

// Status is the lifecycle state of a proposal document.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// AllStatuses lists the valid document statuses in lifecycle order.
var AllStatuses = []Status{StatusDraft, StatusSent, StatusAccepted, StatusRejected}

// Position is one priced, configured line item.
type Position struct {
	ID                 string
	CategoryID         string
	SupplierCategoryID string
	Configuration      Configuration
	Description        string
	Notes              string

	UnitPrice       float64
	Quantity        float64
	DiscountPercent float64
	VATPercent      float64

	Order int
}

// Group is a named, ordered list of positions inside a document.
type Group struct {
	ID        string
	Name      string
	Order     int
	Positions []Position
}

// Document is a proposal: header data plus its groups. Totals are never
// stored on it; call Recompute.
type Document struct {
	ID         string
	Number     string
	ClientID   string
	ClientName string
	Manager    string
	Date       time.Time
	Status     Status
	Notes      string
	Locale     Locale
	Groups     []Group
}

// PositionCount returns the number of positions over all groups.
func (d Document) PositionCount() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Positions)
	}
	return n
}

// Clone returns a copy of d whose groups and positions can be changed
// without affecting d. Configurations are shared; they are never modified
// in place.
func (d Document) Clone() Document {
	out := d
	out.Groups = make([]Group, len(d.Groups))
	for i, g := range d.Groups {
		g.Positions = append([]Position(nil), g.Positions...)
		out.Groups[i] = g
	}
	return out
}

// PositionTotals are the computed amounts of one position.
type PositionTotals struct {
	PositionID   string  `json:"positionId"`
	LineSubtotal float64 `json:"lineSubtotal"`
	LineDiscount float64 `json:"lineDiscount"`
	TaxableBase  float64 `json:"taxableBase"`
	VATAmount    float64 `json:"vatAmount"`
	Total        float64 `json:"total"`
}

// Totals are the aggregated amounts of a group or a whole document.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	VATAmount float64 `json:"vatAmount"`
	Total     float64 `json:"total"`
}

type GroupTotals struct {
	GroupID   string           `json:"groupId"`
	Name      string           `json:"name"`
	Positions []PositionTotals `json:"positions"`
	Totals
}

type DocumentTotals struct {
	Groups []GroupTotals `json:"groups"`
	Totals
}

var hundred = decimal.NewFromInt(100)

type lineAmounts struct {
	subtotal, discount, base, vat, total decimal.Decimal
}

func lineOf(p Position) lineAmounts {
	var l lineAmounts
	l.subtotal = decimal.NewFromFloat(p.UnitPrice).Mul(decimal.NewFromFloat(p.Quantity))
	l.discount = l.subtotal.Mul(decimal.NewFromFloat(p.DiscountPercent)).Div(hundred)
	l.base = l.subtotal.Sub(l.discount)
	l.vat = l.base.Mul(decimal.NewFromFloat(p.VATPercent)).Div(hundred)
	l.total = l.base.Add(l.vat)
	return l
}

func (l lineAmounts) export(id string) PositionTotals {
	return PositionTotals{
		PositionID:   id,
		LineSubtotal: l.subtotal.InexactFloat64(),
		LineDiscount: l.discount.InexactFloat64(),
		TaxableBase:  l.base.InexactFloat64(),
		VATAmount:    l.vat.InexactFloat64(),
		Total:        l.total.InexactFloat64(),
	}
}

type accumulator struct {
	subtotal, discount, vat decimal.Decimal
}

func (a *accumulator) add(l lineAmounts) {
	a.subtotal = a.subtotal.Add(l.subtotal)
	a.discount = a.discount.Add(l.discount)
	a.vat = a.vat.Add(l.vat)
}

func (a accumulator) totals() Totals {
	return Totals{
		Subtotal:  a.subtotal.InexactFloat64(),
		Discount:  a.discount.InexactFloat64(),
		VATAmount: a.vat.InexactFloat64(),
		Total:     a.subtotal.Sub(a.discount).Add(a.vat).InexactFloat64(),
	}
}

// CalcPosition computes the amounts of a single position:
//
//	lineSubtotal = unitPrice × quantity
//	lineDiscount = lineSubtotal × discountPercent / 100
//	taxableBase  = lineSubtotal − lineDiscount
//	vatAmount    = taxableBase × vatPercent / 100
//	total        = taxableBase + vatAmount
func CalcPosition(p Position) PositionTotals {
	return lineOf(p).export(p.ID)
}

// Recompute derives every total of doc from its current positions. VAT is
// taken per position, so documents may mix rates. Sums are carried in exact
// decimal arithmetic, which makes the result independent of group and
// position order. A document without positions totals zero.
func Recompute(doc Document) DocumentTotals {
	var docAcc accumulator
	out := DocumentTotals{Groups: make([]GroupTotals, 0, len(doc.Groups))}
	for _, g := range doc.Groups {
		var groupAcc accumulator
		gt := GroupTotals{
			GroupID:   g.ID,
			Name:      g.Name,
			Positions: make([]PositionTotals, 0, len(g.Positions)),
		}
		for _, p := range g.Positions {
			l := lineOf(p)
			groupAcc.add(l)
			docAcc.add(l)
			gt.Positions = append(gt.Positions, l.export(p.ID))
		}
		gt.Totals = groupAcc.totals()
		out.Groups = append(out.Groups, gt)
	}
	out.Totals = docAcc.totals()
	return out
}

// SetGroupVAT returns a copy of doc in which every position of the group
// carries vatPercent. doc itself is left untouched.
func SetGroupVAT(doc Document, groupID string, vatPercent float64) (Document, error) {
	out := doc.Clone()
	for i := range out.Groups {
		if out.Groups[i].ID != groupID {
			continue
		}
		for j := range out.Groups[i].Positions {
			out.Groups[i].Positions[j].VATPercent = vatPercent
		}
		return out, nil
	}
	return doc, ErrGroupNotFound
}
