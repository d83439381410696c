package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestCalcPosition(t *testing.T) {
	tests := []struct {
		name                                          string
		pos                                           Position
		wantSub, wantDisc, wantBase, wantVAT, wantTot float64
	}{
		{"reference", Position{UnitPrice: 150, Quantity: 2, DiscountPercent: 10, VATPercent: 22}, 300, 30, 270, 59.4, 329.4},
		{"no_discount", Position{UnitPrice: 1000, Quantity: 1, VATPercent: 22}, 1000, 0, 1000, 220, 1220},
		{"zero_quantity", Position{UnitPrice: 450, Quantity: 0, DiscountPercent: 5, VATPercent: 22}, 0, 0, 0, 0, 0},
		{"fractional", Position{UnitPrice: 123.45, Quantity: 3, DiscountPercent: 12.5, VATPercent: 10}, 370.35, 46.29375, 324.05625, 32.405625, 356.461875},
		{"full_discount", Position{UnitPrice: 80, Quantity: 4, DiscountPercent: 100, VATPercent: 22}, 320, 320, 0, 0, 0},
		{"exempt", Position{UnitPrice: 99.99, Quantity: 2, VATPercent: 0}, 199.98, 0, 199.98, 0, 199.98},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcPosition(tt.pos)
			checks := []struct {
				field     string
				got, want float64
			}{
				{"LineSubtotal", got.LineSubtotal, tt.wantSub},
				{"LineDiscount", got.LineDiscount, tt.wantDisc},
				{"TaxableBase", got.TaxableBase, tt.wantBase},
				{"VATAmount", got.VATAmount, tt.wantVAT},
				{"Total", got.Total, tt.wantTot},
			}
			for _, c := range checks {
				if !floatClose(c.got, c.want) {
					t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
				}
			}
		})
	}
}

func mixedVATDocument() Document {
	return Document{
		ID:     "doc",
		Status: StatusDraft,
		Groups: []Group{
			{ID: "g1", Name: "Ground floor", Positions: []Position{
				{ID: "p1", UnitPrice: 1000, Quantity: 1, VATPercent: 22},
				{ID: "p2", UnitPrice: 150, Quantity: 2, DiscountPercent: 10, VATPercent: 22},
			}},
			{ID: "g2", Name: "Renovation", Positions: []Position{
				{ID: "p3", UnitPrice: 500, Quantity: 2, VATPercent: 10},
			}},
		},
	}
}

func TestRecomputeMixedVAT(t *testing.T) {
	got := Recompute(mixedVATDocument())

	// 1000 + 300 + 1000 subtotal, 30 discount, 220 + 59.4 + 100 VAT.
	want := Totals{Subtotal: 2300, Discount: 30, VATAmount: 379.4, Total: 2649.4}
	if !floatClose(got.Subtotal, want.Subtotal) || !floatClose(got.Discount, want.Discount) ||
		!floatClose(got.VATAmount, want.VATAmount) || !floatClose(got.Total, want.Total) {
		t.Errorf("Recompute = %+v, want %+v", got.Totals, want)
	}

	// A single document rate would give 2270 × 22% = 499.4.
	if floatClose(got.VATAmount, 499.4) {
		t.Error("VAT must be summed per position")
	}

	if len(got.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(got.Groups))
	}
	g1 := got.Groups[0]
	if !floatClose(g1.Subtotal, 1300) || !floatClose(g1.VATAmount, 279.4) || !floatClose(g1.Total, 1549.4) {
		t.Errorf("group g1 totals = %+v", g1.Totals)
	}
	if len(g1.Positions) != 2 || g1.Positions[1].PositionID != "p2" || !floatClose(g1.Positions[1].Total, 329.4) {
		t.Errorf("group g1 positions = %+v", g1.Positions)
	}
}

func TestRecomputeEmptyDocument(t *testing.T) {
	for _, doc := range []Document{{}, {Groups: []Group{{ID: "g", Name: "Empty"}}}} {
		got := Recompute(doc)
		if got.Totals != (Totals{}) {
			t.Errorf("Recompute(empty) = %+v, want zero totals", got.Totals)
		}
	}
}

func TestRecomputeOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	var positions []Position
	for i := range 40 {
		positions = append(positions, Position{
			ID:              string(rune('a' + i%26)),
			UnitPrice:       float64(rng.IntN(200000)) / 100,
			Quantity:        float64(1 + rng.IntN(9)),
			DiscountPercent: []float64{0, 5, 7.5, 10, 33}[rng.IntN(5)],
			VATPercent:      []float64{0, 4, 10, 22}[rng.IntN(4)],
		})
	}
	split := func(ps []Position) Document {
		return Document{Groups: []Group{
			{ID: "a", Positions: ps[:13]},
			{ID: "b", Positions: ps[13:29]},
			{ID: "c", Positions: ps[29:]},
		}}
	}
	base := Recompute(split(positions)).Totals

	for round := range 25 {
		shuffled := append([]Position(nil), positions...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		doc := split(shuffled)
		// Reverse the group order too.
		doc.Groups[0], doc.Groups[2] = doc.Groups[2], doc.Groups[0]
		got := Recompute(doc).Totals
		if got != base {
			t.Fatalf("round %d: Recompute = %+v, want %+v", round, got, base)
		}
	}
}

func TestRecomputeTotalIdentity(t *testing.T) {
	got := Recompute(mixedVATDocument())
	if !floatClose(got.Total, got.Subtotal-got.Discount+got.VATAmount) {
		t.Errorf("total %v != subtotal - discount + vat (%v)", got.Total, got.Subtotal-got.Discount+got.VATAmount)
	}
}

func TestSetGroupVAT(t *testing.T) {
	doc := mixedVATDocument()

	updated, err := SetGroupVAT(doc, "g1", 10)
	if err != nil {
		t.Fatalf("SetGroupVAT: %v", err)
	}
	for _, p := range updated.Groups[0].Positions {
		if p.VATPercent != 10 {
			t.Errorf("position %s VAT = %v, want 10", p.ID, p.VATPercent)
		}
	}
	if doc.Groups[0].Positions[0].VATPercent != 22 {
		t.Error("SetGroupVAT modified the input document")
	}
	if got := Recompute(updated); !floatClose(got.VATAmount, 100+27+100) {
		t.Errorf("VAT after bulk change = %v, want 227", got.VATAmount)
	}

	if _, err := SetGroupVAT(doc, "missing", 4); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("SetGroupVAT(missing) error = %v, want ErrGroupNotFound", err)
	}
}

func TestPositionCount(t *testing.T) {
	if got := mixedVATDocument().PositionCount(); got != 3 {
		t.Errorf("PositionCount = %d, want 3", got)
	}
}
