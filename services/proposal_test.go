package services

import (
	"testing"
	"time"

	"doorquote/engine"
	"doorquote/testhelpers"
)

func TestLoadProposal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := testhelpers.CreateDoorFixture(t, app)
	second := testhelpers.CreateTestGroup(t, app, fx.Proposal.Id, "First floor", 2)

	p1 := testhelpers.CreateTestPosition(t, app, fx.Group.Id, fx.Category.Id, fx.Link.Id, fx.ValidConfiguration(), 150, 2, 0, 22)
	p1.Set("sort_order", 2)
	if err := app.Save(p1); err != nil {
		t.Fatalf("save: %v", err)
	}
	p2 := testhelpers.CreateTestPosition(t, app, fx.Group.Id, fx.Category.Id, fx.Link.Id, fx.ValidConfiguration(), 100, 1, 10, 22)
	p2.Set("sort_order", 1)
	if err := app.Save(p2); err != nil {
		t.Fatalf("save: %v", err)
	}
	testhelpers.CreateTestPosition(t, app, second.Id, fx.Category.Id, fx.Link.Id, fx.ValidConfiguration(), 200, 1, 0, 10)

	doc, err := LoadProposal(app, fx.Proposal.Id)
	if err != nil {
		t.Fatalf("LoadProposal() error = %v", err)
	}
	if doc.Number != "PRV-2026-0001" || doc.ClientName != "Studio Verdi" || doc.Locale != engine.LocaleEN {
		t.Errorf("header = %+v", doc)
	}
	if len(doc.Groups) != 2 || doc.Groups[0].Name != "Ground floor" {
		t.Fatalf("groups = %+v", doc.Groups)
	}
	if doc.Groups[0].Positions[0].ID != p2.Id {
		t.Error("positions should follow sort_order")
	}
	if v := doc.Groups[0].Positions[1].Configuration[fx.Model.Id]; v != "Linea" {
		t.Errorf("configuration not decoded, model = %v", v)
	}

	totals := engine.Recompute(doc)
	if !floatClose(totals.Total, 695.8) {
		t.Errorf("total = %v, want 695.8", totals.Total)
	}
}

func TestLoadProposal_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := testhelpers.CreateDoorFixture(t, app)

	doc, err := LoadProposal(app, fx.Proposal.Id)
	if err != nil {
		t.Fatalf("LoadProposal() error = %v", err)
	}
	if doc.PositionCount() != 0 {
		t.Errorf("expected no positions")
	}
	if totals := engine.Recompute(doc); totals.Total != 0 {
		t.Errorf("empty proposal total = %v", totals.Total)
	}

	if _, err := LoadProposal(app, "missing"); err == nil {
		t.Error("expected error for missing proposal")
	}
}

func TestProposalIDForGroup(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := testhelpers.CreateDoorFixture(t, app)

	id, err := ProposalIDForGroup(app, fx.Group.Id)
	if err != nil || id != fx.Proposal.Id {
		t.Errorf("ProposalIDForGroup() = %q, %v", id, err)
	}
}

func TestFormatProposalNumber(t *testing.T) {
	tests := []struct {
		year, seq int
		want      string
	}{
		{2026, 1, "PRV-2026-0001"},
		{2026, 42, "PRV-2026-0042"},
		{2027, 12345, "PRV-2027-12345"},
	}
	for _, tt := range tests {
		if got := formatProposalNumber(tt.year, tt.seq); got != tt.want {
			t.Errorf("formatProposalNumber(%d, %d) = %q, want %q", tt.year, tt.seq, got, tt.want)
		}
	}
}

func TestGenerateProposalNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCounterparty(t, app, "Studio Verdi", "client")
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	got, err := GenerateProposalNumber(app, now)
	if err != nil || got != "PRV-2026-0001" {
		t.Fatalf("first number = %q, %v", got, err)
	}

	testhelpers.CreateTestProposal(t, app, client.Id, "PRV-2026-0001")
	testhelpers.CreateTestProposal(t, app, client.Id, "PRV-2026-0009")
	testhelpers.CreateTestProposal(t, app, client.Id, "PRV-2025-0050")

	got, _ = GenerateProposalNumber(app, now)
	if got != "PRV-2026-0010" {
		t.Errorf("next number = %q, want PRV-2026-0010", got)
	}

	got, _ = GenerateProposalNumber(app, now.AddDate(1, 0, 0))
	if got != "PRV-2027-0001" {
		t.Errorf("new year should restart, got %q", got)
	}
}

func TestGenerateProposalNumber_PastFourDigits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCounterparty(t, app, "Studio Verdi", "client")
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	testhelpers.CreateTestProposal(t, app, client.Id, "PRV-2026-9999")
	got, err := GenerateProposalNumber(app, now)
	if err != nil || got != "PRV-2026-10000" {
		t.Fatalf("after 9999 = %q, %v; want PRV-2026-10000", got, err)
	}

	testhelpers.CreateTestProposal(t, app, client.Id, got)
	got, _ = GenerateProposalNumber(app, now)
	if got != "PRV-2026-10001" {
		t.Errorf("after 10000 = %q, want PRV-2026-10001", got)
	}
}
