package services

import (
	"fmt"
	"log"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
)

// LoadProposal reads a proposal with its groups and positions into an
// engine.Document. Groups and positions are in sort order.
func LoadProposal(app *pocketbase.PocketBase, id string) (engine.Document, error) {
	rec, err := app.FindRecordById("proposals", id)
	if err != nil {
		return engine.Document{}, fmt.Errorf("proposal %s not found: %w", id, err)
	}

	doc := engine.Document{
		ID:       rec.Id,
		Number:   rec.GetString("number"),
		ClientID: rec.GetString("client"),
		Manager:  rec.GetString("manager"),
		Date:     rec.GetDateTime("date").Time(),
		Status:   engine.Status(rec.GetString("status")),
		Notes:    rec.GetString("notes"),
		Locale:   engine.ParseLocale(rec.GetString("locale")),
	}
	if client, err := app.FindRecordById("counterparties", doc.ClientID); err == nil {
		doc.ClientName = client.GetString("name")
	}

	groupRecs, err := sortedRecords(app, "proposal_groups", dbx.HashExp{"proposal": rec.Id})
	if err != nil {
		return engine.Document{}, fmt.Errorf("load groups of %s: %w", id, err)
	}
	for _, g := range groupRecs {
		positionRecs, err := sortedRecords(app, "proposal_positions", dbx.HashExp{"proposal_group": g.Id})
		if err != nil {
			return engine.Document{}, fmt.Errorf("load positions of group %s: %w", g.Id, err)
		}
		group := engine.Group{
			ID:        g.Id,
			Name:      g.GetString("name"),
			Order:     g.GetInt("sort_order"),
			Positions: make([]engine.Position, 0, len(positionRecs)),
		}
		for _, p := range positionRecs {
			group.Positions = append(group.Positions, positionFromRecord(p))
		}
		doc.Groups = append(doc.Groups, group)
	}
	return doc, nil
}

func positionFromRecord(r *core.Record) engine.Position {
	p := engine.Position{
		ID:                 r.Id,
		CategoryID:         r.GetString("category"),
		SupplierCategoryID: r.GetString("supplier_category"),
		Description:        r.GetString("description"),
		Notes:              r.GetString("notes"),
		UnitPrice:          r.GetFloat("unit_price"),
		Quantity:           r.GetFloat("quantity"),
		DiscountPercent:    r.GetFloat("discount_percent"),
		VATPercent:         r.GetFloat("vat_percent"),
		Order:              r.GetInt("sort_order"),
	}
	if err := decodeJSONField(r, "configuration", &p.Configuration); err != nil {
		log.Printf("proposal: positionFromRecord: bad configuration on %s: %v", r.Id, err)
	}
	return p
}

// ProposalIDForGroup returns the proposal a group belongs to.
func ProposalIDForGroup(app *pocketbase.PocketBase, groupID string) (string, error) {
	g, err := app.FindRecordById("proposal_groups", groupID)
	if err != nil {
		return "", fmt.Errorf("group %s not found: %w", groupID, err)
	}
	return g.GetString("proposal"), nil
}
