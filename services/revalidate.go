package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"doorquote/engine"
)

// PositionCheck is the outcome of re-validating one stored position
// against the current catalog.
type PositionCheck struct {
	ProposalID     string            `json:"proposalId"`
	ProposalNumber string            `json:"proposalNumber"`
	GroupName      string            `json:"groupName"`
	PositionID     string            `json:"positionId"`
	Description    string            `json:"description"`
	OK             bool              `json:"ok"`
	Errors         map[string]string `json:"errors,omitempty"`
	// Reason is set when the position could not be checked at all, e.g.
	// its supplier-category link was removed.
	Reason string `json:"reason,omitempty"`
	// CurrentDescription is the description the position would get today,
	// set only when it differs from the stored one.
	CurrentDescription string `json:"currentDescription,omitempty"`
}

// RevalidationReport lists every checked position.
type RevalidationReport struct {
	Positions []PositionCheck `json:"positions"`
}

// Stale returns the positions that no longer validate.
func (r RevalidationReport) Stale() []PositionCheck {
	var out []PositionCheck
	for _, p := range r.Positions {
		if !p.OK {
			out = append(out, p)
		}
	}
	return out
}

// resolverCache loads the catalog once and memoizes bindings per category
// and overrides per supplier for a sweep over many positions.
type resolverCache struct {
	app       *pocketbase.PocketBase
	catalog   *engine.Catalog
	bindings  map[string][]engine.CategoryParameter
	overrides map[string][]engine.SupplierParameterOverride
}

func newResolverCache(app *pocketbase.PocketBase) (*resolverCache, error) {
	catalog, err := LoadCatalog(app)
	if err != nil {
		return nil, err
	}
	return &resolverCache{
		app:       app,
		catalog:   catalog,
		bindings:  make(map[string][]engine.CategoryParameter),
		overrides: make(map[string][]engine.SupplierParameterOverride),
	}, nil
}

func (c *resolverCache) resolve(categoryID, supplierID string) ([]engine.EffectiveParameter, error) {
	b, ok := c.bindings[categoryID]
	if !ok {
		var err error
		if b, err = LoadBindings(c.app, categoryID); err != nil {
			return nil, err
		}
		c.bindings[categoryID] = b
	}
	o, ok := c.overrides[supplierID]
	if !ok {
		var err error
		if o, err = LoadOverrides(c.app, supplierID); err != nil {
			return nil, err
		}
		c.overrides[supplierID] = o
	}
	return engine.Resolve(categoryID, supplierID, c.catalog, b, o), nil
}

// RevalidateProposals re-resolves the effective parameters of every stored
// position and validates its configuration again. Stored positions are
// never modified.
func RevalidateProposals(app *pocketbase.PocketBase) (RevalidationReport, error) {
	proposals := []*core.Record{}
	if err := app.RecordQuery("proposals").OrderBy("number ASC").All(&proposals); err != nil {
		return RevalidationReport{}, fmt.Errorf("list proposals: %w", err)
	}
	cache, err := newResolverCache(app)
	if err != nil {
		return RevalidationReport{}, err
	}

	report := RevalidationReport{Positions: []PositionCheck{}}
	for _, p := range proposals {
		doc, err := LoadProposal(app, p.Id)
		if err != nil {
			return report, err
		}
		checks, err := cache.checkDocument(doc)
		if err != nil {
			return report, err
		}
		report.Positions = append(report.Positions, checks...)
	}
	return report, nil
}

// RevalidateProposal checks the positions of a single proposal.
func RevalidateProposal(app *pocketbase.PocketBase, id string) (RevalidationReport, error) {
	doc, err := LoadProposal(app, id)
	if err != nil {
		return RevalidationReport{}, err
	}
	cache, err := newResolverCache(app)
	if err != nil {
		return RevalidationReport{}, err
	}
	checks, err := cache.checkDocument(doc)
	if err != nil {
		return RevalidationReport{}, err
	}
	return RevalidationReport{Positions: checks}, nil
}

func (c *resolverCache) checkDocument(doc engine.Document) ([]PositionCheck, error) {
	var out []PositionCheck
	for _, g := range doc.Groups {
		for _, pos := range g.Positions {
			check := PositionCheck{
				ProposalID:     doc.ID,
				ProposalNumber: doc.Number,
				GroupName:      g.Name,
				PositionID:     pos.ID,
				Description:    pos.Description,
			}
			supplierID, err := SupplierForLink(c.app, pos.SupplierCategoryID, pos.CategoryID)
			if err != nil {
				check.Reason = err.Error()
				out = append(out, check)
				continue
			}
			params, err := c.resolve(pos.CategoryID, supplierID)
			if err != nil {
				return nil, err
			}
			res := engine.Validate(params, pos.Configuration)
			check.OK = res.OK
			if !res.OK {
				check.Errors = res.Errors
			} else if current := engine.Describe(params, pos.Configuration, doc.Locale, pos.Notes); current != pos.Description {
				check.CurrentDescription = current
			}
			out = append(out, check)
		}
	}
	return out, nil
}
