package services

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"doorquote/collections"
)

var (
	phonePattern     = regexp.MustCompile(`^\+?[0-9][0-9 ()./-]{5,19}$`)
	vatNumberPattern = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{2,13}$`)
)

// CounterpartyInput is the editable part of a counterparty.
type CounterpartyInput struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	VATNumber string `json:"vat_number"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}

// Normalize trims every field and upper-cases the VAT number.
func (in *CounterpartyInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.VATNumber = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(in.VATNumber), " ", ""))
	in.Address = strings.TrimSpace(in.Address)
	in.Notes = strings.TrimSpace(in.Notes)
}

// ValidateCounterparty returns field -> message for every invalid field of
// in. An empty map means the input is valid.
func ValidateCounterparty(in CounterpartyInput) map[string]string {
	return fieldErrors(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Type, validation.Required, validation.In(anySlice(collections.CounterpartyTypes)...)),
		validation.Field(&in.Email, is.EmailFormat),
		validation.Field(&in.Phone, validation.Match(phonePattern).Error("must be a valid phone number")),
		validation.Field(&in.VATNumber, validation.Match(vatNumberPattern).Error("must be a country code followed by the VAT number")),
	))
}

// ProposalInput is the header of a new or edited proposal.
type ProposalInput struct {
	ClientID string `json:"client"`
	Manager  string `json:"manager"`
	Status   string `json:"status"`
	Locale   string `json:"locale"`
	Notes    string `json:"notes"`
}

// ValidateProposalInput checks a proposal header. Status and Locale may be
// empty, in which case defaults apply.
func ValidateProposalInput(in ProposalInput) map[string]string {
	return fieldErrors(validation.ValidateStruct(&in,
		validation.Field(&in.ClientID, validation.Required),
		validation.Field(&in.Manager, validation.Length(0, 120)),
		validation.Field(&in.Status, validation.In(anySlice(collections.ProposalStatuses)...)),
		validation.Field(&in.Locale, validation.In("en", "it")),
	))
}

// PositionInput is a position as submitted by a client.
type PositionInput struct {
	CategoryID         string         `json:"category"`
	SupplierCategoryID string         `json:"supplier_category"`
	Configuration      map[string]any `json:"configuration"`
	Notes              string         `json:"notes"`
	UnitPrice          float64        `json:"unit_price"`
	Quantity           float64        `json:"quantity"`
	DiscountPercent    float64        `json:"discount_percent"`
	VATPercent         float64        `json:"vat_percent"`
}

// ValidatePositionInput checks the commercial fields of a position. The
// configuration itself is checked by the engine against the resolved
// parameters.
func ValidatePositionInput(in PositionInput) map[string]string {
	return fieldErrors(validation.ValidateStruct(&in,
		validation.Field(&in.CategoryID, validation.Required),
		validation.Field(&in.SupplierCategoryID, validation.Required),
		validation.Field(&in.UnitPrice, validation.Min(0.0)),
		validation.Field(&in.Quantity, validation.Required.Error("must be greater than 0"), validation.Min(0.0).Exclusive()),
		validation.Field(&in.DiscountPercent, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&in.VATPercent, validation.Min(0.0), validation.Max(100.0)),
	))
}

// ValidateVATPercent checks a single VAT rate.
func ValidateVATPercent(vat float64) error {
	return validation.Validate(vat, validation.Min(0.0), validation.Max(100.0))
}

func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if err == nil {
		return out
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		out["_form"] = err.Error()
		return out
	}
	for field, fe := range errs {
		out[field] = fe.Error()
	}
	return out
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
