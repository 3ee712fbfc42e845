package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

// MissingFieldsError aggregates every missing required field of a draft into
// one user-facing message. Submission is rejected as a whole — the gateway is
// never called with a partial draft, and the user sees the full list at once
// rather than one field per attempt.
type MissingFieldsError struct {
	Labels []string
}

func (e *MissingFieldsError) Error() string {
	return "Please fill in the required fields: " + strings.Join(e.Labels, ", ")
}

// fieldCheck ties a human-readable label to a presence predicate over the draft.
type fieldCheck struct {
	label   string
	present func(d *dto.BillDraft) bool
}

// coreChecks apply to every bill regardless of type.
var coreChecks = []fieldCheck{
	{"Customer", func(d *dto.BillDraft) bool { return d.CustomerID != 0 }},
	{"Currency", func(d *dto.BillDraft) bool { return d.Currency != "" }},
	{"Subtotal", func(d *dto.BillDraft) bool { return !d.Subtotal.IsZero() }},
	{"Amount", func(d *dto.BillDraft) bool { return !d.Amount.IsZero() }},
	{"Expect Payment Time", func(d *dto.BillDraft) bool { return d.ExpectPaymentTime != "" }},
	{"Description", func(d *dto.BillDraft) bool { return d.Describe != "" }},
	{"Status", func(d *dto.BillDraft) bool { return d.Status != nil }},
}

// typeChecks holds the additional required fields per bill type.
// Deposit has none.
var typeChecks = map[model.BillType][]fieldCheck{
	model.BillTypeSubscription: {
		{"Order", func(d *dto.BillDraft) bool { return d.OrderID != 0 }},
		{"Period From", func(d *dto.BillDraft) bool { return d.PeriodFrom != "" }},
		{"Period To", func(d *dto.BillDraft) bool { return d.PeriodTo != "" }},
	},
	model.BillTypeTicket: {
		{"Ticket Date", func(d *dto.BillDraft) bool { return d.TicketDate != "" }},
		{"Ticket Time", func(d *dto.BillDraft) bool { return d.TicketTime != "" }},
		{"Ticket Type", func(d *dto.BillDraft) bool { return d.TicketType != "" }},
	},
}

// RequiredFieldLabels returns the labels a draft of the given type must fill.
func RequiredFieldLabels(t model.BillType) []string {
	labels := make([]string, 0, len(coreChecks)+3)
	for _, c := range coreChecks {
		labels = append(labels, c.label)
	}
	for _, c := range typeChecks[t] {
		labels = append(labels, c.label)
	}
	return labels
}

// ValidateDraft returns the labels of every missing required field, core
// fields first, then the type-conditional ones. An unmapped type name is
// itself reported as a missing "Type". An empty result means the draft may
// be submitted.
func ValidateDraft(d *dto.BillDraft) []string {
	var missing []string
	for _, c := range coreChecks {
		if !c.present(d) {
			missing = append(missing, c.label)
		}
	}

	t, ok := model.ParseBillType(d.Type)
	if !ok {
		missing = append(missing, "Type")
		return missing
	}
	for _, c := range typeChecks[t] {
		if !c.present(d) {
			missing = append(missing, c.label)
		}
	}
	return missing
}

// AssemblePayload maps a validated draft into the wire shape, mapping the
// type name to its code and serializing the typeMetadata envelope (including
// the tax breakdown) as a single JSON string attached to the payload.
// Callers must run ValidateDraft first; an unmapped type is still an error
// here so a payload can never leave with a null type.
func AssemblePayload(d *dto.BillDraft) (dto.BillPayload, error) {
	t, ok := model.ParseBillType(d.Type)
	if !ok {
		return dto.BillPayload{}, fmt.Errorf("unknown bill type %q", d.Type)
	}

	breakdown := model.TaxBreakdown{GST: d.GST, HST: d.HST, PST: d.PST}
	meta := model.TypeMetadata{TaxBreakdown: &breakdown}
	switch t {
	case model.BillTypeSubscription:
		meta.OrderID = d.OrderID
		meta.PeriodFrom = d.PeriodFrom
		meta.PeriodTo = d.PeriodTo
	case model.BillTypeTicket:
		meta.TicketDate = d.TicketDate
		meta.TicketTime = d.TicketTime
		meta.TicketType = d.TicketType
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return dto.BillPayload{}, fmt.Errorf("serialize type metadata: %w", err)
	}

	status := int(model.BillStatusUnpaid)
	if d.Status != nil {
		status = *d.Status
	}

	return dto.BillPayload{
		CustomerID:        d.CustomerID,
		OrderID:           d.OrderID,
		CarID:             d.CarID,
		AdminID:           d.AdminID,
		Currency:          d.Currency,
		Type:              int(t),
		Status:            status,
		Subtotal:          d.Subtotal,
		Discount:          d.Discount,
		Tax:               d.Tax,
		Amount:            d.Amount,
		ExpectPaymentTime: d.ExpectPaymentTime,
		Describe:          d.Describe,
		TypeMetadata:      string(metaJSON),
	}, nil
}
