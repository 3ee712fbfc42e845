package dto

import (
	"github.com/shopspring/decimal"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// BillFilter is bound from the query string of GET /v1/bills and forwarded
// to the billing service's list operation.
type BillFilter struct {
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=200"`
	Search     string `form:"search"`
	Status     *int   `form:"status"`
	Type       *int   `form:"type"`
	CustomerID *int   `form:"customer_id"`
}

// ─── Draft / Request DTOs ────────────────────────────────────────────────────

// BillDraft is the typed form state submitted by the console UI for create
// and update. All monetary fields are numeric; parsing happens once at the
// HTTP boundary, never inside the domain. Tax and Amount are derived — the
// server recomputes and overwrites them before validation, so a draft can
// never be read with tax/amount inconsistent with its own inputs.
type BillDraft struct {
	CustomerID int `json:"customer_id"`
	OrderID    int `json:"order_id"`
	CarID      int `json:"car_id"`
	AdminID    int `json:"admin_id"`

	Currency string `json:"currency" validate:"omitempty,oneof=cad usd eur"`
	// Type is the human-readable name (Deposit | Subscription | Ticket);
	// mapping to the wire code happens during payload assembly.
	Type   string `json:"type"`
	Status *int   `json:"status"`

	Subtotal decimal.Decimal `json:"subtotal" validate:"min=0"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Amount   decimal.Decimal `json:"amount"`

	GST decimal.Decimal `json:"gst" validate:"min=0,max=1"`
	HST decimal.Decimal `json:"hst" validate:"min=0,max=1"`
	PST decimal.Decimal `json:"pst" validate:"min=0,max=1"`

	ExpectPaymentTime string `json:"expect_payment_time"`
	Describe          string `json:"describe"`

	// Subscription fields
	PeriodFrom string `json:"period_from"`
	PeriodTo   string `json:"period_to"`

	// Ticket fields
	TicketDate string `json:"ticket_date"`
	TicketTime string `json:"ticket_time"`
	TicketType string `json:"ticket_type"`
}

// RefundRequest is created fresh per refund action and discarded after
// submission; it is never persisted here.
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Reason string          `json:"reason"`
}

// ─── Wire payload ────────────────────────────────────────────────────────────

// BillPayload is the create/update wire shape sent to the billing service.
// TypeMetadata is the serialized envelope (period / ticket fields plus the
// tax breakdown) attached as a single JSON string.
type BillPayload struct {
	InvoiceNumber string `json:"invoiceNumber,omitempty"`

	CustomerID int `json:"customerId"`
	OrderID    int `json:"orderId"`
	CarID      int `json:"carId"`
	AdminID    int `json:"adminId"`

	Currency string `json:"currency"`
	Type     int    `json:"type"`
	Status   int    `json:"status"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Amount   decimal.Decimal `json:"amount"`

	ExpectPaymentTime string `json:"expectPaymentTime"`
	Describe          string `json:"describe"`

	TypeMetadata string `json:"typeMetadata,omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	Total       int64 `json:"total"`
}

type BillListResponse struct {
	Data []model.Bill `json:"data"`
	Meta PageMeta     `json:"meta"`
}

// FiltersResponse exposes the status and type code→label maps the list UI
// renders its dropdowns from.
type FiltersResponse struct {
	Status map[string]string `json:"status"`
	Type   map[string]string `json:"type"`
}

// QuickRefundResponse lists the preset refund amounts for a subtotal.
type QuickRefundResponse struct {
	Full    decimal.Decimal `json:"full"`
	Sixty   decimal.Decimal `json:"sixty"`
	Half    decimal.Decimal `json:"half"`
	Quarter decimal.Decimal `json:"quarter"`
}

// ─── Import DTOs ─────────────────────────────────────────────────────────────

// RowFailure identifies one CSV data row that could not be imported.
// Row is 1-based over data rows (the header row is not counted).
type RowFailure struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport aggregates the outcome of a batch import. The batch is not
// transactional: succeeded rows stay persisted even when siblings fail.
type ImportReport struct {
	Succeeded int          `json:"succeeded"`
	Failures  []RowFailure `json:"failures"`
}

type ImportRunResponse struct {
	ID        string       `json:"id"`
	Filename  string       `json:"filename"`
	TotalRows int          `json:"total_rows"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Failures  []RowFailure `json:"failures"`
	CreatedAt string       `json:"created_at"`
}
