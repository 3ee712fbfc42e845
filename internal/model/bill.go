package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the lifecycle state of a persisted bill. The numeric values
// are the wire codes used by the billing service and the CSV legend.
// Transitions are owned by the remote service; this backend only reads the
// status and gates which actions it will forward.
type BillStatus int

const (
	BillStatusUnpaid            BillStatus = 0
	BillStatusPaid              BillStatus = 1
	BillStatusFailed            BillStatus = 2
	BillStatusRefunded          BillStatus = 3
	BillStatusPartiallyRefunded BillStatus = 4
)

func (s BillStatus) String() string {
	switch s {
	case BillStatusUnpaid:
		return "Unpaid"
	case BillStatusPaid:
		return "Paid"
	case BillStatusFailed:
		return "Failed"
	case BillStatusRefunded:
		return "Refunded"
	case BillStatusPartiallyRefunded:
		return "PartiallyRefunded"
	default:
		return "Unknown"
	}
}

// Deletable reports whether a bill in this status may be deleted.
// Only unpaid bills can be removed.
func (s BillStatus) Deletable() bool { return s == BillStatusUnpaid }

// Refundable reports whether a bill in this status accepts a refund request.
// Paid bills can be refunded in full or partially; partially refunded bills
// can be refunded again until fully refunded. Refunded and Failed are terminal.
func (s BillStatus) Refundable() bool {
	return s == BillStatusPaid || s == BillStatusPartiallyRefunded
}

// BillType determines which extra metadata fields are mandatory.
// Immutable once a bill exists.
type BillType int

const (
	BillTypeDeposit      BillType = 1
	BillTypeSubscription BillType = 2
	BillTypeTicket       BillType = 3
)

func (t BillType) String() string {
	switch t {
	case BillTypeDeposit:
		return "Deposit"
	case BillTypeSubscription:
		return "Subscription"
	case BillTypeTicket:
		return "Ticket"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the known type codes.
func (t BillType) Valid() bool {
	return t == BillTypeDeposit || t == BillTypeSubscription || t == BillTypeTicket
}

// ParseBillType maps the human-readable type name to its code.
// Returns false for unmapped names — callers must fail validation rather
// than submit an unknown type.
func ParseBillType(name string) (BillType, bool) {
	switch name {
	case "Deposit":
		return BillTypeDeposit, true
	case "Subscription", "Subscribe":
		return BillTypeSubscription, true
	case "Ticket":
		return BillTypeTicket, true
	default:
		return 0, false
	}
}

// TaxBreakdown holds the three independent tax rates as fractions in [0,1].
// The rates are summed before being applied to the discounted subtotal.
type TaxBreakdown struct {
	GST decimal.Decimal `json:"gst"`
	HST decimal.Decimal `json:"hst"`
	PST decimal.Decimal `json:"pst"`
}

// Sum returns gst + hst + pst.
func (b TaxBreakdown) Sum() decimal.Decimal {
	return b.GST.Add(b.HST).Add(b.PST)
}

// TypeMetadata is the envelope serialized into a bill payload alongside the
// tax breakdown. Which fields are populated depends on the bill type:
// Subscription carries the billing period, Ticket the ticket details,
// Deposit nothing extra.
type TypeMetadata struct {
	OrderID    int    `json:"orderId,omitempty"`
	PeriodFrom string `json:"periodFrom,omitempty"`
	PeriodTo   string `json:"periodTo,omitempty"`

	TicketDate string `json:"ticketDate,omitempty"`
	TicketTime string `json:"ticketTime,omitempty"`
	TicketType string `json:"ticketType,omitempty"`

	TaxBreakdown *TaxBreakdown `json:"taxBreakdown,omitempty"`
}

// Bill is the billing entity as returned by the remote billing service.
// id, invoiceNumber, createdAt and updatedAt are server-assigned and
// read-only here.
type Bill struct {
	ID            int    `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`

	CustomerID int `json:"customerId"`
	OrderID    int `json:"orderId"`
	CarID      int `json:"carId"`
	AdminID    int `json:"adminId"`

	Currency string     `json:"currency"` // cad | usd | eur
	Type     BillType   `json:"type"`
	Status   BillStatus `json:"status"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Amount   decimal.Decimal `json:"amount"`
	Balance  decimal.Decimal `json:"balance"`

	ExpectPaymentTime time.Time `json:"expectPaymentTime"`
	Describe          string    `json:"describe"`

	TaxBreakdown TaxBreakdown  `json:"taxBreakdown"`
	TypeMetadata *TypeMetadata `json:"typeMetadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
