package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the bill payment sub-lifecycle.
// There is no partial-payment state: a bill is pending until it is settled
// in full by an explicit confirmation, then successful forever.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentSuccessful PaymentStatus = "successful"
)

// String returns the string representation of the PaymentStatus.
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid checks if the PaymentStatus is a known value.
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentSuccessful
}

// Bill is a client-facing invoice generated from exactly one order.
// The commercial fields are a frozen copy taken at creation time; editing
// the originating order afterwards must not change an issued bill.
type Bill struct {
	ID         uuid.UUID
	BillNumber string    // Generated, unique, human-facing.
	OrderID    uuid.UUID // Originating order. At most one bill per order.
	ClientID   uuid.UUID // The client who owes the bill.

	// Frozen commercial snapshot of the order.
	MaterialName    string
	Description     string
	Quantity        decimal.Decimal
	Unit            string
	UnitPrice       decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal

	// Delivery details copied at creation.
	DeliveryAddress string
	Pincode         string
	VehicleInfo     string

	PaymentStatus PaymentStatus
	PaymentMethod string
	TransactionID string
	PaymentNotes  string
	PaidAt        *time.Time

	SentAt    time.Time
	DueDate   *time.Time
	Notes     string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPaid reports whether the bill has been settled.
func (b *Bill) IsPaid() bool {
	return b.PaymentStatus == PaymentSuccessful
}
