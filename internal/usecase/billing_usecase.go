package usecase

import (
	"context"
	"time"

	"opsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateBillInput defines the data required to generate a bill from an order.
// The commercial fields are copied from the order at creation time; only the
// delivery and payment-term details are supplied by the caller.
type CreateBillInput struct {
	OrderID         uuid.UUID
	ClientID        uuid.UUID
	DeliveryAddress string
	Pincode         string
	VehicleInfo     string
	DueDate         *time.Time
	Notes           string
	CreatedBy       uuid.UUID
}

// RecordPaymentInput defines the data required to settle a bill.
type RecordPaymentInput struct {
	BillID        uuid.UUID
	ClientID      uuid.UUID
	PaymentMethod string
	TransactionID string
	Notes         string
}

// --- Output DTOs ---

// BillDetailOutput returns a bill together with its payment QR code.
// PaymentQR is a PNG and is only populated while the bill is unpaid.
type BillDetailOutput struct {
	Bill      *entity.Bill
	PaymentQR []byte
}

// BillingUsecase defines the interface for bill generation and payment.
type BillingUsecase interface {
	// CreateBillFromOrder snapshots an order into a new bill. The order
	// must exist, must not be cancelled and must not have been billed
	// before. The snapshot is taken atomically with respect to concurrent
	// order edits.
	CreateBillFromOrder(ctx context.Context, input *CreateBillInput) (*entity.Bill, error)

	// RecordPayment settles a pending bill exactly once. The client may
	// only pay their own bill; someone else's bill reads as not found.
	RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.Bill, error)

	// ListForClient returns all bills of a client, newest first.
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Bill, error)

	// GetDetail returns a client's bill with a payment QR code when the
	// bill is still unpaid.
	GetDetail(ctx context.Context, billID, clientID uuid.UUID) (*BillDetailOutput, error)
}
