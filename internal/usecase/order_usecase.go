package usecase

import (
	"context"
	"time"

	"opsdesk/internal/domain/entity"
	"opsdesk/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// CreateOrderInput defines the data required to create a new order.
// The three derived amounts are computed server-side and cannot be supplied.
type CreateOrderInput struct {
	MaterialName     string
	Description      string
	Quantity         decimal.Decimal
	Unit             string
	UnitPrice        decimal.Decimal
	DiscountPercent  decimal.Decimal
	Type             entity.OrderType
	Priority         entity.OrderPriority
	CustomerID       *uuid.UUID
	CreatedBy        uuid.UUID
	ExpectedDelivery *time.Time
}

// UpdateOrderInput is a partial patch of an order. Nil fields are left
// unchanged. Touching quantity, unit price or discount re-runs the pricing
// computation; the derived amounts can never be set directly.
type UpdateOrderInput struct {
	OrderID          uuid.UUID
	MaterialName     *string
	Description      *string
	Quantity         *decimal.Decimal
	Unit             *string
	UnitPrice        *decimal.Decimal
	DiscountPercent  *decimal.Decimal
	Priority         *entity.OrderPriority
	Status           *entity.OrderStatus
	CustomerID       *uuid.UUID
	ExpectedDelivery *time.Time
}

// OrderUsecase defines the interface for order lifecycle operations.
type OrderUsecase interface {
	// Create validates the draft, computes the derived amounts, assigns an
	// order number and persists the order with status pending.
	Create(ctx context.Context, input *CreateOrderInput) (*entity.Order, error)

	// Update applies a partial patch, recomputing amounts when commercial
	// fields change and validating any status transition.
	Update(ctx context.Context, input *UpdateOrderInput) (*entity.Order, error)

	// Cancel moves an order to cancelled. Legal from any non-terminal
	// state; repeated calls on a cancelled order succeed without change.
	Cancel(ctx context.Context, orderID uuid.UUID) (*entity.Order, error)

	// Delete removes an order that has no dependent bill.
	Delete(ctx context.Context, orderID uuid.UUID) error

	// Get retrieves a single order.
	Get(ctx context.Context, orderID uuid.UUID) (*entity.Order, error)

	// List retrieves orders matching the filter, newest first.
	List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error)
}
