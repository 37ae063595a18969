package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType distinguishes sale orders from purchase orders.
type OrderType string

const (
	// OrderTypeSale indicates a sale to a customer.
	OrderTypeSale OrderType = "sale"
	// OrderTypePurchase indicates a purchase from a supplier.
	OrderTypePurchase OrderType = "purchase"
)

// String returns the string representation of the OrderType.
func (t OrderType) String() string {
	return string(t)
}

// IsValid checks if the OrderType is a known value.
func (t OrderType) IsValid() bool {
	return t == OrderTypeSale || t == OrderTypePurchase
}

// OrderPriority is the handling priority of an order.
type OrderPriority string

const (
	PriorityLow    OrderPriority = "low"
	PriorityMedium OrderPriority = "medium"
	PriorityHigh   OrderPriority = "high"
)

// IsValid checks if the OrderPriority is a known value.
func (p OrderPriority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// OrderStatus represents the order lifecycle state.
type OrderStatus string

const (
	OrderDraft      OrderStatus = "draft"
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderStatusFlow lists the forward transitions of the order state machine.
// Cancellation is handled separately: it is legal from any non-terminal state.
var orderStatusFlow = map[OrderStatus][]OrderStatus{
	OrderDraft:      {OrderPending},
	OrderPending:    {OrderConfirmed},
	OrderConfirmed:  {OrderProcessing},
	OrderProcessing: {OrderShipped},
	OrderShipped:    {OrderDelivered},
}

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderDraft, OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderCancelled {
		return !s.IsTerminal()
	}

	return slices.Contains(orderStatusFlow[s], next)
}

// Order is a purchase or sale order created by staff. Subtotal,
// DiscountAmount and TotalAmount are derived from Quantity, UnitPrice and
// DiscountPercent and are never accepted from callers.
type Order struct {
	ID               uuid.UUID
	OrderNumber      string // Generated, unique, human-facing.
	MaterialName     string
	Description      string
	Quantity         decimal.Decimal
	Unit             string
	UnitPrice        decimal.Decimal
	DiscountPercent  decimal.Decimal
	Subtotal         decimal.Decimal // quantity x unitPrice, 2dp.
	DiscountAmount   decimal.Decimal // subtotal x discount/100, 2dp.
	TotalAmount      decimal.Decimal // subtotal - discountAmount, 2dp.
	Type             OrderType
	Priority         OrderPriority
	Status           OrderStatus
	CustomerID       *uuid.UUID // Optional client reference.
	CreatedBy        uuid.UUID  // Staff account that created the order.
	ExpectedDelivery *time.Time
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
