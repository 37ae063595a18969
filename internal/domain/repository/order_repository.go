package repository

import (
	"context"
	"errors"

	"opsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is a domain-specific error returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status entity.OrderStatus
	Type   entity.OrderType
}

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// FindByID retrieves a single order by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByIDForUpdate retrieves an order and takes a row lock on it.
	// Must be called inside a transaction so concurrent state changes
	// on the same order serialize instead of overwriting each other.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List retrieves orders matching the filter, newest first.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)

	// Create persists a new order entity to the storage.
	Create(ctx context.Context, order *entity.Order) error

	// Update modifies an existing order entity in the storage.
	Update(ctx context.Context, order *entity.Order) error

	// Delete removes an order. The caller is responsible for checking
	// that no bill references the order first.
	Delete(ctx context.Context, id uuid.UUID) error
}
