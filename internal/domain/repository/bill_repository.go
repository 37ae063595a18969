package repository

import (
	"context"
	"errors"

	"opsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrBillNotFound is a domain-specific error returned when a bill is not
// found, including when the bill exists but belongs to another client.
var ErrBillNotFound = errors.New("bill not found")

// BillRepository defines the standard operations for bill persistence.
type BillRepository interface {
	// FindByID retrieves a single bill by its unique ID without ownership
	// scoping. For client-facing reads use FindByIDForClient.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)

	// FindByIDForClient retrieves a bill scoped to the owning client.
	// The clientID is part of the query predicate, not checked afterwards,
	// so another client's bill is indistinguishable from a missing one.
	FindByIDForClient(ctx context.Context, id, clientID uuid.UUID) (*entity.Bill, error)

	// FindByIDForClientForUpdate is FindByIDForClient with a row lock.
	// Must be called inside a transaction; two concurrent payment
	// attempts on the same bill serialize on the lock, so the second
	// one re-reads the settled row instead of a stale snapshot.
	FindByIDForClientForUpdate(ctx context.Context, id, clientID uuid.UUID) (*entity.Bill, error)

	// ListForClient retrieves all bills of a client, newest first.
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Bill, error)

	// ExistsForOrder reports whether any bill references the order.
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)

	// Create persists a new bill entity to the storage.
	Create(ctx context.Context, bill *entity.Bill) error

	// Update modifies an existing bill entity in the storage.
	Update(ctx context.Context, bill *entity.Bill) error
}
