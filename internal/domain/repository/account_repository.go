// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"opsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer will depend on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByIDForUpdate retrieves an account and takes a row lock on it.
	// Must be called inside a transaction; a concurrent locker blocks
	// until this transaction commits and then sees the committed state.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByPhone retrieves a single account by its phone number.
	FindByPhone(ctx context.Context, phone string) (*entity.Account, error)

	// CodeExists reports whether any account already uses the display code.
	// The identifier generator uses this for its collision check.
	CodeExists(ctx context.Context, code string) (bool, error)

	// ListByStatus retrieves accounts in a given approval status,
	// newest first.
	ListByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Account, error)

	// Create persists a new account entity to the storage.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account entity in the storage.
	Update(ctx context.Context, account *entity.Account) error
}
