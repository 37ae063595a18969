package repository

import (
	"context"
	"errors"

	"opsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrFeedbackNotFound is a domain-specific error returned when feedback is not found.
var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepository defines the standard operations for feedback persistence.
type FeedbackRepository interface {
	// FindByID retrieves a single feedback record by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Feedback, error)

	// FindByIDForUpdate retrieves a feedback record and takes a row lock
	// on it. Must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Feedback, error)

	// FindByBill retrieves the feedback attached to a bill, if any.
	FindByBill(ctx context.Context, billID uuid.UUID) (*entity.Feedback, error)

	// List retrieves all feedback records, newest first.
	List(ctx context.Context) ([]*entity.Feedback, error)

	// Create persists a new feedback entity to the storage.
	Create(ctx context.Context, feedback *entity.Feedback) error

	// Update modifies an existing feedback entity in the storage.
	Update(ctx context.Context, feedback *entity.Feedback) error
}
