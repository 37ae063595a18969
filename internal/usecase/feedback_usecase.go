package usecase

import (
	"context"

	"opsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SubmitFeedbackInput defines the data required to attach feedback to a bill.
type SubmitFeedbackInput struct {
	BillID      uuid.UUID
	ClientID    uuid.UUID
	Rating      int
	Comments    string
	Suggestions string
}

// RespondFeedbackInput defines an admin response to a feedback record.
type RespondFeedbackInput struct {
	FeedbackID uuid.UUID
	AdminID    uuid.UUID
	Response   string
}

// SetFeedbackStatusInput moves a feedback record to a new review status.
type SetFeedbackStatusInput struct {
	FeedbackID uuid.UUID
	Status     entity.FeedbackStatus
}

// FeedbackUsecase defines the interface for the feedback review workflow.
type FeedbackUsecase interface {
	// Submit validates and stores a client's feedback on their own bill.
	// At most one feedback per bill.
	Submit(ctx context.Context, input *SubmitFeedbackInput) (*entity.Feedback, error)

	// Respond stores an admin response and moves submitted feedback to
	// reviewed. Re-responding overwrites the previous response text.
	Respond(ctx context.Context, input *RespondFeedbackInput) (*entity.Feedback, error)

	// SetStatus applies an explicit status transition.
	SetStatus(ctx context.Context, input *SetFeedbackStatusInput) (*entity.Feedback, error)

	// List returns all feedback records, newest first.
	List(ctx context.Context) ([]*entity.Feedback, error)
}
