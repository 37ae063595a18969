package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds for client feedback.
const (
	MinRating = 1
	MaxRating = 5
)

// FeedbackStatus represents the feedback review lifecycle.
type FeedbackStatus string

const (
	FeedbackSubmitted FeedbackStatus = "submitted"
	FeedbackReviewed  FeedbackStatus = "reviewed"
	FeedbackResolved  FeedbackStatus = "resolved"
)

// String returns the string representation of the FeedbackStatus.
func (s FeedbackStatus) String() string {
	return string(s)
}

// IsValid checks if the FeedbackStatus is a known value.
func (s FeedbackStatus) IsValid() bool {
	switch s {
	case FeedbackSubmitted, FeedbackReviewed, FeedbackResolved:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the feedback state machine allows moving
// to next. Forward movement is strictly submitted -> reviewed -> resolved;
// the only backward edge is resolved -> reviewed (reopen).
func (s FeedbackStatus) CanTransitionTo(next FeedbackStatus) bool {
	switch s {
	case FeedbackSubmitted:
		return next == FeedbackReviewed
	case FeedbackReviewed:
		return next == FeedbackResolved
	case FeedbackResolved:
		return next == FeedbackReviewed
	default:
		return false
	}
}

// Feedback is a client's review of a bill. At most one feedback per bill.
type Feedback struct {
	ID          uuid.UUID
	BillID      uuid.UUID
	ClientID    uuid.UUID
	Rating      int // Integer in [MinRating, MaxRating].
	Comments    string
	Suggestions string
	Status      FeedbackStatus
	Response    string     // Admin response text; re-responding overwrites it.
	RespondedBy *uuid.UUID // Admin who responded, if any.
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
