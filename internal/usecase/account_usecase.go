// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"opsdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterAccountInput defines the data required to submit a new account.
type RegisterAccountInput struct {
	FullName string
	Phone    string
	Email    string
	Password string
	Role     entity.Role
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Phone    string
	Password string
}

// ApprovalDecisionInput identifies an account and the admin acting on it.
type ApprovalDecisionInput struct {
	AccountID uuid.UUID
	AdminID   uuid.UUID
}

// RejectAccountInput carries the mandatory rejection reason alongside the decision.
type RejectAccountInput struct {
	AccountID uuid.UUID
	AdminID   uuid.UUID
	Reason    string
}

// --- Output DTOs ---

// RegisterAccountOutput returns the newly created account.
type RegisterAccountOutput struct {
	Account *entity.Account
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	Account      *entity.Account
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register validates and persists a new account. Client and dealer
	// accounts are created approved; employee roles start pending and
	// cannot log in until an admin approves them.
	Register(ctx context.Context, input *RegisterAccountInput) (*RegisterAccountOutput, error)

	// Login authenticates by phone and password and issues tokens.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Approve moves a pending account to approved.
	Approve(ctx context.Context, input *ApprovalDecisionInput) (*entity.Account, error)

	// Reject moves a pending account to rejected with a reason.
	Reject(ctx context.Context, input *RejectAccountInput) (*entity.Account, error)

	// Reopen moves an approved or rejected account back to pending.
	Reopen(ctx context.Context, input *ApprovalDecisionInput) (*entity.Account, error)

	// ListByStatus returns accounts in the given approval status.
	ListByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Account, error)
}
