package entity

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus represents the account approval lifecycle state.
type ApprovalStatus string

const (
	// ApprovalPending indicates the account awaits an admin decision.
	ApprovalPending ApprovalStatus = "pending"
	// ApprovalApproved indicates the account may log in.
	ApprovalApproved ApprovalStatus = "approved"
	// ApprovalRejected indicates an admin rejected the account.
	ApprovalRejected ApprovalStatus = "rejected"
)

// String returns the string representation of the ApprovalStatus.
func (s ApprovalStatus) String() string {
	return string(s)
}

// IsValid checks if the ApprovalStatus is a known value.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

// Account is the core identity entity. It carries the credential, the role
// and the approval state that gates login for employee roles.
type Account struct {
	ID              uuid.UUID      // Surrogate key.
	Code            string         // Short numeric display code, unique, shown to humans.
	FullName        string         // The account holder's full name.
	Phone           string         // 10-digit phone number, used as the login identifier.
	Email           string         // Contact email, unique.
	PasswordHash    string         // bcrypt hash of the password credential.
	Role            Role           // Closed role set; see Role.
	ApprovalStatus  ApprovalStatus // pending / approved / rejected.
	ApprovedBy      *uuid.UUID     // Admin who approved or rejected the account, if any.
	ApprovedAt      *time.Time     // When the account was approved.
	RejectedAt      *time.Time     // When the account was rejected.
	RejectionReason string         // Required on rejection, empty otherwise.
	LastLoginAt     *time.Time     // Stamped on every successful authentication.
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanLogIn reports whether the approval state permits authentication.
// Non-gated roles are created approved, so the status check is uniform.
func (a *Account) CanLogIn() bool {
	return a.ApprovalStatus == ApprovalApproved
}
