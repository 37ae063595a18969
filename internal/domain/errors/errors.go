package errors

import (
	"net/http"

	"opsdesk/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation and input errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// State-machine errors. Precondition violations are rejected, never
	// silently coerced.
	ErrInvalidTransition = NewBaseError(
		http.StatusConflict,
		"INVALID_TRANSITION",
		"the requested state transition is not allowed",
		"",
	)

	// Lookup errors. Owner mismatch is reported identically to not-found
	// so that guessing ids does not leak existence.
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"resource not found",
		"",
	)

	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"account not found",
		"",
	)

	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"order not found",
		"",
	)

	ErrBillNotFound = NewBaseError(
		http.StatusNotFound,
		"BILL_NOT_FOUND",
		"bill not found",
		"",
	)

	ErrFeedbackNotFound = NewBaseError(
		http.StatusNotFound,
		"FEEDBACK_NOT_FOUND",
		"feedback not found",
		"",
	)

	// Authentication errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"phone number or password is incorrect",
		"",
	)

	ErrAccountNotApproved = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_NOT_APPROVED",
		"account is awaiting approval and cannot log in",
		"",
	)

	ErrDuplicateAccount = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_PHONE_OR_EMAIL",
		"an account with this phone number or email already exists",
		"",
	)

	// Billing errors
	ErrOrderNotBillable = NewBaseError(
		http.StatusConflict,
		"ORDER_NOT_BILLABLE",
		"the order cannot be billed in its current state",
		"",
	)

	ErrOrderAlreadyBilled = NewBaseError(
		http.StatusConflict,
		"ORDER_ALREADY_BILLED",
		"a bill has already been generated from this order",
		"",
	)

	ErrHasDependentBill = NewBaseError(
		http.StatusConflict,
		"HAS_DEPENDENT_BILL",
		"the order cannot be deleted because a bill references it",
		"",
	)

	// Identifier generation errors. Both are transient: the caller may
	// retry the whole request.
	ErrDuplicateIdentifier = NewBaseError(
		http.StatusServiceUnavailable,
		"DUPLICATE_IDENTIFIER",
		"a generated identifier collided, please retry",
		"",
	)

	ErrExhaustedRetries = NewBaseError(
		http.StatusServiceUnavailable,
		"EXHAUSTED_RETRIES",
		"could not allocate a unique identifier",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing
// the AppError interface. It is distinct from business errors so callers
// can decide whether to retry.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
