package service

import (
	"context"

	"opsdesk/internal/domain/entity"
)

// IdentifierGenerator produces the human-facing identifiers used across
// the system: numeric account codes and prefixed order/bill numbers.
//
// Account codes are verified against existing accounts before being handed
// out; order and bill numbers are only probabilistically unique, so callers
// must treat a uniqueness violation at persistence time as retryable.
type IdentifierGenerator interface {
	// GenerateAccountCode returns a fixed-width numeric code not currently
	// assigned to any account. Fails with ErrExhaustedRetries when no free
	// code is found within the attempt budget.
	GenerateAccountCode(ctx context.Context) (string, error)

	// GenerateOrderNumber returns a new order number for the given order
	// type, e.g. "SO-20260901-4F2A1C".
	GenerateOrderNumber(kind entity.OrderType) string

	// GenerateBillNumber returns a new bill number, e.g. "BILL-20260901-9D03B7".
	GenerateBillNumber() string
}
