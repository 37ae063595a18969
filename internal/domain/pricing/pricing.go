// Package pricing computes the derived commercial amounts of an order.
// It is a pure calculation layer: the service layer invokes it before every
// persist, and the storage layer never recomputes anything on its own.
package pricing

import (
	"github.com/shopspring/decimal"

	domainerrors "opsdesk/internal/domain/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Amounts holds the three derived fields of an order or bill.
// Each field is rounded to 2 decimal places, half up, to match
// currency-display expectations.
type Amounts struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComputeAmounts derives subtotal, discount amount and total amount from
// quantity, unit price and discount percentage.
//
// Inputs are validated, not clamped: a negative quantity or unit price, or
// a discount outside [0,100], is rejected so that out-of-range input can
// never silently produce a negative total.
func ComputeAmounts(quantity, unitPrice, discountPercent decimal.Decimal) (Amounts, error) {
	if quantity.IsNegative() {
		return Amounts{}, domainerrors.ErrValidationFailed.WrapMessage("quantity must not be negative")
	}
	if unitPrice.IsNegative() {
		return Amounts{}, domainerrors.ErrValidationFailed.WrapMessage("unit price must not be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(oneHundred) {
		return Amounts{}, domainerrors.ErrValidationFailed.WrapMessage("discount percent must be between 0 and 100")
	}

	subtotal := quantity.Mul(unitPrice).Round(2)
	discountAmount := subtotal.Mul(discountPercent).Div(oneHundred).Round(2)
	totalAmount := subtotal.Sub(discountAmount).Round(2)

	return Amounts{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TotalAmount:    totalAmount,
	}, nil
}
