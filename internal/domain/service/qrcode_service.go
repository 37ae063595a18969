package service

import "opsdesk/internal/domain/entity"

// QRCodeService defines the interface for payment QR code generation.
type QRCodeService interface {
	// GeneratePaymentQR renders a QR code PNG encoding the payment details
	// of an unpaid bill (bill number and amount due).
	GeneratePaymentQR(bill *entity.Bill) ([]byte, error)
}
