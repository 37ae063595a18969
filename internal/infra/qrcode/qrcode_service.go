// Package qrcode renders payment QR codes for unpaid bills.
package qrcode

import (
	"encoding/json"
	"fmt"

	"github.com/skip2/go-qrcode"

	"opsdesk/config"
	"opsdesk/internal/domain/entity"
	"opsdesk/internal/domain/service"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	payeeName            string
}

// paymentQRPayload is the QR code data structure scanned by payment apps.
type paymentQRPayload struct {
	Payee      string `json:"payee"`
	BillNumber string `json:"bill_number"`
	Amount     string `json:"amount"`
	Type       string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch cfg.QRCode.ErrorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 cfg.QRCode.Size,
		errorCorrectionLevel: level,
		payeeName:            cfg.QRCode.PayeeName,
	}
}

// GeneratePaymentQR generates a QR code PNG carrying the bill's payment details.
func (s *qrcodeService) GeneratePaymentQR(bill *entity.Bill) ([]byte, error) {
	payload := paymentQRPayload{
		Payee:      s.payeeName,
		BillNumber: bill.BillNumber,
		Amount:     bill.TotalAmount.StringFixed(2),
		Type:       "bill-payment",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
