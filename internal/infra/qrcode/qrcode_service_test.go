package qrcode

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/config"
	"opsdesk/internal/domain/entity"
)

func qrConfig(size int, level string) *config.Config {
	cfg := &config.Config{
		QRCode: &config.QRCodeConfig{
			Size:                 size,
			ErrorCorrectionLevel: level,
			PayeeName:            "OpsDesk Trading Co",
		},
	}

	return cfg
}

func TestGeneratePaymentQR_ProducesPNG(t *testing.T) {
	svc := NewQRCodeService(qrConfig(128, "M"))

	bill := &entity.Bill{
		BillNumber:  "BILL-20260901-9D03B7",
		TotalAmount: decimal.RequireFromString("450.00"),
	}

	png, err := svc.GeneratePaymentQR(bill)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "expected PNG magic bytes")
}

func TestNewQRCodeService_UnknownLevelFallsBackToMedium(t *testing.T) {
	svc := NewQRCodeService(qrConfig(64, "X")).(*qrcodeService)

	assert.Equal(t, 1, int(svc.errorCorrectionLevel)) // qrcode.Medium
}
