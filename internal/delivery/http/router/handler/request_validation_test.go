package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opsdesk/internal/delivery/http/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Malformed payloads must be rejected before the usecase layer is touched.
// The zero-value handlers below carry a nil usecase, so a handler that skips
// validation would blow up instead of returning 400.
func TestHandlers_RejectInvalidPayloads(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		paramID string
		invoke  func(echo.Context) error
	}{
		{
			name:   "register with short phone",
			body:   `{"fullName":"Asha Verma","phone":"98765","email":"asha@example.com","password":"s3cretpass","role":"client"}`,
			invoke: (&AccountHandler{}).Register,
		},
		{
			name:   "register with malformed email",
			body:   `{"fullName":"Asha Verma","phone":"9876543210","email":"not-an-email","password":"s3cretpass","role":"client"}`,
			invoke: (&AccountHandler{}).Register,
		},
		{
			name:   "login without password",
			body:   `{"phone":"9876543210"}`,
			invoke: (&AccountHandler{}).Login,
		},
		{
			name:   "order with unknown type",
			body:   `{"materialName":"Steel Rod","quantity":"10","unit":"ton","unitPrice":"45.00","type":"lease"}`,
			invoke: (&OrderHandler{}).Create,
		},
		{
			name:    "payment without method",
			body:    `{"transactionId":"TXN123"}`,
			paramID: uuid.NewString(),
			invoke:  (&BillHandler{}).RecordPayment,
		},
		{
			name:   "feedback with out-of-range rating",
			body:   `{"billId":"` + uuid.NewString() + `","rating":9,"comments":"fine"}`,
			invoke: (&FeedbackHandler{}).Submit,
		},
		{
			name:    "feedback status outside the lifecycle",
			body:    `{"status":"archived"}`,
			paramID: uuid.NewString(),
			invoke:  (&FeedbackHandler{}).SetStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Validator = validator.New()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.paramID != "" {
				c.SetParamNames("id")
				c.SetParamValues(tt.paramID)
			}

			require.NoError(t, tt.invoke(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
		})
	}
}
