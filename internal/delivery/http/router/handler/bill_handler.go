package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"opsdesk/internal/delivery/http/response"
	"opsdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BillHandler holds dependencies for bill-related handlers.
type BillHandler struct {
	uc     usecase.BillingUsecase
	logger *slog.Logger
}

// NewBillHandler is the constructor for BillHandler, injected by Fx.
func NewBillHandler(uc usecase.BillingUsecase, logger *slog.Logger) *BillHandler {
	return &BillHandler{
		uc:     uc,
		logger: logger,
	}
}

type createBillRequest struct {
	OrderID         uuid.UUID  `json:"orderId" validate:"required"`
	ClientID        uuid.UUID  `json:"clientId" validate:"required"`
	DeliveryAddress string     `json:"deliveryAddress"`
	Pincode         string     `json:"pincode"`
	VehicleInfo     string     `json:"vehicleInfo"`
	DueDate         *time.Time `json:"dueDate"`
	Notes           string     `json:"notes"`
}

type recordPaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	TransactionID string `json:"transactionId"`
	Notes         string `json:"notes"`
}

// Create handles the bill generation request.
func (h *BillHandler) Create(c echo.Context) error {
	var req createBillRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid bill input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	createdBy, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	bill, err := h.uc.CreateBillFromOrder(c.Request().Context(), &usecase.CreateBillInput{
		OrderID:         req.OrderID,
		ClientID:        req.ClientID,
		DeliveryAddress: req.DeliveryAddress,
		Pincode:         req.Pincode,
		VehicleInfo:     req.VehicleInfo,
		DueDate:         req.DueDate,
		Notes:           req.Notes,
		CreatedBy:       createdBy,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, bill, "Bill created successfully")
}

// RecordPayment handles the payment settlement request. The bill is scoped
// to the calling client.
func (h *BillHandler) RecordPayment(c echo.Context) error {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid bill ID")
	}

	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	clientID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	bill, err := h.uc.RecordPayment(c.Request().Context(), &usecase.RecordPaymentInput{
		BillID:        billID,
		ClientID:      clientID,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, bill, "Payment recorded successfully")
}

// List handles the client's bill listing request.
func (h *BillHandler) List(c echo.Context) error {
	clientID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	bills, err := h.uc.ListForClient(c.Request().Context(), clientID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, bills, "")
}

// Get handles the client's bill detail request. Unpaid bills include a
// base64-encoded payment QR PNG.
func (h *BillHandler) Get(c echo.Context) error {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid bill ID")
	}

	clientID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	detail, err := h.uc.GetDetail(c.Request().Context(), billID, clientID)
	if err != nil {
		return errors.WithStack(err)
	}

	payload := map[string]any{"bill": detail.Bill}
	if len(detail.PaymentQR) > 0 {
		payload["paymentQr"] = base64.StdEncoding.EncodeToString(detail.PaymentQR)
	}

	return response.Success(c, http.StatusOK, payload, "")
}
