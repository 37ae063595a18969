package handler

import (
	"log/slog"
	"net/http"
	"time"

	"opsdesk/internal/delivery/http/response"
	"opsdesk/internal/domain/entity"
	"opsdesk/internal/domain/repository"
	"opsdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderHandler holds dependencies for order-related handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: logger,
	}
}

type createOrderRequest struct {
	MaterialName     string          `json:"materialName" validate:"required"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit" validate:"required"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	DiscountPercent  decimal.Decimal `json:"discountPercent"`
	Type             string          `json:"type" validate:"required,oneof=sale purchase"`
	Priority         string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	CustomerID       *uuid.UUID      `json:"customerId"`
	ExpectedDelivery *time.Time      `json:"expectedDelivery"`
}

type updateOrderRequest struct {
	MaterialName     *string          `json:"materialName"`
	Description      *string          `json:"description"`
	Quantity         *decimal.Decimal `json:"quantity"`
	Unit             *string          `json:"unit"`
	UnitPrice        *decimal.Decimal `json:"unitPrice"`
	DiscountPercent  *decimal.Decimal `json:"discountPercent"`
	Priority         *string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status           *string          `json:"status"`
	CustomerID       *uuid.UUID       `json:"customerId"`
	ExpectedDelivery *time.Time       `json:"expectedDelivery"`
}

// Create handles the order creation request.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	createdBy, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	order, err := h.uc.Create(c.Request().Context(), &usecase.CreateOrderInput{
		MaterialName:     req.MaterialName,
		Description:      req.Description,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
		UnitPrice:        req.UnitPrice,
		DiscountPercent:  req.DiscountPercent,
		Type:             entity.OrderType(req.Type),
		Priority:         entity.OrderPriority(req.Priority),
		CustomerID:       req.CustomerID,
		CreatedBy:        createdBy,
		ExpectedDelivery: req.ExpectedDelivery,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order created successfully")
}

// Update handles the order patch request.
func (h *OrderHandler) Update(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := &usecase.UpdateOrderInput{
		OrderID:          orderID,
		MaterialName:     req.MaterialName,
		Description:      req.Description,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
		UnitPrice:        req.UnitPrice,
		DiscountPercent:  req.DiscountPercent,
		CustomerID:       req.CustomerID,
		ExpectedDelivery: req.ExpectedDelivery,
	}
	if req.Priority != nil {
		priority := entity.OrderPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Status != nil {
		status := entity.OrderStatus(*req.Status)
		input.Status = &status
	}

	order, err := h.uc.Update(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order updated successfully")
}

// Cancel handles the order cancellation request.
func (h *OrderHandler) Cancel(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.uc.Cancel(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order cancelled")
}

// Delete handles the order deletion request.
func (h *OrderHandler) Delete(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	if err := h.uc.Delete(c.Request().Context(), orderID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Order deleted"}, "Order deleted")
}

// Get handles the single order read request.
func (h *OrderHandler) Get(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	order, err := h.uc.Get(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "")
}

// List handles the order listing request with optional status/type filters.
func (h *OrderHandler) List(c echo.Context) error {
	filter := repository.OrderFilter{
		Status: entity.OrderStatus(c.QueryParam("status")),
		Type:   entity.OrderType(c.QueryParam("type")),
	}

	orders, err := h.uc.List(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}
