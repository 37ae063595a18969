// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"opsdesk/internal/delivery/http/response"
	"opsdesk/internal/domain/entity"
	"opsdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

type registerAccountRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required,len=10,numeric"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type rejectAccountRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// accountView is the client-facing shape of an account. The password hash
// never leaves the server.
type accountView struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	FullName        string     `json:"fullName"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	ApprovalStatus  string     `json:"approvalStatus"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toAccountView(account *entity.Account) *accountView {
	return &accountView{
		ID:              account.ID,
		Code:            account.Code,
		FullName:        account.FullName,
		Phone:           account.Phone,
		Email:           account.Email,
		Role:            account.Role.String(),
		ApprovalStatus:  account.ApprovalStatus.String(),
		RejectionReason: account.RejectionReason,
		LastLoginAt:     account.LastLoginAt,
		CreatedAt:       account.CreatedAt,
	}
}

// Register handles the account submission request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterAccountInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccountView(output.Account), "Account registered successfully")
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"accessToken":  output.AccessToken,
		"refreshToken": output.RefreshToken,
		"account":      toAccountView(output.Account),
	}, "Login successful")
}

// Approve handles the admin approval request.
func (h *AccountHandler) Approve(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid account ID")
	}

	adminID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	account, err := h.uc.Approve(c.Request().Context(), &usecase.ApprovalDecisionInput{
		AccountID: accountID,
		AdminID:   adminID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountView(account), "Account approved")
}

// Reject handles the admin rejection request.
func (h *AccountHandler) Reject(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid account ID")
	}

	var req rejectAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rejection input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	adminID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	account, err := h.uc.Reject(c.Request().Context(), &usecase.RejectAccountInput{
		AccountID: accountID,
		AdminID:   adminID,
		Reason:    req.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountView(account), "Account rejected")
}

// Reopen handles the admin reopen request.
func (h *AccountHandler) Reopen(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid account ID")
	}

	adminID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	account, err := h.uc.Reopen(c.Request().Context(), &usecase.ApprovalDecisionInput{
		AccountID: accountID,
		AdminID:   adminID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountView(account), "Account reopened")
}

// List handles the admin account listing request, filtered by approval status.
func (h *AccountHandler) List(c echo.Context) error {
	status := entity.ApprovalStatus(c.QueryParam("status"))
	if status == "" {
		status = entity.ApprovalPending
	}

	accounts, err := h.uc.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, toAccountView(account))
	}

	return response.Success(c, http.StatusOK, views, "")
}
