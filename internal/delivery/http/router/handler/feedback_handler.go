package handler

import (
	"log/slog"
	"net/http"

	"opsdesk/internal/delivery/http/response"
	"opsdesk/internal/domain/entity"
	"opsdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FeedbackHandler holds dependencies for feedback-related handlers.
type FeedbackHandler struct {
	uc     usecase.FeedbackUsecase
	logger *slog.Logger
}

// NewFeedbackHandler is the constructor for FeedbackHandler, injected by Fx.
func NewFeedbackHandler(uc usecase.FeedbackUsecase, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		uc:     uc,
		logger: logger,
	}
}

type submitFeedbackRequest struct {
	BillID      uuid.UUID `json:"billId" validate:"required"`
	Rating      int       `json:"rating" validate:"required,min=1,max=5"`
	Comments    string    `json:"comments" validate:"required"`
	Suggestions string    `json:"suggestions"`
}

type respondFeedbackRequest struct {
	Response string `json:"response" validate:"required"`
}

type setFeedbackStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=submitted reviewed resolved"`
}

// Submit handles the client feedback submission request.
func (h *FeedbackHandler) Submit(c echo.Context) error {
	var req submitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid feedback input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	clientID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	feedback, err := h.uc.Submit(c.Request().Context(), &usecase.SubmitFeedbackInput{
		BillID:      req.BillID,
		ClientID:    clientID,
		Rating:      req.Rating,
		Comments:    req.Comments,
		Suggestions: req.Suggestions,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, feedback, "Feedback submitted successfully")
}

// Respond handles the admin feedback response request.
func (h *FeedbackHandler) Respond(c echo.Context) error {
	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid feedback ID")
	}

	var req respondFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid response input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	adminID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Caller identity missing")
	}

	feedback, err := h.uc.Respond(c.Request().Context(), &usecase.RespondFeedbackInput{
		FeedbackID: feedbackID,
		AdminID:    adminID,
		Response:   req.Response,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, feedback, "Response recorded")
}

// SetStatus handles the admin feedback status transition request.
func (h *FeedbackHandler) SetStatus(c echo.Context) error {
	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid feedback ID")
	}

	var req setFeedbackStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	feedback, err := h.uc.SetStatus(c.Request().Context(), &usecase.SetFeedbackStatusInput{
		FeedbackID: feedbackID,
		Status:     entity.FeedbackStatus(req.Status),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, feedback, "Feedback status updated")
}

// List handles the admin feedback listing request.
func (h *FeedbackHandler) List(c echo.Context) error {
	feedbacks, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, feedbacks, "")
}
