// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"opsdesk/internal/delivery/http/middleware"
	"opsdesk/internal/delivery/http/router/handler"
	"opsdesk/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler  *handler.AccountHandler
	OrderHandler    *handler.OrderHandler
	BillHandler     *handler.BillHandler
	FeedbackHandler *handler.FeedbackHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler  *handler.AccountHandler
	orderHandler    *handler.OrderHandler
	billHandler     *handler.BillHandler
	feedbackHandler *handler.FeedbackHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:  params.AccountHandler,
		orderHandler:    params.OrderHandler,
		billHandler:     params.BillHandler,
		feedbackHandler: params.FeedbackHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes, open to unauthenticated callers
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
	}

	staffRoles := entity.StaffRoles()
	clientRoles := entity.ExternalRoles()

	// Admin routes: account approval and feedback review
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin.String()))
	{
		adminGroup.GET("/accounts", r.accountHandler.List)
		adminGroup.POST("/accounts/:id/approve", r.accountHandler.Approve)
		adminGroup.POST("/accounts/:id/reject", r.accountHandler.Reject)
		adminGroup.POST("/accounts/:id/reopen", r.accountHandler.Reopen)

		adminGroup.GET("/feedback", r.feedbackHandler.List)
		adminGroup.POST("/feedback/:id/respond", r.feedbackHandler.Respond)
		adminGroup.POST("/feedback/:id/status", r.feedbackHandler.SetStatus)
	}

	// Order routes, staff only
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	orderGroup.Use(r.authMiddleware.RequireRole(staffRoles...))
	{
		orderGroup.POST("", r.orderHandler.Create)
		orderGroup.GET("", r.orderHandler.List)
		orderGroup.GET("/:id", r.orderHandler.Get)
		orderGroup.PATCH("/:id", r.orderHandler.Update)
		orderGroup.POST("/:id/cancel", r.orderHandler.Cancel)
		orderGroup.DELETE("/:id", r.orderHandler.Delete)
	}

	// Bill creation is staff work; payment and listing are client-scoped
	billGroup := e.Group("/bills")
	billGroup.Use(r.authMiddleware.Authenticate)
	{
		billGroup.POST("", r.billHandler.Create, r.authMiddleware.RequireRole(staffRoles...))
		billGroup.POST("/:id/payment", r.billHandler.RecordPayment, r.authMiddleware.RequireRole(clientRoles...))
		billGroup.GET("", r.billHandler.List, r.authMiddleware.RequireRole(clientRoles...))
		billGroup.GET("/:id", r.billHandler.Get, r.authMiddleware.RequireRole(clientRoles...))
	}

	// Feedback submission, client only
	feedbackGroup := e.Group("/feedback")
	feedbackGroup.Use(r.authMiddleware.Authenticate)
	feedbackGroup.Use(r.authMiddleware.RequireRole(clientRoles...))
	{
		feedbackGroup.POST("", r.feedbackHandler.Submit)
	}
}
