package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "opsdesk/internal/delivery/context"
	"opsdesk/internal/domain/entity"
	domainerrors "opsdesk/internal/domain/errors"
	"opsdesk/internal/domain/pricing"
	"opsdesk/internal/domain/repository"
	"opsdesk/internal/domain/service"
	"opsdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// createOrderMaxAttempts bounds retries on order number collisions.
const createOrderMaxAttempts = 3

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	idGenerator service.IdentifierGenerator
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	IDGenerator service.IdentifierGenerator
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		idGenerator: params.IDGenerator,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create validates the draft, prices it and persists the new order.
func (srv *orderService) Create(ctx context.Context, input *usecase.CreateOrderInput) (*entity.Order, error) {
	srv.log(ctx).Info("Starting order creation", slog.String("material", input.MaterialName), slog.Any("type", input.Type))

	if err := validateOrderDraft(input); err != nil {
		srv.log(ctx).Warn("Order creation validation failed", slog.Any("error", err))

		return nil, err
	}

	amounts, err := pricing.ComputeAmounts(input.Quantity, input.UnitPrice, input.DiscountPercent)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}

	newOrder := &entity.Order{
		MaterialName:     input.MaterialName,
		Description:      input.Description,
		Quantity:         input.Quantity,
		Unit:             input.Unit,
		UnitPrice:        input.UnitPrice,
		DiscountPercent:  input.DiscountPercent,
		Subtotal:         amounts.Subtotal,
		DiscountAmount:   amounts.DiscountAmount,
		TotalAmount:      amounts.TotalAmount,
		Type:             input.Type,
		Priority:         priority,
		Status:           entity.OrderPending,
		CustomerID:       input.CustomerID,
		CreatedBy:        input.CreatedBy,
		ExpectedDelivery: input.ExpectedDelivery,
	}

	// Order numbers are only probabilistically unique; a collision surfaces
	// as a retryable duplicate-identifier error from the unique index.
	for attempt := 1; ; attempt++ {
		newOrder.OrderNumber = srv.idGenerator.GenerateOrderNumber(input.Type)

		err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return repoFactory.OrderRepo().Create(ctx, newOrder)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domainerrors.ErrDuplicateIdentifier) || attempt >= createOrderMaxAttempts {
			srv.log(ctx).Error("Failed to execute order creation transaction", slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to execute order creation transaction")
		}

		srv.log(ctx).Warn("Order number collision, retrying", slog.String("orderNumber", newOrder.OrderNumber), slog.Int("attempt", attempt))
	}

	srv.log(ctx).Debug("Order created", slog.Any("orderID", newOrder.ID), slog.String("orderNumber", newOrder.OrderNumber))

	return newOrder, nil
}

func validateOrderDraft(input *usecase.CreateOrderInput) error {
	if input.MaterialName == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("material name is required")
	}
	if input.Unit == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("unit is required")
	}
	if !input.Quantity.IsPositive() {
		return domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
	}
	if !input.UnitPrice.IsPositive() {
		return domainerrors.ErrValidationFailed.WrapMessage("unit price must be positive")
	}
	if !input.Type.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown order type")
	}
	if input.Priority != "" && !input.Priority.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown order priority")
	}

	return nil
}

// Update applies a partial patch within one transaction, re-pricing when a
// commercial field changes and validating any status transition.
func (srv *orderService) Update(ctx context.Context, input *usecase.UpdateOrderInput) (*entity.Order, error) {
	srv.log(ctx).Info("Starting order update", slog.Any("orderID", input.OrderID))

	var updated *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		order, err := orderRepo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
			}

			return errors.Wrap(err, "failed to find order")
		}

		if err := applyOrderPatch(order, input); err != nil {
			return err
		}

		if err := orderRepo.Update(ctx, order); err != nil {
			return errors.Wrap(err, "failed to update order")
		}

		updated = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order update failed", slog.Any("orderID", input.OrderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order update transaction")
	}

	srv.log(ctx).Debug("Order updated", slog.Any("orderID", updated.ID), slog.Any("status", updated.Status))

	return updated, nil
}

// applyOrderPatch mutates the order in place. The derived amounts are always
// recomputed from the effective commercial fields, never taken from callers.
func applyOrderPatch(order *entity.Order, input *usecase.UpdateOrderInput) error {
	if input.MaterialName != nil {
		if *input.MaterialName == "" {
			return domainerrors.ErrValidationFailed.WrapMessage("material name is required")
		}
		order.MaterialName = *input.MaterialName
	}
	if input.Description != nil {
		order.Description = *input.Description
	}
	if input.Unit != nil {
		if *input.Unit == "" {
			return domainerrors.ErrValidationFailed.WrapMessage("unit is required")
		}
		order.Unit = *input.Unit
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return domainerrors.ErrValidationFailed.WrapMessage("unknown order priority")
		}
		order.Priority = *input.Priority
	}
	if input.CustomerID != nil {
		order.CustomerID = input.CustomerID
	}
	if input.ExpectedDelivery != nil {
		order.ExpectedDelivery = input.ExpectedDelivery
	}

	repriced := false
	if input.Quantity != nil {
		if !input.Quantity.IsPositive() {
			return domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
		}
		order.Quantity = *input.Quantity
		repriced = true
	}
	if input.UnitPrice != nil {
		if !input.UnitPrice.IsPositive() {
			return domainerrors.ErrValidationFailed.WrapMessage("unit price must be positive")
		}
		order.UnitPrice = *input.UnitPrice
		repriced = true
	}
	if input.DiscountPercent != nil {
		order.DiscountPercent = *input.DiscountPercent
		repriced = true
	}
	if repriced {
		amounts, err := pricing.ComputeAmounts(order.Quantity, order.UnitPrice, order.DiscountPercent)
		if err != nil {
			return err
		}
		order.Subtotal = amounts.Subtotal
		order.DiscountAmount = amounts.DiscountAmount
		order.TotalAmount = amounts.TotalAmount
	}

	if input.Status != nil {
		next := *input.Status
		if !next.IsValid() {
			return domainerrors.ErrValidationFailed.WrapMessage("unknown order status")
		}
		if next != order.Status {
			if !order.Status.CanTransitionTo(next) {
				return errors.Wrapf(domainerrors.ErrInvalidTransition, "cannot move order from %s to %s", order.Status, next)
			}
			order.Status = next
			if next == entity.OrderDelivered {
				now := time.Now()
				order.DeliveredAt = &now
			}
		}
	}

	return nil
}

// Cancel moves an order to cancelled. Repeat calls on a cancelled order are
// no-ops so clients can safely retry after an unknown outcome.
func (srv *orderService) Cancel(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	srv.log(ctx).Info("Starting order cancellation", slog.Any("orderID", orderID))

	var cancelled *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		order, err := orderRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
			}

			return errors.Wrap(err, "failed to find order")
		}

		if order.Status == entity.OrderCancelled {
			cancelled = order

			return nil
		}
		if order.Status == entity.OrderDelivered {
			return errors.Wrap(domainerrors.ErrInvalidTransition, "delivered orders cannot be cancelled")
		}

		order.Status = entity.OrderCancelled
		if err := orderRepo.Update(ctx, order); err != nil {
			return errors.Wrap(err, "failed to update order")
		}

		cancelled = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order cancellation failed", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order cancellation transaction")
	}

	srv.log(ctx).Debug("Order cancelled", slog.Any("orderID", orderID))

	return cancelled, nil
}

// Delete removes an order as long as no bill references it.
func (srv *orderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	srv.log(ctx).Info("Starting order deletion", slog.Any("orderID", orderID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()
		billRepo := repoFactory.BillRepo()

		if _, err := orderRepo.FindByIDForUpdate(ctx, orderID); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
			}

			return errors.Wrap(err, "failed to find order")
		}

		billed, err := billRepo.ExistsForOrder(ctx, orderID)
		if err != nil {
			return errors.Wrap(err, "failed to check dependent bills")
		}
		if billed {
			return errors.Wrap(domainerrors.ErrHasDependentBill, "order has a dependent bill")
		}

		if err := orderRepo.Delete(ctx, orderID); err != nil {
			return errors.Wrap(err, "failed to delete order")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order deletion failed", slog.Any("orderID", orderID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute order deletion transaction")
	}

	srv.log(ctx).Debug("Order deleted", slog.Any("orderID", orderID))

	return nil
}

// Get retrieves a single order.
func (srv *orderService) Get(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		srv.log(ctx).Error("Failed to get order", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get order")
	}

	return order, nil
}

// List retrieves orders matching the filter, newest first.
func (srv *orderService) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown order status")
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown order type")
	}

	orders, err := srv.orderRepo.List(ctx, filter)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}
