package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"opsdesk/internal/domain/entity"
	domainerrors "opsdesk/internal/domain/errors"
	"opsdesk/internal/domain/repository"
	mockRepo "opsdesk/internal/mocks/repository"
	mockSvc "opsdesk/internal/mocks/service"
	"opsdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceFixture struct {
	service   usecase.OrderUsecase
	orderRepo *mockRepo.MockOrderRepository
	billRepo  *mockRepo.MockBillRepository
	idGen     *mockSvc.MockIdentifierGenerator
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	t.Helper()

	orderRepo := mockRepo.NewMockOrderRepository(t)
	billRepo := mockRepo.NewMockBillRepository(t)
	idGen := mockSvc.NewMockIdentifierGenerator(t)

	factory := &mockRepo.StubRepositoryFactory{Orders: orderRepo, Bills: billRepo}
	service := NewOrderService(OrderServiceParams{
		TxManager:   &mockRepo.StubTransactionManager{Factory: factory},
		OrderRepo:   orderRepo,
		IDGenerator: idGen,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &orderServiceFixture{
		service:   service,
		orderRepo: orderRepo,
		billRepo:  billRepo,
		idGen:     idGen,
	}
}

func validCreateOrderInput() *usecase.CreateOrderInput {
	return &usecase.CreateOrderInput{
		MaterialName:    "Steel Rod",
		Quantity:        decimal.NewFromInt(10),
		Unit:            "kg",
		UnitPrice:       decimal.RequireFromString("50.00"),
		DiscountPercent: decimal.NewFromInt(10),
		Type:            entity.OrderTypeSale,
		CreatedBy:       uuid.New(),
	}
}

func TestOrderService_Create_ComputesAmounts(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()

	fixture.idGen.On("GenerateOrderNumber", entity.OrderTypeSale).Return("SO-20260901-4F2A1C")
	fixture.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

	order, err := fixture.service.Create(ctx, validCreateOrderInput())
	require.NoError(t, err)
	assert.Equal(t, "SO-20260901-4F2A1C", order.OrderNumber)
	assert.Equal(t, entity.OrderPending, order.Status)
	assert.Equal(t, entity.PriorityMedium, order.Priority)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("500.00")), "subtotal %s", order.Subtotal)
	assert.True(t, order.DiscountAmount.Equal(decimal.RequireFromString("50.00")), "discount %s", order.DiscountAmount)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("450.00")), "total %s", order.TotalAmount)
}

func TestOrderService_Create_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*usecase.CreateOrderInput)
	}{
		{"empty material", func(in *usecase.CreateOrderInput) { in.MaterialName = "" }},
		{"empty unit", func(in *usecase.CreateOrderInput) { in.Unit = "" }},
		{"zero quantity", func(in *usecase.CreateOrderInput) { in.Quantity = decimal.Zero }},
		{"negative price", func(in *usecase.CreateOrderInput) { in.UnitPrice = decimal.NewFromInt(-5) }},
		{"discount above hundred", func(in *usecase.CreateOrderInput) { in.DiscountPercent = decimal.NewFromInt(150) }},
		{"unknown type", func(in *usecase.CreateOrderInput) { in.Type = entity.OrderType("barter") }},
		{"unknown priority", func(in *usecase.CreateOrderInput) { in.Priority = entity.OrderPriority("urgent") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newOrderServiceFixture(t)

			input := validCreateOrderInput()
			tt.mutate(input)

			order, err := fixture.service.Create(context.Background(), input)
			require.Error(t, err)
			assert.Nil(t, order)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestOrderService_Create_RetriesOnNumberCollision(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()

	fixture.idGen.On("GenerateOrderNumber", entity.OrderTypeSale).Return("SO-20260901-AAAAAA").Once()
	fixture.idGen.On("GenerateOrderNumber", entity.OrderTypeSale).Return("SO-20260901-BBBBBB").Once()
	fixture.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).
		Return(domainerrors.ErrDuplicateIdentifier).Once()
	fixture.orderRepo.On("Create", ctx, mock.AnythingOfType("*entity.Order")).
		Return(nil).Once()

	order, err := fixture.service.Create(ctx, validCreateOrderInput())
	require.NoError(t, err)
	assert.Equal(t, "SO-20260901-BBBBBB", order.OrderNumber)
}

func existingOrder(status entity.OrderStatus) *entity.Order {
	return &entity.Order{
		ID:              uuid.New(),
		OrderNumber:     "SO-20260901-4F2A1C",
		MaterialName:    "Steel Rod",
		Quantity:        decimal.NewFromInt(10),
		Unit:            "kg",
		UnitPrice:       decimal.RequireFromString("50.00"),
		DiscountPercent: decimal.NewFromInt(10),
		Subtotal:        decimal.RequireFromString("500.00"),
		DiscountAmount:  decimal.RequireFromString("50.00"),
		TotalAmount:     decimal.RequireFromString("450.00"),
		Type:            entity.OrderTypeSale,
		Priority:        entity.PriorityMedium,
		Status:          status,
		CreatedBy:       uuid.New(),
	}
}

func TestOrderService_Update_RecomputesDerivedFields(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderPending)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	fixture.orderRepo.On("Update", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

	quantity := decimal.NewFromInt(20)
	updated, err := fixture.service.Update(ctx, &usecase.UpdateOrderInput{
		OrderID:  order.ID,
		Quantity: &quantity,
	})
	require.NoError(t, err)
	assert.True(t, updated.Subtotal.Equal(decimal.RequireFromString("1000.00")), "subtotal %s", updated.Subtotal)
	assert.True(t, updated.DiscountAmount.Equal(decimal.RequireFromString("100.00")), "discount %s", updated.DiscountAmount)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("900.00")), "total %s", updated.TotalAmount)
}

func TestOrderService_Update_ValidStatusTransition(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderPending)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	fixture.orderRepo.On("Update", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

	next := entity.OrderConfirmed
	updated, err := fixture.service.Update(ctx, &usecase.UpdateOrderInput{
		OrderID: order.ID,
		Status:  &next,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, updated.Status)
}

func TestOrderService_Update_InvalidStatusTransition(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderPending)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

	next := entity.OrderShipped
	updated, err := fixture.service.Update(ctx, &usecase.UpdateOrderInput{
		OrderID: order.ID,
		Status:  &next,
	})
	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestOrderService_Update_DeliveredStampsDeliveryDate(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderShipped)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	fixture.orderRepo.On("Update", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

	next := entity.OrderDelivered
	updated, err := fixture.service.Update(ctx, &usecase.UpdateOrderInput{
		OrderID: order.ID,
		Status:  &next,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, updated.Status)
	assert.NotNil(t, updated.DeliveredAt)
}

func TestOrderService_Update_NotFound(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	orderID := uuid.New()

	fixture.orderRepo.On("FindByIDForUpdate", ctx, orderID).Return(nil, repository.ErrOrderNotFound)

	updated, err := fixture.service.Update(ctx, &usecase.UpdateOrderInput{OrderID: orderID})
	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}

func TestOrderService_Cancel_FromActiveState(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderProcessing)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	fixture.orderRepo.On("Update", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)

	cancelled, err := fixture.service.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
}

func TestOrderService_Cancel_IdempotentOnCancelled(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderCancelled)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

	cancelled, err := fixture.service.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	fixture.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestOrderService_Cancel_DeliveredFails(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderDelivered)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

	cancelled, err := fixture.service.Cancel(ctx, order.ID)
	require.Error(t, err)
	assert.Nil(t, cancelled)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestOrderService_Delete_BlockedByDependentBill(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderConfirmed)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	fixture.billRepo.On("ExistsForOrder", ctx, order.ID).Return(true, nil)

	err := fixture.service.Delete(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrHasDependentBill))
	fixture.orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestOrderService_Delete_Unbilled(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderPending)

	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	fixture.billRepo.On("ExistsForOrder", ctx, order.ID).Return(false, nil)
	fixture.orderRepo.On("Delete", ctx, order.ID).Return(nil)

	require.NoError(t, fixture.service.Delete(ctx, order.ID))
}

func TestOrderService_List_FilterValidation(t *testing.T) {
	fixture := newOrderServiceFixture(t)

	orders, err := fixture.service.List(context.Background(), repository.OrderFilter{Status: entity.OrderStatus("limbo")})
	require.Error(t, err)
	assert.Nil(t, orders)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestOrderService_List_PassesFilter(t *testing.T) {
	fixture := newOrderServiceFixture(t)
	ctx := context.Background()
	filter := repository.OrderFilter{Status: entity.OrderPending, Type: entity.OrderTypeSale}

	expected := []*entity.Order{existingOrder(entity.OrderPending)}
	fixture.orderRepo.On("List", ctx, filter).Return(expected, nil)

	orders, err := fixture.service.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
