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

type billingServiceFixture struct {
	service   usecase.BillingUsecase
	orderRepo *mockRepo.MockOrderRepository
	billRepo  *mockRepo.MockBillRepository
	idGen     *mockSvc.MockIdentifierGenerator
	qrcode    *mockSvc.MockQRCodeService
}

func newBillingServiceFixture(t *testing.T) *billingServiceFixture {
	t.Helper()

	orderRepo := mockRepo.NewMockOrderRepository(t)
	billRepo := mockRepo.NewMockBillRepository(t)
	idGen := mockSvc.NewMockIdentifierGenerator(t)
	qrcode := mockSvc.NewMockQRCodeService(t)

	factory := &mockRepo.StubRepositoryFactory{Orders: orderRepo, Bills: billRepo}
	service := NewBillingService(BillingServiceParams{
		TxManager:     &mockRepo.StubTransactionManager{Factory: factory},
		BillRepo:      billRepo,
		IDGenerator:   idGen,
		QRCodeService: qrcode,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &billingServiceFixture{
		service:   service,
		orderRepo: orderRepo,
		billRepo:  billRepo,
		idGen:     idGen,
		qrcode:    qrcode,
	}
}

func billableOrder() *entity.Order {
	return existingOrder(entity.OrderConfirmed)
}

func pendingBill(clientID uuid.UUID) *entity.Bill {
	return &entity.Bill{
		ID:            uuid.New(),
		BillNumber:    "BILL-20260901-9D03B7",
		OrderID:       uuid.New(),
		ClientID:      clientID,
		MaterialName:  "Steel Rod",
		TotalAmount:   decimal.RequireFromString("450.00"),
		PaymentStatus: entity.PaymentPending,
	}
}

func TestBillingService_CreateBillFromOrder_SnapshotsOrder(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	order := billableOrder()
	clientID := uuid.New()

	fixture.idGen.On("GenerateBillNumber").Return("BILL-20260901-9D03B7")
	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	fixture.billRepo.On("ExistsForOrder", ctx, order.ID).Return(false, nil)
	fixture.billRepo.On("Create", ctx, mock.AnythingOfType("*entity.Bill")).Return(nil)

	bill, err := fixture.service.CreateBillFromOrder(ctx, &usecase.CreateBillInput{
		OrderID:         order.ID,
		ClientID:        clientID,
		DeliveryAddress: "12 Market Street",
		Pincode:         "560001",
		CreatedBy:       uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "BILL-20260901-9D03B7", bill.BillNumber)
	assert.Equal(t, order.ID, bill.OrderID)
	assert.Equal(t, clientID, bill.ClientID)
	assert.Equal(t, entity.PaymentPending, bill.PaymentStatus)
	assert.True(t, bill.TotalAmount.Equal(order.TotalAmount))
	assert.False(t, bill.SentAt.IsZero())

	// The snapshot is frozen: editing the order afterwards leaves the bill as issued.
	order.Quantity = decimal.NewFromInt(20)
	order.TotalAmount = decimal.RequireFromString("900.00")
	assert.True(t, bill.TotalAmount.Equal(decimal.RequireFromString("450.00")), "bill total %s", bill.TotalAmount)
	assert.True(t, bill.Quantity.Equal(decimal.NewFromInt(10)), "bill quantity %s", bill.Quantity)
}

func TestBillingService_CreateBillFromOrder_CancelledOrder(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	order := existingOrder(entity.OrderCancelled)

	fixture.idGen.On("GenerateBillNumber").Return("BILL-20260901-9D03B7")
	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

	bill, err := fixture.service.CreateBillFromOrder(ctx, &usecase.CreateBillInput{
		OrderID:  order.ID,
		ClientID: uuid.New(),
	})
	require.Error(t, err)
	assert.Nil(t, bill)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotBillable))
}

func TestBillingService_CreateBillFromOrder_AlreadyBilled(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	order := billableOrder()

	fixture.idGen.On("GenerateBillNumber").Return("BILL-20260901-9D03B7")
	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	fixture.billRepo.On("ExistsForOrder", ctx, order.ID).Return(true, nil)

	bill, err := fixture.service.CreateBillFromOrder(ctx, &usecase.CreateBillInput{
		OrderID:  order.ID,
		ClientID: uuid.New(),
	})
	require.Error(t, err)
	assert.Nil(t, bill)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderAlreadyBilled))
}

func TestBillingService_CreateBillFromOrder_OrderMissing(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	orderID := uuid.New()

	fixture.idGen.On("GenerateBillNumber").Return("BILL-20260901-9D03B7")
	fixture.orderRepo.On("FindByIDForUpdate", ctx, orderID).Return(nil, repository.ErrOrderNotFound)

	bill, err := fixture.service.CreateBillFromOrder(ctx, &usecase.CreateBillInput{
		OrderID:  orderID,
		ClientID: uuid.New(),
	})
	require.Error(t, err)
	assert.Nil(t, bill)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}

func TestBillingService_CreateBillFromOrder_RetriesOnNumberCollision(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	order := billableOrder()

	fixture.idGen.On("GenerateBillNumber").Return("BILL-20260901-AAAAAA").Once()
	fixture.idGen.On("GenerateBillNumber").Return("BILL-20260901-BBBBBB").Once()
	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil).Twice()
	fixture.billRepo.On("ExistsForOrder", ctx, order.ID).Return(false, nil).Twice()
	fixture.billRepo.On("Create", ctx, mock.AnythingOfType("*entity.Bill")).
		Return(domainerrors.ErrDuplicateIdentifier).Once()
	fixture.billRepo.On("Create", ctx, mock.AnythingOfType("*entity.Bill")).
		Return(nil).Once()

	bill, err := fixture.service.CreateBillFromOrder(ctx, &usecase.CreateBillInput{
		OrderID:  order.ID,
		ClientID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "BILL-20260901-BBBBBB", bill.BillNumber)
}

// A racing bill for the same order slips past the first existence check and
// trips the unique index on order_id at insert. The retry re-checks and
// reports the order as already billed instead of inserting a second bill.
func TestBillingService_CreateBillFromOrder_RacedDuplicateOrderDetected(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	order := billableOrder()

	fixture.idGen.On("GenerateBillNumber").Return("BILL-20260901-AAAAAA").Once()
	fixture.idGen.On("GenerateBillNumber").Return("BILL-20260901-BBBBBB").Once()
	fixture.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil).Twice()
	fixture.billRepo.On("ExistsForOrder", ctx, order.ID).Return(false, nil).Once()
	fixture.billRepo.On("Create", ctx, mock.AnythingOfType("*entity.Bill")).
		Return(domainerrors.ErrDuplicateIdentifier).Once()
	fixture.billRepo.On("ExistsForOrder", ctx, order.ID).Return(true, nil).Once()

	bill, err := fixture.service.CreateBillFromOrder(ctx, &usecase.CreateBillInput{
		OrderID:  order.ID,
		ClientID: uuid.New(),
	})
	require.Error(t, err)
	assert.Nil(t, bill)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderAlreadyBilled))
	fixture.billRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestBillingService_RecordPayment_SettlesPendingBill(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	bill := pendingBill(clientID)

	fixture.billRepo.On("FindByIDForClientForUpdate", ctx, bill.ID, clientID).Return(bill, nil)
	fixture.billRepo.On("Update", ctx, mock.AnythingOfType("*entity.Bill")).Return(nil)

	paid, err := fixture.service.RecordPayment(ctx, &usecase.RecordPaymentInput{
		BillID:        bill.ID,
		ClientID:      clientID,
		PaymentMethod: "upi",
		TransactionID: "TXN123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentSuccessful, paid.PaymentStatus)
	assert.Equal(t, "upi", paid.PaymentMethod)
	assert.Equal(t, "TXN123", paid.TransactionID)
	assert.NotNil(t, paid.PaidAt)
}

// Two settlement attempts on the same bill: the locked read hands the second
// attempt the bill as the first one left it, so the second must fail without
// writing and the winner's payment data must survive.
func TestBillingService_RecordPayment_SecondCallFails(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	bill := pendingBill(clientID)

	fixture.billRepo.On("FindByIDForClientForUpdate", ctx, bill.ID, clientID).Return(bill, nil)
	fixture.billRepo.On("Update", ctx, mock.AnythingOfType("*entity.Bill")).Return(nil).Once()

	first, err := fixture.service.RecordPayment(ctx, &usecase.RecordPaymentInput{
		BillID:        bill.ID,
		ClientID:      clientID,
		PaymentMethod: "upi",
		TransactionID: "TXN123",
	})
	require.NoError(t, err)

	second, err := fixture.service.RecordPayment(ctx, &usecase.RecordPaymentInput{
		BillID:        bill.ID,
		ClientID:      clientID,
		PaymentMethod: "cash",
		TransactionID: "TXN999",
	})
	require.Error(t, err)
	assert.Nil(t, second)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))

	// The winning settlement's data stays untouched.
	assert.Equal(t, "upi", first.PaymentMethod)
	assert.Equal(t, "TXN123", first.TransactionID)
	fixture.billRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestBillingService_RecordPayment_RequiresMethod(t *testing.T) {
	fixture := newBillingServiceFixture(t)

	paid, err := fixture.service.RecordPayment(context.Background(), &usecase.RecordPaymentInput{
		BillID:   uuid.New(),
		ClientID: uuid.New(),
	})
	require.Error(t, err)
	assert.Nil(t, paid)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestBillingService_RecordPayment_OtherClientsBillHidden(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	billID := uuid.New()
	strangerID := uuid.New()

	fixture.billRepo.On("FindByIDForClientForUpdate", ctx, billID, strangerID).
		Return(nil, repository.ErrBillNotFound)

	paid, err := fixture.service.RecordPayment(ctx, &usecase.RecordPaymentInput{
		BillID:        billID,
		ClientID:      strangerID,
		PaymentMethod: "upi",
	})
	require.Error(t, err)
	assert.Nil(t, paid)
	assert.True(t, errors.Is(err, domainerrors.ErrBillNotFound))
}

func TestBillingService_GetDetail_UnpaidIncludesQR(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	bill := pendingBill(clientID)

	fixture.billRepo.On("FindByIDForClient", ctx, bill.ID, clientID).Return(bill, nil)
	fixture.qrcode.On("GeneratePaymentQR", bill).Return([]byte{0x89, 0x50, 0x4E, 0x47}, nil)

	detail, err := fixture.service.GetDetail(ctx, bill.ID, clientID)
	require.NoError(t, err)
	assert.Equal(t, bill, detail.Bill)
	assert.NotEmpty(t, detail.PaymentQR)
}

func TestBillingService_GetDetail_PaidHasNoQR(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	bill := pendingBill(clientID)
	bill.PaymentStatus = entity.PaymentSuccessful

	fixture.billRepo.On("FindByIDForClient", ctx, bill.ID, clientID).Return(bill, nil)

	detail, err := fixture.service.GetDetail(ctx, bill.ID, clientID)
	require.NoError(t, err)
	assert.Empty(t, detail.PaymentQR)
	fixture.qrcode.AssertNotCalled(t, "GeneratePaymentQR", mock.Anything)
}

func TestBillingService_ListForClient(t *testing.T) {
	fixture := newBillingServiceFixture(t)
	ctx := context.Background()
	clientID := uuid.New()

	expected := []*entity.Bill{pendingBill(clientID), pendingBill(clientID)}
	fixture.billRepo.On("ListForClient", ctx, clientID).Return(expected, nil)

	bills, err := fixture.service.ListForClient(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, bills, 2)
}
