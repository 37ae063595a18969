package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "opsdesk/internal/delivery/context"
	"opsdesk/internal/domain/entity"
	domainerrors "opsdesk/internal/domain/errors"
	"opsdesk/internal/domain/repository"
	"opsdesk/internal/domain/service"
	"opsdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// createBillMaxAttempts bounds retries on bill number collisions.
const createBillMaxAttempts = 3

// billingService implements the BillingUsecase interface.
type billingService struct {
	txManager     repository.TransactionManager
	billRepo      repository.BillRepository
	idGenerator   service.IdentifierGenerator
	qrcodeService service.QRCodeService
	logger        *slog.Logger
}

// BillingServiceParams holds dependencies for billingService, injected by Fx.
type BillingServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	BillRepo      repository.BillRepository
	IDGenerator   service.IdentifierGenerator
	QRCodeService service.QRCodeService
	Logger        *slog.Logger
}

// NewBillingService is the constructor for billingService.
func NewBillingService(params BillingServiceParams) usecase.BillingUsecase {
	return &billingService{
		txManager:     params.TxManager,
		billRepo:      params.BillRepo,
		idGenerator:   params.IDGenerator,
		qrcodeService: params.QRCodeService,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *billingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateBillFromOrder snapshots an order into a new bill. Reading the order
// and writing the bill happen in one transaction so a concurrent order edit
// cannot tear the snapshot.
func (srv *billingService) CreateBillFromOrder(ctx context.Context, input *usecase.CreateBillInput) (*entity.Bill, error) {
	srv.log(ctx).Info("Starting bill creation", slog.Any("orderID", input.OrderID), slog.Any("clientID", input.ClientID))

	var newBill *entity.Bill
	for attempt := 1; ; attempt++ {
		billNumber := srv.idGenerator.GenerateBillNumber()

		err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			orderRepo := repoFactory.OrderRepo()
			billRepo := repoFactory.BillRepo()

			order, err := orderRepo.FindByIDForUpdate(ctx, input.OrderID)
			if err != nil {
				if errors.Is(err, repository.ErrOrderNotFound) {
					return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
				}

				return errors.Wrap(err, "failed to find order")
			}

			if order.Status == entity.OrderCancelled {
				return errors.Wrap(domainerrors.ErrOrderNotBillable, "cancelled orders cannot be billed")
			}

			billed, err := billRepo.ExistsForOrder(ctx, order.ID)
			if err != nil {
				return errors.Wrap(err, "failed to check existing bills")
			}
			if billed {
				return errors.Wrap(domainerrors.ErrOrderAlreadyBilled, "order has already been billed")
			}

			newBill = buildBillSnapshot(order, input, billNumber)

			return billRepo.Create(ctx, newBill)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domainerrors.ErrDuplicateIdentifier) || attempt >= createBillMaxAttempts {
			srv.log(ctx).Warn("Bill creation failed", slog.Any("orderID", input.OrderID), slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to execute bill creation transaction")
		}

		srv.log(ctx).Warn("Bill number collision, retrying", slog.String("billNumber", billNumber), slog.Int("attempt", attempt))
	}

	srv.log(ctx).Debug("Bill created", slog.Any("billID", newBill.ID), slog.String("billNumber", newBill.BillNumber))

	return newBill, nil
}

// buildBillSnapshot copies the order's commercial fields into a new bill.
// The copy is frozen: later edits to the order leave the bill untouched.
func buildBillSnapshot(order *entity.Order, input *usecase.CreateBillInput, billNumber string) *entity.Bill {
	return &entity.Bill{
		BillNumber: billNumber,
		OrderID:    order.ID,
		ClientID:   input.ClientID,

		MaterialName:    order.MaterialName,
		Description:     order.Description,
		Quantity:        order.Quantity,
		Unit:            order.Unit,
		UnitPrice:       order.UnitPrice,
		Subtotal:        order.Subtotal,
		DiscountPercent: order.DiscountPercent,
		DiscountAmount:  order.DiscountAmount,
		TotalAmount:     order.TotalAmount,

		DeliveryAddress: input.DeliveryAddress,
		Pincode:         input.Pincode,
		VehicleInfo:     input.VehicleInfo,

		PaymentStatus: entity.PaymentPending,

		SentAt:    time.Now(),
		DueDate:   input.DueDate,
		Notes:     input.Notes,
		CreatedBy: input.CreatedBy,
	}
}

// RecordPayment settles a pending bill. The locked in-transaction read makes
// two concurrent calls on the same bill resolve to exactly one success: the
// loser blocks on the row lock, then re-reads the settled bill and fails the
// IsPaid check.
func (srv *billingService) RecordPayment(ctx context.Context, input *usecase.RecordPaymentInput) (*entity.Bill, error) {
	srv.log(ctx).Info("Starting payment recording", slog.Any("billID", input.BillID), slog.Any("clientID", input.ClientID))

	if input.PaymentMethod == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("payment method is required")
	}

	var paid *entity.Bill
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		billRepo := repoFactory.BillRepo()

		bill, err := billRepo.FindByIDForClientForUpdate(ctx, input.BillID, input.ClientID)
		if err != nil {
			if errors.Is(err, repository.ErrBillNotFound) {
				return errors.Wrap(domainerrors.ErrBillNotFound, "bill not found")
			}

			return errors.Wrap(err, "failed to find bill")
		}

		if bill.IsPaid() {
			return errors.Wrap(domainerrors.ErrInvalidTransition, "bill is already settled")
		}

		now := time.Now()
		bill.PaymentStatus = entity.PaymentSuccessful
		bill.PaymentMethod = input.PaymentMethod
		bill.TransactionID = input.TransactionID
		bill.PaymentNotes = input.Notes
		bill.PaidAt = &now

		if err := billRepo.Update(ctx, bill); err != nil {
			return errors.Wrap(err, "failed to update bill")
		}

		paid = bill

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Payment recording failed", slog.Any("billID", input.BillID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute payment transaction")
	}

	srv.log(ctx).Debug("Payment recorded", slog.Any("billID", paid.ID), slog.String("method", paid.PaymentMethod))

	return paid, nil
}

// ListForClient returns all bills of a client, newest first.
func (srv *billingService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Bill, error) {
	bills, err := srv.billRepo.ListForClient(ctx, clientID)
	if err != nil {
		srv.log(ctx).Error("Failed to list bills for client", slog.Any("clientID", clientID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list bills for client")
	}

	return bills, nil
}

// GetDetail returns a client's bill, attaching a payment QR code while the
// bill is unpaid.
func (srv *billingService) GetDetail(ctx context.Context, billID, clientID uuid.UUID) (*usecase.BillDetailOutput, error) {
	bill, err := srv.billRepo.FindByIDForClient(ctx, billID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrBillNotFound) {
			return nil, errors.Wrap(domainerrors.ErrBillNotFound, "bill not found")
		}

		srv.log(ctx).Error("Failed to get bill detail", slog.Any("billID", billID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get bill detail")
	}

	output := &usecase.BillDetailOutput{Bill: bill}
	if !bill.IsPaid() {
		qr, err := srv.qrcodeService.GeneratePaymentQR(bill)
		if err != nil {
			// The bill itself is still useful without the QR code.
			srv.log(ctx).Warn("Failed to generate payment QR", slog.Any("billID", billID), slog.Any("error", err))
		} else {
			output.PaymentQR = qr
		}
	}

	return output, nil
}
