package postgres

import (
	"context"

	"opsdesk/internal/domain/entity"
	domainerrors "opsdesk/internal/domain/errors"
	"opsdesk/internal/domain/repository"
	"opsdesk/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// billRepository implements the repository.BillRepository interface.
type billRepository struct {
	db *gorm.DB
}

// NewBillRepository is the constructor for billRepository.
func NewBillRepository(db *gorm.DB) repository.BillRepository {
	return &billRepository{
		db: db,
	}
}

// FindByID retrieves a bill by its unique ID without ownership scoping.
func (repo *billRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var billM model.BillModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&billM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBillNotFound
		}

		return nil, errors.Wrap(err, "failed to find bill by ID")
	}

	return toBillDomain(&billM), nil
}

// FindByIDForClient retrieves a bill scoped to the owning client. The client
// ID is part of the predicate, so another client's bill looks like a missing
// one.
func (repo *billRepository) FindByIDForClient(ctx context.Context, id, clientID uuid.UUID) (*entity.Bill, error) {
	return repo.findByIDForClient(repo.db.WithContext(ctx), id, clientID)
}

// FindByIDForClientForUpdate is the client-scoped read under
// SELECT ... FOR UPDATE. Two concurrent payment attempts on the same bill
// serialize on the row lock, so the later one reads the settled row.
func (repo *billRepository) FindByIDForClientForUpdate(ctx context.Context, id, clientID uuid.UUID) (*entity.Bill, error) {
	return repo.findByIDForClient(
		repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id, clientID,
	)
}

func (repo *billRepository) findByIDForClient(tx *gorm.DB, id, clientID uuid.UUID) (*entity.Bill, error) {
	var billM model.BillModel

	if err := tx.
		Where("id = ? AND client_id = ?", id, clientID).
		First(&billM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBillNotFound
		}

		return nil, errors.Wrap(err, "failed to find bill for client")
	}

	return toBillDomain(&billM), nil
}

// ListForClient retrieves all bills of a client, newest first.
func (repo *billRepository) ListForClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Bill, error) {
	var billModels []*model.BillModel

	if err := repo.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&billModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list bills for client")
	}

	bills := make([]*entity.Bill, 0, len(billModels))
	for _, billM := range billModels {
		bills = append(bills, toBillDomain(billM))
	}

	return bills, nil
}

// ExistsForOrder reports whether any bill references the order.
func (repo *billRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.BillModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check bill existence for order")
	}

	return count > 0, nil
}

// Create persists a new bill.
func (repo *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	billM := fromBillDomain(bill)

	if err := repo.db.WithContext(ctx).Create(billM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateIdentifier
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid order or client reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required bill information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create bill")
	}

	bill.ID = billM.ID
	bill.CreatedAt = billM.CreatedAt
	bill.UpdatedAt = billM.UpdatedAt

	return nil
}

// Update modifies an existing bill. Only the payment fields and notes are
// mutable; the commercial snapshot columns stay frozen.
func (repo *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	billM := fromBillDomain(bill)

	result := repo.db.WithContext(ctx).
		Model(&model.BillModel{}).
		Where("id = ?", bill.ID).
		Select(
			"payment_status", "payment_method", "transaction_id",
			"payment_notes", "paid_at", "due_date", "notes",
		).
		Updates(billM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update bill")
	}

	if result.RowsAffected == 0 {
		return repository.ErrBillNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toBillDomain converts a GORM BillModel to a domain Bill entity.
func toBillDomain(data *model.BillModel) *entity.Bill {
	if data == nil {
		return nil
	}

	return &entity.Bill{
		ID:              data.ID,
		BillNumber:      data.BillNumber,
		OrderID:         data.OrderID,
		ClientID:        data.ClientID,
		MaterialName:    data.MaterialName,
		Description:     data.Description,
		Quantity:        data.Quantity,
		Unit:            data.Unit,
		UnitPrice:       data.UnitPrice,
		Subtotal:        data.Subtotal,
		DiscountPercent: data.DiscountPercent,
		DiscountAmount:  data.DiscountAmount,
		TotalAmount:     data.TotalAmount,
		DeliveryAddress: data.DeliveryAddress,
		Pincode:         data.Pincode,
		VehicleInfo:     data.VehicleInfo,
		PaymentStatus:   entity.PaymentStatus(data.PaymentStatus),
		PaymentMethod:   data.PaymentMethod,
		TransactionID:   data.TransactionID,
		PaymentNotes:    data.PaymentNotes,
		PaidAt:          data.PaidAt,
		SentAt:          data.SentAt,
		DueDate:         data.DueDate,
		Notes:           data.Notes,
		CreatedBy:       data.CreatedBy,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromBillDomain converts a domain Bill entity to a GORM BillModel.
func fromBillDomain(data *entity.Bill) *model.BillModel {
	if data == nil {
		return nil
	}

	return &model.BillModel{
		ID:              data.ID,
		BillNumber:      data.BillNumber,
		OrderID:         data.OrderID,
		ClientID:        data.ClientID,
		MaterialName:    data.MaterialName,
		Description:     data.Description,
		Quantity:        data.Quantity,
		Unit:            data.Unit,
		UnitPrice:       data.UnitPrice,
		Subtotal:        data.Subtotal,
		DiscountPercent: data.DiscountPercent,
		DiscountAmount:  data.DiscountAmount,
		TotalAmount:     data.TotalAmount,
		DeliveryAddress: data.DeliveryAddress,
		Pincode:         data.Pincode,
		VehicleInfo:     data.VehicleInfo,
		PaymentStatus:   data.PaymentStatus.String(),
		PaymentMethod:   data.PaymentMethod,
		TransactionID:   data.TransactionID,
		PaymentNotes:    data.PaymentNotes,
		PaidAt:          data.PaidAt,
		SentAt:          data.SentAt,
		DueDate:         data.DueDate,
		Notes:           data.Notes,
		CreatedBy:       data.CreatedBy,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
