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

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// FindByID retrieves an order by its unique ID.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return repo.findByID(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves an order under SELECT ... FOR UPDATE. Callers
// inside a transaction use it so concurrent status changes serialize on the
// row lock instead of overwriting each other's writes.
func (repo *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return repo.findByID(
		repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (repo *orderRepository) findByID(tx *gorm.DB, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := tx.
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

// List retrieves orders matching the filter, newest first.
func (repo *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	query := repo.db.WithContext(ctx).Model(&model.OrderModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type.String())
	}

	if err := query.Order("created_at DESC").Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// Create persists a new order.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateIdentifier
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid account reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// Update modifies an existing order. The order number, creator and type are
// immutable and deliberately excluded from the column list.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", order.ID).
		Select(
			"material_name", "description", "quantity", "unit", "unit_price",
			"discount_percent", "subtotal", "discount_amount", "total_amount",
			"priority", "status", "customer_id", "expected_delivery", "delivered_at",
		).
		Updates(orderM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// Delete removes an order by its ID.
func (repo *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.OrderModel{})

	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrHasDependentBill
		}

		return errors.Wrap(result.Error, "failed to delete order")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	return &entity.Order{
		ID:               data.ID,
		OrderNumber:      data.OrderNumber,
		MaterialName:     data.MaterialName,
		Description:      data.Description,
		Quantity:         data.Quantity,
		Unit:             data.Unit,
		UnitPrice:        data.UnitPrice,
		DiscountPercent:  data.DiscountPercent,
		Subtotal:         data.Subtotal,
		DiscountAmount:   data.DiscountAmount,
		TotalAmount:      data.TotalAmount,
		Type:             entity.OrderType(data.Type),
		Priority:         entity.OrderPriority(data.Priority),
		Status:           entity.OrderStatus(data.Status),
		CustomerID:       data.CustomerID,
		CreatedBy:        data.CreatedBy,
		ExpectedDelivery: data.ExpectedDelivery,
		DeliveredAt:      data.DeliveredAt,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	return &model.OrderModel{
		ID:               data.ID,
		OrderNumber:      data.OrderNumber,
		MaterialName:     data.MaterialName,
		Description:      data.Description,
		Quantity:         data.Quantity,
		Unit:             data.Unit,
		UnitPrice:        data.UnitPrice,
		DiscountPercent:  data.DiscountPercent,
		Subtotal:         data.Subtotal,
		DiscountAmount:   data.DiscountAmount,
		TotalAmount:      data.TotalAmount,
		Type:             data.Type.String(),
		Priority:         string(data.Priority),
		Status:           data.Status.String(),
		CustomerID:       data.CustomerID,
		CreatedBy:        data.CreatedBy,
		ExpectedDelivery: data.ExpectedDelivery,
		DeliveredAt:      data.DeliveredAt,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
