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

// accountRepository implements the repository.AccountRepository interface.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{
		db: db,
	}
}

// FindByID retrieves an account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return repo.findByID(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves an account under SELECT ... FOR UPDATE so that
// concurrent approval decisions on the same account serialize on the row lock.
func (repo *accountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return repo.findByID(
		repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (repo *accountRepository) findByID(tx *gorm.DB, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel

	if err := tx.
		Where("id = ?", id).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by ID")
	}

	return toAccountDomain(&accountM), nil
}

// FindByPhone retrieves an account by its phone number.
func (repo *accountRepository) FindByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	var accountM model.AccountModel

	if err := repo.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by phone")
	}

	return toAccountDomain(&accountM), nil
}

// CodeExists reports whether any account already uses the display code.
func (repo *accountRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check account code existence")
	}

	return count > 0, nil
}

// ListByStatus retrieves accounts in a given approval status, newest first.
func (repo *accountRepository) ListByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Account, error) {
	var accountModels []*model.AccountModel

	if err := repo.db.WithContext(ctx).
		Where("approval_status = ?", status.String()).
		Order("created_at DESC").
		Find(&accountModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list accounts by status")
	}

	accounts := make([]*entity.Account, 0, len(accountModels))
	for _, accountM := range accountModels {
		accounts = append(accounts, toAccountDomain(accountM))
	}

	return accounts, nil
}

// Create persists a new account.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateAccount
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required account information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Update the entity with generated values
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update modifies an existing account.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Select(
			"full_name", "email", "password_hash", "approval_status",
			"approved_by", "approved_at", "rejected_at", "rejection_reason",
			"last_login_at",
		).
		Updates(accountM)

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrDuplicateAccount
		}

		return errors.Wrap(result.Error, "failed to update account")
	}

	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:              data.ID,
		Code:            data.Code,
		FullName:        data.FullName,
		Phone:           data.Phone,
		Email:           data.Email,
		PasswordHash:    data.PasswordHash,
		Role:            entity.Role(data.Role),
		ApprovalStatus:  entity.ApprovalStatus(data.ApprovalStatus),
		ApprovedBy:      data.ApprovedBy,
		ApprovedAt:      data.ApprovedAt,
		RejectedAt:      data.RejectedAt,
		RejectionReason: data.RejectionReason,
		LastLoginAt:     data.LastLoginAt,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:              data.ID,
		Code:            data.Code,
		FullName:        data.FullName,
		Phone:           data.Phone,
		Email:           data.Email,
		PasswordHash:    data.PasswordHash,
		Role:            data.Role.String(),
		ApprovalStatus:  data.ApprovalStatus.String(),
		ApprovedBy:      data.ApprovedBy,
		ApprovedAt:      data.ApprovedAt,
		RejectedAt:      data.RejectedAt,
		RejectionReason: data.RejectionReason,
		LastLoginAt:     data.LastLoginAt,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
