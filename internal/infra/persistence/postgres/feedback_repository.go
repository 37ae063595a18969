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

// feedbackRepository implements the repository.FeedbackRepository interface.
type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository is the constructor for feedbackRepository.
func NewFeedbackRepository(db *gorm.DB) repository.FeedbackRepository {
	return &feedbackRepository{
		db: db,
	}
}

// FindByID retrieves a feedback record by its unique ID.
func (repo *feedbackRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Feedback, error) {
	return repo.findByID(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a feedback record under SELECT ... FOR UPDATE
// so concurrent review actions on the same feedback serialize on the row lock.
func (repo *feedbackRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Feedback, error) {
	return repo.findByID(
		repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		id,
	)
}

func (repo *feedbackRepository) findByID(tx *gorm.DB, id uuid.UUID) (*entity.Feedback, error) {
	var feedbackM model.FeedbackModel

	if err := tx.
		Where("id = ?", id).
		First(&feedbackM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFeedbackNotFound
		}

		return nil, errors.Wrap(err, "failed to find feedback by ID")
	}

	return toFeedbackDomain(&feedbackM), nil
}

// FindByBill retrieves the feedback attached to a bill, if any.
func (repo *feedbackRepository) FindByBill(ctx context.Context, billID uuid.UUID) (*entity.Feedback, error) {
	var feedbackM model.FeedbackModel

	if err := repo.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		First(&feedbackM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFeedbackNotFound
		}

		return nil, errors.Wrap(err, "failed to find feedback by bill")
	}

	return toFeedbackDomain(&feedbackM), nil
}

// List retrieves all feedback records, newest first.
func (repo *feedbackRepository) List(ctx context.Context) ([]*entity.Feedback, error) {
	var feedbackModels []*model.FeedbackModel

	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&feedbackModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list feedback")
	}

	feedbacks := make([]*entity.Feedback, 0, len(feedbackModels))
	for _, feedbackM := range feedbackModels {
		feedbacks = append(feedbacks, toFeedbackDomain(feedbackM))
	}

	return feedbacks, nil
}

// Create persists a new feedback record. The unique index on bill_id turns a
// second submission for the same bill into a duplicate error.
func (repo *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	feedbackM := fromFeedbackDomain(feedback)

	if err := repo.db.WithContext(ctx).Create(feedbackM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("feedback already submitted for this bill")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid bill or client reference")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating out of range")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required feedback information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create feedback")
	}

	feedback.ID = feedbackM.ID
	feedback.CreatedAt = feedbackM.CreatedAt
	feedback.UpdatedAt = feedbackM.UpdatedAt

	return nil
}

// Update modifies an existing feedback record.
func (repo *feedbackRepository) Update(ctx context.Context, feedback *entity.Feedback) error {
	feedbackM := fromFeedbackDomain(feedback)

	result := repo.db.WithContext(ctx).
		Model(&model.FeedbackModel{}).
		Where("id = ?", feedback.ID).
		Select("status", "response", "responded_by", "responded_at").
		Updates(feedbackM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update feedback")
	}

	if result.RowsAffected == 0 {
		return repository.ErrFeedbackNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toFeedbackDomain converts a GORM FeedbackModel to a domain Feedback entity.
func toFeedbackDomain(data *model.FeedbackModel) *entity.Feedback {
	if data == nil {
		return nil
	}

	return &entity.Feedback{
		ID:          data.ID,
		BillID:      data.BillID,
		ClientID:    data.ClientID,
		Rating:      data.Rating,
		Comments:    data.Comments,
		Suggestions: data.Suggestions,
		Status:      entity.FeedbackStatus(data.Status),
		Response:    data.Response,
		RespondedBy: data.RespondedBy,
		RespondedAt: data.RespondedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromFeedbackDomain converts a domain Feedback entity to a GORM FeedbackModel.
func fromFeedbackDomain(data *entity.Feedback) *model.FeedbackModel {
	if data == nil {
		return nil
	}

	return &model.FeedbackModel{
		ID:          data.ID,
		BillID:      data.BillID,
		ClientID:    data.ClientID,
		Rating:      data.Rating,
		Comments:    data.Comments,
		Suggestions: data.Suggestions,
		Status:      data.Status.String(),
		Response:    data.Response,
		RespondedBy: data.RespondedBy,
		RespondedAt: data.RespondedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
