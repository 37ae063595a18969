package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "opsdesk/internal/delivery/context"
	"opsdesk/internal/domain/entity"
	domainerrors "opsdesk/internal/domain/errors"
	"opsdesk/internal/domain/repository"
	"opsdesk/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// feedbackService implements the FeedbackUsecase interface.
type feedbackService struct {
	txManager    repository.TransactionManager
	feedbackRepo repository.FeedbackRepository
	logger       *slog.Logger
}

// FeedbackServiceParams holds dependencies for feedbackService, injected by Fx.
type FeedbackServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	FeedbackRepo repository.FeedbackRepository
	Logger       *slog.Logger
}

// NewFeedbackService is the constructor for feedbackService.
func NewFeedbackService(params FeedbackServiceParams) usecase.FeedbackUsecase {
	return &feedbackService{
		txManager:    params.TxManager,
		feedbackRepo: params.FeedbackRepo,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *feedbackService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit validates and stores a client's feedback on their own bill.
func (srv *feedbackService) Submit(ctx context.Context, input *usecase.SubmitFeedbackInput) (*entity.Feedback, error) {
	srv.log(ctx).Info("Starting feedback submission", slog.Any("billID", input.BillID), slog.Any("clientID", input.ClientID))

	if input.Rating < entity.MinRating || input.Rating > entity.MaxRating {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("rating must be between 1 and 5")
	}
	if input.Comments == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("comments are required")
	}

	newFeedback := &entity.Feedback{
		BillID:      input.BillID,
		ClientID:    input.ClientID,
		Rating:      input.Rating,
		Comments:    input.Comments,
		Suggestions: input.Suggestions,
		Status:      entity.FeedbackSubmitted,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		billRepo := repoFactory.BillRepo()
		feedbackRepo := repoFactory.FeedbackRepo()

		// The ownership-scoped read hides other clients' bills.
		if _, err := billRepo.FindByIDForClient(ctx, input.BillID, input.ClientID); err != nil {
			if errors.Is(err, repository.ErrBillNotFound) {
				return errors.Wrap(domainerrors.ErrBillNotFound, "bill not found")
			}

			return errors.Wrap(err, "failed to find bill")
		}

		// One feedback per bill; the unique index backs this up under races.
		if _, err := feedbackRepo.FindByBill(ctx, input.BillID); err == nil {
			return domainerrors.ErrValidationFailed.WrapMessage("feedback already submitted for this bill")
		} else if !errors.Is(err, repository.ErrFeedbackNotFound) {
			return errors.Wrap(err, "failed to check existing feedback")
		}

		return feedbackRepo.Create(ctx, newFeedback)
	})
	if err != nil {
		srv.log(ctx).Warn("Feedback submission failed", slog.Any("billID", input.BillID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute feedback submission transaction")
	}

	srv.log(ctx).Debug("Feedback submitted", slog.Any("feedbackID", newFeedback.ID), slog.Int("rating", newFeedback.Rating))

	return newFeedback, nil
}

// Respond stores an admin response and moves submitted feedback to reviewed.
// Re-responding overwrites the previous response text.
func (srv *feedbackService) Respond(ctx context.Context, input *usecase.RespondFeedbackInput) (*entity.Feedback, error) {
	srv.log(ctx).Info("Starting feedback response", slog.Any("feedbackID", input.FeedbackID), slog.Any("adminID", input.AdminID))

	if input.Response == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("response text is required")
	}

	var responded *entity.Feedback
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		feedbackRepo := repoFactory.FeedbackRepo()

		feedback, err := feedbackRepo.FindByIDForUpdate(ctx, input.FeedbackID)
		if err != nil {
			if errors.Is(err, repository.ErrFeedbackNotFound) {
				return errors.Wrap(domainerrors.ErrFeedbackNotFound, "feedback not found")
			}

			return errors.Wrap(err, "failed to find feedback")
		}

		if feedback.Status == entity.FeedbackResolved {
			return errors.Wrap(domainerrors.ErrInvalidTransition, "resolved feedback must be reopened before responding")
		}

		now := time.Now()
		feedback.Response = input.Response
		feedback.RespondedBy = &input.AdminID
		feedback.RespondedAt = &now
		feedback.Status = entity.FeedbackReviewed

		if err := feedbackRepo.Update(ctx, feedback); err != nil {
			return errors.Wrap(err, "failed to update feedback")
		}

		responded = feedback

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Feedback response failed", slog.Any("feedbackID", input.FeedbackID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute feedback response transaction")
	}

	srv.log(ctx).Debug("Feedback responded", slog.Any("feedbackID", responded.ID))

	return responded, nil
}

// SetStatus applies an explicit status transition.
func (srv *feedbackService) SetStatus(ctx context.Context, input *usecase.SetFeedbackStatusInput) (*entity.Feedback, error) {
	srv.log(ctx).Info("Starting feedback status change", slog.Any("feedbackID", input.FeedbackID), slog.Any("status", input.Status))

	if !input.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown feedback status")
	}

	var changed *entity.Feedback
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		feedbackRepo := repoFactory.FeedbackRepo()

		feedback, err := feedbackRepo.FindByIDForUpdate(ctx, input.FeedbackID)
		if err != nil {
			if errors.Is(err, repository.ErrFeedbackNotFound) {
				return errors.Wrap(domainerrors.ErrFeedbackNotFound, "feedback not found")
			}

			return errors.Wrap(err, "failed to find feedback")
		}

		if !feedback.Status.CanTransitionTo(input.Status) {
			return errors.Wrapf(domainerrors.ErrInvalidTransition, "cannot move feedback from %s to %s", feedback.Status, input.Status)
		}

		feedback.Status = input.Status
		if err := feedbackRepo.Update(ctx, feedback); err != nil {
			return errors.Wrap(err, "failed to update feedback")
		}

		changed = feedback

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Feedback status change failed", slog.Any("feedbackID", input.FeedbackID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute feedback status transaction")
	}

	srv.log(ctx).Debug("Feedback status changed", slog.Any("feedbackID", changed.ID), slog.Any("status", changed.Status))

	return changed, nil
}

// List returns all feedback records, newest first.
func (srv *feedbackService) List(ctx context.Context) ([]*entity.Feedback, error) {
	feedbacks, err := srv.feedbackRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list feedback", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list feedback")
	}

	return feedbacks, nil
}
