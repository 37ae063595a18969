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
	"opsdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type feedbackServiceFixture struct {
	service      usecase.FeedbackUsecase
	billRepo     *mockRepo.MockBillRepository
	feedbackRepo *mockRepo.MockFeedbackRepository
}

func newFeedbackServiceFixture(t *testing.T) *feedbackServiceFixture {
	t.Helper()

	billRepo := mockRepo.NewMockBillRepository(t)
	feedbackRepo := mockRepo.NewMockFeedbackRepository(t)

	factory := &mockRepo.StubRepositoryFactory{Bills: billRepo, Feedbacks: feedbackRepo}
	service := NewFeedbackService(FeedbackServiceParams{
		TxManager:    &mockRepo.StubTransactionManager{Factory: factory},
		FeedbackRepo: feedbackRepo,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &feedbackServiceFixture{
		service:      service,
		billRepo:     billRepo,
		feedbackRepo: feedbackRepo,
	}
}

func validSubmitInput(clientID uuid.UUID) *usecase.SubmitFeedbackInput {
	return &usecase.SubmitFeedbackInput{
		BillID:   uuid.New(),
		ClientID: clientID,
		Rating:   4,
		Comments: "Delivery was quick",
	}
}

func TestFeedbackService_Submit_Success(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	input := validSubmitInput(clientID)

	fixture.billRepo.On("FindByIDForClient", ctx, input.BillID, clientID).
		Return(&entity.Bill{ID: input.BillID, ClientID: clientID}, nil)
	fixture.feedbackRepo.On("FindByBill", ctx, input.BillID).Return(nil, repository.ErrFeedbackNotFound)
	fixture.feedbackRepo.On("Create", ctx, mock.AnythingOfType("*entity.Feedback")).Return(nil)

	feedback, err := fixture.service.Submit(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, entity.FeedbackSubmitted, feedback.Status)
	assert.Equal(t, 4, feedback.Rating)
	assert.Equal(t, clientID, feedback.ClientID)
}

func TestFeedbackService_Submit_SecondFeedbackRejected(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)
	ctx := context.Background()
	clientID := uuid.New()
	input := validSubmitInput(clientID)

	fixture.billRepo.On("FindByIDForClient", ctx, input.BillID, clientID).
		Return(&entity.Bill{ID: input.BillID, ClientID: clientID}, nil)
	fixture.feedbackRepo.On("FindByBill", ctx, input.BillID).
		Return(&entity.Feedback{ID: uuid.New(), BillID: input.BillID}, nil)

	feedback, err := fixture.service.Submit(ctx, input)
	require.Error(t, err)
	assert.Nil(t, feedback)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	fixture.feedbackRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFeedbackService_Submit_RatingBounds(t *testing.T) {
	for _, rating := range []int{0, -1, 6, 42} {
		fixture := newFeedbackServiceFixture(t)

		input := validSubmitInput(uuid.New())
		input.Rating = rating

		feedback, err := fixture.service.Submit(context.Background(), input)
		require.Error(t, err, "rating %d", rating)
		assert.Nil(t, feedback)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	}
}

func TestFeedbackService_Submit_EmptyComments(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)

	input := validSubmitInput(uuid.New())
	input.Comments = ""

	feedback, err := fixture.service.Submit(context.Background(), input)
	require.Error(t, err)
	assert.Nil(t, feedback)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestFeedbackService_Submit_OtherClientsBillHidden(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)
	ctx := context.Background()
	input := validSubmitInput(uuid.New())

	fixture.billRepo.On("FindByIDForClient", ctx, input.BillID, input.ClientID).
		Return(nil, repository.ErrBillNotFound)

	feedback, err := fixture.service.Submit(ctx, input)
	require.Error(t, err)
	assert.Nil(t, feedback)
	assert.True(t, errors.Is(err, domainerrors.ErrBillNotFound))
}

func TestFeedbackService_Respond_MovesToReviewed(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)
	ctx := context.Background()
	adminID := uuid.New()
	feedback := &entity.Feedback{
		ID:       uuid.New(),
		Rating:   4,
		Comments: "Delivery was quick",
		Status:   entity.FeedbackSubmitted,
	}

	fixture.feedbackRepo.On("FindByIDForUpdate", ctx, feedback.ID).Return(feedback, nil)
	fixture.feedbackRepo.On("Update", ctx, mock.AnythingOfType("*entity.Feedback")).Return(nil)

	responded, err := fixture.service.Respond(ctx, &usecase.RespondFeedbackInput{
		FeedbackID: feedback.ID,
		AdminID:    adminID,
		Response:   "Thanks, noted.",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FeedbackReviewed, responded.Status)
	assert.Equal(t, "Thanks, noted.", responded.Response)
	require.NotNil(t, responded.RespondedBy)
	assert.Equal(t, adminID, *responded.RespondedBy)
	assert.NotNil(t, responded.RespondedAt)
}

func TestFeedbackService_Respond_OverwritesPreviousResponse(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)
	ctx := context.Background()
	previousAdmin := uuid.New()
	feedback := &entity.Feedback{
		ID:          uuid.New(),
		Rating:      2,
		Comments:    "Late delivery",
		Status:      entity.FeedbackReviewed,
		Response:    "We are checking.",
		RespondedBy: &previousAdmin,
	}

	fixture.feedbackRepo.On("FindByIDForUpdate", ctx, feedback.ID).Return(feedback, nil)
	fixture.feedbackRepo.On("Update", ctx, mock.AnythingOfType("*entity.Feedback")).Return(nil)

	newAdmin := uuid.New()
	responded, err := fixture.service.Respond(ctx, &usecase.RespondFeedbackInput{
		FeedbackID: feedback.ID,
		AdminID:    newAdmin,
		Response:   "Resolved with the carrier.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Resolved with the carrier.", responded.Response)
	assert.Equal(t, newAdmin, *responded.RespondedBy)
	assert.Equal(t, entity.FeedbackReviewed, responded.Status)
}

func TestFeedbackService_Respond_ResolvedRequiresReopen(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)
	ctx := context.Background()
	feedback := &entity.Feedback{
		ID:     uuid.New(),
		Status: entity.FeedbackResolved,
	}

	fixture.feedbackRepo.On("FindByIDForUpdate", ctx, feedback.ID).Return(feedback, nil)

	responded, err := fixture.service.Respond(ctx, &usecase.RespondFeedbackInput{
		FeedbackID: feedback.ID,
		AdminID:    uuid.New(),
		Response:   "Too late.",
	})
	require.Error(t, err)
	assert.Nil(t, responded)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestFeedbackService_SetStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    entity.FeedbackStatus
		to      entity.FeedbackStatus
		allowed bool
	}{
		{"submitted to reviewed", entity.FeedbackSubmitted, entity.FeedbackReviewed, true},
		{"submitted cannot skip to resolved", entity.FeedbackSubmitted, entity.FeedbackResolved, false},
		{"reviewed to resolved", entity.FeedbackReviewed, entity.FeedbackResolved, true},
		{"resolved reopened to reviewed", entity.FeedbackResolved, entity.FeedbackReviewed, true},
		{"reviewed back to submitted", entity.FeedbackReviewed, entity.FeedbackSubmitted, false},
		{"resolved back to submitted", entity.FeedbackResolved, entity.FeedbackSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFeedbackServiceFixture(t)
			ctx := context.Background()
			feedback := &entity.Feedback{ID: uuid.New(), Status: tt.from}

			fixture.feedbackRepo.On("FindByIDForUpdate", ctx, feedback.ID).Return(feedback, nil)
			if tt.allowed {
				fixture.feedbackRepo.On("Update", ctx, mock.AnythingOfType("*entity.Feedback")).Return(nil)
			}

			changed, err := fixture.service.SetStatus(ctx, &usecase.SetFeedbackStatusInput{
				FeedbackID: feedback.ID,
				Status:     tt.to,
			})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, changed.Status)
			} else {
				require.Error(t, err)
				assert.Nil(t, changed)
				assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
			}
		})
	}
}

func TestFeedbackService_SetStatus_UnknownStatus(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)

	changed, err := fixture.service.SetStatus(context.Background(), &usecase.SetFeedbackStatusInput{
		FeedbackID: uuid.New(),
		Status:     entity.FeedbackStatus("archived"),
	})
	require.Error(t, err)
	assert.Nil(t, changed)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestFeedbackService_List(t *testing.T) {
	fixture := newFeedbackServiceFixture(t)
	ctx := context.Background()

	expected := []*entity.Feedback{
		{ID: uuid.New(), Status: entity.FeedbackSubmitted},
	}
	fixture.feedbackRepo.On("List", ctx).Return(expected, nil)

	feedbacks, err := fixture.service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, feedbacks, 1)
}
