// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"net/mail"
	"regexp"
	"time"

	"opsdesk/config"
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

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// registerAccountMaxAttempts bounds retries on account code collisions.
const registerAccountMaxAttempts = 3

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager         repository.TransactionManager
	accountRepo       repository.AccountRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	idGenerator       service.IdentifierGenerator
	minPasswordLength int
	logger            *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	IDGenerator  service.IdentifierGenerator
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	minPasswordLength := 0
	if params.Config != nil && params.Config.Auth != nil {
		minPasswordLength = params.Config.Auth.MinPasswordLength
	}

	return &accountService{
		txManager:         params.TxManager,
		accountRepo:       params.AccountRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		idGenerator:       params.IDGenerator,
		minPasswordLength: minPasswordLength,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account submission process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterAccountInput) (*usecase.RegisterAccountOutput, error) {
	srv.log(ctx).Info("Starting account registration", slog.String("phone", input.Phone), slog.Any("role", input.Role))

	if err := srv.validateRegistration(input); err != nil {
		srv.log(ctx).Warn("Account registration validation failed", slog.String("phone", input.Phone), slog.Any("error", err))

		return nil, err
	}

	// bcrypt is CPU-bound, hash outside the transaction.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	status := entity.ApprovalPending
	// Client and dealer accounts skip the approval queue.
	if !input.Role.RequiresApproval() {
		status = entity.ApprovalApproved
	}

	var newAccount *entity.Account
	for attempt := 1; ; attempt++ {
		code, err := srv.idGenerator.GenerateAccountCode(ctx)
		if err != nil {
			srv.log(ctx).Error("Failed to generate account code", slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to generate account code")
		}

		newAccount = &entity.Account{
			Code:           code,
			FullName:       input.FullName,
			Phone:          input.Phone,
			Email:          input.Email,
			PasswordHash:   hashedPassword,
			Role:           input.Role,
			ApprovalStatus: status,
		}

		err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return repoFactory.AccountRepo().Create(ctx, newAccount)
		})
		if err == nil {
			break
		}

		// A unique violation can come from the phone or email the caller
		// supplied, or from the generated code racing another registration.
		// Only the code case is retryable; tell them apart by checking
		// whether the code actually got taken.
		if errors.Is(err, domainerrors.ErrDuplicateAccount) && attempt < registerAccountMaxAttempts {
			taken, checkErr := srv.accountRepo.CodeExists(ctx, code)
			if checkErr == nil && taken {
				srv.log(ctx).Warn("Account code collision, retrying", slog.String("code", code), slog.Int("attempt", attempt))

				continue
			}
		}

		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("phone", input.Phone), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute account registration transaction")
	}

	srv.log(ctx).Debug("Account registered", slog.Any("accountID", newAccount.ID), slog.Any("status", newAccount.ApprovalStatus))

	return &usecase.RegisterAccountOutput{Account: newAccount}, nil
}

// validateRegistration reports the first failing field.
func (srv *accountService) validateRegistration(input *usecase.RegisterAccountInput) error {
	if input.FullName == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("full name is required")
	}
	if !phonePattern.MatchString(input.Phone) {
		return domainerrors.ErrValidationFailed.WrapMessage("phone must be exactly 10 digits")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("email format is invalid")
	}
	if len(input.Password) < srv.minPasswordLength {
		return domainerrors.ErrValidationFailed.WrapMessage("password is too short")
	}
	if !input.Role.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown role")
	}

	return nil
}

// Login orchestrates the account login process.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("phone", input.Phone))

	account, err := srv.accountRepo.FindByPhone(ctx, input.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("phone", input.Phone), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find account by phone")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("phone", input.Phone), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	// Correct credentials do not help an unapproved gated account.
	if !account.CanLogIn() {
		srv.log(ctx).Warn("Login blocked for unapproved account", slog.Any("accountID", account.ID), slog.Any("status", account.ApprovalStatus))

		return nil, errors.Wrap(domainerrors.ErrAccountNotApproved, "login blocked")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(account.ID, account.Role.String())
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	now := time.Now()
	account.LastLoginAt = &now
	if err := srv.accountRepo.Update(ctx, account); err != nil {
		// A failed stamp is not worth failing the login over.
		srv.log(ctx).Warn("Failed to stamp last login", slog.Any("accountID", account.ID), slog.Any("error", err))
	}

	srv.log(ctx).Debug("Account logged in", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account:      account,
	}, nil
}

// Approve moves a pending account to approved.
func (srv *accountService) Approve(ctx context.Context, input *usecase.ApprovalDecisionInput) (*entity.Account, error) {
	return srv.decide(ctx, input.AccountID, "approve", func(account *entity.Account) error {
		if account.ApprovalStatus != entity.ApprovalPending {
			return errors.Wrap(domainerrors.ErrInvalidTransition, "only pending accounts can be approved")
		}

		now := time.Now()
		account.ApprovalStatus = entity.ApprovalApproved
		account.ApprovedBy = &input.AdminID
		account.ApprovedAt = &now
		account.RejectedAt = nil
		account.RejectionReason = ""

		return nil
	})
}

// Reject moves a pending account to rejected. The reason is mandatory.
func (srv *accountService) Reject(ctx context.Context, input *usecase.RejectAccountInput) (*entity.Account, error) {
	if input.Reason == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("rejection reason is required")
	}

	return srv.decide(ctx, input.AccountID, "reject", func(account *entity.Account) error {
		if account.ApprovalStatus != entity.ApprovalPending {
			return errors.Wrap(domainerrors.ErrInvalidTransition, "only pending accounts can be rejected")
		}

		now := time.Now()
		account.ApprovalStatus = entity.ApprovalRejected
		account.ApprovedBy = &input.AdminID
		account.ApprovedAt = nil
		account.RejectedAt = &now
		account.RejectionReason = input.Reason

		return nil
	})
}

// Reopen moves a decided account back to pending for a fresh decision.
func (srv *accountService) Reopen(ctx context.Context, input *usecase.ApprovalDecisionInput) (*entity.Account, error) {
	return srv.decide(ctx, input.AccountID, "reopen", func(account *entity.Account) error {
		if account.ApprovalStatus == entity.ApprovalPending {
			return errors.Wrap(domainerrors.ErrInvalidTransition, "account is already pending")
		}

		account.ApprovalStatus = entity.ApprovalPending
		account.ApprovedBy = nil
		account.ApprovedAt = nil
		account.RejectedAt = nil
		account.RejectionReason = ""

		return nil
	})
}

// decide reads the account under a row lock inside a transaction, applies the
// mutation and persists it. The lock keeps two concurrent decisions from both
// succeeding off the same precondition state: the loser blocks, re-reads the
// decided account and fails the transition check.
func (srv *accountService) decide(ctx context.Context, accountID uuid.UUID, action string, mutate func(*entity.Account) error) (*entity.Account, error) {
	srv.log(ctx).Info("Starting approval decision", slog.String("action", action), slog.Any("accountID", accountID))

	var decided *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByIDForUpdate(ctx, accountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return errors.Wrap(domainerrors.ErrAccountNotFound, "account not found")
			}

			return errors.Wrap(err, "failed to find account")
		}

		if err := mutate(account); err != nil {
			return err
		}

		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update account")
		}

		decided = account

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Approval decision failed", slog.String("action", action), slog.Any("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrapf(err, "failed to execute account %s transaction", action)
	}

	srv.log(ctx).Debug("Approval decision applied", slog.String("action", action), slog.Any("accountID", accountID), slog.Any("status", decided.ApprovalStatus))

	return decided, nil
}

// ListByStatus returns accounts in the given approval status.
func (srv *accountService) ListByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Account, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown approval status")
	}

	accounts, err := srv.accountRepo.ListByStatus(ctx, status)
	if err != nil {
		srv.log(ctx).Error("Failed to list accounts by status", slog.Any("status", status), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list accounts by status")
	}

	return accounts, nil
}
