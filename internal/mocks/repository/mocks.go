// Package repository provides testify-based test doubles for the domain
// repository interfaces.
package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"opsdesk/internal/domain/entity"
	domainrepo "opsdesk/internal/domain/repository"
)

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a new mock and registers expectation
// assertion as test cleanup.
func NewMockAccountRepository(t *testing.T) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)

	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ListByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Account, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository(t *testing.T) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter domainrepo.OrderFilter) ([]*entity.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockBillRepository is a mock implementation of repository.BillRepository.
type MockBillRepository struct {
	mock.Mock
}

func NewMockBillRepository(t *testing.T) *MockBillRepository {
	m := &MockBillRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByIDForClient(ctx context.Context, id, clientID uuid.UUID) (*entity.Bill, error) {
	args := m.Called(ctx, id, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByIDForClientForUpdate(ctx context.Context, id, clientID uuid.UUID) (*entity.Bill, error) {
	args := m.Called(ctx, id, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Bill), args.Error(1)
}

func (m *MockBillRepository) ListForClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Bill, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Bill), args.Error(1)
}

func (m *MockBillRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID)

	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

func (m *MockBillRepository) Update(ctx context.Context, bill *entity.Bill) error {
	return m.Called(ctx, bill).Error(0)
}

// MockFeedbackRepository is a mock implementation of repository.FeedbackRepository.
type MockFeedbackRepository struct {
	mock.Mock
}

func NewMockFeedbackRepository(t *testing.T) *MockFeedbackRepository {
	m := &MockFeedbackRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockFeedbackRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) FindByBill(ctx context.Context, billID uuid.UUID) (*entity.Feedback, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) List(ctx context.Context) ([]*entity.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	return m.Called(ctx, feedback).Error(0)
}

func (m *MockFeedbackRepository) Update(ctx context.Context, feedback *entity.Feedback) error {
	return m.Called(ctx, feedback).Error(0)
}

// StubRepositoryFactory is a repository.RepositoryFactory returning fixed
// mocks; use it with StubTransactionManager in service tests.
type StubRepositoryFactory struct {
	Accounts  *MockAccountRepository
	Orders    *MockOrderRepository
	Bills     *MockBillRepository
	Feedbacks *MockFeedbackRepository
}

func (f *StubRepositoryFactory) AccountRepo() domainrepo.AccountRepository { return f.Accounts }

func (f *StubRepositoryFactory) OrderRepo() domainrepo.OrderRepository { return f.Orders }

func (f *StubRepositoryFactory) BillRepo() domainrepo.BillRepository { return f.Bills }

func (f *StubRepositoryFactory) FeedbackRepo() domainrepo.FeedbackRepository { return f.Feedbacks }

// StubTransactionManager runs the transactional closure directly against
// the stub factory, without any real transaction.
type StubTransactionManager struct {
	Factory *StubRepositoryFactory
}

func (tm *StubTransactionManager) Execute(_ context.Context, fn func(domainrepo.RepositoryFactory) error) error {
	return fn(tm.Factory)
}
