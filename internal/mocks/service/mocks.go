// Package service provides testify-based test doubles for the domain
// service interfaces.
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"opsdesk/internal/domain/entity"
	domainsvc "opsdesk/internal/domain/service"
)

// MockPasswordHasher is a mock implementation of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateTokens(accountID uuid.UUID, role string) (string, string, error) {
	args := m.Called(accountID, role)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*domainsvc.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domainsvc.Claims), args.Error(1)
}

// MockIdentifierGenerator is a mock implementation of service.IdentifierGenerator.
type MockIdentifierGenerator struct {
	mock.Mock
}

func NewMockIdentifierGenerator(t *testing.T) *MockIdentifierGenerator {
	m := &MockIdentifierGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockIdentifierGenerator) GenerateAccountCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1)
}

func (m *MockIdentifierGenerator) GenerateOrderNumber(kind entity.OrderType) string {
	return m.Called(kind).String(0)
}

func (m *MockIdentifierGenerator) GenerateBillNumber() string {
	return m.Called().String(0)
}

// MockQRCodeService is a mock implementation of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

func NewMockQRCodeService(t *testing.T) *MockQRCodeService {
	m := &MockQRCodeService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQRCodeService) GeneratePaymentQR(bill *entity.Bill) ([]byte, error) {
	args := m.Called(bill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}
