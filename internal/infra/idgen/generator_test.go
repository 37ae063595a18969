package idgen

import (
	"context"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"opsdesk/config"
	"opsdesk/internal/domain/entity"
	domainerrors "opsdesk/internal/domain/errors"
	"opsdesk/internal/errors"
	mockRepo "opsdesk/internal/mocks/repository"
)

func newTestGenerator(t *testing.T, maxAttempts int) (*generator, *mockRepo.MockAccountRepository) {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	cfg := &config.Config{IDGen: &config.IDGenConfig{
		AccountCodeDigits: 4,
		MaxAttempts:       maxAttempts,
	}}

	return NewGenerator(cfg, accountRepo).(*generator), accountRepo
}

func TestGenerateAccountCode_FixedWidthNumeric(t *testing.T) {
	gen, accountRepo := newTestGenerator(t, 5)
	accountRepo.On("CodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()

	code, err := gen.GenerateAccountCode(context.Background())

	require.NoError(t, err)
	require.Len(t, code, 4)

	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1000)
	assert.LessOrEqual(t, n, 9999)
}

func TestGenerateAccountCode_RetriesOnCollision(t *testing.T) {
	gen, accountRepo := newTestGenerator(t, 5)
	accountRepo.On("CodeExists", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Twice()
	accountRepo.On("CodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()

	code, err := gen.GenerateAccountCode(context.Background())

	require.NoError(t, err)
	assert.Len(t, code, 4)
}

func TestGenerateAccountCode_ExhaustedRetries(t *testing.T) {
	gen, accountRepo := newTestGenerator(t, 3)
	accountRepo.On("CodeExists", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Times(3)

	_, err := gen.GenerateAccountCode(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrExhaustedRetries))
}

func TestGenerateOrderNumber_Shape(t *testing.T) {
	gen, _ := newTestGenerator(t, 1)

	sale := gen.GenerateOrderNumber(entity.OrderTypeSale)
	purchase := gen.GenerateOrderNumber(entity.OrderTypePurchase)

	assert.Regexp(t, regexp.MustCompile(`^SO-\d{8}-[0-9A-F]{6}$`), sale)
	assert.Regexp(t, regexp.MustCompile(`^PO-\d{8}-[0-9A-F]{6}$`), purchase)
}

func TestGenerateBillNumber_Shape(t *testing.T) {
	gen, _ := newTestGenerator(t, 1)

	assert.Regexp(t, regexp.MustCompile(`^BILL-\d{8}-[0-9A-F]{6}$`), gen.GenerateBillNumber())
}

func TestGeneratedNumbers_AreNotRepeating(t *testing.T) {
	gen, _ := newTestGenerator(t, 1)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		n := gen.GenerateBillNumber()
		_, dup := seen[n]
		require.False(t, dup, "duplicate bill number %s", n)
		seen[n] = struct{}{}
	}
}
