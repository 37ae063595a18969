// Package idgen implements human-facing identifier generation: numeric
// account codes and prefixed order/bill numbers.
package idgen

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/pkg/errors"

	"opsdesk/config"
	"opsdesk/internal/domain/entity"
	domainerrors "opsdesk/internal/domain/errors"
	"opsdesk/internal/domain/repository"
	"opsdesk/internal/domain/service"
)

const (
	billNumberPrefix          = "BILL"
	saleOrderNumberPrefix     = "SO"
	purchaseOrderNumberPrefix = "PO"
	numberDateLayout          = "20060102"
	numberRandomBytes         = 3 // 6 hex characters
)

// generator implements service.IdentifierGenerator.
//
// Account codes are checked against existing accounts before being handed
// out; this check-then-act sequence is racy under concurrency, so the
// accounts table additionally carries a unique index on the code and
// callers retry on a duplicate-key violation. Order and bill numbers skip
// the pre-check entirely and rely on the date+random shape plus the same
// unique-index-with-retry discipline.
type generator struct {
	accountRepo repository.AccountRepository
	digits      int
	maxAttempts int
}

// NewGenerator is the constructor for generator.
func NewGenerator(cfg *config.Config, accountRepo repository.AccountRepository) service.IdentifierGenerator {
	return &generator{
		accountRepo: accountRepo,
		digits:      cfg.IDGen.AccountCodeDigits,
		maxAttempts: cfg.IDGen.MaxAttempts,
	}
}

// GenerateAccountCode returns a fixed-width numeric code not currently
// assigned to any account.
func (g *generator) GenerateAccountCode(ctx context.Context) (string, error) {
	// For 4 digits the range is [1000, 9999]: no leading zeros, so the
	// code survives being handled as a number by spreadsheets and humans.
	low := pow10(g.digits - 1)
	span := pow10(g.digits) - low

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", errors.Wrap(err, "failed to read random source")
		}
		code := fmt.Sprintf("%d", low+n.Int64())

		exists, err := g.accountRepo.CodeExists(ctx, code)
		if err != nil {
			return "", errors.Wrap(err, "failed to check account code collision")
		}
		if !exists {
			return code, nil
		}
	}

	return "", domainerrors.ErrExhaustedRetries.WrapMessage(
		fmt.Sprintf("no free account code after %d attempts", g.maxAttempts))
}

// GenerateOrderNumber returns a new order number such as "SO-20260901-4F2A1C".
func (g *generator) GenerateOrderNumber(kind entity.OrderType) string {
	prefix := saleOrderNumberPrefix
	if kind == entity.OrderTypePurchase {
		prefix = purchaseOrderNumberPrefix
	}

	return composeNumber(prefix)
}

// GenerateBillNumber returns a new bill number such as "BILL-20260901-9D03B7".
func (g *generator) GenerateBillNumber() string {
	return composeNumber(billNumberPrefix)
}

// composeNumber builds "<prefix>-<yyyymmdd>-<random hex>". The value is
// probably unique, not guaranteed unique: persistence enforces uniqueness.
func composeNumber(prefix string) string {
	buf := make([]byte, numberRandomBytes)
	// rand.Read on crypto/rand never returns an error on supported platforms.
	_, _ = rand.Read(buf)

	return prefix + "-" + time.Now().UTC().Format(numberDateLayout) + "-" +
		strings.ToUpper(hex.EncodeToString(buf))
}

func pow10(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 10
	}

	return result
}
