package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/config"
)

func newTestHasher() *bcryptHasher {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}} // min cost keeps tests fast

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := newTestHasher()

	hash, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, hasher.Check("s3cret-password", hash))
	assert.False(t, hasher.Check("wrong-password", hash))
}

func TestBcryptHasher_HashesAreSalted(t *testing.T) {
	hasher := newTestHasher()

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewBcryptHasher_FallsBackToDefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{}).(*bcryptHasher)

	assert.Equal(t, 10, hasher.cost) // bcrypt.DefaultCost
}
