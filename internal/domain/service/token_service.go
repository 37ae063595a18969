package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by the JWT tokens.
type Claims struct {
	AccountID uuid.UUID
	Role      string
	Type      string // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for an account.
	GenerateTokens(accountID uuid.UUID, role string) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks the validity of an access token string.
	ValidateAccessToken(tokenString string) (*Claims, error)
}
