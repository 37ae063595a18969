package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"opsdesk/config"
	"opsdesk/internal/domain/service"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  string        // Secret key for signing access tokens.
	refreshSecret string        // Secret key for signing refresh tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
}

// jwtClaims is the wire representation of service.Claims.
type jwtClaims struct {
	Role string `json:"role,omitempty"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		accessTTL:     time.Minute * 15,
		refreshTTL:    time.Hour * 24 * 7,
	}, nil
}

// GenerateTokens creates a new access token and refresh token for a given account and role.
func (s *jwtService) GenerateTokens(accountID uuid.UUID, role string) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.generateToken(accountID, role, s.accessTTL, s.accessSecret, tokenTypeAccess)
	if err != nil {
		return "", "", err
	}

	// The refresh token carries no role: it is only exchanged, never used
	// for authorization directly.
	refreshToken, err = s.generateToken(accountID, "", s.refreshTTL, s.refreshSecret, tokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateAccessToken checks the validity of an access token string and
// returns its claims.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	var claims jwtClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.accessSecret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse access token")
	}
	if !token.Valid || claims.Type != tokenTypeAccess {
		return nil, errors.New("invalid access token")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject in access token")
	}

	return &service.Claims{
		AccountID:        accountID,
		Role:             claims.Role,
		Type:             claims.Type,
		RegisteredClaims: claims.RegisteredClaims,
	}, nil
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(accountID uuid.UUID, role string, ttl time.Duration, secret, tokenType string) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Role: role,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}
