// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using
// the JWT standard. Each token class has its own secret and TTL; the expiry is
// embedded in the signed payload so access-token verification needs no lookup.
type jwtService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// tokenClaims is the wire shape of both token classes. Refresh tokens leave
// Email and Role empty; the registered subject carries the account id.
type tokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTService is the constructor for jwtService. It refuses to start with a
// missing secret for either token class.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     cfg.Auth.AccessTokenTTL,
		refreshTTL:    cfg.Auth.RefreshTokenTTL,
	}, nil
}

// GenerateAccessToken creates a short-lived signed credential embedding the
// account id, email and role.
func (s *jwtService) GenerateAccessToken(userID uuid.UUID, email string, role entity.Role) (string, error) {
	return s.sign(&tokenClaims{
		Email:            email,
		Role:             role.String(),
		RegisteredClaims: registeredClaims(userID, s.accessTTL),
	}, s.accessSecret)
}

// GenerateRefreshToken creates a long-lived signed credential embedding the
// account id only.
func (s *jwtService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(&tokenClaims{
		RegisteredClaims: registeredClaims(userID, s.refreshTTL),
	}, s.refreshSecret)
}

// ValidateAccessToken checks signature and expiry against the access-token secret.
func (s *jwtService) ValidateAccessToken(token string) (*service.Claims, error) {
	return s.validate(token, s.accessSecret)
}

// ValidateRefreshToken checks signature and expiry against the refresh-token secret.
func (s *jwtService) ValidateRefreshToken(token string) (*service.Claims, error) {
	return s.validate(token, s.refreshSecret)
}

func (s *jwtService) sign(claims *tokenClaims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// validate collapses every failure mode (malformed, bad signature, expired,
// unparseable subject) into ErrInvalidToken so callers cannot leak which
// cryptographic check failed.
func (s *jwtService) validate(tokenString string, secret []byte) (*service.Claims, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("token verification failed")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("token subject is not an account id")
	}

	return &service.Claims{
		UserID: userID,
		Email:  claims.Email,
		Role:   entity.Role(claims.Role),
	}, nil
}

func registeredClaims(userID uuid.UUID, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()

	return jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}
