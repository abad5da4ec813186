package middleware

import (
	"strings"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// KeyIdentity is the echo.Context key holding the authenticated identity.
const KeyIdentity = "identity"

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and stores the caller's
// identity on the context. A missing or non-Bearer header is reported
// separately from a token that fails validation.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrNoToken.WrapMessage("authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrNoToken.WrapMessage("authorization header is not a bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return err
		}

		c.Set(KeyIdentity, &entity.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the caller holds one of
// the allowed roles. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(allowed ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := IdentityFromContext(c)
			if err != nil {
				return err
			}

			if !entity.Roles(allowed).Contains(identity.Role) {
				return domainerrors.ErrForbidden.WrapMessage("caller role is not permitted")
			}

			return next(c)
		}
	}
}

// IdentityFromContext returns the identity stored by Authenticate.
func IdentityFromContext(c echo.Context) (*entity.Identity, error) {
	identity, ok := c.Get(KeyIdentity).(*entity.Identity)
	if !ok || identity == nil {
		return nil, domainerrors.ErrInvalidToken.WrapMessage("identity missing from context")
	}

	return identity, nil
}
