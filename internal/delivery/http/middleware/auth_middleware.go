// Package middleware contains the HTTP cross-cutting concerns: token
// authentication, role gating and error rendering.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	deliverycontext "sharegarden/internal/delivery/context"
	domainerrors "sharegarden/internal/domain/errors"
	"sharegarden/internal/domain/service"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the Bearer access token and stores the verified
// principal on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		principal, err := m.tokenSvc.VerifyAccess(token)
		if err != nil {
			return err
		}

		deliverycontext.SetPrincipal(c, principal)

		return next(c)
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// It must be used after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal := deliverycontext.GetPrincipal(c)
		if principal == nil {
			return domainerrors.ErrUnauthorized
		}
		if !principal.IsAdmin() {
			return domainerrors.ErrForbidden
		}

		return next(c)
	}
}

// RefreshSubject verifies the Bearer refresh token on the request and
// returns the subject's user id.
func (m *AuthMiddleware) RefreshSubject(c echo.Context) (uint, error) {
	token, err := bearerToken(c)
	if err != nil {
		return 0, err
	}

	return m.tokenSvc.VerifyRefresh(token)
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", domainerrors.ErrUnauthorized
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", domainerrors.ErrTokenInvalid.WithDetails("authorization header must be a Bearer token")
	}

	return token, nil
}
