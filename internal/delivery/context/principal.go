// Package context carries request-scoped values between middleware and
// handlers without stringly-typed lookups spread over the codebase.
package context

import (
	"github.com/labstack/echo/v4"

	"sharegarden/internal/domain/service"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// KeyPrincipal is the key the auth middleware stores the verified
// caller under.
const KeyPrincipal ContextKey = "principal"

// SetPrincipal stores the authenticated principal on the request context.
func SetPrincipal(c echo.Context, p *service.Principal) {
	c.Set(string(KeyPrincipal), p)
}

// GetPrincipal returns the authenticated principal, or nil when the
// request did not pass the auth middleware.
func GetPrincipal(c echo.Context) *service.Principal {
	if p, ok := c.Get(string(KeyPrincipal)).(*service.Principal); ok {
		return p
	}

	return nil
}
