package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-service/internal/domain"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the acting identity for a request. Role is computed once
// from the identity claims; RawRole preserves the provider's value for
// logging and display.
type Principal struct {
	UserID  string
	Role    domain.Role
	RawRole string
}

// AuthMiddleware validates bearer tokens and stores the principal.
type AuthMiddleware struct {
	verifier *TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier *TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.verifier.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{
		UserID:  claims.UserID,
		Role:    domain.RoleFromIdentity(claims.Role),
		RawRole: claims.Role,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
