package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feedback-service/internal/domain"
	apperrors "github.com/spec-kit/feedback-service/pkg/util"
)

// RequireClient ensures the caller holds the client role.
func RequireClient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != domain.RoleClient {
			return apperrors.NewForbidden("client role required")
		}
		return c.Next()
	}
}

// RequireStaff ensures the caller holds any staff role.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role != domain.RoleStaff {
			return apperrors.NewForbidden("staff role required")
		}
		return c.Next()
	}
}
