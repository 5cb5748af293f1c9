package middleware

import (
	"context"
	"strings"

	"farmlink-backend/internal/domain"
	"farmlink-backend/internal/identity"
	"farmlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// UserLoader resolves a verified identity id to the local user row.
type UserLoader interface {
	FindByIdentityID(ctx context.Context, identityID string) (*domain.User, error)
}

// Protect verifies the bearer token with the identity provider and puts the
// local user in Locals. 401 when the token is missing or rejected.
func Protect(verifier identity.Client, users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return response.Error(c, fiber.StatusUnauthorized, "Not authorized, no token")
		}
		token := strings.TrimPrefix(header, "Bearer ")

		identityID, err := verifier.VerifyToken(c.Context(), token)
		if err != nil {
			return response.Error(c, fiber.StatusUnauthorized, "Not authorized, token failed")
		}
		user, err := users.FindByIdentityID(c.Context(), identityID)
		if err != nil {
			return response.Error(c, fiber.StatusUnauthorized, "Not authorized, user not found")
		}
		c.Locals(userLocal, user)
		return c.Next()
	}
}

// Admin requires the session user to have the admin role.
func Admin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil || u.Role != domain.RoleAdmin {
			return response.Error(c, fiber.StatusForbidden, "Not authorized as an admin")
		}
		return c.Next()
	}
}

// Farmer requires the farmer role (admins pass too).
func Farmer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil || (u.Role != domain.RoleFarmer && u.Role != domain.RoleAdmin) {
			return response.Error(c, fiber.StatusForbidden, "Not authorized as a farmer")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user from Locals (nil if none).
func CurrentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(userLocal).(*domain.User)
	return u
}

// SetCurrentUser is used by tests to inject an authenticated user.
func SetCurrentUser(c *fiber.Ctx, u *domain.User) {
	c.Locals(userLocal, u)
}
