package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"quickbite/internal/services"
)

// Principal is the authenticated identity attached to a request. Handlers
// express access rules against it instead of re-parsing token claims.
type Principal struct {
	ID    string
	Email string
	Role  string
}

const principalKey = "principal"

// PrincipalFrom returns the principal stored by AuthRequired. The zero value
// means the route was not behind the auth middleware.
func PrincipalFrom(c *fiber.Ctx) Principal {
	p, _ := c.Locals(principalKey).(Principal)
	return p
}

// AuthRequired validates the bearer token and stores a typed Principal in
// the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header is required",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		id, _ := claims["user_id"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		c.Locals(principalKey, Principal{ID: id, Email: email, Role: role})

		return c.Next()
	}
}

// RoleRequired rejects requests whose principal holds none of the given
// roles. Must run after AuthRequired.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFrom(c)
		for _, role := range roles {
			if p.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Insufficient role for this endpoint",
		})
	}
}
