package handlers

import (
	"helphub-backend/internal/models"
	"helphub-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// AuthMiddleware verifies the JWT token and stores the caller identity in
// locals. Accepts either an Authorization bearer header or an access_token
// query param (the latter for websocket upgrades).
func AuthMiddleware(c *fiber.Ctx) error {
	token := c.Query("access_token")
	if token == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}

	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
	}

	claims, err := services.ValidateToken(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	uid, ok := claims["user_id"].(string)
	if !ok || uid == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	c.Locals("user_id", uid)

	if email, ok := claims["email"].(string); ok {
		c.Locals("email", email)
	}

	return c.Next()
}

// OptionalAuthMiddleware resolves the caller identity when a valid token is
// present and continues anonymously otherwise. Used on routes whose response
// degrades by visibility tier instead of rejecting unauthenticated viewers.
func OptionalAuthMiddleware(c *fiber.Ctx) error {
	token := c.Query("access_token")
	if token == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}
	if token == "" {
		return c.Next()
	}

	if claims, err := services.ValidateToken(token); err == nil {
		if uid, ok := claims["user_id"].(string); ok && uid != "" {
			c.Locals("user_id", uid)
		}
	}
	return c.Next()
}

// AdminMiddleware gates a route group on the admin role.
func AdminMiddleware(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		isAdmin, err := users.HasRole(c.Context(), userID, models.RoleAdmin)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "role check failed"})
		}
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
		}
		return c.Next()
	}
}

// WSUpgradeMiddleware upgrades the connection to WebSocket
func WSUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
