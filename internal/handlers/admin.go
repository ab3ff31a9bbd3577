package handlers

import (
	"errors"
	"net/http"

	"helphub-backend/internal/services"
	"helphub-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminStatsHandler returns platform-wide aggregate counts.
func AdminStatsHandler(admin *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := admin.Stats(c.Context())
		if err != nil {
			utils.LogError(err, "AdminStats")
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load stats"})
		}
		return c.JSON(stats)
	}
}

// AdminListUsersHandler lists every account with profile details.
func AdminListUsersHandler(admin *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := admin.ListUsers(c.Context())
		if err != nil {
			utils.LogError(err, "AdminListUsers")
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load users"})
		}
		return c.JSON(fiber.Map{"users": users})
	}
}

// AdminListRequestsHandler lists all requests in the full projection.
func AdminListRequestsHandler(admin *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqs, err := admin.ListRequests(c.Context())
		if err != nil {
			utils.LogError(err, "AdminListRequests")
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load requests"})
		}
		return c.JSON(fiber.Map{"requests": reqs})
	}
}

// AdminVerifyRequestHandler flips the verification flag on a request.
func AdminVerifyRequestHandler(requests *services.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Params("id")

		var body struct {
			Verified bool `json:"verified"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}

		if err := requests.SetVerified(c.Context(), requestID, body.Verified); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
			}
			utils.LogError(err, "AdminVerifyRequest")
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update request"})
		}
		return c.JSON(fiber.Map{"verified": body.Verified})
	}
}
