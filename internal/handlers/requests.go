package handlers

import (
	"errors"
	"net/http"

	"helphub-backend/internal/models"
	"helphub-backend/internal/services"
	"helphub-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ListRequestsHandler serves public browsing with optional filters. Failures
// degrade to an empty list plus a notification note.
func ListRequestsHandler(requests *services.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters := models.RequestFilters{
			Category: c.Query("category"),
			Status:   c.Query("status"),
			Urgency:  c.Query("urgency"),
			City:     c.Query("city"),
		}

		reqs, err := requests.ListPublic(c.Context(), filters)
		if err != nil {
			utils.LogError(err, "ListRequests")
			return c.JSON(fiber.Map{
				"requests": []models.HelpRequest{},
				"error":    "Failed to fetch help requests",
			})
		}
		if reqs == nil {
			reqs = []models.HelpRequest{}
		}
		return c.JSON(fiber.Map{"requests": reqs})
	}
}

// ListMyRequestsHandler returns the caller's own requests, full projection.
func ListMyRequestsHandler(requests *services.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		reqs, err := requests.ListMine(c.Context(), userID)
		if err != nil {
			utils.LogError(err, "ListMyRequests")
			return c.JSON(fiber.Map{
				"requests": []models.HelpRequest{},
				"error":    "Failed to fetch your requests",
			})
		}
		if reqs == nil {
			reqs = []models.HelpRequest{}
		}
		return c.JSON(fiber.Map{"requests": reqs})
	}
}

// GetRequestHandler resolves the projection the viewer is entitled to. A 404
// means the request is genuinely gone; a denied full projection silently
// falls back to the public one.
func GetRequestHandler(requests *services.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewerID, _ := c.Locals("user_id").(string)
		requestID := c.Params("id")

		req, err := requests.GetForViewer(c.Context(), requestID, viewerID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
			}
			utils.LogError(err, "GetRequest")
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch request"})
		}
		return c.JSON(req)
	}
}

// CreateRequestHandler posts a new help request for the caller.
func CreateRequestHandler(requests *services.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var input models.CreateRequestInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}

		req, err := requests.Create(c.Context(), userID, input)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCategory), errors.Is(err, services.ErrInvalidUrgency):
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			default:
				utils.LogError(err, "CreateRequest")
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create help request"})
			}
		}
		return c.Status(http.StatusCreated).JSON(req)
	}
}

// UpdateRequestStatusHandler lets an owner move a request through its
// lifecycle.
func UpdateRequestStatusHandler(requests *services.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		requestID := c.Params("id")

		var body struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}

		if err := requests.UpdateStatus(c.Context(), requestID, userID, body.Status); err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidStatus):
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrNotFound):
				return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
			default:
				utils.LogError(err, "UpdateRequestStatus")
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update request status"})
			}
		}
		return c.JSON(fiber.Map{"status": body.Status})
	}
}
