package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"helphub-backend/internal/models"
	"helphub-backend/internal/notify"
	"helphub-backend/internal/services"
	"helphub-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ListResponsesHandler returns a request's responses with helper profiles.
func ListResponsesHandler(responses *services.ResponseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Params("id")

		resps, err := responses.ListForRequest(c.Context(), requestID)
		if err != nil {
			utils.LogError(err, "ListResponses")
			return c.JSON(fiber.Map{
				"responses": []models.HelpResponse{},
				"error":     "Failed to load responses",
			})
		}
		if resps == nil {
			resps = []models.HelpResponse{}
		}
		return c.JSON(fiber.Map{"responses": resps})
	}
}

// CreateResponseHandler records an offer to help. The conversation-seeding
// message is best-effort and not awaited here; the realtime notification to
// the request owner runs detached as well.
func CreateResponseHandler(responses *services.ResponseService, requests *services.RequestService, users *services.UserService, hub *notify.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req models.CreateResponseRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}

		resp, _, err := responses.Create(c.Context(), req.RequestID, userID, req.Message, req.SeekerID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingSeeker):
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrAlreadyResponded):
				return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrNotAuthenticated):
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			default:
				utils.LogError(err, "CreateResponse")
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit your response"})
			}
		}

		go notifyNewResponse(requests, users, hub, resp)

		return c.Status(http.StatusCreated).JSON(resp)
	}
}

// notifyNewResponse pushes a realtime event to the request owner when
// someone offers to help. Lookup failures only downgrade the payload.
func notifyNewResponse(requests *services.RequestService, users *services.UserService, hub *notify.Hub, resp *models.HelpResponse) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The helper has just responded, so the full projection is visible to
	// them; this also yields the owner identity and title for the event.
	req, err := requests.GetForViewer(ctx, resp.RequestID, resp.HelperID)
	if err != nil {
		utils.LogError(err, "NotifyNewResponse")
		return
	}

	helperName := "Someone"
	if profile, err := users.PublicProfile(ctx, resp.HelperID); err == nil && profile.FullName != "" {
		helperName = profile.FullName
	}

	hub.Publish(req.UserID, fiber.Map{
		"event":         "new_response",
		"request_id":    req.ID,
		"request_title": req.Title,
		"helper_id":     resp.HelperID,
		"helper_name":   helperName,
	})
}
