package handlers

import (
	"errors"
	"net/http"

	"helphub-backend/internal/models"
	"helphub-backend/internal/notify"
	"helphub-backend/internal/services"
	"helphub-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ListConversationsHandler returns the caller's conversation summaries. A
// store failure degrades to an empty list plus an error note rather than a
// hard failure; the client shows a notification and keeps its previous state.
func ListConversationsHandler(messages *services.MessageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		convs, err := messages.ListConversations(c.Context(), userID)
		if err != nil {
			utils.LogError(err, "ListConversations")
			return c.JSON(fiber.Map{
				"conversations": []models.Conversation{},
				"error":         "Failed to load conversations",
			})
		}
		if convs == nil {
			convs = []models.Conversation{}
		}
		return c.JSON(fiber.Map{"conversations": convs})
	}
}

// GetConversationHandler returns the message history with one counterpart,
// marking fetched messages as read as a side effect.
func GetConversationHandler(messages *services.MessageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		otherID := c.Params("other_user_id")

		msgs, err := messages.ConversationMessages(c.Context(), userID, otherID)
		if err != nil {
			if errors.Is(err, services.ErrMissingReceiver) {
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			utils.LogError(err, "ConversationMessages")
			return c.JSON(fiber.Map{
				"messages": []models.Message{},
				"error":    "Failed to load messages",
			})
		}
		if msgs == nil {
			msgs = []models.Message{}
		}
		return c.JSON(fiber.Map{"messages": msgs})
	}
}

// SendMessageHandler inserts one message and notifies the receiver if they
// are connected.
func SendMessageHandler(messages *services.MessageService, hub *notify.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req models.SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}

		msg, err := messages.Send(c.Context(), userID, req.ReceiverID, req.Content, req.RequestID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyContent), errors.Is(err, services.ErrMissingReceiver):
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrNotAuthenticated):
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			default:
				utils.LogError(err, "SendMessage")
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
			}
		}

		hub.Publish(msg.ReceiverID, fiber.Map{
			"event":     "new_message",
			"message":   msg,
			"sender_id": userID,
		})

		return c.Status(http.StatusCreated).JSON(msg)
	}
}
