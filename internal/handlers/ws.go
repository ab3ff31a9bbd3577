package handlers

import (
	"context"
	"log"
	"time"

	"helphub-backend/internal/conversation"
	"helphub-backend/internal/models"
	"helphub-backend/internal/notify"
	"helphub-backend/internal/services"
	"helphub-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type wsEvent struct {
	Event string `json:"event"`
}

// WebSocketHandler registers the connection as a notification subscription
// for the authenticated user and serves conversation-list refreshes on
// demand. The subscription is closed on disconnect; Close is idempotent so
// the deferred teardown is safe no matter how the loop exits.
func WebSocketHandler(hub *notify.Hub, messages *services.MessageService) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID := c.Locals("user_id").(string)
		connID := uuid.New().String()

		sub := hub.Subscribe(userID, connID, c)
		defer sub.Close()

		// Each connection gets its own guard: overlapping list refreshes
		// race, and only the most recently issued one may be delivered.
		var guard conversation.Guard

		utils.LogError(sub.Send(map[string]string{
			"event": "connected",
		}), "WSWelcome")

		for {
			msgType, msg, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("error: %v", err)
				}
				break
			}
			if msgType != websocket.TextMessage {
				continue
			}

			var event wsEvent
			if err := utils.SafeJSONParse(msg, &event); err != nil {
				utils.LogError(err, "WSParse")
				continue
			}

			switch event.Event {
			case "list":
				go pushConversations(sub, &guard, messages, userID)
			default:
				log.Printf("Unknown event: %s", event.Event)
			}
		}
	})
}

// pushConversations fetches the caller's conversation list and delivers it
// unless a newer refresh was issued while this one was in flight. Failures
// degrade to an empty list with an error note, matching the HTTP read path.
func pushConversations(sub *notify.Subscription, guard *conversation.Guard, messages *services.MessageService, userID string) {
	seq := guard.Begin()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	convs, err := messages.ListConversations(ctx, userID)
	if err != nil {
		utils.LogError(err, "WSListConversations")
		convs = nil
	}
	if convs == nil {
		convs = []models.Conversation{}
	}

	if !guard.Commit(seq) {
		// A newer fetch owns the view now; this result is stale.
		return
	}

	payload := map[string]interface{}{
		"event":         "conversations",
		"conversations": convs,
	}
	if err != nil {
		payload["error"] = "Failed to load conversations"
	}
	utils.LogError(sub.Send(payload), "WSPushConversations")
}
