package services

import (
	"context"
	"errors"
	"strings"

	"helphub-backend/internal/conversation"
	"helphub-backend/internal/db"
	"helphub-backend/internal/models"
	"helphub-backend/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyContent     = errors.New("message cannot be empty")
	ErrMissingReceiver  = errors.New("receiver id required")
)

type MessageService struct {
	users *UserService
}

func NewMessageService(users *UserService) *MessageService {
	return &MessageService{users: users}
}

// Send inserts one message. Preconditions are checked locally before any
// store call; there is a single attempt and no retry.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, content string, requestID *string) (*models.Message, error) {
	if senderID == "" {
		return nil, ErrNotAuthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if receiverID == "" {
		return nil, ErrMissingReceiver
	}

	unread := false
	msg := models.Message{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		RequestID:  requestID,
		IsRead:     &unread,
	}
	query := `INSERT INTO messages (id, sender_id, receiver_id, content, request_id, is_read)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err := db.Pool.QueryRow(ctx, query, msg.ID, msg.SenderID, msg.ReceiverID, msg.Content, msg.RequestID, msg.IsRead).
		Scan(&msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListConversations recomputes the caller's conversation list from scratch:
// every message touching the user, newest first, partitioned by counterpart.
// Counterpart profiles are resolved one lookup per partition.
func (s *MessageService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	query := `SELECT id, sender_id, receiver_id, content, request_id, is_read, created_at
		FROM messages WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC`
	msgs, err := s.queryMessages(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	return conversation.Summaries(ctx, userID, msgs, s.users.PublicProfile), nil
}

// ConversationMessages returns the messages between exactly userID and
// otherID, oldest first, and marks the fetched unread ones addressed to
// userID as read. The store filter is a union over the two participants, so
// an exact-pair pass runs on the result before anything else.
func (s *MessageService) ConversationMessages(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if otherID == "" {
		return nil, ErrMissingReceiver
	}

	participants := []string{userID, otherID}
	query := `SELECT id, sender_id, receiver_id, content, request_id, is_read, created_at
		FROM messages WHERE sender_id = ANY($1) OR receiver_id = ANY($1)
		ORDER BY created_at ASC`
	msgs, err := s.queryMessages(ctx, query, participants)
	if err != nil {
		return nil, err
	}

	msgs = conversation.FilterPair(userID, otherID, msgs)

	// Batched read-flag update. A failure here is logged but must not block
	// message display; read state degrades to eventually consistent.
	if ids := conversation.UnreadIDs(userID, msgs); len(ids) > 0 {
		_, err := db.Pool.Exec(ctx, `UPDATE messages SET is_read = TRUE WHERE id = ANY($1)`, ids)
		utils.LogError(err, "MarkMessagesRead")
	}

	return msgs, nil
}

func (s *MessageService) queryMessages(ctx context.Context, query string, args ...interface{}) ([]models.Message, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.RequestID, &msg.IsRead, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
