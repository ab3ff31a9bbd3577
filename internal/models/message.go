package models

import "time"

// Message is a direct message between two users. Rows are immutable except
// for IsRead, which only ever transitions false -> true.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	RequestID  *string   `json:"request_id"`
	IsRead     *bool     `json:"is_read"` // tri-state: true/false/unknown
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation is a derived per-counterpart summary. It is never persisted;
// it is recomputed in full on every fetch.
type Conversation struct {
	ID              string    `json:"id"`
	OtherUserID     string    `json:"other_user_id"`
	OtherUserName   string    `json:"other_user_name"`
	OtherUserAvatar *string   `json:"other_user_avatar"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	IsRead          *bool     `json:"is_read"`
	UnreadCount     int       `json:"unread_count"`
	RequestID       *string   `json:"request_id"`
}

type SendMessageRequest struct {
	ReceiverID string  `json:"receiver_id"`
	Content    string  `json:"content"`
	RequestID  *string `json:"request_id"`
}
