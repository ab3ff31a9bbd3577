package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The store pool is not initialised in unit tests; any store access would
// panic. These tests prove precondition failures return before the first
// store call.

func newTestMessageService() *MessageService {
	return NewMessageService(NewUserService())
}

func TestSendRequiresAuthentication(t *testing.T) {
	svc := newTestMessageService()
	_, err := svc.Send(context.Background(), "", "receiver", "hello", nil)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	svc := newTestMessageService()

	for _, content := range []string{"", "   ", "\n\t  "} {
		_, err := svc.Send(context.Background(), "sender", "receiver", content, nil)
		assert.ErrorIs(t, err, ErrEmptyContent, "content %q", content)
	}
}

func TestSendRequiresReceiver(t *testing.T) {
	svc := newTestMessageService()
	_, err := svc.Send(context.Background(), "sender", "", "hello", nil)
	require.ErrorIs(t, err, ErrMissingReceiver)
}

func TestListConversationsRequiresAuthentication(t *testing.T) {
	svc := newTestMessageService()
	_, err := svc.ListConversations(context.Background(), "")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestConversationMessagesPreconditions(t *testing.T) {
	svc := newTestMessageService()

	_, err := svc.ConversationMessages(context.Background(), "", "other")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.ConversationMessages(context.Background(), "me", "")
	assert.ErrorIs(t, err, ErrMissingReceiver)
}
