package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponseService() *ResponseService {
	users := NewUserService()
	return NewResponseService(users, NewMessageService(users))
}

func TestCreateResponseRequiresAuthentication(t *testing.T) {
	svc := newTestResponseService()
	_, _, err := svc.Create(context.Background(), "req-1", "", "I can help", "seeker-1")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

// A missing seeker identity fails locally: no response row is attempted and
// no bridge message is spawned.
func TestCreateResponseRequiresSeeker(t *testing.T) {
	svc := newTestResponseService()
	resp, bridge, err := svc.Create(context.Background(), "req-1", "helper-1", "I can help", "")
	require.ErrorIs(t, err, ErrMissingSeeker)
	assert.Nil(t, resp)
	assert.Nil(t, bridge)
}

func TestBestEffortWait(t *testing.T) {
	settled := make(chan error, 1)
	settled <- nil
	close(settled)
	assert.NoError(t, BestEffort(settled).Wait())

	failed := make(chan error, 1)
	failed <- errors.New("bridge write failed")
	close(failed)
	assert.Error(t, BestEffort(failed).Wait())
}
