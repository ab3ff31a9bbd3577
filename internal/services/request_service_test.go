package services

import (
	"context"
	"testing"

	"helphub-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequestService() *RequestService {
	return NewRequestService(NewUserService())
}

func TestCreateRequestPreconditions(t *testing.T) {
	svc := newTestRequestService()
	input := models.CreateRequestInput{
		Category:    "medical_assistance",
		Title:       "Need a ride to the clinic",
		Description: "Weekly appointment, no car",
		Urgency:     models.UrgencyNormal,
	}

	_, err := svc.Create(context.Background(), "", input)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	bad := input
	bad.Category = "gardening"
	_, err = svc.Create(context.Background(), "u1", bad)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	bad = input
	bad.Urgency = "low"
	_, err = svc.Create(context.Background(), "u1", bad)
	assert.ErrorIs(t, err, ErrInvalidUrgency)
}

func TestUpdateStatusPreconditions(t *testing.T) {
	svc := newTestRequestService()

	err := svc.UpdateStatus(context.Background(), "req-1", "", models.StatusResolved)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	err = svc.UpdateStatus(context.Background(), "req-1", "u1", "done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// The public projection must carry contact_phone as nil even if the
// underlying row holds a value.
func TestForcePublicProjection(t *testing.T) {
	phone := "+1-555-0100"
	req := &models.HelpRequest{ID: "req-1", ContactPhone: &phone}

	forcePublicProjection(req)
	require.Nil(t, req.ContactPhone)
}
