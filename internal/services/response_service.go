package services

import (
	"context"
	"errors"
	"time"

	"helphub-backend/internal/db"
	"helphub-backend/internal/models"
	"helphub-backend/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingSeeker    = errors.New("seeker id required")
	ErrAlreadyResponded = errors.New("already responded to this request")
)

// profileFanoutLimit bounds the concurrent profile lookups when listing
// responses.
const profileFanoutLimit = 4

// BestEffort reports the eventual outcome of a non-transactional follow-up
// write. Callers may Wait on it or ignore it entirely; the operation's
// failure is logged either way and never rolls back its parent.
type BestEffort <-chan error

// Wait blocks until the side effect settles and returns its error, if any.
func (b BestEffort) Wait() error {
	return <-b
}

type ResponseService struct {
	users    *UserService
	messages *MessageService
}

func NewResponseService(users *UserService, messages *MessageService) *ResponseService {
	return &ResponseService{users: users, messages: messages}
}

// Create records an offer to help. The seeker (request owner) identity must
// be supplied; its absence fails locally with no store round-trip. On
// success, a direct message from helper to seeker carrying the same text is
// inserted best-effort to seed the conversation — the response is the system
// of record, the message is a convenience that may be silently lost.
func (s *ResponseService) Create(ctx context.Context, requestID, helperID, message, seekerID string) (*models.HelpResponse, BestEffort, error) {
	if helperID == "" {
		return nil, nil, ErrNotAuthenticated
	}
	if seekerID == "" {
		return nil, nil, ErrMissingSeeker
	}

	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM help_responses WHERE request_id = $1 AND helper_id = $2)`,
		requestID, helperID).Scan(&exists)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrAlreadyResponded
	}

	resp := models.HelpResponse{
		ID:        uuid.New().String(),
		RequestID: requestID,
		HelperID:  helperID,
		Message:   message,
		Status:    "pending",
	}
	query := `INSERT INTO help_responses (id, request_id, helper_id, message, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	if err := db.Pool.QueryRow(ctx, query, resp.ID, resp.RequestID, resp.HelperID, resp.Message, resp.Status).
		Scan(&resp.CreatedAt, &resp.UpdatedAt); err != nil {
		return nil, nil, err
	}

	bridge := make(chan error, 1)
	go func() {
		bctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := s.messages.Send(bctx, helperID, seekerID, message, &requestID)
		utils.LogError(err, "ResponseMessageBridge")
		bridge <- err
		close(bridge)
	}()

	return &resp, bridge, nil
}

// ListForRequest returns a request's responses oldest first, each with its
// helper's public profile resolved via a bounded concurrent fan-out awaited
// together. Profile lookup failures leave the profile nil.
func (s *ResponseService) ListForRequest(ctx context.Context, requestID string) ([]models.HelpResponse, error) {
	query := `SELECT id, request_id, helper_id, message, status, created_at, updated_at
		FROM help_responses WHERE request_id = $1 ORDER BY created_at ASC`
	rows, err := db.Pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resps []models.HelpResponse
	for rows.Next() {
		var r models.HelpResponse
		if err := rows.Scan(&r.ID, &r.RequestID, &r.HelperID, &r.Message, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		resps = append(resps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFanoutLimit)
	for i := range resps {
		i := i
		g.Go(func() error {
			profile, err := s.users.PublicProfile(gctx, resps[i].HelperID)
			if err != nil {
				utils.LogError(err, "HelperProfile")
				return nil
			}
			resps[i].Profile = profile
			return nil
		})
	}
	_ = g.Wait()

	return resps, nil
}
