package services

import (
	"context"
	"errors"
	"fmt"

	"helphub-backend/internal/db"
	"helphub-backend/internal/models"
	"helphub-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound        = errors.New("request not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidUrgency  = errors.New("invalid urgency")
	ErrInvalidStatus   = errors.New("invalid status")
)

const requestColumns = `id, user_id, category, title, description, urgency, status,
	city, location, contact_phone, image_url, additional_info, is_verified, created_at, updated_at`

// publicRequestColumns carries a NULL in the contact_phone position; the
// public projection never exposes it.
const publicRequestColumns = `id, user_id, category, title, description, urgency, status,
	city, location, NULL::text, image_url, additional_info, is_verified, created_at, updated_at`

type RequestService struct {
	users *UserService
}

func NewRequestService(users *UserService) *RequestService {
	return &RequestService{users: users}
}

// Create inserts a help request for userID. AdditionalInfo defaults to an
// empty object and status to open.
func (s *RequestService) Create(ctx context.Context, userID string, input models.CreateRequestInput) (*models.HelpRequest, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if !models.ValidCategory(input.Category) {
		return nil, ErrInvalidCategory
	}
	if !models.ValidUrgency(input.Urgency) {
		return nil, ErrInvalidUrgency
	}

	info := input.AdditionalInfo
	if len(info) == 0 {
		info = []byte(`{}`)
	}

	id := uuid.New().String()
	query := `INSERT INTO help_requests
		(id, user_id, category, title, description, urgency, status, city, location, contact_phone, image_url, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6, 'open', $7, $8, $9, $10, $11)
		RETURNING ` + requestColumns
	row := db.Pool.QueryRow(ctx, query, id, userID, input.Category, input.Title, input.Description,
		input.Urgency, input.City, input.Location, input.ContactPhone, input.ImageURL, info)
	return scanRequest(row)
}

// ListPublic returns browsable requests newest first, filtered and stripped
// of contact details.
func (s *RequestService) ListPublic(ctx context.Context, filters models.RequestFilters) ([]models.HelpRequest, error) {
	query := `SELECT ` + publicRequestColumns + ` FROM help_requests`
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filters.Category != "" {
		add("category = $%d", filters.Category)
	}
	if filters.Status != "" {
		add("status = $%d", filters.Status)
	}
	if filters.Urgency != "" {
		add("urgency = $%d", filters.Urgency)
	}
	if filters.City != "" {
		add("city ILIKE $%d", "%"+filters.City+"%")
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	return s.queryRequests(ctx, query, args...)
}

// ListMine returns the caller's own requests in the full projection.
func (s *RequestService) ListMine(ctx context.Context, userID string) ([]models.HelpRequest, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	query := `SELECT ` + requestColumns + ` FROM help_requests WHERE user_id = $1 ORDER BY created_at DESC`
	return s.queryRequests(ctx, query, userID)
}

// UpdateStatus sets the lifecycle status of one of the caller's requests.
// Any valid status may be set; transitions are convention, not a state
// machine.
func (s *RequestService) UpdateStatus(ctx context.Context, requestID, ownerID, status string) error {
	if ownerID == "" {
		return ErrNotAuthenticated
	}
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE help_requests SET status = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		status, requestID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetVerified flips the admin verification flag on a request.
func (s *RequestService) SetVerified(ctx context.Context, requestID string, verified bool) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE help_requests SET is_verified = $1, updated_at = NOW() WHERE id = $2`,
		verified, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetForViewer resolves the projection of a request the viewer is entitled
// to, preferring the full one. The full fetch reports authorization denial
// and absence identically (an empty result), so an empty result here must
// never be read as "does not exist" — the public fallback decides that. The
// public path forces contact_phone to nil regardless of any stored value and
// attaches the owner's public profile.
func (s *RequestService) GetForViewer(ctx context.Context, requestID, viewerID string) (*models.HelpRequest, error) {
	full := `SELECT ` + requestColumns + ` FROM help_requests
		WHERE id = $1 AND (
			user_id = $2
			OR EXISTS (SELECT 1 FROM help_responses WHERE request_id = $1 AND helper_id = $2)
			OR EXISTS (SELECT 1 FROM user_roles WHERE user_id = $2 AND role = 'admin')
		)`
	req, err := scanRequest(db.Pool.QueryRow(ctx, full, requestID, viewerID))
	if err == nil {
		s.attachOwnerProfile(ctx, req)
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	public := `SELECT ` + publicRequestColumns + ` FROM help_requests WHERE id = $1`
	req, err = scanRequest(db.Pool.QueryRow(ctx, public, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	forcePublicProjection(req)
	s.attachOwnerProfile(ctx, req)
	return req, nil
}

// forcePublicProjection scrubs owner-only fields. The public query already
// carries contact_phone as NULL, but the scrub must hold even if the
// projection ever leaks a value.
func forcePublicProjection(req *models.HelpRequest) {
	req.ContactPhone = nil
}

func (s *RequestService) attachOwnerProfile(ctx context.Context, req *models.HelpRequest) {
	profile, err := s.users.PublicProfile(ctx, req.UserID)
	if err != nil {
		utils.LogError(err, "OwnerProfile")
		return
	}
	req.Profile = profile
}

func (s *RequestService) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.HelpRequest, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.HelpRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func scanRequest(row pgx.Row) (*models.HelpRequest, error) {
	var req models.HelpRequest
	err := row.Scan(&req.ID, &req.UserID, &req.Category, &req.Title, &req.Description,
		&req.Urgency, &req.Status, &req.City, &req.Location, &req.ContactPhone,
		&req.ImageURL, &req.AdditionalInfo, &req.IsVerified, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
