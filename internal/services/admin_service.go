package services

import (
	"context"

	"helphub-backend/internal/db"
	"helphub-backend/internal/models"
)

type AdminService struct{}

func NewAdminService() *AdminService {
	return &AdminService{}
}

// Stats aggregates platform-wide counts for the admin dashboard. Request
// counts are derived from one scan of status/verified flags.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats

	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers); err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `SELECT status, is_verified FROM help_requests`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status   string
			verified bool
		)
		if err := rows.Scan(&status, &verified); err != nil {
			return nil, err
		}
		stats.TotalRequests++
		if status == models.StatusOpen {
			stats.OpenRequests++
		}
		if verified {
			stats.VerifiedRequests++
		}
	}
	return &stats, rows.Err()
}

// ListUsers returns every account with its profile details.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	query := `SELECT u.id, u.email, p.full_name, p.city, p.is_helper, p.is_seeker, u.created_at
		FROM users u JOIN profiles p ON p.user_id = u.id
		ORDER BY u.created_at DESC`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.AdminUser
	for rows.Next() {
		var u models.AdminUser
		if err := rows.Scan(&u.UserID, &u.Email, &u.FullName, &u.City, &u.IsHelper, &u.IsSeeker, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListRequests returns all requests in the full projection, contact details
// included. Admin-only.
func (s *AdminService) ListRequests(ctx context.Context) ([]models.HelpRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM help_requests ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query)
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
