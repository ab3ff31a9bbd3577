package models

import "time"

// HelpResponse is an offer to help on a request. One per (request, helper)
// pair by convention; the service filters existing responses before insert
// rather than relying on a store constraint.
type HelpResponse struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	HelperID  string    `json:"helper_id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *PublicProfile `json:"profile,omitempty"`
}

type CreateResponseRequest struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
	SeekerID  string `json:"seeker_id"`
}

type AdminStats struct {
	TotalUsers       int `json:"total_users"`
	TotalRequests    int `json:"total_requests"`
	OpenRequests     int `json:"open_requests"`
	VerifiedRequests int `json:"verified_requests"`
}

// AdminUser is the row shape of the admin user listing.
type AdminUser struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	City      *string   `json:"city"`
	IsHelper  bool      `json:"is_helper"`
	IsSeeker  bool      `json:"is_seeker"`
	CreatedAt time.Time `json:"created_at"`
}
