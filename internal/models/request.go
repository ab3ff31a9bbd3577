package models

import (
	"encoding/json"
	"time"
)

// HelpRequest statuses. Transitions are owner-driven; beyond enum validation
// no state machine is enforced.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	UrgencyNormal   = "normal"
	UrgencyUrgent   = "urgent"
	UrgencyCritical = "critical"
)

var HelpCategories = []string{
	"blood_donation",
	"medical_assistance",
	"emergency",
	"food_grocery",
	"education",
	"financial",
	"shelter_housing",
	"job_skills",
	"senior_citizen",
	"disaster_relief",
}

var requestStatuses = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

var urgencyLevels = []string{UrgencyNormal, UrgencyUrgent, UrgencyCritical}

func ValidCategory(c string) bool { return contains(HelpCategories, c) }

func ValidStatus(s string) bool { return contains(requestStatuses, s) }

func ValidUrgency(u string) bool { return contains(urgencyLevels, u) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// HelpRequest is a posted request for assistance. ContactPhone belongs to the
// full projection only; public reads must carry it as nil.
type HelpRequest struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Category       string          `json:"category"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Urgency        string          `json:"urgency"`
	Status         string          `json:"status"`
	City           *string         `json:"city"`
	Location       *string         `json:"location"`
	ContactPhone   *string         `json:"contact_phone"`
	ImageURL       *string         `json:"image_url"`
	AdditionalInfo json.RawMessage `json:"additional_info"`
	IsVerified     bool            `json:"is_verified"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Profile *PublicProfile `json:"profile,omitempty"`
}

type CreateRequestInput struct {
	Category       string          `json:"category"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Urgency        string          `json:"urgency"`
	City           *string         `json:"city"`
	Location       *string         `json:"location"`
	ContactPhone   *string         `json:"contact_phone"`
	ImageURL       *string         `json:"image_url"`
	AdditionalInfo json.RawMessage `json:"additional_info"`
}

// RequestFilters narrows public browsing. Zero values mean "no filter".
type RequestFilters struct {
	Category string
	Status   string
	Urgency  string
	City     string
}
