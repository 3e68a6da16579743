package dto

import (
	"time"

	"github.com/spec-kit/staffing-service/internal/domain"
)

// CreateShiftRequest payload for shift publication.
type CreateShiftRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location"`
	Address     string    `json:"address"`
	HourlyRate  float64   `json:"hourly_rate"`
}

// ShiftResponse is the public shift shape.
type ShiftResponse struct {
	ID          string             `json:"id"`
	OrganizerID string             `json:"organizer_id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	StartTime   time.Time          `json:"start_time"`
	EndTime     time.Time          `json:"end_time"`
	Location    string             `json:"location"`
	Address     string             `json:"address,omitempty"`
	HourlyRate  float64            `json:"hourly_rate"`
	Status      domain.ShiftStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
