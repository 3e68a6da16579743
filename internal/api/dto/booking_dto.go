package dto

import (
	"time"

	"github.com/spec-kit/staffing-service/internal/domain"
)

// CheckOutRequest payload for completing a worked shift.
type CheckOutRequest struct {
	HoursWorked float64 `json:"hours_worked"`
}

// CancelBookingRequest payload for cancellation.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// BookingResponse is the public booking shape.
type BookingResponse struct {
	ID              string               `json:"id"`
	ApplicationID   string               `json:"application_id"`
	ShiftID         string               `json:"shift_id"`
	TherapistID     string               `json:"therapist_id"`
	Status          domain.BookingStatus `json:"status"`
	HoursWorked     *float64             `json:"hours_worked,omitempty"`
	TherapistPayout *float64             `json:"therapist_payout,omitempty"`
	CancelReason    string               `json:"cancel_reason,omitempty"`
	CheckedInAt     *time.Time           `json:"checked_in_at,omitempty"`
	CheckedOutAt    *time.Time           `json:"checked_out_at,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}
