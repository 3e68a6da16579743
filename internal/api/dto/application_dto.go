package dto

import (
	"time"

	"github.com/spec-kit/staffing-service/internal/domain"
)

// DecisionRequest payload for accepting or rejecting an application.
type DecisionRequest struct {
	Outcome string `json:"outcome"` // "accept" or "reject"
}

// ApplicationResponse is the public application shape.
type ApplicationResponse struct {
	ID          string                   `json:"id"`
	ShiftID     string                   `json:"shift_id"`
	TherapistID string                   `json:"therapist_id"`
	Status      domain.ApplicationStatus `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
	DecidedAt   *time.Time               `json:"decided_at,omitempty"`
}
