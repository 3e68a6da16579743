package domain

import "time"

// ApplicationStatus enumerates lifecycle states for shift applications.
//
// PENDING is the sole initial state; WITHDRAWN, ACCEPTED and REJECTED are
// terminal and absorbing.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "PENDING"
	ApplicationStatusWithdrawn ApplicationStatus = "WITHDRAWN"
	ApplicationStatusAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
)

// Application is a therapist's request to work a shift. At most one PENDING
// application may exist per (shift, therapist) pair.
type Application struct {
	ID          string
	ShiftID     string
	TherapistID string
	Status      ApplicationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DecidedAt   *time.Time
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending: {
		ApplicationStatusWithdrawn,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
	},
	ApplicationStatusWithdrawn: {},
	ApplicationStatusAccepted:  {},
	ApplicationStatusRejected:  {},
}

// CanTransitionApplication reports whether moving from -> to is allowed.
func CanTransitionApplication(from, to ApplicationStatus) bool {
	for _, candidate := range applicationTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// IsTerminalApplication reports whether the status has no outgoing edges.
func IsTerminalApplication(status ApplicationStatus) bool {
	return len(applicationTransitions[status]) == 0
}
