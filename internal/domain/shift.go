package domain

import "time"

// ShiftStatus enumerates lifecycle states for published shifts.
type ShiftStatus string

const (
	ShiftStatusOpen      ShiftStatus = "OPEN"
	ShiftStatusFilled    ShiftStatus = "FILLED"
	ShiftStatusCancelled ShiftStatus = "CANCELLED"
	ShiftStatusCompleted ShiftStatus = "COMPLETED"
)

// Shift is a staffing slot published by an organizer. Once FILLED it is
// mutated only through booking transitions.
type Shift struct {
	ID          string
	OrganizerID string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Address     string
	HourlyRate  float64
	Status      ShiftStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftStatusOpen:      {ShiftStatusFilled, ShiftStatusCancelled},
	ShiftStatusFilled:    {ShiftStatusOpen, ShiftStatusCompleted, ShiftStatusCancelled},
	ShiftStatusCancelled: {},
	ShiftStatusCompleted: {},
}

// CanTransitionShift reports whether moving a shift from -> to is allowed.
// FILLED -> OPEN happens when a booking is cancelled before the shift starts.
func CanTransitionShift(from, to ShiftStatus) bool {
	for _, candidate := range shiftTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
