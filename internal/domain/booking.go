package domain

import (
	"math"
	"time"
)

// BookingStatus enumerates lifecycle states for confirmed bookings.
//
// Happy path: CONFIRMED -> CHECKED_IN -> CHECKED_OUT -> COMPLETED.
// CANCELLED is reachable from CONFIRMED and CHECKED_IN only.
type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// Booking links an accepted application to its execution. HoursWorked and
// TherapistPayout are nil until CHECKED_OUT and immutable afterwards.
type Booking struct {
	ID              string
	ApplicationID   string
	ShiftID         string
	TherapistID     string
	Status          BookingStatus
	HoursWorked     *float64
	TherapistPayout *float64
	CancelReason    string
	CheckedInAt     *time.Time
	CheckedOutAt    *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusConfirmed:  {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn:  {BookingStatusCheckedOut, BookingStatusCancelled},
	BookingStatusCheckedOut: {BookingStatusCompleted},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// CanTransitionBooking reports whether moving from -> to is allowed.
func CanTransitionBooking(from, to BookingStatus) bool {
	for _, candidate := range bookingTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// IsTerminalBooking reports whether the status has no outgoing edges.
func IsTerminalBooking(status BookingStatus) bool {
	return len(bookingTransitions[status]) == 0
}

// ComputePayout derives the therapist payout from worked hours and the
// shift's hourly rate, rounded to cents.
func ComputePayout(hoursWorked, hourlyRate float64) float64 {
	return math.Round(hoursWorked*hourlyRate*100) / 100
}
