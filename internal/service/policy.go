package service

import (
	"github.com/spec-kit/staffing-service/internal/domain"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

// Authorization is the single policy-check step both transition engines run
// before any mutation. Every "does this actor own this entity" question goes
// through here rather than being re-derived per operation.
type Authorization struct{}

// ShiftOwner verifies the actor organizes the shift.
func (Authorization) ShiftOwner(actorID string, shift *domain.Shift) error {
	if shift.OrganizerID != actorID {
		return apperrors.NewForbidden("actor does not organize this shift")
	}
	return nil
}

// ApplicationOwner verifies the actor is the applying therapist.
func (Authorization) ApplicationOwner(actorID string, application *domain.Application) error {
	if application.TherapistID != actorID {
		return apperrors.NewForbidden("actor does not own this application")
	}
	return nil
}

// BookingTherapist verifies the actor is the booked therapist.
func (Authorization) BookingTherapist(actorID string, booking *domain.Booking) error {
	if booking.TherapistID != actorID {
		return apperrors.NewForbidden("actor is not the booked therapist")
	}
	return nil
}

// BookingOrganizer verifies the actor organizes the booking's parent shift.
func (Authorization) BookingOrganizer(actorID string, shift *domain.Shift) error {
	if shift.OrganizerID != actorID {
		return apperrors.NewForbidden("actor does not organize this booking's shift")
	}
	return nil
}
