package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/observability"
	"github.com/spec-kit/staffing-service/internal/repository"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

// BookingService is the transition engine for confirmed bookings.
type BookingService struct {
	bookings repository.BookingRepository
	shifts   repository.ShiftRepository
	authz    Authorization
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// BookingDependencies bundles collaborators for the engine.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	ShiftRepo   repository.ShiftRepository
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Now         func() time.Time
}

// NewBookingService constructs the engine.
func NewBookingService(deps BookingDependencies) *BookingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings: deps.BookingRepo,
		shifts:   deps.ShiftRepo,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      now,
	}
}

// CheckIn moves a booking from CONFIRMED to CHECKED_IN.
func (s *BookingService) CheckIn(ctx context.Context, bookingID, actorTherapistID string) (*domain.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.BookingTherapist(actorTherapistID, booking); err != nil {
		return nil, err
	}
	if !domain.CanTransitionBooking(booking.Status, domain.BookingStatusCheckedIn) {
		return nil, apperrors.NewInvalidTransition("booking",
			string(booking.Status), string(domain.BookingStatusCheckedIn))
	}

	checkedInAt := s.now()
	if err := s.bookings.UpdateStatus(ctx, booking.ID,
		booking.Status, domain.BookingStatusCheckedIn,
		repository.BookingStatusUpdate{CheckedInAt: &checkedInAt}); err != nil {
		return nil, mapStatusWriteError(err)
	}
	booking.Status = domain.BookingStatusCheckedIn
	booking.CheckedInAt = &checkedInAt
	s.metrics.RecordTransition("booking", string(booking.Status))
	return booking, nil
}

// CheckOut moves a booking from CHECKED_IN to CHECKED_OUT. Hours worked and
// the derived payout are written in the same statement as the status flip and
// are never mutated afterwards.
func (s *BookingService) CheckOut(ctx context.Context, bookingID, actorTherapistID string, hoursWorked float64) (*domain.Booking, error) {
	if hoursWorked <= 0 {
		return nil, apperrors.NewValidationError("hours_worked must be positive",
			map[string]any{"hours_worked": hoursWorked})
	}

	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.BookingTherapist(actorTherapistID, booking); err != nil {
		return nil, err
	}
	if !domain.CanTransitionBooking(booking.Status, domain.BookingStatusCheckedOut) {
		return nil, apperrors.NewInvalidTransition("booking",
			string(booking.Status), string(domain.BookingStatusCheckedOut))
	}

	shift, err := s.shifts.GetByID(ctx, booking.ShiftID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	payout := domain.ComputePayout(hoursWorked, shift.HourlyRate)

	checkedOutAt := s.now()
	if err := s.bookings.UpdateStatus(ctx, booking.ID,
		booking.Status, domain.BookingStatusCheckedOut,
		repository.BookingStatusUpdate{
			HoursWorked:     &hoursWorked,
			TherapistPayout: &payout,
			CheckedOutAt:    &checkedOutAt,
		}); err != nil {
		return nil, mapStatusWriteError(err)
	}
	booking.Status = domain.BookingStatusCheckedOut
	booking.HoursWorked = &hoursWorked
	booking.TherapistPayout = &payout
	booking.CheckedOutAt = &checkedOutAt
	s.metrics.RecordTransition("booking", string(booking.Status))
	return booking, nil
}

// Complete moves a booking from CHECKED_OUT to COMPLETED and finalizes the
// parent shift. Re-invoking on an already COMPLETED booking is a no-op that
// returns the current state.
func (s *BookingService) Complete(ctx context.Context, bookingID, actorOrganizerID string) (*domain.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	shift, err := s.shifts.GetByID(ctx, booking.ShiftID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.authz.BookingOrganizer(actorOrganizerID, shift); err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusCompleted {
		return booking, nil
	}
	if !domain.CanTransitionBooking(booking.Status, domain.BookingStatusCompleted) {
		return nil, apperrors.NewInvalidTransition("booking",
			string(booking.Status), string(domain.BookingStatusCompleted))
	}

	completedAt := s.now()
	if err := s.bookings.UpdateStatus(ctx, booking.ID,
		booking.Status, domain.BookingStatusCompleted,
		repository.BookingStatusUpdate{CompletedAt: &completedAt}); err != nil {
		// A concurrent writer may have completed the booking first; that is
		// still a successful completion, not a conflict.
		if errors.Is(err, pgx.ErrNoRows) {
			if current, readErr := s.bookings.GetByID(ctx, booking.ID); readErr == nil &&
				current.Status == domain.BookingStatusCompleted {
				return current, nil
			}
		}
		return nil, mapStatusWriteError(err)
	}
	booking.Status = domain.BookingStatusCompleted
	booking.CompletedAt = &completedAt
	s.metrics.RecordTransition("booking", string(booking.Status))

	if err := s.shifts.UpdateStatus(ctx, shift.ID,
		shift.Status, domain.ShiftStatusCompleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("shift already finalized by another writer",
				zap.String("shift_id", shift.ID))
		} else {
			return nil, apperrors.MapError(err)
		}
	}
	return booking, nil
}

// Cancel moves a booking to CANCELLED from CONFIRMED or CHECKED_IN, on behalf
// of either party. The parent shift reopens unless its start time has passed.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID, reason string) (*domain.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	shift, err := s.shifts.GetByID(ctx, booking.ShiftID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if booking.TherapistID != actorID && shift.OrganizerID != actorID {
		return nil, apperrors.NewForbidden("actor is not a party to this booking")
	}
	if !domain.CanTransitionBooking(booking.Status, domain.BookingStatusCancelled) {
		return nil, apperrors.NewInvalidTransition("booking",
			string(booking.Status), string(domain.BookingStatusCancelled))
	}

	cancelledAt := s.now()
	if err := s.bookings.UpdateStatus(ctx, booking.ID,
		booking.Status, domain.BookingStatusCancelled,
		repository.BookingStatusUpdate{
			CancelReason: &reason,
			CancelledAt:  &cancelledAt,
		}); err != nil {
		return nil, mapStatusWriteError(err)
	}
	booking.Status = domain.BookingStatusCancelled
	booking.CancelReason = reason
	booking.CancelledAt = &cancelledAt
	s.metrics.RecordTransition("booking", string(booking.Status))

	if shift.StartTime.After(s.now()) {
		if err := s.shifts.UpdateStatus(ctx, shift.ID,
			domain.ShiftStatusFilled, domain.ShiftStatusOpen); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.logger.Warn("shift not reopened; status moved concurrently",
					zap.String("shift_id", shift.ID))
			} else {
				return nil, apperrors.MapError(err)
			}
		}
	}
	return booking, nil
}

func (s *BookingService) load(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("booking", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return booking, nil
}
