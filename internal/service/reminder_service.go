package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/notify"
	"github.com/spec-kit/staffing-service/internal/reminder"
	"github.com/spec-kit/staffing-service/internal/repository"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

// DueReminder pairs a booking with the tier whose window its shift start
// entered.
type DueReminder struct {
	Booking    domain.Booking
	Shift      domain.Shift
	Tier       reminder.Tier
	HoursUntil float64
}

// ReminderService computes and sends shift reminders. It is designed to be
// invoked periodically and idempotently: the tracker guarantees at most one
// reminder per (booking, tier) pair no matter how often it runs.
type ReminderService struct {
	bookings repository.BookingRepository
	shifts   repository.ShiftRepository
	users    repository.UserRepository
	tracker  reminder.Tracker
	notifier Notifier
	logger   *zap.Logger
}

// ReminderDependencies bundles collaborators for the scheduler.
type ReminderDependencies struct {
	BookingRepo repository.BookingRepository
	ShiftRepo   repository.ShiftRepository
	UserRepo    repository.UserRepository
	Tracker     reminder.Tracker
	Notifier    Notifier
	Logger      *zap.Logger
}

// NewReminderService constructs the scheduler.
func NewReminderService(deps ReminderDependencies) *ReminderService {
	return &ReminderService{
		bookings: deps.BookingRepo,
		shifts:   deps.ShiftRepo,
		users:    deps.UserRepo,
		tracker:  deps.Tracker,
		notifier: deps.Notifier,
		logger:   deps.Logger,
	}
}

// DueReminders yields every non-terminal booking whose shift start falls
// inside a tier window and which has not been reminded at that tier yet.
// Yielding marks the pair sent, so a repeat call with the same now returns
// nothing for the same pairs.
func (s *ReminderService) DueReminders(ctx context.Context, now time.Time) ([]DueReminder, error) {
	var due []DueReminder
	for _, tier := range reminder.Tiers() {
		bookings, err := s.bookings.ListStartingBetween(ctx, now, now.Add(tier.Duration()))
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, booking := range bookings {
			first, err := s.tracker.MarkSent(ctx, booking.ID, tier)
			if err != nil {
				s.logger.Warn("reminder tracker unavailable; skipping booking",
					zap.String("booking_id", booking.ID), zap.Error(err))
				continue
			}
			if !first {
				continue
			}
			shift, err := s.shifts.GetByID(ctx, booking.ShiftID)
			if err != nil {
				s.logger.Warn("shift lookup failed for due reminder",
					zap.String("booking_id", booking.ID), zap.Error(err))
				continue
			}
			due = append(due, DueReminder{
				Booking:    booking,
				Shift:      *shift,
				Tier:       tier,
				HoursUntil: shift.StartTime.Sub(now).Hours(),
			})
		}
	}
	return due, nil
}

// SendDueReminders dispatches one shift_reminder per due (booking, tier)
// pair and returns how many were sent.
func (s *ReminderService) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := s.DueReminders(ctx, now)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, item := range due {
		therapist, err := s.users.GetByID(ctx, item.Booking.TherapistID)
		if err != nil {
			s.logger.Warn("reminder recipient lookup failed",
				zap.String("booking_id", item.Booking.ID), zap.Error(err))
			continue
		}
		ok := s.notifier.Send(ctx, notify.ShiftReminder{
			To:         therapist.Email,
			ShiftTitle: item.Shift.Title,
			Location:   item.Shift.Location,
			StartTime:  item.Shift.StartTime,
			HoursUntil: item.HoursUntil,
		})
		if ok {
			sent++
		}
	}
	return sent, nil
}
