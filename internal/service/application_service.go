package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/notify"
	"github.com/spec-kit/staffing-service/internal/observability"
	"github.com/spec-kit/staffing-service/internal/repository"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

// Notifier delivers a notification, reporting success. A false result is
// logged by the dispatcher and never fails the transition that produced it.
type Notifier interface {
	Send(ctx context.Context, msg notify.Message) bool
}

// ApplicationService is the transition engine for shift applications.
type ApplicationService struct {
	shifts       repository.ShiftRepository
	applications repository.ApplicationRepository
	bookings     repository.BookingRepository
	users        repository.UserRepository
	notifier     Notifier
	authz        Authorization
	metrics      *observability.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// ApplicationDependencies bundles collaborators for the engine.
type ApplicationDependencies struct {
	ShiftRepo       repository.ShiftRepository
	ApplicationRepo repository.ApplicationRepository
	BookingRepo     repository.BookingRepository
	UserRepo        repository.UserRepository
	Notifier        Notifier
	Metrics         *observability.Metrics
	Logger          *zap.Logger
	Now             func() time.Time
}

// NewApplicationService constructs the engine.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ApplicationService{
		shifts:       deps.ShiftRepo,
		applications: deps.ApplicationRepo,
		bookings:     deps.BookingRepo,
		users:        deps.UserRepo,
		notifier:     deps.Notifier,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          now,
	}
}

// Submit creates a PENDING application for an open shift.
func (s *ApplicationService) Submit(ctx context.Context, shiftID, therapistID string) (*domain.Application, error) {
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("shift", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if shift.Status != domain.ShiftStatusOpen {
		return nil, apperrors.NewNotFound("open shift", map[string]any{"status": shift.Status})
	}

	existing, err := s.applications.FindPending(ctx, shiftID, therapistID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("a pending application for this shift already exists",
			map[string]any{"application_id": existing.ID})
	}

	application := &domain.Application{
		ShiftID:     shiftID,
		TherapistID: therapistID,
		Status:      domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, apperrors.MapError(err)
	}

	therapist := s.lookupUser(ctx, therapistID)
	if therapist != nil {
		s.dispatch(ctx, notify.ApplicationSubmitted{
			To:         therapist.Email,
			ShiftTitle: shift.Title,
			StartTime:  shift.StartTime,
		})
	}
	if organizer := s.lookupUser(ctx, shift.OrganizerID); organizer != nil {
		therapistName := therapistID
		if therapist != nil {
			therapistName = therapist.Name
		}
		s.dispatch(ctx, notify.NewApplication{
			To:            organizer.Email,
			ShiftTitle:    shift.Title,
			TherapistName: therapistName,
		})
	}

	return application, nil
}

// Withdraw moves a therapist's own PENDING application to WITHDRAWN. The row
// is never deleted; withdrawal is a terminal status.
func (s *ApplicationService) Withdraw(ctx context.Context, applicationID, actorTherapistID string) (*domain.Application, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.authz.ApplicationOwner(actorTherapistID, application); err != nil {
		return nil, err
	}
	if !domain.CanTransitionApplication(application.Status, domain.ApplicationStatusWithdrawn) {
		return nil, apperrors.NewInvalidTransition("application",
			string(application.Status), string(domain.ApplicationStatusWithdrawn))
	}

	if err := s.applications.UpdateStatus(ctx, application.ID,
		application.Status, domain.ApplicationStatusWithdrawn, nil); err != nil {
		return nil, mapStatusWriteError(err)
	}
	application.Status = domain.ApplicationStatusWithdrawn
	s.metrics.RecordTransition("application", string(application.Status))
	return application, nil
}

// Decide accepts or rejects a PENDING application on behalf of the shift's
// organizer. Acceptance creates the CONFIRMED booking and marks the shift
// FILLED; either outcome notifies the therapist.
func (s *ApplicationService) Decide(ctx context.Context, applicationID, actorOrganizerID string, accept bool) (*domain.Application, *domain.Booking, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("application", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}
	shift, err := s.shifts.GetByID(ctx, application.ShiftID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if err := s.authz.ShiftOwner(actorOrganizerID, shift); err != nil {
		return nil, nil, err
	}

	target := domain.ApplicationStatusRejected
	if accept {
		target = domain.ApplicationStatusAccepted
	}
	if !domain.CanTransitionApplication(application.Status, target) {
		return nil, nil, apperrors.NewInvalidTransition("application",
			string(application.Status), string(target))
	}
	// Acceptance needs an OPEN shift. Checked before any write so a filled
	// shift cannot acquire a second booking or a half-committed acceptance.
	if accept && shift.Status != domain.ShiftStatusOpen {
		return nil, nil, apperrors.NewConflict("shift is no longer open",
			map[string]any{"status": shift.Status})
	}

	decidedAt := s.now()
	if err := s.applications.UpdateStatus(ctx, application.ID,
		application.Status, target, &decidedAt); err != nil {
		return nil, nil, mapStatusWriteError(err)
	}
	application.Status = target
	application.DecidedAt = &decidedAt
	s.metrics.RecordTransition("application", string(target))

	var booking *domain.Booking
	if accept {
		booking = &domain.Booking{
			ApplicationID: application.ID,
			ShiftID:       shift.ID,
			TherapistID:   application.TherapistID,
			Status:        domain.BookingStatusConfirmed,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return nil, nil, apperrors.MapError(err)
		}
		if err := s.shifts.UpdateStatus(ctx, shift.ID,
			domain.ShiftStatusOpen, domain.ShiftStatusFilled); err != nil {
			return nil, nil, mapStatusWriteError(err)
		}
		shift.Status = domain.ShiftStatusFilled
		s.metrics.RecordTransition("shift", string(shift.Status))
	}

	therapist := s.lookupUser(ctx, application.TherapistID)
	if therapist != nil {
		s.dispatch(ctx, notify.ApplicationStatus{
			To:         therapist.Email,
			ShiftTitle: shift.Title,
			Status:     application.Status,
		})
	}
	if accept && therapist != nil {
		if organizer := s.lookupUser(ctx, shift.OrganizerID); organizer != nil {
			s.dispatch(ctx, notify.BookingConfirmed{
				To:            organizer.Email,
				ShiftTitle:    shift.Title,
				TherapistName: therapist.Name,
				StartTime:     shift.StartTime,
			})
		}
	}

	return application, booking, nil
}

// mapStatusWriteError converts a failed compare-and-swap into Conflict: the
// transition was legal against the state this request observed, but another
// writer moved the row first.
func mapStatusWriteError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewConflict("entity was modified concurrently", nil)
	}
	return apperrors.MapError(err)
}

func (s *ApplicationService) lookupUser(ctx context.Context, id string) *domain.User {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("notification recipient lookup failed",
			zap.String("user_id", id), zap.Error(err))
		return nil
	}
	return user
}

func (s *ApplicationService) dispatch(ctx context.Context, msg notify.Message) {
	if s.notifier == nil {
		return
	}
	if !s.notifier.Send(ctx, msg) {
		s.logger.Warn("notification not delivered", zap.String("kind", string(msg.Kind())))
	}
}
