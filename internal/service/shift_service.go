package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/repository"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

// ShiftService handles organizer shift publication and listing. Shifts are
// pass-through data access here; once filled they change only through the
// booking engine.
type ShiftService struct {
	shifts repository.ShiftRepository
}

// ShiftCreateInput describes shift publication payload.
type ShiftCreateInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Address     string
	HourlyRate  float64
}

// NewShiftService constructs the service.
func NewShiftService(shifts repository.ShiftRepository) *ShiftService {
	return &ShiftService{shifts: shifts}
}

// CreateShift publishes an OPEN shift for an organizer.
func (s *ShiftService) CreateShift(ctx context.Context, organizerID string, input ShiftCreateInput) (*domain.Shift, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, apperrors.NewValidationError("end_time must be after start_time", nil)
	}
	if input.HourlyRate <= 0 {
		return nil, apperrors.NewValidationError("hourly_rate must be positive",
			map[string]any{"hourly_rate": input.HourlyRate})
	}

	shift := &domain.Shift{
		OrganizerID: organizerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		Address:     input.Address,
		HourlyRate:  input.HourlyRate,
		Status:      domain.ShiftStatusOpen,
	}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, apperrors.MapError(err)
	}
	return shift, nil
}

// GetShift fetches a shift by id.
func (s *ShiftService) GetShift(ctx context.Context, id string) (*domain.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("shift", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return shift, nil
}

// ListOpenShifts returns OPEN shifts for therapists to browse.
func (s *ShiftService) ListOpenShifts(ctx context.Context, limit, offset int) ([]domain.Shift, error) {
	return s.shifts.ListWithFilter(ctx, repository.ShiftFilter{
		Statuses: []domain.ShiftStatus{domain.ShiftStatusOpen},
		Limit:    limit,
		Offset:   offset,
	})
}

// ListOrganizerShifts returns every shift owned by the organizer.
func (s *ShiftService) ListOrganizerShifts(ctx context.Context, organizerID string, limit, offset int) ([]domain.Shift, error) {
	return s.shifts.ListWithFilter(ctx, repository.ShiftFilter{
		OrganizerID: &organizerID,
		Limit:       limit,
		Offset:      offset,
	})
}
