package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/repository"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

func newBookingService(env *testEnv) *BookingService {
	return NewBookingService(BookingDependencies{
		BookingRepo: env.bookings,
		ShiftRepo:   env.shifts,
		Logger:      zap.NewNop(),
		Now:         env.clock(),
	})
}

func TestBookingLifecycleHappyPath(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(-2*time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusConfirmed)

	checkedIn, err := svc.CheckIn(context.Background(), booking.ID, therapist.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.CheckedInAt)

	checkedOut, err := svc.CheckOut(context.Background(), booking.ID, therapist.ID, 3.5)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCheckedOut, checkedOut.Status)
	require.NotNil(t, checkedOut.HoursWorked)
	assert.Equal(t, 3.5, *checkedOut.HoursWorked)
	require.NotNil(t, checkedOut.TherapistPayout)
	assert.Equal(t, 297.5, *checkedOut.TherapistPayout)

	completed, err := svc.Complete(context.Background(), booking.ID, organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	stored, err := env.shifts.GetByID(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusCompleted, stored.Status)
}

func TestCheckInRequiresBookedTherapist(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	intruder := env.seedUser(t, "ivan", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusConfirmed)

	_, err := svc.CheckIn(context.Background(), booking.ID, intruder.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(-time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusConfirmed)

	_, err := svc.CheckOut(context.Background(), booking.ID, therapist.ID, 2)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
}

func TestCheckOutRejectsNonPositiveHours(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(-time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusCheckedIn)

	for _, hours := range []float64{0, -1.5} {
		_, err := svc.CheckOut(context.Background(), booking.ID, therapist.ID, hours)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(-5*time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusCheckedOut)

	first, err := svc.Complete(context.Background(), booking.ID, organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, first.Status)

	second, err := svc.Complete(context.Background(), booking.ID, organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, second.Status)
	assert.Equal(t, first.ID, second.ID)
}

// racingBookingRepo lets another writer complete the booking between this
// request's read and its status write.
type racingBookingRepo struct {
	*fakeBookingRepo
	once sync.Once
}

func (r *racingBookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, update repository.BookingStatusUpdate) error {
	r.once.Do(func() {
		completedAt := time.Now()
		_ = r.fakeBookingRepo.UpdateStatus(ctx, id, from, domain.BookingStatusCompleted,
			repository.BookingStatusUpdate{CompletedAt: &completedAt})
	})
	return r.fakeBookingRepo.UpdateStatus(ctx, id, from, to, update)
}

func TestCompleteAfterConcurrentCompletion(t *testing.T) {
	env := newTestEnv()
	svc := NewBookingService(BookingDependencies{
		BookingRepo: &racingBookingRepo{fakeBookingRepo: env.bookings},
		ShiftRepo:   env.shifts,
		Logger:      zap.NewNop(),
		Now:         env.clock(),
	})

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(-5*time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusCheckedOut)

	completed, err := svc.Complete(context.Background(), booking.ID, organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
}

func TestCompleteRequiresOrganizer(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(-5*time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusCheckedOut)

	_, err := svc.Complete(context.Background(), booking.ID, therapist.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestCancelBeforeStartReopensShift(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(24*time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusConfirmed)

	cancelled, err := svc.Cancel(context.Background(), booking.ID, therapist.ID, "family emergency")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, "family emergency", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)

	stored, err := env.shifts.GetByID(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusOpen, stored.Status)
}

func TestCancelAfterStartLeavesShiftFilled(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(-time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusCheckedIn)

	cancelled, err := svc.Cancel(context.Background(), booking.ID, organizer.ID, "venue closed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

	stored, err := env.shifts.GetByID(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusFilled, stored.Status)
}

func TestCancelByOutsiderForbidden(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	outsider := env.seedUser(t, "oscar", domain.RoleOrganizer)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(24*time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusConfirmed)

	_, err := svc.Cancel(context.Background(), booking.ID, outsider.ID, "not my shift")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestCancelCheckedOutBooking(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(-5*time.Hour))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusCheckedOut)

	_, err := svc.Cancel(context.Background(), booking.ID, therapist.ID, "too late")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
}

func TestPayoutRoundedToCents(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)
	shift := &domain.Shift{
		OrganizerID: organizer.ID,
		Title:       "Late checkout shift",
		StartTime:   env.now.Add(-time.Hour),
		EndTime:     env.now.Add(3 * time.Hour),
		HourlyRate:  33.33,
		Status:      domain.ShiftStatusFilled,
	}
	require.NoError(t, env.shifts.Create(context.Background(), shift))
	booking := env.seedBooking(t, "application-1", shift.ID, therapist.ID, domain.BookingStatusCheckedIn)

	checkedOut, err := svc.CheckOut(context.Background(), booking.ID, therapist.ID, 1.75)
	require.NoError(t, err)
	require.NotNil(t, checkedOut.TherapistPayout)
	assert.Equal(t, 58.33, *checkedOut.TherapistPayout)
}

func TestUnknownBookingNotFound(t *testing.T) {
	env := newTestEnv()
	svc := newBookingService(env)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)

	_, err := svc.CheckIn(context.Background(), "missing", therapist.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
