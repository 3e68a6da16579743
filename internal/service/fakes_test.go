package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/notify"
	"github.com/spec-kit/staffing-service/internal/repository"
)

// In-memory repository fakes mirroring the compare-and-swap semantics of the
// Postgres implementations: UpdateStatus returns pgx.ErrNoRows when the row's
// current status no longer matches the expected one.

type fakeShiftRepo struct {
	mu     sync.Mutex
	seq    int
	shifts map[string]*domain.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[string]*domain.Shift)}
}

func (r *fakeShiftRepo) Create(_ context.Context, shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	shift.ID = fmt.Sprintf("shift-%d", r.seq)
	shift.CreatedAt = time.Now()
	shift.UpdatedAt = shift.CreatedAt
	copied := *shift
	r.shifts[shift.ID] = &copied
	return nil
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id string) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shift, ok := r.shifts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *shift
	return &copied, nil
}

func (r *fakeShiftRepo) ListWithFilter(_ context.Context, filter repository.ShiftFilter) ([]domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Shift
	for _, shift := range r.shifts {
		if filter.OrganizerID != nil && shift.OrganizerID != *filter.OrganizerID {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if shift.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		result = append(result, *shift)
	}
	return result, nil
}

func (r *fakeShiftRepo) UpdateStatus(_ context.Context, id string, from, to domain.ShiftStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	shift, ok := r.shifts[id]
	if !ok || shift.Status != from {
		return pgx.ErrNoRows
	}
	shift.Status = to
	shift.UpdatedAt = time.Now()
	return nil
}

type fakeApplicationRepo struct {
	mu           sync.Mutex
	seq          int
	applications map[string]*domain.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{applications: make(map[string]*domain.Application)}
}

func (r *fakeApplicationRepo) Create(_ context.Context, application *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	application.ID = fmt.Sprintf("application-%d", r.seq)
	application.CreatedAt = time.Now()
	application.UpdatedAt = application.CreatedAt
	copied := *application
	r.applications[application.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	application, ok := r.applications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *application
	return &copied, nil
}

func (r *fakeApplicationRepo) FindPending(_ context.Context, shiftID, therapistID string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, application := range r.applications {
		if application.ShiftID == shiftID &&
			application.TherapistID == therapistID &&
			application.Status == domain.ApplicationStatusPending {
			copied := *application
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeApplicationRepo) ListByShift(_ context.Context, shiftID string) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Application
	for _, application := range r.applications {
		if application.ShiftID == shiftID {
			result = append(result, *application)
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id string, from, to domain.ApplicationStatus, decidedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	application, ok := r.applications[id]
	if !ok || application.Status != from {
		return pgx.ErrNoRows
	}
	application.Status = to
	if decidedAt != nil {
		application.DecidedAt = decidedAt
	}
	application.UpdatedAt = time.Now()
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*domain.Booking
	shifts   *fakeShiftRepo
}

func newFakeBookingRepo(shifts *fakeShiftRepo) *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*domain.Booking), shifts: shifts}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	booking.ID = fmt.Sprintf("booking-%d", r.seq)
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) GetByApplication(_ context.Context, applicationID string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.ApplicationID == applicationID {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeBookingRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	r.mu.Lock()
	bookings := make([]*domain.Booking, 0, len(r.bookings))
	for _, booking := range r.bookings {
		bookings = append(bookings, booking)
	}
	r.mu.Unlock()

	var result []domain.Booking
	for _, booking := range bookings {
		if booking.Status != domain.BookingStatusConfirmed && booking.Status != domain.BookingStatusCheckedIn {
			continue
		}
		shift, err := r.shifts.GetByID(ctx, booking.ShiftID)
		if err != nil {
			continue
		}
		if shift.StartTime.Before(from) || !shift.StartTime.Before(to) {
			continue
		}
		result = append(result, *booking)
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, from, to domain.BookingStatus, update repository.BookingStatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok || booking.Status != from {
		return pgx.ErrNoRows
	}
	booking.Status = to
	if update.HoursWorked != nil {
		booking.HoursWorked = update.HoursWorked
	}
	if update.TherapistPayout != nil {
		booking.TherapistPayout = update.TherapistPayout
	}
	if update.CancelReason != nil {
		booking.CancelReason = *update.CancelReason
	}
	if update.CheckedInAt != nil {
		booking.CheckedInAt = update.CheckedInAt
	}
	if update.CheckedOutAt != nil {
		booking.CheckedOutAt = update.CheckedOutAt
	}
	if update.CompletedAt != nil {
		booking.CompletedAt = update.CompletedAt
	}
	if update.CancelledAt != nil {
		booking.CancelledAt = update.CancelledAt
	}
	booking.UpdatedAt = time.Now()
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) SetCredentialsVerified(_ context.Context, id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.CredentialsVerified = verified
	user.UpdatedAt = time.Now()
	return nil
}

// fakeNotifier records every message it is asked to deliver.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
	fail     bool
}

func (n *fakeNotifier) Send(_ context.Context, msg notify.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return !n.fail
}

func (n *fakeNotifier) sent() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.messages...)
}

func (n *fakeNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]notify.Kind, 0, len(n.messages))
	for _, msg := range n.messages {
		kinds = append(kinds, msg.Kind())
	}
	return kinds
}

// testEnv wires the fakes together with a frozen clock.
type testEnv struct {
	shifts       *fakeShiftRepo
	applications *fakeApplicationRepo
	bookings     *fakeBookingRepo
	users        *fakeUserRepo
	notifier     *fakeNotifier
	now          time.Time
}

func newTestEnv() *testEnv {
	shifts := newFakeShiftRepo()
	return &testEnv{
		shifts:       shifts,
		applications: newFakeApplicationRepo(),
		bookings:     newFakeBookingRepo(shifts),
		users:        newFakeUserRepo(),
		notifier:     &fakeNotifier{},
		now:          time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) clock() func() time.Time {
	return func() time.Time { return e.now }
}

func (e *testEnv) seedUser(t *testing.T, name string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
		Role:  role,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedShift(t *testing.T, organizerID string, status domain.ShiftStatus, start time.Time) *domain.Shift {
	t.Helper()
	shift := &domain.Shift{
		OrganizerID: organizerID,
		Title:       "Evening massage shift",
		StartTime:   start,
		EndTime:     start.Add(4 * time.Hour),
		Location:    "Spa West",
		HourlyRate:  85,
		Status:      status,
	}
	require.NoError(t, e.shifts.Create(context.Background(), shift))
	return shift
}

func (e *testEnv) seedApplication(t *testing.T, shiftID, therapistID string, status domain.ApplicationStatus) *domain.Application {
	t.Helper()
	application := &domain.Application{
		ShiftID:     shiftID,
		TherapistID: therapistID,
		Status:      status,
	}
	require.NoError(t, e.applications.Create(context.Background(), application))
	return application
}

func (e *testEnv) seedBooking(t *testing.T, applicationID, shiftID, therapistID string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	booking := &domain.Booking{
		ApplicationID: applicationID,
		ShiftID:       shiftID,
		TherapistID:   therapistID,
		Status:        status,
	}
	require.NoError(t, e.bookings.Create(context.Background(), booking))
	return booking
}
