package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staffing-service/internal/domain"
)

// BookingStatusUpdate carries the fields persisted atomically with a status
// flip. Only the transition that owns a field sets it; the rest stay nil.
type BookingStatusUpdate struct {
	HoursWorked     *float64
	TherapistPayout *float64
	CancelReason    *string
	CheckedInAt     *time.Time
	CheckedOutAt    *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
}

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByApplication(ctx context.Context, applicationID string) (*domain.Booking, error)
	// ListStartingBetween returns CONFIRMED/CHECKED_IN bookings whose shift
	// starts inside [from, to), for reminder scanning.
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, update BookingStatusUpdate) error
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingColumns = `id, application_id, shift_id, therapist_id, status, hours_worked,
        therapist_payout, cancel_reason, checked_in_at, checked_out_at, completed_at,
        cancelled_at, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (application_id, shift_id, therapist_id, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		booking.ApplicationID,
		booking.ShiftID,
		booking.TherapistID,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *bookingRepository) GetByApplication(ctx context.Context, applicationID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE application_id=$1`
	return r.fetchSingle(ctx, query, applicationID)
}

func (r *bookingRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	const query = `
        SELECT b.id, b.application_id, b.shift_id, b.therapist_id, b.status, b.hours_worked,
               b.therapist_payout, b.cancel_reason, b.checked_in_at, b.checked_out_at,
               b.completed_at, b.cancelled_at, b.created_at, b.updated_at
        FROM bookings b
        JOIN shifts s ON s.id = b.shift_id
        WHERE b.status IN ($1,$2) AND s.start_time >= $3 AND s.start_time < $4
        ORDER BY s.start_time ASC`
	rows, err := r.pool.Query(ctx, query,
		domain.BookingStatusConfirmed, domain.BookingStatusCheckedIn, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *booking)
	}
	return result, rows.Err()
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, update BookingStatusUpdate) error {
	const query = `
        UPDATE bookings SET status=$1,
            hours_worked=COALESCE($2, hours_worked),
            therapist_payout=COALESCE($3, therapist_payout),
            cancel_reason=COALESCE($4, cancel_reason),
            checked_in_at=COALESCE($5, checked_in_at),
            checked_out_at=COALESCE($6, checked_out_at),
            completed_at=COALESCE($7, completed_at),
            cancelled_at=COALESCE($8, cancelled_at),
            updated_at=NOW()
        WHERE id=$9 AND status=$10`
	cmd, err := r.pool.Exec(ctx, query,
		to,
		update.HoursWorked,
		update.TherapistPayout,
		update.CancelReason,
		update.CheckedInAt,
		update.CheckedOutAt,
		update.CompletedAt,
		update.CancelledAt,
		id,
		from,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	return scanBooking(r.pool.QueryRow(ctx, query, arg))
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var booking domain.Booking
	if err := row.Scan(
		&booking.ID,
		&booking.ApplicationID,
		&booking.ShiftID,
		&booking.TherapistID,
		&booking.Status,
		&booking.HoursWorked,
		&booking.TherapistPayout,
		&booking.CancelReason,
		&booking.CheckedInAt,
		&booking.CheckedOutAt,
		&booking.CompletedAt,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}
