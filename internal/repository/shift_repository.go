package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staffing-service/internal/domain"
)

// ShiftFilter captures shift listing parameters.
type ShiftFilter struct {
	OrganizerID *string
	Statuses    []domain.ShiftStatus
	StartFrom   *time.Time
	StartTo     *time.Time
	Limit       int
	Offset      int
}

// ShiftRepository encapsulates shift persistence. UpdateStatus is a
// compare-and-swap: the row moves only if it still carries the expected
// status, so concurrent writers against the same shift serialize.
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.Shift) error
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	ListWithFilter(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.ShiftStatus) error
}

type shiftRepository struct {
	pool *pgxpool.Pool
}

// NewShiftRepository instantiates repository.
func NewShiftRepository(pool *pgxpool.Pool) ShiftRepository {
	return &shiftRepository{pool: pool}
}

func (r *shiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	const query = `
        INSERT INTO shifts (organizer_id, title, description, start_time, end_time, location, address, hourly_rate, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		shift.OrganizerID,
		shift.Title,
		shift.Description,
		shift.StartTime,
		shift.EndTime,
		shift.Location,
		shift.Address,
		shift.HourlyRate,
		shift.Status,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	const query = `
        SELECT id, organizer_id, title, description, start_time, end_time, location, address,
               hourly_rate, status, created_at, updated_at
        FROM shifts WHERE id=$1`
	var shift domain.Shift
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&shift.ID,
		&shift.OrganizerID,
		&shift.Title,
		&shift.Description,
		&shift.StartTime,
		&shift.EndTime,
		&shift.Location,
		&shift.Address,
		&shift.HourlyRate,
		&shift.Status,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepository) ListWithFilter(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error) {
	base := `SELECT id, organizer_id, title, description, start_time, end_time, location, address,
                    hourly_rate, status, created_at, updated_at
             FROM shifts`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OrganizerID != nil {
		args = append(args, *filter.OrganizerID)
		clauses = append(clauses, fmt.Sprintf("organizer_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.StartFrom != nil {
		args = append(args, *filter.StartFrom)
		clauses = append(clauses, fmt.Sprintf("start_time >= $%d", len(args)))
	}
	if filter.StartTo != nil {
		args = append(args, *filter.StartTo)
		clauses = append(clauses, fmt.Sprintf("start_time <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY start_time ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Shift
	for rows.Next() {
		var shift domain.Shift
		if err := rows.Scan(
			&shift.ID,
			&shift.OrganizerID,
			&shift.Title,
			&shift.Description,
			&shift.StartTime,
			&shift.EndTime,
			&shift.Location,
			&shift.Address,
			&shift.HourlyRate,
			&shift.Status,
			&shift.CreatedAt,
			&shift.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, shift)
	}
	return result, rows.Err()
}

func (r *shiftRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ShiftStatus) error {
	const query = `UPDATE shifts SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
