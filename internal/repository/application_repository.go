package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staffing-service/internal/domain"
)

// ApplicationRepository encapsulates application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	// FindPending returns the open application for the pair, or nil when none
	// exists. Terminal applications never match.
	FindPending(ctx context.Context, shiftID, therapistID string) (*domain.Application, error)
	ListByShift(ctx context.Context, shiftID string) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, decidedAt *time.Time) error
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, application *domain.Application) error {
	const query = `
        INSERT INTO applications (shift_id, therapist_id, status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		application.ShiftID,
		application.TherapistID,
		application.Status,
	).Scan(&application.ID, &application.CreatedAt, &application.UpdatedAt)
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	const query = `
        SELECT id, shift_id, therapist_id, status, created_at, updated_at, decided_at
        FROM applications WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *applicationRepository) FindPending(ctx context.Context, shiftID, therapistID string) (*domain.Application, error) {
	const query = `
        SELECT id, shift_id, therapist_id, status, created_at, updated_at, decided_at
        FROM applications WHERE shift_id=$1 AND therapist_id=$2 AND status=$3`
	application, err := r.fetchSingle(ctx, query, shiftID, therapistID, domain.ApplicationStatusPending)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return application, nil
}

func (r *applicationRepository) ListByShift(ctx context.Context, shiftID string) ([]domain.Application, error) {
	const query = `
        SELECT id, shift_id, therapist_id, status, created_at, updated_at, decided_at
        FROM applications WHERE shift_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Application
	for rows.Next() {
		var application domain.Application
		if err := rows.Scan(
			&application.ID,
			&application.ShiftID,
			&application.TherapistID,
			&application.Status,
			&application.CreatedAt,
			&application.UpdatedAt,
			&application.DecidedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, application)
	}
	return result, rows.Err()
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, decidedAt *time.Time) error {
	const query = `
        UPDATE applications SET status=$1, decided_at=COALESCE($2, decided_at), updated_at=NOW()
        WHERE id=$3 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query, to, decidedAt, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Application, error) {
	var application domain.Application
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&application.ID,
		&application.ShiftID,
		&application.TherapistID,
		&application.Status,
		&application.CreatedAt,
		&application.UpdatedAt,
		&application.DecidedAt,
	); err != nil {
		return nil, err
	}
	return &application, nil
}
