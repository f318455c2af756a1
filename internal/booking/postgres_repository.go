package booking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the appointments table.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q rowQuerier) *PostgresRepository {
	if q == nil {
		panic("booking: querier required")
	}
	return &PostgresRepository{pool: q}
}

const insertAppointmentSQL = `
	INSERT INTO appointments (name, email, phone, service, barber, date_time, duration, status, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at
`

// Insert writes one row and returns it with the generated id.
func (r *PostgresRepository) Insert(ctx context.Context, appt NewAppointment) (*Appointment, error) {
	row := &Appointment{
		Name:     appt.Name,
		Email:    appt.Email,
		Phone:    appt.Phone,
		Service:  appt.Service,
		Barber:   appt.Barber,
		DateTime: appt.DateTime,
		Duration: appt.Duration,
		Status:   appt.Status,
		Notes:    appt.Notes,
	}
	if err := r.pool.QueryRow(ctx, insertAppointmentSQL,
		appt.Name,
		appt.Email,
		appt.Phone,
		appt.Service,
		appt.Barber,
		appt.DateTime,
		appt.Duration,
		string(appt.Status),
		appt.Notes,
	).Scan(&row.ID, &row.CreatedAt); err != nil {
		return nil, fmt.Errorf("booking: insert failed: %w", err)
	}
	return row, nil
}
