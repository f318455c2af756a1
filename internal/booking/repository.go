package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists appointments. Insert returns the stored row including
// the store-generated id.
type Repository interface {
	Insert(ctx context.Context, appt NewAppointment) (*Appointment, error)
}

// InMemoryRepository keeps appointments in process memory. It backs
// USE_MEMORY_STORE deployments and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	rows  []Appointment
	clock func() time.Time
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{clock: time.Now}
}

// Insert stores a copy of appt under a fresh id.
func (r *InMemoryRepository) Insert(ctx context.Context, appt NewAppointment) (*Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := Appointment{
		ID:        uuid.NewString(),
		Name:      appt.Name,
		Email:     appt.Email,
		Phone:     appt.Phone,
		Service:   appt.Service,
		Barber:    appt.Barber,
		DateTime:  appt.DateTime,
		Duration:  appt.Duration,
		Status:    appt.Status,
		Notes:     appt.Notes,
		CreatedAt: r.clock().UTC(),
	}

	r.mu.Lock()
	r.rows = append(r.rows, row)
	r.mu.Unlock()

	return &row, nil
}

// List returns a snapshot of all stored appointments in insertion order.
func (r *InMemoryRepository) List() []Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Appointment(nil), r.rows...)
}
