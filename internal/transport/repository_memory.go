package transport

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository keeps bookings in process memory. Used by tests and
// for local runs without a database.
type InMemoryRepository struct {
	mu       sync.Mutex
	bookings []*Booking
	now      func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: time.Now}
}

func (r *InMemoryRepository) InsertAll(ctx context.Context, bookings []*Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range bookings {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		b.CreatedAt = r.now()

		stored := *b
		r.bookings = append(r.bookings, &stored)
	}
	return nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		cp := *b
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BookingDate != out[j].BookingDate {
			return out[i].BookingDate > out[j].BookingDate
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
