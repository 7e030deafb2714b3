package meal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository keeps orders in process memory. Used by tests and
// for local runs without a database.
type InMemoryRepository struct {
	mu     sync.Mutex
	orders []*Order
	now    func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: time.Now}
}

func (r *InMemoryRepository) Insert(ctx context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = r.now()

	stored := *order
	r.orders = append(r.orders, &stored)
	return nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderDate != out[j].OrderDate {
			return out[i].OrderDate > out[j].OrderDate
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
