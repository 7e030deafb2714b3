package meal

import "context"

// Repository is the record store for food orders.
type Repository interface {
	// Insert stores a new order and fills ID and CreatedAt.
	Insert(ctx context.Context, order *Order) error

	// ListAll returns every order, newest order date first, then newest
	// creation time first.
	ListAll(ctx context.Context) ([]*Order, error)
}
