package transport

import "context"

// Repository is the record store for bookings. InsertAll stores every
// booking of one submission or none of them.
type Repository interface {
	InsertAll(ctx context.Context, bookings []*Booking) error
	ListAll(ctx context.Context) ([]*Booking, error)
}
