package transport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Insert bookings (single transaction)
// --------------------------------------------------
func (r *PostgresRepository) InsertAll(ctx context.Context, bookings []*Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range bookings {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO transport_bookings (
				id,
				user_name,
				user_email,
				booking_date,
				booking_type,
				shift_end_time,
				gender,
				route,
				pickup_time,
				pickup_address
			)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING created_at
		`,
			b.ID,
			b.UserName,
			b.UserEmail,
			b.BookingDate,
			b.BookingType,
			nullable(b.ShiftEndTime),
			nullable(string(b.Gender)),
			nullable(b.Route),
			nullable(b.PickupTime),
			nullable(b.PickupAddress),
		).Scan(&b.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert %s booking: %w", b.BookingType, err)
		}
	}

	return tx.Commit(ctx)
}

// --------------------------------------------------
// List all bookings (admin)
// --------------------------------------------------
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			user_name,
			user_email,
			booking_date,
			booking_type,
			shift_end_time,
			gender,
			route,
			pickup_time,
			pickup_address,
			created_at
		FROM transport_bookings
		ORDER BY booking_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query transport bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*Booking, 0)

	for rows.Next() {
		var (
			b                         Booking
			shiftEnd, gender, route   *string
			pickupTime, pickupAddress *string
		)
		if err := rows.Scan(
			&b.ID,
			&b.UserName,
			&b.UserEmail,
			&b.BookingDate,
			&b.BookingType,
			&shiftEnd,
			&gender,
			&route,
			&pickupTime,
			&pickupAddress,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transport booking: %w", err)
		}

		b.ShiftEndTime = deref(shiftEnd)
		b.Gender = Gender(deref(gender))
		b.Route = deref(route)
		b.PickupTime = deref(pickupTime)
		b.PickupAddress = deref(pickupAddress)

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transport bookings: %w", err)
	}

	return bookings, nil
}

// nullable stores empty optional fields as NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
