package meal

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
// Insert order
// --------------------------------------------------
func (r *PostgresRepository) Insert(ctx context.Context, order *Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO food_orders (
			id,
			user_name,
			user_email,
			order_date,
			meal_type,
			lunch_preference,
			lunch_type,
			dinner_preference,
			dinner_type,
			lunch_price,
			dinner_price,
			total_price
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at
	`,
		order.ID,
		order.UserName,
		order.UserEmail,
		order.OrderDate,
		order.MealType,
		order.LunchPreference,
		order.LunchType,
		order.DinnerPreference,
		order.DinnerType,
		order.LunchPrice,
		order.DinnerPrice,
		order.TotalPrice,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert food order: %w", err)
	}

	return nil
}

// --------------------------------------------------
// List all orders (admin)
// --------------------------------------------------
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			user_name,
			user_email,
			order_date,
			meal_type,
			lunch_preference,
			lunch_type,
			dinner_preference,
			dinner_type,
			lunch_price,
			dinner_price,
			total_price,
			created_at
		FROM food_orders
		ORDER BY order_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query food orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)

	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.UserName,
			&o.UserEmail,
			&o.OrderDate,
			&o.MealType,
			&o.LunchPreference,
			&o.LunchType,
			&o.DinnerPreference,
			&o.DinnerType,
			&o.LunchPrice,
			&o.DinnerPrice,
			&o.TotalPrice,
			&o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan food order: %w", err)
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read food orders: %w", err)
	}

	return orders, nil
}
