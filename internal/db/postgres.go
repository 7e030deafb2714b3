package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens the record store pool. key, when set, overrides the
// password in url.
func ConnectPostgres(ctx context.Context, url, key string) (*pgxpool.Pool, error) {
	config, err := PoolConfig(url, key)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("record store connection failed: %w", err)
	}

	log.Println("✅ Connected to record store")

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return db, nil
}

// PoolConfig parses url and applies the pool limits.
func PoolConfig(url, key string) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse record store url: %w", err)
	}

	if key != "" {
		config.ConnConfig.Password = key
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	return config, nil
}

// initSchema creates the tables if they do not exist yet
func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}

var schema = []string{
	// -------------------------------
	// FOOD ORDERS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS food_orders (
		id UUID PRIMARY KEY,
		user_name VARCHAR(255) NOT NULL,
		user_email VARCHAR(255) NOT NULL,
		order_date VARCHAR(10) NOT NULL,
		meal_type VARCHAR(50) NOT NULL,
		lunch_preference VARCHAR(20) NOT NULL DEFAULT 'none',
		lunch_type VARCHAR(30) NOT NULL DEFAULT 'none',
		dinner_preference VARCHAR(20) NOT NULL DEFAULT 'none',
		dinner_type VARCHAR(30) NOT NULL DEFAULT 'none',
		lunch_price INT NOT NULL DEFAULT 0,
		dinner_price INT NOT NULL DEFAULT 0,
		total_price INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
	`,
	`CREATE INDEX IF NOT EXISTS food_orders_order_date_idx ON food_orders (order_date DESC, created_at DESC)`,

	// -------------------------------
	// TRANSPORT BOOKINGS
	// -------------------------------
	`
	CREATE TABLE IF NOT EXISTS transport_bookings (
		id UUID PRIMARY KEY,
		user_name VARCHAR(255) NOT NULL DEFAULT '',
		user_email VARCHAR(255) NOT NULL DEFAULT '',
		booking_date VARCHAR(10) NOT NULL,
		booking_type VARCHAR(10) NOT NULL CHECK (booking_type IN ('pickup', 'dropoff')),
		shift_end_time VARCHAR(20) NULL,
		gender VARCHAR(10) NULL,
		route VARCHAR(100) NULL,
		pickup_time VARCHAR(50) NULL,
		pickup_address TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
	`,
	`CREATE INDEX IF NOT EXISTS transport_bookings_booking_date_idx ON transport_bookings (booking_date DESC, created_at DESC)`,
}
