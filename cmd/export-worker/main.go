package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"mealdesk/internal/archive"
	"mealdesk/internal/config"
	"mealdesk/internal/db"
	"mealdesk/internal/deadline"
	"mealdesk/internal/meal"
	"mealdesk/internal/storage"
	"mealdesk/internal/transport"
)

func main() {
	config.LoadDotEnv()

	log.Println("📦 Export worker starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if !cfg.Complete() {
		log.Fatalf("Missing env vars: %v", cfg.Missing())
	}
	if cfg.R2 == nil {
		log.Fatal("R2_* variables are not set; nothing to archive to")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	pgDB, err := db.ConnectPostgres(ctx, cfg.RecordStoreURL, cfg.RecordStoreKey)
	if err != nil {
		log.Fatal(err)
	}
	defer pgDB.Close()

	r2Client, err := storage.NewR2Client(ctx, cfg.R2)
	if err != nil {
		log.Fatal("R2 init failed:", err)
	}

	policy := deadline.NewPolicy(cfg.Location, time.Now)

	job := archive.NewJob(
		policy,
		r2Client,
		cfg.ExportHour,
		meal.NewService(meal.NewPostgresRepository(pgDB), policy, nil, cfg.RecordStoreTimeout),
		transport.NewService(transport.NewPostgresRepository(pgDB), policy, nil, cfg.RecordStoreTimeout),
	)

	log.Printf("✅ Export worker running, daily after %02d:00 %s. Press Ctrl+C to stop.", cfg.ExportHour, cfg.Location)
	job.Run(ctx, time.Minute)
}
