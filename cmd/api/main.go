package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"mealdesk/internal/config"
	"mealdesk/internal/db"
	"mealdesk/internal/deadline"
	"mealdesk/internal/meal"
	"mealdesk/internal/notify"
	"mealdesk/internal/report"
	"mealdesk/internal/router"
	"mealdesk/internal/session"
	"mealdesk/internal/storage"
	"mealdesk/internal/transport"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without the record store nothing but /health is served.
	if !cfg.Complete() {
		for _, k := range cfg.Missing() {
			log.Printf("❌ Missing env var: %s", k)
		}
		r := router.NewUnconfiguredRouter(cfg.Missing(), cfg.CORSOrigins)
		log.Printf("⚠️  API running in configuration-error mode at http://localhost:%s", cfg.Port)
		if err := router.ListenAndServe(ctx, ":"+cfg.Port, r); err != nil {
			log.Fatal(err)
		}
		return
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB, err := db.ConnectPostgres(ctx, cfg.RecordStoreURL, cfg.RecordStoreKey)
	if err != nil {
		log.Fatal("❌ Record store init failed:", err)
	}
	defer pgDB.Close()

	// ───────────────────────── STORAGE ─────────────────────────
	var archiver report.Archiver
	if cfg.R2 != nil {
		r2Client, err := storage.NewR2Client(ctx, cfg.R2)
		if err != nil {
			log.Fatal("❌ R2 init failed:", err)
		}
		archiver = r2Client
	} else {
		log.Println("Note: R2 not configured, export archive disabled")
	}

	// ───────────────────────── SERVICES ─────────────────────────
	policy := deadline.NewPolicy(cfg.Location, time.Now)
	notifier := notify.NewLogNotifier(cfg.HREmail, nil)

	mealService := meal.NewService(
		meal.NewPostgresRepository(pgDB),
		policy,
		notifier,
		cfg.RecordStoreTimeout,
	)
	transportService := transport.NewService(
		transport.NewPostgresRepository(pgDB),
		policy,
		notifier,
		cfg.RecordStoreTimeout,
	)

	// ───────────────────────── FORM SESSIONS ─────────────────────────
	mealSessions := session.NewRegistry[*meal.Session]("meal", cfg.SessionIdleTTL)
	transportSessions := session.NewRegistry[*transport.Session]("transport", cfg.SessionIdleTTL)

	// Sweepers outlive the listener so sessions are closed only after the
	// last request has drained.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{}, 2)
	for _, sweep := range []func(context.Context, time.Duration){mealSessions.RunSweeper, transportSessions.RunSweeper} {
		go func() {
			sweep(sweepCtx, time.Minute)
			sweepDone <- struct{}{}
		}()
	}

	// ───────────────────────── ROUTES ─────────────────────────
	r := router.NewRouter(router.Deps{
		CORSOrigins:    cfg.CORSOrigins,
		Meals:          meal.NewHandler(mealService, mealSessions, cfg.SuccessResetDelay),
		MealsAdmin:     meal.NewAdminHandler(mealService, archiver),
		Transport:      transport.NewHandler(transportService, transportSessions, cfg.SuccessResetDelay),
		TransportAdmin: transport.NewAdminHandler(transportService, archiver),
	})

	// ───────────────────────── START ─────────────────────────
	log.Printf("🚀 API running at http://localhost:%s (timezone %s)", cfg.Port, cfg.Location)
	if err := router.ListenAndServe(ctx, ":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}

	stopSweep()
	<-sweepDone
	<-sweepDone
	log.Println("✅ API stopped")
}
