package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wisewolf/educore-backend/internal/api"
	"github.com/wisewolf/educore-backend/internal/app"
	"github.com/wisewolf/educore-backend/internal/closing"
	"github.com/wisewolf/educore-backend/internal/config"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/jobs"
	"github.com/wisewolf/educore-backend/internal/logging"
	"github.com/wisewolf/educore-backend/internal/observability"
	"github.com/wisewolf/educore-backend/internal/pending"
	"github.com/wisewolf/educore-backend/internal/storage"
)

var version = "dev" // set via -ldflags at build time

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logg.Closer()
	log := logg.Sugar

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		log.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("db open failed", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		log.Fatalw("migrations failed", "err", err)
	}

	invoices, err := storage.NewInvoiceStore(cfg.InvoiceDir, cfg.InvoiceBaseURL)
	if err != nil {
		log.Fatalw("invoice store init failed", "err", err)
	}

	closings := &closing.Service{
		DB:       database,
		Invoices: invoices,
		Log:      logg.Named("closing"),
	}
	scanner := &pending.Scanner{
		DB:              database,
		Log:             logg.Named("pending"),
		Loc:             cfg.Location,
		GraceDays:       cfg.PendingGraceDays,
		HorizonDays:     cfg.PendingHorizonDays,
		LogLookbackDays: cfg.PendingLogLookbackDays,
	}

	srv := api.NewServer(cfg, database, logg.Named("api"), closings, scanner)

	app.StartOps(ctx, cfg.OpsAddr, database)

	reminders := &jobs.ReminderJob{
		DB:   database,
		Log:  logg.Named("reminders"),
		Loc:  cfg.Location,
		Lead: cfg.ReminderLead,
		Tick: cfg.ReminderInterval,
	}
	runner := jobs.New(ctx)
	runner.Every(cfg.ReminderInterval, cfg.ReminderJitter, "lesson_reminders", reminders.Run)

	go func() {
		log.Infow("api listening", "addr", cfg.APIAddr, "env", cfg.Env, "version", version)
		if err := srv.Listen(cfg.APIAddr); err != nil {
			log.Errorw("api server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = srv.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-shCtx.Done():
		log.Warnw("shutdown timed out")
	}
	_ = os.Stdout.Sync()
}
