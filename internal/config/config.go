package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	APIAddr     string
	OpsAddr     string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	Location    *time.Location

	JWTSecret string
	JWTTTL    time.Duration

	// Invoice files are written here and served under InvoiceBaseURL.
	InvoiceDir     string
	InvoiceBaseURL string

	// Reminder watchdog.
	ReminderLead     time.Duration
	ReminderInterval time.Duration
	ReminderJitter   time.Duration

	// Pending-lesson scan window, in days back from today.
	PendingGraceDays   int
	PendingHorizonDays int
	// How far back class logs are fetched when matching. The legacy UI used
	// 3 days here, which double-counts late-logged lessons; default covers
	// the whole scan window.
	PendingLogLookbackDays int
}

func Load() (*Config, error) {
	tz := getenv("TZ", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	cfg := &Config{
		DatabaseURL: mustEnv("DATABASE_URL"),
		APIAddr:     getenv("API_ADDR", ":8080"),
		OpsAddr:     getenv("OPS_ADDR", ":9090"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Env:         getenv("ENV", "dev"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Location:    loc,

		JWTSecret: mustEnv("JWT_SECRET"),
		JWTTTL:    getduration("JWT_TTL", 12*time.Hour),

		InvoiceDir:     getenv("INVOICE_DIR", "./data/invoices"),
		InvoiceBaseURL: getenv("INVOICE_BASE_URL", "/files/invoices"),

		ReminderLead:     getduration("REMINDER_LEAD", 60*time.Minute),
		ReminderInterval: getduration("REMINDER_INTERVAL", time.Minute),
		ReminderJitter:   getduration("REMINDER_JITTER", 5*time.Second),

		PendingGraceDays:       getint("PENDING_GRACE_DAYS", 7),
		PendingHorizonDays:     getint("PENDING_HORIZON_DAYS", 30),
		PendingLogLookbackDays: getint("PENDING_LOG_LOOKBACK_DAYS", 30),
	}
	if cfg.PendingGraceDays > cfg.PendingHorizonDays {
		return nil, fmt.Errorf("PENDING_GRACE_DAYS (%d) > PENDING_HORIZON_DAYS (%d)", cfg.PendingGraceDays, cfg.PendingHorizonDays)
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
