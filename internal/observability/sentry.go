// Package observability wires the error sink. With no DSN configured the
// helpers are no-ops, so local runs and tests need no setup.
package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// InitSentry initializes the sink and returns a flush func for shutdown.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}

// CaptureErr reports err unless it is nil.
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}
