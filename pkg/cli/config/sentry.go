package config

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds CLI flags for error reporting
type Sentry struct {
	dsn string
	env string
}

func (x *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN, error reporting is disabled when empty",
			Category:    "Sentry",
			Destination: &x.dsn,
			Sources:     cli.EnvVars("SLACKLINE_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Category:    "Sentry",
			Destination: &x.env,
			Sources:     cli.EnvVars("SLACKLINE_SENTRY_ENV"),
		},
	}
}

func (x Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("dsn.len", len(x.dsn)),
		slog.String("env", x.env),
	)
}

// Configure initializes the Sentry SDK. The returned closer flushes buffered
// events and must be called on shutdown. It is a no-op when no DSN is set.
func (x *Sentry) Configure(version string) (func(), error) {
	if x.dsn == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         x.dsn,
		Environment: x.env,
		Release:     version,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
