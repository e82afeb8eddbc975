package observability

import (
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const (
	sentryFlushTimeout      = 2 * time.Second
	defaultTracesSampleRate = 0.2
)

// SentryConfig configures error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN              string  `mapstructure:"dsn"`
	DSNFile          string  `mapstructure:"dsn-file"`
	Environment      string  `mapstructure:"environment"`
	TracesSampleRate float64 `mapstructure:"traces-sample-rate"`
}

// FlushFunc waits for buffered events to be sent.
type FlushFunc func()

// InitSentry initializes the global Sentry hub. It reports false when Sentry stays disabled.
func InitSentry(cfg SentryConfig, dsn, version string, logger *zap.Logger) (FlushFunc, bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return func() {}, false, nil
	}

	rate := cfg.TracesSampleRate
	if rate <= 0 || rate > 1 {
		rate = defaultTracesSampleRate
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          strings.TrimSpace(version),
		Environment:      strings.TrimSpace(cfg.Environment),
		EnableTracing:    true,
		TracesSampleRate: rate,
	}); err != nil {
		return func() {}, false, err
	}

	logger.Info("sentry enabled", zap.String("environment", cfg.Environment), zap.Float64("traces_sample_rate", rate))

	return func() { sentry.Flush(sentryFlushTimeout) }, true, nil
}
