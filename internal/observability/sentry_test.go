package observability

import (
	"testing"

	"go.uber.org/zap"
)

func TestInitSentryDisabledWithoutDSN(t *testing.T) {
	t.Parallel()

	flush, enabled, err := InitSentry(SentryConfig{}, "  ", "test", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enabled {
		t.Fatal("expected sentry to stay disabled")
	}
	flush()
}

func TestInitSentryRejectsMalformedDSN(t *testing.T) {
	t.Parallel()

	_, enabled, err := InitSentry(SentryConfig{}, "not a dsn", "test", nil)
	if err == nil {
		t.Fatal("expected an error for a malformed dsn")
	}
	if enabled {
		t.Fatal("expected sentry to stay disabled")
	}
}
