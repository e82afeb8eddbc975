package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		json, debug bool
		encoding    string
		level       zapcore.Level
		sampled     bool
		hasService  bool
	}{
		{name: "console", encoding: "console", level: zapcore.InfoLevel},
		{name: "console debug", debug: true, encoding: "console", level: zapcore.DebugLevel},
		{name: "json", json: true, encoding: "json", level: zapcore.InfoLevel, sampled: true, hasService: true},
		{name: "json debug", json: true, debug: true, encoding: "json", level: zapcore.DebugLevel, hasService: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Config(tt.json, tt.debug)
			if cfg.Encoding != tt.encoding {
				t.Fatalf("expected encoding %q, got %q", tt.encoding, cfg.Encoding)
			}
			if cfg.Level.Level() != tt.level {
				t.Fatalf("expected level %s, got %s", tt.level, cfg.Level.Level())
			}
			if (cfg.Sampling != nil) != tt.sampled {
				t.Fatalf("expected sampling %v, got %+v", tt.sampled, cfg.Sampling)
			}
			if _, ok := cfg.InitialFields[FieldService]; ok != tt.hasService {
				t.Fatalf("expected service field %v, got %v", tt.hasService, cfg.InitialFields)
			}
			if cfg.EncoderConfig.MessageKey != "step" {
				t.Fatalf("unexpected message key %q", cfg.EncoderConfig.MessageKey)
			}
		})
	}
}

func TestNewBuildsLogger(t *testing.T) {
	t.Parallel()

	logger, err := New(true, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) || logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected info level logger")
	}
}
