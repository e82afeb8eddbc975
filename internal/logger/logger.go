package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is attached to every json log line.
const Service = "roadmap-matcher"

// New builds the application logger. json switches the encoder, debug lowers the level.
func New(json bool, debug bool) (*zap.Logger, error) {
	logger, err := Config(json, debug).Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// Config returns the zap configuration used by New.
// Json output carries the service name and is sampled unless debug is on.
func Config(json bool, debug bool) zap.Config {
	level := zapcore.InfoLevel

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			StacktraceKey:  "stacktrace",
			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}

	if json {
		cfg.Encoding = "json"
		cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
		cfg.InitialFields = map[string]any{FieldService: Service}
		if !debug {
			cfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
		}
	}

	return cfg
}
