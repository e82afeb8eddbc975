package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldGoal is the structured log field key for the requested learning goal.
	FieldGoal = "goal"
	// FieldDomain is the structured log field key for the requested domain.
	FieldDomain = "domain"
	// FieldUserID is the structured log field key for the roadmap owner.
	FieldUserID = "user_id"
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
	// FieldService names the emitting service in json logs.
	FieldService = "service"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, falling back to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RequestFields describes a roadmap request. Anonymous requests carry no user field.
func RequestFields(goal, domain, userID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldGoal, Value: goal},
		StringField{Key: FieldDomain, Value: domain},
		StringField{Key: FieldUserID, Value: userID},
	)
}

// ProviderFields describes the AI backend behind a call.
func ProviderFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
