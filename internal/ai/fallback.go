package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Suggestions is the outcome of a phase request together with the method that produced it.
type Suggestions struct {
	Projects []Project `json:"recommendations"`
	Method   string    `json:"method"`
}

// Fallback asks the primary suggester first and falls back to rules when it is absent or fails.
type Fallback struct {
	primary Suggester
	rules   Suggester
	logger  *zap.Logger
}

// NewFallback creates a fallback chain. primary may be nil.
func NewFallback(primary, rules Suggester, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rules == nil {
		rules = NewRuleSuggester(nil)
	}
	return &Fallback{primary: primary, rules: rules, logger: logger}
}

func (f *Fallback) Suggest(ctx context.Context, phase Phase, limit int) (*Suggestions, error) {
	if strings.TrimSpace(phase.Name) == "" {
		return nil, ErrEmptyPhase
	}
	limit = normalizeLimit(limit)

	if f.primary != nil {
		projects, err := f.primary.Suggest(ctx, phase, limit)
		switch {
		case err != nil:
			f.logger.Warn("ai suggestions failed, using rules", zap.String("phase", phase.Name), zap.Error(err))
		case len(projects) == 0:
			f.logger.Warn("ai returned no suggestions, using rules", zap.String("phase", phase.Name))
		default:
			return &Suggestions{Projects: projects, Method: MethodAI}, nil
		}
	}

	projects, err := f.rules.Suggest(ctx, phase, limit)
	if err != nil {
		return nil, err
	}
	return &Suggestions{Projects: projects, Method: MethodRules}, nil
}
