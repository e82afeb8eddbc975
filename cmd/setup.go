package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/ai"
	"github.com/spigell/roadmap-matcher/internal/ai/gemini"
	"github.com/spigell/roadmap-matcher/internal/dataset"
	"github.com/spigell/roadmap-matcher/internal/logger"
	"github.com/spigell/roadmap-matcher/internal/observability"
	"github.com/spigell/roadmap-matcher/internal/secrets"
	"github.com/spigell/roadmap-matcher/internal/store"
)

// bootstrap creates the logger and reads the config. Failures are fatal.
func bootstrap() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func redacted(config *Config) Config {
	out := *config
	if out.Database.DSN != "" {
		out.Database.DSN = "***"
	}
	if out.Sentry.DSN != "" {
		out.Sentry.DSN = "***"
	}
	if out.AI != nil && out.AI.Gemini != nil && out.AI.Gemini.APIKey != "" {
		aiCfg := *out.AI
		geminiCfg := *aiCfg.Gemini
		geminiCfg.APIKey = "***"
		aiCfg.Gemini = &geminiCfg
		out.AI = &aiCfg
	}
	return out
}

func openStore(ctx context.Context, config *Config, logger *zap.Logger) (store.Store, error) {
	dsn, err := resolveDSN(config.Database)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, config.Database, dsn, logger)
}

// resolveDSN loads the connection string. Only postgres requires one.
func resolveDSN(cfg store.Config) (string, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == store.DriverMemory {
		return "", nil
	}

	dsn, err := secrets.Load(secrets.Source{
		Name:  "database dsn",
		File:  cfg.DSNFile,
		Value: cfg.DSN,
	})
	if err != nil && driver == store.DriverPostgres {
		return "", fmt.Errorf("%w (set database.dsn, DATABASE_URL or DATABASE_DSN_FILE)", err)
	}
	return dsn, nil
}

// requirePersistentStore fails for stores that lose their data when the command exits.
func requirePersistentStore(cfg store.Config) error {
	dsn, err := resolveDSN(cfg)
	if err != nil {
		return err
	}
	if store.Ephemeral(cfg, dsn) {
		driver := cfg.Driver
		if strings.TrimSpace(driver) == "" {
			driver = store.DriverMemory
		}
		return fmt.Errorf("database driver %q keeps data in process memory only; set database.driver to postgres or sqlite with a file dsn", driver)
	}
	return nil
}

// resolveSentryDSN returns an empty DSN when Sentry is not configured.
// A configured DSN file that cannot be read is logged as a warning.
func resolveSentryDSN(cfg observability.SentryConfig, logger *zap.Logger) string {
	dsn, err := secrets.Load(secrets.Source{Name: "sentry dsn", File: cfg.DSNFile, Value: cfg.DSN})
	if err != nil {
		if strings.TrimSpace(cfg.DSNFile) != "" {
			logger.Warn("sentry disabled: dsn file could not be loaded", zap.Error(err))
		}
		return ""
	}
	return dsn
}

// openAndImport opens the store and loads the datasets when it has no templates yet.
func openAndImport(ctx context.Context, config *Config, logger *zap.Logger) (store.Store, error) {
	st, err := openStore(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	summary, err := dataset.NewLoader(logger).ImportIfEmpty(ctx, st, config.Datasets)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("import datasets: %w", err)
	}
	if summary != nil {
		logSummary(logger, summary)
	}
	return st, nil
}

func logSummary(logger *zap.Logger, summary *dataset.Summary) {
	logger.Info("datasets imported",
		zap.Int("loaded", summary.Loaded),
		zap.Int("skipped", summary.Skipped),
		zap.Int64("removed", summary.Removed),
		zap.Strings("missing", summary.Missing),
	)
	for name, count := range summary.Datasets {
		logger.Info("dataset", zap.String("name", name), zap.Int("templates", count))
	}
	for _, d := range summary.TopDomains(10) {
		logger.Debug("domain", zap.String("domain", d.Domain), zap.Int("templates", d.Count))
	}
	if summary.Loaded == 0 {
		logger.Warn("no templates loaded", zap.Strings("datasets", viper.GetStringSlice("datasets")))
	}
}

// newSuggester builds the phase project chain. AI failures to initialize fall back to rules only.
func newSuggester(ctx context.Context, cfg *AIConfig, logger *zap.Logger) *ai.Fallback {
	rules := ai.NewRuleSuggester(nil)
	if cfg == nil || !cfg.Enabled {
		return ai.NewFallback(nil, rules, logger)
	}

	primary, err := newAISuggester(ctx, cfg, logger)
	if err != nil {
		logger.Warn("ai suggestions disabled", zap.Error(err))
		return ai.NewFallback(nil, rules, logger)
	}
	return ai.NewFallback(primary, rules, logger)
}

func newAISuggester(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Suggester, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Config{
		Model:      cfg.Gemini.Model,
		MaxRetries: cfg.Gemini.MaxRetries,
	}, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewSuggester(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
