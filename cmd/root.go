package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/roadmap-matcher/internal/api"
	"github.com/spigell/roadmap-matcher/internal/observability"
	"github.com/spigell/roadmap-matcher/internal/store"
)

const (
	app = "roadmap-matcher"

	defaultDataset = "data/roadmap_dataset.csv"
)

type Config struct {
	Database store.Config                `mapstructure:"database"`
	Datasets []string                    `mapstructure:"datasets"`
	HTTP     *HTTPConfig                 `mapstructure:"http"`
	AI       *AIConfig                   `mapstructure:"ai"`
	Tracing  observability.TracingConfig `mapstructure:"tracing"`
	Sentry   observability.SentryConfig  `mapstructure:"sentry"`
}

type HTTPConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors-origins"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "roadmap-matcher turns a learning goal into a roadmap picked from curated datasets",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"database.dsn":           "DATABASE_URL",
		"database.dsn-file":      "DATABASE_DSN_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"sentry.dsn":             "SENTRY_DSN",
		"http.listen":            "ROADMAP_LISTEN",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("database.driver", store.DriverMemory)
	viper.SetDefault("datasets", []string{defaultDataset})
	viper.SetDefault("http.listen", api.DefaultListen)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is roadmap-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logs and version output")
	rootCmd.PersistentFlags().StringSlice("dataset", nil, "dataset files (.csv or .xlsx) to import, in order")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("datasets", rootCmd.PersistentFlags().Lookup("dataset"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
