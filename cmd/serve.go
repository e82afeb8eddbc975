package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/api"
	"github.com/spigell/roadmap-matcher/internal/engine"
	"github.com/spigell/roadmap-matcher/internal/observability"
)

const tracingShutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the roadmap HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8000)")

	viper.BindPFlag("http.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := bootstrap()
	logger.Info("starting the roadmap-matcher", zap.String("version", version))

	shutdownTracing, err := observability.InitTracing(ctx, config.Tracing, version, logger)
	if err != nil {
		logger.Fatal("initializing tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutting down tracing", zap.Error(err))
		}
	}()

	sentryDSN := resolveSentryDSN(config.Sentry, logger)
	flushSentry, sentryEnabled, err := observability.InitSentry(config.Sentry, sentryDSN, version, logger)
	if err != nil {
		logger.Error("sentry init failed", zap.Error(err))
	}
	defer flushSentry()

	st, err := openAndImport(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the store", zap.Error(err))
	}
	defer st.Close()

	var listen string
	var origins []string
	if config.HTTP != nil {
		listen = config.HTTP.Listen
		origins = config.HTTP.CORSOrigins
	}

	router := api.NewRouter(api.RouterConfig{
		Roadmaps:    engine.New(st, nil, logger),
		Projects:    newSuggester(ctx, config.AI, logger),
		Health:      st,
		Logger:      logger,
		Version:     version,
		CORSOrigins: origins,
		Tracing:     config.Tracing.Enabled,
		Sentry:      sentryEnabled,
	})

	if err := api.NewServer(listen, router, logger).Run(ctx); err != nil {
		logger.Error("http server stopped", zap.Error(err))
		return
	}
	logger.Info("exiting", zap.String("reason", "shutdown requested"))
}
