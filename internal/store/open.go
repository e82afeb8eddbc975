package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spigell/roadmap-matcher/internal/utils"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultConnectRetries = 5
	connectBackoff        = 2 * time.Second
)

// Config selects and tunes the storage backend.
type Config struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	DSNFile         string        `mapstructure:"dsn-file"`
	MaxOpenConns    int           `mapstructure:"max-open-conns"`
	MaxIdleConns    int           `mapstructure:"max-idle-conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn-max-lifetime"`
	ConnectRetries  int           `mapstructure:"connect-retries"`
}

// Open connects to the configured backend. dsn is the resolved connection string.
func Open(ctx context.Context, cfg Config, dsn string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	var dialector gorm.Dialector

	switch driver {
	case "", DriverMemory:
		logger.Info("using in-memory store")
		return NewMemory(), nil
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		if strings.TrimSpace(dsn) == "" {
			dsn = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := connect(ctx, dialector, cfg, logger)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite && strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Info("database connected", zap.String("driver", driver))

	return NewGorm(ctx, db, logger)
}

// Ephemeral reports whether cfg with dsn keeps data only for the life of the process.
func Ephemeral(cfg Config, dsn string) bool {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return true
	case DriverSQLite:
		dsn = strings.TrimSpace(dsn)
		return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
	}
	return false
}

func connect(ctx context.Context, dialector gorm.Dialector, cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	retries := cfg.ConnectRetries
	if retries <= 0 {
		retries = defaultConnectRetries
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		db, err := gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			err = configurePool(ctx, db, cfg)
		}
		if err == nil {
			return db, nil
		}

		lastErr = err
		logger.Warn("database connection failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", retries),
			zap.Error(err),
		)

		if attempt == retries {
			break
		}
		if err := utils.WaitFor(ctx, connectBackoff*time.Duration(attempt)); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to connect to database: %w", lastErr)
}

func configurePool(ctx context.Context, db *gorm.DB, cfg Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return sqlDB.PingContext(ctx)
}
