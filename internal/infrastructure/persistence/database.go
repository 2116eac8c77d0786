package persistence

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopfront/gateway/internal/infrastructure/config"
	"github.com/shopfront/gateway/internal/infrastructure/logger"
)

// NewDatabase opens the analytics spool database. SQLite keeps single
// instance deployments dependency-free; Postgres serves multi-replica
// deployments where the spool must be shared.
func NewDatabase(cfg *config.SpoolConfig, zapLogger *zap.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.NewGormLogger(zapLogger),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	default:
		return nil, fmt.Errorf("persistence: unsupported spool driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: failed to open spool database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("persistence: failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	if err := db.AutoMigrate(&SpooledEvent{}); err != nil {
		return nil, fmt.Errorf("persistence: migration failed: %w", err)
	}

	return db, nil
}
