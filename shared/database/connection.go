package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"projecthub-backend/shared/config"
	"projecthub-backend/shared/database/models"
)

// getLogLevel returns appropriate log level based on environment
func getLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.IsProduction() {
		return logger.Error
	}
	return logger.Warn
}

// InitDatabase opens the postgres pool and runs migrations.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(getLogLevel(cfg)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection established", slog.String("host", cfg.DBHost), slog.String("database", cfg.DBName))

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

// AllModels lists every table owned by the service, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.Organization{},
		&models.User{},
		&models.Member{},
		&models.Project{},
		&models.APIKey{},
		&models.Asset{},
		&models.AuditLog{},
	}
}

// RunMigrations creates missing tables and columns.
func RunMigrations(db *gorm.DB) error {
	migrator := db.Migrator()

	migratedCount := 0
	for _, model := range AllModels() {
		if !migrator.HasTable(model) {
			slog.Info("Creating table", slog.String("model", fmt.Sprintf("%T", model)[1:]))
			migratedCount++
		}

		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	if migratedCount > 0 {
		slog.Info("Database migrations completed", slog.Int("tables_created", migratedCount))
	} else {
		slog.Info("Database schema is up to date")
	}

	return nil
}

// DropAll removes every table owned by the service.
func DropAll(db *gorm.DB) error {
	tables := AllModels()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("failed to drop %T: %w", tables[i], err)
		}
		slog.Info("Dropped table", slog.String("model", fmt.Sprintf("%T", tables[i])[1:]))
	}
	return nil
}

// Ping checks that the pool can still reach the server.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
