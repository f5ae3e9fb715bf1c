// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/placese/placese-beatstore/internal/config"
	"github.com/placese/placese-beatstore/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// Configure GORM logger
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if cfg.LogLevel == "info" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	// Connect to database
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", cfg.Driver).Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

// Models lists every persisted entity in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Genre{},
		&models.LicenseType{},
		&models.Beatmaker{},
		&models.Beat{},
		&models.Playlist{},
		&models.Customer{},
		&models.Cart{},
		&models.CartProduct{},
		&models.Order{},
		&models.Notification{},
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Debug("Running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Debug("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_beats_price ON beats(price)",
		"CREATE INDEX IF NOT EXISTS idx_beats_release_date ON beats(release_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_carts_owner_open ON carts(owner_id, in_order)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_status ON orders(customer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_recipient_read ON notifications(recipient_id, read)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// Default catalog rows inserted by SeedInitialData.
var (
	defaultLicenseTypes = []models.LicenseType{
		{Name: "Basic", Description: "MP3 lease for non-profit use", FileType: "MP3", NumberOfCopies: "2 500"},
		{Name: "Premium", Description: "WAV lease for commercial releases", FileType: "MP3, WAV", NumberOfCopies: "10 000"},
		{Name: "Unlimited", Description: "Track-out stems with unlimited distribution", FileType: "MP3, WAV, stems", NumberOfCopies: "Unlimited"},
		{Name: "Exclusive", Description: "Full ownership transfer, beat is removed from sale", FileType: "MP3, WAV, stems", NumberOfCopies: "Unlimited"},
	}
	defaultGenres = []string{"Hip-Hop", "Trap", "Drill", "R&B", "Lo-Fi", "Pop"}
)

func SeedInitialData(db *gorm.DB) error {
	logrus.Info("Seeding initial data")

	for _, lt := range defaultLicenseTypes {
		lt.Slug = slug.Make(lt.Name)
		if err := createIfMissing(db, &models.LicenseType{}, lt.Slug, &lt); err != nil {
			return fmt.Errorf("failed to seed license type %s: %w", lt.Name, err)
		}
	}

	for _, name := range defaultGenres {
		genre := models.Genre{Name: name, Slug: slug.Make(name)}
		if err := createIfMissing(db, &models.Genre{}, genre.Slug, &genre); err != nil {
			return fmt.Errorf("failed to seed genre %s: %w", name, err)
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}

func createIfMissing(db *gorm.DB, model interface{}, slugValue string, value interface{}) error {
	err := db.Model(model).Where("slug = ?", slugValue).First(model).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(value).Error
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
