// cmd/beatstore/main.go
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/placese/placese-beatstore/internal/config"
	"github.com/placese/placese-beatstore/internal/database"
	"github.com/placese/placese-beatstore/internal/i18n"
	"github.com/placese/placese-beatstore/internal/services"
	"github.com/placese/placese-beatstore/internal/utils"
)

func main() {
	seed := flag.Bool("seed", false, "insert default genres and license types")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	setupLogging(cfg.Log)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
	}

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	svc, err := services.New(db, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize services")
	}

	if *seed {
		if err := database.SeedInitialData(db); err != nil {
			logrus.WithError(err).Fatal("Failed to seed initial data")
		}
	}

	genres, err := svc.Catalog.ListGenres()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to read catalog")
	}
	licenses, err := svc.Catalog.ListLicenseTypes()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to read catalog")
	}
	_, beatCount, err := svc.Beats.SearchBeats(services.BeatSearchParams{
		PaginationParams: utils.PaginationParams{Limit: 1},
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to read catalog")
	}

	logrus.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"driver":        cfg.Database.Driver,
		"genres":        len(genres),
		"license_types": len(licenses),
		"beats":         beatCount,
		"languages":     i18n.GetSupportedLanguages(),
	}).Info("Beatstore database ready")
}

func setupLogging(cfg config.LogConfig) {
	logrus.SetOutput(os.Stdout)
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
