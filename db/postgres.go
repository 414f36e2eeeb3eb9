package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgres opens a gorm connection. Debug log level turns on SQL logging.
func NewPostgres(dsn string) (*gorm.DB, error) {
	logLevel := logger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open postgres: %w", err)
	}

	logrus.Info("Connected to postgres")
	return db, nil
}
