package db

import (
	"persona_diary/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Open connects to MySQL. TranslateError is on so duplicate-key violations
// surface as gorm.ErrDuplicatedKey, which the answer ledger relies on.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate performs automatic migration for the database schema and seeds the
// question catalog
func Migrate(dsn string) {
	gdb, err := Open(dsn) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = gdb.AutoMigrate(&domain.User{}, &domain.Character{}, &domain.Question{}, &domain.Answer{})
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	// Catalog seeding is part of schema bootstrap
	if err := SeedQuestions(gdb); err != nil {
		logrus.Fatalf("question seeding failed: %v", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
}
