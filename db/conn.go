// Package db opens the database connection and keeps the schema migrated
package db

import (
	"fmt"

	"paperroom/access-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database and migrates the schema. The driver is
// picked with db.driver (sqlite or postgres); db.dsn is handed to the
// driver untouched.
func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dial = postgres.Open(viper.GetString("db.dsn"))
	default:
		dial = sqlite.Open(viper.GetString("db.dsn"))
	}

	db, err := gorm.Open(dial)
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate keeps the schema in sync. Separated from New so tests can run it
// against their own in-memory handles.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		model.User{},
		model.Document{},
		model.Link{},
		model.Dataroom{},
		model.VerificationToken{},
		model.View{},
	)
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}
