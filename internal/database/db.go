package database

import (
	"log"

	"procurement_backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate creates/updates the schema, including the RESTRICT/CASCADE foreign
// keys that back the referential-integrity rules.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Office{},
		&model.User{},
		&model.ItemCategory{},
		&model.Item{},
		&model.Request{},
		&model.RequestItem{},
		&model.SystemSetting{},
	)
}
