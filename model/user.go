package model

import "time"

// User is a dataroom owner account. Visitors never have accounts; only the
// owner-facing management endpoints authenticate against this table.
type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"unique; not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time

	Datarooms []Dataroom `gorm:"foreignKey:OwnerID"`
}
