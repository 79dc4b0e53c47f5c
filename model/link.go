package model

import "time"

// Link is a shareable pointer to a single document. The authorization
// engine only ever reads links; creation and mutation happen through the
// management endpoints.
type Link struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	DocumentID     string     `gorm:"index" json:"documentId"`
	Password       *string    `json:"-"` // argon2 PHC hash, nil when not password protected
	EmailProtected bool       `json:"emailProtected"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	IsArchived     bool       `json:"isArchived"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
