package model

import "time"

// Dataroom groups multiple documents behind a single gate. It carries the
// same protection attributes as Link but is owned by a user, and only the
// owner may change its metadata.
type Dataroom struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	OwnerID        string     `gorm:"index" json:"ownerId"`
	Password       *string    `json:"-"`
	EmailProtected bool       `json:"emailProtected"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	IsArchived     bool       `json:"isArchived"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
