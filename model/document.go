package model

import "time"

type Document struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	OwnerID     string    `gorm:"index" json:"ownerId"`
	Name        string    `json:"name"`
	S3Key       string    `json:"-"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`

	Links []Link `gorm:"foreignKey:DocumentID" json:"-"`
}
