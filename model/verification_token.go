package model

import "time"

// VerificationToken is one outstanding one-time access code. Identifier is
// the link or dataroom id the code authorizes. Tokens are deleted on first
// successful validation and on expiry detection, so a row that still exists
// has never been redeemed.
type VerificationToken struct {
	ID         int    `gorm:"primaryKey;autoincrement"`
	Token      string `gorm:"uniqueIndex"`
	Identifier string `gorm:"index"`
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
