package model

import "time"

// View is one granted viewing session. Rows are append-only audit records:
// repeated grants for the same visitor create new rows rather than
// refreshing an existing one.
type View struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Identifier  string    `gorm:"index" json:"identifier"`
	TargetKind  string    `json:"targetKind"` // "link" or "dataroom"
	ViewerEmail string    `json:"viewerEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}
