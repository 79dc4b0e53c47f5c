package service

import (
	"fmt"
	"time"

	"paperroom/access-api/model"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// Views records granted viewing sessions. It has no authority to re-check
// credentials: callers satisfy the policy evaluator first. Every call
// appends a fresh record; views are cheap audit rows, not a deduplicated
// session table.
type Views struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewViews(db *gorm.DB) *Views {
	return &Views{DB: db, Now: time.Now}
}

// Grant creates one View for the target and returns its opaque handle.
func (s *Views) Grant(kind TargetKind, identifier, viewerEmail string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate view ID, %w", err)
	}

	view := model.View{
		ID:          id,
		Identifier:  identifier,
		TargetKind:  string(kind),
		ViewerEmail: viewerEmail,
		CreatedAt:   s.Now(),
	}

	if err := s.DB.Create(&view).Error; err != nil {
		return "", fmt.Errorf("failed to create view, %w", err)
	}

	return view.ID, nil
}
