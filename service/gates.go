// Package service implements the verification code lifecycle and view
// granting on top of the database
package service

import (
	"errors"
	"fmt"

	"paperroom/access-api/access"
	"paperroom/access-api/apperr"
	"paperroom/access-api/model"

	"gorm.io/gorm"
)

// TargetKind distinguishes the two gated record types behind the otherwise
// identifier-agnostic verification service.
type TargetKind string

const (
	TargetLink     TargetKind = "link"
	TargetDataroom TargetKind = "dataroom"
)

// ParseTargetKind maps the wire value onto a TargetKind, defaulting to
// link for the common case where clients omit it.
func ParseTargetKind(s string) (TargetKind, error) {
	switch s {
	case "", string(TargetLink):
		return TargetLink, nil
	case string(TargetDataroom):
		return TargetDataroom, nil
	default:
		return "", fmt.Errorf("%w: unknown target kind %q", apperr.ErrValidation, s)
	}
}

// GateResolver turns an identifier plus kind into the capability
// descriptor the policy evaluator and verification service work with.
type GateResolver struct {
	DB *gorm.DB
}

// Resolve fetches the target record and strips it down to its gate. A
// missing record surfaces as apperr.ErrNotFound.
func (r *GateResolver) Resolve(kind TargetKind, identifier string) (access.Gate, error) {
	switch kind {
	case TargetDataroom:
		var d model.Dataroom
		if err := r.DB.Where("id = ?", identifier).First(&d).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return access.Gate{}, fmt.Errorf("%w: dataroom %s", apperr.ErrNotFound, identifier)
			}
			return access.Gate{}, err
		}

		return access.Gate{
			Identifier:   d.ID,
			PasswordHash: deref(d.Password),
			RequireEmail: d.EmailProtected,
			ExpiresAt:    d.ExpiresAt,
			Archived:     d.IsArchived,
		}, nil
	default:
		var l model.Link
		if err := r.DB.Where("id = ?", identifier).First(&l).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return access.Gate{}, fmt.Errorf("%w: link %s", apperr.ErrNotFound, identifier)
			}
			return access.Gate{}, err
		}

		return access.Gate{
			Identifier:   l.ID,
			PasswordHash: deref(l.Password),
			RequireEmail: l.EmailProtected,
			ExpiresAt:    l.ExpiresAt,
			Archived:     l.IsArchived,
		}, nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
