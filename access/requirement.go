// Package access implements the link policy evaluator and the visitor-side
// access flow used to satisfy it.
package access

import "time"

// Requirement is what a visitor must present before a view can be granted.
type Requirement int

const (
	RequirementOpen Requirement = iota
	RequirementPassword
	RequirementEmail
	RequirementPasswordEmail
	RequirementExpired
	RequirementArchived
)

func (r Requirement) String() string {
	switch r {
	case RequirementOpen:
		return "open"
	case RequirementPassword:
		return "password"
	case RequirementEmail:
		return "email"
	case RequirementPasswordEmail:
		return "password+email"
	case RequirementExpired:
		return "expired"
	case RequirementArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// Terminal reports whether no credential can satisfy the requirement.
func (r Requirement) Terminal() bool {
	return r == RequirementExpired || r == RequirementArchived
}

// RequiresPassword reports whether a password must be checked before a
// code is issued.
func (r Requirement) RequiresPassword() bool {
	return r == RequirementPassword || r == RequirementPasswordEmail
}

// RequiresEmail reports whether the code has to make an email round trip.
func (r Requirement) RequiresEmail() bool {
	return r == RequirementEmail || r == RequirementPasswordEmail
}

// Gate is the capability descriptor of a link or dataroom: everything the
// policy evaluator needs, detached from the concrete record type so that
// the verification service stays identifier-agnostic.
type Gate struct {
	Identifier   string
	PasswordHash string // empty when not password protected
	RequireEmail bool
	ExpiresAt    *time.Time
	Archived     bool
}

// Evaluate computes the access requirement for a gate at the given instant.
// Archival dominates expiry, which dominates the credential conjunction.
// Callers must re-evaluate on every access attempt; archival and expiry
// state can change between a visitor's first load and a later step.
func Evaluate(g Gate, now time.Time) Requirement {
	if g.Archived {
		return RequirementArchived
	}

	if g.ExpiresAt != nil && g.ExpiresAt.Before(now) {
		return RequirementExpired
	}

	hasPassword := g.PasswordHash != ""

	switch {
	case hasPassword && g.RequireEmail:
		return RequirementPasswordEmail
	case hasPassword:
		return RequirementPassword
	case g.RequireEmail:
		return RequirementEmail
	default:
		return RequirementOpen
	}
}
