package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateArchivedDominatesEverything(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	gates := []Gate{
		{Archived: true},
		{Archived: true, PasswordHash: "$argon2id$..."},
		{Archived: true, RequireEmail: true},
		{Archived: true, PasswordHash: "$argon2id$...", RequireEmail: true},
		{Archived: true, ExpiresAt: &past},
		{Archived: true, ExpiresAt: &future},
	}

	for _, g := range gates {
		assert.Equal(t, RequirementArchived, Evaluate(g, now))
	}
}

func TestEvaluateExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	gates := []Gate{
		{ExpiresAt: &past},
		{ExpiresAt: &past, PasswordHash: "$argon2id$..."},
		{ExpiresAt: &past, RequireEmail: true},
	}

	for _, g := range gates {
		assert.Equal(t, RequirementExpired, Evaluate(g, now))
	}
}

func TestEvaluateCredentialConjunction(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)

	cases := []struct {
		name string
		gate Gate
		want Requirement
	}{
		{"open", Gate{}, RequirementOpen},
		{"open with future expiry", Gate{ExpiresAt: &future}, RequirementOpen},
		{"password only", Gate{PasswordHash: "h"}, RequirementPassword},
		{"email only", Gate{RequireEmail: true}, RequirementEmail},
		{"both", Gate{PasswordHash: "h", RequireEmail: true}, RequirementPasswordEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.gate, now))
		})
	}
}

func TestRequirementPredicates(t *testing.T) {
	assert.True(t, RequirementArchived.Terminal())
	assert.True(t, RequirementExpired.Terminal())
	assert.False(t, RequirementOpen.Terminal())
	assert.False(t, RequirementPasswordEmail.Terminal())

	assert.True(t, RequirementPassword.RequiresPassword())
	assert.True(t, RequirementPasswordEmail.RequiresPassword())
	assert.False(t, RequirementEmail.RequiresPassword())

	assert.True(t, RequirementEmail.RequiresEmail())
	assert.True(t, RequirementPasswordEmail.RequiresEmail())
	assert.False(t, RequirementPassword.RequiresEmail())
}
