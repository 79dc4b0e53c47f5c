package access

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	requestErr  error
	validateErr error
	grantErr    error

	requested []string
	validated []string
	granted   []string
}

func (f *fakeClient) RequestCode(identifier, email, password string) (string, error) {
	if f.requestErr != nil {
		return "", f.requestErr
	}
	f.requested = append(f.requested, identifier)
	return "CODE12345678", nil
}

func (f *fakeClient) ValidateCode(code, identifier string) error {
	if f.validateErr != nil {
		return f.validateErr
	}
	f.validated = append(f.validated, code)
	return nil
}

func (f *fakeClient) GrantView(identifier, email string) (string, error) {
	if f.grantErr != nil {
		return "", f.grantErr
	}
	f.granted = append(f.granted, identifier)
	return "view-1", nil
}

func TestFlowOpenLinkGrantsImmediately(t *testing.T) {
	client := &fakeClient{}
	f := NewFlow(client, Gate{Identifier: "l1"}, nil)

	assert.Equal(t, StateGranted, f.Start(""))
	assert.Equal(t, "view-1", f.ViewID())
	assert.Empty(t, client.requested)
	assert.Empty(t, client.validated)
}

func TestFlowArchivedIsTerminal(t *testing.T) {
	client := &fakeClient{}
	f := NewFlow(client, Gate{Identifier: "l1", Archived: true}, nil)

	assert.Equal(t, StateArchivedLink, f.Start(""))
	assert.True(t, f.State().Done())
	assert.Empty(t, client.granted)
}

func TestFlowExpiredIsTerminal(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	client := &fakeClient{}
	f := NewFlow(client, Gate{Identifier: "l1", ExpiresAt: &past}, nil)

	assert.Equal(t, StateExpiredLink, f.Start(""))
	assert.Empty(t, client.granted)
}

func TestFlowCodeParamShortCircuitsCredentialForm(t *testing.T) {
	client := &fakeClient{}
	gate := Gate{Identifier: "l1", PasswordHash: "h", RequireEmail: true}
	f := NewFlow(client, gate, nil)

	assert.Equal(t, StateGranted, f.Start("ABC123456789"))
	assert.Equal(t, []string{"ABC123456789"}, client.validated)
	// No code was requested; the visitor arrived with one.
	assert.Empty(t, client.requested)
}

func TestFlowInvalidCodeParamIsTerminalUnauthorized(t *testing.T) {
	client := &fakeClient{validateErr: errors.New("unauthorized")}
	f := NewFlow(client, Gate{Identifier: "l1", RequireEmail: true}, nil)

	assert.Equal(t, StateUnauthorized, f.Start("WRONGCODE000"))
	assert.True(t, f.State().Done())
	assert.Error(t, f.Err())
	assert.Empty(t, client.granted)
}

func TestFlowPasswordOnlyGrantsOnRequestCode(t *testing.T) {
	client := &fakeClient{}
	f := NewFlow(client, Gate{Identifier: "l1", PasswordHash: "h"}, nil)

	require.Equal(t, StateAwaitingCredentials, f.Start(""))
	assert.Equal(t, StateGranted, f.SubmitCredentials("", "secret"))
	assert.Equal(t, []string{"l1"}, client.requested)
	assert.Equal(t, []string{"l1"}, client.granted)
}

func TestFlowEmailProtectedParksInCodeRequested(t *testing.T) {
	client := &fakeClient{}
	f := NewFlow(client, Gate{Identifier: "l1", RequireEmail: true}, nil)

	require.Equal(t, StateAwaitingCredentials, f.Start(""))
	assert.Equal(t, StateCodeRequested, f.SubmitCredentials("a@b.com", ""))
	assert.Empty(t, client.granted)

	// The emailed link re-enters the machine as a fresh flow carrying the
	// code parameter.
	f2 := NewFlow(client, Gate{Identifier: "l1", RequireEmail: true}, nil)
	assert.Equal(t, StateGranted, f2.Start("CODE12345678"))
}

func TestFlowWrongPasswordKeepsFormUp(t *testing.T) {
	client := &fakeClient{requestErr: errors.New("invalid credentials")}
	f := NewFlow(client, Gate{Identifier: "l1", PasswordHash: "h"}, nil)

	require.Equal(t, StateAwaitingCredentials, f.Start(""))
	assert.Equal(t, StateAwaitingCredentials, f.SubmitCredentials("", "wrong"))
	assert.Error(t, f.Err())
	assert.False(t, f.State().Done())
}

func TestFlowReDerivesPolicyOnSubmit(t *testing.T) {
	// The link expires between the form render and the submit.
	expiry := time.Now().Add(time.Minute)
	current := time.Now()
	now := func() time.Time { return current }

	client := &fakeClient{}
	f := NewFlow(client, Gate{Identifier: "l1", PasswordHash: "h", ExpiresAt: &expiry}, now)

	require.Equal(t, StateAwaitingCredentials, f.Start(""))

	current = current.Add(2 * time.Minute)
	assert.Equal(t, StateExpiredLink, f.SubmitCredentials("", "secret"))
	assert.Empty(t, client.requested)
}

func TestFlowStartIsIdempotentAfterLeavingUnverified(t *testing.T) {
	client := &fakeClient{}
	f := NewFlow(client, Gate{Identifier: "l1"}, nil)

	require.Equal(t, StateGranted, f.Start(""))
	assert.Equal(t, StateGranted, f.Start(""))
	assert.Len(t, client.granted, 1)
}
