package access

import "time"

// State names one position in the visitor-facing access flow.
type State int

const (
	StateUnverified State = iota
	StateAwaitingCredentials
	StateCodeRequested
	StateVerified
	StateGranted
	StateExpiredLink
	StateArchivedLink
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateAwaitingCredentials:
		return "awaiting_credentials"
	case StateCodeRequested:
		return "code_requested"
	case StateVerified:
		return "verified"
	case StateGranted:
		return "granted"
	case StateExpiredLink:
		return "expired_link"
	case StateArchivedLink:
		return "archived_link"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Done reports whether the flow reached a terminal state.
func (s State) Done() bool {
	switch s {
	case StateGranted, StateExpiredLink, StateArchivedLink, StateUnauthorized:
		return true
	}
	return false
}

// Client is the slice of the verification and view API the flow drives.
type Client interface {
	// RequestCode asks the backend to issue a one-time code. The returned
	// code is empty for email-protected gates, where it only travels
	// out-of-band.
	RequestCode(identifier, email, password string) (string, error)
	// ValidateCode checks an already-issued code.
	ValidateCode(code, identifier string) error
	// GrantView records the viewing session and returns its handle.
	GrantView(identifier, email string) (string, error)
}

// Flow is the client access state machine. One Flow instance covers one
// visitor's attempt against one gate; a fresh page load builds a fresh Flow.
type Flow struct {
	client Client
	gate   Gate
	now    func() time.Time

	state   State
	email   string
	viewID  string
	lastErr error
}

// NewFlow returns a flow in StateUnverified. now may be nil, in which case
// time.Now is used.
func NewFlow(client Client, gate Gate, now func() time.Time) *Flow {
	if now == nil {
		now = time.Now
	}

	return &Flow{
		client: client,
		gate:   gate,
		now:    now,
		state:  StateUnverified,
	}
}

func (f *Flow) State() State { return f.state }

// ViewID returns the session handle once the flow is in StateGranted.
func (f *Flow) ViewID() string { return f.viewID }

// Err returns the error behind the most recent failed transition.
func (f *Flow) Err() error { return f.lastErr }

// Start drives the initial page load. codeParam carries an already-issued
// code arriving in the request's addressable parameters (the email-link
// round trip); it short-circuits past the credential form even though the
// flow is still unverified. A validation failure there is terminal: the
// visitor gets a blocking unauthorized view, not a retry form.
func (f *Flow) Start(codeParam string) State {
	if f.state != StateUnverified {
		return f.state
	}

	req := Evaluate(f.gate, f.now())
	switch req {
	case RequirementArchived:
		f.state = StateArchivedLink
		return f.state
	case RequirementExpired:
		f.state = StateExpiredLink
		return f.state
	}

	if codeParam != "" {
		if err := f.client.ValidateCode(codeParam, f.gate.Identifier); err != nil {
			f.lastErr = err
			f.state = StateUnauthorized
			return f.state
		}

		f.state = StateVerified
		return f.grant()
	}

	if req == RequirementOpen {
		return f.grant()
	}

	f.state = StateAwaitingCredentials
	return f.state
}

// SubmitCredentials handles the access form. A password-only gate grants
// immediately on a successful code request; an email-protected gate parks
// the flow in StateCodeRequested until the emailed link re-enters a fresh
// flow with the code parameter.
func (f *Flow) SubmitCredentials(email, password string) State {
	if f.state != StateAwaitingCredentials {
		return f.state
	}

	// Re-derive on every attempt: the link may have been archived or may
	// have expired since the form was rendered.
	req := Evaluate(f.gate, f.now())
	switch req {
	case RequirementArchived:
		f.state = StateArchivedLink
		return f.state
	case RequirementExpired:
		f.state = StateExpiredLink
		return f.state
	}

	f.email = email

	if _, err := f.client.RequestCode(f.gate.Identifier, email, password); err != nil {
		// Wrong password or transient failure. The form stays up and the
		// visitor may retry.
		f.lastErr = err
		return f.state
	}

	if req.RequiresEmail() {
		f.state = StateCodeRequested
		return f.state
	}

	f.state = StateVerified
	return f.grant()
}

func (f *Flow) grant() State {
	viewID, err := f.client.GrantView(f.gate.Identifier, f.email)
	if err != nil {
		f.lastErr = err
		f.state = StateUnauthorized
		return f.state
	}

	f.viewID = viewID
	f.state = StateGranted
	return f.state
}
