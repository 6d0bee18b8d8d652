package session

import "context"

// GuardState is the lifecycle of one guard evaluation.
type GuardState string

const (
	// GuardLoading is the initial state before the session has been checked.
	GuardLoading GuardState = "loading"
	// GuardAuthorized means the session satisfied every admin requirement.
	GuardAuthorized GuardState = "authorized"
	// GuardUnauthorized means the check ran and the session failed it.
	GuardUnauthorized GuardState = "unauthorized"
)

// Guard produces per-request admin checks. Every protected request gets a
// fresh Check so authorization is always evaluated against the current
// session, never a cached verdict.
type Guard struct {
	sessions *Service
}

// NewGuard builds a guard over the session service.
func NewGuard(sessions *Service) *Guard {
	return &Guard{sessions: sessions}
}

// Check is a single evaluation. It starts in the loading state and settles
// into a terminal state after Evaluate.
type Check struct {
	sessions *Service
	state    GuardState
}

// NewCheck starts a fresh evaluation in the loading state.
func (g *Guard) NewCheck() *Check {
	return &Check{sessions: g.sessions, state: GuardLoading}
}

// Evaluate resolves the check to authorized or unauthorized and returns the
// terminal state. Calling it again re-runs the session check.
func (c *Check) Evaluate(ctx context.Context) GuardState {
	if c.sessions.IsAuthenticated(ctx) {
		c.state = GuardAuthorized
	} else {
		c.state = GuardUnauthorized
	}
	return c.state
}

// State returns the current state without re-evaluating.
func (c *Check) State() GuardState {
	return c.state
}
