package domain

import "time"

// Actor is the resolved identity performing an operation. Identity
// resolution itself (sessions, tokens) happens outside this subsystem; the
// HTTP layer constructs an Actor and threads it explicitly into every
// usecase call so tests can substitute arbitrary identities.
type Actor struct {
	UserID string
}

// Organization is an existence-checked reference target. This subsystem
// never creates or mutates organizations.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
