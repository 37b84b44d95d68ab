package domain

import "time"

// AuthEventKind names an authentication outcome worth auditing.
type AuthEventKind string

const (
	EventRegistered     AuthEventKind = "registered"
	EventLoginSucceeded AuthEventKind = "login_succeeded"
	EventLoginFailed    AuthEventKind = "login_failed"
)

// AuthEvent is a single entry of the authentication audit trail.
type AuthEvent struct {
	Username   string
	Kind       AuthEventKind
	OccurredAt time.Time
}
