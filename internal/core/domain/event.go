package domain

import "time"

// AuthEventType classifies an entry of the authentication audit trail.
type AuthEventType string

const (
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventLoginThrottled AuthEventType = "login_throttled"
	EventRegistered     AuthEventType = "registered"
)

// AuthEvent records something that happened to an account's credentials.
type AuthEvent struct {
	ID         string
	Type       AuthEventType
	Subject    string
	Reason     string // optional, failure cause
	OccurredAt time.Time
}
