package domain

import "time"

// Assertion is the decoded content of a verified token.
type Assertion struct {
	Subject   string
	Claims    map[string]any
	IssuedAt  time.Time
	ExpiresAt time.Time
}
