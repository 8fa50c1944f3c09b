// Package session holds the server-side login session for the admin
// console. The browser only carries an opaque session id cookie; the
// platform token and tenant scope live here.
package session

import "time"

type Session struct {
	// Credentials for the platform API
	Token    string
	SchoolID int

	// Display identity
	UserID   int
	UserName string
	Email    string

	CreatedAt time.Time
}

// Valid reports whether the session can authorize tenant-scoped API
// calls: it needs both the bearer token and the school id.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.SchoolID > 0
}

// Store keeps sessions keyed by the browser cookie value. Lookups on
// unknown or expired ids fail softly with ok=false, never an error.
type Store interface {
	Put(sessionID string, session Session) error
	Get(sessionID string) (Session, bool)
	Delete(sessionID string)
}
