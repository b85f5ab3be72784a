package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SessionID identifies a screenshot session
type SessionID string

// NewSessionID generates a new UUID v4 SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// Validate checks if the SessionID is a well-formed UUID
func (x SessionID) Validate() error {
	if x == "" {
		return goerr.New("session ID cannot be empty")
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "session ID must be a UUID", goerr.V("id", x))
	}
	return nil
}

func (x SessionID) String() string {
	return string(x)
}

// ScreenshotID identifies a captured screenshot within a session
type ScreenshotID string

// NewScreenshotID generates a new UUID v4 ScreenshotID
func NewScreenshotID() ScreenshotID {
	return ScreenshotID(uuid.New().String())
}

func (x ScreenshotID) String() string {
	return string(x)
}

// UserID identifies the session owner as resolved by the auth boundary
type UserID string

func (x UserID) String() string {
	return string(x)
}

// AnonymousUserID is used when the server runs without authentication
const AnonymousUserID UserID = "anonymous"
