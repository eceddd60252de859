package models

import (
	"errors"
	"time"
)

// Session represents one conversation to back up
type Session struct {
	SessionID   string // UUID from filename or sessionId field
	Project     string // Display name, derived from working directory
	ProjectPath string // Decoded originating working directory
	StartTime   time.Time
	FileMtime   time.Time
	RecordCount int
}

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	if s.SessionID == "" {
		return errors.New("session_id is required")
	}
	if s.Project == "" {
		return errors.New("project is required")
	}
	return nil
}

// ShortID returns the abbreviated display form of the session id.
func (s *Session) ShortID() string {
	if len(s.SessionID) > 8 {
		return s.SessionID[:8]
	}
	return s.SessionID
}
