package core

import "strings"

// ValidateSessionID checks that a session id is usable as an index scope.
func ValidateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrEmptySessionID
	}
	return nil
}

// ValidateQuery checks that a query has content.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// Validate checks that a Turn is well-formed.
func (t *Turn) Validate() error {
	if t.Role != RoleUser && t.Role != RoleAssistant {
		return ErrInvalidRole
	}
	if strings.TrimSpace(t.Content) == "" {
		return ErrEmptyText
	}
	return nil
}
